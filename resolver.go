package jsonschema

import (
	"bytes"
	"strings"
)

// resolvePending binds every pending reference recorded during the
// walk. Resolving may fetch unknown base uris through the context's
// loader; fetched documents are parsed with the same pipeline and may
// enqueue further references, which the loop drains.
func (p *parser) resolvePending() error {
	reg := p.c.reg
	for len(reg.pending) > 0 {
		pr := reg.pending[0]
		reg.pending = reg.pending[1:]
		if _, ok := reg.refs[refKey{pr.node, pr.kind}]; ok {
			continue
		}
		target, err := p.resolveURI(pr.uri, pr.loc)
		if err != nil {
			return err
		}
		reg.refs[refKey{pr.node, pr.kind}] = &reference{
			uri:       pr.uri,
			dynAnchor: pr.dynAnchor,
			target:    target,
		}
	}
	return nil
}

// resolveURI resolves an absolute uri (with optional fragment) to a
// schema node known to the context.
func (p *parser) resolveURI(uri, loc string) (any, error) {
	reg := p.c.reg
	base, frag := splitFragment(uri)

	res := reg.lookupByURI(base)
	var rootNode any
	if res != nil {
		rootNode = res.node
	} else if doc, ok := reg.docs[base]; ok {
		rootNode = doc
	} else {
		doc, err := p.loadDoc(base)
		if err != nil {
			return nil, err
		}
		pp := newParser(p.c, p.ctx)
		if err := pp.parseRoot(base, doc); err != nil {
			return nil, err
		}
		rootNode = doc
		res = reg.lookupByURI(base)
	}

	switch {
	case frag == "":
		return rootNode, nil
	case strings.HasPrefix(frag, "/"):
		return p.resolvePtrFragment(rootNode, frag, uri, loc)
	default:
		// plain-name fragment
		if res == nil {
			return nil, &UnresolvedReferenceError{uri, loc}
		}
		node, ok := res.idRoot.anchors[frag]
		if !ok {
			return nil, &AnchorNotFoundError{URL: base, Reference: uri}
		}
		return node, nil
	}
}

// resolvePtrFragment descends a json-pointer fragment through the
// node tree and parses the target on demand if the walk never
// reached it.
func (p *parser) resolvePtrFragment(rootNode any, ptr, uri, loc string) (any, error) {
	reg := p.c.reg
	cur := rootNode
	var host *Resource
	if obj, ok := cur.(*Object); ok {
		host = reg.lookupByNode(obj)
	}
	rel := "" // pointer of cur relative to host
	for _, tok := range strings.Split(ptr[1:], "/") {
		tok = unescape(tok)
		switch v := cur.(type) {
		case *Object:
			pvalue, ok := v.Get(tok)
			if !ok {
				return nil, &UnresolvedReferenceError{uri, loc}
			}
			cur = pvalue
		case []any:
			i, ok := arrayIndex(tok, len(v))
			if !ok {
				return nil, &UnresolvedReferenceError{uri, loc}
			}
			cur = v[i]
		default:
			return nil, &UnresolvedReferenceError{uri, loc}
		}
		rel += "/" + escape(tok)
		if obj, ok := cur.(*Object); ok {
			if r := reg.lookupByNode(obj); r != nil {
				host, rel = r, ""
			}
		}
	}

	// parse on demand: the pointer may land on a node the walk never
	// classified as a schema, such as inside unknown keywords
	if obj, ok := cur.(*Object); ok && reg.lookupByNode(obj) == nil {
		if host == nil {
			return nil, &UnresolvedReferenceError{uri, loc}
		}
		pp := newParser(p.c, p.ctx)
		pp.frames = append(pp.frames, &frame{
			node:    obj,
			baseURI: host.baseURI,
			res:     host,
			resPtr:  host.ptr + rel,
		})
		if err := pp.parseNode(); err != nil {
			return nil, err
		}
		if err := pp.resolvePending(); err != nil {
			return nil, err
		}
	}
	switch cur.(type) {
	case bool, *Object:
		return cur, nil
	default:
		return nil, &UnresolvedReferenceError{uri, loc}
	}
}

func arrayIndex(tok string, n int) (int, bool) {
	i := 0
	if tok == "" {
		return 0, false
	}
	for _, ch := range tok {
		if ch < '0' || ch > '9' {
			return 0, false
		}
		i = i*10 + int(ch-'0')
		if i >= n {
			return 0, false
		}
	}
	return i, true
}

// loadDoc fetches the document at uri: embedded standard meta-schema
// documents are served without touching the host loader.
func (p *parser) loadDoc(uri string) (any, error) {
	if data, ok := embeddedMetaDoc(uri); ok {
		return UnmarshalJSON(bytes.NewReader(data))
	}
	if p.c.loader == nil {
		return nil, &UnsupportedURLSchemeError{uri}
	}
	if err := p.ctx.Err(); err != nil {
		return nil, &LoadURLError{uri, err}
	}
	doc, err := p.c.loader.Load(p.ctx, uri)
	if err != nil {
		return nil, &LoadURLError{uri, err}
	}
	return doc, nil
}
