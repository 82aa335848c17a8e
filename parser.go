package jsonschema

import (
	"context"
)

// parser walks a schema document top-down, classifies keys against
// the current dialect's keyword table, sorts them into a program, and
// dispatches each keyword's parse in order. Side effects register
// resources, anchors and references; references are bound after the
// full walk by the resolve pass.
type parser struct {
	c      *Context
	ctx    context.Context
	frames []*frame
}

func newParser(c *Context, ctx context.Context) *parser {
	return &parser{c: c, ctx: ctx}
}

func (p *parser) top() *frame {
	return p.frames[len(p.frames)-1]
}

func (p *parser) push(key string, node any) *frame {
	var parent *frame
	f := &frame{key: key, hasKey: true, node: node}
	if len(p.frames) > 0 {
		parent = p.top()
		f.parent = parent
		f.resPtr = parent.resPtr + "/" + escape(key)
	}
	p.frames = append(p.frames, f)
	return f
}

func (p *parser) pop() {
	p.frames = p.frames[:len(p.frames)-1]
}

// baseURI returns the current base uri.
func (p *parser) baseURI() string {
	return p.top().nearestBaseURI()
}

// resource returns the resource of the nearest schema frame.
func (p *parser) resource() *Resource {
	return p.top().nearestResource()
}

// schemaNode returns the schema object owning the keyword being
// parsed.
func (p *parser) schemaNode() *Object {
	if f := p.top().parent; f != nil {
		if obj, ok := f.node.(*Object); ok {
			return obj
		}
	}
	return nil
}

// loc returns the current absolute location, for error reporting
// during parse.
func (p *parser) loc() string {
	if res := p.resource(); res != nil {
		root := res.idRoot
		uri := root.canonicalURI
		if uri == "" {
			uri = root.uri
		}
		return uri + "#" + p.top().resPtr
	}
	return p.baseURI() + "#" + p.top().resPtr
}

// parseRoot parses doc as a standalone document rooted at uri.
func (p *parser) parseRoot(uri string, doc any) error {
	uri = normalizeURL(uri)
	if existing, ok := p.c.reg.docs[uri]; ok {
		if obj1, ok := existing.(*Object); ok {
			if obj2, ok := doc.(*Object); ok && obj1 == obj2 {
				return nil
			}
		}
	}
	p.c.reg.docs[uri] = doc
	f := &frame{node: doc, baseURI: uri}
	p.frames = append(p.frames, f)
	defer p.pop()
	if err := p.parseNode(); err != nil {
		return err
	}
	if obj, ok := doc.(*Object); ok {
		res := p.c.reg.lookupByNode(obj)
		if res.uri == "" {
			res.uri = uri
		}
		p.c.reg.byURI[uri] = res
	}
	return nil
}

// parseNode runs the parse pipeline on the current frame's node.
// Boolean schemas short-circuit; object schemas get a resource and a
// sorted keyword program; anything else fails.
func (p *parser) parseNode() error {
	f := p.top()
	switch node := f.node.(type) {
	case bool:
		return nil
	case *Object:
		if res := p.c.reg.lookupByNode(node); res != nil {
			// node already parsed; a node's resource, once
			// initialized, is stable for its lifetime
			f.res = res
			f.baseURI = res.baseURI
			return nil
		}

		dialect, err := p.dispatchDialect(node)
		if err != nil {
			return err
		}

		res := &Resource{node: node, baseURI: f.nearestBaseURI(), dialect: dialect}
		if enclosing := p.enclosingResource(); enclosing != nil {
			res.idRoot = enclosing.idRoot
			res.ptr = f.resPtr
		} else {
			// topmost resource of this parse
			res.makeIdentified(f.nearestBaseURI())
		}
		p.c.reg.register(res, "")
		f.res = res

		keys := make([]programKey, 0, node.Len())
		for pair := node.Oldest(); pair != nil; pair = pair.Next() {
			kw, ok := dialect.keywords[pair.Key]
			if !ok {
				kw = annotationKeyword(pair.Key)
			}
			keys = append(keys, programKey{pair.Key, kw, pair.Value})
		}
		if err := sortProgram(keys); err != nil {
			return err
		}
		res.keys = keys

		for _, pk := range keys {
			p.push(pk.key, pk.value)
			if pk.kw.Parse != nil {
				err = pk.kw.Parse(p, pk.value)
			}
			p.pop()
			if err != nil {
				return err
			}
		}
		return nil
	default:
		return &SchemaNotObjectError{p.baseURI() + "#" + f.resPtr}
	}
}

// dispatchDialect recognizes "$schema" on node, falling back to the
// enclosing resource's dialect and then the context default.
func (p *parser) dispatchDialect(node *Object) (*Dialect, error) {
	f := p.top()
	if v, ok := objGet(node, "$schema"); ok {
		s, ok := v.(string)
		if !ok {
			return nil, &KeywordValueError{p.baseURI() + "#" + f.resPtr, "$schema", "a string"}
		}
		d, ok := p.c.dialects[normalizeURL(s)]
		if !ok {
			return nil, &UnknownDialectError{p.baseURI() + "#" + f.resPtr, s}
		}
		return d, nil
	}
	if enclosing := p.enclosingResource(); enclosing != nil {
		return enclosing.dialect, nil
	}
	return p.c.defaultDialect, nil
}

// enclosingResource returns the resource of the nearest enclosing
// schema frame, excluding the current one.
func (p *parser) enclosingResource() *Resource {
	f := p.top()
	if f.parent == nil {
		return f.res // seeded detached parses carry their context here
	}
	return f.parent.nearestResource()
}

// parseChild parses node as a subschema under key.
func (p *parser) parseChild(key string, node any) error {
	p.push(key, node)
	defer p.pop()
	return p.parseNode()
}

// parseSelf parses the current keyword's value as a subschema,
// keeping the keyword frame as the schema frame.
func (p *parser) parseSelf() error {
	return p.parseNode()
}
