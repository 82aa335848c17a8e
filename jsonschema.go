package jsonschema

import (
	"context"
	"maps"
)

// A Schema is the handle to a parsed schema document, bound to the
// context that parsed it.
type Schema struct {
	c    *Context
	node any
	loc  string
}

// ParseSchema parses doc rooted at url and binds every reference it
// records, fetching external resources through the context's loader.
// The loader call is the only point where parsing may block on ctx.
//
// Parse errors fail immediately; no partial state is visible to the
// caller afterwards.
func (c *Context) ParseSchema(ctx context.Context, url string, doc any) (*Schema, error) {
	// a failed parse leaves the registry as it was
	saved := *c.reg
	saved.byNode, saved.byURI = maps.Clone(c.reg.byNode), maps.Clone(c.reg.byURI)
	saved.docs, saved.refs = maps.Clone(c.reg.docs), maps.Clone(c.reg.refs)
	p := newParser(c, ctx)
	if err := p.parseRoot(url, doc); err != nil {
		*c.reg = saved
		return nil, err
	}
	if err := p.resolvePending(); err != nil {
		*c.reg = saved
		return nil, err
	}
	loc := normalizeURL(url) + "#"
	if obj, ok := doc.(*Object); ok {
		loc = c.reg.lookupByNode(obj).location()
	}
	return &Schema{c: c, node: doc, loc: loc}, nil
}

// ParseSchemaURL loads the document at url through the context's
// loader and parses it.
func (c *Context) ParseSchemaURL(ctx context.Context, url string) (*Schema, error) {
	p := newParser(c, ctx)
	doc, err := p.loadDoc(normalizeURL(url))
	if err != nil {
		return nil, err
	}
	return c.ParseSchema(ctx, url, doc)
}

// MustParseSchema is like [Context.ParseSchema] but panics on error.
func (c *Context) MustParseSchema(url string, doc any) *Schema {
	s, err := c.ParseSchema(context.Background(), url, doc)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate evaluates instance v against the schema and returns the
// output tree. The root unit's Valid flag reflects the overall
// result; the error return is reserved for host failures such as a
// non-json value, never for instance non-conformance.
func (s *Schema) Validate(v any) (*OutputUnit, error) {
	vd := &validator{c: s.c}
	out := &OutputUnit{
		Valid:                   true,
		AbsoluteKeywordLocation: s.loc,
	}
	f := &frame{node: s.node, instance: v, out: out}
	vd.frames = []*frame{f}
	if err := vd.validateNode(s.node); err != nil {
		return nil, err
	}
	return out, nil
}
