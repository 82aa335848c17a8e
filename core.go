package jsonschema

import (
	"net/url"
	"regexp"
	"strings"
)

// core keywords: identity, anchors and references. Their ordering is
// anchored on the @base barrier: "$id" must establish the base uri
// before any keyword resolves uris or parses subschemas.

var kwSchema = &Keyword{
	Name: "$schema",
	// realized during dialect dispatch; no-op as a program keyword
}

var kwVocabulary = &Keyword{
	Name:  "$vocabulary",
	Parse: parseVocabularyValue,
	// realized by ParseDialect; no-op during validation
}

func parseVocabularyValue(p *parser, v any) error {
	obj, ok := v.(*Object)
	if !ok {
		return &KeywordValueError{p.loc(), "$vocabulary", "an object of uri to boolean"}
	}
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		if _, ok := pair.Value.(bool); !ok {
			return &KeywordValueError{p.loc(), "$vocabulary", "an object of uri to boolean"}
		}
	}
	return nil
}

// --

var kwID = &Keyword{
	Name:       "$id",
	Dependents: []string{"@base"},
	Parse:      parseID,
}

// kwLegacyID is draft-04 "id"; a plain-name fragment in it acts as
// both id and anchor.
var kwLegacyID = &Keyword{
	Name:       "id",
	Dependents: []string{"@base"},
	Parse:      parseID,
}

func parseID(p *parser, v any) error {
	f := p.top()
	res := p.resource()
	s, ok := v.(string)
	if !ok {
		return &ParseIDError{p.loc()}
	}
	if _, err := url.Parse(s); err != nil {
		return &ParseIDError{p.loc()}
	}
	if frag, ok := strings.CutPrefix(s, "#"); ok {
		// fragment-only id: a plain-name anchor in the enclosing
		// resource, permitted by pre-2019 dialects only
		if frag == "" {
			return nil
		}
		if !res.dialect.allowIDFragment {
			return &ParseIDError{p.loc()}
		}
		if !anchorRE.MatchString(frag) {
			return &ParseAnchorError{p.loc()}
		}
		return p.c.reg.setAnchor(res, frag, p.schemaNode(), false)
	}
	resolved, err := resolveURL(res.baseURI, s)
	if err != nil {
		return &ParseIDError{p.loc()}
	}
	base, frag := splitFragment(resolved)

	// the node becomes an identified resource and the new base uri
	// for its subtree
	res.baseURI = base
	if u, err := url.Parse(base); err == nil && u.IsAbs() {
		res.canonicalURI = base
	}
	res.idRoot = res
	res.ptr = ""
	if res.anchors == nil {
		res.anchors = map[string]any{}
		res.dynamicAnchors = map[string]any{}
	}
	if res.uri == "" {
		res.uri = base
	}
	p.c.reg.register(res, res.canonicalURI)

	// schema frame carries the new base and restarts pointers
	if sf := f.parent; sf != nil {
		sf.baseURI = base
		sf.resPtr = ""
	}

	if frag != "" {
		if !res.dialect.allowIDFragment {
			// non-empty fragment in "$id" is not allowed
			return &ParseIDError{p.loc()}
		}
		if !anchorRE.MatchString(frag) {
			return &ParseAnchorError{p.loc()}
		}
		if err := p.c.reg.setAnchor(res, frag, res.node, false); err != nil {
			return err
		}
	}
	return nil
}

// --

var anchorRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9\-_.]*$`)

var kwAnchor = &Keyword{
	Name:         "$anchor",
	Dependencies: []string{"@base"},
	Parse:        parseAnchor(false),
}

var kwDynamicAnchor = &Keyword{
	Name:         "$dynamicAnchor",
	Dependencies: []string{"@base"},
	Parse:        parseAnchor(true),
}

func parseAnchor(dynamic bool) func(*parser, any) error {
	return func(p *parser, v any) error {
		s, ok := v.(string)
		if !ok || !anchorRE.MatchString(s) {
			return &ParseAnchorError{p.loc()}
		}
		return p.c.reg.setAnchor(p.resource(), s, p.schemaNode(), dynamic)
	}
}

// --

var kwRef = &Keyword{
	Name:         "$ref",
	Dependencies: []string{"@base"},
	Dependents:   []string{"@unevaluated"},
	Parse:        parseRefKind(refStatic),
	Validate:     validateStaticRef,
}

var kwDynamicRef = &Keyword{
	Name:         "$dynamicRef",
	Dependencies: []string{"@base"},
	Dependents:   []string{"@unevaluated"},
	Parse:        parseRefKind(refDynamic),
	Validate:     validateDynamicRef,
}

func parseRefKind(kind refKind) func(*parser, any) error {
	return func(p *parser, v any) error {
		s, ok := v.(string)
		if !ok {
			return &KeywordValueError{p.loc(), string(kind), "a string"}
		}
		if _, err := url.Parse(s); err != nil {
			return &InvalidRefError{p.loc(), s, err}
		}
		resolved, err := resolveURL(p.baseURI(), s)
		if err != nil {
			return &InvalidRefError{p.loc(), s, err}
		}
		var dynAnchor string
		if kind == refDynamic {
			if _, frag := splitFragment(resolved); frag != "" && anchorRE.MatchString(frag) {
				dynAnchor = frag
			}
		}
		p.c.reg.registerReference(p.schemaNode(), kind, resolved, dynAnchor, p.loc())
		return nil
	}
}

func validateStaticRef(vd *validator, v any) error {
	sf := vd.schemaFrame()
	ref, ok := vd.c.reg.resolvedRef(sf.node.(*Object), refStatic)
	if !ok {
		vd.fail("unknown schema reference")
		return nil
	}
	return vd.validateSelf(ref.target)
}

func validateDynamicRef(vd *validator, v any) error {
	sf := vd.schemaFrame()
	ref, ok := vd.c.reg.resolvedRef(sf.node.(*Object), refDynamic)
	if !ok {
		vd.fail("unknown schema reference")
		return nil
	}
	target := ref.target
	if ref.dynAnchor != "" {
		if node, ok := vd.dynamicAnchorTarget(ref.dynAnchor); ok {
			target = node
		}
	}
	return vd.validateSelf(target)
}

// --

var kwDefs = &Keyword{
	Name:         "$defs",
	Dependencies: []string{"@base"},
	Parse:        parseDefs("$defs"),
}

var kwDefinitions = &Keyword{
	Name:         "definitions",
	Dependencies: []string{"@base"},
	Parse:        parseDefs("definitions"),
}

func parseDefs(name string) func(*parser, any) error {
	return func(p *parser, v any) error {
		obj, ok := v.(*Object)
		if !ok {
			return &KeywordValueError{p.loc(), name, "an object of schemas"}
		}
		for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
			if err := p.parseChild(pair.Key, pair.Value); err != nil {
				return err
			}
		}
		return nil
	}
}

// --

var kwComment = &Keyword{
	Name:  "$comment",
	Parse: parseCommentValue,
}

func parseCommentValue(p *parser, v any) error {
	if _, ok := v.(string); !ok {
		return &KeywordValueError{p.loc(), "$comment", "a string"}
	}
	return nil
}
