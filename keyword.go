package jsonschema

import "strings"

// A Keyword describes one schema keyword: how to parse its value and
// how to validate an instance against it. Keywords are plain values,
// not subclasses; a [Dialect] is a table of them, and custom keywords
// are added by registering new tables.
type Keyword struct {
	// Name is the keyword, such as "allOf" or "$ref".
	Name string

	// Dependencies names keywords that must run before this one.
	// Names starting with '@' are virtual: they are ordering barriers
	// that never appear in a schema.
	Dependencies []string

	// Dependents names keywords that must run after this one.
	Dependents []string

	// Parse validates and compiles the keyword value v.
	// It runs inside a frame bound to (key, v); subschemas are parsed
	// through the parser, and side effects register resources, anchors
	// and references. nil means any value is accepted.
	Parse func(p *parser, v any) error

	// Validate checks the current instance against the keyword value v
	// and attaches errors/annotations to the current output frame.
	// nil means the keyword has no validation effect.
	Validate func(vd *validator, v any) error
}

// isVirtual tells whether name is a virtual ordering barrier.
func isVirtual(name string) bool {
	return strings.HasPrefix(name, "@")
}

// annotationKeyword returns the descriptor used for keywords
// unrecognized in the current dialect: parse accepts any value,
// validate records the value as an annotation.
func annotationKeyword(name string) *Keyword {
	return &Keyword{
		Name:     name,
		Validate: validateAnnotationOnly,
	}
}

func validateAnnotationOnly(vd *validator, v any) error {
	vd.annotate(v)
	return nil
}

// programKey is one entry of a schema node's compiled keyword program.
type programKey struct {
	key   string
	kw    *Keyword
	value any
}
