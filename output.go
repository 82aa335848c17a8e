package jsonschema

import (
	"encoding/json"
	"strings"
)

// OutputUnit is one node of the validation result tree.
// The tree mirrors the dynamic evaluation stack: a child unit is
// attached to the unit of the nearest enclosing frame that owns one.
type OutputUnit struct {
	Valid bool

	// KeywordLocation is the dynamic path of the validating keyword,
	// a json-pointer through the evaluation path including $ref hops.
	KeywordLocation string

	// AbsoluteKeywordLocation is the absolute uri of the validating
	// keyword within its resource.
	AbsoluteKeywordLocation string

	// InstanceLocation is a json-pointer into the instance.
	InstanceLocation string

	// Error is the failure message. nil when the unit is valid.
	Error *string

	// Annotation is the value attached by a successful keyword.
	// Annotated tells whether it is present; the value itself may be
	// any json value, including null.
	Annotation any
	Annotated  bool

	Errors      []*OutputUnit
	Annotations []*OutputUnit
}

// isEmpty tells whether the unit carries nothing of substance.
func (u *OutputUnit) isEmpty() bool {
	return u.Error == nil && !u.Annotated && len(u.Errors) == 0 && len(u.Annotations) == 0
}

func (u *OutputUnit) setError(msg string) {
	u.Valid = false
	u.Error = &msg
}

func (u *OutputUnit) setAnnotation(v any) {
	u.Annotation = v
	u.Annotated = true
}

// --

// checkpoint captures the failure state of a unit, so that a
// speculative sub-evaluation can be rolled back. annotations are
// deliberately not captured: a rolled back failure removes the error
// subtree, and annotations of failed subtrees are never visible.
type checkpoint struct {
	valid   bool
	err     *string
	numErrs int
}

func (u *OutputUnit) checkpoint() checkpoint {
	return checkpoint{u.Valid, u.Error, len(u.Errors)}
}

func (u *OutputUnit) restore(c checkpoint) {
	u.Valid = c.valid
	u.Error = c.err
	u.Errors = u.Errors[:c.numErrs]
}

// --

// attach emits child unit u into parent unit p:
// empty valid units are dropped, units holding nothing but a single
// nested error or annotation are hoisted, invalid units flip the
// parent invalid.
func attach(p, u *OutputUnit) {
	if u.Valid && u.isEmpty() {
		return
	}
	if u.Error == nil && !u.Annotated && len(u.Errors) == 1 && len(u.Annotations) == 0 {
		u = u.Errors[0]
	} else if u.Valid && !u.Annotated && len(u.Errors) == 0 && len(u.Annotations) == 1 {
		u = u.Annotations[0]
	}
	if !u.Valid {
		p.Valid = false
		p.Errors = append(p.Errors, u)
	} else {
		p.Annotations = append(p.Annotations, u)
	}
}

// --

func (u *OutputUnit) MarshalJSON() ([]byte, error) {
	obj := NewObject()
	obj.Set("valid", u.Valid)
	obj.Set("keywordLocation", u.KeywordLocation)
	if u.AbsoluteKeywordLocation != "" {
		obj.Set("absoluteKeywordLocation", u.AbsoluteKeywordLocation)
	}
	obj.Set("instanceLocation", u.InstanceLocation)
	if u.Error != nil {
		obj.Set("error", *u.Error)
	}
	if u.Annotated {
		obj.Set("annotation", u.Annotation)
	}
	if len(u.Errors) > 0 {
		obj.Set("errors", u.Errors)
	}
	if len(u.Annotations) > 0 {
		obj.Set("annotations", u.Annotations)
	}
	return json.Marshal(obj)
}

// String returns an indented multiline representation,
// one line per failed keyword.
func (u *OutputUnit) String() string {
	var sb strings.Builder
	u.write(&sb, 0)
	return sb.String()
}

func (u *OutputUnit) write(sb *strings.Builder, indent int) {
	for i := 0; i < indent; i++ {
		sb.WriteString("  ")
	}
	loc := u.KeywordLocation
	if loc == "" {
		loc = "/"
	}
	sb.WriteString("I[")
	sb.WriteString(u.InstanceLocation)
	sb.WriteString("] S[")
	sb.WriteString(loc)
	sb.WriteString("] ")
	if u.Error != nil {
		sb.WriteString(*u.Error)
	} else if u.Valid {
		sb.WriteString("valid")
	} else {
		sb.WriteString("validation failed")
	}
	for _, c := range u.Errors {
		sb.WriteByte('\n')
		c.write(sb, indent+1)
	}
}
