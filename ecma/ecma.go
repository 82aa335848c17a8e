// Package ecma provides an ECMA-262 regular expression engine for
// jsonschema, backed by github.com/dlclark/regexp2.
//
// The json-schema specification defines regexes in terms of
// ECMA-262; the standard library accepts a slightly different
// language. Use this engine when strict conformance matters:
//
//	c := jsonschema.NewContext()
//	c.SetRegexpEngine(ecma.Compile)
package ecma

import (
	"github.com/dlclark/regexp2"

	"github.com/schemaline/jsonschema"
)

type ecmaRegexp regexp2.Regexp

var _ jsonschema.Regexp = (*ecmaRegexp)(nil)

func (re *ecmaRegexp) MatchString(s string) bool {
	matched, err := (*regexp2.Regexp)(re).MatchString(s)
	return err == nil && matched
}

func (re *ecmaRegexp) String() string {
	return (*regexp2.Regexp)(re).String()
}

// Compile implements [jsonschema.RegexpEngine].
func Compile(expr string) (jsonschema.Regexp, error) {
	re, err := regexp2.Compile(expr, regexp2.ECMAScript|regexp2.Unicode)
	if err != nil {
		return nil, err
	}
	return (*ecmaRegexp)(re), nil
}
