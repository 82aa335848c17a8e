package jsonschema

import "regexp"

// Regexp is the representation of compiled regular expression.
type Regexp interface {
	MatchString(string) bool
	String() string
}

// RegexpEngine compiles pattern into [Regexp].
// Patterns are unanchored and must be treated as unicode.
type RegexpEngine func(pattern string) (Regexp, error)

func goRegexpCompile(pattern string) (Regexp, error) {
	return regexp.Compile(pattern)
}
