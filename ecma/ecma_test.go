package ecma_test

import (
	"context"
	"strings"
	"testing"

	"github.com/schemaline/jsonschema"
	"github.com/schemaline/jsonschema/ecma"
)

func TestCompile(t *testing.T) {
	re, err := ecma.Compile(`^(?!forbidden)\w+$`)
	if err != nil {
		t.Fatal(err)
	}
	if !re.MatchString("allowed") {
		t.Error("allowed must match")
	}
	if re.MatchString("forbidden") {
		t.Error("forbidden must not match")
	}
}

func TestEngineInContext(t *testing.T) {
	c := jsonschema.NewContext()
	c.SetRegexpEngine(ecma.Compile)
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(`{"pattern": "^(?=a)\\w+$"}`))
	if err != nil {
		t.Fatal(err)
	}
	s, err := c.ParseSchema(context.Background(), "test.json", doc)
	if err != nil {
		t.Fatal(err)
	}
	out, err := s.Validate("abc")
	if err != nil {
		t.Fatal(err)
	}
	if !out.Valid {
		t.Fatalf("abc must match the lookahead pattern:\n%v", out)
	}
	out, err = s.Validate("xbc")
	if err != nil {
		t.Fatal(err)
	}
	if out.Valid {
		t.Fatal("xbc must not match")
	}
}
