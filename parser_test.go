package jsonschema

import (
	"context"
	"testing"
)

func parseErr(t *testing.T, schema string) error {
	t.Helper()
	c := testContext()
	_, err := c.ParseSchema(context.Background(), "test.json", jsonValue(t, schema))
	if err == nil {
		t.Fatalf("parse of %s must fail", schema)
	}
	return err
}

func TestParseSchemaNotObject(t *testing.T) {
	err := parseErr(t, `{"properties": {"a": 1}}`)
	if _, ok := err.(*SchemaNotObjectError); !ok {
		t.Errorf("got %T (%v), want *SchemaNotObjectError", err, err)
	}
}

func TestParseUnknownDialect(t *testing.T) {
	err := parseErr(t, `{"$schema": "https://example.com/unknown-dialect"}`)
	if _, ok := err.(*UnknownDialectError); !ok {
		t.Errorf("got %T (%v), want *UnknownDialectError", err, err)
	}
}

func TestParseInvalidRegex(t *testing.T) {
	for _, schema := range []string{
		`{"pattern": "(unclosed"}`,
		`{"patternProperties": {"(unclosed": true}}`,
	} {
		err := parseErr(t, schema)
		if _, ok := err.(*InvalidRegexError); !ok {
			t.Errorf("%s: got %T (%v), want *InvalidRegexError", schema, err, err)
		}
	}
}

func TestParseIDFragment(t *testing.T) {
	// 2020-12 forbids a non-empty fragment in $id
	err := parseErr(t, `{"$id": "https://example.com/root#frag"}`)
	if _, ok := err.(*ParseIDError); !ok {
		t.Errorf("got %T (%v), want *ParseIDError", err, err)
	}

	// draft-07 permits a plain-name fragment, acting as id and anchor
	c := testContext()
	doc := jsonValue(t, `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"definitions": {
			"x": {"$id": "#name", "type": "integer"}
		},
		"$ref": "#name"
	}`)
	s, err := c.ParseSchema(context.Background(), "test.json", doc)
	if err != nil {
		t.Fatal(err)
	}
	out, err := s.Validate(jsonValue(t, `1`))
	if err != nil {
		t.Fatal(err)
	}
	if !out.Valid {
		t.Errorf("1 must be valid:\n%v", out)
	}
	out, err = s.Validate(jsonValue(t, `"x"`))
	if err != nil {
		t.Fatal(err)
	}
	if out.Valid {
		t.Error(`"x" must be invalid`)
	}
}

func TestParseInvalidAnchor(t *testing.T) {
	err := parseErr(t, `{"$anchor": "0bad"}`)
	if _, ok := err.(*ParseAnchorError); !ok {
		t.Errorf("got %T (%v), want *ParseAnchorError", err, err)
	}
}

func TestParseDuplicateAnchor(t *testing.T) {
	err := parseErr(t, `{
		"$defs": {
			"a": {"$anchor": "x"},
			"b": {"$anchor": "x"}
		}
	}`)
	if _, ok := err.(*DuplicateAnchorError); !ok {
		t.Errorf("got %T (%v), want *DuplicateAnchorError", err, err)
	}
}

func TestParseKeywordValue(t *testing.T) {
	tests := []string{
		`{"type": 1}`,
		`{"type": "str"}`,
		`{"enum": 1}`,
		`{"required": ["a", "a"]}`,
		`{"multipleOf": 0}`,
		`{"multipleOf": -2}`,
		`{"minLength": -1}`,
		`{"allOf": []}`,
		`{"maximum": "big"}`,
		`{"$ref": 1}`,
	}
	for _, schema := range tests {
		c := testContext()
		_, err := c.ParseSchema(context.Background(), "test.json", jsonValue(t, schema))
		if err == nil {
			t.Errorf("parse of %s must fail", schema)
		}
	}
}

func TestUnknownKeywordAnnotation(t *testing.T) {
	// unknown keywords never cause validation failure; they appear
	// as annotations at their schema location
	out := validateTest(t, `{"x-custom": [1, 2], "type": "number"}`, `3`)
	if !out.Valid {
		t.Fatalf("instance must be valid:\n%v", out)
	}
	found := false
	for _, a := range out.Annotations {
		if a.KeywordLocation == "/x-custom" && a.Annotated {
			found = true
		}
	}
	if !found {
		t.Error("unknown keyword must surface as annotation at /x-custom")
	}
}

func TestParseReuseSharedNode(t *testing.T) {
	c := testContext()
	doc := jsonValue(t, `{"$defs": {"a": {"type": "string"}}, "$ref": "#/$defs/a"}`)
	if _, err := c.ParseSchema(context.Background(), "a.json", doc); err != nil {
		t.Fatal(err)
	}
	// same document parsed again under a different url reuses nodes
	if _, err := c.ParseSchema(context.Background(), "b.json", doc); err != nil {
		t.Fatal(err)
	}
}
