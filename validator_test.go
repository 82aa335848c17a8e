package jsonschema

import (
	"context"
	"testing"
)

func TestBooleanSchemas(t *testing.T) {
	instances := []string{`null`, `true`, `0`, `"x"`, `[1]`, `{"a": 1}`}
	for _, doc := range instances {
		if out := validateTest(t, `true`, doc); !out.Valid {
			t.Errorf("true must accept %s", doc)
		}
		if out := validateTest(t, `false`, doc); out.Valid {
			t.Errorf("false must reject %s", doc)
		}
	}
}

func TestBasicObject(t *testing.T) {
	schema := `{
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"age": {"type": "number"}
		},
		"required": ["name"]
	}`

	out := validateTest(t, schema, `{"name": "Alice", "age": 30}`)
	if !out.Valid {
		t.Fatalf("instance must be valid:\n%v", out)
	}

	out = validateTest(t, schema, `{"age": 30}`)
	if out.Valid {
		t.Fatal("instance must be invalid")
	}
	if len(out.Errors) != 1 {
		t.Fatalf("got %d errors, want 1:\n%v", len(out.Errors), out)
	}
	if got := out.Errors[0].KeywordLocation; got != "/required" {
		t.Errorf("error at %q, want /required", got)
	}
}

func TestValidationKeywords(t *testing.T) {
	tests := []struct {
		schema   string
		instance string
		valid    bool
	}{
		{`{"type": "integer"}`, `2`, true},
		{`{"type": "integer"}`, `2.0`, true},
		{`{"type": "integer"}`, `2.5`, false},
		{`{"type": ["string", "null"]}`, `null`, true},
		{`{"type": ["string", "null"]}`, `1`, false},
		{`{"enum": [1, "a", [2]]}`, `[2]`, true},
		{`{"enum": [1, "a"]}`, `2`, false},
		{`{"const": {"a": 1}}`, `{"a": 1}`, true},
		{`{"const": 3}`, `2`, false},
		{`{"multipleOf": 0.5}`, `1.5`, true},
		{`{"multipleOf": 3}`, `7`, false},
		{`{"minimum": 3}`, `3`, true},
		{`{"minimum": 3}`, `2.9`, false},
		{`{"exclusiveMinimum": 3}`, `3`, false},
		{`{"maximum": 3}`, `3`, true},
		{`{"maximum": 3}`, `3.1`, false},
		{`{"exclusiveMaximum": 3}`, `3`, false},
		{`{"minLength": 2}`, `"héllo"`, true},
		{`{"maxLength": 4}`, `"héllo"`, false},
		{`{"maxLength": 5}`, `"héllo"`, true},
		{`{"pattern": "^a+$"}`, `"aaa"`, true},
		{`{"pattern": "^a+$"}`, `"ab"`, false},
		{`{"minItems": 2}`, `[1]`, false},
		{`{"maxItems": 2}`, `[1, 2, 3]`, false},
		{`{"uniqueItems": true}`, `[1, 2, 1.0]`, false},
		{`{"uniqueItems": true}`, `[{"a": 1}, {"a": 2}]`, true},
		{`{"minProperties": 1}`, `{}`, false},
		{`{"maxProperties": 1}`, `{"a": 1, "b": 2}`, false},
		{`{"dependentRequired": {"a": ["b"]}}`, `{"a": 1}`, false},
		{`{"dependentRequired": {"a": ["b"]}}`, `{"a": 1, "b": 2}`, true},
		// keywords are no-ops outside their domain
		{`{"minLength": 100}`, `5`, true},
		{`{"minimum": 100}`, `"x"`, true},
		{`{"required": ["a"]}`, `[1]`, true},
	}
	for _, test := range tests {
		out := validateTest(t, test.schema, test.instance)
		if out.Valid != test.valid {
			t.Errorf("%s against %s: got valid=%v, want %v\n%v",
				test.instance, test.schema, out.Valid, test.valid, out)
		}
	}
}

func TestApplicators(t *testing.T) {
	tests := []struct {
		schema   string
		instance string
		valid    bool
	}{
		{`{"allOf": [{"type": "number"}, {"minimum": 3}]}`, `5`, true},
		{`{"allOf": [{"type": "number"}, {"minimum": 3}]}`, `2`, false},
		{`{"anyOf": [{"type": "string"}, {"minimum": 3}]}`, `5`, true},
		{`{"anyOf": [{"type": "string"}, {"minimum": 3}]}`, `2`, false},
		{`{"oneOf": [{"type": "number"}, {"minimum": 3}]}`, `2`, true},
		{`{"oneOf": [{"type": "number"}, {"minimum": 3}]}`, `5`, false},
		{`{"oneOf": [{"type": "string"}, {"minimum": 3}]}`, `2`, false},
		{`{"not": {"type": "string"}}`, `1`, true},
		{`{"not": {"type": "string"}}`, `"x"`, false},
		{`{"if": {"type": "string"}, "then": {"minLength": 2}}`, `"ab"`, true},
		{`{"if": {"type": "string"}, "then": {"minLength": 2}}`, `"a"`, false},
		{`{"if": {"type": "string"}, "then": {"minLength": 2}}`, `5`, true},
		{`{"if": {"type": "number"}, "else": {"minLength": 2}}`, `"a"`, false},
		{`{"then": {"type": "string"}}`, `5`, true},
		{`{"dependentSchemas": {"a": {"required": ["b"]}}}`, `{"a": 1}`, false},
		{`{"dependentSchemas": {"a": {"required": ["b"]}}}`, `{"c": 1}`, true},
		{`{"prefixItems": [{"type": "string"}, {"type": "number"}]}`, `["a", 1]`, true},
		{`{"prefixItems": [{"type": "string"}]}`, `[1]`, false},
		{`{"prefixItems": [{"type": "string"}], "items": {"type": "number"}}`, `["a", 1, 2]`, true},
		{`{"prefixItems": [{"type": "string"}], "items": {"type": "number"}}`, `["a", 1, "b"]`, false},
		{`{"items": {"type": "number"}}`, `[1, 2]`, true},
		{`{"contains": {"type": "string"}}`, `[1, "a"]`, true},
		{`{"contains": {"type": "string"}}`, `[1, 2]`, false},
		{`{"contains": {"type": "string"}, "minContains": 0}`, `[1, 2]`, true},
		{`{"contains": {"type": "string"}, "minContains": 2}`, `[1, "a"]`, false},
		{`{"contains": {"type": "string"}, "maxContains": 1}`, `["a", "b"]`, false},
		{`{"properties": {"a": {"type": "number"}}}`, `{"a": "x"}`, false},
		{`{"patternProperties": {"^a": {"type": "number"}}}`, `{"ab": "x"}`, false},
		{`{"patternProperties": {"^a": {"type": "number"}}}`, `{"ba": "x"}`, true},
		{`{"properties": {"a": true}, "additionalProperties": false}`, `{"a": 1}`, true},
		{`{"properties": {"a": true}, "additionalProperties": false}`, `{"a": 1, "b": 2}`, false},
		{`{"patternProperties": {"^a": true}, "additionalProperties": {"type": "number"}}`, `{"ab": "x", "b": 3}`, true},
		{`{"propertyNames": {"maxLength": 2}}`, `{"ab": 1}`, true},
		{`{"propertyNames": {"maxLength": 2}}`, `{"abc": 1}`, false},
	}
	for _, test := range tests {
		out := validateTest(t, test.schema, test.instance)
		if out.Valid != test.valid {
			t.Errorf("%s against %s: got valid=%v, want %v\n%v",
				test.instance, test.schema, out.Valid, test.valid, out)
		}
	}
}

func TestKeyOrderCommutativity(t *testing.T) {
	// reordering keys in the source produces identical validity
	a := `{"unevaluatedProperties": false, "properties": {"x": true}, "allOf": [{"properties": {"y": true}}]}`
	b := `{"allOf": [{"properties": {"y": true}}], "properties": {"x": true}, "unevaluatedProperties": false}`
	for _, instance := range []string{`{"x": 1, "y": 2}`, `{"x": 1, "z": 2}`, `{}`} {
		outA := validateTest(t, a, instance)
		outB := validateTest(t, b, instance)
		if outA.Valid != outB.Valid {
			t.Errorf("key order changed result for %s: %v vs %v", instance, outA.Valid, outB.Valid)
		}
	}
}

func TestInfiniteLoop(t *testing.T) {
	c := testContext()
	s, err := c.ParseSchema(context.Background(), "loop.json", jsonValue(t, `{"allOf": [{"$ref": "#"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if _, err = s.Validate(jsonValue(t, `1`)); err == nil {
		t.Fatal("self-applying $ref must be detected")
	} else if _, ok := err.(InfiniteLoopError); !ok {
		t.Fatalf("got %T (%v), want InfiniteLoopError", err, err)
	}
}

func TestDraft7Items(t *testing.T) {
	tests := []struct {
		schema   string
		instance string
		valid    bool
	}{
		{`{"items": [{"type": "string"}, {"type": "number"}]}`, `["a", 1]`, true},
		{`{"items": [{"type": "string"}]}`, `[1]`, false},
		{`{"items": [{"type": "string"}], "additionalItems": {"type": "number"}}`, `["a", 1, 2]`, true},
		{`{"items": [{"type": "string"}], "additionalItems": {"type": "number"}}`, `["a", "b"]`, false},
		{`{"items": [{"type": "string"}], "additionalItems": false}`, `["a"]`, true},
		{`{"dependencies": {"a": ["b"]}}`, `{"a": 1}`, false},
		{`{"dependencies": {"a": {"required": ["b"]}}}`, `{"a": 1, "b": 2}`, true},
	}
	for _, test := range tests {
		c := testContext()
		if err := c.DefaultDialect("http://json-schema.org/draft-07/schema#"); err != nil {
			t.Fatal(err)
		}
		s, err := c.ParseSchema(context.Background(), "test.json", jsonValue(t, test.schema))
		if err != nil {
			t.Fatal(err)
		}
		out, err := s.Validate(jsonValue(t, test.instance))
		if err != nil {
			t.Fatal(err)
		}
		if out.Valid != test.valid {
			t.Errorf("%s against draft-07 %s: got valid=%v, want %v\n%v",
				test.instance, test.schema, out.Valid, test.valid, out)
		}
	}
}

func TestDraft4Bounds(t *testing.T) {
	tests := []struct {
		schema   string
		instance string
		valid    bool
	}{
		{`{"maximum": 3}`, `3`, true},
		{`{"maximum": 3}`, `1`, true},
		{`{"maximum": 3}`, `5`, false},
		{`{"maximum": 3, "exclusiveMaximum": true}`, `3`, false},
		{`{"maximum": 3, "exclusiveMaximum": true}`, `2.5`, true},
		{`{"minimum": 3}`, `3`, true},
		{`{"minimum": 3}`, `5`, true},
		{`{"minimum": 3}`, `1`, false},
		{`{"minimum": 3, "exclusiveMinimum": true}`, `3`, false},
		{`{"minimum": 3, "exclusiveMinimum": true}`, `3.5`, true},
		{`{"id": "https://example.com/d4", "type": "object"}`, `{}`, true},
	}
	for _, test := range tests {
		c := testContext()
		if err := c.DefaultDialect("http://json-schema.org/draft-04/schema#"); err != nil {
			t.Fatal(err)
		}
		s, err := c.ParseSchema(context.Background(), "test.json", jsonValue(t, test.schema))
		if err != nil {
			t.Fatal(err)
		}
		out, err := s.Validate(jsonValue(t, test.instance))
		if err != nil {
			t.Fatal(err)
		}
		if out.Valid != test.valid {
			t.Errorf("%s against draft-04 %s: got valid=%v, want %v",
				test.instance, test.schema, out.Valid, test.valid)
		}
	}
}
