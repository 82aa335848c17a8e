package jsonschema

import "testing"

func TestUnevaluatedPropertiesAcrossAllOf(t *testing.T) {
	schema := `{
		"allOf": [{"properties": {"name": {"type": "string"}}}],
		"unevaluatedProperties": {"type": "number"}
	}`

	out := validateTest(t, schema, `{"name": "x", "age": 30}`)
	if !out.Valid {
		t.Fatalf("instance must be valid:\n%v", out)
	}

	out = validateTest(t, schema, `{"name": "x", "age": "30"}`)
	if out.Valid {
		t.Fatal("string age must be invalid")
	}
	found := false
	var walk func(u *OutputUnit)
	walk = func(u *OutputUnit) {
		if u.KeywordLocation == "/unevaluatedProperties" || u.KeywordLocation == "/unevaluatedProperties/type" {
			found = true
		}
		for _, c := range u.Errors {
			walk(c)
		}
	}
	walk(out)
	if !found {
		t.Errorf("error must be located under /unevaluatedProperties:\n%v", out)
	}
}

func TestUnevaluatedPropertiesSoundness(t *testing.T) {
	// properties covered by any annotation in dynamic scope are not
	// re-validated
	tests := []struct {
		schema   string
		instance string
		valid    bool
	}{
		{`{"properties": {"a": true}, "unevaluatedProperties": false}`, `{"a": 1}`, true},
		{`{"patternProperties": {"^a": true}, "unevaluatedProperties": false}`, `{"ab": 1}`, true},
		{`{"additionalProperties": true, "unevaluatedProperties": false}`, `{"b": 1}`, true},
		{`{"anyOf": [{"properties": {"a": true}, "required": ["a"]}, {"properties": {"b": true}, "required": ["b"]}], "unevaluatedProperties": false}`, `{"a": 1}`, true},
		{`{"if": {"properties": {"a": {"type": "number"}}, "required": ["a"]}, "unevaluatedProperties": false}`, `{"a": 1}`, true},
		{`{"if": {"properties": {"a": {"type": "number"}}, "required": ["a"]}, "unevaluatedProperties": false}`, `{"a": "x"}`, false},
		{`{"unevaluatedProperties": false}`, `{}`, true},
		{`{"unevaluatedProperties": false}`, `{"a": 1}`, false},
	}
	for _, test := range tests {
		out := validateTest(t, test.schema, test.instance)
		if out.Valid != test.valid {
			t.Errorf("%s against %s: got valid=%v, want %v\n%v",
				test.instance, test.schema, out.Valid, test.valid, out)
		}
	}
}

func TestUnevaluatedItems(t *testing.T) {
	tests := []struct {
		schema   string
		instance string
		valid    bool
	}{
		{`{"prefixItems": [{"type": "string"}], "unevaluatedItems": false}`, `["a"]`, true},
		{`{"prefixItems": [{"type": "string"}], "unevaluatedItems": false}`, `["a", 1]`, false},
		{`{"allOf": [{"prefixItems": [true, true]}], "unevaluatedItems": false}`, `["a", "b"]`, true},
		{`{"allOf": [{"prefixItems": [true]}], "unevaluatedItems": {"type": "number"}}`, `["a", 1]`, true},
		{`{"allOf": [{"prefixItems": [true]}], "unevaluatedItems": {"type": "number"}}`, `["a", "b"]`, false},
		{`{"items": {"type": "number"}, "unevaluatedItems": false}`, `[1, 2]`, true},
		{`{"contains": {"type": "string"}, "unevaluatedItems": {"type": "number"}}`, `["a", 1]`, true},
		{`{"contains": {"type": "string"}, "unevaluatedItems": {"type": "number"}}`, `["a", true]`, false},
		{`{"unevaluatedItems": false}`, `[]`, true},
		{`{"unevaluatedItems": false}`, `[1]`, false},
	}
	for _, test := range tests {
		out := validateTest(t, test.schema, test.instance)
		if out.Valid != test.valid {
			t.Errorf("%s against %s: got valid=%v, want %v\n%v",
				test.instance, test.schema, out.Valid, test.valid, out)
		}
	}
}

func TestUnevaluatedWithRef(t *testing.T) {
	schema := `{
		"$defs": {"base": {"properties": {"name": {"type": "string"}}}},
		"$ref": "#/$defs/base",
		"unevaluatedProperties": false
	}`
	if out := validateTest(t, schema, `{"name": "x"}`); !out.Valid {
		t.Fatalf("name-only instance must be valid:\n%v", out)
	}
	if out := validateTest(t, schema, `{"name": "x", "extra": 1}`); out.Valid {
		t.Fatal("extra property must be rejected")
	}
}
