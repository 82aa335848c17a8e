package jsonschema

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func testContext() *Context {
	return NewContext()
}

func parseTest(t *testing.T, schema string) *Schema {
	t.Helper()
	c := testContext()
	s, err := c.ParseSchema(context.Background(), "test.json", jsonValue(t, schema))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return s
}

func validateTest(t *testing.T, schema, instance string) *OutputUnit {
	t.Helper()
	s := parseTest(t, schema)
	out, err := s.Validate(jsonValue(t, instance))
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	return out
}

func TestCheckpointRestore(t *testing.T) {
	u := &OutputUnit{Valid: true}
	cp := u.checkpoint()
	u.setError("boom")
	u.Errors = append(u.Errors, &OutputUnit{})
	if u.Valid || u.Error == nil || len(u.Errors) != 1 {
		t.Fatal("failure state not recorded")
	}
	u.restore(cp)
	if !u.Valid || u.Error != nil || len(u.Errors) != 0 {
		t.Fatal("restore did not roll back failure state")
	}
}

func TestAttachHoistsSingleError(t *testing.T) {
	parent := &OutputUnit{Valid: true}
	inner := &OutputUnit{Valid: false, KeywordLocation: "/allOf/0/type"}
	inner.setError("wrong type")
	child := &OutputUnit{Valid: false, KeywordLocation: "/allOf/0", Errors: []*OutputUnit{inner}}
	attach(parent, child)
	if parent.Valid {
		t.Fatal("parent must become invalid")
	}
	if len(parent.Errors) != 1 || parent.Errors[0] != inner {
		t.Fatal("single nested error must be hoisted")
	}
}

func TestAttachDropsEmpty(t *testing.T) {
	parent := &OutputUnit{Valid: true}
	attach(parent, &OutputUnit{Valid: true})
	if len(parent.Errors) != 0 || len(parent.Annotations) != 0 {
		t.Fatal("empty valid unit must be dropped")
	}
}

func TestOutputMarshal(t *testing.T) {
	out := validateTest(t,
		`{"type": "object", "required": ["name"]}`,
		`{"age": 30}`)
	b, err := json.Marshal(out)
	if err != nil {
		t.Fatal(err)
	}
	s := string(b)
	for _, want := range []string{
		`"valid":false`,
		`"keywordLocation":"/required"`,
		`"instanceLocation":""`,
		`"absoluteKeywordLocation":"test.json#/required"`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("output %s\nmust contain %s", s, want)
		}
	}
}

func TestOutputString(t *testing.T) {
	out := validateTest(t, `{"type": "string"}`, `1`)
	s := out.String()
	if !strings.Contains(s, "S[/type]") {
		t.Errorf("output %q must mention S[/type]", s)
	}
}
