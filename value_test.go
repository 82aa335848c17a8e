package jsonschema

import (
	"strings"
	"testing"
)

func jsonValue(t *testing.T, s string) any {
	t.Helper()
	v, err := UnmarshalJSON(strings.NewReader(s))
	if err != nil {
		t.Fatalf("unmarshal %s: %v", s, err)
	}
	return v
}

func TestUnmarshalJSONOrder(t *testing.T) {
	v := jsonValue(t, `{"b": 1, "a": 2, "z": {"y": 3, "x": 4}}`)
	obj, ok := v.(*Object)
	if !ok {
		t.Fatalf("got %T, want *Object", v)
	}
	var keys []string
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	if got, want := strings.Join(keys, ","), "b,a,z"; got != want {
		t.Errorf("got key order %q, want %q", got, want)
	}
}

func TestJSONType(t *testing.T) {
	tests := []struct {
		doc  string
		want string
	}{
		{`null`, "null"},
		{`true`, "boolean"},
		{`1.5`, "number"},
		{`"x"`, "string"},
		{`[1]`, "array"},
		{`{"a":1}`, "object"},
	}
	for _, test := range tests {
		got, err := jsonType(jsonValue(t, test.doc))
		if err != nil {
			t.Fatal(err)
		}
		if got != test.want {
			t.Errorf("jsonType(%s) = %q, want %q", test.doc, got, test.want)
		}
	}
}

func TestEquals(t *testing.T) {
	tests := []struct {
		v1, v2 string
		want   bool
	}{
		{`1`, `1.0`, true},
		{`1`, `2`, false},
		{`"a"`, `"a"`, true},
		{`[1, 2]`, `[1, 2]`, true},
		{`[1, 2]`, `[2, 1]`, false},
		{`{"a": 1, "b": 2}`, `{"b": 2, "a": 1}`, true},
		{`{"a": 1}`, `{"a": 2}`, false},
		{`{"a": [1, {"b": null}]}`, `{"a": [1, {"b": null}]}`, true},
		{`0.1`, `0.1`, true},
		{`1e2`, `100`, true},
	}
	for _, test := range tests {
		got, err := equals(jsonValue(t, test.v1), jsonValue(t, test.v2))
		if err != nil {
			t.Fatal(err)
		}
		if got != test.want {
			t.Errorf("equals(%s, %s) = %v, want %v", test.v1, test.v2, got, test.want)
		}
	}
}

func TestIsIntegerValue(t *testing.T) {
	if !isIntegerValue(jsonValue(t, `2.0`)) {
		t.Error("2.0 must be integer")
	}
	if isIntegerValue(jsonValue(t, `2.5`)) {
		t.Error("2.5 must not be integer")
	}
}

func TestCodePointLen(t *testing.T) {
	if got := codePointLen("héllo"); got != 5 {
		t.Errorf("got %d, want 5", got)
	}
	if got := codePointLen("💡"); got != 1 {
		t.Errorf("got %d, want 1", got)
	}
}
