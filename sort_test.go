package jsonschema

import (
	"slices"
	"testing"
)

func keyNames(keys []programKey) []string {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.key
	}
	return names
}

func program(kws ...*Keyword) []programKey {
	keys := make([]programKey, len(kws))
	for i, kw := range kws {
		keys[i] = programKey{key: kw.Name, kw: kw}
	}
	return keys
}

func TestSortVirtualBarrier(t *testing.T) {
	b := &Keyword{Name: "B", Dependencies: []string{"@V"}}
	a := &Keyword{Name: "A", Dependents: []string{"@V"}}
	keys := program(b, a)
	if err := sortProgram(keys); err != nil {
		t.Fatal(err)
	}
	if got := keyNames(keys); !slices.Equal(got, []string{"A", "B"}) {
		t.Errorf("got %v, want [A B]", got)
	}
}

func TestSortCycle(t *testing.T) {
	a := &Keyword{Name: "A", Dependencies: []string{"B"}}
	b := &Keyword{Name: "B", Dependencies: []string{"A"}}
	err := sortProgram(program(a, b))
	cerr, ok := err.(*KeywordCycleError)
	if !ok {
		t.Fatalf("got %v, want *KeywordCycleError", err)
	}
	if !slices.Contains(cerr.Keys, "A") || !slices.Contains(cerr.Keys, "B") {
		t.Errorf("cycle keys %v must name A and B", cerr.Keys)
	}
}

func TestSortDependencies(t *testing.T) {
	keys := program(kwUnevaluatedProperties, kwAdditionalProperties, kwPatternProperties, kwProperties, kwAllOf)
	if err := sortProgram(keys); err != nil {
		t.Fatal(err)
	}
	got := keyNames(keys)
	before := func(a, b string) {
		if slices.Index(got, a) > slices.Index(got, b) {
			t.Errorf("%s must precede %s in %v", a, b, got)
		}
	}
	before("properties", "additionalProperties")
	before("patternProperties", "additionalProperties")
	before("allOf", "unevaluatedProperties")
	before("additionalProperties", "unevaluatedProperties")
}

func TestSortStable(t *testing.T) {
	// unconstrained keywords keep their original relative order
	keys := program(kwType, kwEnum, kwRequired, kwPattern)
	if err := sortProgram(keys); err != nil {
		t.Fatal(err)
	}
	if got := keyNames(keys); !slices.Equal(got, []string{"type", "enum", "required", "pattern"}) {
		t.Errorf("unconstrained order changed: %v", got)
	}

	// sorting twice is idempotent
	keys = program(kwUnevaluatedItems, kwItems, kwPrefixItems, kwContains)
	if err := sortProgram(keys); err != nil {
		t.Fatal(err)
	}
	once := slices.Clone(keys)
	if err := sortProgram(keys); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(keyNames(once), keyNames(keys)) {
		t.Errorf("sort not idempotent: %v then %v", keyNames(once), keyNames(keys))
	}
}
