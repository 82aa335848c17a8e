package jsonschema

import (
	"fmt"
	"slices"
	"strings"
)

// mustPrecede tells whether keyword a is required to run before b.
// a precedes b iff b depends on a by name, a declares b a dependent,
// or a declares a virtual barrier in its dependents that b declares
// in its dependencies.
func mustPrecede(a, b *Keyword) bool {
	if a == b {
		return false
	}
	if slices.Contains(b.Dependencies, a.Name) {
		return true
	}
	if slices.Contains(a.Dependents, b.Name) {
		return true
	}
	for _, v := range a.Dependents {
		if isVirtual(v) && slices.Contains(b.Dependencies, v) {
			return true
		}
	}
	return false
}

// sortProgram orders keys such that every dependency precedes its
// dependent. The sort is stable: keywords unconstrained with respect
// to each other keep their original relative order, and a keyword
// already consistent with all its constraints is never moved.
//
// It repeatedly finds a pair out of order and moves the required
// earlier keyword just before the other. Moves are capped at n², and
// exceeding the cap reports the participating keys as a cycle.
func sortProgram(keys []programKey) error {
	n := len(keys)
	moves := 0
	for {
		i, j := findViolation(keys)
		if i == -1 {
			return nil
		}
		// keys[j] must precede keys[i]: move it just before keys[i]
		k := keys[j]
		copy(keys[i+1:j+1], keys[i:j])
		keys[i] = k
		moves++
		if moves > n*n {
			return &KeywordCycleError{Keys: violationKeys(keys)}
		}
	}
}

// findViolation returns the first pair i<j with keys[j] required
// before keys[i], or (-1, -1) if the order is consistent.
func findViolation(keys []programKey) (int, int) {
	for i := range keys {
		for j := i + 1; j < len(keys); j++ {
			if mustPrecede(keys[j].kw, keys[i].kw) {
				return i, j
			}
		}
	}
	return -1, -1
}

// violationKeys collects the keys still participating in ordering
// conflicts, for cycle reporting.
func violationKeys(keys []programKey) []string {
	var names []string
	add := func(name string) {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	for i := range keys {
		for j := i + 1; j < len(keys); j++ {
			if mustPrecede(keys[j].kw, keys[i].kw) && mustPrecede(keys[i].kw, keys[j].kw) {
				add(keys[i].key)
				add(keys[j].key)
			}
		}
	}
	if len(names) == 0 {
		for i := range keys {
			for j := i + 1; j < len(keys); j++ {
				if mustPrecede(keys[j].kw, keys[i].kw) {
					add(keys[i].key)
					add(keys[j].key)
				}
			}
		}
	}
	return names
}

// --

// KeywordCycleError tells that keyword dependencies within one schema
// object form a cycle.
type KeywordCycleError struct {
	Keys []string
}

func (e *KeywordCycleError) Error() string {
	return fmt.Sprintf("cycle in keyword dependencies among %s", strings.Join(e.Keys, ", "))
}
