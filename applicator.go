package jsonschema

import (
	"encoding/json"
	"strconv"
)

// applicator keywords apply subschemas to the instance, either in
// place (allOf, anyOf, oneOf, not, if/then/else, dependentSchemas) or
// to parts of it (prefixItems, items, contains, properties,
// patternProperties, additionalProperties, propertyNames). In-place
// applicators and annotation producers declare the @unevaluated
// barrier as dependent, so unevaluated* keywords run after all of them.

func parseSchemaArray(p *parser, name string, v any) ([]any, error) {
	arr, ok := v.([]any)
	if !ok || len(arr) == 0 {
		return nil, &KeywordValueError{p.loc(), name, "a non-empty array of schemas"}
	}
	for i, item := range arr {
		if err := p.parseChild(strconv.Itoa(i), item); err != nil {
			return nil, err
		}
	}
	return arr, nil
}

func parseSchemaMap(p *parser, name string, v any) (*Object, error) {
	obj, ok := v.(*Object)
	if !ok {
		return nil, &KeywordValueError{p.loc(), name, "an object of schemas"}
	}
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		if err := p.parseChild(pair.Key, pair.Value); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

// --

var kwAllOf = &Keyword{
	Name:         "allOf",
	Dependencies: []string{"@base"},
	Dependents:   []string{"@unevaluated"},
	Parse:        func(p *parser, v any) error { _, err := parseSchemaArray(p, "allOf", v); return err },
	Validate:     validateAllOf,
}

func validateAllOf(vd *validator, v any) error {
	for i, sub := range v.([]any) {
		if _, err := vd.applyInPlace(strconv.Itoa(i), sub); err != nil {
			return err
		}
	}
	if !vd.top().out.Valid {
		vd.fail("allOf failed")
	}
	return nil
}

// --

var kwAnyOf = &Keyword{
	Name:         "anyOf",
	Dependencies: []string{"@base"},
	Dependents:   []string{"@unevaluated"},
	Parse:        func(p *parser, v any) error { _, err := parseSchemaArray(p, "anyOf", v); return err },
	Validate:     validateAnyOf,
}

func validateAnyOf(vd *validator, v any) error {
	out := vd.top().out
	cp := out.checkpoint()
	matched := false
	for i, sub := range v.([]any) {
		ok, err := vd.applyInPlace(strconv.Itoa(i), sub)
		if err != nil {
			return err
		}
		matched = matched || ok
	}
	if matched {
		out.restore(cp)
	} else {
		vd.fail("anyOf failed")
	}
	return nil
}

// --

var kwOneOf = &Keyword{
	Name:         "oneOf",
	Dependencies: []string{"@base"},
	Dependents:   []string{"@unevaluated"},
	Parse:        func(p *parser, v any) error { _, err := parseSchemaArray(p, "oneOf", v); return err },
	Validate:     validateOneOf,
}

func validateOneOf(vd *validator, v any) error {
	out := vd.top().out
	cp := out.checkpoint()
	matched := -1
	for i, sub := range v.([]any) {
		ok, err := vd.applyInPlace(strconv.Itoa(i), sub)
		if err != nil {
			return err
		}
		if ok {
			if matched == -1 {
				matched = i
			} else {
				out.restore(cp)
				vd.fail("valid against schemas at indexes %d and %d", matched, i)
				return nil
			}
		}
	}
	if matched == -1 {
		vd.fail("oneOf failed")
	} else {
		out.restore(cp)
	}
	return nil
}

// --

var kwNot = &Keyword{
	Name:         "not",
	Dependencies: []string{"@base"},
	Dependents:   []string{"@unevaluated"},
	Parse:        func(p *parser, v any) error { return p.parseSelf() },
	Validate:     validateNot,
}

func validateNot(vd *validator, v any) error {
	out := vd.top().out
	cp := out.checkpoint()
	numAnns := len(out.Annotations)
	if err := vd.validateSelf(v); err != nil {
		return err
	}
	subValid := out.Valid
	out.restore(cp)
	if subValid {
		vd.fail("not failed")
	} else {
		out.Annotations = out.Annotations[:numAnns]
	}
	return nil
}

// --

var kwIf = &Keyword{
	Name:         "if",
	Dependencies: []string{"@base"},
	Dependents:   []string{"@unevaluated"},
	Parse:        func(p *parser, v any) error { return p.parseSelf() },
	Validate:     validateIf,
}

func validateIf(vd *validator, v any) error {
	out := vd.top().out
	cp := out.checkpoint()
	numAnns := len(out.Annotations)
	if err := vd.validateSelf(v); err != nil {
		return err
	}
	cond := out.Valid
	out.restore(cp)
	if !cond {
		out.Annotations = out.Annotations[:numAnns]
	}
	// "if" never affects validity; its outcome drives then/else
	vd.annotate(cond)
	return nil
}

var kwThen = &Keyword{
	Name:         "then",
	Dependencies: []string{"if", "@base"},
	Dependents:   []string{"@unevaluated"},
	Parse:        func(p *parser, v any) error { return p.parseSelf() },
	Validate:     validateThenElse(true),
}

var kwElse = &Keyword{
	Name:         "else",
	Dependencies: []string{"if", "@base"},
	Dependents:   []string{"@unevaluated"},
	Parse:        func(p *parser, v any) error { return p.parseSelf() },
	Validate:     validateThenElse(false),
}

func validateThenElse(want bool) func(*validator, any) error {
	return func(vd *validator, v any) error {
		ann, ok := vd.siblingAnnotation("if")
		if !ok {
			return nil
		}
		if cond, _ := ann.(bool); cond == want {
			return vd.validateSelf(v)
		}
		return nil
	}
}

// --

var kwDependentSchemas = &Keyword{
	Name:         "dependentSchemas",
	Dependencies: []string{"@base"},
	Dependents:   []string{"@unevaluated"},
	Parse:        func(p *parser, v any) error { _, err := parseSchemaMap(p, "dependentSchemas", v); return err },
	Validate:     validateDependentSchemas,
}

func validateDependentSchemas(vd *validator, v any) error {
	obj, ok := vd.instance().(*Object)
	if !ok {
		return nil
	}
	for pair := v.(*Object).Oldest(); pair != nil; pair = pair.Next() {
		if _, ok := obj.Get(pair.Key); !ok {
			continue
		}
		if _, err := vd.applyInPlace(pair.Key, pair.Value); err != nil {
			return err
		}
	}
	return nil
}

// --

var kwPrefixItems = &Keyword{
	Name:         "prefixItems",
	Dependencies: []string{"@base"},
	Dependents:   []string{"@unevaluated"},
	Parse:        func(p *parser, v any) error { _, err := parseSchemaArray(p, "prefixItems", v); return err },
	Validate:     validatePrefixItems,
}

func validatePrefixItems(vd *validator, v any) error {
	arr, ok := vd.instance().([]any)
	if !ok {
		return nil
	}
	schemas := v.([]any)
	n := min(len(arr), len(schemas))
	for i := 0; i < n; i++ {
		tok := strconv.Itoa(i)
		if _, err := vd.applyChild(tok, schemas[i], tok, arr[i]); err != nil {
			return err
		}
	}
	if n > 0 {
		if len(arr) <= len(schemas) {
			vd.annotate(true)
		} else {
			vd.annotate(n - 1)
		}
	}
	return nil
}

// --

var kwItems = &Keyword{
	Name:         "items",
	Dependencies: []string{"prefixItems", "@base"},
	Dependents:   []string{"@unevaluated"},
	Parse:        func(p *parser, v any) error { return p.parseSelf() },
	Validate:     validateItems,
}

func validateItems(vd *validator, v any) error {
	arr, ok := vd.instance().([]any)
	if !ok {
		return nil
	}
	start := 0
	if ann, ok := vd.siblingAnnotation("prefixItems"); ok {
		start = coveredBound(ann, len(arr))
	}
	applied := false
	for i := start; i < len(arr); i++ {
		if _, err := vd.applyItem(v, strconv.Itoa(i), arr[i]); err != nil {
			return err
		}
		applied = true
	}
	if applied {
		vd.annotate(true)
	}
	return nil
}

// coveredBound interprets a positional annotation: true means every
// item was covered; a number is the largest index covered.
func coveredBound(ann any, length int) int {
	if ann == true {
		return length
	}
	if n, ok := annInt(ann); ok {
		return n + 1
	}
	return 0
}

func annInt(ann any) (int, bool) {
	switch n := ann.(type) {
	case int:
		return n, true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	case float64:
		return int(n), true
	}
	return 0, false
}

// --

var kwContains = &Keyword{
	Name:         "contains",
	Dependencies: []string{"@base"},
	Dependents:   []string{"@unevaluated"},
	Parse:        func(p *parser, v any) error { return p.parseSelf() },
	Validate:     validateContains,
}

func validateContains(vd *validator, v any) error {
	arr, ok := vd.instance().([]any)
	if !ok {
		return nil
	}
	out := vd.top().out
	minContains := 1
	if mv, ok := vd.schemaValue("minContains"); ok {
		if n, ok := annInt(mv); ok {
			minContains = n
		}
	}
	matched := []any{}
	for i, item := range arr {
		cp := out.checkpoint()
		numAnns := len(out.Annotations)
		ok, err := vd.applyItem(v, strconv.Itoa(i), item)
		if err != nil {
			return err
		}
		if ok {
			matched = append(matched, i)
		} else {
			out.restore(cp)
			out.Annotations = out.Annotations[:numAnns]
		}
	}
	if len(matched) == len(arr) {
		vd.annotate(true)
	} else {
		vd.annotate(matched)
	}
	if len(matched) == 0 && minContains != 0 {
		vd.fail("no items match contains schema")
	}
	return nil
}

// --

var kwProperties = &Keyword{
	Name:         "properties",
	Dependencies: []string{"@base"},
	Dependents:   []string{"@unevaluated"},
	Parse:        func(p *parser, v any) error { _, err := parseSchemaMap(p, "properties", v); return err },
	Validate:     validateProperties,
}

func validateProperties(vd *validator, v any) error {
	obj, ok := vd.instance().(*Object)
	if !ok {
		return nil
	}
	var matched []any
	for pair := v.(*Object).Oldest(); pair != nil; pair = pair.Next() {
		pvalue, ok := obj.Get(pair.Key)
		if !ok {
			continue
		}
		if _, err := vd.applyChild(pair.Key, pair.Value, pair.Key, pvalue); err != nil {
			return err
		}
		matched = append(matched, pair.Key)
	}
	if len(matched) > 0 {
		vd.annotate(matched)
	}
	return nil
}

// --

var kwPatternProperties = &Keyword{
	Name:         "patternProperties",
	Dependencies: []string{"@base"},
	Dependents:   []string{"@unevaluated"},
	Parse:        parsePatternProperties,
	Validate:     validatePatternProperties,
}

func parsePatternProperties(p *parser, v any) error {
	obj, ok := v.(*Object)
	if !ok {
		return &KeywordValueError{p.loc(), "patternProperties", "an object of schemas"}
	}
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		if _, err := p.c.patternFor(pair.Key); err != nil {
			return &InvalidRegexError{p.loc(), pair.Key, err}
		}
		if err := p.parseChild(pair.Key, pair.Value); err != nil {
			return err
		}
	}
	return nil
}

func validatePatternProperties(vd *validator, v any) error {
	obj, ok := vd.instance().(*Object)
	if !ok {
		return nil
	}
	var matched []any
	seen := map[string]bool{}
	for pair := v.(*Object).Oldest(); pair != nil; pair = pair.Next() {
		re, err := vd.c.patternFor(pair.Key)
		if err != nil {
			continue
		}
		for ipair := obj.Oldest(); ipair != nil; ipair = ipair.Next() {
			if !re.MatchString(ipair.Key) {
				continue
			}
			if _, err := vd.applyChild(pair.Key, pair.Value, ipair.Key, ipair.Value); err != nil {
				return err
			}
			if !seen[ipair.Key] {
				seen[ipair.Key] = true
				matched = append(matched, ipair.Key)
			}
		}
	}
	if len(matched) > 0 {
		vd.annotate(matched)
	}
	return nil
}

// --

var kwAdditionalProperties = &Keyword{
	Name:         "additionalProperties",
	Dependencies: []string{"properties", "patternProperties", "@base"},
	Dependents:   []string{"@unevaluated"},
	Parse:        func(p *parser, v any) error { return p.parseSelf() },
	Validate:     validateAdditionalProperties,
}

func validateAdditionalProperties(vd *validator, v any) error {
	obj, ok := vd.instance().(*Object)
	if !ok {
		return nil
	}
	evaluated := map[string]bool{}
	for _, kw := range []string{"properties", "patternProperties"} {
		if ann, ok := vd.siblingAnnotation(kw); ok {
			for _, name := range annStrings(ann) {
				evaluated[name] = true
			}
		}
	}
	var validated []any
	for ipair := obj.Oldest(); ipair != nil; ipair = ipair.Next() {
		if evaluated[ipair.Key] {
			continue
		}
		if _, err := vd.applyItem(v, ipair.Key, ipair.Value); err != nil {
			return err
		}
		validated = append(validated, ipair.Key)
	}
	if len(validated) > 0 {
		vd.annotate(validated)
	}
	return nil
}

func annStrings(ann any) []string {
	arr, ok := ann.([]any)
	if !ok {
		return nil
	}
	var names []string
	for _, v := range arr {
		if s, ok := v.(string); ok {
			names = append(names, s)
		}
	}
	return names
}

// --

var kwPropertyNames = &Keyword{
	Name:         "propertyNames",
	Dependencies: []string{"@base"},
	Parse:        func(p *parser, v any) error { return p.parseSelf() },
	Validate:     validatePropertyNames,
}

func validatePropertyNames(vd *validator, v any) error {
	obj, ok := vd.instance().(*Object)
	if !ok {
		return nil
	}
	for ipair := obj.Oldest(); ipair != nil; ipair = ipair.Next() {
		// the property name itself is the instance here
		if _, err := vd.applyItem(v, ipair.Key, ipair.Key); err != nil {
			return err
		}
	}
	return nil
}
