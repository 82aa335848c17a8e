package jsonschema

import "strconv"

// unevaluatedItems and unevaluatedProperties run behind the
// @unevaluated barrier, after every applicator has emitted its
// annotations. They aggregate positional and property-name
// annotations across the whole dynamic scope for the current instance
// location and validate whatever no successful applicator covered.

var kwUnevaluatedItems = &Keyword{
	Name:         "unevaluatedItems",
	Dependencies: []string{"@unevaluated", "@base"},
	Parse:        func(p *parser, v any) error { return p.parseSelf() },
	Validate:     validateUnevaluatedItems,
}

func validateUnevaluatedItems(vd *validator, v any) error {
	arr, ok := vd.instance().([]any)
	if !ok {
		return nil
	}
	bound := 0
	for _, ann := range vd.dynamicAnnotations("prefixItems") {
		if b := coveredBound(ann, len(arr)); b > bound {
			bound = b
		}
	}
	for _, kw := range []string{"items", "additionalItems", "unevaluatedItems"} {
		for _, ann := range vd.dynamicAnnotations(kw) {
			if ann == true {
				bound = len(arr)
			} else if b := coveredBound(ann, len(arr)); b > bound {
				bound = b
			}
		}
	}
	contained := map[int]bool{}
	for _, ann := range vd.dynamicAnnotations("contains") {
		if ann == true {
			bound = len(arr)
			break
		}
		if indexes, ok := ann.([]any); ok {
			for _, iv := range indexes {
				if i, ok := annInt(iv); ok {
					contained[i] = true
				}
			}
		}
	}
	applied := false
	for i := bound; i < len(arr); i++ {
		if contained[i] {
			continue
		}
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

// --

var kwUnevaluatedProperties = &Keyword{
	Name:         "unevaluatedProperties",
	Dependencies: []string{"@unevaluated", "@base"},
	Parse:        func(p *parser, v any) error { return p.parseSelf() },
	Validate:     validateUnevaluatedProperties,
}

func validateUnevaluatedProperties(vd *validator, v any) error {
	obj, ok := vd.instance().(*Object)
	if !ok {
		return nil
	}
	evaluated := map[string]bool{}
	for _, kw := range []string{"properties", "patternProperties", "additionalProperties", "unevaluatedProperties"} {
		for _, ann := range vd.dynamicAnnotations(kw) {
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
