package jsonschema

import "strconv"

// draft-07 keyword variants: schema-or-array "items" with
// "additionalItems", and the combined "dependencies" keyword that
// draft 2019-09 split into dependentSchemas/dependentRequired.

var kwItems07 = &Keyword{
	Name:         "items",
	Dependencies: []string{"@base"},
	Dependents:   []string{"@unevaluated"},
	Parse:        parseItems07,
	Validate:     validateItems07,
}

func parseItems07(p *parser, v any) error {
	if _, ok := v.([]any); ok {
		_, err := parseSchemaArray(p, "items", v)
		return err
	}
	return p.parseSelf()
}

func validateItems07(vd *validator, v any) error {
	arr, ok := vd.instance().([]any)
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		// single schema applied to all items
		for i, item := range arr {
			if _, err := vd.applyItem(v, strconv.Itoa(i), item); err != nil {
				return err
			}
		}
		if len(arr) > 0 {
			vd.annotate(true)
		}
		return nil
	}
	n := min(len(arr), len(items))
	for i := 0; i < n; i++ {
		tok := strconv.Itoa(i)
		if _, err := vd.applyChild(tok, items[i], tok, arr[i]); err != nil {
			return err
		}
	}
	if n > 0 {
		if len(arr) <= len(items) {
			vd.annotate(true)
		} else {
			vd.annotate(n - 1)
		}
	}
	return nil
}

// --

var kwAdditionalItems = &Keyword{
	Name:         "additionalItems",
	Dependencies: []string{"items", "@base"},
	Dependents:   []string{"@unevaluated"},
	Parse:        func(p *parser, v any) error { return p.parseSelf() },
	Validate:     validateAdditionalItems,
}

func validateAdditionalItems(vd *validator, v any) error {
	arr, ok := vd.instance().([]any)
	if !ok {
		return nil
	}
	// applies only past the array-form items
	ann, ok := vd.siblingAnnotation("items")
	if !ok {
		return nil
	}
	applied := false
	for i := coveredBound(ann, len(arr)); i < len(arr); i++ {
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

var kwDependencies = &Keyword{
	Name:         "dependencies",
	Dependencies: []string{"@base"},
	Dependents:   []string{"@unevaluated"},
	Parse:        parseDependencies,
	Validate:     validateDependencies,
}

func parseDependencies(p *parser, v any) error {
	obj, ok := v.(*Object)
	if !ok {
		return &KeywordValueError{p.loc(), "dependencies", "an object of schemas or string arrays"}
	}
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		if arr, ok := pair.Value.([]any); ok {
			for _, item := range arr {
				if _, ok := item.(string); !ok {
					return &KeywordValueError{p.loc(), "dependencies", "an object of schemas or string arrays"}
				}
			}
			continue
		}
		if err := p.parseChild(pair.Key, pair.Value); err != nil {
			return err
		}
	}
	return nil
}

func validateDependencies(vd *validator, v any) error {
	obj, ok := vd.instance().(*Object)
	if !ok {
		return nil
	}
	for pair := v.(*Object).Oldest(); pair != nil; pair = pair.Next() {
		if _, ok := obj.Get(pair.Key); !ok {
			continue
		}
		if arr, ok := pair.Value.([]any); ok {
			for _, item := range arr {
				pname := item.(string)
				if _, ok := obj.Get(pname); !ok {
					vd.fail("property %s is required, if %s property exists", quote(pname), quote(pair.Key))
					return nil
				}
			}
			continue
		}
		if _, err := vd.applyInPlace(pair.Key, pair.Value); err != nil {
			return err
		}
	}
	return nil
}

// --

func dialectFromKeywords(url string, allowIDFragment bool, kws ...*Keyword) *Dialect {
	d := &Dialect{
		URL:             url,
		vocabularies:    map[string]bool{},
		keywords:        map[string]*Keyword{},
		formats:         map[string]*Format{},
		allowIDFragment: allowIDFragment,
	}
	for _, kw := range kws {
		d.keywords[kw.Name] = kw
	}
	for name, f := range formats {
		d.formats[name] = f
	}
	return d
}

// Draft7 is the http://json-schema.org/draft-07/schema# dialect.
var Draft7 = dialectFromKeywords(
	"http://json-schema.org/draft-07/schema",
	true,
	kwSchema, kwID, kwRef, kwComment, kwDefinitions,
	kwAllOf, kwAnyOf, kwOneOf, kwNot, kwIf, kwThen, kwElse,
	kwItems07, kwAdditionalItems, kwContains,
	kwProperties, kwPatternProperties, kwAdditionalProperties, kwPropertyNames,
	kwDependencies,
	kwType, kwEnum, kwConst, kwMultipleOf,
	kwMaximum, kwExclusiveMaximum, kwMinimum, kwExclusiveMinimum,
	kwMaxLength, kwMinLength, kwPattern,
	kwMaxItems, kwMinItems, kwUniqueItems,
	kwMaxProperties, kwMinProperties, kwRequired,
	kwFormat, kwContentEncoding, kwContentMediaType,
	annotationKeyword("title"),
	annotationKeyword("description"),
	annotationKeyword("default"),
	annotationKeyword("examples"),
	annotationKeyword("readOnly"),
	annotationKeyword("writeOnly"),
)
