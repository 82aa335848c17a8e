package jsonschema

// draft-04 keyword variants: numeric bounds paired with boolean
// exclusive companions.

var kwMaximum04 = &Keyword{
	Name:     "maximum",
	Parse:    parseNumber("maximum"),
	Validate: validateBound04("exclusiveMaximum", false),
}

var kwMinimum04 = &Keyword{
	Name:     "minimum",
	Parse:    parseNumber("minimum"),
	Validate: validateBound04("exclusiveMinimum", true),
}

// the boolean companions have their effect inside minimum/maximum
var kwExclusiveMaximum04 = &Keyword{
	Name:  "exclusiveMaximum",
	Parse: parseBool("exclusiveMaximum"),
}

var kwExclusiveMinimum04 = &Keyword{
	Name:  "exclusiveMinimum",
	Parse: parseBool("exclusiveMinimum"),
}

func validateBound04(exclusiveKw string, lower bool) func(*validator, any) error {
	return func(vd *validator, v any) error {
		val, ok := numRat(vd.instance())
		if !ok {
			return nil
		}
		want, _ := numRat(v)
		exclusive := false
		if ev, ok := vd.schemaValue(exclusiveKw); ok {
			exclusive, _ = ev.(bool)
		}
		cmp := val.Cmp(want)
		if !lower {
			cmp = -cmp
		}
		// cmp now: >0 within bound, 0 violates only if exclusive
		if cmp > 0 || (cmp == 0 && !exclusive) {
			return nil
		}
		word := "<="
		if lower {
			word = ">="
		}
		if exclusive {
			word = word[:1]
		}
		vd.fail("must be %s %v but found %v", word, ratFloat(want), vd.instance())
		return nil
	}
}

// Draft4 is the http://json-schema.org/draft-04/schema# dialect,
// the draft-05/04 superset with boolean exclusive bounds.
var Draft4 = dialectFromKeywords(
	"http://json-schema.org/draft-04/schema",
	true,
	kwSchema, kwLegacyID, kwRef, kwDefinitions,
	kwAllOf, kwAnyOf, kwOneOf, kwNot,
	kwItems07, kwAdditionalItems,
	kwProperties, kwPatternProperties, kwAdditionalProperties,
	kwDependencies,
	kwType, kwEnum, kwMultipleOf,
	kwMaximum04, kwExclusiveMaximum04, kwMinimum04, kwExclusiveMinimum04,
	kwMaxLength, kwMinLength, kwPattern,
	kwMaxItems, kwMinItems, kwUniqueItems,
	kwMaxProperties, kwMinProperties, kwRequired,
	kwFormat,
	annotationKeyword("title"),
	annotationKeyword("description"),
	annotationKeyword("default"),
)
