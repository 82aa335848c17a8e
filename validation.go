package jsonschema

import (
	"fmt"
	"math/big"
	"slices"
	"strings"
)

// validation keywords assert properties of the instance value itself.
// Each is a no-op when the instance type is outside its domain.

var jsonTypes = []string{"array", "boolean", "integer", "null", "number", "object", "string"}

var kwType = &Keyword{
	Name:     "type",
	Parse:    parseType,
	Validate: validateType,
}

func parseType(p *parser, v any) error {
	switch v := v.(type) {
	case string:
		if !slices.Contains(jsonTypes, v) {
			return &KeywordValueError{p.loc(), "type", "a valid json type name"}
		}
	case []any:
		for _, t := range v {
			s, ok := t.(string)
			if !ok || !slices.Contains(jsonTypes, s) {
				return &KeywordValueError{p.loc(), "type", "a valid json type name or array of them"}
			}
		}
	default:
		return &KeywordValueError{p.loc(), "type", "a string or array of strings"}
	}
	return nil
}

func validateType(vd *validator, v any) error {
	var types []string
	switch v := v.(type) {
	case string:
		types = []string{v}
	case []any:
		for _, t := range v {
			types = append(types, t.(string))
		}
	}
	vType, err := jsonType(vd.instance())
	if err != nil {
		return err
	}
	matched := false
	for _, t := range types {
		if t == vType {
			matched = true
			break
		}
		if t == "integer" && vType == "number" && isIntegerValue(vd.instance()) {
			matched = true
			break
		}
	}
	if !matched {
		vd.fail("expected %s, but got %s", strings.Join(types, " or "), vType)
	}
	return nil
}

// --

var kwEnum = &Keyword{
	Name:     "enum",
	Parse:    parseEnum,
	Validate: validateEnum,
}

func parseEnum(p *parser, v any) error {
	if _, ok := v.([]any); !ok {
		return &KeywordValueError{p.loc(), "enum", "an array"}
	}
	return nil
}

func validateEnum(vd *validator, v any) error {
	items := v.([]any)
	for _, item := range items {
		eq, err := equals(vd.instance(), item)
		if err != nil {
			return err
		}
		if eq {
			return nil
		}
	}
	vd.fail("%s", enumError(items))
	return nil
}

func enumError(items []any) string {
	for _, item := range items {
		switch item.(type) {
		case []any, *Object:
			return "enum failed"
		}
	}
	if len(items) == 1 {
		return errmsg("value must be %v", display(items[0]))
	}
	var want []string
	for _, item := range items {
		want = append(want, display(item))
	}
	return errmsg("value must be one of %s", strings.Join(want, ", "))
}

// display renders a primitive value for error messages.
func display(v any) string {
	switch v := v.(type) {
	case string:
		return quote(v)
	case []any, *Object:
		return "value"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// --

var kwConst = &Keyword{
	Name:     "const",
	Validate: validateConst,
}

func validateConst(vd *validator, v any) error {
	eq, err := equals(vd.instance(), v)
	if err != nil {
		return err
	}
	if !eq {
		switch v.(type) {
		case []any, *Object:
			vd.fail("const failed")
		default:
			vd.fail("value must be %v", display(v))
		}
	}
	return nil
}

// --

func parseNumber(name string) func(*parser, any) error {
	return func(p *parser, v any) error {
		if _, ok := numRat(v); !ok {
			return &KeywordValueError{p.loc(), name, "a number"}
		}
		return nil
	}
}

func parseNonNegativeInteger(name string) func(*parser, any) error {
	return func(p *parser, v any) error {
		r, ok := numRat(v)
		if !ok || !r.IsInt() || r.Sign() < 0 {
			return &KeywordValueError{p.loc(), name, "a non-negative integer"}
		}
		return nil
	}
}

var kwMultipleOf = &Keyword{
	Name:     "multipleOf",
	Parse:    parseMultipleOf,
	Validate: validateMultipleOf,
}

func parseMultipleOf(p *parser, v any) error {
	r, ok := numRat(v)
	if !ok || r.Sign() <= 0 {
		return &KeywordValueError{p.loc(), "multipleOf", "a positive number"}
	}
	return nil
}

func validateMultipleOf(vd *validator, v any) error {
	val, ok := numRat(vd.instance())
	if !ok {
		return nil
	}
	div, _ := numRat(v)
	if q := new(big.Rat).Quo(val, div); !q.IsInt() {
		vd.fail("%v not multipleOf %v", vd.instance(), ratFloat(div))
	}
	return nil
}

func ratFloat(r *big.Rat) float64 {
	f, _ := r.Float64()
	return f
}

// --

func validateBound(name string, cmp func(val, want *big.Rat) bool, word string) func(*validator, any) error {
	return func(vd *validator, v any) error {
		val, ok := numRat(vd.instance())
		if !ok {
			return nil
		}
		want, _ := numRat(v)
		if !cmp(val, want) {
			vd.fail("must be %s %v but found %v", word, ratFloat(want), vd.instance())
		}
		return nil
	}
}

var kwMinimum = &Keyword{
	Name:  "minimum",
	Parse: parseNumber("minimum"),
	Validate: validateBound("minimum", func(val, want *big.Rat) bool {
		return val.Cmp(want) >= 0
	}, ">="),
}

var kwMaximum = &Keyword{
	Name:  "maximum",
	Parse: parseNumber("maximum"),
	Validate: validateBound("maximum", func(val, want *big.Rat) bool {
		return val.Cmp(want) <= 0
	}, "<="),
}

var kwExclusiveMinimum = &Keyword{
	Name:  "exclusiveMinimum",
	Parse: parseNumber("exclusiveMinimum"),
	Validate: validateBound("exclusiveMinimum", func(val, want *big.Rat) bool {
		return val.Cmp(want) > 0
	}, ">"),
}

var kwExclusiveMaximum = &Keyword{
	Name:  "exclusiveMaximum",
	Parse: parseNumber("exclusiveMaximum"),
	Validate: validateBound("exclusiveMaximum", func(val, want *big.Rat) bool {
		return val.Cmp(want) < 0
	}, "<"),
}

// --

var kwMinLength = &Keyword{
	Name:     "minLength",
	Parse:    parseNonNegativeInteger("minLength"),
	Validate: validateMinLength,
}

func validateMinLength(vd *validator, v any) error {
	s, ok := vd.instance().(string)
	if !ok {
		return nil
	}
	want, _ := annInt(v)
	if got := codePointLen(s); got < want {
		vd.fail("length must be >= %d, but got %d", want, got)
	}
	return nil
}

var kwMaxLength = &Keyword{
	Name:     "maxLength",
	Parse:    parseNonNegativeInteger("maxLength"),
	Validate: validateMaxLength,
}

func validateMaxLength(vd *validator, v any) error {
	s, ok := vd.instance().(string)
	if !ok {
		return nil
	}
	want, _ := annInt(v)
	if got := codePointLen(s); got > want {
		vd.fail("length must be <= %d, but got %d", want, got)
	}
	return nil
}

// --

var kwPattern = &Keyword{
	Name:     "pattern",
	Parse:    parsePattern,
	Validate: validatePattern,
}

func parsePattern(p *parser, v any) error {
	s, ok := v.(string)
	if !ok {
		return &KeywordValueError{p.loc(), "pattern", "a string"}
	}
	if _, err := p.c.patternFor(s); err != nil {
		return &InvalidRegexError{p.loc(), s, err}
	}
	return nil
}

func validatePattern(vd *validator, v any) error {
	s, ok := vd.instance().(string)
	if !ok {
		return nil
	}
	re, err := vd.c.patternFor(v.(string))
	if err != nil {
		// a pattern that did not compile matches nothing
		vd.fail("%s does not match pattern %s", quote(s), quote(v.(string)))
		return nil
	}
	if !re.MatchString(s) {
		vd.fail("%s does not match pattern %s", quote(s), quote(v.(string)))
	}
	return nil
}

// --

var kwMinItems = &Keyword{
	Name:     "minItems",
	Parse:    parseNonNegativeInteger("minItems"),
	Validate: validateMinItems,
}

func validateMinItems(vd *validator, v any) error {
	arr, ok := vd.instance().([]any)
	if !ok {
		return nil
	}
	want, _ := annInt(v)
	if len(arr) < want {
		vd.fail("minimum %d items required, but found %d items", want, len(arr))
	}
	return nil
}

var kwMaxItems = &Keyword{
	Name:     "maxItems",
	Parse:    parseNonNegativeInteger("maxItems"),
	Validate: validateMaxItems,
}

func validateMaxItems(vd *validator, v any) error {
	arr, ok := vd.instance().([]any)
	if !ok {
		return nil
	}
	want, _ := annInt(v)
	if len(arr) > want {
		vd.fail("maximum %d items allowed, but found %d items", want, len(arr))
	}
	return nil
}

// --

var kwUniqueItems = &Keyword{
	Name:     "uniqueItems",
	Parse:    parseBool("uniqueItems"),
	Validate: validateUniqueItems,
}

func parseBool(name string) func(*parser, any) error {
	return func(p *parser, v any) error {
		if _, ok := v.(bool); !ok {
			return &KeywordValueError{p.loc(), name, "a boolean"}
		}
		return nil
	}
}

func validateUniqueItems(vd *validator, v any) error {
	if v != true {
		return nil
	}
	arr, ok := vd.instance().([]any)
	if !ok {
		return nil
	}
	for i := 1; i < len(arr); i++ {
		for j := 0; j < i; j++ {
			eq, err := equals(arr[i], arr[j])
			if err != nil {
				return err
			}
			if eq {
				vd.fail("items at index %d and %d are equal", j, i)
				return nil
			}
		}
	}
	return nil
}

// --

var kwMinContains = &Keyword{
	Name:         "minContains",
	Dependencies: []string{"contains"},
	Parse:        parseNonNegativeInteger("minContains"),
	Validate:     validateMinContains,
}

func validateMinContains(vd *validator, v any) error {
	arr, ok := vd.instance().([]any)
	if !ok {
		return nil
	}
	ann, ok := vd.siblingAnnotation("contains")
	if !ok {
		return nil
	}
	want, _ := annInt(v)
	got := containsCount(ann, len(arr))
	if got < want {
		vd.fail("valid must be >= %d, but got %d", want, got)
	}
	return nil
}

var kwMaxContains = &Keyword{
	Name:         "maxContains",
	Dependencies: []string{"contains"},
	Parse:        parseNonNegativeInteger("maxContains"),
	Validate:     validateMaxContains,
}

func validateMaxContains(vd *validator, v any) error {
	arr, ok := vd.instance().([]any)
	if !ok {
		return nil
	}
	ann, ok := vd.siblingAnnotation("contains")
	if !ok {
		return nil
	}
	want, _ := annInt(v)
	got := containsCount(ann, len(arr))
	if got > want {
		vd.fail("valid must be <= %d, but got %d", want, got)
	}
	return nil
}

func containsCount(ann any, length int) int {
	if ann == true {
		return length
	}
	if indexes, ok := ann.([]any); ok {
		return len(indexes)
	}
	return 0
}

// --

var kwMinProperties = &Keyword{
	Name:     "minProperties",
	Parse:    parseNonNegativeInteger("minProperties"),
	Validate: validateMinProperties,
}

func validateMinProperties(vd *validator, v any) error {
	obj, ok := vd.instance().(*Object)
	if !ok {
		return nil
	}
	want, _ := annInt(v)
	if obj.Len() < want {
		vd.fail("minimum %d properties allowed, but found %d properties", want, obj.Len())
	}
	return nil
}

var kwMaxProperties = &Keyword{
	Name:     "maxProperties",
	Parse:    parseNonNegativeInteger("maxProperties"),
	Validate: validateMaxProperties,
}

func validateMaxProperties(vd *validator, v any) error {
	obj, ok := vd.instance().(*Object)
	if !ok {
		return nil
	}
	want, _ := annInt(v)
	if obj.Len() > want {
		vd.fail("maximum %d properties allowed, but found %d properties", want, obj.Len())
	}
	return nil
}

// --

var kwRequired = &Keyword{
	Name:     "required",
	Parse:    parseRequired,
	Validate: validateRequired,
}

func parseRequired(p *parser, v any) error {
	arr, ok := v.([]any)
	if !ok {
		return &KeywordValueError{p.loc(), "required", "an array of unique strings"}
	}
	var seen []string
	for _, item := range arr {
		s, ok := item.(string)
		if !ok || slices.Contains(seen, s) {
			return &KeywordValueError{p.loc(), "required", "an array of unique strings"}
		}
		seen = append(seen, s)
	}
	return nil
}

func validateRequired(vd *validator, v any) error {
	obj, ok := vd.instance().(*Object)
	if !ok {
		return nil
	}
	var missing []string
	for _, item := range v.([]any) {
		pname := item.(string)
		if _, ok := obj.Get(pname); !ok {
			missing = append(missing, quote(pname))
		}
	}
	if len(missing) > 0 {
		vd.fail("missing properties: %s", strings.Join(missing, ", "))
	}
	return nil
}

// --

var kwDependentRequired = &Keyword{
	Name:     "dependentRequired",
	Parse:    parseDependentRequired,
	Validate: validateDependentRequired,
}

func parseDependentRequired(p *parser, v any) error {
	obj, ok := v.(*Object)
	if !ok {
		return &KeywordValueError{p.loc(), "dependentRequired", "an object of string arrays"}
	}
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		arr, ok := pair.Value.([]any)
		if !ok {
			return &KeywordValueError{p.loc(), "dependentRequired", "an object of string arrays"}
		}
		for _, item := range arr {
			if _, ok := item.(string); !ok {
				return &KeywordValueError{p.loc(), "dependentRequired", "an object of string arrays"}
			}
		}
	}
	return nil
}

func validateDependentRequired(vd *validator, v any) error {
	obj, ok := vd.instance().(*Object)
	if !ok {
		return nil
	}
	for pair := v.(*Object).Oldest(); pair != nil; pair = pair.Next() {
		if _, ok := obj.Get(pair.Key); !ok {
			continue
		}
		for _, item := range pair.Value.([]any) {
			pname := item.(string)
			if _, ok := obj.Get(pname); !ok {
				vd.fail("property %s is required, if %s property exists", quote(pname), quote(pair.Key))
				return nil
			}
		}
	}
	return nil
}
