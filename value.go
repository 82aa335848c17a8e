package jsonschema

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object is a json object whose properties keep insertion order.
// Schema nodes and instance objects are both represented by *Object;
// two distinct *Object values with equal contents are distinct schemas.
type Object = orderedmap.OrderedMap[string, any]

// NewObject returns an empty json object.
func NewObject() *Object {
	return orderedmap.New[string, any]()
}

// objGet looks up a property, tolerating a nil object.
func objGet(obj *Object, key string) (any, bool) {
	if obj == nil {
		return nil, false
	}
	return obj.Get(key)
}

// jsonType returns the json type of given value v.
func jsonType(v any) (string, error) {
	switch v.(type) {
	case nil:
		return "null", nil
	case bool:
		return "boolean", nil
	case json.Number, float64, float32, int, int8, int16, int32, int64:
		return "number", nil
	case string:
		return "string", nil
	case []any:
		return "array", nil
	case *Object:
		return "object", nil
	default:
		return "", &InvalidJSONTypeError{v}
	}
}

// numRat converts a json number to *big.Rat.
// numbers are decoded as json.Number, so no precision is lost.
func numRat(v any) (*big.Rat, bool) {
	switch v.(type) {
	case json.Number, float64, float32, int, int8, int16, int32, int64:
		return new(big.Rat).SetString(fmt.Sprint(v))
	}
	return nil, false
}

// isIntegerValue tells whether v is a number with zero fractional part.
func isIntegerValue(v any) bool {
	r, ok := numRat(v)
	return ok && r.IsInt()
}

// equals tells if given two json values are equal or not.
func equals(v1, v2 any) (bool, error) {
	v1Type, err := jsonType(v1)
	if err != nil {
		return false, err
	}
	v2Type, err := jsonType(v2)
	if err != nil {
		return false, err
	}
	if v1Type != v2Type {
		return false, nil
	}
	switch v1Type {
	case "array":
		arr1, arr2 := v1.([]any), v2.([]any)
		if len(arr1) != len(arr2) {
			return false, nil
		}
		for i := range arr1 {
			eq, err := equals(arr1[i], arr2[i])
			if err != nil {
				return false, err
			}
			if !eq {
				return false, nil
			}
		}
		return true, nil
	case "object":
		obj1, obj2 := v1.(*Object), v2.(*Object)
		if obj1.Len() != obj2.Len() {
			return false, nil
		}
		for pair := obj1.Oldest(); pair != nil; pair = pair.Next() {
			pvalue2, ok := obj2.Get(pair.Key)
			if !ok {
				return false, nil
			}
			eq, err := equals(pair.Value, pvalue2)
			if err != nil {
				return false, err
			}
			if !eq {
				return false, nil
			}
		}
		return true, nil
	case "number":
		num1, ok1 := numRat(v1)
		num2, ok2 := numRat(v2)
		if !ok1 {
			return false, &InvalidJSONTypeError{v1}
		}
		if !ok2 {
			return false, &InvalidJSONTypeError{v2}
		}
		return num1.Cmp(num2) == 0, nil
	default:
		return v1 == v2, nil
	}
}

// codePointLen returns the number of unicode code points in s.
// string lengths in json-schema are counted in code points, not bytes.
func codePointLen(s string) int {
	return utf8.RuneCountInString(s)
}

// escape converts given token to valid json-pointer token.
func escape(token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	return strings.ReplaceAll(token, "/", "~1")
}

// unescape reverses escape.
func unescape(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	return strings.ReplaceAll(token, "~0", "~")
}

func quote(s string) string {
	q := fmt.Sprintf("%q", s)
	q = strings.ReplaceAll(q, `\"`, `"`)
	q = strings.ReplaceAll(q, `'`, `\'`)
	return "'" + q[1:len(q)-1] + "'"
}
