package jsonschema

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer formats all human readable messages produced by validation.
// messages may vary between releases; locations are the stable contract.
var printer = message.NewPrinter(language.English)

func errmsg(format string, args ...any) string {
	return printer.Sprintf(format, args...)
}

// --

// InvalidJSONTypeError tells that a value within schema or instance
// is not a valid json value.
type InvalidJSONTypeError struct {
	Value any
}

func (e *InvalidJSONTypeError) Error() string {
	return fmt.Sprintf("jsonschema: invalid jsonType %T", e.Value)
}

// --

// SchemaNotObjectError tells that a schema node is neither
// a boolean nor an object.
type SchemaNotObjectError struct {
	Location string
}

func (e *SchemaNotObjectError) Error() string {
	return fmt.Sprintf("schema at %q must be boolean or object", e.Location)
}

// --

// UnknownDialectError tells that "$schema" refers to a dialect
// not registered with the context.
type UnknownDialectError struct {
	Location string
	URL      string
}

func (e *UnknownDialectError) Error() string {
	return fmt.Sprintf("unknown dialect %q at %q", e.URL, e.Location)
}

// --

// KeywordValueError tells that a keyword value has wrong shape.
type KeywordValueError struct {
	Location string
	Keyword  string
	Want     string
}

func (e *KeywordValueError) Error() string {
	return fmt.Sprintf("%q at %q must be %s", e.Keyword, e.Location, e.Want)
}

// --

// InvalidRegexError tells that "pattern" or "patternProperties"
// carries a regex that does not compile.
type InvalidRegexError struct {
	Location string
	Regex    string
	Err      error
}

func (e *InvalidRegexError) Error() string {
	return fmt.Sprintf("invalid regex %q at %q: %v", e.Regex, e.Location, e.Err)
}

// --

type ParseIDError struct {
	Location string
}

func (e *ParseIDError) Error() string {
	return fmt.Sprintf("error in parsing id at %q", e.Location)
}

// --

type ParseAnchorError struct {
	Location string
}

func (e *ParseAnchorError) Error() string {
	return fmt.Sprintf("error in parsing anchor at %q", e.Location)
}

// --

type DuplicateAnchorError struct {
	Anchor string
	URL    string
	Ptr1   string
	Ptr2   string
}

func (e *DuplicateAnchorError) Error() string {
	return fmt.Sprintf("duplicate anchor %q in %q at %q and %q", e.Anchor, e.URL, e.Ptr1, e.Ptr2)
}

// --

type DuplicateIDError struct {
	ID   string
	URL  string
	Ptr1 string
	Ptr2 string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate id %q in %q at %q and %q", e.ID, e.URL, e.Ptr1, e.Ptr2)
}

// --

// InvalidRefError tells that "$ref"/"$dynamicRef" value
// is not a valid uri reference.
type InvalidRefError struct {
	Location string
	Ref      string
	Err      error
}

func (e *InvalidRefError) Error() string {
	return fmt.Sprintf("invalid $ref %q at %q: %v", e.Ref, e.Location, e.Err)
}

// --

// UnresolvedReferenceError tells that a reference could not be
// satisfied after the whole document was walked.
type UnresolvedReferenceError struct {
	URL      string
	Location string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("reference %q at %q cannot be resolved", e.URL, e.Location)
}

// --

// AnchorNotFoundError tells that a reference names an anchor
// that does not exist in the target resource.
type AnchorNotFoundError struct {
	URL       string
	Reference string
}

func (e *AnchorNotFoundError) Error() string {
	return fmt.Sprintf("anchor in %q not found in schema %q", e.Reference, e.URL)
}

// --

// UninitializedSchemaError tells that validation reached a schema
// node that was never parsed.
type UninitializedSchemaError struct {
	Location string
}

func (e *UninitializedSchemaError) Error() string {
	return fmt.Sprintf("schema at %q is not initialized", e.Location)
}

// --

// UnsupportedVocabularyError tells that a meta-schema requires
// a vocabulary unknown to the context.
type UnsupportedVocabularyError struct {
	URL        string
	Vocabulary string
}

func (e *UnsupportedVocabularyError) Error() string {
	return fmt.Sprintf("unsupported vocabulary %q in %q", e.Vocabulary, e.URL)
}

// --

// InfiniteLoopError is returned when validation revisits the same
// schema node at the same instance location without consuming input.
type InfiniteLoopError string

func (e InfiniteLoopError) Error() string {
	return "jsonschema: infinite loop " + string(e)
}

// --

// splitFragment splits uri into base and fragment.
// the returned fragment does not include '#'.
func splitFragment(uri string) (string, string) {
	if hash := strings.IndexByte(uri, '#'); hash != -1 {
		return uri[:hash], uri[hash+1:]
	}
	return uri, ""
}
