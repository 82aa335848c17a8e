package jsonschema

import (
	"context"
	"embed"
)

// A Dialect bundles a set of keywords and formats under a meta-schema
// uri. Dialects are looked up by "$schema" during parse.
type Dialect struct {
	// URL is the meta-schema uri identifying this dialect.
	URL string

	// vocabularies maps vocabulary uri to whether it is required.
	vocabularies map[string]bool

	keywords map[string]*Keyword
	formats  map[string]*Format

	// allowIDFragment permits a plain-name fragment in the id
	// keyword, which then acts as both id and anchor. 2020-12
	// forbids it.
	allowIDFragment bool
}

// Keyword returns the keyword descriptor registered under name.
func (d *Dialect) Keyword(name string) (*Keyword, bool) {
	kw, ok := d.keywords[name]
	return kw, ok
}

// --

// A Vocabulary is a subset of keywords and formats grouped by uri,
// optionally required by a meta-schema.
type Vocabulary struct {
	URL      string
	Keywords []*Keyword
	Formats  []*Format
}

// newDialect assembles a dialect from vocabularies.
func newDialect(url string, allowIDFragment bool, vocabs map[string]bool, vocabularies ...*Vocabulary) *Dialect {
	d := &Dialect{
		URL:             url,
		vocabularies:    vocabs,
		keywords:        map[string]*Keyword{},
		formats:         map[string]*Format{},
		allowIDFragment: allowIDFragment,
	}
	for _, v := range vocabularies {
		for _, kw := range v.Keywords {
			d.keywords[kw.Name] = kw
		}
		for _, f := range v.Formats {
			d.formats[f.Name] = f
		}
	}
	return d
}

// --

// ParseDialect interprets doc as a meta-schema and produces a dialect
// from the vocabularies it declares. The resulting dialect is
// registered with the context under the meta-schema's canonical uri,
// so subsequent schemas can select it with "$schema".
//
// A meta-schema without "$vocabulary" inherits every keyword of the
// dialect it is written in. Unlike json-schema 2020-12, the core
// vocabulary is not required to be listed; the OpenAPI dialect
// depends on this relaxation.
func (c *Context) ParseDialect(ctx context.Context, url string, doc any) (*Dialect, error) {
	s, err := c.ParseSchema(ctx, url, doc)
	if err != nil {
		return nil, err
	}
	obj, ok := s.node.(*Object)
	if !ok {
		return nil, &SchemaNotObjectError{url}
	}
	res := c.reg.lookupByNode(obj)
	if res.meta != nil {
		return res.meta, nil
	}

	durl := res.canonicalURI
	if durl == "" {
		durl = normalizeURL(url)
	}

	base := res.dialect
	d := &Dialect{
		URL:             durl,
		vocabularies:    map[string]bool{},
		keywords:        map[string]*Keyword{},
		formats:         map[string]*Format{},
		allowIDFragment: base.allowIDFragment,
	}

	v, ok := objGet(obj, "$vocabulary")
	if !ok {
		// inherit the meta-schema's own dialect wholesale
		for name, kw := range base.keywords {
			d.keywords[name] = kw
		}
		for name, f := range base.formats {
			d.formats[name] = f
		}
		for uri, reqd := range base.vocabularies {
			d.vocabularies[uri] = reqd
		}
	} else {
		vobj, ok := v.(*Object)
		if !ok {
			return nil, &KeywordValueError{durl, "$vocabulary", "an object of uri to boolean"}
		}
		for pair := vobj.Oldest(); pair != nil; pair = pair.Next() {
			reqd := pair.Value == true
			voc, known := c.vocabularies[pair.Key]
			if !known {
				if reqd {
					return nil, &UnsupportedVocabularyError{durl, pair.Key}
				}
				continue
			}
			d.vocabularies[pair.Key] = reqd
			for _, kw := range voc.Keywords {
				d.keywords[kw.Name] = kw
			}
			for _, f := range voc.Formats {
				d.formats[f.Name] = f
			}
		}
	}

	res.meta = d
	c.RegisterDialect(d)
	return d, nil
}

// --

const vocab2020 = "https://json-schema.org/draft/2020-12/vocab/"

var vocabCore = &Vocabulary{
	URL: vocab2020 + "core",
	Keywords: []*Keyword{
		kwSchema, kwVocabulary, kwID, kwAnchor, kwDynamicAnchor,
		kwRef, kwDynamicRef, kwDefs, kwComment,
	},
}

var vocabApplicator = &Vocabulary{
	URL: vocab2020 + "applicator",
	Keywords: []*Keyword{
		kwAllOf, kwAnyOf, kwOneOf, kwNot, kwIf, kwThen, kwElse,
		kwDependentSchemas, kwPrefixItems, kwItems, kwContains,
		kwProperties, kwPatternProperties, kwAdditionalProperties,
		kwPropertyNames,
	},
}

var vocabUnevaluated = &Vocabulary{
	URL:      vocab2020 + "unevaluated",
	Keywords: []*Keyword{kwUnevaluatedItems, kwUnevaluatedProperties},
}

var vocabValidation = &Vocabulary{
	URL: vocab2020 + "validation",
	Keywords: []*Keyword{
		kwType, kwEnum, kwConst, kwMultipleOf,
		kwMaximum, kwExclusiveMaximum, kwMinimum, kwExclusiveMinimum,
		kwMaxLength, kwMinLength, kwPattern,
		kwMaxItems, kwMinItems, kwUniqueItems, kwMaxContains, kwMinContains,
		kwMaxProperties, kwMinProperties, kwRequired, kwDependentRequired,
	},
}

func stdFormats() []*Format {
	ff := make([]*Format, 0, len(formats))
	for _, f := range formats {
		ff = append(ff, f)
	}
	return ff
}

var vocabFormatAnnotation = &Vocabulary{
	URL:      vocab2020 + "format-annotation",
	Keywords: []*Keyword{kwFormat},
	Formats:  stdFormats(),
}

var vocabFormatAssertion = &Vocabulary{
	URL:      vocab2020 + "format-assertion",
	Keywords: []*Keyword{kwFormatAssert},
	Formats:  stdFormats(),
}

var kwContentEncoding = &Keyword{
	Name:     "contentEncoding",
	Parse:    parseStringValue("contentEncoding"),
	Validate: validateAnnotationOnly,
}

var kwContentMediaType = &Keyword{
	Name:     "contentMediaType",
	Parse:    parseStringValue("contentMediaType"),
	Validate: validateAnnotationOnly,
}

var kwContentSchema = &Keyword{
	Name:         "contentSchema",
	Dependencies: []string{"@base"},
	Parse:        func(p *parser, v any) error { return p.parseSelf() },
	Validate:     validateAnnotationOnly,
}

func parseStringValue(name string) func(*parser, any) error {
	return func(p *parser, v any) error {
		if _, ok := v.(string); !ok {
			return &KeywordValueError{p.loc(), name, "a string"}
		}
		return nil
	}
}

var vocabContent = &Vocabulary{
	URL:      vocab2020 + "content",
	Keywords: []*Keyword{kwContentEncoding, kwContentMediaType, kwContentSchema},
}

var vocabMetaData = &Vocabulary{
	URL: vocab2020 + "meta-data",
	Keywords: []*Keyword{
		annotationKeyword("title"),
		annotationKeyword("description"),
		annotationKeyword("default"),
		annotationKeyword("deprecated"),
		annotationKeyword("readOnly"),
		annotationKeyword("writeOnly"),
		annotationKeyword("examples"),
	},
}

// OpenAPI base vocabulary: annotation-only extras.
var vocabOASBase = &Vocabulary{
	URL: "https://spec.openapis.org/oas/3.1/vocab/base",
	Keywords: []*Keyword{
		annotationKeyword("discriminator"),
		annotationKeyword("xml"),
		annotationKeyword("externalDocs"),
		annotationKeyword("example"),
	},
}

var standardVocabularies = []*Vocabulary{
	vocabCore, vocabApplicator, vocabUnevaluated, vocabValidation,
	vocabFormatAnnotation, vocabFormatAssertion, vocabContent,
	vocabMetaData, vocabOASBase,
}

// --

// Draft2020 is the https://json-schema.org/draft/2020-12/schema
// dialect.
var Draft2020 = newDialect(
	"https://json-schema.org/draft/2020-12/schema",
	false,
	map[string]bool{
		vocabCore.URL:             true,
		vocabApplicator.URL:       true,
		vocabUnevaluated.URL:      true,
		vocabValidation.URL:       true,
		vocabMetaData.URL:         true,
		vocabFormatAnnotation.URL: true,
		vocabContent.URL:          true,
	},
	vocabCore, vocabApplicator, vocabUnevaluated, vocabValidation,
	vocabMetaData, vocabFormatAnnotation, vocabContent,
)

// OpenAPI31 is the OpenAPI 3.1 base dialect: 2020-12 extended with
// annotation-only keywords.
var OpenAPI31 = newDialect(
	"https://spec.openapis.org/oas/3.1/dialect/base",
	false,
	map[string]bool{
		vocabCore.URL:             true,
		vocabApplicator.URL:       true,
		vocabUnevaluated.URL:      true,
		vocabValidation.URL:       true,
		vocabMetaData.URL:         true,
		vocabFormatAnnotation.URL: true,
		vocabContent.URL:          true,
		vocabOASBase.URL:          false,
	},
	vocabCore, vocabApplicator, vocabUnevaluated, vocabValidation,
	vocabMetaData, vocabFormatAnnotation, vocabContent, vocabOASBase,
)

var standardDialects = []*Dialect{Draft2020, Draft7, Draft4, OpenAPI31}

// --

//go:embed metaschemas
var metaschemaFS embed.FS

var metaschemaFiles = map[string]string{
	"https://json-schema.org/draft/2020-12/schema":                 "metaschemas/draft2020/schema.json",
	"https://json-schema.org/draft/2020-12/meta/core":              "metaschemas/draft2020/core.json",
	"https://json-schema.org/draft/2020-12/meta/applicator":        "metaschemas/draft2020/applicator.json",
	"https://json-schema.org/draft/2020-12/meta/unevaluated":       "metaschemas/draft2020/unevaluated.json",
	"https://json-schema.org/draft/2020-12/meta/validation":        "metaschemas/draft2020/validation.json",
	"https://json-schema.org/draft/2020-12/meta/meta-data":         "metaschemas/draft2020/meta-data.json",
	"https://json-schema.org/draft/2020-12/meta/format-annotation": "metaschemas/draft2020/format-annotation.json",
	"https://json-schema.org/draft/2020-12/meta/format-assertion":  "metaschemas/draft2020/format-assertion.json",
	"https://json-schema.org/draft/2020-12/meta/content":           "metaschemas/draft2020/content.json",
	"http://json-schema.org/draft-07/schema":                       "metaschemas/draft7.json",
	"http://json-schema.org/draft-04/schema":                       "metaschemas/draft4.json",
	"https://spec.openapis.org/oas/3.1/dialect/base":               "metaschemas/oas31/dialect-base.json",
	"https://spec.openapis.org/oas/3.1/meta/base":                  "metaschemas/oas31/meta-base.json",
}

// embeddedMetaDoc serves the standard meta-schema documents so that
// parsing them needs no host loader.
func embeddedMetaDoc(uri string) ([]byte, bool) {
	path, ok := metaschemaFiles[normalizeURL(uri)]
	if !ok {
		return nil, false
	}
	data, err := metaschemaFS.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return data, true
}
