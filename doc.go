/*
Package jsonschema provides multi-dialect json-schema parsing and
validation.

A schema document is parsed into a program of keyword operations and
indexed into resources; an instance is then evaluated against it,
producing a tree of output units with errors and annotations.

An example of using this package:

	c := jsonschema.NewContext()
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(`{"type": "string"}`))
	if err != nil {
		return err
	}
	sch, err := c.ParseSchema(ctx, "schema.json", doc)
	if err != nil {
		return err
	}
	out, err := sch.Validate("hello")
	if err != nil {
		return err
	}
	if !out.Valid {
		fmt.Println(out)
	}

The standard dialects draft 2020-12, draft-07, draft-04 and the
OpenAPI 3.1 base dialect are registered on every context; schemas
select one with "$schema", and further dialects can be produced from
meta-schemas with ParseDialect.

External resources referenced by "$ref" are fetched through the
context's URLLoader. The standard meta-schema documents are embedded,
so no loader is consulted for them.

This package supports the json string formats date-time, date, time,
duration, period, email, idn-email, hostname, idn-hostname, ipv4,
ipv6, uri, uri-reference, iri, iri-reference, uuid, uri-template,
json-pointer, relative-json-pointer and regex. Formats assert only
when the context's validation mode requests it or the dialect carries
the format-assertion vocabulary.
*/
package jsonschema
