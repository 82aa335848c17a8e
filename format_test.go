package jsonschema

import (
	"context"
	"testing"
)

func validateMode(t *testing.T, mode ValidationMode, schema, instance string) *OutputUnit {
	t.Helper()
	c := testContext()
	c.SetValidationMode(mode)
	s, err := c.ParseSchema(context.Background(), "test.json", jsonValue(t, schema))
	if err != nil {
		t.Fatal(err)
	}
	out, err := s.Validate(jsonValue(t, instance))
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestFormatEmailKnownMode(t *testing.T) {
	schema := `{"type": "string", "format": "email"}`
	if out := validateMode(t, ModeKnown, schema, `"user@example.com"`); !out.Valid {
		t.Fatalf("user@example.com must be valid:\n%v", out)
	}
	if out := validateMode(t, ModeKnown, schema, `"invalid-email"`); out.Valid {
		t.Fatal("invalid-email must be invalid")
	}
}

func TestFormatModes(t *testing.T) {
	badEmail := `{"format": "email"}`
	unknown := `{"format": "no-such-format"}`

	// off: annotation only
	if out := validateMode(t, ModeOff, badEmail, `"not-an-email"`); !out.Valid {
		t.Fatal("mode off must not assert formats")
	}
	// known: asserts known, ignores unknown names
	if out := validateMode(t, ModeKnown, unknown, `"anything"`); !out.Valid {
		t.Fatal("mode known must ignore unknown format names")
	}
	// strict: unknown names fail
	if out := validateMode(t, ModeStrict, unknown, `"anything"`); out.Valid {
		t.Fatal("mode strict must fail unknown format names")
	}

	// format is always attached as an annotation
	out := validateMode(t, ModeOff, badEmail, `"x"`)
	found := false
	for _, a := range out.Annotations {
		if a.KeywordLocation == "/format" && a.Annotation == "email" {
			found = true
		}
	}
	if !found {
		t.Errorf("format annotation missing:\n%v", out)
	}
}

func TestFormatNonString(t *testing.T) {
	// format assertions ignore values outside their domain
	if out := validateMode(t, ModeStrict, `{"format": "email"}`, `5`); !out.Valid {
		t.Fatal("format must ignore non-string instances")
	}
}

func TestContextFormatPrecedence(t *testing.T) {
	c := testContext()
	c.SetValidationMode(ModeKnown)
	c.RegisterFormat(&Format{
		Name: "email",
		Parse: func(s string) (any, error) {
			return s, nil // accept anything
		},
	})
	s, err := c.ParseSchema(context.Background(), "test.json", jsonValue(t, `{"format": "email"}`))
	if err != nil {
		t.Fatal(err)
	}
	out, err := s.Validate(jsonValue(t, `"definitely not an email"`))
	if err != nil {
		t.Fatal(err)
	}
	if !out.Valid {
		t.Fatal("context-registered format must take precedence over the dialect's")
	}
}

func TestFormatValidators(t *testing.T) {
	tests := []struct {
		format string
		value  string
		valid  bool
	}{
		{"date-time", "2002-10-02T10:00:00-05:00", true},
		{"date-time", "2002-10-02 10:00:00", false},
		{"date", "2026-02-29", false},
		{"date", "2024-02-29", true},
		{"time", "10:00:00Z", true},
		{"time", "25:00:00Z", false},
		{"duration", "P1Y2M3DT4H5M6S", true},
		{"duration", "P", false},
		{"duration", "P4W", true},
		{"email", "a@example.com", true},
		{"email", "a..b@example.com", false},
		{"hostname", "example.com", true},
		{"hostname", "-bad-.com", false},
		{"idn-hostname", "bücher.example", true},
		{"idn-email", "user@bücher.example", true},
		{"ipv4", "192.168.0.1", true},
		{"ipv4", "192.168.0.256", false},
		{"ipv4", "01.2.3.4", false},
		{"ipv6", "::1", true},
		{"ipv6", "1.2.3.4", false},
		{"uri", "https://example.com/a?b=c", true},
		{"uri", "/relative", false},
		{"uri-reference", "/relative", true},
		{"uuid", "123e4567-e89b-12d3-a456-426614174000", true},
		{"uuid", "123e4567-e89b-12d3-a456", false},
		{"json-pointer", "/a/b~0c", true},
		{"json-pointer", "a/b", false},
		{"relative-json-pointer", "1/a", true},
		{"relative-json-pointer", "/a", false},
		{"regex", "^a+$", true},
		{"regex", "(unclosed", false},
	}
	for _, test := range tests {
		f, ok := formats[test.format]
		if !ok {
			t.Fatalf("format %q not registered", test.format)
		}
		err := f.validate(test.value)
		if (err == nil) != test.valid {
			t.Errorf("%s %q: got err=%v, want valid=%v", test.format, test.value, err, test.valid)
		}
	}
}
