package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/schemaline/jsonschema"
	"github.com/schemaline/jsonschema/ecma"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: jv [flags] <schema> [<instance>]...")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "flags:")
	flag.PrintDefaults()
}

func main() {
	dialect := flag.String("dialect", "https://json-schema.org/draft/2020-12/schema", "default dialect used when '$schema' is missing")
	assertFormat := flag.BoolP("assert-format", "f", false, "assert known formats")
	strictFormat := flag.Bool("strict-format", false, "assert formats, failing on unknown names")
	ecmaRegexp := flag.Bool("ecma-regexp", false, "use ecma-262 regular expressions")
	insecure := flag.BoolP("insecure", "k", false, "allow insecure TLS connections")
	output := flag.StringP("output", "o", "", "output result tree as json")
	quiet := flag.BoolP("quiet", "q", false, "report validity only via exit code")
	flag.Usage = usage
	flag.Parse()
	if len(flag.Args()) == 0 {
		usage()
		os.Exit(2)
	}

	c := jsonschema.NewContext()
	c.SetLoader(newLoader(*insecure))
	if err := c.DefaultDialect(*dialect); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	switch {
	case *strictFormat:
		c.SetValidationMode(jsonschema.ModeStrict)
	case *assertFormat:
		c.SetValidationMode(jsonschema.ModeKnown)
	}
	if *ecmaRegexp {
		c.SetRegexpEngine(ecma.Compile)
	}

	ctx := context.Background()
	sch, err := c.ParseSchemaURL(ctx, flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "schema %s failed to parse:\n%v\n", flag.Arg(0), err)
		os.Exit(2)
	}

	allValid := true
	for _, f := range flag.Args()[1:] {
		v, err := FileLoader{}.Load(ctx, f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error in reading %s: %v\n", f, err)
			os.Exit(2)
		}
		out, err := sch.Validate(v)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error in validating %s: %v\n", f, err)
			os.Exit(2)
		}
		if *output != "" {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
		}
		if out.Valid {
			if !*quiet {
				fmt.Printf("%s is valid\n", f)
			}
		} else {
			allValid = false
			if !*quiet {
				fmt.Fprintf(os.Stderr, "%s does not conform to the schema:\n%v\n", f, out)
			}
		}
	}
	if !allValid {
		os.Exit(1)
	}
}
