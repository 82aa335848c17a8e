package jsonschema

// ValidationMode controls how the "format" keyword behaves in
// dialects where format is an annotation.
type ValidationMode int

const (
	// ModeOff attaches format annotations without asserting them.
	ModeOff ValidationMode = iota

	// ModeKnown asserts formats whose name is known; unknown names
	// are annotations only.
	ModeKnown

	// ModeStrict asserts all formats and fails on unknown names.
	ModeStrict
)

// A Context carries the shared machinery used to parse schemas and
// validate instances: the dialect table, format registries, the regex
// cache and the resource registry.
//
// A context is owned by one goroutine during parse. Once all schemas
// are parsed the context is effectively immutable and any number of
// concurrent validations may run against it; each validation builds
// its own output tree.
type Context struct {
	dialects       map[string]*Dialect
	defaultDialect *Dialect
	vocabularies   map[string]*Vocabulary
	formats        map[string]*Format
	mode           ValidationMode
	regexpEngine   RegexpEngine
	patterns       map[string]Regexp
	reg            *registry
	loader         URLLoader
}

// NewContext returns a context with the standard dialects and
// vocabularies registered and 2020-12 as the default dialect.
func NewContext() *Context {
	c := &Context{
		dialects:     map[string]*Dialect{},
		vocabularies: map[string]*Vocabulary{},
		formats:      map[string]*Format{},
		regexpEngine: goRegexpCompile,
		patterns:     map[string]Regexp{},
		reg:          newRegistry(),
		loader: SchemeURLLoader{
			"":     FileLoader{},
			"file": FileLoader{},
		},
	}
	for _, v := range standardVocabularies {
		c.RegisterVocabulary(v)
	}
	for _, d := range standardDialects {
		c.RegisterDialect(d)
	}
	c.defaultDialect = Draft2020
	return c
}

// RegisterDialect makes d available to "$schema" dispatch.
func (c *Context) RegisterDialect(d *Dialect) {
	c.dialects[normalizeURL(d.URL)] = d
}

// RegisterVocabulary makes v available to [ParseDialect].
func (c *Context) RegisterVocabulary(v *Vocabulary) {
	c.vocabularies[v.URL] = v
}

// DefaultDialect sets the dialect used when "$schema" is absent.
// The dialect must already be registered.
func (c *Context) DefaultDialect(url string) error {
	d, ok := c.dialects[normalizeURL(url)]
	if !ok {
		return &UnknownDialectError{URL: url}
	}
	c.defaultDialect = d
	return nil
}

// RegisterFormat adds a format to the context. Context formats take
// precedence over same-named dialect formats.
func (c *Context) RegisterFormat(f *Format) {
	c.formats[f.Name] = f
}

// SetValidationMode sets the format validation mode.
func (c *Context) SetValidationMode(mode ValidationMode) {
	c.mode = mode
}

// SetRegexpEngine changes the regular expression implementation.
// The default engine is the standard library regexp package.
func (c *Context) SetRegexpEngine(e RegexpEngine) {
	c.regexpEngine = e
}

// SetLoader sets the loader used to fetch external resources.
func (c *Context) SetLoader(l URLLoader) {
	c.loader = l
}

// patternFor returns the compiled regex for pattern, compiling on
// first use and memoizing.
func (c *Context) patternFor(pattern string) (Regexp, error) {
	if re, ok := c.patterns[pattern]; ok {
		return re, nil
	}
	re, err := c.regexpEngine(pattern)
	if err != nil {
		return nil, err
	}
	c.patterns[pattern] = re
	return re, nil
}

// format looks up a format by name, context registrations first,
// then the dialect table.
func (c *Context) format(d *Dialect, name string) (*Format, bool) {
	if f, ok := c.formats[name]; ok {
		return f, true
	}
	if d != nil {
		if f, ok := d.formats[name]; ok {
			return f, true
		}
	}
	return nil, false
}

// --

// A frame is one entry of the evaluation stack. Frames are strictly
// nested: one is pushed around every sub-evaluation and released on
// all exit paths.
type frame struct {
	parent *frame

	// key is the schema node key ("allOf", "0", property name);
	// unset on root and instance-only frames.
	key    string
	hasKey bool

	node any

	// instKey/instance track descent into the instance.
	instKey string
	hasInst bool
	instance any

	baseURI string
	res     *Resource

	// resPtr is the json-pointer within the enclosing identified
	// resource; maintained during parse.
	resPtr string

	// kwLoc/instLoc/abs are the output locations; maintained during
	// validation.
	kwLoc   string
	instLoc string
	abs     string

	out *OutputUnit
}

// nearestBaseURI returns the nearest non-empty base uri walking up the
// frame chain.
func (f *frame) nearestBaseURI() string {
	for ; f != nil; f = f.parent {
		if f.baseURI != "" {
			return f.baseURI
		}
	}
	return ""
}

// nearestResource returns the resource of the nearest schema frame.
func (f *frame) nearestResource() *Resource {
	for ; f != nil; f = f.parent {
		if f.res != nil {
			return f.res
		}
	}
	return nil
}

// nearestOutput returns the output unit of the nearest frame owning
// one, starting at f.
func (f *frame) nearestOutput() *OutputUnit {
	for ; f != nil; f = f.parent {
		if f.out != nil {
			return f.out
		}
	}
	return nil
}
