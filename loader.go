package jsonschema

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	json "github.com/goccy/go-json"
)

// URLLoader knows how to load json document from given url.
// Load is the only suspension point of parsing: it may block on i/o,
// and should honor cancellation of ctx.
type URLLoader interface {
	// Load loads document at given absolute url
	// and returns its decoded json value.
	Load(ctx context.Context, url string) (any, error)
}

// --

// FileLoader loads json file from file url or bare path.
type FileLoader struct{}

// ToFile converts url to file path.
func (l FileLoader) ToFile(url string) (string, error) {
	u, ok := strings.CutPrefix(url, "file://")
	if !ok {
		return url, nil
	}
	if runtime.GOOS == "windows" {
		u = strings.TrimPrefix(u, "/")
		u = filepath.FromSlash(u)
	}
	return u, nil
}

func (l FileLoader) Load(_ context.Context, url string) (any, error) {
	path, err := l.ToFile(url)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return UnmarshalJSON(f)
}

// --

// SchemeURLLoader delegates to other [URLLoader]
// based on url scheme.
type SchemeURLLoader map[string]URLLoader

func (l SchemeURLLoader) Load(ctx context.Context, urls string) (any, error) {
	u, err := url.Parse(urls)
	if err != nil {
		return nil, err
	}
	ll, ok := l[u.Scheme]
	if !ok {
		return nil, &UnsupportedURLSchemeError{urls}
	}
	return ll.Load(ctx, urls)
}

// --

type UnsupportedURLSchemeError struct {
	URL string
}

func (e *UnsupportedURLSchemeError) Error() string {
	return fmt.Sprintf("no URLLoader registered for %q", e.URL)
}

// --

type LoadURLError struct {
	URL string
	Err error
}

func (e *LoadURLError) Error() string {
	return fmt.Sprintf("failed to load %q: %v", e.URL, e.Err)
}

func (e *LoadURLError) Unwrap() error {
	return e.Err
}

// --

// UnmarshalJSON unmarshals into json value compatible with this library:
// object properties keep their insertion order and numbers are decoded
// as [json.Number] so no precision is lost.
func UnmarshalJSON(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	v, err := decodeValue(dec, tok)
	if err != nil {
		return nil, err
	}
	if _, err = dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("invalid character after top-level value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder, tok json.Token) (any, error) {
	switch tok := tok.(type) {
	case json.Delim:
		switch tok {
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key must be string, got %v", keyTok)
				}
				valTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				val, err := decodeValue(dec, valTok)
				if err != nil {
					return nil, err
				}
				obj.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return obj, nil
		case '[':
			arr := []any{}
			for dec.More() {
				itemTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				item, err := decodeValue(dec, itemTok)
				if err != nil {
					return nil, err
				}
				arr = append(arr, item)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			return arr, nil
		default:
			return nil, fmt.Errorf("unexpected delim %v", tok)
		}
	default:
		// nil, bool, string or json.Number
		return tok, nil
	}
}
