package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/schemaline/jsonschema"
)

func newLoader(insecure bool) jsonschema.URLLoader {
	httpLoader := HTTPLoader(http.Client{
		Timeout: 15 * time.Second,
	})
	if insecure {
		httpLoader.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
	return jsonschema.SchemeURLLoader{
		"":      FileLoader{},
		"file":  FileLoader{},
		"http":  &httpLoader,
		"https": &httpLoader,
	}
}

type FileLoader struct{}

func (l FileLoader) Load(_ context.Context, url string) (any, error) {
	path, err := jsonschema.FileLoader{}.ToFile(url)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if ext := filepath.Ext(path); ext == ".yaml" || ext == ".yml" {
		var v any
		err := yaml.NewDecoder(f).Decode(&v)
		return yamlToJSON(v), err
	}
	return jsonschema.UnmarshalJSON(f)
}

type HTTPLoader http.Client

func (l *HTTPLoader) Load(ctx context.Context, url string) (any, error) {
	client := (*http.Client)(l)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%s returned status code %d", url, resp.StatusCode)
	}
	defer resp.Body.Close()

	isYAML := strings.HasSuffix(url, ".yaml") || strings.HasSuffix(url, ".yml")
	if !isYAML {
		ctype := resp.Header.Get("Content-Type")
		isYAML = strings.HasSuffix(ctype, "/yaml") || strings.HasSuffix(ctype, "-yaml")
	}
	if isYAML {
		var v any
		err := yaml.NewDecoder(resp.Body).Decode(&v)
		return yamlToJSON(v), err
	}
	return jsonschema.UnmarshalJSON(resp.Body)
}

// yamlToJSON rewrites yaml maps into json objects. yaml decoding
// does not preserve document order, so keys are sorted.
func yamlToJSON(v any) any {
	switch v := v.(type) {
	case map[string]any:
		obj := jsonschema.NewObject()
		for _, k := range sortedKeys(v) {
			obj.Set(k, yamlToJSON(v[k]))
		}
		return obj
	case []any:
		arr := make([]any, len(v))
		for i, item := range v {
			arr[i] = yamlToJSON(item)
		}
		return arr
	default:
		return v
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
