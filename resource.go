package jsonschema

import (
	"net/url"
	"path/filepath"
)

// A Resource is attached to one object-valued schema node.
// Every parsed object node owns one; nodes carrying "$id" (and parse
// roots) are identified resources, which additionally own an anchor
// map and may be looked up by canonical uri.
type Resource struct {
	node *Object

	// baseURI resolves relative uri references within this subtree.
	baseURI string

	// canonicalURI is set by the first absolute "$id"/"id".
	canonicalURI string

	// uri is the document location used for absolute keyword
	// locations; set only on identified resources.
	uri string

	dialect *Dialect

	// keys is the sorted keyword program of the node.
	keys []programKey

	// idRoot is the nearest enclosing identified resource
	// (itself, for identified resources).
	idRoot *Resource

	// ptr locates the node within idRoot.
	ptr string

	// anchors and dynamicAnchors are populated on identified
	// resources only.
	anchors        map[string]any
	dynamicAnchors map[string]any

	// meta is non-nil when the resource was interpreted as a dialect
	// definition via "$vocabulary".
	meta *Dialect
}

// location returns the absolute keyword location of the node.
func (r *Resource) location() string {
	root := r.idRoot
	uri := root.canonicalURI
	if uri == "" {
		uri = root.uri
	}
	return uri + "#" + r.ptr
}

// makeIdentified turns r into an identified resource rooted at uri.
func (r *Resource) makeIdentified(uri string) {
	r.uri = uri
	r.idRoot = r
	r.ptr = ""
	if r.anchors == nil {
		r.anchors = map[string]any{}
		r.dynamicAnchors = map[string]any{}
	}
}

// --

type refKind string

const (
	refStatic  refKind = "$ref"
	refDynamic refKind = "$dynamicRef"
)

type refKey struct {
	node *Object
	kind refKind
}

// reference is a resolved edge from a referring schema node to its
// target node.
type reference struct {
	uri string

	// dynAnchor is the plain-name fragment of a "$dynamicRef",
	// used for dynamic-scope lookup. empty otherwise.
	dynAnchor string

	target any
}

// pendingRef is a reference recorded during parse, resolved after the
// whole document has been walked.
type pendingRef struct {
	node      *Object
	kind      refKind
	uri       string
	dynAnchor string
	loc       string // location of the referring keyword, for errors
}

// --

// registry maps schema nodes to resources and tracks references.
// nodes are identity addressed: references are indirected through the
// registry, never owning pointers, so cyclic schemas need no special
// handling.
type registry struct {
	byNode  map[*Object]*Resource
	byURI   map[string]*Resource
	docs    map[string]any
	pending []*pendingRef
	refs    map[refKey]*reference
}

func newRegistry() *registry {
	return &registry{
		byNode: map[*Object]*Resource{},
		byURI:  map[string]*Resource{},
		docs:   map[string]any{},
		refs:   map[refKey]*reference{},
	}
}

func (reg *registry) lookupByNode(node *Object) *Resource {
	return reg.byNode[node]
}

func (reg *registry) lookupByURI(uri string) *Resource {
	return reg.byURI[uri]
}

// register attaches a resource to node. if canonicalURI is non-empty
// the resource becomes retrievable by that uri.
func (reg *registry) register(res *Resource, canonicalURI string) {
	reg.byNode[res.node] = res
	if canonicalURI != "" {
		if _, ok := reg.byURI[canonicalURI]; !ok {
			reg.byURI[canonicalURI] = res
		}
	}
}

// setAnchor binds a plain-name fragment within res to node.
func (reg *registry) setAnchor(res *Resource, name string, node any, dynamic bool) error {
	root := res.idRoot
	if existing, ok := root.anchors[name]; ok {
		if obj, ok := existing.(*Object); !ok || obj != node {
			return &DuplicateAnchorError{name, root.location(), "", ""}
		}
	}
	root.anchors[name] = node
	if dynamic {
		root.dynamicAnchors[name] = node
	}
	return nil
}

// registerReference enqueues a pending reference.
func (reg *registry) registerReference(node *Object, kind refKind, uri, dynAnchor, loc string) {
	reg.pending = append(reg.pending, &pendingRef{node, kind, uri, dynAnchor, loc})
}

// resolvedRef returns the resolved target for (node, kind).
func (reg *registry) resolvedRef(node *Object, kind refKind) (*reference, bool) {
	ref, ok := reg.refs[refKey{node, kind}]
	return ref, ok
}

// --

// resolveURL resolves ref against base.
func resolveURL(base, ref string) (string, error) {
	if ref == "" {
		return base, nil
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	if refURL.IsAbs() {
		return normalizeURL(ref), nil
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	if baseURL.IsAbs() {
		return normalizeURL(baseURL.ResolveReference(refURL).String()), nil
	}
	// filesystem-relative base
	b, _ := splitFragment(base)
	r, frag := splitFragment(ref)
	if frag != "" {
		frag = "#" + frag
	}
	if r == "" {
		return b + frag, nil
	}
	dir, _ := filepath.Split(b)
	return filepath.Join(dir, r) + frag, nil
}

func normalizeURL(u string) string {
	base, frag := splitFragment(u)
	if frag == "" {
		return base
	}
	return base + "#" + frag
}

