package jsonschema

import (
	"strings"
)

// validator walks a schema node and an instance in lockstep, invoking
// keyword validates in program order and propagating output units up
// the frame chain. Validation is synchronous and touches the context
// read-only; each validation owns its frames and output tree.
type validator struct {
	c      *Context
	frames []*frame
}

func (vd *validator) top() *frame {
	return vd.frames[len(vd.frames)-1]
}

func (vd *validator) pop() {
	vd.frames = vd.frames[:len(vd.frames)-1]
}

// pushKeyword enters the frame of one keyword of the current schema,
// bound to the same instance, with a fresh output unit.
func (vd *validator) pushKeyword(key string, node any) *frame {
	parent := vd.top()
	f := &frame{
		parent:   parent,
		key:      key,
		hasKey:   true,
		node:     node,
		instance: parent.instance,
		instLoc:  parent.instLoc,
		kwLoc:    parent.kwLoc + "/" + escape(key),
		abs:      parent.abs + "/" + escape(key),
	}
	f.out = &OutputUnit{
		Valid:                   true,
		KeywordLocation:         f.kwLoc,
		AbsoluteKeywordLocation: f.abs,
		InstanceLocation:        f.instLoc,
	}
	vd.frames = append(vd.frames, f)
	return f
}

// pushApply enters the frame of a subschema application. key extends
// the keyword location when set; instKey descends into the instance
// when hasInst is set.
func (vd *validator) pushApply(key string, hasKey bool, node any, instKey string, hasInst bool, instance any) *frame {
	parent := vd.top()
	f := &frame{
		parent:   parent,
		key:      key,
		hasKey:   hasKey,
		node:     node,
		instKey:  instKey,
		hasInst:  hasInst,
		instance: instance,
		kwLoc:    parent.kwLoc,
		instLoc:  parent.instLoc,
		abs:      parent.abs,
	}
	if hasKey {
		f.kwLoc += "/" + escape(key)
		f.abs += "/" + escape(key)
	}
	if hasInst {
		f.instLoc += "/" + escape(instKey)
	} else {
		f.instance = parent.instance
	}
	f.out = &OutputUnit{
		Valid:                   true,
		KeywordLocation:         f.kwLoc,
		AbsoluteKeywordLocation: f.abs,
		InstanceLocation:        f.instLoc,
	}
	vd.frames = append(vd.frames, f)
	return f
}

// validateNode runs the validate pipeline for node against the
// current frame's instance.
func (vd *validator) validateNode(node any) error {
	f := vd.top()
	switch node := node.(type) {
	case bool:
		if !node {
			f.out.setError(errmsg("never valid"))
		}
		return nil
	case *Object:
		res := vd.c.reg.lookupByNode(node)
		if res == nil {
			return &UninitializedSchemaError{f.kwLoc}
		}
		// a schema revisited at the same instance location without
		// consuming input can only recurse forever
		for g := f.parent; g != nil; g = g.parent {
			if g.res != nil && g.res.node == node && g.instLoc == f.instLoc {
				return InfiniteLoopError(res.location() + " at " + quoteLoc(f.instLoc))
			}
		}
		// a keyword frame validating a subschema in place becomes the
		// frame of that schema, so siblings read it as their node
		f.res = res
		f.node = node
		f.baseURI = res.baseURI
		f.abs = res.location()
		for _, pk := range res.keys {
			if pk.kw.Validate == nil {
				continue
			}
			kf := vd.pushKeyword(pk.key, pk.value)
			err := pk.kw.Validate(vd, pk.value)
			if err != nil {
				vd.pop()
				return err
			}
			attach(kf.parent.nearestOutput(), kf.out)
			vd.pop()
		}
		return nil
	default:
		return &UninitializedSchemaError{f.kwLoc}
	}
}

func quoteLoc(loc string) string {
	if loc == "" {
		return "/"
	}
	return loc
}

// validateSelf validates node as a subschema on the current keyword
// frame itself; used by keywords whose value is one schema and by
// $ref/$dynamicRef for their resolved target, so the keyword location
// is also the subschema location.
func (vd *validator) validateSelf(node any) error {
	return vd.validateNode(node)
}

// apply validates node against instance in a child frame, emits the
// result into the nearest output, and reports the subschema validity.
func (vd *validator) apply(key string, hasKey bool, node any, instKey string, hasInst bool, instance any) (bool, error) {
	f := vd.pushApply(key, hasKey, node, instKey, hasInst, instance)
	err := vd.validateNode(node)
	valid := f.out.Valid
	if err == nil {
		attach(f.parent.nearestOutput(), f.out)
	}
	vd.pop()
	return valid && err == nil, err
}

// applyInPlace validates node against the same instance under key.
func (vd *validator) applyInPlace(key string, node any) (bool, error) {
	return vd.apply(key, true, node, "", false, nil)
}

// applyItem validates node against the instance element at instKey,
// without extending the keyword location.
func (vd *validator) applyItem(node any, instKey string, instance any) (bool, error) {
	return vd.apply("", false, node, instKey, true, instance)
}

// applyChild validates node against the instance element at instKey,
// extending the keyword location with key.
func (vd *validator) applyChild(key string, node any, instKey string, instance any) (bool, error) {
	return vd.apply(key, true, node, instKey, true, instance)
}

// --

func (vd *validator) instance() any {
	return vd.top().instance
}

// fail attaches a failure message to the current output frame.
func (vd *validator) fail(format string, args ...any) {
	vd.top().out.setError(errmsg(format, args...))
}

// annotate records v as annotation at the current location.
func (vd *validator) annotate(v any) {
	vd.top().out.setAnnotation(v)
}

// schemaFrame returns the nearest frame evaluating a schema object.
func (vd *validator) schemaFrame() *frame {
	for f := vd.top(); f != nil; f = f.parent {
		if f.res != nil {
			return f
		}
	}
	return nil
}

// schemaValue reads a sibling keyword's raw value from the schema
// object being evaluated.
func (vd *validator) schemaValue(key string) (any, bool) {
	sf := vd.schemaFrame()
	if sf == nil {
		return nil, false
	}
	obj, ok := sf.node.(*Object)
	if !ok {
		return nil, false
	}
	return obj.Get(key)
}

// siblingAnnotation returns the annotation attached by sibling
// keyword kw of the current schema object, if it evaluated
// successfully.
func (vd *validator) siblingAnnotation(kw string) (any, bool) {
	sf := vd.schemaFrame()
	if sf == nil {
		return nil, false
	}
	want := sf.kwLoc + "/" + kw
	for _, u := range sf.out.Annotations {
		if u.Annotated && u.InstanceLocation == sf.instLoc && u.KeywordLocation == want {
			return u.Annotation, true
		}
	}
	return nil, false
}

// dynamicAnnotations collects every annotation attached under the
// current schema's output for keyword kw at the same instance
// location. This aggregates across allOf/anyOf/oneOf/if/then/else,
// $ref and $dynamicRef applications, wherever they validated
// successfully; failed subtrees hang off error lists and are not
// visited.
func (vd *validator) dynamicAnnotations(kw string) []any {
	sf := vd.schemaFrame()
	if sf == nil {
		return nil
	}
	loc := sf.instLoc
	suffix := "/" + kw
	var vals []any
	var walk func(u *OutputUnit)
	walk = func(u *OutputUnit) {
		for _, a := range u.Annotations {
			if a.Annotated && a.InstanceLocation == loc && strings.HasSuffix(a.KeywordLocation, suffix) {
				vals = append(vals, a.Annotation)
			}
			walk(a)
		}
	}
	walk(sf.out)
	return vals
}

// dynamicAnchorTarget walks the dynamic frame chain from the
// outermost frame down, returning the node of the first resource in
// scope declaring a dynamic anchor with the given name.
func (vd *validator) dynamicAnchorTarget(name string) (any, bool) {
	for _, f := range vd.frames {
		if f.res == nil {
			continue
		}
		if node, ok := f.res.idRoot.dynamicAnchors[name]; ok {
			return node, true
		}
	}
	return nil, false
}
