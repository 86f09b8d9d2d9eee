package builder

import (
	"fmt"
	"strings"

	"github.com/reoring/schematree/document"
	"github.com/reoring/schematree/keyword"
	"github.com/reoring/schematree/pointer"
)

// status is the construction state of an identifier. A reference to an
// identifier that has not reached complete is a cycle reference.
type status int

const (
	unvisited status = iota
	resolving
	cachedNode
	attachedNode
	descended
	complete
)

func (s status) String() string {
	return [...]string{"unvisited", "resolving", "cached", "attached", "descended", "complete"}[s]
}

// target is the outcome of resolving one $ref value.
type target struct {
	id   string
	doc  string
	frag *document.Object
	// reason is set when the reference is broken.
	reason string
}

func (t target) found() bool { return t.reason == "" }

// qualify normalizes raw relative to the document it appears in.
func qualify(doc, raw string) string {
	ptr := pointer.Normalize(raw)
	if doc != "" && strings.HasPrefix(ptr, pointer.Root) {
		ptr = doc + ptr
	}
	return ptr
}

// resolve normalizes raw and follows pure reference chains (fragments that
// are nothing but a $ref plus annotations) until it reaches a schema object.
func (r *Run[K]) resolve(doc, raw string) target {
	ptr := qualify(doc, raw)
	seen := map[string]bool{}
	for {
		name, _ := pointer.Split(ptr)
		t := target{id: ptr, doc: name}
		if seen[ptr] {
			t.reason = "reference chain loops back to " + ptr
			return t
		}
		seen[ptr] = true
		if _, ok := r.tree.Node(ptr); ok {
			return t
		}
		d, err := r.document(name)
		if err != nil {
			t.reason = err.Error()
			return t
		}
		v, ok := pointer.Resolve(d, ptr)
		if !ok {
			t.reason = "pointer does not resolve"
			return t
		}
		obj, ok := v.(*document.Object)
		if !ok {
			t.reason = fmt.Sprintf("target is not a schema object (%T)", v)
			return t
		}
		if next, ok := pointer.RefOf(obj); ok && r.pureRef(obj) {
			r.log.Debug("follow reference chain", "from", ptr, "ref", next)
			ptr = qualify(name, next)
			continue
		}
		t.frag = obj
		return t
	}
}

func (r *Run[K]) pureRef(obj *document.Object) bool {
	return len(r.b.table.StructuralKeys(obj)) == 0 && !obj.Has(keyword.Args)
}

func (r *Run[K]) document(name string) (any, error) {
	if name == "" {
		return r.doc, nil
	}
	if d, ok := r.docs[name]; ok {
		return d, nil
	}
	if r.b.opts.Source == nil {
		return nil, fmt.Errorf("no source for document %q", name)
	}
	d, err := r.b.opts.Source.Document(name)
	if err != nil {
		return nil, err
	}
	r.docs[name] = d
	return d, nil
}

func (r *Run[K]) setStatus(id string, s status) {
	r.status[id] = s
}

// open reports whether id is registered but not yet complete.
func (r *Run[K]) open(id string) bool {
	s := r.status[id]
	return s != unvisited && s != complete
}
