// Package difftree builds trees whose nodes carry the change annotations of a
// merged schema document. The build is the ordinary one from package
// builder; an Annotator folds the side table into a tree.Diff as each node is
// created, so a node's own status is always looked up in its parent's (or
// container's) already computed summary.
package difftree

import (
	"slices"

	"github.com/reoring/schematree/builder"
	"github.com/reoring/schematree/change"
	"github.com/reoring/schematree/document"
	"github.com/reoring/schematree/keyword"
	"github.com/reoring/schematree/pointer"
	"github.com/reoring/schematree/tree"
)

// memberKeywords hold maps of child schemas keyed by member name.
var memberKeywords = []string{"properties", "patternProperties"}

// singleKeywords hold one child schema each.
var singleKeywords = []string{"additionalProperties", "additionalItems"}

// Annotator implements builder.Annotator over a change table.
type Annotator[K ~string] struct {
	changes change.Table
	kw      *keyword.Table
}

// NewAnnotator returns an Annotator. A nil keyword table means keyword.Default().
func NewAnnotator[K ~string](changes change.Table, kw *keyword.Table) *Annotator[K] {
	if kw == nil {
		kw = keyword.Default()
	}
	return &Annotator[K]{changes: changes, kw: kw}
}

func (a *Annotator[K]) Annotate(x builder.Annotation[K]) *tree.Diff {
	n := x.Node
	d := &tree.Diff{Node: inherited(n)}

	switch v := n.(type) {
	case *tree.RefNode[K]:
		// content lives at the target; the reference position keeps its own
		// $ref and annotation changes
		a.keywords(d, a.changes.Bag(v.Target().ID()), v.Type())
		a.keywords(d, a.changes.Bag(n.ID()), "")
	case *tree.ComplexNode[K]:
		a.keywords(d, a.changes.Bag(n.ID()), "")
		a.nested(d, n.ID(), x.Fragment, v.Combinator())
	default:
		a.keywords(d, a.changes.Bag(n.ID()), n.Type())
		a.children(d, n.ID(), x.Fragment)
	}
	a.required(d, n)
	return d
}

// inherited returns the node's own status from its parent's summary.
func inherited[K ~string](n tree.Node[K]) *change.Change {
	p := n.Parent()
	if p == nil || p.Meta().Diff == nil {
		return nil
	}
	if p.Shape() == tree.ShapeComplex {
		return p.Meta().Diff.Nested[n.ID()]
	}
	return p.Meta().Diff.Children[n.ID()]
}

// keywords files the bag's entries under Value or Meta by classification.
// Structural and unknown keywords are left out: their effect shows up on the
// children instead.
func (a *Annotator[K]) keywords(d *tree.Diff, bag change.Bag, typ string) {
	for kw, e := range bag {
		switch {
		case kw == pointer.RefKey:
			d.Meta = put(d.Meta, kw, e)
		case typ != "" && a.kw.IsValue(typ, kw):
			d.Value = put(d.Value, kw, e)
		case a.kw.IsMeta(kw):
			d.Meta = put(d.Meta, kw, e)
		}
	}
}

// required adds the synthetic "required" meta change of a property from the
// parent's required list diff.
func (a *Annotator[K]) required(d *tree.Diff, n tree.Node[K]) {
	p := n.Parent()
	if p == nil || n.Key().IsIndex() {
		return
	}
	name := n.Key().Name()
	if n.ID() != pointer.Join(p.ID(), "properties", name) {
		return
	}
	idx := slices.Index(p.Meta().Source.Strings("required"), name)
	if idx < 0 {
		return
	}
	if c := a.changes.Bag(p.ID())["required"].At(idx); c != nil {
		d.Meta = put(d.Meta, "required", change.Entry{Change: c})
	}
}

// children pre-populates the add/remove status of every child position.
func (a *Annotator[K]) children(d *tree.Diff, loc string, frag *document.Object) {
	bag := a.changes.Bag(loc)
	for _, kw := range memberKeywords {
		members := frag.Object(kw)
		if members.Len() == 0 {
			continue
		}
		whole := bag[kw].Change
		inner := a.changes.Bag(pointer.Join(loc, kw))
		for name := range members.All() {
			c := inner[name].Change
			if !moves(c) {
				c = whole
			}
			if moves(c) {
				d.Children = link(d.Children, pointer.Join(loc, kw, name), c)
			}
		}
	}
	for _, kw := range singleKeywords {
		if c := bag[kw].Change; frag.Has(kw) && moves(c) {
			d.Children = link(d.Children, pointer.Join(loc, kw), c)
		}
	}
	switch items := member(frag, "items").(type) {
	case []any:
		e := bag["items"]
		for i := range items {
			if c := e.At(i); moves(c) {
				d.Children = link(d.Children, pointer.JoinIndex(pointer.Join(loc, "items"), i), c)
			}
		}
	case *document.Object:
		if c := bag["items"].Change; moves(c) {
			d.Children = link(d.Children, pointer.Join(loc, "items"), c)
		}
	}
}

// nested pre-populates the add/remove status of every combinator branch.
func (a *Annotator[K]) nested(d *tree.Diff, loc string, frag *document.Object, comb string) {
	e := a.changes.Bag(loc)[comb]
	if e.Empty() {
		return
	}
	for i := range frag.Array(comb) {
		if c := e.At(i); moves(c) {
			d.Nested = link(d.Nested, pointer.JoinIndex(pointer.Join(loc, comb), i), c)
		}
	}
}

// moves reports whether c changes the existence or name of a location.
func moves(c *change.Change) bool {
	return c != nil && (c.Action == change.Add || c.Action == change.Remove || c.Action == change.Rename)
}

func put(m map[string]change.Entry, k string, e change.Entry) map[string]change.Entry {
	if m == nil {
		m = map[string]change.Entry{}
	}
	m[k] = e
	return m
}

func link(m map[string]*change.Change, id string, c *change.Change) map[string]*change.Change {
	if m == nil {
		m = map[string]*change.Change{}
	}
	m[id] = c
	return m
}

func member(o *document.Object, k string) any {
	v, _ := o.Get(k)
	return v
}
