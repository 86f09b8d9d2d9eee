// Package tree is the node model: an identifier-addressed table of owned
// nodes plus non-owning reference nodes, which is how shared and cyclic
// $ref graphs become a finite tree.
package tree

import (
	"slices"

	"github.com/reoring/schematree/change"
	"github.com/reoring/schematree/document"
)

// Shape identifies the node variant.
type Shape int

const (
	ShapePlain Shape = iota
	ShapeComplex
	ShapeRef
)

func (s Shape) String() string {
	switch s {
	case ShapeComplex:
		return "complex"
	case ShapeRef:
		return "ref"
	default:
		return "plain"
	}
}

// Meta is the non-value data of a node.
type Meta struct {
	// Required is true iff the node's key is listed in the parent's required.
	Required bool
	// Keywords holds the meta-keyword subset of the fragment.
	Keywords *document.Object
	// Source is the raw fragment the node was built from.
	Source *document.Object
	// Ref is the normalized pointer of a reference node.
	Ref string
	// Diff is set on nodes of a diff tree.
	Diff *Diff
}

// Diff is the per-node change summary of a diff tree.
type Diff struct {
	// Node is the node's own add/remove/replace status, inherited from the
	// parent's Children or the container's Nested map.
	Node *change.Change
	// Value holds changes of value keywords, keyed by keyword.
	Value map[string]change.Entry
	// Meta holds changes of meta keywords, plus a synthetic "required" entry.
	Meta map[string]change.Entry
	// Children maps child identifiers to their add/remove changes.
	Children map[string]*change.Change
	// Nested maps branch identifiers to their add/remove changes.
	Nested map[string]*change.Change
}

// Empty reports whether no change touches the node.
func (d *Diff) Empty() bool {
	return d == nil || (d.Node == nil && len(d.Value) == 0 && len(d.Meta) == 0 && len(d.Children) == 0 && len(d.Nested) == 0)
}

// Node is the read contract shared by the three variants. Value and Children
// take an optional selected branch identifier; without one, combinators
// forward to their first branch.
type Node[K ~string] interface {
	ID() string
	Key() Key
	Kind() K
	Depth() int
	Path() []Key
	Parent() Node[K]
	Shape() Shape
	CountInDepth() bool
	Meta() *Meta
	// Type is the resolved primitive type ("" for broken references).
	Type() string
	Value(selected ...string) *document.Object
	Children(selected ...string) []Node[K]
	Nested() []Node[K]
	// Args is the argument branch of a GraphQL-style field, or nil.
	Args() Node[K]
}

type base[K ~string] struct {
	id           string
	key          Key
	kind         K
	depth        int
	path         []Key
	parent       Node[K]
	countInDepth bool
	meta         *Meta
}

func newBase[K ~string](parent Node[K], id string, kind K, key Key, meta *Meta, countInDepth bool) base[K] {
	if meta == nil {
		meta = &Meta{}
	}
	b := base[K]{id: id, key: key, kind: kind, parent: parent, countInDepth: countInDepth, meta: meta}
	if parent != nil {
		b.depth = parent.Depth()
		if parent.CountInDepth() {
			b.depth++
		}
		b.path = append(slices.Clone(parent.Path()), key)
	}
	return b
}

func (b *base[K]) ID() string         { return b.id }
func (b *base[K]) Key() Key           { return b.key }
func (b *base[K]) Kind() K            { return b.kind }
func (b *base[K]) Depth() int         { return b.depth }
func (b *base[K]) Path() []Key        { return b.path }
func (b *base[K]) Parent() Node[K]    { return b.parent }
func (b *base[K]) CountInDepth() bool { return b.countInDepth }
func (b *base[K]) Meta() *Meta        { return b.meta }

// PlainNode owns a value and ordered children.
type PlainNode[K ~string] struct {
	base[K]
	typ      string
	value    *document.Object
	children []Node[K]
	args     Node[K]
}

func (n *PlainNode[K]) Shape() Shape                     { return ShapePlain }
func (n *PlainNode[K]) Type() string                     { return n.typ }
func (n *PlainNode[K]) Value(...string) *document.Object { return n.value }
func (n *PlainNode[K]) Children(...string) []Node[K]     { return n.children }
func (n *PlainNode[K]) Nested() []Node[K]                { return nil }
func (n *PlainNode[K]) Args() Node[K]                    { return n.args }

// Placeholder reports whether the node stands in for an unresolved reference.
func (n *PlainNode[K]) Placeholder() bool { return n.value == nil }

// ComplexNode is an allOf/oneOf/anyOf combinator with ordered branches.
type ComplexNode[K ~string] struct {
	base[K]
	combinator string
	nested     []Node[K]
}

func (n *ComplexNode[K]) Shape() Shape       { return ShapeComplex }
func (n *ComplexNode[K]) Combinator() string { return n.combinator }
func (n *ComplexNode[K]) Nested() []Node[K]  { return n.nested }
func (n *ComplexNode[K]) Args() Node[K]      { return nil }

// Branch returns the branch whose identifier is among selected, or the
// default (first) branch.
func (n *ComplexNode[K]) Branch(selected ...string) Node[K] {
	if len(n.nested) == 0 {
		return nil
	}
	for _, b := range n.nested {
		if slices.Contains(selected, b.ID()) {
			return b
		}
	}
	return n.nested[0]
}

func (n *ComplexNode[K]) Type() string {
	if b := n.Branch(); b != nil {
		return b.Type()
	}
	return ""
}

func (n *ComplexNode[K]) Value(selected ...string) *document.Object {
	if b := n.Branch(selected...); b != nil {
		return b.Value(selected...)
	}
	return nil
}

func (n *ComplexNode[K]) Children(selected ...string) []Node[K] {
	if b := n.Branch(selected...); b != nil {
		return b.Children(selected...)
	}
	return nil
}

// RefNode links to a node owned elsewhere in the tree.
type RefNode[K ~string] struct {
	base[K]
	target  Node[K]
	isCycle bool
	args    Node[K]
}

func (n *RefNode[K]) Shape() Shape    { return ShapeRef }
func (n *RefNode[K]) Target() Node[K] { return n.target }

// IsCycle is true when the target was still under construction (an open
// ancestor) when this reference was created. Treat such nodes as leaves in
// unbounded traversals.
func (n *RefNode[K]) IsCycle() bool { return n.isCycle }

// Broken reports whether the reference did not resolve.
func (n *RefNode[K]) Broken() bool {
	p, ok := n.target.(*PlainNode[K])
	return ok && p.Placeholder()
}

func (n *RefNode[K]) Type() string { return n.target.Type() }
func (n *RefNode[K]) Value(selected ...string) *document.Object {
	return n.target.Value(selected...)
}
func (n *RefNode[K]) Children(selected ...string) []Node[K] {
	return n.target.Children(selected...)
}
func (n *RefNode[K]) Nested() []Node[K] { return n.target.Nested() }

// Args returns the reference's own argument branch, or the target's.
func (n *RefNode[K]) Args() Node[K] {
	if n.args != nil {
		return n.args
	}
	return n.target.Args()
}
