package tree

import "github.com/reoring/schematree/document"

// Snapshot is a plain, serializable copy of a subtree. Reference nodes record
// their target identifier and are not expanded, so snapshots of cyclic trees
// are finite. Two builds of the same input produce equal snapshots.
type Snapshot struct {
	ID         string      `json:"id" yaml:"id"`
	Key        string      `json:"key,omitempty" yaml:"key,omitempty"`
	Kind       string      `json:"kind" yaml:"kind"`
	Shape      string      `json:"shape" yaml:"shape"`
	Depth      int         `json:"depth" yaml:"depth"`
	Type       string      `json:"type,omitempty" yaml:"type,omitempty"`
	Required   bool        `json:"required,omitempty" yaml:"required,omitempty"`
	Value      any         `json:"value,omitempty" yaml:"value,omitempty"`
	Meta       any         `json:"meta,omitempty" yaml:"meta,omitempty"`
	Combinator string      `json:"combinator,omitempty" yaml:"combinator,omitempty"`
	Target     string      `json:"target,omitempty" yaml:"target,omitempty"`
	Cycle      bool        `json:"cycle,omitempty" yaml:"cycle,omitempty"`
	Diff       *Diff       `json:"diff,omitempty" yaml:"diff,omitempty"`
	Args       *Snapshot   `json:"args,omitempty" yaml:"args,omitempty"`
	Nested     []*Snapshot `json:"nested,omitempty" yaml:"nested,omitempty"`
	Children   []*Snapshot `json:"children,omitempty" yaml:"children,omitempty"`
}

// Snapshot returns the snapshot of the whole tree, or nil when empty.
func (t *Tree[K]) Snapshot() *Snapshot {
	if t.root == nil {
		return nil
	}
	return SnapshotOf(t.root)
}

// SnapshotOf returns the snapshot of the subtree rooted at n.
func SnapshotOf[K ~string](n Node[K]) *Snapshot {
	s := &Snapshot{
		ID:       n.ID(),
		Key:      n.Key().String(),
		Kind:     string(n.Kind()),
		Shape:    n.Shape().String(),
		Depth:    n.Depth(),
		Required: n.Meta().Required,
		Meta:     goOrNil(n.Meta().Keywords),
	}
	if d := n.Meta().Diff; !d.Empty() {
		s.Diff = d
	}
	if a := ownArgs(n); a != nil {
		s.Args = SnapshotOf(a)
	}
	switch v := n.(type) {
	case *RefNode[K]:
		s.Target = v.Target().ID()
		s.Cycle = v.IsCycle()
		s.Type = v.Type()
		return s
	case *ComplexNode[K]:
		s.Combinator = v.Combinator()
		for _, b := range v.Nested() {
			s.Nested = append(s.Nested, SnapshotOf(b))
		}
		return s
	case *PlainNode[K]:
		s.Type = v.Type()
		s.Value = goOrNil(v.Value())
		for _, c := range v.Children() {
			s.Children = append(s.Children, SnapshotOf(c))
		}
	}
	return s
}

func goOrNil(o *document.Object) any {
	if o.Len() == 0 {
		return nil
	}
	return document.ToGo(o)
}
