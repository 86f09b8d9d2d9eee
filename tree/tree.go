package tree

import (
	"fmt"

	schematree "github.com/reoring/schematree"
	"github.com/reoring/schematree/document"
)

// Tree owns every plain and complex node, keyed by identifier. The map doubles
// as the reference cache: a $ref whose target identifier is present links to
// the existing node instead of building a new one. Reference nodes are owned
// by their parent's child list only and are never registered.
type Tree[K ~string] struct {
	nodes map[string]Node[K]
	order []string
	root  Node[K]
	refs  int
}

// New returns an empty tree.
func New[K ~string]() *Tree[K] {
	return &Tree[K]{nodes: map[string]Node[K]{}}
}

// NodeParams configures a plain node.
type NodeParams struct {
	// Type is the resolved primitive type; required.
	Type         string
	Value        *document.Object
	Meta         *Meta
	CountInDepth bool
}

// ComplexParams configures a combinator node.
type ComplexParams struct {
	Combinator   string
	Meta         *Meta
	CountInDepth bool
}

// CreateNode registers a plain node. The node is not attached; use AddChild,
// AddNested or SetArgs.
func (t *Tree[K]) CreateNode(parent Node[K], id string, kind K, key Key, p NodeParams) (*PlainNode[K], error) {
	if p.Type == "" {
		return nil, schematree.IssueAt(id, schematree.CodeInvalidType, "node has no type", nil)
	}
	n := &PlainNode[K]{base: newBase(parent, id, kind, key, p.Meta, p.CountInDepth), typ: p.Type, value: p.Value}
	if err := t.register(n); err != nil {
		return nil, err
	}
	return n, nil
}

// CreatePlaceholder registers a typeless, valueless node standing in for a
// reference target that could not be resolved.
func (t *Tree[K]) CreatePlaceholder(parent Node[K], id string, kind K, key Key, meta *Meta) (*PlainNode[K], error) {
	n := &PlainNode[K]{base: newBase(parent, id, kind, key, meta, false)}
	if err := t.register(n); err != nil {
		return nil, err
	}
	return n, nil
}

// CreateComplexNode registers a combinator node. Combinator nodes never count
// toward depth; p.CountInDepth is what their branches inherit.
func (t *Tree[K]) CreateComplexNode(parent Node[K], id string, kind K, key Key, p ComplexParams) (*ComplexNode[K], error) {
	n := &ComplexNode[K]{base: newBase(parent, id, kind, key, p.Meta, false), combinator: p.Combinator}
	if err := t.register(n); err != nil {
		return nil, err
	}
	return n, nil
}

// RefParams configures a reference node.
type RefParams[K ~string] struct {
	Target       Node[K]
	IsCycle      bool
	Meta         *Meta
	CountInDepth bool
}

// CreateRefNode returns a reference node. It is not registered: the
// identifier belongs to the position, while the cache holds the target.
func (t *Tree[K]) CreateRefNode(parent Node[K], id string, kind K, key Key, p RefParams[K]) *RefNode[K] {
	t.refs++
	n := &RefNode[K]{base: newBase(parent, id, kind, key, p.Meta, p.CountInDepth), target: p.Target, isCycle: p.IsCycle}
	if parent == nil && t.root == nil {
		t.root = n
	}
	return n
}

// SetRoot replaces the root. Builders call it for the document root, which
// matters when the root is a reference whose target was registered first.
func (t *Tree[K]) SetRoot(n Node[K]) { t.root = n }

func (t *Tree[K]) register(n Node[K]) error {
	id := n.ID()
	if _, dup := t.nodes[id]; dup {
		return schematree.IssueAt(id, schematree.CodeDuplicateNode, fmt.Sprintf("node %q is already registered", id), nil)
	}
	t.nodes[id] = n
	t.order = append(t.order, id)
	if t.root == nil && n.Parent() == nil {
		t.root = n
	}
	return nil
}

// AddChild appends child to a plain node's children.
func (t *Tree[K]) AddChild(parent, child Node[K]) error {
	p, ok := parent.(*PlainNode[K])
	if !ok {
		return fmt.Errorf("tree: cannot add child %q to %s node %q", child.ID(), parent.Shape(), parent.ID())
	}
	p.children = append(p.children, child)
	return nil
}

// AddNested appends a branch to a combinator node.
func (t *Tree[K]) AddNested(container, branch Node[K]) error {
	c, ok := container.(*ComplexNode[K])
	if !ok {
		return fmt.Errorf("tree: cannot nest %q in %s node %q", branch.ID(), container.Shape(), container.ID())
	}
	c.nested = append(c.nested, branch)
	return nil
}

// SetArgs sets the argument branch of a plain or reference node. Arguments
// belong to the position, so a reference keeps its own.
func (t *Tree[K]) SetArgs(node, args Node[K]) error {
	var slot *Node[K]
	switch n := node.(type) {
	case *PlainNode[K]:
		slot = &n.args
	case *RefNode[K]:
		slot = &n.args
	default:
		return fmt.Errorf("tree: cannot set args of %s node %q", node.Shape(), node.ID())
	}
	if *slot != nil {
		return schematree.IssueAt(args.ID(), schematree.CodeDuplicateNode, fmt.Sprintf("node %q already has args", node.ID()), nil)
	}
	*slot = args
	return nil
}

// Root returns the root node, or nil for an empty tree.
func (t *Tree[K]) Root() Node[K] { return t.root }

// Node returns the owned node registered under id.
func (t *Tree[K]) Node(id string) (Node[K], bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Len counts owned nodes.
func (t *Tree[K]) Len() int { return len(t.nodes) }

// Refs counts reference nodes created in this tree.
func (t *Tree[K]) Refs() int { return t.refs }

// IDs returns the owned identifiers in creation order.
func (t *Tree[K]) IDs() []string { return append([]string(nil), t.order...) }

// Walk visits the tree depth first from the root: args, then nested branches,
// then children. Reference nodes are visited but never descended, so the walk
// always terminates. Returning false from fn skips the node's subtree.
func (t *Tree[K]) Walk(fn func(n Node[K]) bool) {
	if t.root != nil {
		walkNode(t.root, fn)
	}
}

func walkNode[K ~string](n Node[K], fn func(Node[K]) bool) {
	if !fn(n) {
		return
	}
	if a := ownArgs(n); a != nil {
		walkNode(a, fn)
	}
	if n.Shape() == ShapeRef {
		return
	}
	for _, b := range n.Nested() {
		walkNode(b, fn)
	}
	if n.Shape() == ShapePlain {
		for _, c := range n.Children() {
			walkNode(c, fn)
		}
	}
}

// ownArgs returns the args branch created at n's position, ignoring args a
// reference forwards from its target.
func ownArgs[K ~string](n Node[K]) Node[K] {
	if r, ok := n.(*RefNode[K]); ok {
		return r.args
	}
	return n.Args()
}
