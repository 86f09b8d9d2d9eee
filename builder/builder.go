// Package builder turns a schema document into a tree.Tree. Every schema
// position matched by the walk rules becomes one node: a plain node with its
// value and meta keywords partitioned, a complex node for allOf/oneOf/anyOf,
// or a reference node linking to a node owned elsewhere. Reference targets are
// built once under their own pointer and cached; references that reach a
// target still under construction are flagged as cycles.
package builder

import (
	"fmt"
	"log/slog"
	"slices"

	schematree "github.com/reoring/schematree"
	"github.com/reoring/schematree/document"
	"github.com/reoring/schematree/keyword"
	"github.com/reoring/schematree/pointer"
	"github.com/reoring/schematree/tree"
	"github.com/reoring/schematree/walk"
)

// Kinds names the kinds the builder assigns itself. Every other kind comes
// from the walk rules.
type Kinds[K ~string] struct {
	// Root is the kind of the document root when its rule names none.
	Root K
	// Definition is the kind of reference targets.
	Definition K
	// Args marks argument groups; nodes of this kind attach through
	// tree.SetArgs instead of AddChild. Empty disables the behavior.
	Args K
}

// Options configures a Builder.
type Options[K ~string] struct {
	Kinds Kinds[K]
	// Table classifies keywords; nil means keyword.Default().
	Table *keyword.Table
	// Source resolves references into other documents; nil limits
	// resolution to the local document.
	Source Source
	// Annotator, when set, computes a tree.Diff for every node at creation.
	Annotator Annotator[K]
	// Logger receives debug traces of reference resolution; nil discards.
	Logger *slog.Logger
}

// Annotation is what an Annotator sees of a freshly created node.
type Annotation[K ~string] struct {
	Node tree.Node[K]
	// Fragment is the raw fragment at the node's own position.
	Fragment *document.Object
	// Target is the fragment of a reference's target (nil otherwise, and for
	// broken references).
	Target *document.Object
}

// Annotator attaches per-node change summaries while a tree is built.
type Annotator[K ~string] interface {
	Annotate(a Annotation[K]) *tree.Diff
}

// Builder builds trees. It holds no per-build state and may be reused.
type Builder[K ~string] struct {
	opts  Options[K]
	table *keyword.Table
	log   *slog.Logger
}

// New returns a Builder.
func New[K ~string](opts Options[K]) *Builder[K] {
	b := &Builder[K]{opts: opts, table: opts.Table, log: opts.Logger}
	if b.table == nil {
		b.table = keyword.Default()
	}
	if b.log == nil {
		b.log = slog.New(slog.DiscardHandler)
	}
	return b
}

// Build walks doc with rules and returns the finished tree. Fatal problems
// abort the build and no tree is returned; unresolved and cyclic references
// are reported through Diag.
func (b *Builder[K]) Build(doc any, rules *walk.Rule[K]) (*tree.Tree[K], schematree.Diag, error) {
	r := b.Start(doc)
	if err := r.Walk(rules); err != nil {
		return nil, r.diag, err
	}
	return r.tree, r.diag, nil
}

// Run is one build in progress. Domain adapters that drive construction
// themselves obtain one from Start and call BuildNode.
type Run[K ~string] struct {
	b      *Builder[K]
	doc    any
	tree   *tree.Tree[K]
	diag   *schematree.Collector
	status map[string]status
	docs   map[string]any
	log    *slog.Logger
}

// Start begins a build over doc.
func (b *Builder[K]) Start(doc any) *Run[K] {
	return &Run[K]{
		b:      b,
		doc:    doc,
		tree:   tree.New[K](),
		diag:   &schematree.Collector{},
		status: map[string]status{},
		docs:   map[string]any{},
		log:    b.log,
	}
}

func (r *Run[K]) Tree() *tree.Tree[K]   { return r.tree }
func (r *Run[K]) Diag() schematree.Diag { return r.diag }

// Walk builds the whole document.
func (r *Run[K]) Walk(rules *walk.Rule[K]) error {
	return walk.Walk(r.doc, rules, state[K]{base: pointer.Root}, r.hook)
}

// NodeRequest asks for one node.
type NodeRequest[K ~string] struct {
	ID       string
	Kind     K
	Key      tree.Key
	Fragment any
	// Parent owns the node; nil for the root.
	Parent tree.Node[K]
	// Container, when set, receives the node as a combinator branch.
	Container    *tree.ComplexNode[K]
	CountInDepth bool
	// Segments lead from the parent's position to this one; a node is
	// required when they are ["properties", name] and the parent lists name.
	Segments []string
	// Doc names the document the fragment belongs to ("" for the local one).
	Doc string
	// Rule matched the position. Reference targets are descended with it;
	// nil leaves targets childless.
	Rule *walk.Rule[K]
	// Detached nodes are registered but not attached (reference targets).
	Detached bool
}

// NodeResult describes a built node and how to continue below it.
type NodeResult[K ~string] struct {
	Node tree.Node[K]
	// Remaining is the value to descend into, nil for none. For complex
	// nodes it holds only the combinator keyword.
	Remaining any
	// Owner is the parent of the nodes found in Remaining.
	Owner tree.Node[K]
	// Container is set when Remaining holds combinator branches.
	Container *tree.ComplexNode[K]
	// After marks the node complete; call it once Remaining is descended.
	After func()
}

type state[K ~string] struct {
	parent    tree.Node[K]
	container *tree.ComplexNode[K]
	// inherit is the depth flag handed to the container's branches.
	inherit bool
	base    string
	doc     string
}

func (r *Run[K]) hook(v any, ctx walk.Context[K, state[K]]) (walk.Result[state[K]], error) {
	st := ctx.State
	count := !ctx.Rule.NoDepth
	if st.container != nil {
		count = count && st.inherit
	}
	var none K
	kind := ctx.Rule.Kind
	if st.parent == nil && kind == none {
		kind = r.b.opts.Kinds.Root
	}
	res, err := r.BuildNode(NodeRequest[K]{
		ID:           pointer.Join(st.base, ctx.Segments...),
		Kind:         kind,
		Key:          tree.KeyOf(ctx.Key),
		Fragment:     v,
		Parent:       st.parent,
		Container:    st.container,
		CountInDepth: count,
		Segments:     ctx.Segments,
		Doc:          st.doc,
		Rule:         ctx.Rule,
	})
	if err != nil {
		return walk.Result[state[K]]{}, err
	}
	if st.parent == nil {
		r.tree.SetRoot(res.Node)
	}
	if res.Remaining != nil && res.Node.Shape() != tree.ShapeRef {
		r.setStatus(res.Node.ID(), descended)
	}
	return walk.Result[state[K]]{
		Stop:  res.Remaining == nil,
		Value: res.Remaining,
		After: res.After,
		State: state[K]{parent: res.Owner, container: res.Container, inherit: count, base: res.Node.ID(), doc: st.doc},
	}, nil
}

// BuildNode classifies one fragment and builds the matching node: a reference
// node for $ref fragments, a complex node for combinators, a plain node
// otherwise. A position already registered as a reference target becomes a
// reference to that node.
func (r *Run[K]) BuildNode(req NodeRequest[K]) (NodeResult[K], error) {
	frag, ok := req.Fragment.(*document.Object)
	if !ok || frag == nil {
		return NodeResult[K]{}, schematree.IssueAt(req.ID, schematree.CodeInvalidFragment, fmt.Sprintf("expected a schema object, got %T", req.Fragment), nil)
	}
	if existing, ok := r.tree.Node(req.ID); ok {
		return r.link(req, frag, existing)
	}
	if raw, ok := pointer.RefOf(frag); ok {
		return r.buildRef(req, frag, raw)
	}
	if comb, ok := keyword.Combinator(frag); ok {
		return r.buildComplex(req, frag, comb)
	}
	return r.buildPlain(req, frag)
}

func (r *Run[K]) buildPlain(req NodeRequest[K], frag *document.Object) (NodeResult[K], error) {
	typ, err := r.b.table.ResolveType(frag)
	if err != nil {
		return NodeResult[K]{}, schematree.IssueAt(req.ID, schematree.CodeInvalidType, err.Error(), nil)
	}
	value, kw := r.b.table.Partition(typ, frag)
	n, err := r.tree.CreateNode(req.Parent, req.ID, req.Kind, req.Key, tree.NodeParams{
		Type:         typ,
		Value:        value,
		Meta:         &tree.Meta{Required: r.required(req), Keywords: kw, Source: frag},
		CountInDepth: req.CountInDepth,
	})
	if err != nil {
		return NodeResult[K]{}, err
	}
	if err := r.place(req, n, frag); err != nil {
		return NodeResult[K]{}, err
	}
	return NodeResult[K]{Node: n, Remaining: frag, Owner: n, After: r.completer(n.ID())}, nil
}

func (r *Run[K]) buildComplex(req NodeRequest[K], frag *document.Object, comb string) (NodeResult[K], error) {
	branches := frag.Array(comb)
	if len(branches) == 0 {
		return NodeResult[K]{}, schematree.IssueAt(req.ID, schematree.CodeInvalidFragment, fmt.Sprintf("%s has no branches", comb), nil)
	}
	c, err := r.tree.CreateComplexNode(req.Parent, req.ID, req.Kind, req.Key, tree.ComplexParams{
		Combinator:   comb,
		Meta:         &tree.Meta{Required: r.required(req), Keywords: frag.Pick(r.b.table.IsMeta), Source: frag},
		CountInDepth: req.CountInDepth,
	})
	if err != nil {
		return NodeResult[K]{}, err
	}
	if err := r.place(req, c, frag); err != nil {
		return NodeResult[K]{}, err
	}
	rest := document.NewObject()
	rest.Set(comb, branches)
	return NodeResult[K]{Node: c, Remaining: rest, Owner: c, Container: c, After: r.completer(c.ID())}, nil
}

func (r *Run[K]) buildRef(req NodeRequest[K], frag *document.Object, raw string) (NodeResult[K], error) {
	if extra := r.b.table.StructuralKeys(frag); len(extra) > 0 {
		return NodeResult[K]{}, schematree.IssueAt(req.ID, schematree.CodeAmbiguousRef,
			fmt.Sprintf("$ref %q has structural siblings %v", raw, extra), map[string]any{"siblings": extra})
	}
	t := r.resolve(req.Doc, raw)
	target, ok := r.tree.Node(t.id)
	switch {
	case ok:
	case !t.found():
		r.diag.Warnf(req.ID, schematree.CodeUnresolvedRef, "%s: %s", raw, t.reason)
		r.log.Debug("unresolved reference", "at", req.ID, "ref", raw, "reason", t.reason)
		p, err := r.tree.CreatePlaceholder(req.Parent, t.id, r.b.opts.Kinds.Definition, lastKey(t.id), &tree.Meta{Ref: t.id})
		if err != nil {
			return NodeResult[K]{}, err
		}
		r.setStatus(t.id, complete)
		target = p
	default:
		built, err := r.buildTarget(req, t)
		if err != nil {
			return NodeResult[K]{}, err
		}
		target = built
	}
	return r.link(req, frag, target)
}

// buildTarget builds a reference target detached under its own pointer and
// descends it with the rule of the referencing position.
func (r *Run[K]) buildTarget(req NodeRequest[K], t target) (tree.Node[K], error) {
	r.setStatus(t.id, resolving)
	r.log.Debug("build reference target", "target", t.id, "from", req.ID)
	res, err := r.BuildNode(NodeRequest[K]{
		ID:           t.id,
		Kind:         r.b.opts.Kinds.Definition,
		Key:          lastKey(t.id),
		Fragment:     t.frag,
		Parent:       req.Parent,
		CountInDepth: req.CountInDepth,
		Doc:          t.doc,
		Rule:         req.Rule,
		Detached:     true,
	})
	if err != nil {
		return nil, err
	}
	if res.Remaining != nil && req.Rule != nil {
		r.setStatus(t.id, descended)
		st := state[K]{parent: res.Owner, container: res.Container, inherit: req.CountInDepth, base: res.Node.ID(), doc: t.doc}
		if err := walk.Descend(res.Remaining, t.id, req.Rule, st, r.hook); err != nil {
			return nil, err
		}
	}
	if res.After != nil {
		res.After()
	}
	return res.Node, nil
}

// link creates the reference node at the requested position.
func (r *Run[K]) link(req NodeRequest[K], frag *document.Object, target tree.Node[K]) (NodeResult[K], error) {
	cycle := r.open(target.ID())
	if cycle {
		r.diag.Warnf(req.ID, schematree.CodeCyclicRef, "reference to %s closes a cycle", target.ID())
		r.log.Debug("cycle reference", "at", req.ID, "target", target.ID())
	}
	n := r.tree.CreateRefNode(req.Parent, req.ID, req.Kind, req.Key, tree.RefParams[K]{
		Target:       target,
		IsCycle:      cycle,
		Meta:         &tree.Meta{Required: r.required(req), Keywords: frag.Pick(r.b.table.IsMeta), Source: frag, Ref: target.ID()},
		CountInDepth: req.CountInDepth,
	})
	if err := r.place(req, n, frag); err != nil {
		return NodeResult[K]{}, err
	}
	res := NodeResult[K]{Node: n, Owner: n}
	if args, ok := frag.Get(keyword.Args); ok {
		rest := document.NewObject()
		rest.Set(keyword.Args, args)
		res.Remaining = rest
	}
	return res, nil
}

// place annotates and attaches a new node.
func (r *Run[K]) place(req NodeRequest[K], n tree.Node[K], frag *document.Object) error {
	if n.Shape() != tree.ShapeRef {
		r.setStatus(n.ID(), cachedNode)
	}
	if a := r.b.opts.Annotator; a != nil {
		var tf *document.Object
		if ref, ok := n.(*tree.RefNode[K]); ok {
			tf = ref.Target().Meta().Source
		}
		n.Meta().Diff = a.Annotate(Annotation[K]{Node: n, Fragment: frag, Target: tf})
	}
	if err := r.attach(req, n); err != nil {
		return err
	}
	if n.Shape() != tree.ShapeRef && !req.Detached {
		r.setStatus(n.ID(), attachedNode)
	}
	return nil
}

func (r *Run[K]) attach(req NodeRequest[K], n tree.Node[K]) error {
	var none K
	switch {
	case req.Detached:
		return nil
	case req.Container != nil:
		return r.tree.AddNested(req.Container, n)
	case req.Parent == nil:
		return nil
	case r.b.opts.Kinds.Args != none && req.Kind == r.b.opts.Kinds.Args:
		return r.tree.SetArgs(req.Parent, n)
	default:
		return r.tree.AddChild(req.Parent, n)
	}
}

func (r *Run[K]) required(req NodeRequest[K]) bool {
	if req.Parent == nil || len(req.Segments) != 2 || req.Segments[0] != "properties" {
		return false
	}
	return slices.Contains(req.Parent.Meta().Source.Strings("required"), req.Segments[1])
}

func (r *Run[K]) completer(id string) func() {
	return func() { r.setStatus(id, complete) }
}

func lastKey(id string) tree.Key {
	_, segs := pointer.Split(id)
	if len(segs) == 0 {
		return tree.Key{}
	}
	return tree.Name(segs[len(segs)-1])
}
