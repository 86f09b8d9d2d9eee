package tree

import (
	"fmt"
	"io"
	"strings"

	"github.com/reoring/schematree/change"
)

// Print writes an indented outline of the tree, one node per line:
//
//	# root object
//	  id property string required
//	  parent property -> #/definitions/Node (cycle)
//
// Diff trees prefix changed nodes with +, - or ~.
func (t *Tree[K]) Print(w io.Writer) error {
	if t.root == nil {
		return nil
	}
	return printNode(w, t.root, 0)
}

func printNode[K ~string](w io.Writer, n Node[K], indent int) error {
	if _, err := io.WriteString(w, strings.Repeat("  ", indent)+Line(n)+"\n"); err != nil {
		return err
	}
	if a := ownArgs(n); a != nil {
		if err := printNode(w, a, indent+1); err != nil {
			return err
		}
	}
	if n.Shape() == ShapeRef {
		return nil
	}
	for _, b := range n.Nested() {
		if err := printNode(w, b, indent+1); err != nil {
			return err
		}
	}
	if n.Shape() == ShapePlain {
		for _, c := range n.Children() {
			if err := printNode(w, c, indent+1); err != nil {
				return err
			}
		}
	}
	return nil
}

// Line renders a single node the way Print does, without indentation.
func Line[K ~string](n Node[K]) string {
	var b strings.Builder
	if d := n.Meta().Diff; d != nil && d.Node != nil {
		b.WriteString(marker(d.Node.Action))
		b.WriteByte(' ')
	}
	key := n.Key().String()
	if n.Parent() == nil {
		key = n.ID()
	}
	fmt.Fprintf(&b, "%s %s", key, n.Kind())
	switch v := n.(type) {
	case *RefNode[K]:
		fmt.Fprintf(&b, " -> %s", v.Target().ID())
		if v.Broken() {
			b.WriteString(" (unresolved)")
		} else if v.IsCycle() {
			b.WriteString(" (cycle)")
		}
	case *ComplexNode[K]:
		fmt.Fprintf(&b, " %s", v.Combinator())
	default:
		if typ := n.Type(); typ != "" {
			fmt.Fprintf(&b, " %s", typ)
		}
	}
	if n.Meta().Required {
		b.WriteString(" required")
	}
	if d := n.Meta().Diff; d != nil && (len(d.Value) > 0 || len(d.Meta) > 0) {
		fmt.Fprintf(&b, " [%d changed]", len(d.Value)+len(d.Meta))
	}
	return b.String()
}

func marker(a change.Action) string {
	switch a {
	case change.Add:
		return "+"
	case change.Remove:
		return "-"
	default:
		return "~"
	}
}
