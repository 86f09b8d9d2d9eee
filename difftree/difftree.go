package difftree

import (
	schematree "github.com/reoring/schematree"
	"github.com/reoring/schematree/builder"
	"github.com/reoring/schematree/change"
	"github.com/reoring/schematree/tree"
	"github.com/reoring/schematree/walk"
)

// Build builds the tree of a merged document and folds changes into every
// node. Any Annotator already set in opts is replaced.
func Build[K ~string](doc any, changes change.Table, rules *walk.Rule[K], opts builder.Options[K]) (*tree.Tree[K], schematree.Diag, error) {
	opts.Annotator = NewAnnotator[K](changes, opts.Table)
	return builder.New(opts).Build(doc, rules)
}

// Summary counts the changes visible on a diff tree.
type Summary struct {
	Added    int `json:"added" yaml:"added"`
	Removed  int `json:"removed" yaml:"removed"`
	Renamed  int `json:"renamed" yaml:"renamed"`
	Modified int `json:"modified" yaml:"modified"`
	Breaking int `json:"breaking" yaml:"breaking"`
}

// Summarize walks t and counts node-level changes and nodes whose value or
// meta keywords changed. Subtrees of added or removed nodes are not counted
// again.
func Summarize[K ~string](t *tree.Tree[K]) Summary {
	var s Summary
	t.Walk(func(n tree.Node[K]) bool {
		d := n.Meta().Diff
		if d == nil {
			return true
		}
		if c := d.Node; c != nil {
			countBreaking(&s, c)
			switch c.Action {
			case change.Add, change.Remove:
				if c.Action == change.Add {
					s.Added++
				} else {
					s.Removed++
				}
				keywordBreaking(&s, d)
				return false
			case change.Rename:
				s.Renamed++
			}
		}
		if len(d.Value) > 0 || len(d.Meta) > 0 {
			s.Modified++
			keywordBreaking(&s, d)
		}
		return true
	})
	return s
}

// keywordBreaking counts the breaking value and meta changes of d.
func keywordBreaking(s *Summary, d *tree.Diff) {
	for _, e := range d.Value {
		eachChange(e, func(c *change.Change) { countBreaking(s, c) })
	}
	for _, e := range d.Meta {
		eachChange(e, func(c *change.Change) { countBreaking(s, c) })
	}
}

func eachChange(e change.Entry, fn func(*change.Change)) {
	if e.Change != nil {
		fn(e.Change)
	}
	for _, c := range e.Indexes {
		fn(c)
	}
}

func countBreaking(s *Summary, c *change.Change) {
	if c.Type == change.Breaking {
		s.Breaking++
	}
}
