// Package walk is a recursive document walker driven by path-keyed rule
// tables. A rule decides which members of a value are visited and with which
// kind; a hook is called at every non-transparent position and may replace the
// value to descend into, stop the descent, or hand new state to the subtree.
package walk

import (
	"strconv"

	"github.com/reoring/schematree/document"
	"github.com/reoring/schematree/pointer"
)

// Wildcard matches any member name or array index.
const Wildcard = "*"

// Rule describes one position in a document. Rule graphs may be cyclic, which
// is how recursive grammars such as JSON Schema are expressed.
type Rule[K ~string] struct {
	// Kind is reported to the hook for values matched by this rule.
	Kind K
	// Transparent positions are descended without calling the hook; their
	// segments accumulate into the next hooked position.
	Transparent bool
	// NoDepth marks positions that do not count toward depth.
	NoDepth bool
	// Rules maps member names (or Wildcard) to child rules.
	Rules map[string]*Rule[K]
	// Tuple, when set, is used instead of this rule if the value is an
	// array: the position becomes transparent and every element is matched
	// against Tuple. JSON Schema's "items" needs this.
	Tuple *Rule[K]
}

// Child returns the rule for member key, falling back to the wildcard.
func (r *Rule[K]) Child(key string) *Rule[K] {
	if r == nil {
		return nil
	}
	if c, ok := r.Rules[key]; ok {
		return c
	}
	return r.Rules[Wildcard]
}

// Context describes the hooked position.
type Context[K ~string, S any] struct {
	// Key is the member name (string) or array index (int); nil at the root.
	Key any
	// Segments are the unescaped segments from the previous hooked position
	// (or the walk's base) to this one, transparent positions included.
	Segments []string
	// Pointer is the absolute pointer of the position in the walked document.
	Pointer string
	Rule    *Rule[K]
	State   S
}

// Result is returned by a hook.
type Result[S any] struct {
	// Stop skips the descent into the value.
	Stop bool
	// Value, when non-nil, replaces the value descended into.
	Value any
	// State is handed to every hooked position below this one.
	State S
	// After runs once the subtree has been walked (or immediately on Stop).
	After func()
}

// Hook is called at every non-transparent position.
type Hook[K ~string, S any] func(v any, ctx Context[K, S]) (Result[S], error)

// Walk hooks doc itself with root, then descends. A nil rule is treated as a
// rule with no kind and no children. An error from the hook aborts the walk
// and is returned unchanged.
func Walk[K ~string, S any](doc any, root *Rule[K], state S, hook Hook[K, S]) error {
	w := &walker[K, S]{hook: hook}
	return w.visit(doc, nil, pointer.Root, nil, root, state)
}

// Descend walks the members of v under rule without hooking v itself. base is
// the pointer of v; segments reported to the first hooked positions are
// relative to it.
func Descend[K ~string, S any](v any, base string, rule *Rule[K], state S, hook Hook[K, S]) error {
	w := &walker[K, S]{hook: hook}
	return w.descend(v, base, nil, rule, state)
}

type walker[K ~string, S any] struct {
	hook Hook[K, S]
}

func (w *walker[K, S]) visit(v, key any, ptr string, segs []string, rule *Rule[K], state S) error {
	if rule == nil {
		rule = &Rule[K]{}
	}
	if rule.Tuple != nil {
		if _, ok := v.([]any); ok {
			return w.descend(v, ptr, segs, &Rule[K]{Transparent: true, Rules: map[string]*Rule[K]{Wildcard: rule.Tuple}}, state)
		}
	}
	if rule.Transparent {
		return w.descend(v, ptr, segs, rule, state)
	}
	res, err := w.hook(v, Context[K, S]{Key: key, Segments: segs, Pointer: ptr, Rule: rule, State: state})
	if err != nil {
		return err
	}
	if !res.Stop {
		next := v
		if res.Value != nil {
			next = res.Value
		}
		if err := w.descend(next, ptr, nil, rule, res.State); err != nil {
			return err
		}
	}
	if res.After != nil {
		res.After()
	}
	return nil
}

func (w *walker[K, S]) descend(v any, ptr string, segs []string, rule *Rule[K], state S) error {
	if rule == nil || len(rule.Rules) == 0 {
		return nil
	}
	switch t := v.(type) {
	case *document.Object:
		for k, child := range t.All() {
			cr := rule.Child(k)
			if cr == nil {
				continue
			}
			if err := w.visit(child, k, pointer.Join(ptr, k), appendSeg(segs, k), cr, state); err != nil {
				return err
			}
		}
	case []any:
		for i, child := range t {
			s := strconv.Itoa(i)
			cr := rule.Child(s)
			if cr == nil {
				continue
			}
			if err := w.visit(child, i, pointer.JoinIndex(ptr, i), appendSeg(segs, s), cr, state); err != nil {
				return err
			}
		}
	}
	return nil
}

func appendSeg(segs []string, s string) []string {
	out := make([]string, len(segs), len(segs)+1)
	copy(out, segs)
	return append(out, s)
}
