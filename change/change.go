// Package change models the annotations an external schema-diff engine
// attaches to a merged document. Annotations live in a side table keyed by
// the normalized pointer of the container they describe, so they can never
// collide with real schema keywords.
package change

import "strconv"

// Action is what happened to a location between two versions.
type Action string

const (
	Add     Action = "add"
	Remove  Action = "remove"
	Replace Action = "replace"
	Rename  Action = "rename"
	Test    Action = "test"
)

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	switch a {
	case Add, Remove, Replace, Rename, Test:
		return true
	}
	return false
}

// Classification is the compatibility impact of a change.
type Classification string

const (
	Breaking     Classification = "breaking"
	NonBreaking  Classification = "non-breaking"
	Annotation   Classification = "annotation"
	Unclassified Classification = "unclassified"
	Deprecated   Classification = "deprecated"
)

// Valid reports whether c is a known classification. Empty is accepted and
// treated as Unclassified by Load.
func (c Classification) Valid() bool {
	switch c {
	case Breaking, NonBreaking, Annotation, Unclassified, Deprecated:
		return true
	}
	return false
}

// Change is a single annotation.
type Change struct {
	Action Action         `json:"action" yaml:"action"`
	Type   Classification `json:"type" yaml:"type"`
	// Before holds the previous value for replace/rename (old key for rename).
	Before any `json:"before,omitempty" yaml:"before,omitempty"`
	After  any `json:"after,omitempty" yaml:"after,omitempty"`
}

// IsAddOrRemove reports whether the change adds or removes the whole location.
func (c *Change) IsAddOrRemove() bool {
	return c != nil && (c.Action == Add || c.Action == Remove)
}

// Entry is the annotation of one keyword: either a whole-keyword change, or
// per-index changes for list-valued keywords (required, enum, items, oneOf, ...).
type Entry struct {
	Change  *Change         `json:"change,omitempty" yaml:"change,omitempty"`
	Indexes map[int]*Change `json:"indexes,omitempty" yaml:"indexes,omitempty"`
}

// At returns the change for array index i, falling back to the whole-keyword
// change.
func (e Entry) At(i int) *Change {
	if c, ok := e.Indexes[i]; ok {
		return c
	}
	return e.Change
}

// Empty reports whether the entry carries no annotation.
func (e Entry) Empty() bool { return e.Change == nil && len(e.Indexes) == 0 }

// Bag holds the annotations of one container, keyed by member name.
type Bag map[string]Entry

// Table maps container pointers to their bags.
type Table map[string]Bag

// Bag returns the annotations of the container at ptr (nil when unchanged).
func (t Table) Bag(ptr string) Bag {
	if t == nil {
		return nil
	}
	return t[ptr]
}

// Set records a whole-keyword change.
func (t Table) Set(ptr, key string, c *Change) {
	b := t[ptr]
	if b == nil {
		b = Bag{}
		t[ptr] = b
	}
	e := b[key]
	e.Change = c
	b[key] = e
}

// SetIndex records a per-index change of a list keyword.
func (t Table) SetIndex(ptr, key string, i int, c *Change) {
	b := t[ptr]
	if b == nil {
		b = Bag{}
		t[ptr] = b
	}
	e := b[key]
	if e.Indexes == nil {
		e.Indexes = map[int]*Change{}
	}
	e.Indexes[i] = c
	b[key] = e
}

// Merge copies the annotations of other into t. Whole-keyword changes of
// other replace those of t; index changes are merged one by one.
func (t Table) Merge(other Table) {
	for ptr, bag := range other {
		for key, e := range bag {
			if e.Change != nil {
				t.Set(ptr, key, e.Change)
			}
			for i, c := range e.Indexes {
				t.SetIndex(ptr, key, i, c)
			}
		}
	}
}

// Len counts the annotations in the table.
func (t Table) Len() int {
	n := 0
	for _, b := range t {
		for _, e := range b {
			if e.Change != nil {
				n++
			}
			n += len(e.Indexes)
		}
	}
	return n
}

// indexKey reports whether s is a non-negative array index.
func indexKey(s string) (int, bool) {
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}
