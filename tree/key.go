package tree

import "strconv"

// Key addresses a node within its parent: a member name, or an index for
// tuple items and combinator branches.
type Key struct {
	name    string
	index   int
	isIndex bool
}

// Name returns a string key.
func Name(s string) Key { return Key{name: s} }

// Index returns an integer key.
func Index(i int) Key { return Key{index: i, isIndex: true} }

// KeyOf converts a walker key (string or int) into a Key.
func KeyOf(v any) Key {
	switch t := v.(type) {
	case int:
		return Index(t)
	case string:
		return Name(t)
	case Key:
		return t
	default:
		return Key{}
	}
}

func (k Key) IsIndex() bool { return k.isIndex }

// Int returns the index of an integer key (0 for string keys).
func (k Key) Int() int { return k.index }

// Name returns the member name of a string key ("" for integer keys).
func (k Key) Name() string { return k.name }

func (k Key) String() string {
	if k.isIndex {
		return strconv.Itoa(k.index)
	}
	return k.name
}
