// Package document holds the ordered, JSON-compatible value model that schema
// documents are decoded into: *Object for mappings, []any for sequences,
// Number/string/bool/nil for scalars. Member order is preserved because it is
// the display and comparison order of the resulting tree.
package document

import (
	"iter"

	j "github.com/goccy/go-json"
	"github.com/speakeasy-api/openapi/sequencedmap"
)

// Number is the representation of every numeric scalar in a document.
type Number = j.Number

// Object is an insertion-ordered mapping. A nil *Object behaves as empty for
// all read methods.
type Object struct {
	m *sequencedmap.Map[string, any]
}

// NewObject returns an empty Object.
func NewObject() *Object {
	return &Object{m: sequencedmap.New[string, any]()}
}

// ObjectOf builds an Object from alternating key/value arguments. Values are
// converted with FromGo. It panics on a non-string key or an odd argument count.
func ObjectOf(kv ...any) *Object {
	if len(kv)%2 != 0 {
		panic("document: ObjectOf needs key/value pairs")
	}
	o := NewObject()
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic("document: ObjectOf key must be a string")
		}
		o.Set(k, FromGo(kv[i+1]))
	}
	return o
}

func (o *Object) Len() int {
	if o == nil || o.m == nil {
		return 0
	}
	return o.m.Len()
}

func (o *Object) Get(key string) (any, bool) {
	if o == nil || o.m == nil {
		return nil, false
	}
	return o.m.Get(key)
}

func (o *Object) Has(key string) bool {
	if o == nil || o.m == nil {
		return false
	}
	return o.m.Has(key)
}

// Set inserts or replaces a member. New keys are appended.
func (o *Object) Set(key string, v any) {
	if o.m == nil {
		o.m = sequencedmap.New[string, any]()
	}
	o.m.Set(key, v)
}

func (o *Object) Delete(key string) {
	if o == nil || o.m == nil {
		return
	}
	o.m.Delete(key)
}

// All iterates members in insertion order.
func (o *Object) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if o == nil || o.m == nil {
			return
		}
		for k, v := range o.m.All() {
			if !yield(k, v) {
				return
			}
		}
	}
}

// Keys returns member names in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, o.Len())
	for k := range o.All() {
		keys = append(keys, k)
	}
	return keys
}

// String returns the member as a string, or "" when absent or not a string.
func (o *Object) String(key string) string {
	v, _ := o.Get(key)
	s, _ := v.(string)
	return s
}

// Object returns the member as an *Object, or nil.
func (o *Object) Object(key string) *Object {
	v, _ := o.Get(key)
	m, _ := v.(*Object)
	return m
}

// Array returns the member as a []any, or nil.
func (o *Object) Array(key string) []any {
	v, _ := o.Get(key)
	a, _ := v.([]any)
	return a
}

// Strings returns the string elements of an array member, in order.
func (o *Object) Strings(key string) []string {
	var out []string
	for _, v := range o.Array(key) {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Pick returns a new Object holding the members accepted by keep, in order.
func (o *Object) Pick(keep func(key string) bool) *Object {
	out := NewObject()
	for k, v := range o.All() {
		if keep(k) {
			out.Set(k, v)
		}
	}
	return out
}

// Clone returns a shallow copy.
func (o *Object) Clone() *Object {
	return o.Pick(func(string) bool { return true })
}
