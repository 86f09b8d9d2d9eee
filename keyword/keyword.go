// Package keyword holds the classification tables that split a schema
// fragment into "value" keywords (type-specific, comparable payload) and
// "meta" keywords (annotations independent of type). Everything else is
// either structural (walked as children) or ignored.
package keyword

import (
	"slices"
	"strings"

	"github.com/reoring/schematree/document"
)

// Class is the classification of one keyword for one type.
type Class int

const (
	Ignored Class = iota
	Value
	Meta
	Structural
)

func (c Class) String() string {
	switch c {
	case Value:
		return "value"
	case Meta:
		return "meta"
	case Structural:
		return "structural"
	default:
		return "ignored"
	}
}

// Primitive types accepted by the builder without registration.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeNull    = "null"
	TypeArray   = "array"
	TypeObject  = "object"
	TypeAny     = "any"
)

// Args is both the keyword and the pseudo-type of an argument group
// (GraphQL field arguments). It is the only structural keyword allowed next
// to $ref.
const Args = "args"

// Combinators in detection order.
var Combinators = []string{"allOf", "oneOf", "anyOf"}

// Children lists the keywords whose values are child schemas of a simple node.
var Children = []string{"properties", "patternProperties", "additionalProperties", "items", "additionalItems"}

var common = []string{"type", "enum", "const", "default"}

var valueByType = map[string][]string{
	TypeString:  {"format", "pattern", "minLength", "maxLength", "contentMediaType", "contentEncoding"},
	TypeNumber:  {"format", "multipleOf", "minimum", "maximum", "exclusiveMinimum", "exclusiveMaximum"},
	TypeInteger: {"format", "multipleOf", "minimum", "maximum", "exclusiveMinimum", "exclusiveMaximum"},
	TypeBoolean: {},
	TypeNull:    {},
	TypeArray:   {"minItems", "maxItems", "uniqueItems"},
	TypeObject:  {"minProperties", "maxProperties"},
}

var metaKeys = []string{
	"title", "description", "deprecated", "readOnly", "writeOnly", "nullable",
	"example", "examples", "externalDocs", "xml", "discriminator", "$comment",
}

var structuralKeys = []string{
	"properties", "patternProperties", "additionalProperties", "items", "additionalItems",
	"allOf", "oneOf", "anyOf", "not", "$ref", "definitions", "$defs", "required",
	"$id", "$schema", "args",
}

// Table is a per-type keyword classification. The zero value is not usable;
// start from Default.
type Table struct {
	value      map[string]map[string]bool
	meta       map[string]bool
	structural map[string]bool
}

// Default returns the JSON Schema table. "any" accepts the value keywords of
// every primitive type.
func Default() *Table {
	t := &Table{
		value:      make(map[string]map[string]bool, len(valueByType)+1),
		meta:       toSet(metaKeys),
		structural: toSet(structuralKeys),
	}
	all := slices.Clone(common)
	for typ, keys := range valueByType {
		t.Register(typ, keys...)
		all = append(all, keys...)
	}
	t.value[TypeAny] = toSet(all)
	return t
}

// Register adds (or extends) a type with the given value keywords; the common
// keywords (type, enum, const, default) are always included. Domain adapters
// use this for pseudo-types such as GraphQL's "args".
func (t *Table) Register(typ string, valueKeys ...string) {
	set, ok := t.value[typ]
	if !ok {
		set = toSet(common)
		t.value[typ] = set
	}
	for _, k := range valueKeys {
		set[k] = true
	}
}

// Known reports whether typ has a table entry.
func (t *Table) Known(typ string) bool {
	_, ok := t.value[typ]
	return ok
}

// IsMeta reports whether key is a meta keyword. Vendor extensions (x-*) are meta.
func (t *Table) IsMeta(key string) bool {
	return t.meta[key] || strings.HasPrefix(key, "x-")
}

// IsValue reports whether key is a value keyword of typ.
func (t *Table) IsValue(typ, key string) bool {
	return t.value[typ][key]
}

// Classify returns the class of key for a node of type typ.
func (t *Table) Classify(typ, key string) Class {
	switch {
	case t.IsValue(typ, key):
		return Value
	case t.structural[key]:
		return Structural
	case t.IsMeta(key):
		return Meta
	default:
		return Ignored
	}
}

// Partition splits a fragment into its value and meta subsets. The value
// always starts with "type" set to typ, so inferred types are recorded too.
func (t *Table) Partition(typ string, frag *document.Object) (value, meta *document.Object) {
	value = document.NewObject()
	value.Set("type", typ)
	meta = document.NewObject()
	for k, v := range frag.All() {
		if k == "type" {
			continue
		}
		switch t.Classify(typ, k) {
		case Value:
			value.Set(k, v)
		case Meta:
			meta.Set(k, v)
		}
	}
	return value, meta
}

func toSet(keys []string) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}
