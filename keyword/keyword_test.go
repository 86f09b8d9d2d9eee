package keyword_test

import (
	"strings"
	"testing"

	"github.com/reoring/schematree/document"
	"github.com/reoring/schematree/keyword"
)

func TestClassify(t *testing.T) {
	tb := keyword.Default()
	cases := []struct {
		typ, key string
		want     keyword.Class
	}{
		{"string", "minLength", keyword.Value},
		{"number", "minLength", keyword.Ignored},
		{"integer", "minimum", keyword.Value},
		{"object", "properties", keyword.Structural},
		{"object", "required", keyword.Structural},
		{"string", "description", keyword.Meta},
		{"string", "x-internal", keyword.Meta},
		{"any", "maxItems", keyword.Value},
		{"boolean", "enum", keyword.Value},
	}
	for _, c := range cases {
		if got := tb.Classify(c.typ, c.key); got != c.want {
			t.Fatalf("Classify(%s,%s) = %s, want %s", c.typ, c.key, got, c.want)
		}
	}
}

func TestPartition(t *testing.T) {
	tb := keyword.Default()
	frag := document.ObjectOf(
		"description", "name",
		"minLength", 1,
		"type", "string",
		"deprecated", true,
		"foo", "bar",
	)
	value, meta := tb.Partition("string", frag)
	if got := strings.Join(value.Keys(), ","); got != "type,minLength" {
		t.Fatalf("unexpected value keys: %s", got)
	}
	if got := strings.Join(meta.Keys(), ","); got != "description,deprecated" {
		t.Fatalf("unexpected meta keys: %s", got)
	}
}

func TestResolveType(t *testing.T) {
	tb := keyword.Default()
	ok := map[string]*document.Object{
		"string": document.ObjectOf("type", "string"),
		"object": document.ObjectOf("properties", map[string]any{}),
		"array":  document.ObjectOf("items", map[string]any{"type": "string"}),
		"any":    document.ObjectOf("type", "any"),
	}
	for want, frag := range ok {
		got, err := tb.ResolveType(frag)
		if err != nil || got != want {
			t.Fatalf("ResolveType want %s, got %s (%v)", want, got, err)
		}
	}
	bad := []*document.Object{
		document.ObjectOf(),
		document.ObjectOf("type", ""),
		document.ObjectOf("type", []any{"string", "null"}),
		document.ObjectOf("type", "args"),
	}
	for _, frag := range bad {
		if _, err := tb.ResolveType(frag); err == nil {
			t.Fatalf("expected error for %v", document.ToGo(frag))
		}
	}
	tb.Register("args")
	if got, err := tb.ResolveType(document.ObjectOf("type", "args")); err != nil || got != "args" {
		t.Fatalf("registered type should resolve: %s %v", got, err)
	}
}

func TestCombinator(t *testing.T) {
	c, ok := keyword.Combinator(document.ObjectOf("description", "x", "oneOf", []any{}))
	if !ok || c != "oneOf" {
		t.Fatalf("expected oneOf, got %q %v", c, ok)
	}
	if _, ok := keyword.Combinator(document.ObjectOf("type", "string")); ok {
		t.Fatalf("simple fragment should not be complex")
	}
}

func TestStructuralKeys(t *testing.T) {
	tb := keyword.Default()
	keys := tb.StructuralKeys(document.ObjectOf("$ref", "#/a", "description", "d", "properties", map[string]any{}))
	if len(keys) != 1 || keys[0] != "properties" {
		t.Fatalf("unexpected structural keys: %v", keys)
	}
}
