package walk_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/reoring/schematree/document"
	"github.com/reoring/schematree/walk"
)

type kind string

func decode(t *testing.T, src string) any {
	t.Helper()
	v, err := document.Decode([]byte(src))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

// schemaRules builds a small cyclic rule graph: properties/* and items.
func schemaRules() *walk.Rule[kind] {
	m := map[string]*walk.Rule[kind]{}
	prop := &walk.Rule[kind]{Kind: "property", Rules: m}
	tuple := &walk.Rule[kind]{Kind: "item", Rules: m}
	m["properties"] = &walk.Rule[kind]{Transparent: true, Rules: map[string]*walk.Rule[kind]{walk.Wildcard: prop}}
	m["items"] = &walk.Rule[kind]{Kind: "item", Rules: m, Tuple: tuple}
	return &walk.Rule[kind]{Kind: "root", Rules: m}
}

type visit struct {
	Kind     kind
	Pointer  string
	Segments string
	Depth    int
}

func TestWalk_OrderSegmentsAndState(t *testing.T) {
	doc := decode(t, `{
  "properties": {
    "b": {"type": "string"},
    "a": {"items": [{"type": "string"}, {"properties": {"x": {}}}]}
  },
  "definitions": {"skipped": {}}
}`)
	var got []visit
	err := walk.Walk(doc, schemaRules(), 0, func(v any, ctx walk.Context[kind, int]) (walk.Result[int], error) {
		got = append(got, visit{ctx.Rule.Kind, ctx.Pointer, strings.Join(ctx.Segments, "/"), ctx.State})
		return walk.Result[int]{State: ctx.State + 1}, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []visit{
		{"root", "#", "", 0},
		{"property", "#/properties/b", "properties/b", 1},
		{"property", "#/properties/a", "properties/a", 1},
		{"item", "#/properties/a/items/0", "items/0", 2},
		{"item", "#/properties/a/items/1", "items/1", 2},
		{"property", "#/properties/a/items/1/properties/x", "properties/x", 3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected visits:\n got %v\nwant %v", got, want)
	}
}

func TestWalk_StopReplaceAndAfter(t *testing.T) {
	doc := decode(t, `{"properties": {"a": {"properties": {"deep": {}}}, "b": {}}}`)
	var order []string
	err := walk.Walk(doc, schemaRules(), struct{}{}, func(v any, ctx walk.Context[kind, struct{}]) (walk.Result[struct{}], error) {
		ptr := ctx.Pointer
		order = append(order, "enter "+ptr)
		res := walk.Result[struct{}]{After: func() { order = append(order, "leave "+ptr) }}
		switch ptr {
		case "#/properties/a":
			res.Stop = true
		case "#/properties/b":
			res.Value = document.ObjectOf("properties", map[string]any{"injected": map[string]any{}})
		}
		return res, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"enter #",
		"enter #/properties/a", "leave #/properties/a",
		"enter #/properties/b",
		"enter #/properties/b/properties/injected", "leave #/properties/b/properties/injected",
		"leave #/properties/b",
		"leave #",
	}
	if !reflect.DeepEqual(order, want) {
		t.Fatalf("unexpected order:\n got %v\nwant %v", order, want)
	}
}

func TestWalk_HookErrorAborts(t *testing.T) {
	doc := decode(t, `{"properties": {"a": {}, "b": {}}}`)
	boom := errors.New("boom")
	calls := 0
	err := walk.Walk(doc, schemaRules(), 0, func(v any, ctx walk.Context[kind, int]) (walk.Result[int], error) {
		calls++
		if ctx.Pointer == "#/properties/a" {
			return walk.Result[int]{}, boom
		}
		return walk.Result[int]{}, nil
	})
	if !errors.Is(err, boom) || calls != 2 {
		t.Fatalf("expected abort after 2 calls, got %v after %d", err, calls)
	}
}

func TestDescend_SkipsBase(t *testing.T) {
	frag := decode(t, `{"properties": {"x": {}}}`)
	var ptrs []string
	err := walk.Descend(frag, "#/definitions/A", schemaRules(), 0, func(v any, ctx walk.Context[kind, int]) (walk.Result[int], error) {
		ptrs = append(ptrs, ctx.Pointer+" "+strings.Join(ctx.Segments, "/"))
		return walk.Result[int]{}, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(ptrs) != 1 || ptrs[0] != "#/definitions/A/properties/x properties/x" {
		t.Fatalf("unexpected visits: %v", ptrs)
	}
}

func TestWalk_NilRuleHooksOnlyTheRoot(t *testing.T) {
	var kinds []kind
	err := walk.Walk(decode(t, `{"items": [{}]}`), (*walk.Rule[kind])(nil), 0, func(v any, ctx walk.Context[kind, int]) (walk.Result[int], error) {
		kinds = append(kinds, ctx.Rule.Kind)
		return walk.Result[int]{}, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(kinds) != 1 || kinds[0] != "" {
		t.Fatalf("expected one hook call without a kind, got %v", kinds)
	}
}
