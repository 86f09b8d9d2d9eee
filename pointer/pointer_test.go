package pointer_test

import (
	"testing"

	"github.com/reoring/schematree/document"
	"github.com/reoring/schematree/pointer"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"":                    "#",
		"#":                   "#",
		"#/":                  "#",
		"#/definitions/A":     "#/definitions/A",
		"#definitions/A":      "#/definitions/A",
		"#/%24defs/A":         "#/$defs/A",
		"common.json#/defs/A": "common.json#/defs/A",
		"common.json":         "common.json#",
	}
	for in, want := range cases {
		if got := pointer.Normalize(in); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestJoinAndSplit_EscapeRoundTrip(t *testing.T) {
	p := pointer.Join("#", "patternProperties", "^a/b~c$")
	if p != "#/patternProperties/^a~1b~0c$" {
		t.Fatalf("unexpected pointer: %s", p)
	}
	doc, segs := pointer.Split(p)
	if doc != "" || len(segs) != 2 || segs[1] != "^a/b~c$" {
		t.Fatalf("unexpected split: %q %#v", doc, segs)
	}
	if got := pointer.JoinIndex("#/oneOf", 2); got != "#/oneOf/2" {
		t.Fatalf("unexpected index join: %s", got)
	}
}

func TestResolve(t *testing.T) {
	doc, err := document.DecodeJSON([]byte(`{"definitions":{"A":{"type":"string"}},"items":[{"type":"null"}]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	v, ok := pointer.Resolve(doc, "#/definitions/A")
	if !ok || v.(*document.Object).String("type") != "string" {
		t.Fatalf("expected definition A, got %v %v", v, ok)
	}
	if v, ok := pointer.Resolve(doc, "#/items/0"); !ok || v.(*document.Object).String("type") != "null" {
		t.Fatalf("expected array element, got %v %v", v, ok)
	}
	if _, ok := pointer.Resolve(doc, "#/missing"); ok {
		t.Fatalf("expected miss")
	}
	if _, ok := pointer.Resolve(doc, "#/items/7"); ok {
		t.Fatalf("expected out-of-range miss")
	}
	if root, ok := pointer.Resolve(doc, "#"); !ok || root != doc {
		t.Fatalf("expected root")
	}
}

func TestIsRef(t *testing.T) {
	if !pointer.IsRef(document.ObjectOf("$ref", "#/a")) {
		t.Fatalf("expected ref")
	}
	if pointer.IsRef(document.ObjectOf("$ref", 1)) {
		t.Fatalf("non-string $ref is not a reference")
	}
	if pointer.IsRef(nil) {
		t.Fatalf("nil is not a reference")
	}
}
