package jsonschema_test

import (
	"os"
	"path/filepath"
	"testing"

	schematree "github.com/reoring/schematree"
	"github.com/reoring/schematree/builder"
	"github.com/reoring/schematree/document"
	"github.com/reoring/schematree/jsonschema"
)

func decode(t *testing.T, src string) any {
	t.Helper()
	v, err := document.Decode([]byte(src))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func TestRules_Kinds(t *testing.T) {
	r := jsonschema.Rules()
	if r.Kind != schematree.KindRoot {
		t.Fatalf("root rule kind: %s", r.Kind)
	}
	cases := map[string]schematree.Kind{
		"properties":        schematree.KindProperty,
		"patternProperties": schematree.KindPatternProperty,
		"allOf":             schematree.KindAllOf,
		"oneOf":             schematree.KindOneOf,
		"anyOf":             schematree.KindAnyOf,
	}
	for kw, want := range cases {
		group := r.Child(kw)
		if group == nil || !group.Transparent {
			t.Fatalf("%s should be a transparent group", kw)
		}
		if got := group.Child("anything").Kind; got != want {
			t.Fatalf("%s members: got %s want %s", kw, got, want)
		}
	}
	if r.Child("definitions") != nil || r.Child("$defs") != nil {
		t.Fatalf("definition containers must not be walked")
	}
	// the graph is cyclic: a property's children use the same table
	if r.Child("properties").Child("x").Child("items").Kind != schematree.KindItem {
		t.Fatalf("nested positions should resolve through the shared table")
	}
}

func TestNormalizeBooleans(t *testing.T) {
	doc := decode(t, `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "m": {"type": "object", "additionalProperties": true},
    "t": {"type": "array", "items": [{"type": "string"}], "additionalItems": true}
  }
}`)
	out := jsonschema.NormalizeBooleans(doc).(*document.Object)
	if out.Has("additionalProperties") {
		t.Fatalf("false should be removed")
	}
	if got := out.Object("properties").Object("m").Object("additionalProperties").String("type"); got != "any" {
		t.Fatalf("true should become a permissive schema, got %q", got)
	}
	if !doc.(*document.Object).Has("additionalProperties") {
		t.Fatalf("input must not be mutated")
	}
	tr, _, err := jsonschema.Build(out, jsonschema.Options{})
	if err != nil {
		t.Fatalf("normalized document should build: %v", err)
	}
	if _, ok := tr.Node("#/properties/t/additionalItems"); !ok {
		t.Fatalf("additionalItems node missing: %v", tr.IDs())
	}
}

func TestBuild_DirSource(t *testing.T) {
	dir := t.TempDir()
	common := "definitions:\n  Name:\n    type: string\n    minLength: 1\n"
	if err := os.WriteFile(filepath.Join(dir, "common.yaml"), []byte(common), 0o644); err != nil {
		t.Fatal(err)
	}
	doc := decode(t, `{"type": "object", "properties": {"name": {"$ref": "common.yaml#/definitions/Name"}}}`)
	tr, diag, err := jsonschema.Build(doc, jsonschema.Options{Source: builder.DirSource{Dir: dir}})
	if err != nil {
		t.Fatal(err)
	}
	n, ok := tr.Node("common.yaml#/definitions/Name")
	if !ok || n.Type() != "string" || n.Kind() != schematree.KindDefinition {
		t.Fatalf("external definition not built: %v", tr.IDs())
	}
	if diag.HasWarnings() {
		t.Fatalf("unexpected warnings: %v", diag.Warnings())
	}
}
