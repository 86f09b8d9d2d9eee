package kubeopenapi_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	schematree "github.com/reoring/schematree"
	"github.com/reoring/schematree/document"
	"github.com/reoring/schematree/kubeopenapi"
	"github.com/reoring/schematree/tree"
)

const bundle = `
apiVersion: v1
kind: Namespace
metadata:
  name: demo
---
apiVersion: apiextensions.k8s.io/v1
kind: CustomResourceDefinition
metadata:
  name: widgets.demo.example.com
spec:
  group: demo.example.com
  names:
    kind: Widget
    plural: widgets
  versions:
    - name: v1alpha1
      served: false
      schema:
        openAPIV3Schema:
          type: object
          properties:
            legacy: {type: string}
    - name: v1
      served: true
      schema:
        openAPIV3Schema:
          type: object
          required: [spec]
          properties:
            spec:
              type: object
              required: [name]
              properties:
                name: {type: string}
                note: {type: string, nullable: true}
                port:
                  x-kubernetes-int-or-string: true
                labels:
                  type: object
                  x-kubernetes-preserve-unknown-fields: true
                raw:
                  x-kubernetes-preserve-unknown-fields: true
                template:
                  type: object
                  x-kubernetes-embedded-resource: true
                  properties:
                    kind: {type: string, description: the kind}
                ports:
                  type: array
                  x-kubernetes-list-type: map
                  x-kubernetes-list-map-keys: [name]
                  items:
                    type: object
                    properties:
                      name: {type: string}
`

type node = tree.Node[schematree.Kind]

func importWidget(t *testing.T, opts kubeopenapi.Options) *kubeopenapi.Tree {
	t.Helper()
	tr, diag, err := kubeopenapi.ImportYAML([]byte(bundle), kubeopenapi.Selector{Kind: "Widget"}, opts)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if diag.HasWarnings() {
		t.Fatalf("unexpected warnings: %v", diag.Warnings())
	}
	return tr
}

func mustNode(t *testing.T, tr *kubeopenapi.Tree, id string) node {
	t.Helper()
	n, ok := tr.Node(id)
	if !ok {
		t.Fatalf("no node %s in %v", id, tr.IDs())
	}
	return n
}

func TestImportYAML_ServedVersion(t *testing.T) {
	tr := importWidget(t, kubeopenapi.Options{})
	if _, ok := tr.Node("#/properties/legacy"); ok {
		t.Fatalf("unserved version should not be picked")
	}
	spec := mustNode(t, tr, "#/properties/spec")
	if !spec.Meta().Required {
		t.Fatalf("spec is required")
	}
	if !mustNode(t, tr, "#/properties/spec/properties/name").Meta().Required {
		t.Fatalf("name is required")
	}
	note := mustNode(t, tr, "#/properties/spec/properties/note")
	if v, _ := note.Meta().Keywords.Get("nullable"); v != true {
		t.Fatalf("nullable should stay a meta keyword: %v", note.Meta().Keywords)
	}
}

func TestImportYAML_ExplicitVersion(t *testing.T) {
	tr := importWidget(t, kubeopenapi.Options{Version: "v1alpha1"})
	mustNode(t, tr, "#/properties/legacy")

	_, _, err := kubeopenapi.ImportYAML([]byte(bundle), kubeopenapi.Selector{Kind: "Widget"}, kubeopenapi.Options{Version: "v2"})
	if err == nil {
		t.Fatalf("unknown version should fail")
	}
}

func TestImportYAML_Extensions(t *testing.T) {
	tr := importWidget(t, kubeopenapi.Options{})

	port := mustNode(t, tr, "#/properties/spec/properties/port")
	c, ok := port.(*tree.ComplexNode[schematree.Kind])
	if !ok || c.Combinator() != "anyOf" || len(c.Nested()) != 2 {
		t.Fatalf("int-or-string should become anyOf integer/string, got %s", port.Shape())
	}
	if c.Nested()[0].Type() != "integer" || c.Nested()[1].Type() != "string" {
		t.Fatalf("unexpected branches")
	}

	labels := mustNode(t, tr, "#/properties/spec/properties/labels")
	if len(labels.Children()) != 1 || labels.Children()[0].Type() != "any" {
		t.Fatalf("preserved object should accept any member")
	}
	if mustNode(t, tr, "#/properties/spec/properties/raw").Type() != "any" {
		t.Fatalf("untyped preserved field should be any")
	}

	tmpl := mustNode(t, tr, "#/properties/spec/properties/template")
	var keys []string
	for _, ch := range tmpl.Children() {
		if ch.Meta().Required {
			keys = append(keys, ch.Key().String())
		}
	}
	if diff := cmp.Diff([]string{"kind", "apiVersion", "metadata"}, keys); diff != "" {
		t.Fatalf("embedded resource fields (-want +got):\n%s", diff)
	}
	kind := mustNode(t, tr, "#/properties/spec/properties/template/properties/kind")
	if kind.Meta().Keywords.String("description") != "the kind" {
		t.Fatalf("declared fields must not be replaced")
	}

	ports := mustNode(t, tr, "#/properties/spec/properties/ports")
	if ports.Meta().Keywords.String("x-kubernetes-list-type") != "map" {
		t.Fatalf("list extensions should stay meta keywords")
	}
}

func TestImportYAML_ByName(t *testing.T) {
	_, _, err := kubeopenapi.ImportYAML([]byte(bundle), kubeopenapi.Selector{Name: "widgets.demo.example.com"}, kubeopenapi.Options{})
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = kubeopenapi.ImportYAML([]byte(bundle), kubeopenapi.Selector{Name: "gadgets.demo.example.com"}, kubeopenapi.Options{})
	if err == nil {
		t.Fatalf("missing CRD should fail")
	}
}

func TestFindCRD_DuplicateKey(t *testing.T) {
	_, err := kubeopenapi.FindCRD([]byte("kind: A\nkind: B\n"), kubeopenapi.Selector{Kind: "Widget"})
	iss, ok := schematree.AsIssues(err)
	if !ok || iss[0].Code != schematree.CodeDuplicateKey {
		t.Fatalf("expected duplicate_key, got %v", err)
	}
}

func TestImport_Profiles(t *testing.T) {
	doc, err := document.DecodeYAML([]byte("openAPIV3Schema:\n  type: object\n  properties:\n    free: {description: anything}\n"))
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = kubeopenapi.Import(doc, kubeopenapi.Options{})
	if iss, _ := schematree.AsIssues(err); !iss.Has(schematree.CodeInvalidType) {
		t.Fatalf("structural profile should reject untyped fields, got %v", err)
	}
	tr, diag, err := kubeopenapi.Import(doc, kubeopenapi.Options{Profile: kubeopenapi.ProfileLoose})
	if err != nil {
		t.Fatal(err)
	}
	if mustNode(t, tr, "#/properties/free").Type() != "any" {
		t.Fatalf("loose profile should type the field as any")
	}
	if got := diag.Issues(); len(got) != 1 || got[0].Path != "#/properties/free" {
		t.Fatalf("expected one warning at #/properties/free, got %v", got)
	}
}
