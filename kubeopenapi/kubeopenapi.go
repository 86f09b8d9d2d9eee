// Package kubeopenapi builds schema trees from Kubernetes CustomResourceDefinition
// schemas. The openAPIV3Schema of a CRD version is extracted, its Kubernetes
// extensions are rewritten into plain schema keywords, and the result is built
// with the JSON Schema rules.
package kubeopenapi

import (
	"fmt"

	schematree "github.com/reoring/schematree"
	"github.com/reoring/schematree/document"
	"github.com/reoring/schematree/jsonschema"
	"github.com/reoring/schematree/pointer"
)

// Tree is the tree of an imported CRD schema.
type Tree = jsonschema.Tree

// Import builds the tree of a CRD, of a {openAPIV3Schema: ...} wrapper, or of
// a bare schema. Warnings from normalization and from the build share the
// returned Diag.
func Import(doc any, opts Options) (*Tree, schematree.Diag, error) {
	if opts.Profile == "" {
		opts.Profile = ProfileStructuralV1
	}
	schema, err := Extract(doc, opts.Version)
	if err != nil {
		return nil, nil, err
	}
	diag := &schematree.Collector{}
	normalized := Normalize(schema, opts.Profile, diag)
	t, bd, err := jsonschema.Build(normalized, jsonschema.Options{Source: opts.Source, Logger: opts.Logger})
	if err != nil {
		return nil, nil, err
	}
	for _, it := range bd.Issues() {
		diag.Warnf(it.Path, it.Code, "%s", it.Message)
	}
	return t, diag, nil
}

// Extract returns the openAPIV3Schema of doc. A CRD is unwrapped through
// spec.versions[].schema (the named version, else the first served one, else
// the first with a schema) and then the legacy spec.validation.
func Extract(doc any, version string) (*document.Object, error) {
	root, ok := doc.(*document.Object)
	if !ok {
		return nil, schematree.IssueAt(pointer.Root, schematree.CodeInvalidFragment, fmt.Sprintf("expected a mapping, got %T", doc), nil)
	}
	if s := root.Object("openAPIV3Schema"); s != nil {
		return s, nil
	}
	if root.String("kind") != "CustomResourceDefinition" {
		if version != "" {
			return nil, fmt.Errorf("kubeopenapi: version %q requested for a bare schema", version)
		}
		return root, nil
	}
	spec := root.Object("spec")
	var first *document.Object
	for _, raw := range spec.Array("versions") {
		v, ok := raw.(*document.Object)
		if !ok {
			continue
		}
		s := v.Object("schema").Object("openAPIV3Schema")
		if s == nil {
			continue
		}
		if version != "" {
			if v.String("name") == version {
				return s, nil
			}
			continue
		}
		served := true
		if b, ok := member(v, "served").(bool); ok {
			served = b
		}
		if served {
			return s, nil
		}
		if first == nil {
			first = s
		}
	}
	if first != nil {
		return first, nil
	}
	if version == "" {
		if s := spec.Object("validation").Object("openAPIV3Schema"); s != nil {
			return s, nil
		}
	}
	if version != "" {
		return nil, fmt.Errorf("kubeopenapi: CRD has no version %q with a schema", version)
	}
	return nil, schematree.IssueAt(pointer.Root, schematree.CodeInvalidFragment, "CRD has no openAPIV3Schema", nil)
}

func member(o *document.Object, key string) any {
	v, _ := o.Get(key)
	return v
}
