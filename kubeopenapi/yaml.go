package kubeopenapi

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	schematree "github.com/reoring/schematree"
	"github.com/reoring/schematree/document"
)

type crd struct {
	kind string
	name string
	doc  *document.Object
}

func asCRD(v any) (crd, bool) {
	o, ok := v.(*document.Object)
	if !ok || o.String("kind") != "CustomResourceDefinition" {
		return crd{}, false
	}
	return crd{
		kind: o.Object("spec").Object("names").String("kind"),
		name: o.Object("metadata").String("name"),
		doc:  o,
	}, true
}

// FindCRD scans a multi-document YAML bundle and returns the first
// CustomResourceDefinition matching sel. Other documents are skipped.
// Duplicate keys fail the scan even in skipped documents.
func FindCRD(data []byte, sel Selector) (*document.Object, error) {
	if sel.Kind == "" && sel.Name == "" {
		return nil, errors.New("kubeopenapi: selector needs a kind or a name")
	}
	r := document.NewYAMLReader(bytes.NewReader(data))
	for i := 0; ; i++ {
		v, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var dup *document.DuplicateKeyError
			if errors.As(err, &dup) {
				return nil, schematree.Issues{{Path: dup.Path, Code: schematree.CodeDuplicateKey, Message: fmt.Sprintf("document %d: %v", i, dup), Cause: dup}}
			}
			return nil, schematree.IssueAt("", schematree.CodeParseError, fmt.Sprintf("document %d: %v", i, err), nil)
		}
		if c, ok := asCRD(v); ok && sel.matches(c) {
			return c.doc, nil
		}
	}
	if sel.Kind != "" {
		return nil, fmt.Errorf("kubeopenapi: CRD kind %q not found in YAML bundle", sel.Kind)
	}
	return nil, fmt.Errorf("kubeopenapi: CRD name %q not found in YAML bundle", sel.Name)
}

// ImportYAML finds the CRD selected by sel in a YAML bundle and imports it.
func ImportYAML(data []byte, sel Selector, opts Options) (*Tree, schematree.Diag, error) {
	doc, err := FindCRD(data, sel)
	if err != nil {
		return nil, nil, err
	}
	return Import(doc, opts)
}
