package change

import (
	"fmt"

	schematree "github.com/reoring/schematree"
	"github.com/reoring/schematree/document"
	"github.com/reoring/schematree/pointer"
)

// Load parses a change table document:
//
//	"#":
//	  type: {action: replace, type: breaking, before: string}
//	  required: {"1": {action: add, type: breaking}}
//	"#/properties":
//	  name: {action: add, type: non-breaking}
//
// Table keys are normalized with pointer.Normalize.
func Load(doc any) (Table, error) {
	root, ok := doc.(*document.Object)
	if !ok {
		return nil, schematree.IssueAt("#", schematree.CodeInvalidAnnotation, fmt.Sprintf("change table must be a mapping, got %T", doc), nil)
	}
	t := Table{}
	var iss schematree.Issues
	for ptr, raw := range root.All() {
		norm := pointer.Normalize(ptr)
		bag, bi := parseBag(norm, raw)
		iss = append(iss, bi...)
		if len(bag) > 0 {
			t[norm] = bag
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return t, nil
}

// Extract converts a merged document that carries annotations under a hidden
// member (for example "$diff") into a side table. The returned document is a
// copy with every hidden member removed; the input is left untouched.
func Extract(doc any, key string) (any, Table, error) {
	t := Table{}
	var iss schematree.Issues
	out := extract(doc, pointer.Root, key, t, &iss)
	if len(iss) > 0 {
		return nil, nil, iss
	}
	return out, t, nil
}

func extract(v any, ptr, key string, t Table, iss *schematree.Issues) any {
	switch n := v.(type) {
	case *document.Object:
		out := document.NewObject()
		for k, child := range n.All() {
			if k == key {
				bag, bi := parseBag(ptr, child)
				*iss = append(*iss, bi...)
				if len(bag) > 0 {
					t[ptr] = bag
				}
				continue
			}
			out.Set(k, extract(child, pointer.Join(ptr, k), key, t, iss))
		}
		return out
	case []any:
		out := make([]any, len(n))
		for i, child := range n {
			out[i] = extract(child, pointer.JoinIndex(ptr, i), key, t, iss)
		}
		return out
	default:
		return v
	}
}

func parseBag(ptr string, raw any) (Bag, schematree.Issues) {
	obj, ok := raw.(*document.Object)
	if !ok {
		return nil, invalid(ptr, "annotation bag must be a mapping, got %T", raw)
	}
	bag := Bag{}
	var iss schematree.Issues
	for kw, v := range obj.All() {
		at := pointer.Join(ptr, kw)
		eo, ok := v.(*document.Object)
		if !ok {
			iss = append(iss, invalid(at, "annotation must be a mapping, got %T", v)...)
			continue
		}
		if eo.Has("action") {
			c, ci := parseChange(at, eo)
			iss = append(iss, ci...)
			if c != nil {
				bag[kw] = Entry{Change: c}
			}
			continue
		}
		e := Entry{Indexes: map[int]*Change{}}
		for idx, cv := range eo.All() {
			i, ok := indexKey(idx)
			if !ok {
				iss = append(iss, invalid(at, "expected array index, got %q", idx)...)
				continue
			}
			co, ok := cv.(*document.Object)
			if !ok {
				iss = append(iss, invalid(at, "annotation must be a mapping, got %T", cv)...)
				continue
			}
			c, ci := parseChange(pointer.Join(at, idx), co)
			iss = append(iss, ci...)
			if c != nil {
				e.Indexes[i] = c
			}
		}
		if !e.Empty() {
			bag[kw] = e
		}
	}
	return bag, iss
}

func parseChange(at string, o *document.Object) (*Change, schematree.Issues) {
	c := &Change{
		Action: Action(o.String("action")),
		Type:   Classification(o.String("type")),
	}
	if !c.Action.Valid() {
		return nil, invalid(at, "unknown action %q", c.Action)
	}
	if c.Type == "" {
		c.Type = Unclassified
	}
	if !c.Type.Valid() {
		return nil, invalid(at, "unknown classification %q", c.Type)
	}
	c.Before, _ = o.Get("before")
	c.After, _ = o.Get("after")
	return c, nil
}

func invalid(at, f string, a ...any) schematree.Issues {
	return schematree.IssueAt(at, schematree.CodeInvalidAnnotation, fmt.Sprintf(f, a...), nil)
}
