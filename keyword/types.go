package keyword

import (
	"fmt"

	"github.com/reoring/schematree/document"
)

var objectShape = []string{"properties", "patternProperties", "additionalProperties", "minProperties", "maxProperties"}

var arrayShape = []string{"items", "additionalItems", "minItems", "maxItems", "uniqueItems"}

// TypeError explains why a fragment has no resolvable type.
type TypeError struct {
	Reason string
}

func (e *TypeError) Error() string { return e.Reason }

// ResolveType returns the primitive type of a simple fragment. An explicit
// string "type" must be known to the table. Without "type", object- or
// array-shaped keywords imply "object" or "array". Array-valued and empty
// types are rejected: upstream normalization turns them into anyOf.
func (t *Table) ResolveType(frag *document.Object) (string, error) {
	if raw, ok := frag.Get("type"); ok {
		switch v := raw.(type) {
		case string:
			if v == "" {
				return "", &TypeError{Reason: "empty type"}
			}
			if !t.Known(v) {
				return "", &TypeError{Reason: fmt.Sprintf("unknown type %q", v)}
			}
			return v, nil
		case []any:
			return "", &TypeError{Reason: "array-valued type must be normalized into anyOf"}
		default:
			return "", &TypeError{Reason: fmt.Sprintf("type must be a string, got %T", raw)}
		}
	}
	for _, k := range objectShape {
		if frag.Has(k) {
			return TypeObject, nil
		}
	}
	for _, k := range arrayShape {
		if frag.Has(k) {
			return TypeArray, nil
		}
	}
	return "", &TypeError{Reason: "no type and no structural hint"}
}

// Combinator returns the combinator keyword of a complex fragment, taking the
// first of allOf/oneOf/anyOf present in member order.
func Combinator(frag *document.Object) (string, bool) {
	for k, v := range frag.All() {
		for _, c := range Combinators {
			if k == c {
				if _, ok := v.([]any); ok {
					return c, true
				}
			}
		}
	}
	return "", false
}

var shapeless = map[string]bool{"$ref": true, "definitions": true, "$defs": true, "$id": true, "$schema": true, Args: true}

// StructuralKeys returns the keywords of frag that shape a node (type and the
// structural keywords other than $ref, args and the definition containers),
// in member order. Used to reject ambiguous reference fragments.
func (t *Table) StructuralKeys(frag *document.Object) []string {
	var out []string
	for k := range frag.All() {
		if shapeless[k] {
			continue
		}
		if k == "type" || t.structural[k] {
			out = append(out, k)
		}
	}
	return out
}
