package kubeopenapi

import (
	"strings"

	schematree "github.com/reoring/schematree"
	"github.com/reoring/schematree/document"
	"github.com/reoring/schematree/jsonschema"
	"github.com/reoring/schematree/keyword"
	"github.com/reoring/schematree/pointer"
	"github.com/reoring/schematree/walk"
)

const (
	extIntOrString     = "x-kubernetes-int-or-string"
	extPreserveUnknown = "x-kubernetes-preserve-unknown-fields"
	extEmbedded        = "x-kubernetes-embedded-resource"
)

// Normalize returns a copy of schema with the Kubernetes extensions expressed
// as plain keywords. The extensions themselves are kept as meta keywords.
//
//   - x-kubernetes-int-or-string: anyOf integer/string
//   - x-kubernetes-preserve-unknown-fields: untyped becomes "any"; an object
//     without properties gets a permissive additionalProperties
//   - x-kubernetes-embedded-resource: apiVersion, kind and metadata are
//     declared and required
//
// Boolean additionalProperties are normalized as well. With ProfileLoose any
// other untyped position is typed "any" and reported on diag.
func Normalize(schema *document.Object, profile Profile, diag *schematree.Collector) *document.Object {
	out := jsonschema.NormalizeBooleans(schema).(*document.Object)
	hook := func(base string) walk.Hook[schematree.Kind, struct{}] {
		return func(v any, ctx walk.Context[schematree.Kind, struct{}]) (walk.Result[struct{}], error) {
			if o, ok := v.(*document.Object); ok {
				normalizeNode(o, base+strings.TrimPrefix(ctx.Pointer, pointer.Root), profile, diag)
			}
			return walk.Result[struct{}]{}, nil
		}
	}
	rules := jsonschema.Rules()
	_ = walk.Walk(out, rules, struct{}{}, hook(pointer.Root))
	for _, container := range []string{"definitions", "$defs"} {
		for name, def := range out.Object(container).All() {
			_ = walk.Walk(def, rules, struct{}{}, hook(pointer.Join(pointer.Root, container, name)))
		}
	}
	return out
}

func normalizeNode(o *document.Object, at string, profile Profile, diag *schematree.Collector) {
	_, combined := keyword.Combinator(o)
	typed := o.String("type") != ""

	if flag(o, extIntOrString) && !typed && !combined {
		o.Set("anyOf", []any{
			document.ObjectOf("type", keyword.TypeInteger),
			document.ObjectOf("type", keyword.TypeString),
		})
		return
	}
	if flag(o, extEmbedded) {
		embedResource(o)
		return
	}
	if flag(o, extPreserveUnknown) {
		switch {
		case !typed && !o.Has("properties"):
			o.Set("type", keyword.TypeAny)
		case o.String("type") == keyword.TypeObject && !o.Has("properties") && !o.Has("additionalProperties"):
			o.Set("additionalProperties", document.ObjectOf("type", keyword.TypeAny))
		}
		return
	}
	if !typed && !combined && !o.Has("$ref") && profile == ProfileLoose && !shaped(o) {
		o.Set("type", keyword.TypeAny)
		diag.Warnf(at, schematree.CodeInvalidType, "untyped schema treated as any")
	}
}

// embedResource declares the object metadata every embedded resource has.
func embedResource(o *document.Object) {
	if o.String("type") == "" {
		o.Set("type", keyword.TypeObject)
	}
	props := o.Object("properties")
	if props == nil {
		props = document.NewObject()
	}
	for _, field := range []struct{ name, typ string }{
		{"apiVersion", keyword.TypeString},
		{"kind", keyword.TypeString},
		{"metadata", keyword.TypeObject},
	} {
		if !props.Has(field.name) {
			props.Set(field.name, document.ObjectOf("type", field.typ))
		}
	}
	o.Set("properties", props)

	required := append([]any(nil), o.Array("required")...)
	have := map[string]bool{}
	for _, r := range o.Strings("required") {
		have[r] = true
	}
	for _, name := range []string{"apiVersion", "kind", "metadata"} {
		if !have[name] {
			required = append(required, name)
		}
	}
	o.Set("required", required)
}

func flag(o *document.Object, key string) bool {
	v, _ := o.Get(key)
	b, _ := v.(bool)
	return b
}

// shaped reports whether the builder can infer a type from the fragment.
func shaped(o *document.Object) bool {
	for _, k := range []string{"properties", "patternProperties", "additionalProperties", "items", "additionalItems"} {
		if o.Has(k) {
			return true
		}
	}
	return false
}
