// Package jsonschema wires the builders to JSON Schema documents: the walk
// rules that map schema positions to node kinds, and Build/BuildDiff entry
// points that use the core schematree.Kind set.
package jsonschema

import (
	schematree "github.com/reoring/schematree"
	"github.com/reoring/schematree/walk"
)

type rule = walk.Rule[schematree.Kind]

// Rules returns the JSON Schema rule graph. Every schema position shares one
// child table, so the graph is cyclic. definitions and $defs are not walked:
// their members become nodes only when referenced.
func Rules() *rule {
	m := map[string]*rule{}
	schema := func(k schematree.Kind) *rule { return &rule{Kind: k, Rules: m} }
	each := func(r *rule) *rule { return &rule{Transparent: true, Rules: map[string]*rule{walk.Wildcard: r}} }

	m["properties"] = each(schema(schematree.KindProperty))
	m["patternProperties"] = each(schema(schematree.KindPatternProperty))
	m["additionalProperties"] = schema(schematree.KindAdditionalProperties)
	m["items"] = &rule{Kind: schematree.KindItem, Rules: m, Tuple: schema(schematree.KindItem)}
	m["additionalItems"] = schema(schematree.KindAdditionalItems)
	m["allOf"] = each(schema(schematree.KindAllOf))
	m["oneOf"] = each(schema(schematree.KindOneOf))
	m["anyOf"] = each(schema(schematree.KindAnyOf))
	return schema(schematree.KindRoot)
}
