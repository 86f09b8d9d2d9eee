package graphql

import "github.com/reoring/schematree/walk"

// Kind tags the GraphQL position a node was built from.
type Kind string

const (
	KindOperation    Kind = "operation"
	KindField        Kind = "field"
	KindArgs         Kind = "args"
	KindArgument     Kind = "argument"
	KindList         Kind = "list"
	KindType         Kind = "type"
	KindPossibleType Kind = "possibleType"
)

type rule = walk.Rule[Kind]

// Rules returns the rule graph over converted documents. Argument groups do
// not count toward depth, so arguments sit at the depth of the field's
// children.
func Rules() *rule {
	m := map[string]*rule{}
	each := func(r *rule) *rule { return &rule{Transparent: true, Rules: map[string]*rule{walk.Wildcard: r}} }

	m["properties"] = each(&rule{Kind: KindField, Rules: m})
	m["items"] = &rule{Kind: KindList, Rules: m}
	m["oneOf"] = each(&rule{Kind: KindPossibleType, Rules: m})
	m["args"] = &rule{
		Kind:    KindArgs,
		NoDepth: true,
		Rules:   map[string]*rule{"properties": each(&rule{Kind: KindArgument, Rules: m})},
	}
	return &rule{Kind: KindOperation, Rules: m}
}
