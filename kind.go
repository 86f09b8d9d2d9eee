package schematree

// Kind tags the schema position a node was built from. Domain adapters define
// their own kind types; this is the JSON Schema set.
type Kind string

const (
	KindRoot                 Kind = "root"
	KindProperty             Kind = "property"
	KindPatternProperty      Kind = "patternProperty"
	KindAdditionalProperties Kind = "additionalProperties"
	KindItem                 Kind = "item"
	KindAdditionalItems      Kind = "additionalItems"
	KindDefinition           Kind = "definition"
	KindAllOf                Kind = "allOf"
	KindOneOf                Kind = "oneOf"
	KindAnyOf                Kind = "anyOf"
	KindArgs                 Kind = "args"
)

func (k Kind) String() string { return string(k) }
