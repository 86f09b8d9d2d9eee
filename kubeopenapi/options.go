package kubeopenapi

import (
	"log/slog"

	"github.com/reoring/schematree/builder"
)

// Profile selects how strictly structural-schema rules are applied.
type Profile string

const (
	// ProfileStructuralV1 keeps untyped positions as invalid_type errors, as
	// the API server does for structural schemas.
	ProfileStructuralV1 Profile = "structural-v1"
	// ProfileLoose types untyped positions as "any" and warns.
	ProfileLoose Profile = "loose"
)

// Options controls CRD import.
type Options struct {
	Profile Profile
	// Version selects spec.versions[].name; empty picks the first served
	// version.
	Version string
	// Source resolves references into other documents.
	Source builder.Source
	Logger *slog.Logger
}

// Selector picks a CustomResourceDefinition out of a YAML bundle, by
// spec.names.kind or by metadata.name. Kind wins when both are set.
type Selector struct {
	Kind string
	Name string
}

func (s Selector) matches(crd crd) bool {
	if s.Kind != "" {
		return crd.kind == s.Kind
	}
	return crd.name == s.Name
}
