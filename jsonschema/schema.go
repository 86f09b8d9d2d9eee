package jsonschema

import (
	"log/slog"

	schematree "github.com/reoring/schematree"
	"github.com/reoring/schematree/builder"
	"github.com/reoring/schematree/change"
	"github.com/reoring/schematree/difftree"
	"github.com/reoring/schematree/document"
	"github.com/reoring/schematree/keyword"
	"github.com/reoring/schematree/tree"
)

// Tree is a tree of JSON Schema kinds.
type Tree = tree.Tree[schematree.Kind]

// Options configures Build and BuildDiff.
type Options struct {
	// Table classifies keywords; nil means keyword.Default().
	Table *keyword.Table
	// Source resolves references into other documents.
	Source builder.Source
	Logger *slog.Logger
}

func (o Options) builder() builder.Options[schematree.Kind] {
	return builder.Options[schematree.Kind]{
		Kinds:  builder.Kinds[schematree.Kind]{Root: schematree.KindRoot, Definition: schematree.KindDefinition},
		Table:  o.Table,
		Source: o.Source,
		Logger: o.Logger,
	}
}

// Build builds the tree of a JSON Schema document.
func Build(doc any, opts Options) (*Tree, schematree.Diag, error) {
	return builder.New(opts.builder()).Build(doc, Rules())
}

// BuildDiff builds the tree of a merged document with changes folded in.
func BuildDiff(doc any, changes change.Table, opts Options) (*Tree, schematree.Diag, error) {
	return difftree.Build(doc, changes, Rules(), opts.builder())
}

var booleanSchemaKeywords = map[string]bool{"additionalProperties": true, "additionalItems": true}

// NormalizeBooleans returns a copy of doc where additionalProperties and
// additionalItems set to true become {"type": "any"} and those set to false
// are removed. The builder accepts only object fragments at schema
// positions.
func NormalizeBooleans(doc any) any {
	switch v := doc.(type) {
	case *document.Object:
		out := document.NewObject()
		for k, child := range v.All() {
			if b, ok := child.(bool); ok && booleanSchemaKeywords[k] {
				if b {
					out.Set(k, document.ObjectOf("type", keyword.TypeAny))
				}
				continue
			}
			out.Set(k, NormalizeBooleans(child))
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, child := range v {
			out[i] = NormalizeBooleans(child)
		}
		return out
	default:
		return doc
	}
}
