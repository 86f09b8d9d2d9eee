// Package graphql adapts GraphQL SDL to the schema tree builder. An operation
// root type is converted into a schema-shaped document and built with the
// GraphQL kind set; field arguments become an args branch beside each field.
package graphql

import (
	"errors"
	"log/slog"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"

	schematree "github.com/reoring/schematree"
	"github.com/reoring/schematree/builder"
	"github.com/reoring/schematree/change"
	"github.com/reoring/schematree/difftree"
	"github.com/reoring/schematree/keyword"
	"github.com/reoring/schematree/tree"
)

// Tree is a tree of GraphQL kinds.
type Tree = tree.Tree[Kind]

// Options configures Build.
type Options struct {
	// Operation selects the root type: "query" (default), "mutation" or
	// "subscription".
	Operation string
	Logger    *slog.Logger
}

// Parse loads SDL into a schema. Syntax and validation errors become
// parse_error issues carrying the source position.
func Parse(name, sdl string) (*ast.Schema, error) {
	schema, gerr := gqlparser.LoadSchema(&ast.Source{Name: name, Input: sdl})
	if gerr != nil {
		return nil, parseIssue(gerr)
	}
	return schema, nil
}

func parseIssue(err error) schematree.Issues {
	var ge *gqlerror.Error
	if !errors.As(err, &ge) {
		return schematree.IssueAt("", schematree.CodeParseError, err.Error(), nil)
	}
	params := map[string]any{}
	if len(ge.Locations) > 0 {
		params["line"] = ge.Locations[0].Line
		params["column"] = ge.Locations[0].Column
	}
	return schematree.Issues{{Path: ge.Path.String(), Code: schematree.CodeParseError, Message: ge.Message, Cause: err, Params: params}}
}

// Table returns the default keyword table extended with the args pseudo-type.
func Table() *keyword.Table {
	t := keyword.Default()
	t.Register(keyword.Args)
	return t
}

func (o Options) builder() builder.Options[Kind] {
	return builder.Options[Kind]{
		Kinds:  builder.Kinds[Kind]{Root: KindOperation, Definition: KindType, Args: KindArgs},
		Table:  Table(),
		Logger: o.Logger,
	}
}

// Build converts and builds one operation of schema.
func Build(schema *ast.Schema, opts Options) (*Tree, schematree.Diag, error) {
	doc, err := Document(schema, opts.Operation)
	if err != nil {
		return nil, nil, err
	}
	return builder.New(opts.builder()).Build(doc, Rules())
}

// BuildDiff builds a merged converted document with changes folded in.
func BuildDiff(doc any, changes change.Table, opts Options) (*Tree, schematree.Diag, error) {
	return difftree.Build(doc, changes, Rules(), opts.builder())
}
