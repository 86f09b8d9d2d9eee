package graphql

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"

	schematree "github.com/reoring/schematree"
	"github.com/reoring/schematree/document"
	"github.com/reoring/schematree/keyword"
	"github.com/reoring/schematree/pointer"
)

// scalars maps the built-in scalars to primitive fragments.
var scalars = map[string]func() *document.Object{
	"Int":     func() *document.Object { return document.ObjectOf("type", keyword.TypeInteger) },
	"Float":   func() *document.Object { return document.ObjectOf("type", keyword.TypeNumber) },
	"String":  func() *document.Object { return document.ObjectOf("type", keyword.TypeString) },
	"Boolean": func() *document.Object { return document.ObjectOf("type", keyword.TypeBoolean) },
	"ID":      func() *document.Object { return document.ObjectOf("type", keyword.TypeString, "format", "id") },
}

// Document converts the root type of operation ("query", "mutation" or
// "subscription") into a schema-shaped document. Named types become $refs
// into "definitions", which holds every non built-in type of the schema.
func Document(schema *ast.Schema, operation string) (*document.Object, error) {
	root := operationType(schema, operation)
	if root == nil {
		return nil, schematree.IssueAt(pointer.Root, schematree.CodeParseError, fmt.Sprintf("schema has no %s type", operation), nil)
	}
	doc := objectFragment(root)
	doc.Set("x-graphql-operation", strings.ToLower(operation))

	names := make([]string, 0, len(schema.Types))
	for name, def := range schema.Types {
		if def == nil || def.BuiltIn || strings.HasPrefix(name, "__") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	defs := document.NewObject()
	for _, name := range names {
		defs.Set(name, definitionFragment(schema.Types[name]))
	}
	doc.Set("definitions", defs)
	return doc, nil
}

func operationType(schema *ast.Schema, operation string) *ast.Definition {
	switch strings.ToLower(operation) {
	case "", "query":
		return schema.Query
	case "mutation":
		return schema.Mutation
	case "subscription":
		return schema.Subscription
	}
	return nil
}

func definitionFragment(def *ast.Definition) *document.Object {
	switch def.Kind {
	case ast.Object, ast.Interface, ast.InputObject:
		return objectFragment(def)
	case ast.Enum:
		values := make([]any, 0, len(def.EnumValues))
		for _, v := range def.EnumValues {
			values = append(values, v.Name)
		}
		o := document.ObjectOf("type", keyword.TypeString)
		o.Set("enum", values)
		describe(o, def.Name, def.Description)
		return o
	case ast.Union:
		branches := make([]any, 0, len(def.Types))
		for _, member := range def.Types {
			branches = append(branches, ref(member))
		}
		o := document.NewObject()
		o.Set("oneOf", branches)
		describe(o, def.Name, def.Description)
		return o
	default:
		// custom scalar
		o := document.ObjectOf("type", keyword.TypeAny)
		describe(o, def.Name, def.Description)
		return o
	}
}

func objectFragment(def *ast.Definition) *document.Object {
	o := document.ObjectOf("type", keyword.TypeObject)
	describe(o, def.Name, def.Description)
	props := document.NewObject()
	var required []any
	for _, f := range def.Fields {
		if f == nil || strings.HasPrefix(f.Name, "__") {
			continue
		}
		props.Set(f.Name, fieldFragment(f))
		if f.Type.NonNull {
			required = append(required, f.Name)
		}
	}
	o.Set("properties", props)
	if len(required) > 0 {
		o.Set("required", required)
	}
	return o
}

func fieldFragment(f *ast.FieldDefinition) *document.Object {
	o := typeFragment(f.Type)
	if f.Description != "" {
		o.Set("description", f.Description)
	}
	if f.DefaultValue != nil {
		o.Set("default", f.DefaultValue.Raw)
	}
	if d := f.Directives.ForName("deprecated"); d != nil {
		o.Set("deprecated", true)
		if reason := d.Arguments.ForName("reason"); reason != nil && reason.Value != nil {
			o.Set("x-deprecation-reason", reason.Value.Raw)
		}
	}
	if len(f.Arguments) > 0 {
		o.Set(keyword.Args, argsFragment(f.Arguments))
	}
	return o
}

func argsFragment(args ast.ArgumentDefinitionList) *document.Object {
	o := document.ObjectOf("type", keyword.Args)
	props := document.NewObject()
	var required []any
	for _, a := range args {
		frag := typeFragment(a.Type)
		if a.Description != "" {
			frag.Set("description", a.Description)
		}
		if a.DefaultValue != nil {
			frag.Set("default", a.DefaultValue.Raw)
		}
		props.Set(a.Name, frag)
		if a.Type.NonNull && a.DefaultValue == nil {
			required = append(required, a.Name)
		}
	}
	o.Set("properties", props)
	if len(required) > 0 {
		o.Set("required", required)
	}
	return o
}

// typeFragment converts a type reference. Lists become arrays; nullable list
// elements are marked nullable since they have no required list to record it.
func typeFragment(t *ast.Type) *document.Object {
	if t.Elem != nil {
		items := typeFragment(t.Elem)
		if !t.Elem.NonNull {
			items.Set("nullable", true)
		}
		o := document.ObjectOf("type", keyword.TypeArray)
		o.Set("items", items)
		return o
	}
	if mk, ok := scalars[t.NamedType]; ok {
		return mk()
	}
	return ref(t.NamedType)
}

func ref(name string) *document.Object {
	return document.ObjectOf(pointer.RefKey, pointer.Join(pointer.Root, "definitions", name))
}

func describe(o *document.Object, name, description string) {
	o.Set("title", name)
	if description != "" {
		o.Set("description", description)
	}
}
