package graphql_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	schematree "github.com/reoring/schematree"
	"github.com/reoring/schematree/graphql"
	"github.com/reoring/schematree/tree"
)

const sdl = `
"Entry point"
type Query {
  user(id: ID!, verbose: Boolean = false): User
  search(term: String!): [Result!]!
  version: String! @deprecated(reason: "use meta")
}

type User {
  id: ID!
  name: String
  friends(first: Int): [User]
  role: Role!
}

type Post {
  title: String!
}

union Result = User | Post

enum Role { ADMIN MEMBER }
`

type node = tree.Node[graphql.Kind]

func build(t *testing.T) *graphql.Tree {
	t.Helper()
	schema, err := graphql.Parse("schema.graphql", sdl)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	tr, _, err := graphql.Build(schema, graphql.Options{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return tr
}

func lookup(t *testing.T, tr *graphql.Tree, id string) node {
	t.Helper()
	if n, ok := tr.Node(id); ok {
		return n
	}
	var found node
	tr.Walk(func(n node) bool {
		if n.ID() == id {
			found = n
		}
		return true
	})
	if found == nil {
		t.Fatalf("no node %s", id)
	}
	return found
}

func TestBuild_RootFields(t *testing.T) {
	tr := build(t)
	root := tr.Root()
	if root.Kind() != graphql.KindOperation || root.Type() != "object" {
		t.Fatalf("root: %s %s", root.Kind(), root.Type())
	}
	var keys []string
	for _, c := range root.Children() {
		keys = append(keys, c.Key().String())
	}
	if diff := cmp.Diff([]string{"user", "search", "version"}, keys); diff != "" {
		t.Fatalf("field order (-want +got):\n%s", diff)
	}
	if lookup(t, tr, "#/properties/user").Meta().Required {
		t.Fatalf("nullable field must not be required")
	}
	v := lookup(t, tr, "#/properties/version")
	if !v.Meta().Required || v.Kind() != graphql.KindField {
		t.Fatalf("non-null field should be required")
	}
	if dep, _ := v.Meta().Keywords.Get("deprecated"); dep != true {
		t.Fatalf("deprecation not recorded: %v", v.Meta().Keywords)
	}
}

func TestBuild_ArgumentsOnReference(t *testing.T) {
	tr := build(t)
	user := lookup(t, tr, "#/properties/user")
	if user.Shape() != tree.ShapeRef {
		t.Fatalf("user should reference the User type, got %s", user.Shape())
	}
	args := user.Args()
	if args == nil || args.Kind() != graphql.KindArgs {
		t.Fatalf("user should carry its arguments")
	}
	if args.Depth() != user.Depth()+1 {
		t.Fatalf("args depth %d, field depth %d", args.Depth(), user.Depth())
	}
	id := lookup(t, tr, "#/properties/user/args/properties/id")
	if id.Kind() != graphql.KindArgument || !id.Meta().Required {
		t.Fatalf("id argument: kind %s required %v", id.Kind(), id.Meta().Required)
	}
	if id.Depth() != args.Depth() {
		t.Fatalf("argument group must not add depth: %d vs %d", id.Depth(), args.Depth())
	}
	verbose := lookup(t, tr, "#/properties/user/args/properties/verbose")
	if verbose.Meta().Required {
		t.Fatalf("argument with a default is optional")
	}
	if def, _ := verbose.Value().Get("default"); def != "false" {
		t.Fatalf("default not kept: %v", def)
	}
}

func TestBuild_RecursiveTypeIsCycle(t *testing.T) {
	schema, err := graphql.Parse("schema.graphql", sdl)
	if err != nil {
		t.Fatal(err)
	}
	tr, diag, err := graphql.Build(schema, graphql.Options{})
	if err != nil {
		t.Fatal(err)
	}
	friends := lookup(t, tr, "#/definitions/User/properties/friends")
	if friends.Type() != "array" || friends.Args() == nil {
		t.Fatalf("friends should be a list field with arguments")
	}
	item := friends.Children()[0]
	ref, ok := item.(*tree.RefNode[graphql.Kind])
	if !ok || !ref.IsCycle() || ref.Target().ID() != "#/definitions/User" {
		t.Fatalf("list element should close a cycle on User, got %T", item)
	}
	if item.Kind() != graphql.KindList {
		t.Fatalf("list element kind: %s", item.Kind())
	}
	if !diag.Issues().Has(schematree.CodeCyclicRef) {
		t.Fatalf("cycle not reported")
	}
}

func TestBuild_UnionIsOneOf(t *testing.T) {
	tr := build(t)
	result := lookup(t, tr, "#/definitions/Result")
	if result.Shape() != tree.ShapeComplex {
		t.Fatalf("union should be complex, got %s", result.Shape())
	}
	nested := result.Nested()
	if len(nested) != 2 || nested[0].Kind() != graphql.KindPossibleType {
		t.Fatalf("union members: %d", len(nested))
	}
	if nested[1].(*tree.RefNode[graphql.Kind]).Target().ID() != "#/definitions/Post" {
		t.Fatalf("second member should reference Post")
	}
}

func TestBuild_EnumAndScalars(t *testing.T) {
	tr := build(t)
	role := lookup(t, tr, "#/definitions/Role")
	got, _ := role.Value().Get("enum")
	if diff := cmp.Diff([]any{"ADMIN", "MEMBER"}, got); diff != "" {
		t.Fatalf("enum values (-want +got):\n%s", diff)
	}
	id := lookup(t, tr, "#/definitions/User/properties/id")
	if id.Type() != "string" {
		t.Fatalf("ID maps to string, got %s", id.Type())
	}
}

func TestBuild_Mutation(t *testing.T) {
	schema, err := graphql.Parse("schema.graphql", sdl)
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = graphql.Build(schema, graphql.Options{Operation: "mutation"})
	if iss, _ := schematree.AsIssues(err); !iss.Has(schematree.CodeParseError) {
		t.Fatalf("missing mutation type should fail, got %v", err)
	}
}

func TestParse_Error(t *testing.T) {
	_, err := graphql.Parse("bad.graphql", "type Query { name: }")
	iss, _ := schematree.AsIssues(err)
	if len(iss) != 1 || iss[0].Code != schematree.CodeParseError {
		t.Fatalf("expected a parse_error issue, got %v", err)
	}
	if iss[0].Params["line"] != 1 {
		t.Fatalf("parse error should carry its line: %v", iss[0].Params)
	}
}
