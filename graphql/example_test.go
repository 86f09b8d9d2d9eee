package graphql_test

import (
	"fmt"
	"os"

	"github.com/reoring/schematree/graphql"
)

func ExampleBuild() {
	schema, err := graphql.Parse("schema.graphql", `
type Query {
  book(id: ID!): Book
}

type Book {
  title: String!
  tags: [String!]
}
`)
	if err != nil {
		fmt.Println(err)
		return
	}
	t, _, err := graphql.Build(schema, graphql.Options{})
	if err != nil {
		fmt.Println(err)
		return
	}
	_ = t.Print(os.Stdout)
	// Output:
	// # operation object
	//   book field -> #/definitions/Book
	//     args args args
	//       id argument string required
}
