package jsonschema_test

import (
	"fmt"
	"os"

	"github.com/reoring/schematree/document"
	"github.com/reoring/schematree/jsonschema"
)

func ExampleBuild() {
	doc, err := document.Decode([]byte(`{
  "type": "object",
  "required": ["name"],
  "properties": {
    "name": {"type": "string"},
    "parent": {"$ref": "#"}
  }
}`))
	if err != nil {
		fmt.Println(err)
		return
	}
	t, _, err := jsonschema.Build(doc, jsonschema.Options{})
	if err != nil {
		fmt.Println(err)
		return
	}
	_ = t.Print(os.Stdout)
	// Output:
	// # root object
	//   name property string required
	//   parent property -> # (cycle)
}
