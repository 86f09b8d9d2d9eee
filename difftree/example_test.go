package difftree_test

import (
	"fmt"
	"os"

	"github.com/reoring/schematree/change"
	"github.com/reoring/schematree/difftree"
	"github.com/reoring/schematree/document"
	"github.com/reoring/schematree/jsonschema"
)

func ExampleSummarize() {
	doc, _ := document.Decode([]byte(`{"type": "object", "properties": {"a": {"type": "string"}, "b": {"type": "integer"}}}`))
	changes := change.Table{}
	changes.Set("#/properties", "b", &change.Change{Action: change.Add, Type: change.NonBreaking})

	t, _, err := jsonschema.BuildDiff(doc, changes, jsonschema.Options{})
	if err != nil {
		fmt.Println(err)
		return
	}
	_ = t.Print(os.Stdout)
	fmt.Printf("%+v\n", difftree.Summarize(t))
	// Output:
	// # root object
	//   a property string
	//   + b property integer
	// {Added:1 Removed:0 Renamed:0 Modified:0 Breaking:0}
}
