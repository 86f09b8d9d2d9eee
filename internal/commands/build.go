package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/reoring/schematree/document"
	"github.com/reoring/schematree/jsonschema"
)

func buildCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "build <schema>",
		Short: "Build and print the tree of a JSON Schema document",
		Example: `  schematree build user.schema.json
  schematree build --format yaml api.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newOutput(cmd, v)
			doc, err := loadSchema(v, args[0])
			if err != nil {
				return out.fail(err)
			}
			tr, diag, err := jsonschema.Build(doc, jsonschema.Options{Source: source(v, args[0]), Logger: out.logger})
			if err != nil {
				return out.fail(err)
			}
			return render(out, tr, diag, nil)
		},
	}
}

// loadSchema reads a schema file and applies the configured preprocessing.
func loadSchema(v *viper.Viper, path string) (any, error) {
	doc, err := document.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if v.GetBool("normalize") {
		doc = jsonschema.NormalizeBooleans(doc)
	}
	return doc, nil
}
