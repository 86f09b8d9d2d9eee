package commands

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/reoring/schematree/change"
	"github.com/reoring/schematree/difftree"
	"github.com/reoring/schematree/document"
	"github.com/reoring/schematree/jsonschema"
)

func diffCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <merged>",
		Short: "Build the tree of a merged schema with change annotations folded in",
		Long: `diff reads a merged schema (the union of two versions) and a change table
keyed by container pointer, then prints the tree with each node's changes
and a summary. Annotations embedded in the merged document under a hidden
member can be used instead of, or together with, a table file.`,
		Example: `  schematree diff merged.json --changes changes.yaml
  schematree diff merged.json --embedded-key '$diff'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newOutput(cmd, v)
			doc, changes, err := loadDiff(v, args[0])
			if err != nil {
				return out.fail(err)
			}
			tr, diag, err := jsonschema.BuildDiff(doc, changes, jsonschema.Options{Source: source(v, args[0]), Logger: out.logger})
			if err != nil {
				return out.fail(err)
			}
			sum := difftree.Summarize(tr)
			return render(out, tr, diag, &sum)
		},
	}
	cmd.Flags().String("changes", "", "change table file (JSON or YAML)")
	cmd.Flags().String("embedded-key", "", "hidden member holding embedded annotations, for example $diff")
	_ = v.BindPFlag("changes", cmd.Flags().Lookup("changes"))
	_ = v.BindPFlag("embedded-key", cmd.Flags().Lookup("embedded-key"))
	return cmd
}

func loadDiff(v *viper.Viper, path string) (any, change.Table, error) {
	file, key := v.GetString("changes"), v.GetString("embedded-key")
	if file == "" && key == "" {
		return nil, nil, errors.New("diff needs --changes or --embedded-key")
	}
	doc, err := document.LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	changes := change.Table{}
	if key != "" {
		stripped, embedded, err := change.Extract(doc, key)
		if err != nil {
			return nil, nil, err
		}
		doc = stripped
		changes.Merge(embedded)
	}
	if file != "" {
		raw, err := document.LoadFile(file)
		if err != nil {
			return nil, nil, err
		}
		loaded, err := change.Load(raw)
		if err != nil {
			return nil, nil, err
		}
		changes.Merge(loaded)
	}
	if v.GetBool("normalize") {
		doc = jsonschema.NormalizeBooleans(doc)
	}
	return doc, changes, nil
}
