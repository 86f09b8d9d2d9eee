package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/reoring/schematree/graphql"
)

func graphqlCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graphql <sdl>",
		Short: "Build and print the tree of one GraphQL operation type",
		Example: `  schematree graphql schema.graphql
  schematree graphql schema.graphql --operation mutation`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newOutput(cmd, v)
			data, err := os.ReadFile(args[0])
			if err != nil {
				return out.fail(fmt.Errorf("read %s: %w", args[0], err))
			}
			schema, err := graphql.Parse(args[0], string(data))
			if err != nil {
				return out.fail(err)
			}
			tr, diag, err := graphql.Build(schema, graphql.Options{Operation: v.GetString("operation"), Logger: out.logger})
			if err != nil {
				return out.fail(err)
			}
			return render(out, tr, diag, nil)
		},
	}
	cmd.Flags().String("operation", "query", "root operation type: query, mutation or subscription")
	_ = v.BindPFlag("operation", cmd.Flags().Lookup("operation"))
	return cmd
}
