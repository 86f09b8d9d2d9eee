package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/reoring/schematree/kubeopenapi"
)

func crdCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crd <bundle.yaml>",
		Short: "Build and print the tree of a Kubernetes CustomResourceDefinition schema",
		Example: `  schematree crd bundle.yaml --kind ServiceMonitor
  schematree crd bundle.yaml --name widgets.demo.example.com --version v1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newOutput(cmd, v)
			sel := kubeopenapi.Selector{Kind: v.GetString("kind"), Name: v.GetString("name")}
			if sel.Kind == "" && sel.Name == "" {
				return out.fail(errors.New("crd needs --kind or --name"))
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return out.fail(fmt.Errorf("read %s: %w", args[0], err))
			}
			tr, diag, err := kubeopenapi.ImportYAML(data, sel, kubeopenapi.Options{
				Profile: kubeopenapi.Profile(v.GetString("profile")),
				Version: v.GetString("version"),
				Source:  source(v, args[0]),
				Logger:  out.logger,
			})
			if err != nil {
				return out.fail(err)
			}
			return render(out, tr, diag, nil)
		},
	}
	cmd.Flags().String("kind", "", "select the CRD by spec.names.kind")
	cmd.Flags().String("name", "", "select the CRD by metadata.name")
	cmd.Flags().String("version", "", "CRD version (default: the first served version)")
	cmd.Flags().String("profile", string(kubeopenapi.ProfileStructuralV1), "structural-v1 or loose")
	for _, f := range []string{"kind", "name", "version", "profile"} {
		_ = v.BindPFlag(f, cmd.Flags().Lookup(f))
	}
	return cmd
}
