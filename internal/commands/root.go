package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/reoring/schematree/i18n"
)

// ErrReported is returned by commands that already printed their failure.
var ErrReported = errors.New("schematree: failure reported")

// RootCmd creates the root command with every subcommand attached.
func RootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "schematree",
		Short: "Build navigable trees from JSON Schema and GraphQL documents",
		Long: `schematree turns a schema document into a tree of typed nodes.

References are resolved once and shared, cycles end in reference leaves,
and combinators keep their branches side by side. With a change table the
tree also carries the differences between two schema versions.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(v, cfgFile); err != nil {
				return err
			}
			i18n.SetLanguage(v.GetString("lang"))
			switch f := v.GetString("format"); f {
			case formatText, formatJSON, formatYAML:
			default:
				return fmt.Errorf("unknown format %q (want text, json or yaml)", f)
			}
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default .schematree.yaml in the working directory)")
	pf.String("format", formatText, "output format: text, json or yaml")
	pf.String("lang", "en", "message language: en or ja")
	pf.BoolP("verbose", "v", false, "trace reference resolution on stderr")
	pf.Bool("normalize", true, "rewrite boolean additionalProperties/additionalItems before building")
	pf.String("base-dir", "", "directory for external references (default: the input file's directory)")
	_ = v.BindPFlags(pf)

	cmd.AddCommand(buildCmd(v), diffCmd(v), graphqlCmd(v), crdCmd(v))
	return cmd
}

// loadConfig reads the config file when present. An explicit --config must
// exist; the default .schematree.yaml is optional. Environment variables
// prefixed SCHEMATREE_ override both.
func loadConfig(v *viper.Viper, file string) error {
	v.SetEnvPrefix("SCHEMATREE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(".schematree")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}
