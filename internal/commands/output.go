package commands

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	j "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	schematree "github.com/reoring/schematree"
	"github.com/reoring/schematree/builder"
	"github.com/reoring/schematree/difftree"
	"github.com/reoring/schematree/i18n"
	"github.com/reoring/schematree/tree"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

type output struct {
	w      io.Writer
	errw   io.Writer
	format string
	logger *slog.Logger
	colors palette
}

func newOutput(cmd *cobra.Command, v *viper.Viper) *output {
	o := &output{w: cmd.OutOrStdout(), errw: cmd.ErrOrStderr(), format: v.GetString("format")}
	o.colors = newPalette(o.w, o.errw)
	if v.GetBool("verbose") {
		o.logger = slog.New(slog.NewTextHandler(o.errw, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return o
}

// report is the json/yaml rendering of a build.
type report struct {
	Tree     *tree.Snapshot    `json:"tree" yaml:"tree"`
	Summary  *difftree.Summary `json:"summary,omitempty" yaml:"summary,omitempty"`
	Warnings []warning         `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

type warning struct {
	Path    string `json:"path" yaml:"path"`
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

func render[K ~string](o *output, t *tree.Tree[K], diag schematree.Diag, sum *difftree.Summary) error {
	var issues schematree.Issues
	if diag != nil {
		issues = diag.Issues()
	}
	var warnings []warning
	for _, it := range issues {
		warnings = append(warnings, warning{Path: it.Path, Code: it.Code, Message: it.Message})
	}
	switch o.format {
	case formatJSON:
		b, err := j.MarshalIndent(report{Tree: t.Snapshot(), Summary: sum, Warnings: warnings}, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		_, err = fmt.Fprintf(o.w, "%s\n", b)
		return err
	case formatYAML:
		enc := yaml.NewEncoder(o.w)
		enc.SetIndent(2)
		if err := enc.Encode(report{Tree: t.Snapshot(), Summary: sum, Warnings: warnings}); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
	var printed bytes.Buffer
	if err := t.Print(&printed); err != nil {
		return err
	}
	if err := o.colors.colorize(o.w, printed.Bytes()); err != nil {
		return err
	}
	if sum != nil {
		fmt.Fprintf(o.w, "\nadded %d, removed %d, renamed %d, modified %d, breaking %d\n",
			sum.Added, sum.Removed, sum.Renamed, sum.Modified, sum.Breaking)
	}
	for _, it := range issues {
		fmt.Fprintf(o.errw, "%s %s\n", o.colors.warning.Render("warning:"), message(it))
	}
	return nil
}

// fail prints err on stderr, issue by issue when it carries Issues.
func (o *output) fail(err error) error {
	if iss, ok := schematree.AsIssues(err); ok {
		for _, it := range iss {
			fmt.Fprintf(o.errw, "%s %s\n", o.colors.failure.Render("error:"), message(it))
		}
	} else {
		fmt.Fprintf(o.errw, "%s %v\n", o.colors.failure.Render("error:"), err)
	}
	return ErrReported
}

func message(it schematree.Issue) string {
	msg := i18n.T(it.Code, map[string]string{"path": it.Path})
	if it.Message != "" {
		msg += ": " + it.Message
	}
	return msg
}

// source serves external references from --base-dir, or from the directory
// of the input file.
func source(v *viper.Viper, input string) builder.Source {
	dir := v.GetString("base-dir")
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return builder.DirSource{Dir: dir}
}
