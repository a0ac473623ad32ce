package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/benjaminschreck/docxkit/pkg/docxkit"
	"github.com/benjaminschreck/docxkit/pkg/docxkit/forms"
)

type buildOptions struct {
	form     string
	builtin  string
	out      string
	strategy string
	full     bool
	annotate bool
	mkdir    bool
}

func newBuildCmd(global *globalOptions) *cobra.Command {
	o := &buildOptions{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Write a form template package",
		Long: `Lowers a form definition to a DOCX package and lists the placeholders it
contains. Without --form the builtin construction start report is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, global, o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.form, "form", "", "path to a YAML form definition")
	f.StringVar(&o.builtin, "builtin", forms.DefaultName, "builtin form to use when --form is not given")
	f.StringVarP(&o.out, "out", "o", defaultTemplatePath, "output package path")
	f.StringVar(&o.strategy, "strategy", "", "body serialization strategy (markup, object); default from DOCXKIT_STRATEGY or markup")
	f.BoolVar(&o.full, "full", false, "also write styles, settings and document properties")
	f.BoolVar(&o.annotate, "annotate", false, "write section and row comments into the body")
	f.BoolVar(&o.mkdir, "mkdir", false, "create the output directory when it does not exist")
	return cmd
}

func runBuild(cmd *cobra.Command, global *globalOptions, o *buildOptions) error {
	form, err := loadForm(o.form, o.builtin)
	if err != nil {
		return err
	}
	doc, err := form.Document()
	if err != nil {
		return err
	}

	opts := global.docxkitOptions()
	if o.strategy != "" {
		strategy, err := docxkit.ParseStrategy(o.strategy)
		if err != nil {
			return err
		}
		opts = append(opts, docxkit.WithStrategy(strategy))
	}
	if cmd.Flags().Changed("full") {
		opts = append(opts, docxkit.WithFullParts(o.full))
	}
	if cmd.Flags().Changed("annotate") {
		opts = append(opts, docxkit.WithAnnotations(o.annotate))
	}

	if o.mkdir {
		if err := os.MkdirAll(filepath.Dir(o.out), 0o755); err != nil {
			return docxkit.NewIOError("mkdir", filepath.Dir(o.out), err)
		}
	}
	if err := docxkit.NewBuilder(opts...).WriteFile(doc, o.out); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✅ template written: %s\n", o.out)
	fmt.Fprintln(out, "\n📋 placeholders:")
	printPlaceholders(cmd, form.Placeholders())
	return nil
}

func loadForm(path, builtin string) (*forms.Form, error) {
	if path != "" {
		return forms.Load(path)
	}
	form, err := forms.Builtin(builtin)
	if err != nil {
		return nil, err
	}
	return form, form.Validate()
}

func printPlaceholders(cmd *cobra.Command, names []string) {
	for i, name := range names {
		fmt.Fprintf(cmd.OutOrStdout(), "  %d. {{%s}}\n", i+1, name)
	}
}
