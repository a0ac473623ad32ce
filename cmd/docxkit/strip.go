package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/benjaminschreck/docxkit/pkg/docxkit"
)

func newStripCmd(global *globalOptions) *cobra.Command {
	var out, tempDir string

	cmd := &cobra.Command{
		Use:   "strip [input]",
		Short: "Remove XML comments from a package body",
		Long: `Removes every XML comment from word/document.xml of an existing package and
writes a new package next to it. All other members are copied unchanged.
The input defaults to the construction start report template.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := defaultTemplatePath
			if len(args) == 1 {
				in = args[0]
			}

			opts := global.docxkitOptions()
			if tempDir != "" {
				opts = append(opts, docxkit.WithTempDir(tempDir))
			}
			res, err := docxkit.NewStripper(opts...).StripFile(in, out)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "comments before: %d\n", res.Before)
			fmt.Fprintf(w, "comments after:  %d\n", res.After)
			fmt.Fprintf(w, "✅ written: %s\n", res.Output)
			if res.After != 0 {
				return fmt.Errorf("%d comments remain in %s", res.After, res.Output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default <input>_nocomments.docx)")
	cmd.Flags().StringVar(&tempDir, "temp-dir", "", "parent directory for the extraction directory")
	return cmd
}
