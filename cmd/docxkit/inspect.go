package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/benjaminschreck/docxkit/pkg/docxkit"
)

func newInspectCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <package>",
		Short: "List placeholders and report tokens split across runs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := docxkit.OpenPackage(args[0])
			if err != nil {
				return err
			}
			if err := r.CheckIntegrity(); err != nil {
				return err
			}
			report, err := docxkit.InspectReader(r)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%d placeholders, %d comments\n", len(report.Placeholders), report.Comments)
			printPlaceholders(cmd, report.Placeholders)

			if !report.Fragmented() {
				return nil
			}
			fmt.Fprintln(w, "\nfragmented:")
			for _, f := range report.Fragments {
				fmt.Fprintf(w, "  paragraph %d: %s spans runs %v\n", f.Paragraph, f.Token, f.Runs)
			}
			return fmt.Errorf("%d placeholders are split across runs", len(report.Fragments))
		},
	}
}
