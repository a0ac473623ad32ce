package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/benjaminschreck/docxkit/pkg/docxkit/forms"
)

func newFormsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forms",
		Short: "List the builtin forms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range forms.Names() {
				f, err := forms.Builtin(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d placeholders\n", name, f.Title, len(f.Placeholders()))
			}
			return nil
		},
	}
}
