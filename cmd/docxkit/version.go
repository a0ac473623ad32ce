package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/benjaminschreck/docxkit/pkg/docxkit"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of docxkit",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "docxkit version %s\n", docxkit.Version)
		},
	}
}
