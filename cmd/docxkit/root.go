package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/benjaminschreck/docxkit/pkg/docxkit"
)

// defaultTemplatePath is where the construction start report template has
// always been written
const defaultTemplatePath = "양식/☆착공신고서 템플릿_최종.docx"

// globalOptions are shared by every subcommand
type globalOptions struct {
	logLevel        string
	metricsTextfile string

	metrics *docxkit.Metrics
}

// docxkitOptions returns the options common to builders and strippers
func (o *globalOptions) docxkitOptions() []docxkit.Option {
	return []docxkit.Option{docxkit.WithMetrics(o.metrics)}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "docxkit",
		Short: "Build and clean DOCX form templates",
		Long: `docxkit writes DOCX templates whose {{placeholder}} tokens each stay inside
a single text run, so plain substring replacement can fill them in.
It can also strip XML comments from the body of an existing package.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return opts.metrics.WriteTextfile(opts.metricsTextfile)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error, off); overrides DOCXKIT_LOG_LEVEL")
	cmd.PersistentFlags().StringVar(&opts.metricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this file on success")

	cmd.AddCommand(
		newBuildCmd(opts),
		newStripCmd(opts),
		newInspectCmd(opts),
		newFormsCmd(),
		newVersionCmd(),
	)
	return cmd
}

// setup installs a logger writing to the command's stderr and creates the
// metrics collectors when a textfile was requested
func (o *globalOptions) setup(cmd *cobra.Command) error {
	level := docxkit.GetGlobalConfig().LogLevel
	if o.logLevel != "" {
		level = o.logLevel
		config := docxkit.GetGlobalConfig()
		config.LogLevel = level
		if err := config.Validate(); err != nil {
			return fmt.Errorf("--log-level: %w", err)
		}
	}
	docxkit.SetLogger(docxkit.NewLogger(cmd.ErrOrStderr(), docxkit.ParseLogLevel(level)))

	if o.metricsTextfile != "" {
		o.metrics = docxkit.NewMetrics()
	}
	return nil
}
