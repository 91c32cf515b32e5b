package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates the root command for heartcheck
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "heartcheck",
		Short: "Heart disease risk assessment",
		Long: `heartcheck runs a heart disease risk assessment from the command line:
it classifies the given clinical inputs with the bundled model, prints the
verdict and can show a diet plan or write the PDF report.`,
		Version:      Version,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewAssessCommand())

	return cmd
}
