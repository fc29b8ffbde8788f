package root

import (
	"context"

	"github.com/spf13/cobra"
)

// rootCmd is the base command for the portfolio admin CLI. Subcommands (auth, bootstrap, tenant) are attached here.
var rootCmd = &cobra.Command{
	Use:           "portfolio",
	Short:         "Portfolio admin CLI",
	Long:          "Administrative utilities for the portfolio backend (schema bootstrap, platform admin seed, tenant creation, session tokens).",
	SilenceErrors: true,
	SilenceUsage:  true,
}

// ExecuteContext runs the CLI. Subcommands read ctx through cmd.Context() so an interrupt cancels
// in-flight database work.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// Root returns the mutable root command for wiring from subpackages.
func Root() *cobra.Command {
	return rootCmd
}
