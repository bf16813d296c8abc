// Package cli provides the command-line interface for the docsync tool.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the docsync command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "docsync",
		Short: "Synchronize documentation between source comments and a portable record store",
		Long: `docsync harvests JSDoc comments from a TypeScript tree into a YAML record
store, and applies that store back into header files anchored by
<!-- doc-id: ... --> markers.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newHarvestCommand())
	rootCmd.AddCommand(newMarkCommand())
	rootCmd.AddCommand(newDumpCommand())
	rootCmd.AddCommand(newApplyCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}
