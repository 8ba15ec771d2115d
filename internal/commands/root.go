package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verisage-dev/verisage/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var repo string

	rootCmd := &cobra.Command{
		Use:     "verisage",
		Short:   "Branch financial forms to accounting batch files",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&repo, "repo", ".", "project directory")

	rootCmd.AddCommand(
		newInitCommand(),
		newFormCommand(&repo),
		newPostCommand(&repo),
		newPostBulkCommand(&repo),
		newImportCommand(&repo),
		newVerifyCommand(&repo),
		newServeCommand(&repo),
	)

	return rootCmd
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
