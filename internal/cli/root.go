package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command
// The root command itself performs the diff; config and version are
// subcommands
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diffnorris <source-dir> <target-dir>",
		Short: "Compare two directory trees",
		Long: `diffnorris compares two directory trees and reports, path by path, which
entries exist only in the source tree, only in the target tree, or in both.
With --compare-content, files present in both trees are also checked for
content differences.`,
		Args:          cobra.ExactArgs(2),
		RunE:          runDiff,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	addGlobalFlags(cmd)
	addDiffFlags(cmd)

	cmd.AddCommand(NewConfigCommand())
	cmd.AddCommand(NewVersionCommand())

	return cmd
}
