// Version command for the sq3 CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CPB9/sqlite3pp/pkg/sqlite3"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the sq3 and SQLite engine versions",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "sq3 %s (sqlite %s)\n", sqlite3.Version, sqlite3.EngineVersion)
	},
}
