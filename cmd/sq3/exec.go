// Exec command: run a SQL script statement by statement.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var execCmd = &cobra.Command{
	Use:   "exec [sql]",
	Short: "Execute a SQL script against the database",
	Long: `Execute one or more semicolon-separated SQL statements. The script is
read from the argument, or from stdin when no argument is given. Statements
run in a single transaction; the first failure rolls everything back.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		script, err := scriptFromArgs(args)
		if err != nil {
			return err
		}

		tx, err := conn.BeginTx(false, false)
		if err != nil {
			return err
		}
		defer tx.End()

		if err := conn.Batch(script).ExecuteAll(); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "ok (%d rows changed)\n", conn.TotalChanges())
		return nil
	},
}

// scriptFromArgs returns the SQL script to run: the single positional
// argument when present, stdin otherwise.
func scriptFromArgs(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}
