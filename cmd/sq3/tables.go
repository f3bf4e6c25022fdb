// Tables command: list user tables in the database.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the tables in the database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := conn.Query(
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
		if err != nil {
			return err
		}
		defer q.Finish()

		var names []string
		for row := range q.Rows() {
			names = append(names, row.Text(0))
		}
		if err := q.Err(); err != nil {
			return err
		}

		if flagJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			return enc.Encode(names)
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}
