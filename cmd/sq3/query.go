// Query command: run a SELECT and print its rows.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CPB9/sqlite3pp/pkg/sqlite3"
)

var queryCmd = &cobra.Command{
	Use:   "query [sql]",
	Short: "Run a query and print the result rows",
	Long: `Run a single SQL query and print its rows. Output is tab-separated
text with a header line, or a JSON array of objects with --json.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sql, err := scriptFromArgs(args)
		if err != nil {
			return err
		}

		q, err := conn.Query(sql)
		if err != nil {
			return err
		}
		defer q.Finish()

		if flagJSON {
			return printJSON(cmd.OutOrStdout(), q)
		}
		return printTabular(cmd.OutOrStdout(), q)
	},
}

func printTabular(w io.Writer, q *sqlite3.Query) error {
	cols := make([]string, q.ColumnCount())
	for i := range cols {
		cols[i] = q.ColumnName(i)
	}
	fmt.Fprintln(w, strings.Join(cols, "\t"))

	fields := make([]string, len(cols))
	for row := range q.Rows() {
		for i := range fields {
			fields[i] = fieldText(row, i)
		}
		fmt.Fprintln(w, strings.Join(fields, "\t"))
	}
	return q.Err()
}

func printJSON(w io.Writer, q *sqlite3.Query) error {
	var out []map[string]any
	for row := range q.Rows() {
		rec := make(map[string]any, q.ColumnCount())
		for i := 0; i < q.ColumnCount(); i++ {
			rec[q.ColumnName(i)] = fieldValue(row, i)
		}
		out = append(out, rec)
	}
	if err := q.Err(); err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// fieldText renders a column value for tab-separated output.
func fieldText(row sqlite3.Row, i int) string {
	switch row.Type(i) {
	case sqlite3.Null:
		return ""
	case sqlite3.Blob:
		return fmt.Sprintf("x'%x'", row.Blob(i))
	default:
		return row.Text(i)
	}
}

// fieldValue renders a column value for JSON output, keeping the engine's
// storage class.
func fieldValue(row sqlite3.Row, i int) any {
	switch row.Type(i) {
	case sqlite3.Integer:
		return row.Int64(i)
	case sqlite3.Float:
		return row.Float(i)
	case sqlite3.Blob:
		return row.Blob(i)
	case sqlite3.Null:
		return nil
	default:
		return row.Text(i)
	}
}
