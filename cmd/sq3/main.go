// Package main provides the sq3 CLI, a small shell around the sqlite3
// binding for running SQL against local database files.
package main

import (
	"fmt"
	"os"
)

func main() {
	err := rootCmd.Execute()
	if cerr := closeConn(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
