// Root command for the sq3 CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/CPB9/sqlite3pp/internal/paths"
	"github.com/CPB9/sqlite3pp/pkg/sqlite3"
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagDB        string
	flagScratch   bool
	flagJSON      bool
)

// configDataDir holds the data_dir value loaded from config.yaml.
// Set by PersistentPreRunE so all subcommands can use it.
var configDataDir string

// conn is the connection subcommands run against, opened by
// PersistentPreRunE and closed by main after Execute returns.
var conn *sqlite3.Conn

var rootCmd = &cobra.Command{
	Use:   "sq3",
	Short: "sq3 runs SQL against local SQLite database files",
	Long: `sq3 is a command-line shell around a thin SQLite binding. It opens a
database file resolved from flags and configuration, runs SQL scripts or
queries against it, and prints results as text or JSON.`,
	Version: sqlite3.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}

		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}
		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}
		configDataDir = cfg.GetString(cfgKeyDataDir)

		path, err := resolveDBPath()
		if err != nil {
			return err
		}

		c, err := sqlite3.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		if timeout := cfg.GetInt(cfgKeyBusyTimeoutMS); timeout > 0 {
			if err := c.SetBusyTimeout(time.Duration(timeout) * time.Millisecond); err != nil {
				c.Close()
				return err
			}
		}
		if cfg.GetBool(cfgKeyForeignKeys) {
			if err := c.EnableForeignKeys(true); err != nil {
				c.Close()
				return err
			}
		}
		mode, err := syncModeFromConfig(cfg.GetString(cfgKeySynchronous))
		if err != nil {
			c.Close()
			return err
		}
		if err := c.SetSynchronous(mode); err != nil {
			c.Close()
			return err
		}
		conn = c
		return nil
	},
}

// closeConn releases the connection opened by PersistentPreRunE. Called
// from main rather than PersistentPostRunE, which cobra skips when a
// subcommand's RunE fails.
func closeConn() error {
	if conn == nil {
		return nil
	}
	return conn.Close()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "database directory (default: $(CWD)/.sq3)")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "database file name or path (default: sq3.db)")
	rootCmd.PersistentFlags().BoolVar(&flagScratch, "scratch", false, "use a fresh uniquely named database file")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(tablesCmd)
}

// resolveConfigDir returns the configuration directory following the
// precedence chain: --config-dir flag > SQ3_CONFIG_DIR env > platform default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}

// resolveDBPath returns the database file to open. An absolute --db path
// (or :memory:) is used as-is; otherwise the file lives in the resolved
// data directory. --scratch generates a unique name instead.
func resolveDBPath() (string, error) {
	if flagDB == ":memory:" {
		return flagDB, nil
	}
	if flagDB != "" && filepath.IsAbs(flagDB) {
		return flagDB, nil
	}

	dataDir, err := paths.ResolveDataDir(flagDataDir, configDataDir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}

	name := flagDB
	if flagScratch {
		name = uuid.NewString() + ".db"
	}
	if name == "" {
		name = "sq3.db"
	}
	return filepath.Join(dataDir, name), nil
}
