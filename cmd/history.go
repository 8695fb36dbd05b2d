package cmd

import (
	"fmt"
	"strings"

	"github.com/burnrate-dev/burnrate/internal/contract"
	"github.com/burnrate-dev/burnrate/internal/history"
	"github.com/burnrate-dev/burnrate/internal/outwriter"
	"github.com/burnrate-dev/burnrate/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historyBackendConfig reads and validates the history backend settings.
func historyBackendConfig() (schema.DatabaseBackend, string, error) {
	setConfigSource()
	if err := readConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("history-backend")))
	if backend == "" {
		backend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid history-backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("history-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// historySetup loads minimal configuration needed for history operations.
// This is used by commands that need the store without Prometheus or panel validation.
func historySetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := historyBackendConfig()
	if err != nil {
		return err
	}
	if err := history.InitHistory(backend, connStr); err != nil {
		return err
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	cfg.Output = schema.OutputMode(strings.ToLower(viper.GetString("output")))
	return nil
}

// historyMigrateSetup loads minimal configuration needed for migrate operations.
// It does NOT open the store or create tables, allowing migrations to run on a fresh database.
func historyMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := historyBackendConfig()
	if err != nil {
		return err
	}
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = history.GetHistoryDBFilePath()
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	return nil
}

// historyCmd focused on render history management.
//
// Note: History subcommands use minimal initialization (historySetup) instead of
// the full sharedSetup. This avoids panel validation for simple store operations.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the recorded panel history",
	Long: `Manage the history of rendered panels kept with --record.

Each recorded render stores:
- The panel queries, threshold and range
- The status of both queries
- Every cell of the aligned data matrix

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show history statistics
  export  - Export renders and samples to Parquet
  clear   - Remove all recorded renders
  migrate - Run database schema migrations

Examples:
  # Check history status
  burnrate history status

  # Export for analysis in pandas/DuckDB
  burnrate history export --output-file burnrate`,
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display history statistics and connection details",
	Long: `Show the backend, schema version, render counts and table sizes of the history store.

Examples:
  burnrate history status
  burnrate history status --output json`,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := history.Manager.GetHistoryStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		if err := outwriter.PrintHistoryStatus(status, cfg); err != nil {
			contract.LogFatal("Failed to print history status", err)
		}
	},
}

// historyClearCmd clears the history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded renders and samples",
	Long: `Delete every recorded render and its samples.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  burnrate history export --output-file backup
  burnrate history clear`,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := history.ClearHistory(history.Manager); err != nil {
			contract.LogFatal("Failed to clear history", err)
		}
		fmt.Println("History cleared successfully.")
	},
}

// historyExportCmd exports history to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded renders to Parquet for BI tools and analytics",
	Long: `Export the history store to two Parquet files:
- <output-file>.renders.parquet - one row per recorded render
- <output-file>.samples.parquet - one row per matrix cell

Requires: --output-file parameter

Examples:
  burnrate history export --output-file burnrate
  duckdb -c "SELECT series, avg(value) FROM read_parquet('burnrate.samples.parquet') GROUP BY series"`,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := history.ExecuteHistoryExport(history.Manager, cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export history", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  burnrate history migrate

  # Rollback to the initial state
  burnrate history migrate --target-version 0`,
	PreRunE: historyMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := history.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
