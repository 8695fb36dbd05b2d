// Package cmd defines the command-line interface for burnrate.
package cmd

import (
	"github.com/burnrate-dev/burnrate/internal/contract"
	"github.com/burnrate-dev/burnrate/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(panelCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(panelsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("prometheus-url", contract.DefaultPrometheusURL, "Base URL of the Prometheus HTTP API")
	rootCmd.PersistentFlags().String("timeout", contract.DefaultQueryTimeout.String(), "Timeout of each range query")
	rootCmd.PersistentFlags().String("panel", "", "Named panel from the config file")
	rootCmd.PersistentFlags().String("title", "", "Chart title (defaults to the panel title or 'Burnrate')")
	rootCmd.PersistentFlags().String("short", "", "PromQL expression for the short burn rate window")
	rootCmd.PersistentFlags().String("long", "", "PromQL expression for the long burn rate window")
	rootCmd.PersistentFlags().Float64("threshold", 0, "Constant threshold drawn across the range")
	rootCmd.PersistentFlags().String("start", "", "Range start in ISO8601 or time ago")
	rootCmd.PersistentFlags().String("end", "", "Range end in ISO8601 or time ago (default now)")
	rootCmd.PersistentFlags().String("window", contract.DefaultWindow, "Range length when --start is omitted")
	rootCmd.PersistentFlags().String("cursor-sync", "", "Cursor sync key shared by charts on one page")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or json or csv or parquet or html or png or svg")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Container width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Bool("record", false, "Record rendered panels in the history store")
	rootCmd.PersistentFlags().String("history-backend", string(schema.SQLiteBackend), "History backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("listen", contract.DefaultListenAddr, "Address to serve HTTP on")
	serveCmd.Flags().String("wait", contract.DefaultWait.String(), "How long a request waits for both queries before answering with the loading view")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of watchCmd to Viper
	watchCmd.Flags().String("refresh", "", "Auto refresh interval (e.g., 30s); empty refreshes on demand only")
	watchCmd.Flags().Bool("plain", false, "Redraw plain text instead of the interactive view")
	if err := viper.BindPFlags(watchCmd.Flags()); err != nil {
		contract.LogFatal("Error binding watch flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
