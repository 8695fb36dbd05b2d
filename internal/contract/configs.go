package contract

import (
	"fmt"
	"maps"
	"net/url"
	"strings"
	"time"

	"github.com/burnrate-dev/burnrate/schema"
)

// Default values for configuration.
const (
	DefaultPrometheusURL = "http://localhost:9090"
	DefaultQueryTimeout  = 30 * time.Second
	DefaultWindow        = "1 day"
	DefaultPrecision     = 3
	MaxPrecision         = 6
	DefaultListenAddr    = ":9099"
	DefaultWait          = 10 * time.Second
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// PanelRawInput holds one named panel from the YAML config file.
type PanelRawInput struct {
	Name      string   `mapstructure:"name"`
	Title     string   `mapstructure:"title"`
	Short     string   `mapstructure:"short"`
	Long      string   `mapstructure:"long"`
	Threshold *float64 `mapstructure:"threshold"`
}

// PanelDefinition is a validated named panel.
type PanelDefinition struct {
	Name      string  `json:"name"`
	Title     string  `json:"title,omitempty"`
	Short     string  `json:"short"`
	Long      string  `json:"long"`
	Threshold float64 `json:"threshold"`
}

// Config holds the runtime configuration.
// This struct remains the "final, validated" config.
type Config struct {
	PrometheusURL string
	QueryTimeout  time.Duration

	// Panel selected by flags; empty queries mean "resolve per request".
	PanelName string
	Title     string
	Short     string
	Long      string
	Threshold float64
	Cursor    schema.Cursor

	// ThresholdSet reports whether Threshold was given explicitly rather than defaulted.
	ThresholdSet bool

	// Time range of the panel.
	StartTime time.Time
	EndTime   time.Time
	Window    time.Duration

	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Width      int // Container width override (0 = auto-detect)
	UseColors  bool

	ListenAddr string
	Wait       time.Duration
	Refresh    time.Duration // Watch mode auto refresh (0 = manual only)

	Record           bool
	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	// Panels is a mapping of [PanelName] = definition, from the config file.
	Panels map[string]PanelDefinition
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	PrometheusURL    string `mapstructure:"prometheus-url"`
	Timeout          string `mapstructure:"timeout"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Precision        int    `mapstructure:"precision"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	Record           bool   `mapstructure:"record"`

	// --- Panel selection flags ---
	Panel      string  `mapstructure:"panel"`
	Title      string  `mapstructure:"title"`
	Short      string  `mapstructure:"short"`
	Long       string  `mapstructure:"long"`
	Threshold  float64 `mapstructure:"threshold"`
	Start      string  `mapstructure:"start"`
	End        string  `mapstructure:"end"`
	Window     string  `mapstructure:"window"`
	CursorSync string  `mapstructure:"cursor-sync"`

	// ThresholdSet is filled from viper.IsSet after unmarshalling.
	ThresholdSet bool `mapstructure:"-"`

	// --- Fields from serveCmd.Flags() ---
	Listen string `mapstructure:"listen"`
	Wait   string `mapstructure:"wait"`

	// --- Fields from watchCmd.Flags() ---
	Refresh string `mapstructure:"refresh"`

	// --- Named panels from config file ---
	Panels []PanelRawInput `mapstructure:"panels"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Panels != nil {
		clone.Panels = make(map[string]PanelDefinition, len(c.Panels))
		maps.Copy(clone.Panels, c.Panels)
	}
	if c.Cursor.Sync != nil {
		sync := *c.Cursor.Sync
		clone.Cursor.Sync = &sync
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processTimeRange(cfg, input, time.Now()); err != nil {
		return err
	}
	if err := processPanels(cfg, input); err != nil {
		return err
	}
	return nil
}

// validateSimpleInputs processes and validates all non-panel fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Record = input.Record

	cfg.UseColors = true
	if input.Color != "" {
		colors, err := ParseBoolString(input.Color)
		if err != nil {
			return fmt.Errorf("invalid --color value: %w", err)
		}
		cfg.UseColors = colors
	}

	// --- 1. Prometheus URL ---
	rawURL := strings.TrimSpace(input.PrometheusURL)
	if rawURL == "" {
		rawURL = DefaultPrometheusURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid prometheus-url '%s'. must be an absolute http(s) URL", input.PrometheusURL)
	}
	cfg.PrometheusURL = rawURL

	// --- 2. Timeouts ---
	cfg.QueryTimeout = DefaultQueryTimeout
	if input.Timeout != "" {
		d, err := time.ParseDuration(input.Timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("timeout must be a positive duration (received %q)", input.Timeout)
		}
		cfg.QueryTimeout = d
	}
	cfg.Wait = DefaultWait
	if input.Wait != "" {
		d, err := time.ParseDuration(input.Wait)
		if err != nil || d <= 0 {
			return fmt.Errorf("wait must be a positive duration (received %q)", input.Wait)
		}
		cfg.Wait = d
	}
	if input.Refresh != "" {
		d, err := time.ParseDuration(input.Refresh)
		if err != nil || d < 0 {
			return fmt.Errorf("refresh must be a non-negative duration (received %q)", input.Refresh)
		}
		cfg.Refresh = d
	}

	// --- 3. Precision and Output Validation ---
	if input.Precision < 0 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if cfg.Output == "" {
		cfg.Output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, json, csv, parquet, html, png, svg", cfg.Output)
	}

	// --- 4. Width ---
	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}

	cfg.ListenAddr = input.Listen
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}

	if key := strings.TrimSpace(input.CursorSync); key != "" {
		cfg.Cursor = schema.Cursor{Sync: &schema.CursorSync{Key: key}}
	}

	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required for %s backend", backend)
		}
		if !strings.Contains(connStr, "@") || !strings.Contains(connStr, "/") {
			return fmt.Errorf("invalid MySQL connection string. Expected user:password@tcp(host:port)/dbname")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required for %s backend", backend)
		}
		if !strings.Contains(connStr, "=") && !strings.HasPrefix(connStr, "postgres") {
			return fmt.Errorf("invalid PostgreSQL connection string. Expected key=value pairs or a postgres:// URL")
		}
	}
	return nil
}

// validateBackendConfigs validates the history backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	backend := schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if backend == "" {
		backend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid history-backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	if err := ValidateDatabaseConnectionString(backend, input.HistoryDBConnect); err != nil {
		return err
	}
	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = input.HistoryDBConnect
	return nil
}

// processTimeRange handles the date parsing and time range validation.
func processTimeRange(cfg *Config, input *ConfigRawInput, now time.Time) error {
	windowStr := input.Window
	if windowStr == "" {
		windowStr = DefaultWindow
	}
	window, err := ParseWindowDuration(windowStr)
	if err != nil {
		return fmt.Errorf("invalid window: %w", err)
	}
	cfg.Window = window

	start, end, err := ResolveTimeRange(input.Start, input.End, window, now)
	if err != nil {
		return err
	}
	cfg.StartTime = start
	cfg.EndTime = end
	return nil
}

// ResolveTimeRange turns optional start/end inputs into a concrete range.
// A missing end means now; a missing start means end minus window.
func ResolveTimeRange(startStr, endStr string, window time.Duration, now time.Time) (time.Time, time.Time, error) {
	end, err := ParseTimeInput(endStr, now)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end: %w", err)
	}
	start := end.Add(-window)
	if strings.TrimSpace(startStr) != "" {
		start, err = ParseTimeInput(startStr, now)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start: %w", err)
		}
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("start time (%s) must be before end time (%s)", start.Format(DateTimeFormat), end.Format(DateTimeFormat))
	}
	return start, end, nil
}

// processPanels converts the configured named panels and the flag-selected panel.
func processPanels(cfg *Config, input *ConfigRawInput) error {
	cfg.Panels = make(map[string]PanelDefinition, len(input.Panels))
	for i, p := range input.Panels {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return fmt.Errorf("panels[%d]: name is required", i)
		}
		if _, dup := cfg.Panels[name]; dup {
			return fmt.Errorf("panels[%d]: duplicate panel name %q", i, name)
		}
		def := PanelDefinition{
			Name:  name,
			Title: p.Title,
			Short: strings.TrimSpace(p.Short),
			Long:  strings.TrimSpace(p.Long),
		}
		if p.Threshold != nil {
			def.Threshold = *p.Threshold
		}
		if err := validatePanelDefinition(def); err != nil {
			return fmt.Errorf("panels[%d]: %w", i, err)
		}
		cfg.Panels[name] = def
	}

	cfg.PanelName = strings.TrimSpace(input.Panel)
	cfg.Title = input.Title
	cfg.Short = strings.TrimSpace(input.Short)
	cfg.Long = strings.TrimSpace(input.Long)
	cfg.Threshold = input.Threshold
	cfg.ThresholdSet = input.ThresholdSet

	if cfg.PanelName != "" {
		if _, ok := cfg.Panels[cfg.PanelName]; !ok {
			return fmt.Errorf("unknown panel %q", cfg.PanelName)
		}
	}
	if cfg.Threshold < 0 {
		return fmt.Errorf("threshold cannot be negative (received %g)", cfg.Threshold)
	}
	return nil
}

// validatePanelDefinition checks that a panel can be queried.
func validatePanelDefinition(def PanelDefinition) error {
	if def.Short == "" {
		return fmt.Errorf("short query is required")
	}
	if def.Long == "" {
		return fmt.Errorf("long query is required")
	}
	if def.Threshold < 0 {
		return fmt.Errorf("threshold cannot be negative (received %g)", def.Threshold)
	}
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix == "" {
		profile.Enabled = false
		return nil
	}
	profile.Enabled = true
	profile.Prefix = profilePrefix
	return nil
}
