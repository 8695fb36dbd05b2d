package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/burnrate-dev/burnrate/schema"
)

// Table names for render history.
const (
	rendersTable = "burnrate_renders"
	samplesTable = "burnrate_samples"
)

// migrationsTable is where golang-migrate keeps the schema version.
const migrationsTable = "schema_migrations"

// historyTables lists all history tables in dependency order.
var historyTables = []string{rendersTable, samplesTable}

// quoteTableName quotes a table name for the backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf("\"%s\"", name)
	}
}

// placeholders returns n comma separated bind parameters for the backend.
func placeholders(backend schema.DatabaseBackend, n int) string {
	parts := make([]string, n)
	for i := range parts {
		if backend == schema.PostgreSQLBackend {
			parts[i] = fmt.Sprintf("$%d", i+1)
		} else {
			parts[i] = "?"
		}
	}
	return strings.Join(parts, ", ")
}

// sqliteTimeFormat is fixed width so that text columns sort chronologically.
const sqliteTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.UTC().Format(sqliteTimeFormat)
	default:
		return t.UTC()
	}
}

// timeScanner scans a time column stored by formatTime.
type timeScanner struct {
	backend schema.DatabaseBackend
	text    string
	native  time.Time
}

// target returns the destination to hand to Scan.
func (ts *timeScanner) target() any {
	if ts.backend == schema.SQLiteBackend {
		return &ts.text
	}
	return &ts.native
}

// value returns the scanned time in UTC.
func (ts *timeScanner) value() (time.Time, error) {
	if ts.backend != schema.SQLiteBackend {
		return ts.native.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339Nano, ts.text)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse time %q: %w", ts.text, err)
	}
	return t.UTC(), nil
}
