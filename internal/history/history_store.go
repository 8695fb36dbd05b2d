package history

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/burnrate-dev/burnrate/internal/contract"
	"github.com/burnrate-dev/burnrate/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// renderColumns are the inserted columns of the renders table, in bind order.
const renderColumns = "panel, short_query, long_query, threshold, range_start, range_end, step_seconds, short_status, long_status, points, rendered_at"

// sampleColumns are the columns of the samples table, in bind order.
const sampleColumns = "render_id, sample_time, series, sample_value"

// StoreImpl implements the HistoryStore interface.
type StoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &StoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
// The history tables are created when missing.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled history
		return &StoreImpl{backend: backend}, nil
	}

	db, err := openDatabase(backend, connStr, false)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w. Verify the database server is running and accessible", backend, err)
	}

	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &StoreImpl{db: db, backend: backend}, nil
}

// disabled reports whether the store drops every write.
func (hs *StoreImpl) disabled() bool {
	return hs.backend == schema.NoneBackend || hs.db == nil
}

// RecordRender stores one rendered panel and returns its unique ID.
func (hs *StoreImpl) RecordRender(record schema.RenderRecord) (int64, error) {
	if hs.disabled() {
		return 0, nil
	}

	quotedTableName := quoteTableName(rendersTable, hs.backend)
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quotedTableName, renderColumns, placeholders(hs.backend, 11))
	args := []any{
		record.Panel, record.Short, record.Long, record.Threshold,
		formatTime(record.RangeStart, hs.backend), formatTime(record.RangeEnd, hs.backend),
		record.StepSeconds, string(record.ShortStatus), string(record.LongStatus),
		record.Points, formatTime(record.RenderedAt, hs.backend),
	}

	var renderID int64
	switch hs.backend {
	case schema.PostgreSQLBackend:
		if err := hs.db.QueryRow(query+" RETURNING render_id", args...).Scan(&renderID); err != nil {
			return 0, fmt.Errorf("failed to insert render: %w", err)
		}
	default: // SQLite and MySQL
		result, err := hs.db.Exec(query, args...)
		if err != nil {
			return 0, fmt.Errorf("failed to insert render: %w", err)
		}
		if renderID, err = result.LastInsertId(); err != nil {
			return 0, fmt.Errorf("failed to read render id: %w", err)
		}
	}
	return renderID, nil
}

// RecordSamples stores the matrix rows of a rendered panel in one transaction.
func (hs *StoreImpl) RecordSamples(renderID int64, samples []schema.SampleRecord) (err error) {
	if hs.disabled() || len(samples) == 0 {
		return nil
	}

	tx, err := hs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	quotedTableName := quoteTableName(samplesTable, hs.backend)
	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quotedTableName, sampleColumns, placeholders(hs.backend, 4)))
	if err != nil {
		return fmt.Errorf("failed to prepare sample insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, s := range samples {
		var value any
		if s.Value != nil {
			value = *s.Value
		}
		if _, err = stmt.Exec(renderID, formatTime(s.Timestamp, hs.backend), s.Series, value); err != nil {
			return fmt.Errorf("failed to insert sample: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit samples: %w", err)
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *StoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if hs.disabled() {
		return status, nil
	}

	status.SchemaVersion = hs.schemaVersion()

	for _, table := range historyTables {
		var count int64
		row := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend)))
		if err := row.Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalRenders = int(status.TableSizes[rendersTable])
	status.TotalSamples = int(status.TableSizes[samplesTable])

	if status.TotalRenders == 0 {
		return status, nil
	}

	quotedTableName := quoteTableName(rendersTable, hs.backend)

	lastTime := timeScanner{backend: hs.backend}
	row := hs.db.QueryRow(fmt.Sprintf("SELECT render_id, rendered_at FROM %s ORDER BY render_id DESC LIMIT 1", quotedTableName))
	if err := row.Scan(&status.LastRenderID, lastTime.target()); err != nil {
		return status, fmt.Errorf("failed to get last render info: %w", err)
	}
	last, err := lastTime.value()
	if err != nil {
		return status, err
	}
	status.LastRenderTime = last

	oldestTime := timeScanner{backend: hs.backend}
	row = hs.db.QueryRow(fmt.Sprintf("SELECT rendered_at FROM %s ORDER BY render_id ASC LIMIT 1", quotedTableName))
	if err := row.Scan(oldestTime.target()); err != nil {
		return status, fmt.Errorf("failed to get oldest render time: %w", err)
	}
	oldest, err := oldestTime.value()
	if err != nil {
		return status, err
	}
	status.OldestRenderTime = oldest

	return status, nil
}

// schemaVersion returns the applied migration version, or 0 when migrations never ran.
func (hs *StoreImpl) schemaVersion() uint {
	var version int64
	row := hs.db.QueryRow(fmt.Sprintf("SELECT version FROM %s LIMIT 1", quoteTableName(migrationsTable, hs.backend)))
	if err := row.Scan(&version); err != nil || version < 0 {
		return 0
	}
	return uint(version)
}

// GetAllRenders returns every recorded render ordered by ID.
func (hs *StoreImpl) GetAllRenders() ([]schema.RenderRecord, error) {
	if hs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT render_id, %s FROM %s ORDER BY render_id", renderColumns, quoteTableName(rendersTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query renders: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RenderRecord
	for rows.Next() {
		var record schema.RenderRecord
		var shortStatus, longStatus string
		start := timeScanner{backend: hs.backend}
		end := timeScanner{backend: hs.backend}
		renderedAt := timeScanner{backend: hs.backend}
		if err := rows.Scan(&record.RenderID, &record.Panel, &record.Short, &record.Long, &record.Threshold,
			start.target(), end.target(), &record.StepSeconds, &shortStatus, &longStatus,
			&record.Points, renderedAt.target()); err != nil {
			return nil, fmt.Errorf("failed to scan render: %w", err)
		}
		record.ShortStatus = schema.QueryStatus(shortStatus)
		record.LongStatus = schema.QueryStatus(longStatus)
		if record.RangeStart, err = start.value(); err != nil {
			return nil, err
		}
		if record.RangeEnd, err = end.value(); err != nil {
			return nil, err
		}
		if record.RenderedAt, err = renderedAt.value(); err != nil {
			return nil, err
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating renders: %w", err)
	}
	return results, nil
}

// GetAllSamples returns every recorded sample ordered by render, time and series.
func (hs *StoreImpl) GetAllSamples() ([]schema.SampleRecord, error) {
	if hs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY render_id, sample_time, series", sampleColumns, quoteTableName(samplesTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.SampleRecord
	for rows.Next() {
		var record schema.SampleRecord
		var value sql.NullFloat64
		ts := timeScanner{backend: hs.backend}
		if err := rows.Scan(&record.RenderID, ts.target(), &record.Series, &value); err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		if record.Timestamp, err = ts.value(); err != nil {
			return nil, err
		}
		if value.Valid {
			record.Value = schema.Float64Ptr(value.Float64)
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating samples: %w", err)
	}
	return results, nil
}

// Clear removes all recorded renders and samples.
func (hs *StoreImpl) Clear() error {
	if hs.disabled() {
		return nil
	}
	var errs []error
	for i := len(historyTables) - 1; i >= 0; i-- {
		table := historyTables[i]
		if _, err := hs.db.Exec(fmt.Sprintf("DELETE FROM %s", quoteTableName(table, hs.backend))); err != nil {
			errs = append(errs, fmt.Errorf("failed to clear table %s: %w", table, err))
		}
	}
	return errors.Join(errs...)
}

// Close closes the underlying connection.
func (hs *StoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}
