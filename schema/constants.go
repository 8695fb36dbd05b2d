package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// QueryStatus represents the lifecycle state of a single range query.
	QueryStatus string

	// DatabaseBackend represents the database backend for render history.
	DatabaseBackend string

	// BurnLabel represents how a burn rate compares to its threshold.
	BurnLabel string

	// QueryRole identifies which window a query belongs to.
	QueryRole string
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	CSVOut     OutputMode = "csv"
	ParquetOut OutputMode = "parquet"
	HTMLOut    OutputMode = "html"
	PNGOut     OutputMode = "png"
	SVGOut     OutputMode = "svg"
)

// All query statuses. Pending is the only non-terminal status.
const (
	PendingStatus QueryStatus = "pending"
	ErrorStatus   QueryStatus = "error"
	SuccessStatus QueryStatus = "success"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Burn labels used in text output.
const (
	BurningLabel  BurnLabel = "Burning"
	ElevatedLabel BurnLabel = "Elevated"
	OKLabel       BurnLabel = "OK"
	NoDataLabel   BurnLabel = "NoData"
)

// Query roles. The role doubles as the series label.
const (
	ShortRole     QueryRole = "short"
	LongRole      QueryRole = "long"
	ThresholdRole QueryRole = "threshold"
)

// Panel layout constants.
const (
	DefaultTitle          = "Burnrate"
	DefaultContainerWidth = 500
	ChartHeight           = 150
	TerminalChartHeight   = 12
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	JSONOut:    {},
	CSVOut:     {},
	ParquetOut: {},
	HTMLOut:    {},
	PNGOut:     {},
	SVGOut:     {},
}

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// Terminal reports whether the status will not change anymore.
func (s QueryStatus) Terminal() bool {
	return s == ErrorStatus || s == SuccessStatus
}
