package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/burnrate-dev/burnrate/schema"
	"github.com/fatih/color"
)

// Elevated burn starts at this fraction of the threshold.
const elevatedRatio = 0.5

// Color variables for console output.
var (
	BurningColor  = color.New(color.FgRed, color.Bold) // over threshold
	ElevatedColor = color.New(color.FgYellow)          // approaching threshold
	OKColor       = color.New(color.FgGreen)           // comfortably below threshold
	NoDataColor   = color.New(color.FgHiBlack)         // nothing to compare
)

// GetBurnLabel classifies a burn rate against its threshold.
func GetBurnLabel(value float64, ok bool, threshold float64) schema.BurnLabel {
	switch {
	case !ok:
		return schema.NoDataLabel
	case value >= threshold:
		return schema.BurningLabel
	case value >= threshold*elevatedRatio:
		return schema.ElevatedLabel
	default:
		return schema.OKLabel
	}
}

// GetColorLabel returns a colored burn label for console output (table).
func GetColorLabel(label schema.BurnLabel) string {
	text := string(label)

	switch label {
	case schema.BurningLabel:
		return BurningColor.Sprint(text)
	case schema.ElevatedLabel:
		return ElevatedColor.Sprint(text)
	case schema.OKLabel:
		return OKColor.Sprint(text)
	default:
		return NoDataColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for render history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".burnrate_history.db"
	}
	return filepath.Join(homeDir, ".burnrate_history.db")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
