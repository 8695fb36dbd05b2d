package cmd

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"slices"
	"strings"

	"github.com/burnrate-dev/burnrate/schema"
	"github.com/spf13/cobra"
)

// promClientModule is reported so query behaviour can be matched to a client release.
const promClientModule = "github.com/prometheus/client_golang"

// versionCmd shows the verbose version for diagnostic purposes.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of burnrate.",
	Long: `Display version information including build details.

Shows:
- Release version, commit and build timestamp
- Go runtime and target platform
- Prometheus client library version
- Supported output formats and history backends

Useful for:
- Checking which renderers a binary was built with
- Reporting query problems against a Prometheus release`,
	Run: func(cmd *cobra.Command, _ []string) {
		writeVersion(cmd.OutOrStdout(), promClientVersion())
	},
}

// writeVersion prints the build details shown by the version command.
func writeVersion(w io.Writer, clientVersion string) {
	p := func(format string, args ...any) { _, _ = fmt.Fprintf(w, format, args...) }
	p("burnrate CLI\n")
	p("  Version:    %s\n", version)
	p("  Commit:     %s\n", commit)
	p("  Built:      %s\n", date)
	p("  Runtime:    %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	p("  Prometheus: client_golang %s\n", clientVersion)
	p("  Outputs:    %s\n", joinSorted(schema.ValidOutputModes))
	p("  History:    %s\n", joinSorted(schema.ValidDatabaseBackends))
}

// promClientVersion reads the Prometheus client module version from the build info.
func promClientVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, dep := range info.Deps {
		if dep.Path == promClientModule {
			return dep.Version
		}
	}
	return "unknown"
}

// joinSorted lists the keys of a validation set in sorted order.
func joinSorted[K ~string](set map[K]struct{}) string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, string(k))
	}
	slices.Sort(keys)
	return strings.Join(keys, ", ")
}
