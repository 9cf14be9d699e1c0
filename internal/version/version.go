// Package version carries the build metadata stamped into the binary.
package version

import (
	"strings"

	"github.com/fatih/color"
)

// Overridden at build time, e.g.
// -ldflags "-X wdlint/internal/version.Version=1.2.0".
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var partColors = []*color.Color{
	color.New(color.FgYellow, color.Bold),
	color.New(color.FgGreen, color.Bold),
	color.New(color.FgBlue, color.Bold),
}

// Colored renders Version with major, minor and patch highlighted. Color
// output obeys the global fatih/color NoColor switch.
func Colored() string {
	parts := strings.SplitN(Version, ".", 3)
	for i := range parts {
		if i < len(partColors) {
			parts[i] = partColors[i].Sprint(parts[i])
		}
	}
	return strings.Join(parts, ".")
}
