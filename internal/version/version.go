// Package version holds build metadata set via -ldflags.
package version

import "fmt"

// These variables are populated by the Go linker (LDFLAGS) at build time.
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// String returns a one-line description of the build.
func String() string {
	return fmt.Sprintf("testreport %s (%s, built %s)", Version, CommitHash, BuildDate)
}
