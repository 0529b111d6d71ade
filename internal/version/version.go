// Package version exposes build metadata injected at link time.
package version

import "fmt"

var (
	// Version is the semantic version, set via -ldflags.
	Version = "dev"
	// Commit is the git commit hash, set via -ldflags.
	Commit = "none"
	// Date is the build date, set via -ldflags.
	Date = "unknown"
)

// Info returns a human-readable version string.
func Info() string {
	return fmt.Sprintf("genserve %s (commit %s, built %s)", Version, Commit, Date)
}
