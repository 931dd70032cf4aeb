// Package build exposes build-time metadata injected via ldflags.
package build

import "fmt"

// Version, Commit, and Branch are set at build time by:
//
//	-ldflags "-X github.com/yamala-stream/DashSEO/internal/build.Version=... ..."
var (
	Version = "dev"
	Commit  = "unknown"
	Branch  = "unknown"
)

// String renders the build metadata on one line.
func String() string {
	return fmt.Sprintf("dashseo %s (commit %s, branch %s)", Version, Commit, Branch)
}
