// Package version carries build metadata injected with -ldflags:
//
//	go build -ldflags "-X git.home.luguber.info/inful/headlink/internal/version.Version=v0.3.0"
package version

import "fmt"

// Version is the release version, "dev" for local builds.
var Version = "dev"

// Build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String formats the version for --version output.
func String() string {
	return fmt.Sprintf("headlink %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
