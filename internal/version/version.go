// Package version holds build metadata injected at link time:
//
//	go build -ldflags "-X git.home.luguber.info/inful/sitekiln/internal/version.Version=v0.4.0"
package version

import "fmt"

// Version is the release version.
var Version = "unknown"

// Build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by the CLI.
func String() string {
	return fmt.Sprintf("sitekiln %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
