// Package version holds build metadata, set at link time:
//
//	go build -ldflags "-X git.home.luguber.info/inful/blogkit/internal/version.Version=v1.2.0"
package version

import "fmt"

var (
	Version   = "unknown"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String formats the metadata for --version.
func String() string {
	return fmt.Sprintf("blogkit %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
