// Package version holds build metadata injected at link time.
package version

import "runtime"

// Populated via -ldflags at build time, e.g.
//
//	go build -ldflags "-X github.com/warraq-dev/warraq/version.GitRelease=v0.1.0"
var (
	GitRelease    = "dev"
	GitCommit     = "unknown"
	GitCommitDate = "unknown"
	GoInfo        = runtime.Version()
)
