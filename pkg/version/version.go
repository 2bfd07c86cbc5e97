// Package version holds build-time version metadata, injected via ldflags.
package version

var (
	// Version is the semantic version of this build.
	Version = "dev"

	// GitCommit is the commit this build was produced from.
	GitCommit = "unknown"
)
