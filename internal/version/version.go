// Package version exposes build metadata injected at link time.
package version

import "fmt"

//nolint:gochecknoglobals // These variables are overwritten by -ldflags at build time.
var (
	// Version is the semantic version of the build.
	Version = "0.1.0"
	// Commit is the git commit the binary was built from.
	Commit = "none"
	// BuildTime is the time the binary was built.
	BuildTime = "unknown"
)

// Short returns the bare version string.
func Short() string {
	return Version
}

// Full returns the version together with commit and build time.
func Full() string {
	return formatFull(Version, Commit, BuildTime)
}

// formatFull prints build metadata as "traffic-logger 1.2.3 (commit abc1234, built 2025-01-02T03:04:05Z)".
// The commit is shortened to seven characters, unset fields are left out.
func formatFull(version, commit, buildTime string) string {
	const shortCommitLength = 7

	if len(commit) > shortCommitLength {
		commit = commit[:shortCommitLength]
	}

	details := ""

	switch {
	case commit != "" && commit != "none" && buildTime != "" && buildTime != "unknown":
		details = fmt.Sprintf(" (commit %s, built %s)", commit, buildTime)
	case commit != "" && commit != "none":
		details = fmt.Sprintf(" (commit %s)", commit)
	case buildTime != "" && buildTime != "unknown":
		details = fmt.Sprintf(" (built %s)", buildTime)
	}

	return "traffic-logger " + version + details
}
