// Package version reports build metadata for the css-theme-extractor binary.
//
// Release builds stamp the variables below with -ldflags, for example:
//
//	go build -ldflags "\
//	  -X bennypowers.dev/cte/internal/version.Version=v0.3.0 \
//	  -X bennypowers.dev/cte/internal/version.GitCommit=$(git rev-parse --short HEAD) \
//	  -X bennypowers.dev/cte/internal/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package version

import (
	"fmt"
	"runtime/debug"
)

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// GetVersion returns the stamped release version. Unstamped binaries fall
// back to the module version the Go toolchain recorded, so go-installed
// builds still report something useful.
func GetVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return "dev"
}

// GetFullVersion returns the version with the commit and build time
// appended when they were stamped in.
func GetFullVersion() string {
	v := GetVersion()
	if GitCommit == "unknown" {
		return v
	}
	if BuildTime == "unknown" {
		return fmt.Sprintf("%s (commit %s)", v, GitCommit)
	}
	return fmt.Sprintf("%s (commit %s, built %s)", v, GitCommit, BuildTime)
}
