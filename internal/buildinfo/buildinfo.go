// Package buildinfo exposes build-time metadata of the binary.
// Values stamped via ldflags win; otherwise the module and VCS information
// recorded by the Go toolchain is used.
package buildinfo

import (
	"fmt"
	"runtime"
	"time"

	"github.com/carlmjohnson/versioninfo"
)

// Name is the tool name shown in the banner.
const Name = "versionlint"

const unknown = "unknown"

var (
	// Version is the tool version.
	// Set via ldflags: -X github.com/MyCarrier-DevOps/versionlint/internal/buildinfo.Version=...
	Version = ""

	// Commit is the git commit hash (set via ldflags).
	Commit = ""

	// BuildDate is the RFC3339 build timestamp (set via ldflags).
	BuildDate = ""
)

// ResolvedVersion returns the stamped version, else the module version,
// else "dev". Builds from a dirty checkout get a "-dirty" suffix.
func ResolvedVersion() string {
	if Version != "" {
		return Version
	}
	v := versioninfo.Version
	if v == "" || v == unknown || v == "(devel)" {
		v = "dev"
	}
	if versioninfo.DirtyBuild {
		v += "-dirty"
	}
	return v
}

// ResolvedCommit returns the stamped commit, else the VCS revision.
func ResolvedCommit() string {
	if Commit != "" {
		return Commit
	}
	if r := versioninfo.Revision; r != "" {
		return r
	}
	return unknown
}

// ResolvedBuildDate returns the stamped build date, else the time of the
// last commit in the build.
func ResolvedBuildDate() string {
	if BuildDate != "" {
		return BuildDate
	}
	if !versioninfo.LastCommit.IsZero() {
		return versioninfo.LastCommit.UTC().Format(time.RFC3339)
	}
	return unknown
}

// Banner returns the one-line description printed by the about request.
func Banner() string {
	return fmt.Sprintf("%s %s (commit %s, built %s, %s %s/%s)",
		Name, ResolvedVersion(), ResolvedCommit(), ResolvedBuildDate(),
		runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
