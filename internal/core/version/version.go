// Package version provides information about the build version of the tools.
package version

import "fmt"

// BuildInfo holds version information about the build.
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build information. The version, commit, and date variables
// are set at build time with
// -ldflags "-X 'brreg/internal/core/version.version=v0.1.0' -X 'brreg/internal/core/version.commit=abcd'"
func Info() BuildInfo {
	return BuildInfo{
		Service: "brreg",
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

// String renders "v0.1.0 (abcd, 2025-09-02)"
func (b BuildInfo) String() string {
	return fmt.Sprintf("%s (%s, %s)", b.Version, b.Commit, b.Date)
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
