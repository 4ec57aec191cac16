// Package version reports build metadata stamped in with -ldflags
package version

import pstrings "zhkh/internal/platform/strings"

// BuildInfo describes the running binary
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// set with -ldflags "-X zhkh/internal/core/version.version=v0.1.0 -X zhkh/internal/core/version.commit=abcd"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Info returns the build information for service
func Info(service string) BuildInfo {
	return BuildInfo{
		Service: pstrings.Or(service, "zhkh"),
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

// String is the one-line form printed by --version
func (b BuildInfo) String() string {
	return b.Service + " " + b.Version + " (" + b.Commit + ", " + b.Date + ")"
}
