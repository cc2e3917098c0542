// Package version reports build metadata for the console binaries
package version

import "runtime/debug"

// BuildInfo holds version information about the service build
type BuildInfo struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version,omitempty"`
}

// set with -ldflags "-X 'kycdesk/internal/core/version.version=v0.1.0' -X ...commit=abcd"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Info returns the build information
// when the binary was built without ldflags the vcs revision from the module build info is used
func Info() BuildInfo {
	bi := BuildInfo{Service: "kycdesk-api", Version: version, Commit: commit, Date: date}
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return bi
	}
	bi.GoVersion = info.GoVersion
	if bi.Commit == "none" {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && s.Value != "" {
				bi.Commit = s.Value
			}
		}
	}
	return bi
}
