package ch

import (
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// BuildClientInfo describes this process to the server, visible in system.query_log
// role is the binary, e.g. "api"
func BuildClientInfo(role, tag string) clickhouse.ClientInfo {
	host, _ := os.Hostname()
	return clickhouse.ClientInfo{
		Products: []struct {
			Name    string
			Version string
		}{
			{Name: "kycdesk", Version: orUnknown(tag)},
			{Name: "role", Version: orUnknown(role)},
			{Name: "go", Version: runtime.Version()},
			{Name: "commit", Version: vcsShortSHA()},
			{Name: "host", Version: orUnknown(host)},
		},
	}
}

func vcsShortSHA() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 7 {
				return s.Value[:7]
			}
		}
	}
	return "unknown"
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "unknown"
	}
	return s
}
