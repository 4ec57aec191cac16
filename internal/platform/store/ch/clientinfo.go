package ch

import (
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// BuildClientInfo describes this process to the server, visible in system.query_log
// name is the binary, e.g. "zhkh-api"; tag is a deploy label
func BuildClientInfo(name, tag string) clickhouse.ClientInfo {
	host, _ := os.Hostname()

	info := clickhouse.ClientInfo{}
	for _, p := range []struct{ Name, Version string }{
		{"zhkh", tag},
		{"app", name},
		{"go", runtime.Version()},
		{"commit", vcsShortSHA()},
		{"host", host},
	} {
		v := strings.TrimSpace(p.Version)
		if v == "" {
			continue
		}
		info.Products = append(info.Products, struct{ Name, Version string }{p.Name, v})
	}
	return info
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
