package ch

import (
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// BuildClientInfo describes this process to ClickHouse
// name is the product (textguard), tag the role (api, screen)
func BuildClientInfo(name, tag string) clickhouse.ClientInfo {
	if strings.TrimSpace(name) == "" {
		name = "textguard"
	}
	host, _ := os.Hostname()

	var info clickhouse.ClientInfo
	for _, p := range [][2]string{
		{name, tag},
		{"go", runtime.Version()},
		{"commit", vcsShortSHA()},
		{"host", host},
	} {
		info.Products = append(info.Products, struct {
			Name    string
			Version string
		}{Name: strings.TrimSpace(p[0]), Version: strings.TrimSpace(p[1])})
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
