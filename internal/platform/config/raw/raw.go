// Package raw is the bootstrap env reader used by the logger
// It must not import the logger package
package raw

import (
	"os"
	"strconv"
	"strings"
)

// Conf is a namespaced view over environment variables
type Conf struct{ prefix string }

// New returns a root Conf
func New() Conf { return Conf{} }

// Prefix returns a child Conf with an additional prefix (e.g. "LOG_")
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) lookup(key string) string {
	return strings.TrimSpace(os.Getenv(c.prefix + key))
}

// Get returns the trimmed value or def when empty
func (c Conf) Get(key, def string) string {
	if v := c.lookup(key); v != "" {
		return v
	}
	return def
}

// GetBool accepts 1, true and yes (any case); empty yields def
func (c Conf) GetBool(key string, def bool) bool {
	switch v := strings.ToLower(c.lookup(key)); v {
	case "":
		return def
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

// GetInt parses a non-negative integer; anything else yields def
func (c Conf) GetInt(key string, def int) int {
	n, err := strconv.Atoi(c.lookup(key))
	if err != nil || n < 0 {
		return def
	}
	return n
}
