// Package config reads service configuration from environment variables
// Prefix views scope keys per concern (CORE_SCREEN_, SERVICE_PGSQL_, ...)
package config

import (
	"errors"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"textguard/internal/platform/logger"

	"github.com/joho/godotenv"
)

// Conf is a namespaced view over environment variables
type Conf struct{ prefix string }

// New creates a root Conf
func New() Conf { return Conf{} }

// Prefix creates a child Conf with an additional prefix
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) key(k string) string { return c.prefix + k }

func (c Conf) lookup(k string) string { return strings.TrimSpace(os.Getenv(c.key(k))) }

// LoadDotEnv loads .env style files into the process env without overriding
// variables that are already set; missing files are ignored
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// must fetches a required key and parses it, panicking through the logger on failure
func must[T any](c Conf, key, what string, parse func(string) (T, error)) T {
	s := c.lookup(key)
	if s == "" {
		logger.Get().Panic().Str("key", c.key(key)).Msg("missing required env")
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Panic().Err(err).Str("key", c.key(key)).Str("value", s).Msg("invalid " + what)
	}
	return v
}

// may fetches an optional key, falling back to def when empty or unparsable
func may[T any](c Conf, key, what string, def T, parse func(string) (T, error)) T {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Interface("default", def).
			Msg("invalid " + what + "; using default")
		return def
	}
	return v
}

func parseString(s string) (string, error) { return s, nil }

func parseAbsURL(s string) (*url.URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	if !u.IsAbs() {
		return nil, errors.New("url is not absolute")
	}
	return u, nil
}

func parsePort(s string) (string, error) {
	p, err := strconv.Atoi(s)
	if err != nil {
		return "", err
	}
	if p < 1 || p > 65535 {
		return "", errors.New("port out of range 1..65535")
	}
	return ":" + s, nil
}

// MustString panics if the key is missing or empty
func (c Conf) MustString(key string) string { return must(c, key, "string", parseString) }

// MustInt panics if the key is missing or not an int
func (c Conf) MustInt(key string) int { return must(c, key, "int", strconv.Atoi) }

// MustDuration panics if the key is missing or not a duration (250ms, 2s, 1h)
func (c Conf) MustDuration(key string) time.Duration {
	return must(c, key, "duration", time.ParseDuration)
}

// MustURL panics if the key is missing or not an absolute URL
func (c Conf) MustURL(key string) *url.URL { return must(c, key, "absolute URL", parseAbsURL) }

// MustPort returns an addr like ":4000" after validating 1..65535
func (c Conf) MustPort(key string) string { return must(c, key, "TCP port", parsePort) }

// MayString returns the value or def
func (c Conf) MayString(key, def string) string { return may(c, key, "string", def, parseString) }

// MayInt returns the value or def, warning on junk
func (c Conf) MayInt(key string, def int) int { return may(c, key, "int", def, strconv.Atoi) }

// MayFloat64 returns the value or def, warning on junk
func (c Conf) MayFloat64(key string, def float64) float64 {
	return may(c, key, "float64", def, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

// MayBool returns the value or def, warning on junk
func (c Conf) MayBool(key string, def bool) bool { return may(c, key, "bool", def, strconv.ParseBool) }

// MayDuration returns the value or def, warning on junk
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return may(c, key, "duration", def, time.ParseDuration)
}

// MayURL returns the parsed absolute URL or nil when unset
func (c Conf) MayURL(key string) *url.URL { return may(c, key, "absolute URL", nil, parseAbsURL) }

// MayCSV splits a comma separated value, dropping blanks; def when nothing remains
func (c Conf) MayCSV(key string, def []string) []string {
	var out []string
	for _, p := range strings.Split(c.lookup(key), ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayEnum returns the lowercased value when it is one of allowed, def when unset; panics otherwise
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	v := c.MayString(key, def)
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return strings.ToLower(v)
		}
	}
	if v == def {
		return def
	}
	logger.Get().Panic().Str("key", c.key(key)).Str("value", v).Strs("allowed", allowed).Msg("invalid enum value")
	return ""
}
