// Package config reads namespaced settings from the environment.
// Must* readers panic through the logger; May* readers fall back to a default
// and log a warning when the value does not parse.
package config

import (
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"capturebox/internal/platform/logger"
)

// Conf is a prefixed view over environment variables, e.g. New().Prefix("CORE_CAPTURE_")
type Conf struct{ prefix string }

// New returns the unprefixed root view
func New() Conf { return Conf{} }

// Prefix returns a child view with p appended to the current prefix
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) key(k string) string { return c.prefix + k }

func (c Conf) lookup(k string) string { return strings.TrimSpace(os.Getenv(c.key(k))) }

// must returns the parsed value of k or panics naming the variable
func must[T any](c Conf, k, what string, parse func(string) (T, error)) T {
	s := c.lookup(k)
	if s == "" {
		logger.Get().Panic().Str("key", c.key(k)).Msg("missing required env")
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Panic().Str("key", c.key(k)).Str("value", s).Msg("invalid " + what)
	}
	return v
}

// may returns the parsed value of k, or def when unset or invalid
func may[T any](c Conf, k, what string, def T, parse func(string) (T, error)) T {
	s := c.lookup(k)
	if s == "" {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.key(k)).Str("value", s).Interface("default", def).
			Msg("invalid " + what + "; using default")
		return def
	}
	return v
}

func parseString(s string) (string, error) { return s, nil }

func parseFloat(s string) (float64, error) { return strconv.ParseFloat(s, 64) }

func parseURL(s string) (*url.URL, error) {
	u, err := url.Parse(s)
	if err == nil && !u.IsAbs() {
		err = strconv.ErrSyntax
	}
	return u, err
}

func parsePort(s string) (string, error) {
	p, err := strconv.Atoi(s)
	if err != nil || p < 1 || p > 65535 {
		return "", strconv.ErrRange
	}
	return ":" + s, nil
}

// MustString panics when key is unset
func (c Conf) MustString(key string) string { return must(c, key, "string", parseString) }

// MustInt panics when key is unset or not an int
func (c Conf) MustInt(key string) int { return must(c, key, "int", strconv.Atoi) }

// MustBool panics when key is unset or not a bool
func (c Conf) MustBool(key string) bool { return must(c, key, "bool", strconv.ParseBool) }

// MustDuration panics when key is unset or not a duration such as 250ms or 2s
func (c Conf) MustDuration(key string) time.Duration {
	return must(c, key, "duration", time.ParseDuration)
}

// MustURL panics when key is unset or not an absolute URL
func (c Conf) MustURL(key string) *url.URL { return must(c, key, "absolute URL", parseURL) }

// MustPort returns a listen address like ":4000" after checking 1..65535
func (c Conf) MustPort(key string) string { return must(c, key, "TCP port", parsePort) }

// Require panics on the first unset key
func (c Conf) Require(keys ...string) {
	for _, k := range keys {
		if c.lookup(k) == "" {
			logger.Get().Panic().Str("key", c.key(k)).Msg("missing required env")
		}
	}
}

// MayString returns the value or def
func (c Conf) MayString(key, def string) string { return may(c, key, "string", def, parseString) }

// MayInt returns the value or def
func (c Conf) MayInt(key string, def int) int { return may(c, key, "int", def, strconv.Atoi) }

// MayFloat64 returns the value or def
func (c Conf) MayFloat64(key string, def float64) float64 {
	return may(c, key, "float64", def, parseFloat)
}

// MayUnit returns a float in [0,1], or def when unset, invalid or out of range
func (c Conf) MayUnit(key string, def float64) float64 {
	return may(c, key, "fraction in [0,1]", def, func(s string) (float64, error) {
		f, err := parseFloat(s)
		if err == nil && (f < 0 || f > 1) {
			err = strconv.ErrRange
		}
		return f, err
	})
}

// MayBool returns the value or def
func (c Conf) MayBool(key string, def bool) bool { return may(c, key, "bool", def, strconv.ParseBool) }

// MayDuration returns the value or def
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return may(c, key, "duration", def, time.ParseDuration)
}

// MayPath returns the value with a leading ~ expanded, or def
func (c Conf) MayPath(key, def string) string {
	p := c.MayString(key, def)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

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

// MayEnum returns the value when it is one of allowed, def when unset, and panics otherwise
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	v := c.MayString(key, def)
	if v == "" {
		return v
	}
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return strings.ToLower(a)
		}
	}
	logger.Get().Panic().Str("key", c.key(key)).Str("value", v).Strs("allowed", allowed).Msg("invalid enum value")
	return ""
}
