package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	kit "capturebox/internal/platform/testkit"
)

func TestPrefixAndKey(t *testing.T) {
	c := New().Prefix("CORE_").Prefix("CAPTURE_")
	if got := c.key("LOCK_TIMEOUT"); got != "CORE_CAPTURE_LOCK_TIMEOUT" {
		t.Fatalf("key() = %q", got)
	}
}

func TestMust(t *testing.T) {
	c := New().Prefix("CFGT_")
	t.Setenv("CFGT_NAME", "  capturebox ")
	t.Setenv("CFGT_WORKERS", " 8 ")
	t.Setenv("CFGT_ON", "true")
	t.Setenv("CFGT_WAIT", "250ms")
	t.Setenv("CFGT_BASE", "https://example.com/api")
	t.Setenv("CFGT_PORT", "4000")
	t.Setenv("CFGT_BAD", "nope")
	t.Setenv("CFGT_REL", "/relative")
	t.Setenv("CFGT_BIGPORT", "70000")

	if c.MustString("NAME") != "capturebox" {
		t.Fatalf("MustString did not trim")
	}
	if c.MustInt("WORKERS") != 8 || !c.MustBool("ON") || c.MustDuration("WAIT") != 250*time.Millisecond {
		t.Fatalf("typed Must readers mismatch")
	}
	if u := c.MustURL("BASE"); u.Host != "example.com" {
		t.Fatalf("MustURL host = %q", u.Host)
	}
	if c.MustPort("PORT") != ":4000" {
		t.Fatalf("MustPort mismatch")
	}

	panics := []func(){
		func() { _ = c.MustString("MISSING") },
		func() { _ = c.MustInt("BAD") },
		func() { _ = c.MustBool("BAD") },
		func() { _ = c.MustDuration("BAD") },
		func() { _ = c.MustURL("REL") },
		func() { _ = c.MustPort("BIGPORT") },
		func() { c.Require("NAME", "MISSING") },
	}
	for _, fn := range panics {
		kit.MustPanic(t, fn)
	}
	kit.MustNotPanic(t, func() { c.Require("NAME", "PORT") })
}

func TestMay(t *testing.T) {
	c := New().Prefix("CFGM_")
	t.Setenv("CFGM_INT", "12")
	t.Setenv("CFGM_BADINT", "x")
	t.Setenv("CFGM_F", "0.25")
	t.Setenv("CFGM_BIG", "1.5")
	t.Setenv("CFGM_BOOL", "false")
	t.Setenv("CFGM_DUR", "2s")
	t.Setenv("CFGM_CSV", " a, ,b ,")
	t.Setenv("CFGM_BLANKCSV", " , ")

	cases := []struct {
		name string
		got  any
		want any
	}{
		{"string default", c.MayString("NONE", "d"), "d"},
		{"int", c.MayInt("INT", 1), 12},
		{"bad int", c.MayInt("BADINT", 3), 3},
		{"float", c.MayFloat64("F", 0), 0.25},
		{"unit", c.MayUnit("F", 0.7), 0.25},
		{"unit out of range", c.MayUnit("BIG", 0.7), 0.7},
		{"bool", c.MayBool("BOOL", true), false},
		{"duration", c.MayDuration("DUR", time.Second), 2 * time.Second},
		{"duration default", c.MayDuration("NONE", time.Second), time.Second},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, tc.got, tc.want)
		}
	}

	csv := c.MayCSV("CSV", nil)
	if len(csv) != 2 || csv[0] != "a" || csv[1] != "b" {
		t.Fatalf("MayCSV = %v", csv)
	}
	if d := c.MayCSV("BLANKCSV", []string{"z"}); len(d) != 1 || d[0] != "z" {
		t.Fatalf("MayCSV blank = %v", d)
	}
}

func TestMayEnum(t *testing.T) {
	c := New().Prefix("CFGE_")
	t.Setenv("CFGE_STORE", "PG")
	if got := c.MayEnum("STORE", "fs", "fs", "pg", "memory"); got != "pg" {
		t.Fatalf("MayEnum = %q", got)
	}
	if got := c.MayEnum("NONE", "fs", "fs", "pg"); got != "fs" {
		t.Fatalf("MayEnum default = %q", got)
	}
	t.Setenv("CFGE_BAD", "sqlite")
	kit.MustPanic(t, func() { _ = c.MayEnum("BAD", "fs", "fs", "pg") })
}

func TestMayPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	c := New().Prefix("CFGP_")
	t.Setenv("CFGP_DIR", "~/notes")
	if got := c.MayPath("DIR", ""); got != filepath.Join(home, "notes") {
		t.Fatalf("MayPath = %q", got)
	}
	if got := c.MayPath("NONE", "/srv/notes"); got != "/srv/notes" {
		t.Fatalf("MayPath default = %q", got)
	}
}
