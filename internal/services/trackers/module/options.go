package module

import (
	"time"

	"capturebox/internal/platform/config"
)

// Options configures the tracker store
type Options struct {
	// Backend is fs, pg or memory
	Backend  string
	Dir      string
	SeedFile string
	LockWait time.Duration
	Migrate  bool
}

// FromConfig reads CORE_TRACKERS_*
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CORE_TRACKERS_")
	return Options{
		Backend:  c.MayEnum("BACKEND", "fs", "fs", "pg", "memory"),
		Dir:      c.MayPath("DIR", "~/.capturebox/trackers"),
		SeedFile: c.MayPath("SEED_FILE", ""),
		LockWait: c.MayDuration("LOCK_WAIT", 2*time.Second),
		Migrate:  c.MayBool("MIGRATE", true),
	}
}
