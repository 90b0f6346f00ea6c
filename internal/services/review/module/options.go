package module

import "capturebox/internal/platform/config"

// Options configures the review store
type Options struct {
	// Backend is memory or pg
	Backend string
	Migrate bool
}

// FromConfig reads CORE_REVIEW_*
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CORE_REVIEW_")
	return Options{
		Backend: c.MayEnum("BACKEND", "memory", "memory", "pg"),
		Migrate: c.MayBool("MIGRATE", true),
	}
}
