// Package module wires the reminder scheduler from config
package module

import (
	"context"
	"time"

	"capturebox/internal/modkit"
	"capturebox/internal/platform/config"
	perr "capturebox/internal/platform/errors"
	"capturebox/internal/services/reminders/domain"
	"capturebox/internal/services/reminders/repo"
	"capturebox/internal/services/reminders/service"
)

// Options configures reminders
type Options struct {
	// Backend is memory or pg
	Backend string
	Migrate bool
	Hour    int
	Lead    time.Duration
}

// FromConfig reads CORE_REMINDERS_*
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CORE_REMINDERS_")
	return Options{
		Backend: c.MayEnum("BACKEND", "memory", "memory", "pg"),
		Migrate: c.MayBool("MIGRATE", true),
		Hour:    c.MayInt("HOUR", 9),
		Lead:    c.MayDuration("LEAD", time.Hour),
	}
}

// New returns the scheduler over the configured store
func New(ctx context.Context, deps modkit.Deps, o Options) (domain.Scheduler, error) {
	var st domain.Store = repo.NewMemory()
	if o.Backend == "pg" {
		if deps.PG == nil {
			return nil, perr.InvalidArgf("reminders: pg backend needs SERVICE_PGSQL_ENABLED")
		}
		pg := repo.NewPG(deps.PG)
		if o.Migrate {
			if err := pg.EnsureSchema(ctx); err != nil {
				return nil, err
			}
		}
		st = pg
	}
	return service.New(st, service.Config{Hour: o.Hour, Lead: o.Lead}), nil
}
