// Package module wires the history recorder from config
package module

import (
	"context"
	"time"

	"capturebox/internal/modkit"
	"capturebox/internal/platform/config"
	"capturebox/internal/services/history/domain"
	"capturebox/internal/services/history/repo"
	"capturebox/internal/services/history/service"
)

// Options configures history
type Options struct {
	Migrate bool
	Timeout time.Duration
}

// FromConfig reads CORE_HISTORY_*
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CORE_HISTORY_")
	return Options{
		Migrate: c.MayBool("MIGRATE", true),
		Timeout: c.MayDuration("TIMEOUT", 2*time.Second),
	}
}

// New returns the ClickHouse recorder, or a no-op one when ClickHouse is off
func New(ctx context.Context, deps modkit.Deps, o Options) (domain.Recorder, error) {
	if deps.CH == nil {
		return service.New(repo.Noop{}, o.Timeout), nil
	}
	ch := repo.NewCH(deps.CH)
	if o.Migrate {
		if err := ch.EnsureSchema(ctx); err != nil {
			return nil, err
		}
	}
	return service.New(ch, o.Timeout), nil
}
