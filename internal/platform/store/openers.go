package store

import (
	"context"
	"fmt"
	"time"

	chx "capturebox/internal/platform/store/ch"
	"capturebox/internal/platform/store/pg"
)

var sleep = time.Sleep

// openPG opens the pool and pings it with capped exponential backoff before
// publishing the adapter
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(s.Log)
	}

	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
		AppName:  cfg.AppName,
	}, tracer, nil)
	if err != nil {
		return nil, err
	}

	attempts := cfg.PG.ConnectRetries
	if attempts <= 0 {
		attempts = 20
	}
	timeout := cfg.PG.PingTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	if err := retry(ctx, attempts, timeout, p.Pool.Ping); err != nil {
		p.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}
	return newPGAdapter(p), nil
}

// retry calls ping until it succeeds, ctx ends or attempts run out
func retry(ctx context.Context, attempts int, timeout time.Duration, ping func(context.Context) error) error {
	const ceiling = 2 * time.Second
	backoff := 150 * time.Millisecond

	var last error
	for i := 0; i < attempts; i++ {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		last = ping(pctx)
		cancel()
		if last == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if i < attempts-1 {
			sleep(backoff)
			backoff = min(backoff*2, ceiling)
		}
	}
	return fmt.Errorf("ping failed after %d attempts: %w", attempts, last)
}

func openCH(ctx context.Context, cfg Config, s *Store) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{
		URL:        cfg.CH.URL,
		ClientName: cfg.CH.ClientName,
		ClientTag:  cfg.CH.ClientTag,
	})
	if err != nil {
		return nil, err
	}
	s.Log.Debug().Str("component", "ch").Msg("clickhouse connected")
	return newCHAdapter(c), nil
}
