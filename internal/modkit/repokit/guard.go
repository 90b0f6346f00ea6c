package repokit

import (
	"context"
	"fmt"
	"time"
)

// Pinger is anything that answers a liveness probe
type Pinger interface {
	Ping(context.Context) error
}

// Ping probes p with a 5s default deadline; a nil p is reported, not pinged
func Ping(ctx context.Context, name string, p Pinger) error {
	if p == nil {
		return fmt.Errorf("%s: not configured", name)
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}
	if err := p.Ping(ctx); err != nil {
		return fmt.Errorf("%s ping failed: %w", name, err)
	}
	return nil
}

// MustGuard panics when guard fails, for process startup
func MustGuard(ctx context.Context, guard func(context.Context) error) {
	if err := guard(ctx); err != nil {
		panic(fmt.Errorf("dependency guard failed: %w", err))
	}
}
