// Package module wires the review queue store, service and routes
package module

import (
	"context"

	"capturebox/internal/modkit"
	"capturebox/internal/modkit/httpkit"
	"capturebox/internal/modkit/swaggerkit"
	perr "capturebox/internal/platform/errors"
	"capturebox/internal/services/review/domain"
	reviewhttp "capturebox/internal/services/review/http"
	"capturebox/internal/services/review/repo"
	"capturebox/internal/services/review/service"
	trackers "capturebox/internal/services/trackers/domain"
)

// Ports exposed by the review module
type Ports struct {
	Queue domain.QueuePort
}

// Module implements modkit.Module
type Module struct {
	b   modkit.Built
	svc *service.Service
}

// NewStore opens the configured review store
func NewStore(ctx context.Context, deps modkit.Deps, o Options) (domain.Store, error) {
	if o.Backend != "pg" {
		return repo.NewMemory(), nil
	}
	if deps.PG == nil {
		return nil, perr.InvalidArgf("review: pg backend needs SERVICE_PGSQL_ENABLED")
	}
	s := repo.NewPGStore(deps.PG)
	if o.Migrate {
		if err := s.EnsureSchema(ctx); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// New builds the review module. A nil store means open one from o.
func New(ctx context.Context, deps modkit.Deps, o Options, st domain.Store, commit trackers.CommitPort, opts ...modkit.Option) (*Module, error) {
	if st == nil {
		var err error
		if st, err = NewStore(ctx, deps, o); err != nil {
			return nil, err
		}
	}
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("review"),
		modkit.WithPrefix("/review"),
		modkit.WithDocs(
			swaggerkit.Route{Method: "GET", Path: "/review", Tag: "Review", Summary: "List items needing review", Query: []string{"tracker"}},
			swaggerkit.Route{Method: "POST", Path: "/review", Tag: "Review", Summary: "Queue an item for review", Body: true},
			swaggerkit.Route{Method: "POST", Path: "/review/{id}/actions", Tag: "Review", Summary: "Apply a review action", Body: true},
			swaggerkit.Route{Method: "POST", Path: "/review/batch", Tag: "Review", Summary: "Apply several review actions", Body: true},
			swaggerkit.Route{Method: "PATCH", Path: "/review/{id}/status", Tag: "Review", Summary: "Advance an item's status", Body: true},
			swaggerkit.Route{Method: "DELETE", Path: "/review/confirmed", Tag: "Review", Summary: "Purge confirmed items"},
		),
	}, opts...)...)
	return &Module{b: b, svc: service.New(st, commit)}, nil
}

// Service returns the review service
func (m *Module) Service() *service.Service { return m.svc }

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { reviewhttp.Register(rr, m.svc) })
}

// Name implements modkit.Module
func (m *Module) Name() string { return m.b.Name }

// Ports implements modkit.Module
func (m *Module) Ports() any { return Ports{Queue: m.svc} }

// Docs implements module.Documented
func (m *Module) Docs() []swaggerkit.Route { return m.b.Docs }
