// Package module wires the tracker store, registry and routes
package module

import (
	"context"

	"capturebox/internal/modkit"
	"capturebox/internal/modkit/httpkit"
	"capturebox/internal/modkit/swaggerkit"
	perr "capturebox/internal/platform/errors"
	"capturebox/internal/platform/logger"
	"capturebox/internal/services/trackers/domain"
	trackershttp "capturebox/internal/services/trackers/http"
	"capturebox/internal/services/trackers/repo"
	"capturebox/internal/services/trackers/service"
)

// Ports exposed by the trackers module
type Ports struct {
	Commit   domain.CommitPort
	Registry domain.RegistryPort
}

// Module implements modkit.Module
type Module struct {
	b   modkit.Built
	svc *service.Service
}

// NewStore opens the configured document store
func NewStore(ctx context.Context, deps modkit.Deps, o Options) (domain.Store, error) {
	switch o.Backend {
	case "memory":
		return repo.NewMemory(), nil
	case "pg":
		if deps.PG == nil {
			return nil, perr.InvalidArgf("trackers: pg backend needs SERVICE_PGSQL_ENABLED")
		}
		s := repo.NewPGStore(deps.PG, o.LockWait)
		if o.Migrate {
			if err := s.EnsureSchema(ctx); err != nil {
				return nil, err
			}
		}
		return s, nil
	default:
		return repo.NewFS(o.Dir)
	}
}

// New opens the store from options, seeds it and loads the registry.
// A nil store means open one from o.
func New(ctx context.Context, deps modkit.Deps, o Options, st domain.Store, opts ...modkit.Option) (*Module, error) {
	if st == nil {
		var err error
		if st, err = NewStore(ctx, deps, o); err != nil {
			return nil, err
		}
	}
	svc := service.New(st)

	if o.SeedFile != "" {
		seed, err := repo.LoadSeed(o.SeedFile)
		if err != nil {
			return nil, err
		}
		n, err := svc.Seed(ctx, seed)
		if err != nil {
			return nil, err
		}
		logger.For(ctx, "trackers").Info().Int("created", n).Str("file", o.SeedFile).Msg("seeded trackers")
	}
	if err := svc.Refresh(ctx); err != nil {
		return nil, err
	}

	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("trackers"),
		modkit.WithPrefix("/trackers"),
		modkit.WithDocs(
			swaggerkit.Route{Method: "GET", Path: "/trackers", Tag: "Trackers", Summary: "List trackers"},
			swaggerkit.Route{Method: "GET", Path: "/trackers/{id}", Tag: "Trackers", Summary: "Read a tracker document"},
		),
	}, opts...)...)
	return &Module{b: b, svc: svc}, nil
}

// Service returns the tracker service
func (m *Module) Service() *service.Service { return m.svc }

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { trackershttp.Register(rr, m.svc) })
}

// Name implements modkit.Module
func (m *Module) Name() string { return m.b.Name }

// Ports implements modkit.Module
func (m *Module) Ports() any { return Ports{Commit: m.svc, Registry: m.svc} }

// Docs implements module.Documented
func (m *Module) Docs() []swaggerkit.Route { return m.b.Docs }
