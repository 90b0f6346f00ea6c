// Package module wires meta endpoints into the API
package module

import (
	"time"

	"capturebox/internal/modkit"
	"capturebox/internal/modkit/httpkit"
	"capturebox/internal/modkit/repokit"
	"capturebox/internal/modkit/swaggerkit"
	metahttp "capturebox/internal/services/api/meta/http"
)

// ServiceName is reported by /meta/health and /meta/service
const ServiceName = "capturebox-api"

// Module implements modkit.Module
type Module struct {
	b    modkit.Built
	deps metahttp.Deps
}

// New builds the meta module. trackers reports the loaded tracker count for
// the readiness probe.
func New(deps modkit.Deps, trackers func() int, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
		modkit.WithDocs(
			swaggerkit.Route{Method: "GET", Path: "/meta/health", Tag: "Meta", Summary: "Health check"},
			swaggerkit.Route{Method: "GET", Path: "/meta/ready", Tag: "Meta", Summary: "Readiness probe with dependency checks"},
			swaggerkit.Route{Method: "GET", Path: "/meta/version", Tag: "Meta", Summary: "Build and version info"},
			swaggerkit.Route{Method: "GET", Path: "/meta/service", Tag: "Meta", Summary: "Service info and uptime"},
		),
	}, opts...)...)

	d := metahttp.Deps{ServiceName: ServiceName, StartedAt: time.Now(), Trackers: trackers}
	if p, ok := deps.PG.(repokit.Pinger); ok {
		d.PG = p
	}
	if p, ok := deps.CH.(repokit.Pinger); ok {
		d.CH = p
	}
	return &Module{b: b, deps: d}
}

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { metahttp.Register(rr, m.deps) })
}

// Name implements modkit.Module
func (m *Module) Name() string { return m.b.Name }

// Ports implements modkit.Module
func (m *Module) Ports() any { return nil }

// Docs implements module.Documented
func (m *Module) Docs() []swaggerkit.Route { return m.b.Docs }
