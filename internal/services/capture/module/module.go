// Package module wires the capture pipeline and its routes
package module

import (
	"capturebox/internal/modkit"
	"capturebox/internal/modkit/httpkit"
	"capturebox/internal/modkit/swaggerkit"
	capturehttp "capturebox/internal/services/capture/http"
	"capturebox/internal/services/capture/service"
)

// Module implements modkit.Module
type Module struct {
	b   modkit.Built
	svc *service.Service
}

// New builds the capture module over d
func New(d service.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("capture"),
		modkit.WithPrefix("/capture"),
		modkit.WithDocs(
			swaggerkit.Route{Method: "POST", Path: "/capture", Tag: "Capture", Summary: "Capture one input", Body: true},
			swaggerkit.Route{Method: "POST", Path: "/capture/batch", Tag: "Capture", Summary: "Capture several inputs in order", Body: true},
			swaggerkit.Route{Method: "GET", Path: "/capture/status", Tag: "Capture", Summary: "Tracker counts and review backlog"},
			swaggerkit.Route{Method: "POST", Path: "/capture/refresh", Tag: "Capture", Summary: "Reload trackers"},
		),
	}, opts...)...)
	return &Module{b: b, svc: service.New(d)}
}

// Service returns the capture service
func (m *Module) Service() *service.Service { return m.svc }

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { capturehttp.Register(rr, m.svc) })
}

// Name implements modkit.Module
func (m *Module) Name() string { return m.b.Name }

// Ports implements modkit.Module
func (m *Module) Ports() any { return nil }

// Docs implements module.Documented
func (m *Module) Docs() []swaggerkit.Route { return m.b.Docs }
