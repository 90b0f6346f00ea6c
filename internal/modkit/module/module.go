// Package module defines the contract a service module satisfies
package module

import (
	"capturebox/internal/modkit/swaggerkit"
	phttp "capturebox/internal/platform/net/http"
)

// Module mounts routes and exposes ports for cross wiring
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}

// Documented is implemented by modules that describe their routes
type Documented interface {
	Docs() []swaggerkit.Route
}

// DocsOf collects route descriptions from every documented module
func DocsOf(mods ...Module) []swaggerkit.Route {
	var out []swaggerkit.Route
	for _, m := range mods {
		if d, ok := m.(Documented); ok {
			out = append(out, d.Docs()...)
		}
	}
	return out
}
