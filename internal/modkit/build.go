package modkit

import (
	"net/http"

	"capturebox/internal/modkit/httpkit"
	"capturebox/internal/modkit/swaggerkit"
)

// Built is the resolved option set a module reads in its constructor
type Built struct {
	Name      string
	Prefix    string
	Mw        []func(http.Handler) http.Handler
	Ports     any
	Docs      []swaggerkit.Route
	Subrouter func(httpkit.Router) httpkit.Router
	Register  func(httpkit.Router)
}

// Build applies opts in order. Hooks default to identity and no-op.
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	if c.subrouter == nil {
		c.subrouter = func(r httpkit.Router) httpkit.Router { return r }
	}
	if c.register == nil {
		c.register = func(httpkit.Router) {}
	}
	return Built{
		Name:      c.name,
		Prefix:    c.prefix,
		Mw:        append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:     c.ports,
		Docs:      append([]swaggerkit.Route(nil), c.docs...),
		Subrouter: c.subrouter,
		Register:  c.register,
	}
}

// Mount is the MountRoutes body shared by service modules
func (b Built) Mount(r httpkit.Router, routes func(httpkit.Router)) {
	httpkit.MountUnder(r, b.Prefix, b.Mw, func(rr httpkit.Router) {
		rr = b.Subrouter(rr)
		if routes != nil {
			routes(rr)
		}
		b.Register(rr)
	})
}
