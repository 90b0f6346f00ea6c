// Package api provides the HTTP API for the application
package api

import (
	"time"

	"capturebox/internal/app"
	"capturebox/internal/core/version"
	"capturebox/internal/platform/config"
	phttp "capturebox/internal/platform/net/http"
	"capturebox/internal/platform/net/middleware"

	"capturebox/internal/modkit"
	"capturebox/internal/modkit/httpkit"
	"capturebox/internal/modkit/module"
	"capturebox/internal/modkit/swaggerkit"

	metamod "capturebox/internal/services/api/meta/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	App            *app.App
	EnableSwagger  bool
	EnableProfiler bool
}

// StackFromConfig reads the versioned scope middleware settings from
// CORE_API_*
func StackFromConfig(cfg config.Conf) httpkit.StackOptions {
	return httpkit.StackOptions{
		Timeout:     cfg.MayDuration("TIMEOUT", 30*time.Second),
		MaxInFlight: cfg.MayInt("MAX_IN_FLIGHT", 0),
		CORS: middleware.CORSOptions{
			AllowedOrigins: cfg.MayCSV("CORS_ORIGINS", []string{"*"}),
			MaxAge:         300,
		},
	}
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) []module.Module {
	a := opt.App
	deps := modkit.Deps{Cfg: opt.Config}.FromStore(a.Store)

	r.Use(middleware.Defaults(opt.Config.MayDuration("SLOW", time.Second))...)

	mods := append([]module.Module{
		metamod.New(deps, func() int { return len(a.Trackers.Service().List()) }),
	}, a.Modules()...)

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(StackFromConfig(opt.Config)), func(api httpkit.Router) {
		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its prefix
			m.MountRoutes(api)
		}
	})

	swaggerkit.Mount(r, opt.EnableSwagger, swaggerkit.Info{
		Title:   "capturebox",
		Version: version.Info().Version,
		BaseURL: "/api/v1",
	}, module.DocsOf(mods...))
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	return mods
}
