// @title         capturebox API
// @version       0.1.0
// @description   Capture, classify and route notes into markdown trackers

package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"capturebox/internal/app"
	"capturebox/internal/modkit/repokit"
	"capturebox/internal/platform/config"
	"capturebox/internal/platform/logger"
	phttp "capturebox/internal/platform/net/http"

	"capturebox/internal/services/api"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := config.New()
	apiCfg := root.Prefix("CORE_API_") // HTTP settings live under CORE_API_*

	// bring up logging early
	logger.Init(logger.FromEnv())
	l := logger.Get()

	// storage, trackers, classifier, review queue and capture pipeline
	a, err := app.New(ctx, root)
	if err != nil {
		l.Fatal().Err(err).Msg("app.New failed")
	}
	defer func() {
		if err := a.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close app")
		}
	}()

	// fail fast when an enabled backend does not answer
	repokit.MustGuard(ctx, a.Store.Guard)

	// http server (reads CORE_API_PORT and timeouts)
	srv := phttp.NewServer(apiCfg)

	api.Mount(
		srv.Router(),
		api.Options{
			Config:         apiCfg,
			App:            a,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
		},
	)

	if err := srv.Run(ctx, apiCfg.MayDuration("SHUTDOWN_GRACE", 10*time.Second)); err != nil {
		l.Error().Err(err).Msg("http server stopped")
	}
}
