package main

import (
	"context"
	"time"

	"capturebox/internal/app"
	"capturebox/internal/platform/config"
	phttp "capturebox/internal/platform/net/http"
	"capturebox/internal/services/api"

	"github.com/spf13/cobra"
)

func serveCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (CORE_API_*)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			apiCfg := config.New().Prefix("CORE_API_")
			return withApp(cmd, open, func(ctx context.Context, a *app.App) error {
				srv := phttp.NewServer(apiCfg)
				api.Mount(srv.Router(), api.Options{
					Config:         apiCfg,
					App:            a,
					EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
					EnableProfiler: apiCfg.MayBool("PROFILER", false),
				})
				return srv.Run(ctx, apiCfg.MayDuration("SHUTDOWN_GRACE", 10*time.Second))
			})
		},
	}
}
