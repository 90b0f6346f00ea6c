package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"capturebox/internal/app"
	"capturebox/internal/core/version"
	"capturebox/internal/platform/config"
	"capturebox/internal/platform/logger"

	"github.com/spf13/cobra"
)

// opener builds the App a command runs against
type opener func(ctx context.Context) (*app.App, error)

func main() {
	logger.Init(logger.FromEnv())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	open := func(ctx context.Context) (*app.App, error) { return app.New(ctx, config.New()) }
	if err := newRootCmd(open).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "capturebox",
		Short:         "Capture notes and route them into markdown trackers",
		Version:       version.Info().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolP("json", "j", false, "Output as JSON")

	root.AddCommand(captureCmd(open))
	root.AddCommand(batchCmd(open))
	root.AddCommand(statusCmd(open))
	root.AddCommand(reviewCmd(open))
	root.AddCommand(serveCmd(open))
	return root
}

// withApp opens the App for one command run and closes it afterwards
func withApp(cmd *cobra.Command, open opener, fn func(ctx context.Context, a *app.App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(context.Background()); err != nil {
			logger.Named("cli").Warn().Err(err).Msg("close failed")
		}
	}()
	return fn(ctx, a)
}

func jsonOut(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
