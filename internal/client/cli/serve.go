package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/httpapi"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/logging"
	"github.com/go-chi/httplog/v3"
	"github.com/spf13/cobra"
)

type clearFunc func(ctx context.Context) error

func (f clearFunc) Clear(ctx context.Context) error { return f(ctx) }

// ClearSettings forgets the stored credentials and drops the cached handle.
func (a *App) ClearSettings(ctx context.Context) error {
	if err := a.store.Clear(ctx); err != nil {
		return err
	}
	a.cache.Clear(ctx)
	return nil
}

func newServeCmd(s *session) *cobra.Command {
	var (
		listen  string
		origins []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the report and settings state over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := s.app
			ctx := cmd.Context()

			addr := s.config.ListenAddr
			if cmd.Flags().Changed("listen") {
				addr = listen
			}

			if err := app.settings.Load(ctx); err != nil {
				return err
			}
			if err := app.reports.CheckConfiguration(ctx); err != nil {
				app.logger.Warn(ctx, "initial load failed", "error", err)
			}

			go func() {
				if err := app.reports.WatchSettings(ctx, app.store); err != nil && !errors.Is(err, context.Canceled) {
					app.logger.Error(ctx, "settings watcher stopped", "error", err)
				}
			}()

			lvl, err := logging.ParseLevel(s.config.LogLevel)
			if err != nil {
				return err
			}
			httpLog := slog.New(logging.NewHandler(s.opts.errOut, s.config.LogFormat, &slog.HandlerOptions{
				Level:       lvl,
				ReplaceAttr: httplog.SchemaECS.Concise(true).ReplaceAttr,
			}))

			router := httpapi.NewRouter(httpapi.Deps{
				Reports:        app.reports,
				Settings:       app.settings,
				Clearer:        clearFunc(app.ClearSettings),
				Log:            httpLog,
				AllowedOrigins: origins,
			})
			return httpapi.NewServer(addr, router, app.logger).Run(ctx)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from config listen_addr)")
	cmd.Flags().StringSliceVar(&origins, "cors-origin", nil, "allowed CORS origins (default any)")
	return cmd
}
