package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/straja-ai/resocheck/internal/server"
	"github.com/straja-ai/resocheck/internal/telemetry"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the check page and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			tel, err := telemetry.NewProvider(ctx, telemetry.Config{
				Enabled:  a.cfg.Telemetry.Enabled,
				Endpoint: a.cfg.Telemetry.Endpoint,
				Protocol: a.cfg.Telemetry.Protocol,
				Service:  a.cfg.Telemetry.Service,
				Version:  version,
			}, a.logger)
			if err != nil {
				return err
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				tel.Shutdown(shutdownCtx)
			}()

			a.logger.Info("starting resocheck",
				zap.String("version", version),
				zap.String("addr", a.cfg.Server.Addr),
				zap.String("public_base_url", a.cfg.Server.PublicBaseURL))

			return server.New(a.cfg, a.logger, tel).Start(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides config)")
	return cmd
}
