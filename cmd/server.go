package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/vzahanych/weather-dashboard/internal/cache"
	"github.com/vzahanych/weather-dashboard/internal/config"
	"github.com/vzahanych/weather-dashboard/internal/dashboard"
	"github.com/vzahanych/weather-dashboard/internal/server"
	"github.com/vzahanych/weather-dashboard/internal/service"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

func serverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Start the weather dashboard server",
		Long:  `Start the HTTP server that exposes the dashboard state, the archive pass-through and health/metrics endpoints.`,
		RunE:  runServer,
	}
}

func newFetcher(cfg *config.Config) *dashboard.Fetcher {
	archive := service.NewOpenMeteoArchiveService(cfg.Archive, log.Logger, tele)
	return dashboard.NewFetcher(archive, cache.New(cfg.Cache), log.Logger, tele)
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()

	log.Info("Starting weather dashboard server",
		zap.String("config_path", configPath),
		zap.String("archive_base_url", cfg.Archive.BaseURL),
		zap.Bool("telemetry_enabled", cfg.Telemetry.Enabled),
		zap.Int("server_port", cfg.Server.Port))

	fetcher := newFetcher(cfg)
	dash := dashboard.New(fetcher, cfg.Dashboard, log.Logger, tele)
	srv := server.NewServer(cfg, dash, fetcher, log.Logger, tele)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	if cfg.Dashboard.BootstrapOnStart {
		go func() {
			if _, err := dash.Bootstrap(cmd.Context()); err != nil {
				log.Warn("Initial dashboard load failed", zap.Error(err))
			}
			srv.MarkReady()
		}()
	} else {
		srv.MarkReady()
	}

	select {
	case err := <-errChan:
		if err != nil {
			log.Error("Server error", zap.Error(err))
		}
		return err
	case <-cmd.Context().Done():
		log.Info("Shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Error during server shutdown", zap.Error(err))
			return err
		}

		log.Info("Server shutdown complete")
		return nil
	}
}
