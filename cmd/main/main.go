package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/UnknownOlympus/athena/internal/api"
	"github.com/UnknownOlympus/athena/internal/auth"
	"github.com/UnknownOlympus/athena/internal/client"
	"github.com/UnknownOlympus/athena/internal/config"
	"github.com/UnknownOlympus/athena/internal/lib/logger/sl"
	"github.com/UnknownOlympus/athena/internal/metrics"
	"github.com/UnknownOlympus/athena/internal/repository"
	"github.com/UnknownOlympus/athena/internal/server"
	"github.com/UnknownOlympus/athena/internal/services/dashboard"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	var wgr sync.WaitGroup
	delta := 2

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	logger := setupLogger(cfg.Env)

	// Create a separate registry for metrics with exemplar
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	session, err := auth.LoadSession(cfg.API.Token, cfg.API.TokenFile)
	if err != nil {
		log.Fatalf("Failed to load API token: %v", err)
	}
	if cfg.API.Token == "" {
		go reloadTokenOnHangup(ctx, logger, session, cfg.API.TokenFile)
	}

	httpClient := client.CreateHTTPClient(logger, session, cfg.API.Timeout)
	employeeAPI := api.NewClient(httpClient, appMetrics, cfg.API.BaseURL)

	var (
		pinger  server.DBPinger
		actions repository.ActionRepoIface
	)
	if cfg.Postgres.Enabled() {
		dtb, dbErr := repository.NewDatabase(ctx, cfg.Postgres)
		if dbErr != nil {
			log.Fatalf("Failed to connect to DB: %v", dbErr)
		}
		defer dtb.Close()

		pinger = dtb
		actions = repository.NewActionRepository(dtb, appMetrics)
	} else {
		logger.WarnContext(ctx, "Postgres is not configured, dashboard actions will not be recorded")
	}

	sessions := server.NewSessionStore(
		logger,
		appMetrics,
		cfg.Server.SessionTTL,
		cfg.Server.MaxSessions,
		cfg.Server.SecureCookies,
		func() *dashboard.Dashboard {
			return dashboard.NewDashboard(logger, employeeAPI, actions, appMetrics)
		},
	)
	web := server.NewDashboardServer(logger, sessions, actions, []byte(cfg.Server.CSRFKey), cfg.Server.SecureCookies)

	wgr.Add(delta)

	go func() {
		defer wgr.Done()
		server.StartMonitoringServer(ctx, logger, reg, pinger, cfg.Server.MonitoringAddress, cfg.API.BaseURL)
	}()

	go func() {
		defer wgr.Done()
		logger.InfoContext(ctx, "Starting Dashboard")
		if err := web.Start(ctx, cfg.Server.Address); err != nil {
			logger.ErrorContext(ctx, "Dashboard failed", sl.Err(err))
			stop()
		}
		logger.InfoContext(ctx, "Dashboard stopped.")
	}()

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	wgr.Wait()

	logger.InfoContext(ctx, "Application stopped gracefully...")
}

// reloadTokenOnHangup re-reads the token file whenever the process receives SIGHUP.
func reloadTokenOnHangup(ctx context.Context, logger *slog.Logger, session *auth.Session, tokenFile string) {
	hangup := make(chan os.Signal, 1)
	signal.Notify(hangup, syscall.SIGHUP)
	defer signal.Stop(hangup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hangup:
			if err := session.ReloadFile(tokenFile); err != nil {
				logger.ErrorContext(ctx, "Failed to reload API token", sl.Err(err))
				continue
			}
			logger.InfoContext(ctx, "API token reloaded")
		}
	}
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelWarn,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{Key: "", Value: slog.Value{}}
					}
					return a
				},
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelError,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{Key: "", Value: slog.Value{}}
					}
					return a
				},
			}),
		)

		log.Error(
			"The env parameter was not specified, or was invalid. Logging will be minimal, by default." +
				" Please specify the value of `env`: local, development, production")
	}

	return log
}
