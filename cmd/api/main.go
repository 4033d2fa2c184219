package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/sync/errgroup"

	"scheduling-assistant/config"
	_ "scheduling-assistant/docs" // Swagger docs
	"scheduling-assistant/internal/calendarsync"
	"scheduling-assistant/internal/conversation"
	"scheduling-assistant/internal/httpserver"
	"scheduling-assistant/internal/middleware"
	"scheduling-assistant/internal/scheduler"
	"scheduling-assistant/internal/task/repository/sqlite"
	"scheduling-assistant/pkg/datemath"
	"scheduling-assistant/pkg/gcalendar"
	"scheduling-assistant/pkg/log"
)

// @title       Scheduling Assistant API
// @description Conversational scheduling engine: structured intents in, conflict-checked task changes out.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		os.Exit(1)
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting scheduling assistant...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Task store
	if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o755); err != nil {
		logger.Errorf(ctx, "Failed to create store directory: %v", err)
		os.Exit(1)
	}
	db, err := sqlite.Open(cfg.Store.Path)
	if err != nil {
		logger.Errorf(ctx, "Failed to open task store: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	repo, err := sqlite.New(logger, db)
	if err != nil {
		logger.Errorf(ctx, "Failed to migrate task store: %v", err)
		os.Exit(1)
	}
	logger.Infof(ctx, "Task store: %s", cfg.Store.Path)

	// 4. Engine dependencies
	dateMathParser, err := datemath.NewParser(cfg.Scheduler.Timezone)
	if err != nil {
		logger.Errorf(ctx, "Invalid timezone %q: %v", cfg.Scheduler.Timezone, err)
		os.Exit(1)
	}
	sessions := conversation.NewSessions(cfg.Scheduler.MaxSessions, cfg.Scheduler.SessionTTL, cfg.Scheduler.ContextTurns)

	// 5. Google Calendar mirror (optional)
	var (
		mirror  scheduler.Mirror
		calSync *calendarsync.Mirror
	)
	if cfg.GoogleCalendar.Enabled() {
		calSync, err = newCalendarMirror(ctx, logger, cfg)
		if err != nil {
			logger.Warnf(ctx, "Google Calendar not available (optional): %v", err)
			logger.Warn(ctx, "Run `schedctl calendar auth` to generate a token")
		} else {
			mirror = calSync
			logger.Infof(ctx, "Google Calendar mirror enabled for %q", cfg.GoogleCalendar.CalendarID)
		}
	}

	// 6. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:      logger,
		Port:        cfg.HTTPServer.Port,
		Mode:        cfg.HTTPServer.Mode,
		Environment: cfg.Environment.Name,
		Middleware: middleware.Config{
			RateLimitPerMin: cfg.RateLimit.PerMin,
			MaxClients:      cfg.RateLimit.MaxClients,
		},
		Repository:   repo,
		DateMath:     dateMathParser,
		Sessions:     sessions,
		Mirror:       mirror,
		MaxBulkCount: cfg.Scheduler.MaxBulkCount,
	})
	if err != nil {
		logger.Errorf(ctx, "Failed to initialize HTTP server: %v", err)
		os.Exit(1)
	}

	// 7. Run
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpServer.Run(gctx)
	})
	if err := g.Wait(); err != nil {
		logger.Errorf(ctx, "Server stopped with error: %v", err)
	}

	if calSync != nil {
		logger.Info(ctx, "Waiting for calendar mirror to drain...")
		calSync.Wait()
	}
	logger.Info(ctx, "Server stopped gracefully")
}

func newCalendarMirror(ctx context.Context, logger log.Logger, cfg *config.Config) (*calendarsync.Mirror, error) {
	client, err := gcalendar.NewClientFromCredentialsFile(ctx, cfg.GoogleCalendar.CredentialsPath, cfg.GoogleCalendar.TokenPath)
	if err != nil {
		return nil, err
	}
	return calendarsync.New(logger, client.WithCalendar(cfg.GoogleCalendar.CalendarID), calendarsync.Options{
		Timezone: cfg.Scheduler.Timezone,
		Timeout:  cfg.GoogleCalendar.Timeout,
	})
}
