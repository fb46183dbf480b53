// Package main provides the entry point for the feature service.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/keiba-features/internal/config"
	"github.com/yourusername/keiba-features/internal/database"
	"github.com/yourusername/keiba-features/internal/features"
	"github.com/yourusername/keiba-features/internal/health"
	"github.com/yourusername/keiba-features/internal/logger"
	"github.com/yourusername/keiba-features/internal/metrics"
	"github.com/yourusername/keiba-features/internal/repository"
	"github.com/yourusername/keiba-features/internal/scheduler"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
	}).Info("Keiba feature service starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	appLog.Info("Database connection established")

	repos, err := repository.NewRepositories(db)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize repositories")
	}

	metrics.InitRegistry()

	cache := features.NewRollupCache(cfg.Features.CacheTTL())
	sires := features.NewSireFeatures(repos, cache, cfg.Features.MinRaces, appLog)
	jockeys := features.NewJockeyFeatures(repos, cache, cfg.Features.MinRaces, appLog)

	healthCfg := health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Port:        cfg.Metrics.Port,
		Logger:      appLog,
		DB:          db,
	}
	if cfg.Metrics.Enabled {
		healthCfg.MetricsPath = cfg.Metrics.Path
		healthCfg.Metrics = metrics.Handler()
	}
	healthServer := health.NewServer(healthCfg)
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}

	sched := scheduler.NewScheduler(sires, jockeys, cfg.Features.SinceYear, cfg.Features.MinRaces, appLog)
	if cfg.Scheduler.Enabled {
		if err := sched.ScheduleRollupRefresh(cfg.Scheduler.RollupRefresh); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule rollup refresh")
		}
		if err := sched.Start(); err != nil {
			appLog.WithError(err).Fatal("Failed to start scheduler")
		}
		appLog.WithField("next_run", sched.GetNextRun()).Info("Rollup scheduler started")
	} else {
		appLog.Info("Rollup scheduler disabled")
	}

	// Prime the cache so the first resolver calls are cheap; readiness
	// flips once the initial warm-up completes.
	go func() {
		sched.WarmRollups(ctx)
		healthServer.SetReady(true)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	cancel()

	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Error during scheduler shutdown")
	}
	if err := healthServer.Shutdown(); err != nil {
		appLog.WithError(err).Error("Error during health server shutdown")
	}

	appLog.Info("Keiba feature service shut down successfully")
}
