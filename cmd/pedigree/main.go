// Package main provides the entry point for the pedigree lookup CLI tool.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/keiba-features/internal/config"
	"github.com/yourusername/keiba-features/internal/database"
	"github.com/yourusername/keiba-features/internal/features"
	"github.com/yourusername/keiba-features/internal/logger"
	"github.com/yourusername/keiba-features/internal/repository"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		horseID    = flag.String("horse-id", "", "Registration number of the horse")
		depth      = flag.Int("depth", 0, "Generations of ancestry (0 uses the configured default)")
	)
	flag.Parse()

	if *horseID == "" {
		fmt.Fprintln(os.Stderr, "Usage: pedigree --horse-id <registration number> [--depth N]")
		os.Exit(2)
	}

	appLog := logrus.New()
	appLog.SetLevel(logrus.WarnLevel)

	cfg := loadConfigWithSecrets(*configPath, appLog)
	appLog = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)

	maxDepth := *depth
	if maxDepth == 0 {
		maxDepth = cfg.Features.MaxPedigreeDepth
	}

	ctx := context.Background()

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize repositories")
	}

	builder := features.NewTreeBuilder(repos.Horses, appLog)
	tree := builder.BuildTree(ctx, *horseID, maxDepth)
	if tree == nil {
		appLog.WithField("horse_id", *horseID).Fatal("No pedigree found for horse")
	}

	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		appLog.WithError(err).Fatal("Failed to marshal pedigree tree")
	}
	fmt.Println(string(data))
}

func loadConfigWithSecrets(path string, appLog *logrus.Logger) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		appLog.Fatalf("Failed to load config: %v", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			appLog.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			appLog.Fatalf("Failed to load secrets: %v", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		appLog.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}
