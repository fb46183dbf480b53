// Package main provides the entry point for the feature export CLI tool.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/keiba-features/internal/config"
	"github.com/yourusername/keiba-features/internal/database"
	"github.com/yourusername/keiba-features/internal/features"
	"github.com/yourusername/keiba-features/internal/logger"
	"github.com/yourusername/keiba-features/internal/models"
	"github.com/yourusername/keiba-features/internal/repository"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	entityType string
	rollupName string
	sinceYear  int
	minRaces   int
	outputPath string

	appLog  *logrus.Logger
	cfg     *config.Config
	db      *database.DB
	sires   *features.SireFeatures
	jockeys *features.JockeyFeatures
)

// snapshot is the JSON envelope written for each export run.
type snapshot struct {
	RunID       string                 `json:"run_id"`
	Version     string                 `json:"version"`
	GeneratedAt time.Time              `json:"generated_at"`
	Entity      string                 `json:"entity"`
	Rollup      string                 `json:"rollup"`
	SinceYear   int                    `json:"since_year"`
	MinRaces    int                    `json:"min_races"`
	Groups      []models.AggregateStat `json:"groups"`
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVar(&entityType, "entity", "jockey", "Entity axis: sire or jockey")
	rootCmd.Flags().StringVar(&rollupName, "rollup", "surface_going", "Rollup: surface_going, course or popularity")
	rootCmd.Flags().IntVar(&sinceYear, "since-year", 0, "First season included (0 uses the configured default)")
	rootCmd.Flags().IntVar(&minRaces, "min-races", 0, "Minimum sample size per group (0 uses the configured default)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "./output/features.json", "Output path for the snapshot")
}

var rootCmd = &cobra.Command{
	Use:   "feature-export",
	Short: "Export population feature rollups as JSON snapshots",
	Long:  `Computes sire or jockey performance rollups over the results database and writes them to a JSON snapshot file.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(cmd.Context()); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		defer db.Close()
		return runExport(cmd.Context())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("feature-export %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
}

func main() {
	rootCmd.AddCommand(versionCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	if sinceYear == 0 {
		sinceYear = cfg.Features.SinceYear
	}
	if minRaces == 0 {
		minRaces = cfg.Features.MinRaces
	}
	return nil
}

func setupDependencies(ctx context.Context) error {
	appLog = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)

	var err error
	db, err = database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repos, err := repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	cache := features.NewRollupCache(cfg.Features.CacheTTL())
	sires = features.NewSireFeatures(repos, cache, cfg.Features.MinRaces, appLog)
	jockeys = features.NewJockeyFeatures(repos, cache, cfg.Features.MinRaces, appLog)

	return nil
}

func runExport(ctx context.Context) error {
	groups, err := computeRollup(ctx)
	if err != nil {
		return err
	}

	snap := snapshot{
		RunID:       uuid.New().String(),
		Version:     Version,
		GeneratedAt: time.Now().UTC(),
		Entity:      entityType,
		Rollup:      rollupName,
		SinceYear:   sinceYear,
		MinRaces:    minRaces,
		Groups:      groups,
	}

	if err := writeSnapshot(snap); err != nil {
		return err
	}

	appLog.WithFields(logrus.Fields{
		"run_id": snap.RunID,
		"groups": len(groups),
		"output": outputPath,
	}).Info("Feature snapshot written")
	return nil
}

func computeRollup(ctx context.Context) ([]models.AggregateStat, error) {
	switch entityType {
	case "sire":
		if rollupName != "surface_going" {
			return nil, fmt.Errorf("unsupported sire rollup %q (only surface_going)", rollupName)
		}
		return sires.SurfaceGoingROI(ctx, sinceYear, minRaces), nil
	case "jockey":
		switch rollupName {
		case "surface_going":
			return jockeys.SurfaceGoingROI(ctx, sinceYear, minRaces), nil
		case "course":
			return jockeys.CourseROI(ctx, sinceYear, minRaces), nil
		case "popularity":
			return jockeys.PopularityROI(ctx, sinceYear, minRaces), nil
		default:
			return nil, fmt.Errorf("unsupported jockey rollup %q", rollupName)
		}
	default:
		return nil, fmt.Errorf("unsupported entity %q (use sire or jockey)", entityType)
	}
}

func writeSnapshot(snap snapshot) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}
