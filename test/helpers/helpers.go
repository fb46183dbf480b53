// Package helpers provides shared scaffolding for tests that run against a
// real PostgreSQL instance loaded with the JV-Data schema.
package helpers

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yourusername/keiba-features/internal/config"
	"github.com/yourusername/keiba-features/internal/database"
)

// SetupTestDB connects to the test database and creates the JV-Data tables
// the repositories read from.
func SetupTestDB(t *testing.T) *database.DB {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Host:           envOr("TEST_DB_HOST", "localhost"),
		Port:           envIntOr("TEST_DB_PORT", 5432),
		Name:           envOr("TEST_DB_NAME", "jvd_test"),
		User:           envOr("TEST_DB_USER", "test"),
		Password:       envOr("TEST_DB_PASSWORD", "test"),
		SSLMode:        "disable",
		MaxConnections: 5,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := database.NewDB(ctx, cfg)
	require.NoError(t, err, "failed to connect to test database")

	err = createSchema(ctx, db)
	require.NoError(t, err, "failed to create test schema")

	return db
}

// TeardownTestDB truncates the JV-Data tables and closes the connection.
func TeardownTestDB(t *testing.T, db *database.DB) {
	t.Helper()

	ctx := context.Background()
	for _, table := range []string{"jvd_se", "jvd_ra", "jvd_um"} {
		if _, err := db.GetPool().Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s", table)); err != nil {
			t.Logf("Warning: failed to truncate table %s: %v", table, err)
		}
	}

	db.Close()
}

func createSchema(ctx context.Context, db *database.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS jvd_ra (
			kaisai_nen TEXT NOT NULL,
			kaisai_tsukihi TEXT NOT NULL,
			keibajo_code TEXT NOT NULL,
			race_bango TEXT NOT NULL,
			track_code TEXT NOT NULL,
			babajotai_code_shiba TEXT,
			babajotai_code_dirt TEXT,
			kyori TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS jvd_se (
			kaisai_nen TEXT NOT NULL,
			kaisai_tsukihi TEXT NOT NULL,
			keibajo_code TEXT NOT NULL,
			race_bango TEXT NOT NULL,
			ketto_toroku_bango TEXT NOT NULL,
			kishu_code TEXT NOT NULL,
			kishumei_ryakusho TEXT NOT NULL,
			kakutei_chakujun TEXT NOT NULL,
			tansho_odds TEXT,
			tansho_ninkijun TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS jvd_um (
			ketto_toroku_bango TEXT PRIMARY KEY,
			bamei TEXT NOT NULL,
			ketto_joho_01a TEXT NOT NULL,
			ketto_joho_01b TEXT NOT NULL,
			ketto_joho_02a TEXT NOT NULL,
			ketto_joho_02b TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.GetPool().Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// RaceSeed describes one race card for seeding.
type RaceSeed struct {
	Year       string
	MonthDay   string
	CourseCode string
	RaceNumber string
	TrackCode  string
	TurfGoing  string
	DirtGoing  string
	Distance   string
}

// ResultSeed describes one runner's result for seeding.
type ResultSeed struct {
	Race       RaceSeed
	HorseID    string
	JockeyID   string
	JockeyName string
	Finish     string
	OddsTenths string
	Popularity string
}

// HorseSeed describes one horse registry record for seeding.
type HorseSeed struct {
	ID       string
	Name     string
	SireID   string
	SireName string
	DamID    string
	DamName  string
}

// SeedRace inserts a race card row.
func SeedRace(t *testing.T, db *database.DB, race RaceSeed) {
	t.Helper()

	_, err := db.GetPool().Exec(context.Background(), `
		INSERT INTO jvd_ra (kaisai_nen, kaisai_tsukihi, keibajo_code, race_bango,
			track_code, babajotai_code_shiba, babajotai_code_dirt, kyori)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		race.Year, race.MonthDay, race.CourseCode, race.RaceNumber,
		race.TrackCode, race.TurfGoing, race.DirtGoing, race.Distance)
	require.NoError(t, err, "failed to seed race")
}

// SeedResult inserts a runner's result row.
func SeedResult(t *testing.T, db *database.DB, result ResultSeed) {
	t.Helper()

	_, err := db.GetPool().Exec(context.Background(), `
		INSERT INTO jvd_se (kaisai_nen, kaisai_tsukihi, keibajo_code, race_bango,
			ketto_toroku_bango, kishu_code, kishumei_ryakusho, kakutei_chakujun,
			tansho_odds, tansho_ninkijun)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		result.Race.Year, result.Race.MonthDay, result.Race.CourseCode, result.Race.RaceNumber,
		result.HorseID, result.JockeyID, result.JockeyName, result.Finish,
		nullable(result.OddsTenths), nullable(result.Popularity))
	require.NoError(t, err, "failed to seed result")
}

// SeedHorse inserts a horse registry row.
func SeedHorse(t *testing.T, db *database.DB, horse HorseSeed) {
	t.Helper()

	_, err := db.GetPool().Exec(context.Background(), `
		INSERT INTO jvd_um (ketto_toroku_bango, bamei, ketto_joho_01a,
			ketto_joho_01b, ketto_joho_02a, ketto_joho_02b)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (ketto_toroku_bango) DO NOTHING`,
		horse.ID, horse.Name, horse.SireID, horse.SireName, horse.DamID, horse.DamName)
	require.NoError(t, err, "failed to seed horse")
}

func nullable(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
