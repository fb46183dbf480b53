//go:build integration

package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/keiba-features/internal/models"
	"github.com/yourusername/keiba-features/internal/repository"
	"github.com/yourusername/keiba-features/test/helpers"
)

const skipIntegration = "Skipping integration test in short mode"

// TestRaceRowRepositoryIntegration exercises the row eligibility filters
// against a real PostgreSQL instance.
func TestRaceRowRepositoryIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip(skipIntegration)
	}

	ctx := context.Background()
	db := helpers.SetupTestDB(t)
	defer helpers.TeardownTestDB(t, db)

	tokyoTurf := helpers.RaceSeed{
		Year: "2023", MonthDay: "0528", CourseCode: "05", RaceNumber: "11",
		TrackCode: "10", TurfGoing: "1", Distance: "1600",
	}
	oldRace := helpers.RaceSeed{
		Year: "1998", MonthDay: "0601", CourseCode: "05", RaceNumber: "10",
		TrackCode: "10", TurfGoing: "2", Distance: "2000",
	}
	helpers.SeedRace(t, db, tokyoTurf)
	helpers.SeedRace(t, db, oldRace)

	helpers.SeedHorse(t, db, helpers.HorseSeed{
		ID: "2020100001", Name: "Test Runner",
		SireID: "2010100001", SireName: "Test Sire",
		DamID: "2012100002", DamName: "Test Dam",
	})
	helpers.SeedHorse(t, db, helpers.HorseSeed{
		ID: "2020100002", Name: "Orphan Runner",
		SireID: "0000000000", SireName: "",
		DamID: "0000000000", DamName: "",
	})

	// Qualifying win for J01.
	helpers.SeedResult(t, db, helpers.ResultSeed{
		Race: tokyoTurf, HorseID: "2020100001",
		JockeyID: "J01", JockeyName: "Lead Rider",
		Finish: "01", OddsTenths: "30", Popularity: "2",
	})
	// Disqualified ride is filtered out in SQL.
	helpers.SeedResult(t, db, helpers.ResultSeed{
		Race: tokyoTurf, HorseID: "2020100002",
		JockeyID: "J01", JockeyName: "Lead Rider",
		Finish: "99", OddsTenths: "152", Popularity: "8",
	})
	// Missing odds is filtered out in SQL.
	helpers.SeedResult(t, db, helpers.ResultSeed{
		Race: tokyoTurf, HorseID: "2020100002",
		JockeyID: "J02", JockeyName: "Other Rider",
		Finish: "04", Popularity: "5",
	})
	// Pre-cutoff season for the since-year filter.
	helpers.SeedResult(t, db, helpers.ResultSeed{
		Race: oldRace, HorseID: "2020100001",
		JockeyID: "J01", JockeyName: "Lead Rider",
		Finish: "02", OddsTenths: "48", Popularity: "3",
	})

	repos, err := repository.NewRepositories(db)
	require.NoError(t, err)

	t.Run("ListJockeyRows", func(t *testing.T) {
		rows, err := repos.RaceRows.ListJockeyRows(ctx, repository.RowFilter{EntityID: "J01"})
		require.NoError(t, err)
		require.Len(t, rows, 2)

		since, err := repos.RaceRows.ListJockeyRows(ctx, repository.RowFilter{EntityID: "J01", SinceYear: 2000})
		require.NoError(t, err)
		require.Len(t, since, 1)

		row := since[0]
		assert.Equal(t, "J01", row.EntityID)
		assert.Equal(t, "Lead Rider", row.EntityName)
		assert.Equal(t, "05", row.CourseCode)
		assert.Equal(t, "10", row.TrackCode)
		assert.Equal(t, 1600, row.Distance)
		assert.Equal(t, 2023, row.Year)
		assert.Equal(t, "01", row.FinishPos)
		require.NotNil(t, row.WinOddsTenths)
		assert.Equal(t, int64(30), *row.WinOddsTenths)
		require.NotNil(t, row.Popularity)
		assert.Equal(t, 2, *row.Popularity)
	})

	t.Run("ListSireRows", func(t *testing.T) {
		rows, err := repos.RaceRows.ListSireRows(ctx, repository.RowFilter{SinceYear: 2000})
		require.NoError(t, err)
		// Only the runner with a known sire qualifies.
		require.Len(t, rows, 1)
		assert.Equal(t, "2010100001", rows[0].EntityID)
		assert.Equal(t, "Test Sire", rows[0].EntityName)
	})

	t.Run("GetHorseByID", func(t *testing.T) {
		horse, err := repos.Horses.GetByID(ctx, "2020100001")
		require.NoError(t, err)
		assert.Equal(t, "Test Runner", horse.Name)
		assert.Equal(t, "2010100001", horse.SireID)
		assert.True(t, horse.HasKnownSire())

		orphan, err := repos.Horses.GetByID(ctx, "2020100002")
		require.NoError(t, err)
		assert.False(t, orphan.HasKnownSire())

		_, err = repos.Horses.GetByID(ctx, "9999999999")
		assert.ErrorIs(t, err, models.ErrHorseNotFound)
	})
}
