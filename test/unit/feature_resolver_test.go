package unit

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/keiba-features/internal/category"
	"github.com/yourusername/keiba-features/internal/features"
	"github.com/yourusername/keiba-features/internal/models"
	"github.com/yourusername/keiba-features/internal/repository"
)

// fakeRaceRowRepo serves canned rows to both entity axes and counts list
// calls so cache behavior can be observed.
type fakeRaceRowRepo struct {
	rows  []*models.RaceRow
	fail  error
	calls int
}

func (f *fakeRaceRowRepo) list(filter repository.RowFilter) ([]*models.RaceRow, error) {
	f.calls++
	if f.fail != nil {
		return nil, f.fail
	}
	out := make([]*models.RaceRow, 0, len(f.rows))
	for _, row := range f.rows {
		if filter.EntityID != "" && row.EntityID != filter.EntityID {
			continue
		}
		if filter.SinceYear != 0 && row.Year < filter.SinceYear {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (f *fakeRaceRowRepo) ListSireRows(ctx context.Context, filter repository.RowFilter) ([]*models.RaceRow, error) {
	return f.list(filter)
}

func (f *fakeRaceRowRepo) ListJockeyRows(ctx context.Context, filter repository.RowFilter) ([]*models.RaceRow, error) {
	return f.list(filter)
}

type fakeHorseRepo struct {
	horses map[string]*models.Horse
	fail   error
}

func (f *fakeHorseRepo) GetByID(ctx context.Context, id string) (*models.Horse, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	horse, ok := f.horses[id]
	if !ok {
		return nil, models.ErrHorseNotFound
	}
	return horse, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newRepos(rows *fakeRaceRowRepo, horses *fakeHorseRepo) *repository.Repositories {
	if horses == nil {
		horses = &fakeHorseRepo{}
	}
	return &repository.Repositories{RaceRows: rows, Horses: horses}
}

// turfGood builds a Tokyo turf row on good going at 1600m.
func turfGood(entityID string, year int, finish string, oddsTenths int64, popularity int) *models.RaceRow {
	return &models.RaceRow{
		EntityID:      entityID,
		EntityName:    "Rider " + entityID,
		CourseCode:    "05",
		TrackCode:     "10",
		TurfGoing:     "1",
		Distance:      1600,
		Year:          year,
		FinishPos:     finish,
		WinOddsTenths: &oddsTenths,
		Popularity:    &popularity,
	}
}

// rides returns 25 races for one jockey: 10 wins at odds 3.0, 15 losses.
func rides(entityID string) []*models.RaceRow {
	rows := make([]*models.RaceRow, 0, 25)
	for i := 0; i < 10; i++ {
		rows = append(rows, turfGood(entityID, 2020, "01", 30, 2))
	}
	for i := 0; i < 15; i++ {
		rows = append(rows, turfGood(entityID, 2020, "05", 30, 2))
	}
	return rows
}

func turfGoodSegment() category.Key {
	return category.Key{Surface: category.SurfaceTurf, Going: category.GoingGood}
}

func TestJockeyResolveComputesRates(t *testing.T) {
	rowRepo := &fakeRaceRowRepo{rows: rides("J1")}
	cache := features.NewRollupCache(0)
	jockeys := features.NewJockeyFeatures(newRepos(rowRepo, nil), cache, 20, quietLogger())

	feature := jockeys.Resolve(context.Background(), "J1", turfGoodSegment())

	require.Equal(t, models.FetchOK, feature.Status)
	assert.Equal(t, "J1", feature.EntityID)
	assert.Equal(t, "Rider J1", feature.EntityName)
	assert.Equal(t, 25, feature.Stat.TotalRaces)
	assert.Equal(t, 10, feature.Stat.Wins)

	require.NotNil(t, feature.Stat.WinRate)
	assert.Equal(t, "40", feature.Stat.WinRate.String())

	// 10 wins x 3.0 on 25 unit stakes pays back 120%.
	require.NotNil(t, feature.Stat.ROIPercentage)
	assert.Equal(t, "120", feature.Stat.ROIPercentage.String())

	require.NotNil(t, feature.Stat.AvgWinOdds)
	assert.Equal(t, "3", feature.Stat.AvgWinOdds.String())

	// The only ranked jockey in the segment stands first.
	assert.Equal(t, 1, feature.Rank)

	// All rides are in the segment, so segment and overall ROI coincide.
	require.NotNil(t, feature.AptitudeIndex)
	assert.Equal(t, "1", feature.AptitudeIndex.String())
	require.NotNil(t, feature.WinRateRatio)
	assert.Equal(t, "1", feature.WinRateRatio.String())
}

func TestResolveRanksAcrossPeers(t *testing.T) {
	// J2 wins more often at the same odds, so J2 outranks J1.
	rows := rides("J1")
	for i := 0; i < 20; i++ {
		finish := "09"
		if i < 12 {
			finish = "01"
		}
		rows = append(rows, turfGood("J2", 2020, finish, 30, 2))
	}
	rowRepo := &fakeRaceRowRepo{rows: rows}
	cache := features.NewRollupCache(0)
	jockeys := features.NewJockeyFeatures(newRepos(rowRepo, nil), cache, 20, quietLogger())

	first := jockeys.Resolve(context.Background(), "J2", turfGoodSegment())
	second := jockeys.Resolve(context.Background(), "J1", turfGoodSegment())

	assert.Equal(t, 1, first.Rank)
	assert.Equal(t, 2, second.Rank)
}

func TestResolveEmptySegment(t *testing.T) {
	rowRepo := &fakeRaceRowRepo{rows: rides("J1")}
	cache := features.NewRollupCache(0)
	jockeys := features.NewJockeyFeatures(newRepos(rowRepo, nil), cache, 20, quietLogger())

	// All fixture rides are on turf.
	feature := jockeys.Resolve(context.Background(), "J1", category.Key{Surface: category.SurfaceDirt})

	assert.Equal(t, models.FetchEmpty, feature.Status)
	assert.Equal(t, 0, feature.Stat.TotalRaces)
	assert.Equal(t, 0, feature.Rank)
	assert.Nil(t, feature.AptitudeIndex)
}

func TestResolveDegradesOnDataSourceFailure(t *testing.T) {
	rowRepo := &fakeRaceRowRepo{fail: errors.New("connection refused")}
	cache := features.NewRollupCache(0)
	jockeys := features.NewJockeyFeatures(newRepos(rowRepo, nil), cache, 20, quietLogger())

	feature := jockeys.Resolve(context.Background(), "J1", turfGoodSegment())

	assert.Equal(t, models.FetchDegraded, feature.Status)
	assert.Equal(t, 0, feature.Stat.TotalRaces)
	assert.Equal(t, 0, feature.Rank)
}

func TestResolveAtCourseMapsCourseName(t *testing.T) {
	rowRepo := &fakeRaceRowRepo{rows: rides("J1")}
	cache := features.NewRollupCache(0)
	jockeys := features.NewJockeyFeatures(newRepos(rowRepo, nil), cache, 20, quietLogger())

	feature := jockeys.ResolveAtCourse(context.Background(), "J1", "Tokyo", category.SurfaceTurf, category.DistanceMid)

	require.Equal(t, models.FetchOK, feature.Status)
	assert.Equal(t, category.Track("05"), feature.Segment.Track)
	assert.Equal(t, 25, feature.Stat.TotalRaces)
}

func TestResolveForHorseFollowsSire(t *testing.T) {
	rowRepo := &fakeRaceRowRepo{rows: rides("S1")}
	horses := &fakeHorseRepo{horses: map[string]*models.Horse{
		"H1": {ID: "H1", Name: "Offspring", SireID: "S1", SireName: "Some Sire"},
	}}
	cache := features.NewRollupCache(0)
	sires := features.NewSireFeatures(newRepos(rowRepo, horses), cache, 20, quietLogger())

	feature := sires.ResolveForHorse(context.Background(), "H1", turfGoodSegment())

	require.Equal(t, models.FetchOK, feature.Status)
	assert.Equal(t, "S1", feature.EntityID)
	assert.Equal(t, 25, feature.Stat.TotalRaces)
}

func TestResolveForHorseUnknownSire(t *testing.T) {
	rowRepo := &fakeRaceRowRepo{rows: rides("S1")}
	horses := &fakeHorseRepo{horses: map[string]*models.Horse{
		"H2": {ID: "H2", Name: "Foundling", SireID: models.UnknownAncestorID},
	}}
	cache := features.NewRollupCache(0)
	sires := features.NewSireFeatures(newRepos(rowRepo, horses), cache, 20, quietLogger())

	feature := sires.ResolveForHorse(context.Background(), "H2", turfGoodSegment())
	assert.Equal(t, models.FetchEmpty, feature.Status)

	missing := sires.ResolveForHorse(context.Background(), "H9", turfGoodSegment())
	assert.Equal(t, models.FetchEmpty, missing.Status)
}

func TestResolveForHorseDegradesOnLookupFailure(t *testing.T) {
	rowRepo := &fakeRaceRowRepo{rows: rides("S1")}
	horses := &fakeHorseRepo{fail: errors.New("connection refused")}
	cache := features.NewRollupCache(0)
	sires := features.NewSireFeatures(newRepos(rowRepo, horses), cache, 20, quietLogger())

	feature := sires.ResolveForHorse(context.Background(), "H1", turfGoodSegment())
	assert.Equal(t, models.FetchDegraded, feature.Status)
}

func TestPopulationRollupIsCached(t *testing.T) {
	rowRepo := &fakeRaceRowRepo{rows: rides("J1")}
	cache := features.NewRollupCache(0)
	jockeys := features.NewJockeyFeatures(newRepos(rowRepo, nil), cache, 20, quietLogger())

	first := jockeys.SurfaceGoingROI(context.Background(), 2000, 20)
	require.Len(t, first, 1)
	callsAfterFirst := rowRepo.calls

	second := jockeys.SurfaceGoingROI(context.Background(), 2000, 20)
	require.Len(t, second, 1)
	assert.Equal(t, callsAfterFirst, rowRepo.calls, "second rollup should be served from cache")

	// Different parameters miss the cache.
	jockeys.SurfaceGoingROI(context.Background(), 2010, 20)
	assert.Greater(t, rowRepo.calls, callsAfterFirst)
}

func TestRollupDegradesToEmpty(t *testing.T) {
	rowRepo := &fakeRaceRowRepo{fail: errors.New("connection refused")}
	cache := features.NewRollupCache(0)
	jockeys := features.NewJockeyFeatures(newRepos(rowRepo, nil), cache, 20, quietLogger())

	stats := jockeys.SurfaceGoingROI(context.Background(), 2000, 20)
	assert.NotNil(t, stats)
	assert.Empty(t, stats)
}
