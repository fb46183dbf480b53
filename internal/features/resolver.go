package features

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/keiba-features/internal/category"
	"github.com/yourusername/keiba-features/internal/metrics"
	"github.com/yourusername/keiba-features/internal/models"
	"github.com/yourusername/keiba-features/internal/repository"
)

// Defaults matching the historical feature pipeline.
const (
	DefaultSinceYear = 2000
	DefaultMinRaces  = 20
)

// rowLister abstracts which entity axis a generator scans.
type rowLister func(ctx context.Context, filter repository.RowFilter) ([]*models.RaceRow, error)

// generator holds the machinery shared by the sire and jockey feature
// generators: row access, rollup caching and the degrade-to-empty policy.
// Public methods never return an error for data-source failures; they log
// the cause, mark the result degraded and return zeros.
type generator struct {
	name     string
	list     rowLister
	cache    *RollupCache
	minRaces int
	log      *logrus.Logger
}

// segmentROI computes a population rollup grouped by entity plus dims,
// thresholded at minRaces. Degrades to an empty slice on fetch failure.
func (g *generator) segmentROI(ctx context.Context, operation string, dims []Dimension, sinceYear, minRaces int) []models.AggregateStat {
	start := time.Now()
	defer func() {
		metrics.RecordFeatureQuery(g.name, operation, time.Since(start).Seconds())
	}()

	key := rollupKey{
		Generator: g.name,
		Operation: operation,
		SinceYear: sinceYear,
		MinRaces:  minRaces,
		Segment:   dimsLabel(dims),
	}
	if cached := g.cache.GetStats(key); cached != nil {
		return cached
	}

	rows, err := g.list(ctx, repository.RowFilter{SinceYear: sinceYear})
	if err != nil {
		metrics.RecordFeatureQueryError(g.name, operation)
		g.log.WithError(err).WithField("operation", operation).Error("Failed to fetch population rows")
		return []models.AggregateStat{}
	}

	stats := Aggregate(rows, dims, minRaces)
	g.cache.SetStats(key, stats)
	g.log.WithFields(logrus.Fields{"operation": operation, "groups": len(stats)}).Info("Computed population rollup")
	return stats
}

// rankedPopulation builds the ranked peer populations for every segment
// sharing the key's dimension set.
func (g *generator) rankedPopulation(ctx context.Context, segment category.Key, minRaces int) ([]models.RankedStat, error) {
	dims := DimensionsOf(segment)
	key := rollupKey{
		Generator: g.name,
		Operation: "rank",
		MinRaces:  minRaces,
		Segment:   dimsLabel(dims),
	}
	if cached := g.cache.GetRanked(key); cached != nil {
		return cached, nil
	}

	rows, err := g.list(ctx, repository.RowFilter{})
	if err != nil {
		return nil, err
	}

	ranked := Rank(Aggregate(rows, dims, minRaces))
	g.cache.SetRanked(key, ranked)
	return ranked, nil
}

// resolve computes the full feature record for one entity in one segment.
func (g *generator) resolve(ctx context.Context, entityID string, segment category.Key) models.EntityFeature {
	start := time.Now()
	defer func() {
		metrics.RecordFeatureQuery(g.name, "resolve", time.Since(start).Seconds())
	}()

	feature := models.EntityFeature{
		EntityID: entityID,
		Segment:  segment,
		Status:   models.FetchEmpty,
	}

	rows, err := g.list(ctx, repository.RowFilter{EntityID: entityID})
	if err != nil {
		metrics.RecordFeatureQueryError(g.name, "resolve")
		g.log.WithError(err).WithFields(logrus.Fields{"entity_id": entityID}).Error("Failed to fetch entity rows")
		feature.Status = models.FetchDegraded
		return feature
	}
	if len(rows) > 0 {
		feature.EntityName = rows[0].EntityName
	}

	// The entity's own segment stat carries no sample threshold; the
	// threshold only gates membership in the ranking population.
	segStats := Aggregate(FilterRows(rows, segment), DimensionsOf(segment), 1)
	if len(segStats) == 0 {
		g.log.WithFields(logrus.Fields{"entity_id": entityID, "segment": segmentOrder(segment)}).
			Info("No qualifying races in segment")
		return feature
	}
	feature.Stat = segStats[0]
	feature.Status = models.FetchOK

	if overall := Aggregate(rows, nil, 1); len(overall) > 0 {
		feature.AptitudeIndex = safeRatio(feature.Stat.ROIPercentage, overall[0].ROIPercentage)
		feature.WinRateRatio = safeRatio(feature.Stat.WinRate, overall[0].WinRate)
	}

	ranked, err := g.rankedPopulation(ctx, segment, g.minRaces)
	if err != nil {
		// Rank degrades independently; the segment stat is still usable.
		metrics.RecordFeatureQueryError(g.name, "rank")
		g.log.WithError(err).WithField("entity_id", entityID).Warn("Failed to rank entity, leaving unranked")
		return feature
	}
	feature.Rank = RankOf(ranked, entityID, feature.Stat.Segment)
	return feature
}

// safeRatio divides a by b rounded to two decimals, nil when either side is
// absent or the denominator is zero.
func safeRatio(a, b *decimal.Decimal) *decimal.Decimal {
	if a == nil || b == nil || b.IsZero() {
		return nil
	}
	return round2(a.Div(*b))
}

func dimsLabel(dims []Dimension) string {
	labels := make([]string, len(dims))
	for i, dim := range dims {
		labels[i] = string(dim)
	}
	return strings.Join(labels, ",")
}

// SireFeatures generates pedigree-side performance features: how a sire's
// offspring perform per surface and going.
type SireFeatures struct {
	gen    generator
	horses repository.HorseRepository
}

// NewSireFeatures creates the sire feature generator
func NewSireFeatures(repos *repository.Repositories, cache *RollupCache, minRaces int, log *logrus.Logger) *SireFeatures {
	if minRaces <= 0 {
		minRaces = DefaultMinRaces
	}
	return &SireFeatures{
		gen: generator{
			name:     "sire",
			list:     repos.RaceRows.ListSireRows,
			cache:    cache,
			minRaces: minRaces,
			log:      log,
		},
		horses: repos.Horses,
	}
}

// SurfaceGoingROI computes the sire-by-surface-and-going population rollup.
func (s *SireFeatures) SurfaceGoingROI(ctx context.Context, sinceYear, minRaces int) []models.AggregateStat {
	return s.gen.segmentROI(ctx, "surface_going_roi", []Dimension{DimSurface, DimGoing}, sinceYear, minRaces)
}

// Resolve computes the feature record for one sire in one segment.
func (s *SireFeatures) Resolve(ctx context.Context, sireID string, segment category.Key) models.EntityFeature {
	return s.gen.resolve(ctx, sireID, segment)
}

// ResolveForHorse resolves a horse's sire first, then computes the sire's
// feature record. A horse without lineage information yields an empty
// feature, not an error.
func (s *SireFeatures) ResolveForHorse(ctx context.Context, horseID string, segment category.Key) models.EntityFeature {
	horse, err := s.horses.GetByID(ctx, horseID)
	if err != nil {
		feature := models.EntityFeature{Segment: segment, Status: models.FetchEmpty}
		if !errors.Is(err, models.ErrHorseNotFound) {
			metrics.RecordFeatureQueryError(s.gen.name, "resolve_for_horse")
			s.gen.log.WithError(err).WithField("horse_id", horseID).Error("Failed to look up horse")
			feature.Status = models.FetchDegraded
			return feature
		}
		s.gen.log.WithField("horse_id", horseID).Warn("No sire information for horse")
		return feature
	}
	if !horse.HasKnownSire() {
		s.gen.log.WithField("horse_id", horseID).Warn("Horse has unknown sire")
		return models.EntityFeature{Segment: segment, Status: models.FetchEmpty}
	}

	feature := s.gen.resolve(ctx, horse.SireID, segment)
	if feature.EntityName == "" {
		feature.EntityName = horse.SireName
	}
	return feature
}

// JockeyFeatures generates rider performance features per course, distance,
// popularity tier and going.
type JockeyFeatures struct {
	gen generator
}

// NewJockeyFeatures creates the jockey feature generator
func NewJockeyFeatures(repos *repository.Repositories, cache *RollupCache, minRaces int, log *logrus.Logger) *JockeyFeatures {
	if minRaces <= 0 {
		minRaces = DefaultMinRaces
	}
	return &JockeyFeatures{
		gen: generator{
			name:     "jockey",
			list:     repos.RaceRows.ListJockeyRows,
			cache:    cache,
			minRaces: minRaces,
			log:      log,
		},
	}
}

// CourseROI computes the jockey-by-course, surface and distance rollup.
func (j *JockeyFeatures) CourseROI(ctx context.Context, sinceYear, minRaces int) []models.AggregateStat {
	return j.gen.segmentROI(ctx, "course_roi", []Dimension{DimTrack, DimSurface, DimDistance}, sinceYear, minRaces)
}

// PopularityROI computes the jockey-by-popularity-tier rollup.
func (j *JockeyFeatures) PopularityROI(ctx context.Context, sinceYear, minRaces int) []models.AggregateStat {
	return j.gen.segmentROI(ctx, "popularity_roi", []Dimension{DimPopularity}, sinceYear, minRaces)
}

// SurfaceGoingROI computes the jockey-by-surface-and-going rollup.
func (j *JockeyFeatures) SurfaceGoingROI(ctx context.Context, sinceYear, minRaces int) []models.AggregateStat {
	return j.gen.segmentROI(ctx, "surface_going_roi", []Dimension{DimSurface, DimGoing}, sinceYear, minRaces)
}

// Resolve computes the feature record for one jockey in one segment.
func (j *JockeyFeatures) Resolve(ctx context.Context, jockeyID string, segment category.Key) models.EntityFeature {
	return j.gen.resolve(ctx, jockeyID, segment)
}

// ResolveAtCourse is Resolve with the course given by name, as feature
// callers usually have ("Tokyo", "Hanshin"). Unknown names pass through as
// the track code, mirroring the category tables.
func (j *JockeyFeatures) ResolveAtCourse(ctx context.Context, jockeyID, courseName string, surface category.Surface, distance category.DistanceBand) models.EntityFeature {
	segment := category.Key{
		Track:    category.TrackByName(courseName),
		Surface:  surface,
		Distance: distance,
	}
	return j.gen.resolve(ctx, jockeyID, segment)
}
