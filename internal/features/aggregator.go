// Package features implements the aggregation, ranking and pedigree engine
// over race-result rows. All statistics are computed in-process so results
// do not depend on any particular database engine's arithmetic.
package features

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/yourusername/keiba-features/internal/category"
	"github.com/yourusername/keiba-features/internal/models"
)

// Dimension selects one categorical axis for grouping.
type Dimension string

const (
	DimSurface    Dimension = "surface"
	DimGoing      Dimension = "going"
	DimDistance   Dimension = "distance"
	DimPopularity Dimension = "popularity"
	DimTrack      Dimension = "track"
)

var hundred = decimal.NewFromInt(100)

type partitionKey struct {
	entityID string
	segment  category.Key
}

type accumulator struct {
	entityName      string
	totalRaces      int
	wins            int
	top3            int
	middleWins      int
	longshotWins    int
	oddsReturn      decimal.Decimal // sum of winning odds, zero on losses
	winOddsSum      decimal.Decimal // sum of odds conditioned on win
	popularitySum   int64
	popularityCount int
}

// Aggregate partitions qualifying rows by entity id plus the requested
// dimensions and computes the per-partition statistics. Partitions with
// fewer than minRaces rows are dropped. Output is ordered by ROI descending
// (nils last), ties broken by entity id then segment, so identical input
// always yields identical output.
func Aggregate(rows []*models.RaceRow, dims []Dimension, minRaces int) []models.AggregateStat {
	partitions := make(map[partitionKey]*accumulator)

	for _, row := range rows {
		if !row.Qualifies() {
			continue
		}
		key := partitionKey{entityID: row.EntityID, segment: BucketKey(row, dims)}
		acc, ok := partitions[key]
		if !ok {
			acc = &accumulator{entityName: row.EntityName}
			partitions[key] = acc
		}
		acc.add(row)
	}

	stats := make([]models.AggregateStat, 0, len(partitions))
	for key, acc := range partitions {
		if acc.totalRaces < minRaces {
			continue
		}
		stats = append(stats, acc.finish(key))
	}

	sortStats(stats)
	return stats
}

// BucketKey classifies a row along the requested dimensions only; all other
// dimensions stay unconstrained.
func BucketKey(row *models.RaceRow, dims []Dimension) category.Key {
	var key category.Key
	for _, dim := range dims {
		switch dim {
		case DimSurface:
			key.Surface = category.ClassifySurface(row.TrackCode)
		case DimGoing:
			key.Going = category.ClassifyGoing(row.TrackCode, row.TurfGoing, row.DirtGoing)
		case DimDistance:
			key.Distance = category.ClassifyDistance(row.Distance)
		case DimPopularity:
			if row.Popularity != nil {
				key.Popularity = category.ClassifyPopularity(*row.Popularity)
			} else {
				key.Popularity = category.TierLongshot
			}
		case DimTrack:
			key.Track = category.Track(row.CourseCode)
		}
	}
	return key
}

// DimensionsOf lists the dimensions a segment key constrains.
func DimensionsOf(key category.Key) []Dimension {
	var dims []Dimension
	if key.Surface != "" {
		dims = append(dims, DimSurface)
	}
	if key.Going != "" {
		dims = append(dims, DimGoing)
	}
	if key.Distance != "" {
		dims = append(dims, DimDistance)
	}
	if key.Popularity != "" {
		dims = append(dims, DimPopularity)
	}
	if key.Track != "" {
		dims = append(dims, DimTrack)
	}
	return dims
}

// MatchesKey reports whether a row falls into the segment along every
// dimension the key constrains.
func MatchesKey(row *models.RaceRow, key category.Key) bool {
	return BucketKey(row, DimensionsOf(key)) == key
}

// FilterRows keeps the rows falling into the segment.
func FilterRows(rows []*models.RaceRow, key category.Key) []*models.RaceRow {
	var matched []*models.RaceRow
	for _, row := range rows {
		if MatchesKey(row, key) {
			matched = append(matched, row)
		}
	}
	return matched
}

func (a *accumulator) add(row *models.RaceRow) {
	a.totalRaces++
	if row.IsTop3() {
		a.top3++
	}
	if row.Popularity != nil {
		a.popularitySum += int64(*row.Popularity)
		a.popularityCount++
	}
	if !row.IsWin() {
		return
	}
	a.wins++
	odds := row.WinOdds()
	a.oddsReturn = a.oddsReturn.Add(odds)
	a.winOddsSum = a.winOddsSum.Add(odds)
	if row.Popularity != nil {
		switch category.ClassifyPopularity(*row.Popularity) {
		case category.TierMid:
			a.middleWins++
		case category.TierLongshot:
			a.longshotWins++
		}
	}
}

func (a *accumulator) finish(key partitionKey) models.AggregateStat {
	stat := models.AggregateStat{
		EntityID:       key.entityID,
		EntityName:     a.entityName,
		Segment:        key.segment,
		TotalRaces:     a.totalRaces,
		Wins:           a.wins,
		Top3Finishes:   a.top3,
		MiddleOddsWins: a.middleWins,
		LongshotWins:   a.longshotWins,
	}

	total := decimal.NewFromInt(int64(a.totalRaces))
	stat.WinRate = percentOf(decimal.NewFromInt(int64(a.wins)), total)
	stat.Top3Rate = percentOf(decimal.NewFromInt(int64(a.top3)), total)
	stat.ROIPercentage = percentOf(a.oddsReturn, total)
	if a.wins > 0 {
		stat.AvgWinOdds = round2(a.winOddsSum.Div(decimal.NewFromInt(int64(a.wins))))
	}
	if a.popularityCount > 0 {
		avg := decimal.NewFromInt(a.popularitySum).Div(decimal.NewFromInt(int64(a.popularityCount)))
		stat.AvgPopularity = round2(avg)
	}
	return stat
}

// percentOf returns numerator/denominator*100 rounded to two decimals, or
// nil on a zero denominator. Division never panics or produces NaN.
func percentOf(numerator, denominator decimal.Decimal) *decimal.Decimal {
	if denominator.IsZero() {
		return nil
	}
	return round2(numerator.Div(denominator).Mul(hundred))
}

// round2 rounds half away from zero to two decimal places, the module-wide
// rounding policy for displayed percentages.
func round2(d decimal.Decimal) *decimal.Decimal {
	r := d.Round(2)
	return &r
}

func sortStats(stats []models.AggregateStat) {
	sort.Slice(stats, func(i, j int) bool {
		a, b := stats[i], stats[j]
		switch {
		case a.ROIPercentage == nil && b.ROIPercentage != nil:
			return false
		case a.ROIPercentage != nil && b.ROIPercentage == nil:
			return true
		case a.ROIPercentage != nil && b.ROIPercentage != nil:
			if cmp := a.ROIPercentage.Cmp(*b.ROIPercentage); cmp != 0 {
				return cmp > 0
			}
		}
		if a.EntityID != b.EntityID {
			return a.EntityID < b.EntityID
		}
		return segmentOrder(a.Segment) < segmentOrder(b.Segment)
	})
}

func segmentOrder(key category.Key) string {
	return string(key.Surface) + "|" + string(key.Going) + "|" + string(key.Distance) +
		"|" + string(key.Popularity) + "|" + string(key.Track)
}
