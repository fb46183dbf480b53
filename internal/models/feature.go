package models

import (
	"github.com/shopspring/decimal"
	"github.com/yourusername/keiba-features/internal/category"
)

// AggregateStat holds the rollup for one (entity, segment) partition.
// Ratio fields are pointers: nil means the denominator was zero or absent,
// never NaN. Percentages are rounded to two decimal places, half-up.
type AggregateStat struct {
	EntityID       string           `json:"entity_id"`
	EntityName     string           `json:"entity_name"`
	Segment        category.Key     `json:"segment"`
	TotalRaces     int              `json:"total_races"`
	Wins           int              `json:"wins"`
	Top3Finishes   int              `json:"top3_finishes"`
	WinRate        *decimal.Decimal `json:"win_rate"`
	Top3Rate       *decimal.Decimal `json:"top3_rate"`
	ROIPercentage  *decimal.Decimal `json:"roi_percentage"`
	AvgWinOdds     *decimal.Decimal `json:"avg_win_odds"`
	AvgPopularity  *decimal.Decimal `json:"avg_popularity"`
	MiddleOddsWins int              `json:"middle_odds_wins"`
	LongshotWins   int              `json:"longshot_wins"`
}

// RankedStat is an AggregateStat plus its 1-based standing among all
// entities sharing the same segment, ordered by ROI descending.
type RankedStat struct {
	AggregateStat
	Rank int `json:"rank"`
}

// FetchStatus records how a feature lookup concluded. Empty and degraded
// results are both zero-filled; the status is what tells them apart.
type FetchStatus string

const (
	// FetchOK means the entity had qualifying rows in the segment.
	FetchOK FetchStatus = "ok"
	// FetchEmpty means no qualifying rows, or fewer than the minimum sample.
	FetchEmpty FetchStatus = "empty"
	// FetchDegraded means the data source failed; the cause was logged and
	// the feature degraded to zeros instead of surfacing the error.
	FetchDegraded FetchStatus = "degraded"
)

// EntityFeature is the resolved feature record for one entity in one
// segment. Rank 0 means unranked (insufficient sample). AptitudeIndex is
// the segment ROI over the entity's overall ROI; WinRateRatio is the
// analogous win-rate quotient. Both are nil when the baseline is zero.
type EntityFeature struct {
	EntityID      string           `json:"entity_id"`
	EntityName    string           `json:"entity_name"`
	Segment       category.Key     `json:"segment"`
	Stat          AggregateStat    `json:"stat"`
	Rank          int              `json:"rank"`
	AptitudeIndex *decimal.Decimal `json:"aptitude_index"`
	WinRateRatio  *decimal.Decimal `json:"win_rate_ratio"`
	Status        FetchStatus      `json:"status"`
}
