package features

import (
	"sort"

	"github.com/yourusername/keiba-features/internal/category"
	"github.com/yourusername/keiba-features/internal/models"
)

// UnrankedSentinel is returned for entities absent from the ranking
// population. It signals "insufficient sample", not an error.
const UnrankedSentinel = 0

// Rank assigns a 1-based standing to every stat within its peer group
// (entities sharing the same segment), ordered by ROI descending. Ties are
// broken by entity id ascending so the assignment is deterministic for any
// input order. Input is expected to be threshold-filtered already; entities
// below the minimum sample never reach the population.
func Rank(stats []models.AggregateStat) []models.RankedStat {
	groups := make(map[category.Key][]models.AggregateStat)
	for _, stat := range stats {
		groups[stat.Segment] = append(groups[stat.Segment], stat)
	}

	ranked := make([]models.RankedStat, 0, len(stats))
	for _, group := range groups {
		sort.Slice(group, func(i, j int) bool {
			a, b := group[i], group[j]
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
			return a.EntityID < b.EntityID
		})
		for i, stat := range group {
			ranked = append(ranked, models.RankedStat{AggregateStat: stat, Rank: i + 1})
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if sa, sb := segmentOrder(a.Segment), segmentOrder(b.Segment); sa != sb {
			return sa < sb
		}
		return a.Rank < b.Rank
	})
	return ranked
}

// RankOf looks up one entity's standing within its peer group, returning
// UnrankedSentinel when the entity is not part of the population.
func RankOf(ranked []models.RankedStat, entityID string, segment category.Key) int {
	for _, stat := range ranked {
		if stat.EntityID == entityID && stat.Segment == segment {
			return stat.Rank
		}
	}
	return UnrankedSentinel
}
