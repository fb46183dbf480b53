package features

import (
	"testing"

	"github.com/yourusername/keiba-features/internal/category"
	"github.com/yourusername/keiba-features/internal/models"
)

func TestRankAssignsDistinctStandings(t *testing.T) {
	var rows []*models.RaceRow
	// three sires in the same turf/good peer group with distinct ROI
	addRuns := func(id string, wins int, oddsTenths int64) {
		for i := 0; i < wins; i++ {
			rows = append(rows, turfGoodRow(id, "01", oddsTenths, 5))
		}
		for i := wins; i < 20; i++ {
			rows = append(rows, turfGoodRow(id, "07", oddsTenths, 5))
		}
	}
	addRuns("S1", 5, 40)  // ROI 100
	addRuns("S2", 10, 40) // ROI 200
	addRuns("S3", 2, 40)  // ROI 40

	ranked := Rank(Aggregate(rows, []Dimension{DimSurface, DimGoing}, 20))
	if len(ranked) != 3 {
		t.Fatalf("expected 3 ranked entities, got %d", len(ranked))
	}

	want := map[string]int{"S2": 1, "S1": 2, "S3": 3}
	seen := make(map[int]bool)
	segment := category.Key{Surface: category.SurfaceTurf, Going: category.GoingGood}
	for id, rank := range want {
		got := RankOf(ranked, id, segment)
		if got != rank {
			t.Errorf("expected %s at rank %d, got %d", id, rank, got)
		}
		if seen[got] {
			t.Errorf("rank %d assigned twice", got)
		}
		seen[got] = true
	}
}

func TestRankExcludesBelowThreshold(t *testing.T) {
	var rows []*models.RaceRow
	for i := 0; i < 25; i++ {
		rows = append(rows, turfGoodRow("BIG", "01", 30, 3))
	}
	for i := 0; i < 5; i++ {
		rows = append(rows, turfGoodRow("SMALL", "01", 900, 14))
	}

	ranked := Rank(Aggregate(rows, []Dimension{DimSurface, DimGoing}, 20))
	segment := category.Key{Surface: category.SurfaceTurf, Going: category.GoingGood}

	// SMALL has a spectacular ROI but too few races: never ranked.
	if got := RankOf(ranked, "SMALL", segment); got != UnrankedSentinel {
		t.Errorf("expected below-threshold entity to be unranked, got %d", got)
	}
	if got := RankOf(ranked, "BIG", segment); got != 1 {
		t.Errorf("expected sole qualifying entity at rank 1, got %d", got)
	}
}

func TestRankTieBreakByEntityID(t *testing.T) {
	var rows []*models.RaceRow
	for _, id := range []string{"Z9", "A1", "M5"} {
		rows = append(rows, turfGoodRow(id, "01", 60, 5)) // identical ROI 600
	}

	ranked := Rank(Aggregate(rows, []Dimension{DimSurface, DimGoing}, 1))
	segment := category.Key{Surface: category.SurfaceTurf, Going: category.GoingGood}

	if RankOf(ranked, "A1", segment) != 1 || RankOf(ranked, "M5", segment) != 2 || RankOf(ranked, "Z9", segment) != 3 {
		t.Errorf("expected ties ordered by entity id, got A1=%d M5=%d Z9=%d",
			RankOf(ranked, "A1", segment), RankOf(ranked, "M5", segment), RankOf(ranked, "Z9", segment))
	}
}

func TestRankOfUnknownEntity(t *testing.T) {
	if got := RankOf(nil, "ghost", category.Key{}); got != UnrankedSentinel {
		t.Errorf("expected unranked sentinel for unknown entity, got %d", got)
	}
}
