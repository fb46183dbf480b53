package category

import "testing"

func TestClassifySurface(t *testing.T) {
	cases := []struct {
		code string
		want Surface
	}{
		{"10", SurfaceTurf},
		{"17", SurfaceTurf},
		{"23", SurfaceDirt},
		{"51", SurfaceOther},
		{"0", SurfaceOther},
		{"", SurfaceOther},
	}
	for _, tc := range cases {
		if got := ClassifySurface(tc.code); got != tc.want {
			t.Errorf("ClassifySurface(%q) = %s, want %s", tc.code, got, tc.want)
		}
	}
}

func TestClassifyGoing(t *testing.T) {
	cases := []struct {
		name       string
		trackCode  string
		turf, dirt string
		want       Going
	}{
		{"turf good", "10", "1", "3", GoingGood},
		{"turf yielding", "11", "2", "1", GoingYielding},
		{"turf soft", "12", "3", "1", GoingSoft},
		{"turf heavy", "13", "4", "1", GoingHeavy},
		{"dirt uses dirt code", "23", "1", "4", GoingHeavy},
		{"dirt good", "20", "4", "1", GoingGood},
		{"other surface", "51", "1", "1", GoingUnknown},
		{"bad code", "10", "9", "", GoingUnknown},
		{"empty code", "23", "1", "", GoingUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyGoing(tc.trackCode, tc.turf, tc.dirt); got != tc.want {
				t.Errorf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestClassifyDistance(t *testing.T) {
	cases := []struct {
		meters int
		want   DistanceBand
	}{
		{1000, DistanceSprint},
		{1400, DistanceSprint},
		{1401, DistanceMid},
		{2000, DistanceMid},
		{2001, DistanceLong},
		{3600, DistanceLong},
	}
	for _, tc := range cases {
		if got := ClassifyDistance(tc.meters); got != tc.want {
			t.Errorf("ClassifyDistance(%d) = %s, want %s", tc.meters, got, tc.want)
		}
	}
}

func TestClassifyPopularity(t *testing.T) {
	cases := []struct {
		rank int
		want PopularityTier
	}{
		{1, TierFavorite},
		{3, TierFavorite},
		{4, TierMid},
		{8, TierMid},
		{9, TierLongshot},
		{18, TierLongshot},
	}
	for _, tc := range cases {
		if got := ClassifyPopularity(tc.rank); got != tc.want {
			t.Errorf("ClassifyPopularity(%d) = %s, want %s", tc.rank, got, tc.want)
		}
	}
}

func TestTrackNameRoundTrip(t *testing.T) {
	if Track("05").Name() != "Tokyo" {
		t.Errorf("expected track 05 to be Tokyo, got %s", Track("05").Name())
	}
	if TrackByName("Hanshin") != Track("09") {
		t.Errorf("expected Hanshin to resolve to 09, got %s", TrackByName("Hanshin"))
	}
	// unknown codes and names pass through unchanged
	if Track("45").Name() != "45" {
		t.Errorf("unknown code should pass through, got %s", Track("45").Name())
	}
	if TrackByName("Monmouth Park") != Track("Monmouth Park") {
		t.Errorf("unknown name should pass through")
	}
}
