package category

// Key is one combination of categorical dimension values. The zero value of
// a dimension ("") means the dimension is unconstrained, so a Key doubles as
// both a bucket label and a segment filter.
type Key struct {
	Surface    Surface        `json:"surface,omitempty"`
	Going      Going          `json:"going,omitempty"`
	Distance   DistanceBand   `json:"distance,omitempty"`
	Popularity PopularityTier `json:"popularity,omitempty"`
	Track      Track          `json:"track,omitempty"`
}

// ClassifySurface buckets a raw track code by its first character.
func ClassifySurface(trackCode string) Surface {
	if trackCode == "" {
		return SurfaceOther
	}
	switch trackCode[0] {
	case '1':
		return SurfaceTurf
	case '2':
		return SurfaceDirt
	default:
		return SurfaceOther
	}
}

// ClassifyGoing selects the condition code matching the race surface (turf
// races carry the turf condition, dirt races the dirt condition) and buckets
// it. Any surface/code combination outside the tables is unknown.
func ClassifyGoing(trackCode, turfCondition, dirtCondition string) Going {
	var code string
	switch ClassifySurface(trackCode) {
	case SurfaceTurf:
		code = turfCondition
	case SurfaceDirt:
		code = dirtCondition
	default:
		return GoingUnknown
	}
	if going, ok := goingByCode[code]; ok {
		return going
	}
	return GoingUnknown
}

// ClassifyDistance buckets a race distance in meters.
func ClassifyDistance(meters int) DistanceBand {
	switch {
	case meters <= 1400:
		return DistanceSprint
	case meters <= 2000:
		return DistanceMid
	default:
		return DistanceLong
	}
}

// ClassifyPopularity buckets a pre-race favorite rank. Ranks start at 1;
// anything below that is treated as a longshot rather than rejected.
func ClassifyPopularity(rank int) PopularityTier {
	switch {
	case rank >= 1 && rank <= 3:
		return TierFavorite
	case rank >= 4 && rank <= 8:
		return TierMid
	default:
		return TierLongshot
	}
}
