// Package category defines the categorical dimensions used to segment race
// results: surface, going, distance band, popularity tier and track. Every
// mapping is total; undecodable codes land in an explicit fallback bucket.
package category

// Surface is the track surface type, derived from the first character of the
// JV-Data track code.
type Surface string

const (
	SurfaceTurf  Surface = "turf"
	SurfaceDirt  Surface = "dirt"
	SurfaceOther Surface = "other"
)

// Going is the track condition for the relevant surface.
type Going string

const (
	GoingGood     Going = "good"
	GoingYielding Going = "yielding"
	GoingSoft     Going = "soft"
	GoingHeavy    Going = "heavy"
	GoingUnknown  Going = "unknown"
)

// DistanceBand buckets race distance in meters.
type DistanceBand string

const (
	DistanceSprint DistanceBand = "sprint" // <= 1400m
	DistanceMid    DistanceBand = "mid"    // <= 2000m
	DistanceLong   DistanceBand = "long"   // > 2000m
)

// PopularityTier buckets the pre-race betting favorite rank.
type PopularityTier string

const (
	TierFavorite PopularityTier = "favorite" // ranks 1-3
	TierMid      PopularityTier = "mid"      // ranks 4-8
	TierLongshot PopularityTier = "longshot" // ranks 9+
)

// Track identifies a racecourse by its two-digit JV-Data code.
type Track string

var trackNames = map[Track]string{
	"01": "Sapporo",
	"02": "Hakodate",
	"03": "Fukushima",
	"04": "Niigata",
	"05": "Tokyo",
	"06": "Nakayama",
	"07": "Chukyo",
	"08": "Kyoto",
	"09": "Hanshin",
	"10": "Kokura",
}

var trackCodes = func() map[string]Track {
	m := make(map[string]Track, len(trackNames))
	for code, name := range trackNames {
		m[name] = code
	}
	return m
}()

// Name returns the course name for the track code. Unknown codes are
// returned as-is so that regional courses still form valid segments.
func (t Track) Name() string {
	if name, ok := trackNames[t]; ok {
		return name
	}
	return string(t)
}

// TrackByName resolves a course name back to its code. Names outside the
// table are passed through unchanged, matching Name's fallback.
func TrackByName(name string) Track {
	if code, ok := trackCodes[name]; ok {
		return code
	}
	return Track(name)
}

// goingByCode maps the JV-Data condition code shared by turf and dirt fields.
var goingByCode = map[string]Going{
	"1": GoingGood,
	"2": GoingYielding,
	"3": GoingSoft,
	"4": GoingHeavy,
}
