package models

import (
	"github.com/shopspring/decimal"
)

// Finish position sentinels used by the results feed. Rows carrying either
// code never count toward statistics.
const (
	FinishNoResult     = "00"
	FinishDisqualified = "99"
)

var oddsDivisor = decimal.NewFromInt(10)

// RaceRow is one (runner, race) result row as returned by the data source,
// already joined with the entity (sire or jockey) it is being studied for.
// Codes are kept raw; bucketing into categorical dimensions happens in the
// category package.
type RaceRow struct {
	EntityID   string `db:"entity_id" json:"entity_id"`
	EntityName string `db:"entity_name" json:"entity_name"`
	CourseCode string `db:"course_code" json:"course_code"`
	TrackCode  string `db:"track_code" json:"track_code"`
	TurfGoing  string `db:"turf_going" json:"turf_going"`
	DirtGoing  string `db:"dirt_going" json:"dirt_going"`
	Distance   int    `db:"distance" json:"distance"`
	Year       int    `db:"year" json:"year"`
	FinishPos  string `db:"finish_pos" json:"finish_pos"`
	// WinOddsTenths is the win odds in integer tenths (31 = 3.1), nil when
	// the runner had no quoted odds.
	WinOddsTenths *int64 `db:"win_odds" json:"win_odds"`
	// Popularity is the pre-race favorite rank, nil when unavailable.
	Popularity *int `db:"popularity" json:"popularity"`
}

// Qualifies reports whether the row is eligible for statistics: a numeric,
// non-sentinel finish position and quoted win odds.
func (r *RaceRow) Qualifies() bool {
	if r.WinOddsTenths == nil {
		return false
	}
	if r.FinishPos == FinishNoResult || r.FinishPos == FinishDisqualified {
		return false
	}
	return isNumeric(r.FinishPos)
}

// IsWin reports a first-place finish.
func (r *RaceRow) IsWin() bool {
	return r.finishPosition() == 1
}

// IsTop3 reports a finish in the first three places.
func (r *RaceRow) IsTop3() bool {
	pos := r.finishPosition()
	return pos >= 1 && pos <= 3
}

// WinOdds returns the decimal win odds (stored tenths divided by 10).
// Only meaningful for qualifying rows.
func (r *RaceRow) WinOdds() decimal.Decimal {
	if r.WinOddsTenths == nil {
		return decimal.Zero
	}
	return decimal.NewFromInt(*r.WinOddsTenths).Div(oddsDivisor)
}

func (r *RaceRow) finishPosition() int {
	if !isNumeric(r.FinishPos) {
		return 0
	}
	pos := 0
	for _, c := range r.FinishPos {
		pos = pos*10 + int(c-'0')
	}
	return pos
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
