package models

import "testing"

func intPtr(v int64) *int64 { return &v }

func TestQualifies(t *testing.T) {
	odds := intPtr(31)
	cases := []struct {
		name string
		row  RaceRow
		want bool
	}{
		{"normal finish", RaceRow{FinishPos: "03", WinOddsTenths: odds}, true},
		{"winner", RaceRow{FinishPos: "01", WinOddsTenths: odds}, true},
		{"no result sentinel", RaceRow{FinishPos: "00", WinOddsTenths: odds}, false},
		{"disqualified sentinel", RaceRow{FinishPos: "99", WinOddsTenths: odds}, false},
		{"non numeric", RaceRow{FinishPos: "F", WinOddsTenths: odds}, false},
		{"empty", RaceRow{FinishPos: "", WinOddsTenths: odds}, false},
		{"missing odds", RaceRow{FinishPos: "01"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.row.Qualifies(); got != tc.want {
				t.Errorf("Qualifies() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestWinOdds(t *testing.T) {
	row := RaceRow{WinOddsTenths: intPtr(31)}
	if row.WinOdds().String() != "3.1" {
		t.Errorf("expected 3.1, got %s", row.WinOdds())
	}
	none := RaceRow{}
	if !none.WinOdds().IsZero() {
		t.Errorf("expected zero odds for missing value")
	}
}

func TestFinishHelpers(t *testing.T) {
	win := RaceRow{FinishPos: "01"}
	if !win.IsWin() || !win.IsTop3() {
		t.Errorf("expected 01 to be a win and top3")
	}
	third := RaceRow{FinishPos: "03"}
	if third.IsWin() || !third.IsTop3() {
		t.Errorf("expected 03 to be top3 only")
	}
	tenth := RaceRow{FinishPos: "10"}
	if tenth.IsWin() || tenth.IsTop3() {
		t.Errorf("expected 10 to be neither")
	}
}
