package core

import (
	"testing"
	"time"
)

func TestWeekNumber(t *testing.T) {
	cases := []struct {
		date time.Time
		want int
	}{
		{time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC), 1},   // Monday
		{time.Date(2024, 1, 7, 23, 59, 0, 0, time.UTC), 1},  // Sunday counts as day 7
		{time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), 2},    // next Monday
		{time.Date(2021, 1, 1, 12, 0, 0, 0, time.UTC), 53},  // Thursday falls in 2020
		{time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), 1},   // Thursday
		{time.Date(2026, 10, 17, 18, 0, 0, 0, time.UTC), 42},
		{time.Date(2024, 12, 30, 8, 0, 0, 0, time.UTC), 1},  // Thursday is Jan 2 2025
		{time.Date(2026, 12, 31, 8, 0, 0, 0, time.UTC), 53}, // Thursday of a 53-week year
	}
	for i, tc := range cases {
		if got := WeekNumber(tc.date); got != tc.want {
			t.Fatalf("case %d (%s): got %d, want %d", i, tc.date.Format("2006-01-02"), got, tc.want)
		}
	}
}

func TestFirstMonday(t *testing.T) {
	cases := []struct {
		year int
		want string
	}{
		{2024, "2024-01-01"},
		{2025, "2025-01-06"},
		{2026, "2026-01-05"},
		{2023, "2023-01-02"},
	}
	for _, tc := range cases {
		got := FirstMonday(tc.year, time.UTC).Format("2006-01-02")
		if got != tc.want {
			t.Fatalf("year %d: got %s, want %s", tc.year, got, tc.want)
		}
	}
}

func TestComputeWeekTableJanFirstMonday(t *testing.T) {
	table := ComputeWeekTable(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))

	first := table.Weeks[0]
	if first.WeekNumber != 1 {
		t.Fatalf("week number = %d, want 1", first.WeekNumber)
	}
	if first.Start != "01/01" || first.End != "07/01" {
		t.Fatalf("week 1 = %s-%s, want 01/01-07/01", first.Start, first.End)
	}
	if !first.IsCurrent {
		t.Fatalf("week 1 should be current on 2024-01-01")
	}
	if got := first.Label(); got != "Semana 1 (01/01 – 07/01)" {
		t.Fatalf("label = %q", got)
	}
	if last := table.Weeks[WeeksPerYear-1]; last.Start != "23/12" || last.End != "29/12" {
		t.Fatalf("week 52 = %s-%s, want 23/12-29/12", last.Start, last.End)
	}
}

func TestComputeWeekTableLayout(t *testing.T) {
	for year := 2020; year <= 2030; year++ {
		table := ComputeWeekTable(time.Date(year, 6, 15, 12, 0, 0, 0, time.UTC))
		if len(table.Weeks) != WeeksPerYear {
			t.Fatalf("%d: %d weeks", year, len(table.Weeks))
		}
		for i, w := range table.Weeks {
			if w.WeekNumber != i+1 {
				t.Fatalf("%d: week %d numbered %d", year, i, w.WeekNumber)
			}
			if w.StartDate.Weekday() != time.Monday {
				t.Fatalf("%d: week %d starts on %s", year, i+1, w.StartDate.Weekday())
			}
			if !w.EndDate.Equal(w.StartDate.AddDate(0, 0, 6)) {
				t.Fatalf("%d: week %d ends %s, want start+6", year, i+1, w.EndDate)
			}
			if i > 0 {
				prev := table.Weeks[i-1]
				if !w.StartDate.Equal(prev.StartDate.AddDate(0, 0, 7)) {
					t.Fatalf("%d: gap between week %d and %d", year, i, i+1)
				}
			}
		}
		if table.Weeks[0].StartDate.Year() != year || table.Weeks[0].StartDate.Day() > 7 {
			t.Fatalf("%d: first week starts %s", year, table.Weeks[0].StartDate)
		}
	}
}

func TestComputeWeekTableCurrentFlag(t *testing.T) {
	day := time.Date(2023, 1, 1, 15, 0, 0, 0, time.UTC)
	end := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	for ; day.Before(end); day = day.AddDate(0, 0, 1) {
		table := ComputeWeekTable(day)
		want := WeekNumber(day)
		if table.CurrentWeek != want {
			t.Fatalf("%s: current week %d, want %d", day.Format("2006-01-02"), table.CurrentWeek, want)
		}

		flagged := 0
		for _, w := range table.Weeks {
			if w.IsCurrent {
				flagged++
				if w.WeekNumber != want {
					t.Fatalf("%s: week %d flagged, want %d", day.Format("2006-01-02"), w.WeekNumber, want)
				}
			}
		}
		expected := 0
		if want >= 1 && want <= WeeksPerYear {
			expected = 1
		}
		if flagged != expected {
			t.Fatalf("%s: %d weeks flagged current, want %d", day.Format("2006-01-02"), flagged, expected)
		}
		if idx := table.CurrentIndex(); expected == 1 && idx != want-1 {
			t.Fatalf("%s: current index %d, want %d", day.Format("2006-01-02"), idx, want-1)
		}
	}
}

func TestClampWeekIndex(t *testing.T) {
	cases := map[int]int{-5: 0, -1: 0, 0: 0, 17: 17, 51: 51, 52: 51, 300: 51}
	for in, want := range cases {
		if got := ClampWeekIndex(in); got != want {
			t.Fatalf("ClampWeekIndex(%d) = %d, want %d", in, got, want)
		}
	}
}
