package core

import (
	"fmt"
	"time"
)

const (
	// WeeksPerYear is the fixed number of tracked weeks, regardless of how
	// many ISO weeks the year really has.
	WeeksPerYear = 52

	// DayMonthLayout renders dates as DD/MM.
	DayMonthLayout = "02/01"
)

type (
	// WeekDescriptor describes one of the tracked weeks. It is computed on
	// every load and never persisted.
	WeekDescriptor struct {
		WeekNumber int       `json:"weekNumber"`
		Start      string    `json:"start"`
		End        string    `json:"end"`
		IsCurrent  bool      `json:"isCurrent"`
		StartDate  time.Time `json:"-"`
		EndDate    time.Time `json:"-"`
	}

	// WeekTable is the 52-week calendar of the current year.
	WeekTable struct {
		Weeks       [WeeksPerYear]WeekDescriptor `json:"weeks"`
		CurrentWeek int                          `json:"currentWeek"`
	}
)

// Label returns the week picker text, e.g. "Semana 3 (15/01 – 21/01)".
func (w WeekDescriptor) Label() string {
	return fmt.Sprintf("Semana %d (%s – %s)", w.WeekNumber, w.Start, w.End)
}

// WeekNumber returns the simplified ISO-style week number of t.
//
// The date is moved to the Thursday of its own Monday-based week and the
// result counts weeks from January 1st of that Thursday's year. Weeks that
// belong to an adjacent ISO year are not reconciled.
func WeekNumber(t time.Time) int {
	day := midnight(t)
	thursday := day.AddDate(0, 0, 4-isoWeekday(day))
	daysSinceJan1 := thursday.YearDay() - 1
	return (daysSinceJan1 + 7) / 7
}

// ComputeWeekTable lays out 52 weeks starting at the first Monday on or
// after January 1st of now's year and flags the one matching now.
func ComputeWeekTable(now time.Time) WeekTable {
	current := WeekNumber(now)
	first := FirstMonday(now.Year(), now.Location())

	var table WeekTable
	table.CurrentWeek = current
	for w := 0; w < WeeksPerYear; w++ {
		start := first.AddDate(0, 0, 7*w)
		end := start.AddDate(0, 0, 6)
		table.Weeks[w] = WeekDescriptor{
			WeekNumber: w + 1,
			Start:      start.Format(DayMonthLayout),
			End:        end.Format(DayMonthLayout),
			IsCurrent:  w+1 == current,
			StartDate:  start,
			EndDate:    end,
		}
	}
	return table
}

// FirstMonday returns January 1st of year if it is a Monday, otherwise the
// following Monday.
func FirstMonday(year int, loc *time.Location) time.Time {
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	wd := isoWeekday(jan1)
	if wd == 1 {
		return jan1
	}
	return jan1.AddDate(0, 0, 8-wd)
}

// CurrentIndex returns the 0-based index of the current week, or -1 when
// the current week number falls outside the table (week 53).
func (t WeekTable) CurrentIndex() int {
	if t.CurrentWeek < 1 || t.CurrentWeek > WeeksPerYear {
		return -1
	}
	return t.CurrentWeek - 1
}

// ClampWeekIndex forces a week index into [0, WeeksPerYear-1].
func ClampWeekIndex(idx int) int {
	if idx < 0 {
		return 0
	}
	if idx >= WeeksPerYear {
		return WeeksPerYear - 1
	}
	return idx
}

// isoWeekday maps Sunday=0 to 7 so that Monday=1..Sunday=7.
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
