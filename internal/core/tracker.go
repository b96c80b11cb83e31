package core

import (
	"errors"
	"fmt"
	"slices"
)

const (
	DaysPerWeek = 7
	MealsPerDay = 5
)

// Meal slots, in display order.
const (
	Breakfast = iota
	Lunch
	Snack
	Dinner
	Dessert
)

var (
	// MealLabels are the row labels of the meal grid.
	MealLabels = [MealsPerDay]string{"Desayuno", "Almuerzo", "Merienda", "Cena", "Postre"}

	// DayLabels are the column labels, Monday first.
	DayLabels = [DaysPerWeek]string{"Lun", "Mar", "Mié", "Jue", "Vie", "Sáb", "Dom"}
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrInvalidShape    = errors.New("invalid tracker shape")
)

type (
	// MealEntry is one meal slot of one day.
	MealEntry struct {
		Text       string `json:"text"`
		OutOfPlace bool   `json:"outOfPlace"`
	}

	DayRecord struct {
		Meals []MealEntry `json:"meals"`
		Gym   bool        `json:"gym"`
	}

	WeekRecord struct {
		Days   []DayRecord `json:"days"`
		Weight string      `json:"weight"`
	}

	// State is the whole tracked year, index-aligned with WeekTable.Weeks.
	// Values are treated as immutable: update functions return a new State
	// and share every untouched week, day and meal slice with the input.
	State []WeekRecord
)

// NewBlankState returns 52 empty weeks of 7 days with 5 empty meals each.
func NewBlankState() State {
	state := make(State, WeeksPerYear)
	for w := range state {
		days := make([]DayRecord, DaysPerWeek)
		for d := range days {
			days[d] = DayRecord{Meals: make([]MealEntry, MealsPerDay)}
		}
		state[w] = WeekRecord{Days: days}
	}
	return state
}

// Validate checks the fixed 52x7x5 shape.
func (s State) Validate() error {
	if len(s) != WeeksPerYear {
		return fmt.Errorf("%w: %d weeks, want %d", ErrInvalidShape, len(s), WeeksPerYear)
	}
	for w, week := range s {
		if len(week.Days) != DaysPerWeek {
			return fmt.Errorf("%w: week %d has %d days, want %d", ErrInvalidShape, w, len(week.Days), DaysPerWeek)
		}
		for d, day := range week.Days {
			if len(day.Meals) != MealsPerDay {
				return fmt.Errorf("%w: week %d day %d has %d meals, want %d", ErrInvalidShape, w, d, len(day.Meals), MealsPerDay)
			}
		}
	}
	return nil
}

// UpdateMealText replaces the text of one meal.
func UpdateMealText(s State, weekIdx, dayIdx, mealIdx int, text string) (State, error) {
	return updateMeal(s, weekIdx, dayIdx, mealIdx, func(m *MealEntry) {
		m.Text = text
	})
}

// ToggleMealOutOfPlace flips the out-of-place flag of one meal.
func ToggleMealOutOfPlace(s State, weekIdx, dayIdx, mealIdx int) (State, error) {
	return updateMeal(s, weekIdx, dayIdx, mealIdx, func(m *MealEntry) {
		m.OutOfPlace = !m.OutOfPlace
	})
}

// ToggleGym flips the gym flag of one day.
func ToggleGym(s State, weekIdx, dayIdx int) (State, error) {
	return updateDay(s, weekIdx, dayIdx, func(d *DayRecord) {
		d.Gym = !d.Gym
	})
}

// UpdateWeight replaces the free-form weight of one week.
func UpdateWeight(s State, weekIdx int, weight string) (State, error) {
	return updateWeek(s, weekIdx, func(w *WeekRecord) {
		w.Weight = weight
	})
}

func updateMeal(s State, weekIdx, dayIdx, mealIdx int, fn func(*MealEntry)) (State, error) {
	if err := checkIndex("meal", mealIdx, MealsPerDay); err != nil {
		return nil, err
	}
	return updateDay(s, weekIdx, dayIdx, func(d *DayRecord) {
		d.Meals = slices.Clone(d.Meals)
		fn(&d.Meals[mealIdx])
	})
}

func updateDay(s State, weekIdx, dayIdx int, fn func(*DayRecord)) (State, error) {
	if err := checkIndex("day", dayIdx, DaysPerWeek); err != nil {
		return nil, err
	}
	return updateWeek(s, weekIdx, func(w *WeekRecord) {
		w.Days = slices.Clone(w.Days)
		fn(&w.Days[dayIdx])
	})
}

func updateWeek(s State, weekIdx int, fn func(*WeekRecord)) (State, error) {
	if err := checkIndex("week", weekIdx, WeeksPerYear); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	next := slices.Clone(s)
	fn(&next[weekIdx])
	return next, nil
}

func checkIndex(kind string, idx, limit int) error {
	if idx < 0 || idx >= limit {
		return fmt.Errorf("%w: %s %d not in [0,%d)", ErrIndexOutOfRange, kind, idx, limit)
	}
	return nil
}
