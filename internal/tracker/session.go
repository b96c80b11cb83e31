package tracker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"comida/internal/core"
	"comida/internal/log"
)

// Session is the live tracker for one process: the week table computed at
// open time, the current state and the selected week. Every mutation is
// persisted before it becomes visible, and mu keeps events strictly
// sequential even when adapters call in from several goroutines.
type Session struct {
	mu       sync.Mutex
	store    *Store
	logger   *log.Logger
	table    core.WeekTable
	state    core.State
	selected int
}

// Open computes the week table for now, hydrates the state and the selected
// week. A persisted selected week outside [0,51] is clamped.
func Open(ctx context.Context, store *Store, now time.Time, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentTracker)

	table := core.ComputeWeekTable(now)
	logger.WithComponent(log.ComponentCalendar).DebugContext(ctx, "Week table computed",
		"first_week", table.Weeks[0].Label(),
		"current_week", table.CurrentWeek,
		"current_index", table.CurrentIndex())

	state := store.Load(ctx)
	raw := store.LoadSelectedWeek(ctx, table.CurrentWeek)
	selected := core.ClampWeekIndex(raw)
	if selected != raw {
		logger.WarnContext(ctx, "Selected week out of range, clamped",
			"stored", raw, "selected", selected)
	}

	logger.InfoContext(ctx, "Tracker session opened",
		"year", now.Year(),
		"current_week", table.CurrentWeek,
		"selected_week", selected)

	return &Session{
		store:    store,
		logger:   logger,
		table:    table,
		state:    state,
		selected: selected,
	}
}

func (s *Session) Weeks() core.WeekTable {
	return s.table
}

// State returns the current state. Callers must not modify it.
func (s *Session) State() core.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) SelectedWeek() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Week returns the descriptor and record at idx.
func (s *Session) Week(idx int) (core.WeekDescriptor, core.WeekRecord, error) {
	if idx < 0 || idx >= core.WeeksPerYear {
		return core.WeekDescriptor{}, core.WeekRecord{},
			fmt.Errorf("%w: week %d not in [0,%d)", core.ErrIndexOutOfRange, idx, core.WeeksPerYear)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Weeks[idx], s.state[idx], nil
}

// SelectWeek remembers idx as the selected week.
func (s *Session) SelectWeek(ctx context.Context, idx int) error {
	if idx < 0 || idx >= core.WeeksPerYear {
		return fmt.Errorf("%w: week %d not in [0,%d)", core.ErrIndexOutOfRange, idx, core.WeeksPerYear)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.PersistSelectedWeek(ctx, idx); err != nil {
		s.logger.ErrorContext(ctx, "Persisting selected week failed",
			log.NewFields().WithOperation(log.OpSelectWeek).WithCell(idx, -1, -1).WithError(err).ToSlice()...)
		return err
	}
	s.selected = idx
	return nil
}

func (s *Session) UpdateMealText(ctx context.Context, week, day, meal int, text string) (core.WeekRecord, error) {
	return s.apply(ctx, log.OpUpdateMeal, week, day, meal, func(st core.State) (core.State, error) {
		return core.UpdateMealText(st, week, day, meal, text)
	})
}

func (s *Session) ToggleMealOutOfPlace(ctx context.Context, week, day, meal int) (core.WeekRecord, error) {
	return s.apply(ctx, log.OpToggleMeal, week, day, meal, func(st core.State) (core.State, error) {
		return core.ToggleMealOutOfPlace(st, week, day, meal)
	})
}

func (s *Session) ToggleGym(ctx context.Context, week, day int) (core.WeekRecord, error) {
	return s.apply(ctx, log.OpToggleGym, week, day, -1, func(st core.State) (core.State, error) {
		return core.ToggleGym(st, week, day)
	})
}

func (s *Session) UpdateWeight(ctx context.Context, week int, weight string) (core.WeekRecord, error) {
	return s.apply(ctx, log.OpUpdateWeight, week, -1, -1, func(st core.State) (core.State, error) {
		return core.UpdateWeight(st, week, weight)
	})
}

// apply runs one update, persists the result and only then commits it.
// On any error the previous state stays current.
func (s *Session) apply(ctx context.Context, op string, week, day, meal int, update func(core.State) (core.State, error)) (core.WeekRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fields := log.NewFields().WithOperation(op).WithCell(week, day, meal)

	next, err := update(s.state)
	if err != nil {
		s.logger.WarnContext(ctx, "Tracker update rejected", fields.WithError(err).ToSlice()...)
		return core.WeekRecord{}, err
	}
	if err := s.store.Persist(ctx, next); err != nil {
		s.logger.ErrorContext(ctx, "Persisting tracker state failed", fields.WithError(err).ToSlice()...)
		return core.WeekRecord{}, err
	}

	s.state = next
	s.logger.DebugContext(ctx, "Tracker updated", fields.ToSlice()...)
	return next[week], nil
}
