package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"comida/internal/core"
	"comida/internal/kv"
	"comida/internal/log"
)

// Persisted slot names.
const (
	StateKey        = "comida-tracker"
	SelectedWeekKey = "selected-week"
)

// Store loads and persists the tracker slots through an injected kv.Store.
type Store struct {
	kv     kv.Store
	logger *log.Logger
}

func NewStore(store kv.Store, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Discard()
	}
	return &Store{kv: store, logger: logger.WithComponent(log.ComponentTracker)}
}

// Load returns the persisted state, or a blank one when the slot is absent,
// unreadable, not JSON, or not 52x7x5. It never fails.
func (s *Store) Load(ctx context.Context) core.State {
	raw, ok, err := s.kv.Get(ctx, StateKey)
	if err != nil {
		s.logger.WarnContext(ctx, "Reading tracker state failed, starting blank",
			log.NewFields().WithOperation(log.OpLoad).WithSlot(StateKey, 0).WithError(err).ToSlice()...)
		return core.NewBlankState()
	}
	if !ok {
		s.logger.InfoContext(ctx, "No tracker state stored, starting blank", log.FieldSlot, StateKey)
		return core.NewBlankState()
	}

	state, err := decodeState(raw)
	if err != nil {
		s.logger.WarnContext(ctx, "Stored tracker state unusable, starting blank",
			log.NewFields().WithOperation(log.OpLoad).WithSlot(StateKey, len(raw)).WithError(err).ToSlice()...)
		return core.NewBlankState()
	}
	return state
}

// LoadSelectedWeek returns the persisted week index. When the slot is
// absent or not an integer it defaults to the index of the week before
// currentWeek (currentWeek is 1-based). The result is not range checked.
func (s *Store) LoadSelectedWeek(ctx context.Context, currentWeek int) int {
	fallback := currentWeek - 2

	raw, ok, err := s.kv.Get(ctx, SelectedWeekKey)
	if err != nil {
		s.logger.WarnContext(ctx, "Reading selected week failed, using default",
			log.FieldSlot, SelectedWeekKey, log.FieldError, err, "default", fallback)
		return fallback
	}
	if !ok {
		return fallback
	}

	idx, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		s.logger.WarnContext(ctx, "Stored selected week is not a number, using default",
			log.FieldSlot, SelectedWeekKey, "value", raw, "default", fallback)
		return fallback
	}
	return idx
}

// Persist writes the full state to its slot.
func (s *Store) Persist(ctx context.Context, state core.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode tracker state: %w", err)
	}
	if err := s.kv.Set(ctx, StateKey, string(data)); err != nil {
		return fmt.Errorf("persist %s: %w", StateKey, err)
	}

	s.logger.DebugContext(ctx, "Tracker state persisted",
		log.NewFields().WithOperation(log.OpPersist).WithSlot(StateKey, len(data)).ToSlice()...)
	return nil
}

// PersistSelectedWeek writes idx as a decimal string.
func (s *Store) PersistSelectedWeek(ctx context.Context, idx int) error {
	if err := s.kv.Set(ctx, SelectedWeekKey, strconv.Itoa(idx)); err != nil {
		return fmt.Errorf("persist %s: %w", SelectedWeekKey, err)
	}
	return nil
}

func decodeState(raw string) (core.State, error) {
	var state core.State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("decode tracker state: %w", err)
	}
	if err := state.Validate(); err != nil {
		return nil, err
	}
	return state, nil
}
