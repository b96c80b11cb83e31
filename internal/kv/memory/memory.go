package memory

import (
	"context"
	"maps"
	"sync"

	"comida/internal/kv"
)

var _ kv.Store = (*Store)(nil)

type Store struct {
	mu    sync.Mutex
	slots map[string]string
}

func New() *Store {
	return &Store{slots: map[string]string{}}
}

// NewWith seeds the store with a copy of slots.
func NewWith(slots map[string]string) *Store {
	s := New()
	maps.Copy(s.slots, slots)
	return s
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.slots[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[key] = value
	return nil
}

// Snapshot returns a copy of every slot.
func (s *Store) Snapshot() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.slots)
}
