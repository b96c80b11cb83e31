package tracker

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"comida/internal/core"
	"comida/internal/kv"
	"comida/internal/kv/memory"
)

var errStorage = errors.New("quota exceeded")

// faultyKV wraps a store and fails reads and/or writes on demand.
type faultyKV struct {
	kv.Store
	failGet bool
	failSet bool
}

func (f *faultyKV) Get(ctx context.Context, key string) (string, bool, error) {
	if f.failGet {
		return "", false, errStorage
	}
	return f.Store.Get(ctx, key)
}

func (f *faultyKV) Set(ctx context.Context, key, value string) error {
	if f.failSet {
		return errStorage
	}
	return f.Store.Set(ctx, key, value)
}

func TestLoadWithoutDataIsBlank(t *testing.T) {
	s := NewStore(memory.New(), nil)
	got := s.Load(context.Background())
	if !reflect.DeepEqual(got, core.NewBlankState()) {
		t.Fatalf("expected blank state")
	}
}

func TestPersistLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	s := NewStore(mem, nil)

	state := core.NewBlankState()
	var err error
	state, err = core.UpdateMealText(state, 2, 1, core.Lunch, "lentejas")
	if err != nil {
		t.Fatal(err)
	}
	state, _ = core.ToggleMealOutOfPlace(state, 2, 1, core.Dessert)
	state, _ = core.ToggleGym(state, 2, 4)
	state, _ = core.UpdateWeight(state, 2, "81.3")

	if err := s.Persist(ctx, state); err != nil {
		t.Fatalf("persist: %v", err)
	}
	if got := s.Load(ctx); !reflect.DeepEqual(got, state) {
		t.Fatalf("round trip mismatch")
	}

	raw, _, _ := mem.Get(ctx, StateKey)
	for _, field := range []string{`"days":`, `"meals":`, `"text":"lentejas"`, `"outOfPlace":true`, `"gym":true`, `"weight":"81.3"`} {
		if !strings.Contains(raw, field) {
			t.Fatalf("persisted JSON missing %s", field)
		}
	}
}

func TestLoadFallsBackToBlank(t *testing.T) {
	cases := map[string]string{
		"not json":       "{oops",
		"wrong type":     `{"days":[]}`,
		"too few weeks":  `[{"days":[],"weight":""}]`,
		"null":           "null",
		"missing meals":  `[` + strings.Repeat(`{"days":[{"gym":false}],"weight":""},`, 51) + `{"days":[],"weight":""}]`,
	}
	for name, raw := range cases {
		s := NewStore(memory.NewWith(map[string]string{StateKey: raw}), nil)
		if got := s.Load(context.Background()); !reflect.DeepEqual(got, core.NewBlankState()) {
			t.Fatalf("%s: expected blank fallback", name)
		}
	}

	broken := NewStore(&faultyKV{Store: memory.New(), failGet: true}, nil)
	if got := broken.Load(context.Background()); !reflect.DeepEqual(got, core.NewBlankState()) {
		t.Fatalf("read error: expected blank fallback")
	}
}

func TestLoadSelectedWeek(t *testing.T) {
	cases := []struct {
		name    string
		slots   map[string]string
		current int
		want    int
	}{
		{"absent defaults to previous week", nil, 20, 18},
		{"stored value", map[string]string{SelectedWeekKey: "7"}, 20, 7},
		{"zero is a value", map[string]string{SelectedWeekKey: "0"}, 20, 0},
		{"whitespace tolerated", map[string]string{SelectedWeekKey: " 12\n"}, 20, 12},
		{"not a number", map[string]string{SelectedWeekKey: "abc"}, 20, 18},
		{"empty string", map[string]string{SelectedWeekKey: ""}, 20, 18},
		{"out of range is returned as is", map[string]string{SelectedWeekKey: "99"}, 20, 99},
		{"first week default is negative", nil, 1, -1},
	}
	for _, tc := range cases {
		s := NewStore(memory.NewWith(tc.slots), nil)
		if got := s.LoadSelectedWeek(context.Background(), tc.current); got != tc.want {
			t.Fatalf("%s: got %d, want %d", tc.name, got, tc.want)
		}
	}

	broken := NewStore(&faultyKV{Store: memory.New(), failGet: true}, nil)
	if got := broken.LoadSelectedWeek(context.Background(), 10); got != 8 {
		t.Fatalf("read error: got %d, want 8", got)
	}
}

func TestPersistSelectedWeek(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	s := NewStore(mem, nil)

	if err := s.PersistSelectedWeek(ctx, 33); err != nil {
		t.Fatalf("persist: %v", err)
	}
	if v, _, _ := mem.Get(ctx, SelectedWeekKey); v != "33" {
		t.Fatalf("slot = %q, want 33", v)
	}
	if got := s.LoadSelectedWeek(ctx, 1); got != 33 {
		t.Fatalf("reload = %d, want 33", got)
	}
}

func TestPersistPropagatesStorageErrors(t *testing.T) {
	s := NewStore(&faultyKV{Store: memory.New(), failSet: true}, nil)
	if err := s.Persist(context.Background(), core.NewBlankState()); !errors.Is(err, errStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if err := s.PersistSelectedWeek(context.Background(), 1); !errors.Is(err, errStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
}
