package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func TestSQLiteRepository(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "data", "comida.db")

	repo, err := NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatalf("Failed to open repository: %v", err)
	}
	defer repo.Close()

	if _, ok, err := repo.Get(ctx, "comida-tracker"); ok || err != nil {
		t.Fatalf("expected missing slot, ok=%v err=%v", ok, err)
	}

	if err := repo.Set(ctx, "selected-week", "7"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.Set(ctx, "selected-week", "8"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	v, ok, err := repo.Get(ctx, "selected-week")
	if err != nil || !ok || v != "8" {
		t.Fatalf("unexpected get: v=%q ok=%v err=%v", v, ok, err)
	}

	n, err := repo.Count(ctx)
	if err != nil || n != 1 {
		t.Fatalf("expected 1 slot, got %d (err=%v)", n, err)
	}

	if err := repo.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestSQLiteRepositoryReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "comida.db")

	repo, err := NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := repo.Set(ctx, "comida-tracker", "[]"); err != nil {
		t.Fatalf("set: %v", err)
	}
	repo.Close()

	// Second open runs migrations again against an up-to-date schema.
	repo, err = NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer repo.Close()

	v, ok, err := repo.Get(ctx, "comida-tracker")
	if err != nil || !ok || v != "[]" {
		t.Fatalf("unexpected get after reopen: v=%q ok=%v err=%v", v, ok, err)
	}
}
