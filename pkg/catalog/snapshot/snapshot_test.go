package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mercator-hq/hermes/pkg/providers"
)

func newTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "catalog.db")

	store, err := NewWithConfig(Config{
		DBPath:             dbPath,
		CheckpointInterval: 1 * time.Hour, // Disable checkpointing for tests
		BusyTimeout:        5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Failed to create snapshot store: %v", err)
	}

	cleanup := func() {
		store.Close()
		os.Remove(dbPath)
		os.Remove(dbPath + "-shm")
		os.Remove(dbPath + "-wal")
	}

	return store, cleanup
}

func TestStore_SaveAndLoad(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	ctx := context.Background()
	fetchedAt := time.Now().Add(-time.Minute).Truncate(time.Second)

	models := []providers.ModelDescriptor{
		{
			ID:                  "gpt-4o",
			DisplayName:         "GPT-4o",
			Provider:            providers.ProviderOpenAI,
			ContextWindowTokens: 128000,
		},
		{
			ID:                  "llama-3-70b",
			DisplayName:         "Llama 3 70b",
			Provider:            providers.ProviderGateway,
			ContextWindowTokens: 4096,
		},
	}

	if err := store.Save(ctx, models, fetchedAt); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, loadedAt, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(loaded) != 2 {
		t.Fatalf("Load returned %d models, want 2", len(loaded))
	}
	if loaded[0].ID != "gpt-4o" {
		t.Errorf("loaded[0].ID = %s, want gpt-4o", loaded[0].ID)
	}
	if loaded[0].ContextWindowTokens != 128000 {
		t.Errorf("loaded[0].ContextWindowTokens = %d, want 128000", loaded[0].ContextWindowTokens)
	}
	if loaded[1].Provider != providers.ProviderGateway {
		t.Errorf("loaded[1].Provider = %s, want %s", loaded[1].Provider, providers.ProviderGateway)
	}
	if !loadedAt.Equal(fetchedAt) {
		t.Errorf("loaded fetchedAt = %v, want %v", loadedAt, fetchedAt)
	}
}

func TestStore_LoadEmpty(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	models, fetchedAt, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if models != nil {
		t.Errorf("Load on empty store returned %d models, want nil", len(models))
	}
	if !fetchedAt.IsZero() {
		t.Errorf("Load on empty store returned fetchedAt = %v, want zero time", fetchedAt)
	}
}

func TestStore_SaveOverwrites(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	ctx := context.Background()

	first := []providers.ModelDescriptor{{ID: "gpt-4o", Provider: providers.ProviderOpenAI}}
	if err := store.Save(ctx, first, time.Now()); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}

	second := []providers.ModelDescriptor{
		{ID: "claude-3-opus-20240229", Provider: providers.ProviderAnthropic},
		{ID: "llama-3-70b", Provider: providers.ProviderGateway},
	}
	if err := store.Save(ctx, second, time.Now()); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	loaded, _, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("Load returned %d models, want 2 (latest snapshot only)", len(loaded))
	}
	if loaded[0].ID != "claude-3-opus-20240229" {
		t.Errorf("loaded[0].ID = %s, want claude-3-opus-20240229", loaded[0].ID)
	}
}

func TestStore_SaveEmptyRejected(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	if err := store.Save(context.Background(), nil, time.Now()); err == nil {
		t.Error("Save with no models succeeded, want error")
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "catalog.db")

	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create snapshot store: %v", err)
	}

	ctx := context.Background()
	models := []providers.ModelDescriptor{{ID: "gpt-4o", Provider: providers.ProviderOpenAI}}
	if err := store.Save(ctx, models, time.Now()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen snapshot store: %v", err)
	}
	defer reopened.Close()

	loaded, _, err := reopened.Load(ctx)
	if err != nil {
		t.Fatalf("Load after reopen failed: %v", err)
	}
	if len(loaded) != 1 || loaded[0].ID != "gpt-4o" {
		t.Errorf("Load after reopen = %v, want the saved snapshot", loaded)
	}
}

func TestStore_CloseIdempotent(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	if err := store.Close(); err != nil {
		t.Errorf("first Close failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}

func TestNewWithConfig_EmptyPath(t *testing.T) {
	if _, err := NewWithConfig(Config{}); err == nil {
		t.Error("NewWithConfig with empty path succeeded, want error")
	}
}
