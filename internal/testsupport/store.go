package testsupport

import (
	"context"
	"testing"

	"absubmit/internal/config"
	"absubmit/internal/library"
)

// MustOpenStore opens a library.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *library.Store {
	t.Helper()

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	store, err := library.Open(cfg.Paths.LibraryDB)
	if err != nil {
		t.Fatalf("library.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// AddItem inserts an item into the store for tests.
func AddItem(t testing.TB, store *library.Store, item library.Item) *library.Item {
	t.Helper()

	added, err := store.Add(context.Background(), item)
	if err != nil {
		t.Fatalf("store.Add: %v", err)
	}
	return added
}
