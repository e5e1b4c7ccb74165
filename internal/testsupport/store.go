package testsupport

import (
	"testing"

	"stitch/internal/config"
	"stitch/internal/takes"
)

// MustOpenStore opens a take registry for tests and closes it on cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *takes.Store {
	t.Helper()

	store, err := takes.Open(cfg)
	if err != nil {
		t.Fatalf("open take store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close take store: %v", err)
		}
	})
	return store
}
