package testsupport

import (
	"testing"

	"serdata/internal/catalog"
	"serdata/internal/config"
)

// MustOpenCatalog opens the catalog under cfg and closes it when the test ends.
func MustOpenCatalog(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}
