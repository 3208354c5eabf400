package testsupport

import (
	"testing"

	"wikiepisodes/internal/config"
	"wikiepisodes/internal/logging"
	"wikiepisodes/internal/wikicache"
)

// MustOpenCache opens the response cache configured on cfg and registers cleanup.
func MustOpenCache(t testing.TB, cfg *config.Config) *wikicache.Store {
	t.Helper()

	store, err := wikicache.Open(cfg.Cache.Path, cfg.CacheTTL(), logging.NewNop())
	if err != nil {
		t.Fatalf("wikicache.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
