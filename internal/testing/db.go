// Package testing provides test helpers shared across packages.
package testing

import (
	"fmt"
	"testing"

	"github.com/shkang/stockfolio/internal/database"
)

// NewCacheDB creates an in-memory cache database with the cache schema
// applied. The returned cleanup function is idempotent.
func NewCacheDB(t *testing.T) (*database.DB, func()) {
	t.Helper()

	// Unique shared-cache name so parallel tests don't collide
	uri := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())

	db, err := database.New(database.Config{
		Path:    uri,
		Profile: database.ProfileCache,
		Name:    "cache",
	})
	if err != nil {
		t.Fatalf("failed to open in-memory cache database: %v", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		t.Fatalf("failed to apply cache schema: %v", err)
	}

	closed := false
	cleanup := func() {
		if closed {
			return
		}
		closed = true
		db.Close()
	}

	return db, cleanup
}
