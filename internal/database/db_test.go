package database_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shkang/stockfolio/internal/database"
	dbtest "github.com/shkang/stockfolio/internal/testing"
)

func TestMigrateAppliesCacheSchema(t *testing.T) {
	db, cleanup := dbtest.NewCacheDB(t)
	defer cleanup()

	// Both cache tables must exist after migration
	for _, table := range []string{"exchangerate", "commission_rates"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestHealthCheck(t *testing.T) {
	db, cleanup := dbtest.NewCacheDB(t)
	defer cleanup()

	assert.NoError(t, db.HealthCheck(context.Background()))
	assert.NoError(t, db.QuickCheck(context.Background()))
}

func TestWithTransaction(t *testing.T) {
	db, cleanup := dbtest.NewCacheDB(t)
	defer cleanup()

	t.Run("commits on success", func(t *testing.T) {
		err := database.WithTransaction(db.Conn(), func(tx *sql.Tx) error {
			_, err := tx.Exec(
				"INSERT INTO exchangerate (pair, data, expires_at) VALUES (?, ?, ?)",
				"USD/KRW", `{"rate":1400}`, 4102444800,
			)
			return err
		})
		require.NoError(t, err)

		var count int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM exchangerate").Scan(&count))
		assert.Equal(t, 1, count)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		err := database.WithTransaction(db.Conn(), func(tx *sql.Tx) error {
			if _, err := tx.Exec(
				"INSERT INTO exchangerate (pair, data, expires_at) VALUES (?, ?, ?)",
				"EUR/KRW", `{"rate":1600}`, 4102444800,
			); err != nil {
				return err
			}
			return assert.AnError
		})
		require.Error(t, err)

		var count int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM exchangerate WHERE pair = 'EUR/KRW'").Scan(&count))
		assert.Zero(t, count)
	})
}

func TestGetStats(t *testing.T) {
	db, cleanup := dbtest.NewCacheDB(t)
	defer cleanup()

	stats, err := db.GetStats()
	require.NoError(t, err)
	assert.Positive(t, stats.PageSize)
	assert.Positive(t, stats.PageCount)
}
