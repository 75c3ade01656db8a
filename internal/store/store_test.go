package store

import (
	"testing"

	"github.com/AdamBeresnev/op-tournament/internal/db"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database and applies migrations
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.Open("file::memory:")
	require.NoError(t, err, "Failed to connect to in-memory DB")
	// every pooled connection would otherwise get its own empty memory database
	database.SetMaxOpenConns(1)

	require.NoError(t, db.RunMigrations(database.DB), "Failed to apply migrations")

	t.Cleanup(func() { database.Close() })
	return database
}
