package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMigrations(t *testing.T) {
	database, err := Open("file::memory:")
	require.NoError(t, err)
	defer database.Close()
	database.SetMaxOpenConns(1)

	require.NoError(t, RunMigrations(database.DB))
	// second run is a no-op
	require.NoError(t, RunMigrations(database.DB))

	var tables []string
	err = database.Select(&tables, "SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name")
	require.NoError(t, err)

	assert.Contains(t, tables, "users")
	assert.Contains(t, tables, "app_state")
	assert.Contains(t, tables, "sessions")
}
