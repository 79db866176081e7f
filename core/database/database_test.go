package database_test

import (
	"testing"

	"render-manager/core/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_SQLite(t *testing.T) {
	cfg := database.Config{
		Driver: "sqlite",
		Name:   ":memory:",
	}

	db, err := database.Connect(cfg)
	require.NoError(t, err)
	require.NotNil(t, db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.NoError(t, sqlDB.Ping())
}

func TestConnect_EmptyDriverDefaultsToSQLite(t *testing.T) {
	cfg := database.Config{Name: ":memory:"}

	db, err := database.Connect(cfg)
	require.NoError(t, err)
	assert.NotNil(t, db)
}

func TestConnect_UnsupportedDriver(t *testing.T) {
	cfg := database.Config{Driver: "postgres"}

	_, err := database.Connect(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}
