package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"quorum/internal/config"
	"quorum/internal/database"
	"quorum/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteConfig(t *testing.T) *config.Config {
	return &config.Config{
		Env:          "test",
		DBDriver:     "sqlite",
		DBSQLitePath: filepath.Join(t.TempDir(), "quorum.db"),
		SeedDemoData: true,
	}
}

func TestInitRuntime_SeedsDemoDataOnce(t *testing.T) {
	cfg := sqliteConfig(t)
	ctx := context.Background()

	db, rdb, err := InitRuntime(ctx, cfg, Options{SkipRedis: true})
	require.NoError(t, err)
	assert.Nil(t, rdb)

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Equal(t, int64(4), users)
	require.NoError(t, database.Close(db))

	db, _, err = InitRuntime(ctx, cfg, Options{SkipRedis: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	var questions int64
	require.NoError(t, db.Model(&models.Question{}).Count(&questions).Error)
	assert.Equal(t, int64(4), questions)
}

func TestInitRuntime_WithoutDemoData(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.SeedDemoData = false

	db, _, err := InitRuntime(context.Background(), cfg, Options{SkipRedis: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Zero(t, users)
}

func TestInitRuntime_UnknownDriver(t *testing.T) {
	_, _, err := InitRuntime(context.Background(), &config.Config{DBDriver: "oracle"}, Options{SkipRedis: true})
	assert.Error(t, err)
}
