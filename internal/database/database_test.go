package database

import (
	"context"
	"testing"
	"testing/fstest"

	"quorum/internal/config"
	"quorum/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openMemory(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared&_foreign_keys=on"), &config.Config{Env: "test"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func TestConfigurePool_SQLiteSingleConnection(t *testing.T) {
	db := openMemory(t)

	require.NoError(t, configurePool(db, &config.Config{DBMaxOpenConns: 10, DBMaxIdleConns: 5, DBConnMaxLifetimeMinutes: 15}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "quorum.db?_foreign_keys=on", SQLiteDSN("quorum.db"))
	assert.Equal(t, "file:x?mode=memory&_foreign_keys=on", SQLiteDSN("file:x?mode=memory"))
	assert.Equal(t, "file:x?_fk=1", SQLiteDSN("file:x?_fk=1"))
}

func TestDialector(t *testing.T) {
	d, err := Dialector(&config.Config{DBDriver: "sqlite", DBSQLitePath: "x.db"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	d, err = Dialector(&config.Config{DBDriver: "postgres"})
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	_, err = Dialector(&config.Config{DBDriver: "mysql"})
	assert.Error(t, err)
}

func TestSchemaPolicy(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.Config
		wantSQL  bool
		wantAuto bool
		wantErr  bool
	}{
		{"hybrid in development", config.Config{DBDriver: "postgres", Env: "development", DBSchemaMode: "hybrid"}, true, true, false},
		{"hybrid in production", config.Config{DBDriver: "postgres", Env: "production", DBSchemaMode: "hybrid"}, true, false, false},
		{"empty mode defaults to hybrid", config.Config{DBDriver: "postgres", Env: "test"}, true, true, false},
		{"sql only", config.Config{DBDriver: "postgres", Env: "development", DBSchemaMode: "sql"}, true, false, false},
		{"auto refused in production", config.Config{DBDriver: "postgres", Env: "production", DBSchemaMode: "auto"}, false, false, true},
		{"auto allowed with override", config.Config{DBDriver: "postgres", Env: "production", DBSchemaMode: "auto", DBAutoMigrateAllowDestructive: true}, false, true, false},
		{"sqlite always auto", config.Config{DBDriver: "sqlite", Env: "production", DBSchemaMode: "sql"}, false, true, false},
		{"unknown mode", config.Config{DBDriver: "postgres", DBSchemaMode: "yolo"}, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runSQL, runAuto, err := schemaPolicy(&tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, runSQL)
			assert.Equal(t, tt.wantAuto, runAuto)
		})
	}
}

func TestApplySchema_SQLiteCreatesTables(t *testing.T) {
	db := openMemory(t)
	require.NoError(t, ApplySchema(context.Background(), db, &config.Config{DBDriver: "sqlite", Env: "test"}))

	for _, m := range PersistentModels() {
		assert.True(t, db.Migrator().HasTable(m), "missing table for %T", m)
	}
	assert.True(t, db.Migrator().HasIndex(&models.Like{}, "idx_likes_answer_user"))
}

func TestEmbeddedMigrations(t *testing.T) {
	ms := GetMigrations()
	require.NotEmpty(t, ms)
	for i, m := range ms {
		assert.NotEmpty(t, m.UpScript, m.String())
		assert.NotEmpty(t, m.DownScript, m.String())
		if i > 0 {
			assert.Greater(t, m.Version, ms[i-1].Version)
		}
	}
	assert.Equal(t, "000001_initial_schema", GetMigrationByVersion(1).String())
	assert.Nil(t, GetMigrationByVersion(999))
}

func TestLoadMigrations_Errors(t *testing.T) {
	_, err := LoadMigrations(fstest.MapFS{
		"m/000001_a.up.sql": {Data: []byte("SELECT 1;")},
	}, "m")
	assert.Error(t, err, "missing down script")

	_, err = LoadMigrations(fstest.MapFS{
		"m/abc_a.up.sql":   {Data: []byte("SELECT 1;")},
		"m/abc_a.down.sql": {Data: []byte("SELECT 1;")},
	}, "m")
	assert.Error(t, err, "bad version")
}

func TestRunMigrations_AppliesAndReverts(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	ms, err := LoadMigrations(fstest.MapFS{
		"m/000001_widgets.up.sql":   {Data: []byte("CREATE TABLE widgets (id INTEGER PRIMARY KEY);")},
		"m/000001_widgets.down.sql": {Data: []byte("DROP TABLE widgets;")},
		"m/000002_gadgets.up.sql":   {Data: []byte("CREATE TABLE gadgets (id INTEGER PRIMARY KEY);")},
		"m/000002_gadgets.down.sql": {Data: []byte("DROP TABLE gadgets;")},
	}, "m")
	require.NoError(t, err)

	require.NoError(t, runMigrations(ctx, db, ms))
	require.NoError(t, runMigrations(ctx, db, ms), "second run is a no-op")

	store := NewMigrationStore(db)
	applied, err := store.GetAppliedMigrations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, applied)
	assert.True(t, db.Migrator().HasTable("gadgets"))

	require.NoError(t, store.RevertMigration(ctx, ms[1]))
	assert.False(t, db.Migrator().HasTable("gadgets"))
	applied, err = store.GetAppliedMigrations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, applied)

	err = runMigrations(ctx, db, ms[1:])
	assert.ErrorContains(t, err, "unknown versions")
}

func TestPersistentModels_ForumTables(t *testing.T) {
	var found []string
	for _, m := range PersistentModels() {
		switch m.(type) {
		case *models.User:
			found = append(found, "users")
		case *models.Profile:
			found = append(found, "profiles")
		case *models.Question:
			found = append(found, "questions")
		case *models.Answer:
			found = append(found, "answers")
		case *models.Like:
			found = append(found, "likes")
		}
	}
	assert.Equal(t, []string{"users", "profiles", "questions", "answers", "likes"}, found)
}
