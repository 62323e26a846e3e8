package pricingcfg

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupConfigTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	// Mirrors the pricing_configs migration: id is an identity column the
	// database generates, never supplied by the insert. sqlite's plain
	// INTEGER PRIMARY KEY is the rowid alias with the same behavior.
	ddl := `
CREATE TABLE IF NOT EXISTS pricing_configs (
  id INTEGER PRIMARY KEY,
  version INTEGER NOT NULL DEFAULT 1,
  payload TEXT NOT NULL,
  updated_by TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func TestRepositorySaveBumpsVersion(t *testing.T) {
	db := setupConfigTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	cfg := Default()
	v1, err := repo.Save(ctx, cfg, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, 1, v1)

	cfg.GSTRate = 0.05
	v2, err := repo.Save(ctx, cfg, "admin-2")
	require.NoError(t, err)
	assert.Equal(t, 2, v2)

	stored, version, err := repo.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, version)
	assert.InDelta(t, 0.05, stored.GSTRate, 1e-9)
	assert.Len(t, stored.Tiers, len(cfg.Tiers))
}

func TestRepositoryFetchEmptyTable(t *testing.T) {
	db := setupConfigTestDB(t)
	repo := NewRepository(db)

	_, _, err := repo.Fetch(context.Background())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryFetchRejectsCorruptPayload(t *testing.T) {
	db := setupConfigTestDB(t)
	require.NoError(t, db.Exec(`INSERT INTO pricing_configs (version, payload) VALUES (1, 'not-json')`).Error)

	repo := NewRepository(db)
	_, _, err := repo.Fetch(context.Background())
	require.Error(t, err)
}
