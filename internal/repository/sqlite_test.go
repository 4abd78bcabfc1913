package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	require.NoError(t, repo.InitSchema(context.Background()))
	return repo
}

func TestInitSchemaIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	// A second init must not duplicate seeded rows.
	require.NoError(t, repo.InitSchema(ctx))

	settings, err := repo.ListSettings(ctx)
	require.NoError(t, err)
	assert.Len(t, settings, 10)

	total, enabled, err := repo.CountAlertRules(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	assert.Equal(t, int64(7), enabled)
}

func TestInitSchemaSeedsDefaults(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	value, ok, err := repo.GetSetting(ctx, "weather_collection_interval")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "5", value)

	value, ok, err = repo.GetSetting(ctx, "lake_station_id")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "06865000", value)
}

func TestInitSchemaPreservesEditedSettings(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	require.NoError(t, repo.UpdateSettings(ctx, map[string]string{
		"weather_collection_interval": "10",
	}))
	require.NoError(t, repo.InitSchema(ctx))

	value, ok, err := repo.GetSetting(ctx, "weather_collection_interval")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "10", value, "re-init must not overwrite an edited setting")
}

func TestInitSchemaDoesNotReseedDeletedAlertRules(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	rules, err := repo.ListAlertRules(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, rules)

	require.NoError(t, repo.DeleteAlertRule(ctx, rules[0].ID))
	require.NoError(t, repo.InitSchema(ctx))

	total, _, err := repo.CountAlertRules(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), total, "a deleted default rule must stay deleted")
}

func TestPing(t *testing.T) {
	repo := newTestRepo(t)
	assert.NoError(t, repo.Ping(context.Background()))
}
