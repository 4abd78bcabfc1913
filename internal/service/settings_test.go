package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanopolanes/lakehub-backend/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRepo(t *testing.T) *repository.SQLiteRepository {
	t.Helper()
	repo, err := repository.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	require.NoError(t, repo.InitSchema(context.Background()))
	return repo
}

func TestSettingsGet(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	settings := NewSettings(repo, testLogger())

	assert.Equal(t, "06865000", settings.Get(ctx, KeyLakeStationID, "fallback"))
	assert.Equal(t, "fallback", settings.Get(ctx, "missing_key", "fallback"))
}

func TestSettingsNumber(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	settings := NewSettings(repo, testLogger())

	assert.Equal(t, 1463.0, settings.Number(ctx, KeyConservationPoolLevel, 0))
	assert.Equal(t, 7.5, settings.Number(ctx, "missing_key", 7.5))
}

func TestSettingsNumberUnparseable(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	require.NoError(t, repo.UpdateSettings(ctx, map[string]string{
		KeyWeatherRetentionDays: "ninety",
	}))
	settings := NewSettings(repo, testLogger())

	// A garbage value falls back instead of failing the caller.
	assert.Equal(t, 90.0, settings.Number(ctx, KeyWeatherRetentionDays, 90))
}

func TestSettingsMinutesRejectsNonPositive(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	settings := NewSettings(repo, testLogger())

	require.NoError(t, repo.UpdateSettings(ctx, map[string]string{KeyWeatherInterval: "0"}))
	assert.Equal(t, DefaultWeatherIntervalMinutes, settings.Minutes(ctx, KeyWeatherInterval, DefaultWeatherIntervalMinutes))

	require.NoError(t, repo.UpdateSettings(ctx, map[string]string{KeyWeatherInterval: "-3"}))
	assert.Equal(t, DefaultWeatherIntervalMinutes, settings.Minutes(ctx, KeyWeatherInterval, DefaultWeatherIntervalMinutes))

	require.NoError(t, repo.UpdateSettings(ctx, map[string]string{KeyWeatherInterval: "15"}))
	assert.Equal(t, 15, settings.Minutes(ctx, KeyWeatherInterval, DefaultWeatherIntervalMinutes))
}

func TestSettingsDays(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	settings := NewSettings(repo, testLogger())

	assert.Equal(t, 180, settings.Days(ctx, KeyLakeRetentionDays, 1))
	assert.Equal(t, 30, settings.Days(ctx, "missing_key", 30))
}
