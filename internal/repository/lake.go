package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kanopolanes/lakehub-backend/internal/models"
)

// InsertLakeReading appends one lake reading.
func (r *SQLiteRepository) InsertLakeReading(ctx context.Context, reading *models.LakeReading) error {
	query := `
		INSERT INTO lake_data (
			timestamp, elevation, conservation_level, level_diff,
			storage_acre_ft, water_temp_c, water_temp_f, outflow_cfs
		) VALUES (
			:timestamp, :elevation, :conservation_level, :level_diff,
			:storage_acre_ft, :water_temp_c, :water_temp_f, :outflow_cfs
		)
	`
	if _, err := r.db.NamedExecContext(ctx, query, reading); err != nil {
		return fmt.Errorf("insert lake reading: %w", err)
	}
	return nil
}

// LatestLakeReading returns the newest lake reading, or (nil, nil) when empty.
func (r *SQLiteRepository) LatestLakeReading(ctx context.Context) (*models.LakeReading, error) {
	var reading models.LakeReading
	err := r.db.GetContext(ctx, &reading,
		`SELECT * FROM lake_data ORDER BY timestamp DESC LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest lake reading: %w", err)
	}
	return &reading, nil
}

// LakeHistory returns lake readings with timestamp >= since, newest first.
func (r *SQLiteRepository) LakeHistory(ctx context.Context, since int64, limit int) ([]*models.LakeReading, error) {
	var readings []*models.LakeReading
	err := r.db.SelectContext(ctx, &readings,
		`SELECT * FROM lake_data WHERE timestamp >= ? ORDER BY timestamp DESC LIMIT ?`,
		since, limit)
	if err != nil {
		return nil, fmt.Errorf("lake history: %w", err)
	}
	return readings, nil
}

// DeleteLakeBefore removes lake readings strictly older than cutoff (epoch ms).
func (r *SQLiteRepository) DeleteLakeBefore(ctx context.Context, cutoff int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM lake_data WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete lake readings: %w", err)
	}
	return res.RowsAffected()
}

// PurgeLake removes all lake readings.
func (r *SQLiteRepository) PurgeLake(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM lake_data`); err != nil {
		return fmt.Errorf("purge lake data: %w", err)
	}
	return nil
}

// CountLake returns the total number of lake readings.
func (r *SQLiteRepository) CountLake(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM lake_data`); err != nil {
		return 0, fmt.Errorf("count lake data: %w", err)
	}
	return count, nil
}

// LakeTimestampRange returns the oldest and newest capture timestamps.
func (r *SQLiteRepository) LakeTimestampRange(ctx context.Context) (oldest, newest *int64, err error) {
	var bounds struct {
		Oldest *int64 `db:"oldest"`
		Newest *int64 `db:"newest"`
	}
	err = r.db.GetContext(ctx, &bounds,
		`SELECT MIN(timestamp) AS oldest, MAX(timestamp) AS newest FROM lake_data`)
	if err != nil {
		return nil, nil, fmt.Errorf("lake timestamp range: %w", err)
	}
	return bounds.Oldest, bounds.Newest, nil
}
