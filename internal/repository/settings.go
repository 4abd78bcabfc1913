package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kanopolanes/lakehub-backend/internal/models"
)

// ListSettings returns every settings row, grouped for the admin UI.
func (r *SQLiteRepository) ListSettings(ctx context.Context) ([]*models.Setting, error) {
	var settings []*models.Setting
	err := r.db.SelectContext(ctx, &settings,
		`SELECT * FROM settings ORDER BY category, key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	return settings, nil
}

// GetSetting returns one value; ok is false when the key does not exist.
func (r *SQLiteRepository) GetSetting(ctx context.Context, key string) (value string, ok bool, err error) {
	err = r.db.GetContext(ctx, &value, `SELECT value FROM settings WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %s: %w", key, err)
	}
	return value, true, nil
}

// UpdateSettings writes multiple values in one transaction. Unknown keys
// are ignored (only existing rows are updated), matching the admin UI which
// edits the seeded set.
func (r *SQLiteRepository) UpdateSettings(ctx context.Context, values map[string]string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin settings transaction: %w", err)
	}
	defer tx.Rollback()

	for key, value := range values {
		_, err := tx.ExecContext(ctx,
			`UPDATE settings SET value = ?, updated_at = CURRENT_TIMESTAMP WHERE key = ?`,
			value, key)
		if err != nil {
			return fmt.Errorf("update setting %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit settings transaction: %w", err)
	}
	return nil
}
