package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kanopolanes/lakehub-backend/internal/models"
)

// ListAlertRules returns all alert rules, newest first. The seeded defaults
// share one created_at, so id breaks the tie.
func (r *SQLiteRepository) ListAlertRules(ctx context.Context) ([]*models.AlertRule, error) {
	var rules []*models.AlertRule
	err := r.db.SelectContext(ctx, &rules, `SELECT * FROM alerts ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list alert rules: %w", err)
	}
	return rules, nil
}

// ListEnabledAlertRules returns only the rules the evaluator should check.
func (r *SQLiteRepository) ListEnabledAlertRules(ctx context.Context) ([]*models.AlertRule, error) {
	var rules []*models.AlertRule
	err := r.db.SelectContext(ctx, &rules, `SELECT * FROM alerts WHERE enabled = 1`)
	if err != nil {
		return nil, fmt.Errorf("list enabled alert rules: %w", err)
	}
	return rules, nil
}

// GetAlertRule returns one rule, or (nil, nil) when it does not exist.
func (r *SQLiteRepository) GetAlertRule(ctx context.Context, id int64) (*models.AlertRule, error) {
	var rule models.AlertRule
	err := r.db.GetContext(ctx, &rule, `SELECT * FROM alerts WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get alert rule: %w", err)
	}
	return &rule, nil
}

// CreateAlertRule inserts a rule and fills in its generated ID.
func (r *SQLiteRepository) CreateAlertRule(ctx context.Context, rule *models.AlertRule) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO alerts (name, type, condition, threshold, enabled) VALUES (?, ?, ?, ?, ?)`,
		rule.Name, rule.Type, rule.Condition, rule.Threshold, rule.Enabled)
	if err != nil {
		return fmt.Errorf("create alert rule: %w", err)
	}
	rule.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create alert rule id: %w", err)
	}
	return nil
}

// UpdateAlertRule overwrites the rule's definition fields.
func (r *SQLiteRepository) UpdateAlertRule(ctx context.Context, rule *models.AlertRule) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE alerts
		SET name = ?, type = ?, condition = ?, threshold = ?, enabled = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, rule.Name, rule.Type, rule.Condition, rule.Threshold, rule.Enabled, rule.ID)
	if err != nil {
		return fmt.Errorf("update alert rule: %w", err)
	}
	return nil
}

// ToggleAlertRule flips the enabled flag and returns the updated rule.
func (r *SQLiteRepository) ToggleAlertRule(ctx context.Context, id int64) (*models.AlertRule, error) {
	rule, err := r.GetAlertRule(ctx, id)
	if err != nil || rule == nil {
		return rule, err
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE alerts SET enabled = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		!rule.Enabled, id)
	if err != nil {
		return nil, fmt.Errorf("toggle alert rule: %w", err)
	}
	return r.GetAlertRule(ctx, id)
}

// DeleteAlertRule removes a rule; its history rows cascade.
func (r *SQLiteRepository) DeleteAlertRule(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM alerts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete alert rule: %w", err)
	}
	return nil
}

// InsertAlertEvent appends one fired-alert record. Immutable once written.
func (r *SQLiteRepository) InsertAlertEvent(ctx context.Context, event *models.AlertEvent) error {
	if event.TriggeredAt.IsZero() {
		event.TriggeredAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO alert_history (alert_id, triggered_at, value, message) VALUES (?, ?, ?, ?)`,
		event.AlertID, event.TriggeredAt, event.Value, event.Message)
	if err != nil {
		return fmt.Errorf("insert alert event: %w", err)
	}
	return nil
}

// ListAlertEvents returns fired alerts joined with their rule, newest first.
func (r *SQLiteRepository) ListAlertEvents(ctx context.Context, limit int) ([]*models.AlertEvent, error) {
	var events []*models.AlertEvent
	err := r.db.SelectContext(ctx, &events, `
		SELECT ah.id, ah.alert_id, ah.triggered_at, ah.value, ah.message,
		       a.name AS alert_name, a.type
		FROM alert_history ah
		JOIN alerts a ON ah.alert_id = a.id
		ORDER BY ah.triggered_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list alert events: %w", err)
	}
	return events, nil
}

// DeleteAlertEventsBefore removes events triggered strictly before cutoff.
func (r *SQLiteRepository) DeleteAlertEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM alert_history WHERE triggered_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete alert events: %w", err)
	}
	return res.RowsAffected()
}

// PurgeAlertEvents removes all alert history rows.
func (r *SQLiteRepository) PurgeAlertEvents(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM alert_history`); err != nil {
		return fmt.Errorf("purge alert history: %w", err)
	}
	return nil
}

// CountAlertEvents returns the total number of alert history rows.
func (r *SQLiteRepository) CountAlertEvents(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM alert_history`); err != nil {
		return 0, fmt.Errorf("count alert history: %w", err)
	}
	return count, nil
}

// CountAlertRules returns rule counts (total, enabled).
func (r *SQLiteRepository) CountAlertRules(ctx context.Context) (total, enabled int64, err error) {
	if err = r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM alerts`); err != nil {
		return 0, 0, fmt.Errorf("count alert rules: %w", err)
	}
	if err = r.db.GetContext(ctx, &enabled, `SELECT COUNT(*) FROM alerts WHERE enabled = 1`); err != nil {
		return 0, 0, fmt.Errorf("count enabled alert rules: %w", err)
	}
	return total, enabled, nil
}
