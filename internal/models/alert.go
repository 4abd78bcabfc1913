package models

import "time"

// Alert rule comparison operators.
const (
	ConditionGreaterThan = "greater_than"
	ConditionLessThan    = "less_than"
	ConditionEqualTo     = "equal_to"
	// ConditionBetween is accepted at the schema level but never evaluates;
	// kept for forward compatibility with range alerts.
	ConditionBetween = "between"
)

// AlertRule is a user-defined threshold on one weather reading field.
type AlertRule struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Type      string    `db:"type" json:"type"` // reading field name, e.g. "outdoor_temp"
	Condition string    `db:"condition" json:"condition"`
	Threshold float64   `db:"threshold" json:"threshold"`
	Enabled   bool      `db:"enabled" json:"enabled"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// AlertEvent records that a rule fired. Immutable once written;
// purged only by the retention sweeper.
type AlertEvent struct {
	ID          int64     `db:"id" json:"id"`
	AlertID     int64     `db:"alert_id" json:"alert_id"`
	TriggeredAt time.Time `db:"triggered_at" json:"triggered_at"`
	Value       float64   `db:"value" json:"value"`
	Message     string    `db:"message" json:"message"`
	// Joined from the rule for history listings.
	AlertName string `db:"alert_name" json:"alert_name,omitempty"`
	Type      string `db:"type" json:"type,omitempty"`
}
