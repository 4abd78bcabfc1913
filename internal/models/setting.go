package models

import "time"

// Setting is one key/value configuration row. Values are strings;
// numeric parsing with defaults happens in service.Settings.
type Setting struct {
	Key         string    `db:"key" json:"key"`
	Value       string    `db:"value" json:"value"`
	Description string    `db:"description" json:"description"`
	Category    string    `db:"category" json:"category"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// DataStats summarizes table sizes and time ranges for the admin UI.
type DataStats struct {
	WeatherRecords      int64   `json:"weather_records"`
	LakeRecords         int64   `json:"lake_records"`
	AlertHistoryRecords int64   `json:"alert_history_records"`
	AlertRules          int64   `json:"alert_rules"`
	WeatherOldest       *int64  `json:"weather_oldest"`
	WeatherNewest       *int64  `json:"weather_newest"`
	LakeOldest          *int64  `json:"lake_oldest"`
	LakeNewest          *int64  `json:"lake_newest"`
	DBSizeBytes         int64   `json:"db_size_bytes"`
	DBSizeMB            float64 `json:"db_size_mb"`
}

// ComponentStatus is the start/stop state of one background service.
type ComponentStatus struct {
	Running         bool `json:"running"`
	IntervalMinutes int  `json:"interval_minutes,omitempty"`
}
