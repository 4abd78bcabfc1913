package models

import "time"

// LakeReading is one timestamped snapshot of lake and dam gauge values.
type LakeReading struct {
	ID                int64      `db:"id" json:"id"`
	Timestamp         int64      `db:"timestamp" json:"timestamp"` // epoch ms
	Elevation         *float64   `db:"elevation" json:"elevation"`
	ConservationLevel *float64   `db:"conservation_level" json:"conservation_level"`
	LevelDiff         *float64   `db:"level_diff" json:"level_diff"`
	StorageAcreFt     *float64   `db:"storage_acre_ft" json:"storage_acre_ft"`
	WaterTempC        *float64   `db:"water_temp_c" json:"water_temp_c"`
	WaterTempF        *float64   `db:"water_temp_f" json:"water_temp_f"`
	OutflowCFS        *float64   `db:"outflow_cfs" json:"outflow_cfs"`
	CreatedAt         *time.Time `db:"created_at" json:"created_at,omitempty"`
}

// LakeConditions is the live view served by /api/lake/conditions.
// LastUpdated is the gauge's own observation time, not our fetch time.
type LakeConditions struct {
	Name              string   `json:"name"`
	Elevation         *float64 `json:"elevation"`
	ConservationLevel float64  `json:"conservation_level"`
	LevelDiff         *float64 `json:"level_diff"`
	StorageAcreFt     *float64 `json:"storage_acre_ft"`
	WaterTempC        *float64 `json:"water_temp_c"`
	WaterTempF        *float64 `json:"water_temp_f"`
	OutflowCFS        *float64 `json:"outflow_cfs"`
	LastUpdated       *string  `json:"last_updated"`
}
