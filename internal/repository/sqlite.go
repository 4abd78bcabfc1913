// Package repository is the SQLite persistence layer. Reading history and
// alert history are append-only: rows are inserted and eventually deleted by
// the retention sweep, never updated.
package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLiteRepository implements all dataset repositories over one SQLite file.
type SQLiteRepository struct {
	db *sqlx.DB
}

// NewSQLiteRepository opens (or creates) the database at dbPath.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	db, err := sqlx.Connect("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Close closes the database connection.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Ping checks database connectivity (readiness probe).
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS weather_data (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp INTEGER NOT NULL,
		indoor_temp REAL,
		indoor_humidity REAL,
		outdoor_temp REAL,
		outdoor_humidity REAL,
		wind_speed REAL,
		wind_gust REAL,
		wind_direction INTEGER,
		rain_hourly REAL,
		rain_daily REAL,
		rain_weekly REAL,
		rain_monthly REAL,
		rain_total REAL,
		pressure REAL,
		uv_index INTEGER,
		solar_radiation REAL,
		feels_like REAL,
		dew_point REAL,
		lightning_count INTEGER,
		lightning_distance REAL,
		battery_outdoor INTEGER,
		battery_indoor INTEGER,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_weather_timestamp ON weather_data(timestamp)`,
	`CREATE TABLE IF NOT EXISTS lake_data (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp INTEGER NOT NULL,
		elevation REAL,
		conservation_level REAL,
		level_diff REAL,
		storage_acre_ft REAL,
		water_temp_c REAL,
		water_temp_f REAL,
		outflow_cfs REAL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_lake_timestamp ON lake_data(timestamp)`,
	`CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		description TEXT,
		category TEXT DEFAULT 'general',
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS alerts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		condition TEXT NOT NULL,
		threshold REAL NOT NULL,
		enabled INTEGER DEFAULT 1,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS alert_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		alert_id INTEGER NOT NULL,
		triggered_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		value REAL,
		message TEXT,
		FOREIGN KEY (alert_id) REFERENCES alerts(id) ON DELETE CASCADE
	)`,
}

// defaultSettings seeds the settings table; existing rows are left alone.
var defaultSettings = [][4]string{
	{"weather_collection_interval", "5", "Minutes between weather data collection", "collection"},
	{"lake_collection_interval", "30", "Minutes between lake data collection", "collection"},
	{"data_retention_days", "90", "Days to keep weather data", "retention"},
	{"lake_retention_days", "180", "Days to keep lake data", "retention"},
	{"alert_history_retention_days", "30", "Days to keep alert history", "retention"},
	{"lake_station_id", "06865000", "USGS lake station ID", "usgs"},
	{"dam_station_id", "06865500", "USGS dam/outflow station ID", "usgs"},
	{"conservation_pool_level", "1463", "Conservation pool level (ft MSL)", "usgs"},
	{"latitude", "38.66", "Forecast location latitude", "location"},
	{"longitude", "-98.78", "Forecast location longitude", "location"},
}

// defaultAlertRules seeds the alerts table only when it is empty, so rules
// the user deleted stay deleted.
var defaultAlertRules = []struct {
	Name      string
	Type      string
	Condition string
	Threshold float64
}{
	{"High Indoor Temperature", "indoor_temp", "greater_than", 78},
	{"Low Indoor Temperature", "indoor_temp", "less_than", 65},
	{"High Outdoor Temperature", "outdoor_temp", "greater_than", 95},
	{"Low Outdoor Temperature", "outdoor_temp", "less_than", 32},
	{"High Wind Speed", "wind_speed", "greater_than", 25},
	{"Heavy Rain", "rain_hourly", "greater_than", 1},
	{"Lightning Detected", "lightning_count", "greater_than", 0},
}

// InitSchema creates tables, indexes, and default rows. Idempotent: running
// it twice produces the same row counts as running it once. The whole
// schema+seed runs in one transaction so a crash mid-seed cannot leave a
// partially initialized database.
func (r *SQLiteRepository) InitSchema(ctx context.Context) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	for _, s := range defaultSettings {
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO settings (key, value, description, category) VALUES (?, ?, ?, ?)`,
			s[0], s[1], s[2], s[3],
		)
		if err != nil {
			return fmt.Errorf("seed setting %s: %w", s[0], err)
		}
	}

	var alertCount int
	if err := tx.GetContext(ctx, &alertCount, `SELECT COUNT(*) FROM alerts`); err != nil {
		return fmt.Errorf("count alerts: %w", err)
	}
	if alertCount == 0 {
		for _, a := range defaultAlertRules {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO alerts (name, type, condition, threshold, enabled) VALUES (?, ?, ?, ?, 1)`,
				a.Name, a.Type, a.Condition, a.Threshold,
			)
			if err != nil {
				return fmt.Errorf("seed alert rule %s: %w", a.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
