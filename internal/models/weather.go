package models

import "time"

// WeatherReading is one timestamped snapshot from the weather station.
// Sensor fields are pointers: any field may be absent from the vendor
// payload, and zero is a valid reading that must not stand in for missing.
type WeatherReading struct {
	ID                int64      `db:"id" json:"id"`
	Timestamp         int64      `db:"timestamp" json:"timestamp"` // capture time, epoch ms
	IndoorTemp        *float64   `db:"indoor_temp" json:"indoor_temp"`
	IndoorHumidity    *float64   `db:"indoor_humidity" json:"indoor_humidity"`
	OutdoorTemp       *float64   `db:"outdoor_temp" json:"outdoor_temp"`
	OutdoorHumidity   *float64   `db:"outdoor_humidity" json:"outdoor_humidity"`
	WindSpeed         *float64   `db:"wind_speed" json:"wind_speed"`
	WindGust          *float64   `db:"wind_gust" json:"wind_gust"`
	WindDirection     *int64     `db:"wind_direction" json:"wind_direction"`
	RainHourly        *float64   `db:"rain_hourly" json:"rain_hourly"`
	RainDaily         *float64   `db:"rain_daily" json:"rain_daily"`
	RainWeekly        *float64   `db:"rain_weekly" json:"rain_weekly"`
	RainMonthly       *float64   `db:"rain_monthly" json:"rain_monthly"`
	RainTotal         *float64   `db:"rain_total" json:"rain_total"`
	Pressure          *float64   `db:"pressure" json:"pressure"`
	UVIndex           *int64     `db:"uv_index" json:"uv_index"`
	SolarRadiation    *float64   `db:"solar_radiation" json:"solar_radiation"`
	FeelsLike         *float64   `db:"feels_like" json:"feels_like"`
	DewPoint          *float64   `db:"dew_point" json:"dew_point"`
	LightningCount    *int64     `db:"lightning_count" json:"lightning_count"`
	LightningDistance *float64   `db:"lightning_distance" json:"lightning_distance"`
	BatteryOutdoor    *int64     `db:"battery_outdoor" json:"battery_outdoor"`
	BatteryIndoor     *int64     `db:"battery_indoor" json:"battery_indoor"`
	CreatedAt         *time.Time `db:"created_at" json:"created_at,omitempty"`
}

// WeatherStats aggregates a window of weather history for the dashboard.
type WeatherStats struct {
	MinTemp       *float64 `db:"min_temp" json:"min_temp"`
	MaxTemp       *float64 `db:"max_temp" json:"max_temp"`
	AvgTemp       *float64 `db:"avg_temp" json:"avg_temp"`
	MinIndoorTemp *float64 `db:"min_indoor_temp" json:"min_indoor_temp"`
	MaxIndoorTemp *float64 `db:"max_indoor_temp" json:"max_indoor_temp"`
	AvgIndoorTemp *float64 `db:"avg_indoor_temp" json:"avg_indoor_temp"`
	MaxWind       *float64 `db:"max_wind" json:"max_wind"`
	MaxGust       *float64 `db:"max_gust" json:"max_gust"`
	TotalRain     *float64 `db:"total_rain" json:"total_rain"`
	AvgHumidity   *float64 `db:"avg_humidity" json:"avg_humidity"`
	MaxLightning  *int64   `db:"max_lightning" json:"max_lightning"`
}
