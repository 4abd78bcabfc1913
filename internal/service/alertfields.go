package service

import "github.com/kanopolanes/lakehub-backend/internal/models"

// AlertField maps a rule's type string onto one weather reading field.
// The enumerated table means an unknown or misspelled rule type is rejected
// at rule-creation time instead of silently never matching.
type AlertField struct {
	Label   string
	Unit    string
	Extract func(*models.WeatherReading) *float64
}

var alertFields = map[string]AlertField{
	"indoor_temp": {
		Label:   "Indoor Temperature",
		Unit:    "°F",
		Extract: func(r *models.WeatherReading) *float64 { return r.IndoorTemp },
	},
	"outdoor_temp": {
		Label:   "Outdoor Temperature",
		Unit:    "°F",
		Extract: func(r *models.WeatherReading) *float64 { return r.OutdoorTemp },
	},
	"indoor_humidity": {
		Label:   "Indoor Humidity",
		Unit:    "%",
		Extract: func(r *models.WeatherReading) *float64 { return r.IndoorHumidity },
	},
	"outdoor_humidity": {
		Label:   "Outdoor Humidity",
		Unit:    "%",
		Extract: func(r *models.WeatherReading) *float64 { return r.OutdoorHumidity },
	},
	"wind_speed": {
		Label:   "Wind Speed",
		Unit:    " mph",
		Extract: func(r *models.WeatherReading) *float64 { return r.WindSpeed },
	},
	"wind_gust": {
		Label:   "Wind Gust",
		Unit:    " mph",
		Extract: func(r *models.WeatherReading) *float64 { return r.WindGust },
	},
	"rain_hourly": {
		Label:   "Hourly Rain",
		Unit:    " in",
		Extract: func(r *models.WeatherReading) *float64 { return r.RainHourly },
	},
	"rain_daily": {
		Label:   "Daily Rain",
		Unit:    " in",
		Extract: func(r *models.WeatherReading) *float64 { return r.RainDaily },
	},
	"pressure": {
		Label:   "Barometric Pressure",
		Unit:    " inHg",
		Extract: func(r *models.WeatherReading) *float64 { return r.Pressure },
	},
	"uv_index": {
		Label:   "UV Index",
		Unit:    "",
		Extract: func(r *models.WeatherReading) *float64 { return intField(r.UVIndex) },
	},
	"lightning_count": {
		Label:   "Lightning Strikes",
		Unit:    " strikes",
		Extract: func(r *models.WeatherReading) *float64 { return intField(r.LightningCount) },
	},
}

func intField(v *int64) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}

// LookupAlertField returns the accessor for a rule type; ok is false for
// types the evaluator cannot read.
func LookupAlertField(ruleType string) (AlertField, bool) {
	f, ok := alertFields[ruleType]
	return f, ok
}

// ValidAlertCondition reports whether the comparison operator is known.
func ValidAlertCondition(condition string) bool {
	switch condition {
	case models.ConditionGreaterThan, models.ConditionLessThan, models.ConditionEqualTo, models.ConditionBetween:
		return true
	}
	return false
}
