package models

// ForecastHour is one hourly forecast entry, already unit-normalized
// (fahrenheit, mph, inches) by the upstream request parameters.
type ForecastHour struct {
	Time                     string   `json:"time"`
	Temp                     *float64 `json:"temp"`
	Humidity                 *float64 `json:"humidity"`
	PrecipitationProbability *float64 `json:"precipitation_probability"`
	WeatherCode              *int     `json:"weather_code"`
	WindSpeed                *float64 `json:"wind_speed"`
}

// ForecastDay is one daily forecast entry.
type ForecastDay struct {
	Date                     string   `json:"date"`
	TempMax                  *float64 `json:"temp_max"`
	TempMin                  *float64 `json:"temp_min"`
	WeatherCode              *int     `json:"weather_code"`
	PrecipitationProbability *float64 `json:"precipitation_probability"`
	WindSpeedMax             *float64 `json:"wind_speed_max"`
}

// Forecast is the hourly (next 24h) plus daily outlook.
type Forecast struct {
	Hourly []ForecastHour `json:"hourly"`
	Daily  []ForecastDay  `json:"daily"`
}

// SunMoon combines fetched sunrise/sunset with computed moon phase.
type SunMoon struct {
	Sunrise          *string `json:"sunrise"`
	Sunset           *string `json:"sunset"`
	DayLength        *string `json:"day_length"`
	MoonPhase        string  `json:"moon_phase"`
	MoonEmoji        string  `json:"moon_emoji"`
	MoonIllumination int     `json:"moon_illumination"`
	FetchedAt        string  `json:"fetched_at"`
}

// Advisory is one active National Weather Service alert for the area.
type Advisory struct {
	ID          string `json:"id"`
	Event       string `json:"event"`
	Headline    string `json:"headline"`
	Description string `json:"description"`
	Severity    string `json:"severity"` // Extreme, Severe, Moderate, Minor, Unknown
	Urgency     string `json:"urgency"`
	Certainty   string `json:"certainty"`
	Effective   string `json:"effective"`
	Expires     string `json:"expires"`
	Sender      string `json:"sender"`
}

// Advisories is the active-advisory payload served to the dashboard.
type Advisories struct {
	Alerts    []Advisory `json:"alerts"`
	Count     int        `json:"count"`
	FetchedAt string     `json:"fetched_at"`
}
