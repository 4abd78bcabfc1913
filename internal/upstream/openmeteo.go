package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kanopolanes/lakehub-backend/internal/models"
)

const defaultOpenMeteoBaseURL = "https://api.open-meteo.com/v1/forecast"

const maxHourlyEntries = 24

// OpenMeteoClient fetches the hourly/daily forecast and the sun data used
// by the sun/moon panel. Unit normalization (°F, mph, inches) is requested
// from the API rather than converted after the fact.
type OpenMeteoClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewOpenMeteoClient() *OpenMeteoClient {
	return &OpenMeteoClient{
		baseURL:    defaultOpenMeteoBaseURL,
		httpClient: newHTTPClient(),
	}
}

type openMeteoResponse struct {
	Hourly struct {
		Time                     []string   `json:"time"`
		Temperature2m            []*float64 `json:"temperature_2m"`
		RelativeHumidity2m       []*float64 `json:"relative_humidity_2m"`
		PrecipitationProbability []*float64 `json:"precipitation_probability"`
		WeatherCode              []*int     `json:"weather_code"`
		WindSpeed10m             []*float64 `json:"wind_speed_10m"`
	} `json:"hourly"`
	Daily struct {
		Time                        []string   `json:"time"`
		Temperature2mMax            []*float64 `json:"temperature_2m_max"`
		Temperature2mMin            []*float64 `json:"temperature_2m_min"`
		WeatherCode                 []*int     `json:"weather_code"`
		PrecipitationProbabilityMax []*float64 `json:"precipitation_probability_max"`
		WindSpeed10mMax             []*float64 `json:"wind_speed_10m_max"`
		Sunrise                     []string   `json:"sunrise"`
		Sunset                      []string   `json:"sunset"`
		DaylightDuration            []*float64 `json:"daylight_duration"`
	} `json:"daily"`
}

// Forecast returns the hourly entries from now through +24h (capped at 24)
// plus the 5-day daily outlook.
func (c *OpenMeteoClient) Forecast(ctx context.Context, lat, lon float64) (*models.Forecast, error) {
	params := url.Values{}
	params.Set("latitude", formatCoord(lat))
	params.Set("longitude", formatCoord(lon))
	params.Set("hourly", "temperature_2m,relative_humidity_2m,precipitation_probability,weather_code,wind_speed_10m")
	params.Set("daily", "temperature_2m_max,temperature_2m_min,weather_code,precipitation_probability_max,wind_speed_10m_max")
	params.Set("temperature_unit", "fahrenheit")
	params.Set("wind_speed_unit", "mph")
	params.Set("precipitation_unit", "inch")
	params.Set("forecast_days", "5")
	params.Set("timezone", "auto")

	var payload openMeteoResponse
	if err := c.get(ctx, params, &payload); err != nil {
		return nil, err
	}
	return buildForecast(&payload, time.Now()), nil
}

func buildForecast(payload *openMeteoResponse, now time.Time) *models.Forecast {
	forecast := &models.Forecast{
		Hourly: []models.ForecastHour{},
		Daily:  []models.ForecastDay{},
	}
	for i, ts := range payload.Hourly.Time {
		t, err := time.ParseInLocation("2006-01-02T15:04", ts, now.Location())
		if err != nil {
			continue
		}
		if t.Before(now) || len(forecast.Hourly) >= maxHourlyEntries {
			continue
		}
		forecast.Hourly = append(forecast.Hourly, models.ForecastHour{
			Time:                     ts,
			Temp:                     hourlyAt(payload.Hourly.Temperature2m, i),
			Humidity:                 hourlyAt(payload.Hourly.RelativeHumidity2m, i),
			PrecipitationProbability: hourlyAt(payload.Hourly.PrecipitationProbability, i),
			WeatherCode:              intAt(payload.Hourly.WeatherCode, i),
			WindSpeed:                hourlyAt(payload.Hourly.WindSpeed10m, i),
		})
	}
	for i, date := range payload.Daily.Time {
		forecast.Daily = append(forecast.Daily, models.ForecastDay{
			Date:                     date,
			TempMax:                  hourlyAt(payload.Daily.Temperature2mMax, i),
			TempMin:                  hourlyAt(payload.Daily.Temperature2mMin, i),
			WeatherCode:              intAt(payload.Daily.WeatherCode, i),
			PrecipitationProbability: hourlyAt(payload.Daily.PrecipitationProbabilityMax, i),
			WindSpeedMax:             hourlyAt(payload.Daily.WindSpeed10mMax, i),
		})
	}
	return forecast
}

// SunData returns today's sunrise, sunset, and daylight duration in seconds.
func (c *OpenMeteoClient) SunData(ctx context.Context, lat, lon string) (sunrise, sunset *string, daylightSec *float64, err error) {
	params := url.Values{}
	params.Set("latitude", lat)
	params.Set("longitude", lon)
	params.Set("daily", "sunrise,sunset,daylight_duration")
	params.Set("timezone", "auto")
	params.Set("forecast_days", "1")

	var payload openMeteoResponse
	if err := c.get(ctx, params, &payload); err != nil {
		return nil, nil, nil, err
	}
	if len(payload.Daily.Sunrise) > 0 {
		sunrise = &payload.Daily.Sunrise[0]
	}
	if len(payload.Daily.Sunset) > 0 {
		sunset = &payload.Daily.Sunset[0]
	}
	if len(payload.Daily.DaylightDuration) > 0 {
		daylightSec = payload.Daily.DaylightDuration[0]
	}
	return sunrise, sunset, daylightSec, nil
}

func (c *OpenMeteoClient) get(ctx context.Context, params url.Values, out interface{}) error {
	rawURL := c.baseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &Error{Source: "open-meteo", URL: rawURL, Err: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Source: "open-meteo", URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &Error{Source: "open-meteo", StatusCode: resp.StatusCode, URL: rawURL}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Source: "open-meteo", URL: rawURL, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func hourlyAt(vals []*float64, i int) *float64 {
	if i < len(vals) {
		return vals[i]
	}
	return nil
}

func intAt(vals []*int, i int) *int {
	if i < len(vals) {
		return vals[i]
	}
	return nil
}
