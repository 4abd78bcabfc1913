package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/kanopolanes/lakehub-backend/internal/models"
)

const defaultAmbientBaseURL = "https://api.ambientweather.net/v1"

// AmbientClient talks to the Ambient Weather device API.
type AmbientClient struct {
	baseURL    string
	apiKey     string
	appKey     string
	httpClient *http.Client
}

func NewAmbientClient(apiKey, appKey string) *AmbientClient {
	return &AmbientClient{
		baseURL:    defaultAmbientBaseURL,
		apiKey:     apiKey,
		appKey:     appKey,
		httpClient: newHTTPClient(),
	}
}

// AmbientDevice is one station registered to the account.
type AmbientDevice struct {
	MacAddress string          `json:"macAddress"`
	Info       json.RawMessage `json:"info"`
	LastData   ambientLastData `json:"lastData"`
}

// ambientLastData mirrors the vendor's last-reading payload. Pointer fields:
// any sensor may be absent, and 0 is a valid value the vendor does send.
type ambientLastData struct {
	DateUTC           *int64   `json:"dateutc"`
	TempInF           *float64 `json:"tempinf"`
	Temp1F            *float64 `json:"temp1f"`
	HumidityIn        *float64 `json:"humidityin"`
	Humidity1         *float64 `json:"humidity1"`
	TempF             *float64 `json:"tempf"`
	Humidity          *float64 `json:"humidity"`
	WindSpeedMPH      *float64 `json:"windspeedmph"`
	WindGustMPH       *float64 `json:"windgustmph"`
	WindDir           *int64   `json:"winddir"`
	HourlyRainIn      *float64 `json:"hourlyrainin"`
	DailyRainIn       *float64 `json:"dailyrainin"`
	WeeklyRainIn      *float64 `json:"weeklyrainin"`
	MonthlyRainIn     *float64 `json:"monthlyrainin"`
	TotalRainIn       *float64 `json:"totalrainin"`
	BaromRelIn        *float64 `json:"baromrelin"`
	BaromAbsIn        *float64 `json:"baromabsin"`
	UV                *int64   `json:"uv"`
	SolarRadiation    *float64 `json:"solarradiation"`
	FeelsLike         *float64 `json:"feelsLike"`
	DewPoint          *float64 `json:"dewPoint"`
	LightningDay      *int64   `json:"lightning_day"`
	LightningDistance *float64 `json:"lightning_distance"`
	Batt1             *int64   `json:"batt1"`
	BattOut           *int64   `json:"battout"`
	BattCO2           *int64   `json:"batt_co2"`
	BattIn            *int64   `json:"battin"`
}

// Devices returns the stations registered to the configured account.
func (c *AmbientClient) Devices(ctx context.Context) ([]AmbientDevice, error) {
	endpoint, err := url.Parse(c.baseURL + "/devices")
	if err != nil {
		return nil, fmt.Errorf("parse ambient devices endpoint: %w", err)
	}
	q := endpoint.Query()
	q.Set("applicationKey", c.appKey)
	q.Set("apiKey", c.apiKey)
	endpoint.RawQuery = q.Encode()

	var devices []AmbientDevice
	if err := c.getJSON(ctx, endpoint.String(), &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// Current fetches the first device's last reading and normalizes it.
// Returns (nil, nil) when the account has no devices.
func (c *AmbientClient) Current(ctx context.Context) (*models.WeatherReading, error) {
	devices, err := c.Devices(ctx)
	if err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		return nil, nil
	}
	return normalizeAmbient(devices[0].LastData), nil
}

// normalizeAmbient maps vendor field names onto the canonical reading.
// Where the vendor has two possible names for one sensor the first present
// value wins; absence stays nil and is never defaulted to zero.
func normalizeAmbient(d ambientLastData) *models.WeatherReading {
	r := &models.WeatherReading{
		IndoorTemp:        firstFloat(d.TempInF, d.Temp1F),
		IndoorHumidity:    firstFloat(d.HumidityIn, d.Humidity1),
		OutdoorTemp:       d.TempF,
		OutdoorHumidity:   d.Humidity,
		WindSpeed:         d.WindSpeedMPH,
		WindGust:          d.WindGustMPH,
		WindDirection:     d.WindDir,
		RainHourly:        d.HourlyRainIn,
		RainDaily:         d.DailyRainIn,
		RainWeekly:        d.WeeklyRainIn,
		RainMonthly:       d.MonthlyRainIn,
		RainTotal:         d.TotalRainIn,
		Pressure:          firstFloat(d.BaromRelIn, d.BaromAbsIn),
		UVIndex:           d.UV,
		SolarRadiation:    d.SolarRadiation,
		FeelsLike:         d.FeelsLike,
		DewPoint:          d.DewPoint,
		LightningCount:    d.LightningDay,
		LightningDistance: d.LightningDistance,
		BatteryOutdoor:    firstInt(d.Batt1, d.BattOut),
		BatteryIndoor:     firstInt(d.BattCO2, d.BattIn),
	}
	if d.DateUTC != nil {
		r.Timestamp = *d.DateUTC
	} else {
		r.Timestamp = time.Now().UnixMilli()
	}
	return r
}

func firstFloat(vals ...*float64) *float64 {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

func firstInt(vals ...*int64) *int64 {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

func (c *AmbientClient) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &Error{Source: "ambientweather", URL: rawURL, Err: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Source: "ambientweather", URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &Error{Source: "ambientweather", StatusCode: resp.StatusCode, URL: rawURL}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Source: "ambientweather", URL: rawURL, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
