package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/kanopolanes/lakehub-backend/internal/models"
)

const defaultUSGSBaseURL = "https://waterservices.usgs.gov/nwis/iv/"

// USGS instantaneous-values parameter codes.
const (
	ParamPoolElevation = "62614" // lake pool elevation, ft
	ParamLevelDiff     = "99067" // level differential from datum, ft
	ParamStorage       = "00054" // reservoir storage, acre-ft
	ParamWaterTemp     = "00010" // water temperature, °C
	ParamOutflow       = "00060" // discharge, cfs
)

// USGSClient reads lake and dam gauges from the USGS water services API.
type USGSClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewUSGSClient() *USGSClient {
	return &USGSClient{
		baseURL:    defaultUSGSBaseURL,
		httpClient: newHTTPClient(),
	}
}

// usgsResponse mirrors the WaterML-JSON envelope down to the pieces we read.
type usgsResponse struct {
	Value struct {
		TimeSeries []usgsTimeSeries `json:"timeSeries"`
	} `json:"value"`
}

type usgsTimeSeries struct {
	Variable struct {
		VariableCode []struct {
			Value string `json:"value"`
		} `json:"variableCode"`
	} `json:"variable"`
	Values []struct {
		Value []struct {
			Value    string `json:"value"`
			DateTime string `json:"dateTime"`
		} `json:"value"`
	} `json:"values"`
}

// gaugeValue is one extracted parameter observation.
type gaugeValue struct {
	Value    float64
	DateTime string
}

// Conditions queries the lake and dam sites and assembles current conditions.
// Fields missing from the gauge response stay nil.
func (c *USGSClient) Conditions(ctx context.Context, lakeStation, damStation string, conservationLevel float64) (*models.LakeConditions, error) {
	lakeSeries, err := c.fetchSite(ctx, lakeStation, ParamPoolElevation+","+ParamLevelDiff+","+ParamStorage)
	if err != nil {
		return nil, err
	}
	damSeries, err := c.fetchSite(ctx, damStation, ParamWaterTemp+","+ParamOutflow)
	if err != nil {
		return nil, err
	}

	elevation := extractValue(lakeSeries, ParamPoolElevation)
	levelDiff := extractValue(lakeSeries, ParamLevelDiff)
	storage := extractValue(lakeSeries, ParamStorage)
	waterTempC := extractValue(damSeries, ParamWaterTemp)
	outflow := extractValue(damSeries, ParamOutflow)

	cond := &models.LakeConditions{
		Name:              "Kanopolis Lake",
		ConservationLevel: conservationLevel,
	}
	if elevation != nil {
		cond.Elevation = &elevation.Value
		cond.LastUpdated = &elevation.DateTime
	}
	if levelDiff != nil {
		cond.LevelDiff = &levelDiff.Value
	}
	if storage != nil {
		cond.StorageAcreFt = &storage.Value
	}
	if waterTempC != nil {
		cond.WaterTempC = &waterTempC.Value
		f := celsiusToFahrenheit(waterTempC.Value)
		cond.WaterTempF = &f
	}
	if outflow != nil {
		cond.OutflowCFS = &outflow.Value
	}
	if cond.LastUpdated == nil && waterTempC != nil {
		cond.LastUpdated = &waterTempC.DateTime
	}
	return cond, nil
}

func (c *USGSClient) fetchSite(ctx context.Context, site, paramCodes string) ([]usgsTimeSeries, error) {
	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse usgs endpoint: %w", err)
	}
	q := endpoint.Query()
	q.Set("format", "json")
	q.Set("sites", site)
	q.Set("parameterCd", paramCodes)
	q.Set("siteStatus", "all")
	endpoint.RawQuery = q.Encode()
	rawURL := endpoint.String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{Source: "usgs", URL: rawURL, Err: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Source: "usgs", URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Source: "usgs", StatusCode: resp.StatusCode, URL: rawURL}
	}
	var payload usgsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &Error{Source: "usgs", URL: rawURL, Err: fmt.Errorf("decode response: %w", err)}
	}
	return payload.Value.TimeSeries, nil
}

// extractValue selects one parameter code from the mixed timeSeries response.
func extractValue(series []usgsTimeSeries, paramCode string) *gaugeValue {
	for _, ts := range series {
		if len(ts.Variable.VariableCode) == 0 || ts.Variable.VariableCode[0].Value != paramCode {
			continue
		}
		if len(ts.Values) == 0 || len(ts.Values[0].Value) == 0 {
			return nil
		}
		raw := ts.Values[0].Value[0]
		v, err := strconv.ParseFloat(raw.Value, 64)
		if err != nil {
			return nil
		}
		return &gaugeValue{Value: v, DateTime: raw.DateTime}
	}
	return nil
}

// celsiusToFahrenheit converts and rounds to one decimal place.
func celsiusToFahrenheit(c float64) float64 {
	return math.Round((c*9/5+32)*10) / 10
}
