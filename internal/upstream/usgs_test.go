package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usgsSeries(paramCode, value, dateTime string) string {
	return fmt.Sprintf(`{
		"variable": {"variableCode": [{"value": %q}]},
		"values": [{"value": [{"value": %q, "dateTime": %q}]}]
	}`, paramCode, value, dateTime)
}

func TestConditionsAssemblesBothSites(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		var series string
		switch r.URL.Query().Get("sites") {
		case "06865000":
			series = usgsSeries(ParamPoolElevation, "1462.85", "2026-08-01T10:15:00.000-05:00") + "," +
				usgsSeries(ParamLevelDiff, "-0.15", "2026-08-01T10:15:00.000-05:00") + "," +
				usgsSeries(ParamStorage, "52000", "2026-08-01T10:15:00.000-05:00")
		case "06865500":
			series = usgsSeries(ParamWaterTemp, "24.5", "2026-08-01T10:00:00.000-05:00") + "," +
				usgsSeries(ParamOutflow, "350", "2026-08-01T10:00:00.000-05:00")
		default:
			t.Errorf("unexpected site %s", r.URL.Query().Get("sites"))
		}
		fmt.Fprintf(w, `{"value": {"timeSeries": [%s]}}`, series)
	}))
	defer srv.Close()

	c := NewUSGSClient()
	c.baseURL = srv.URL + "/"

	cond, err := c.Conditions(context.Background(), "06865000", "06865500", 1463)
	require.NoError(t, err)

	assert.Equal(t, "Kanopolis Lake", cond.Name)
	assert.Equal(t, 1463.0, cond.ConservationLevel)
	require.NotNil(t, cond.Elevation)
	assert.Equal(t, 1462.85, *cond.Elevation)
	require.NotNil(t, cond.LevelDiff)
	assert.Equal(t, -0.15, *cond.LevelDiff)
	require.NotNil(t, cond.StorageAcreFt)
	assert.Equal(t, 52000.0, *cond.StorageAcreFt)
	require.NotNil(t, cond.WaterTempC)
	assert.Equal(t, 24.5, *cond.WaterTempC)
	require.NotNil(t, cond.WaterTempF)
	assert.Equal(t, 76.1, *cond.WaterTempF)
	require.NotNil(t, cond.OutflowCFS)
	assert.Equal(t, 350.0, *cond.OutflowCFS)
	require.NotNil(t, cond.LastUpdated)
	assert.Equal(t, "2026-08-01T10:15:00.000-05:00", *cond.LastUpdated, "gauge observation time, not fetch time")
}

func TestConditionsPartialGaugeData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("sites") == "06865000" {
			fmt.Fprintf(w, `{"value": {"timeSeries": [%s]}}`,
				usgsSeries(ParamPoolElevation, "1462.85", "2026-08-01T10:15:00.000-05:00"))
			return
		}
		fmt.Fprint(w, `{"value": {"timeSeries": []}}`)
	}))
	defer srv.Close()

	c := NewUSGSClient()
	c.baseURL = srv.URL + "/"

	cond, err := c.Conditions(context.Background(), "06865000", "06865500", 1463)
	require.NoError(t, err)
	require.NotNil(t, cond.Elevation)
	assert.Nil(t, cond.WaterTempC, "missing gauge parameters stay nil")
	assert.Nil(t, cond.WaterTempF)
	assert.Nil(t, cond.OutflowCFS)
}

func TestConditionsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewUSGSClient()
	c.baseURL = srv.URL + "/"

	_, err := c.Conditions(context.Background(), "06865000", "06865500", 1463)
	require.Error(t, err)

	var upErr *Error
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, "usgs", upErr.Source)
	assert.Equal(t, http.StatusServiceUnavailable, upErr.StatusCode)
}

func TestExtractValue(t *testing.T) {
	assert.Nil(t, extractValue(nil, ParamPoolElevation))

	var ts usgsTimeSeries
	require.NoError(t, json.Unmarshal([]byte(
		usgsSeries(ParamPoolElevation, "not-a-number", "2026-08-01")), &ts))

	assert.Nil(t, extractValue([]usgsTimeSeries{ts}, ParamPoolElevation), "unparseable gauge value is dropped")
	assert.Nil(t, extractValue([]usgsTimeSeries{ts}, ParamOutflow), "unrequested parameter is absent")
}

func TestCelsiusToFahrenheit(t *testing.T) {
	assert.Equal(t, 32.0, celsiusToFahrenheit(0))
	assert.Equal(t, 68.0, celsiusToFahrenheit(20))
	assert.Equal(t, 76.1, celsiusToFahrenheit(24.5))
	assert.Equal(t, 70.7, celsiusToFahrenheit(21.5))
	assert.Equal(t, 14.0, celsiusToFahrenheit(-10))
}
