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

const (
	defaultNWSBaseURL = "https://api.weather.gov"

	// NWS requires an identifying User-Agent on every request.
	nwsUserAgent = "KanopolanesWeather (kanopolanes@weather.app)"
)

// NWSClient fetches active National Weather Service advisories for a point.
type NWSClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewNWSClient() *NWSClient {
	return &NWSClient{
		baseURL:    defaultNWSBaseURL,
		httpClient: newHTTPClient(),
	}
}

type nwsAlertsResponse struct {
	Features []struct {
		Properties struct {
			ID          string `json:"id"`
			Event       string `json:"event"`
			Headline    string `json:"headline"`
			Description string `json:"description"`
			Severity    string `json:"severity"`
			Urgency     string `json:"urgency"`
			Certainty   string `json:"certainty"`
			Effective   string `json:"effective"`
			Expires     string `json:"expires"`
			SenderName  string `json:"senderName"`
		} `json:"properties"`
	} `json:"features"`
}

// ActiveAlerts returns the advisories currently in effect for lat,lon.
func (c *NWSClient) ActiveAlerts(ctx context.Context, lat, lon string) (*models.Advisories, error) {
	endpoint, err := url.Parse(c.baseURL + "/alerts/active")
	if err != nil {
		return nil, fmt.Errorf("parse nws endpoint: %w", err)
	}
	q := endpoint.Query()
	q.Set("point", lat+","+lon)
	endpoint.RawQuery = q.Encode()
	rawURL := endpoint.String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{Source: "nws", URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", nwsUserAgent)
	req.Header.Set("Accept", "application/geo+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Source: "nws", URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Source: "nws", StatusCode: resp.StatusCode, URL: rawURL}
	}
	var payload nwsAlertsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &Error{Source: "nws", URL: rawURL, Err: fmt.Errorf("decode response: %w", err)}
	}

	alerts := make([]models.Advisory, 0, len(payload.Features))
	for _, f := range payload.Features {
		p := f.Properties
		alerts = append(alerts, models.Advisory{
			ID:          p.ID,
			Event:       p.Event,
			Headline:    p.Headline,
			Description: p.Description,
			Severity:    p.Severity,
			Urgency:     p.Urgency,
			Certainty:   p.Certainty,
			Effective:   p.Effective,
			Expires:     p.Expires,
			Sender:      p.SenderName,
		})
	}
	return &models.Advisories{
		Alerts:    alerts,
		Count:     len(alerts),
		FetchedAt: time.Now().UTC().Format(time.RFC3339),
	}, nil
}
