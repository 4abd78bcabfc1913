// Package upstream wraps the outbound vendor HTTP APIs (Ambient Weather,
// USGS water services, Open-Meteo, NWS) and normalizes their payloads into
// the canonical model shapes. One request per call; no retries; callers
// recover through the fallback cache.
package upstream

import (
	"fmt"
	"net/http"
	"time"
)

const requestTimeout = 10 * time.Second

// Error is returned when a vendor API is unreachable, responds non-2xx,
// or returns a payload that does not parse.
type Error struct {
	Source     string
	StatusCode int
	URL        string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s request failed: url=%s: %v", e.Source, e.URL, e.Err)
	}
	return fmt.Sprintf("%s request failed: status=%d url=%s", e.Source, e.StatusCode, e.URL)
}

func (e *Error) Unwrap() error { return e.Err }

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: requestTimeout}
}
