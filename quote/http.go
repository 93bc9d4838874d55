package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds every quote request.
const DefaultTimeout = 10 * time.Second

func defaultClient() *http.Client { return &http.Client{Timeout: DefaultTimeout} }

// StatusError is returned when a quote service answers with a non 2xx status.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("cannot GET %s: %s", e.URL, e.Status)
}

// RateLimited reports whether the service asked to slow down.
func (e *StatusError) RateLimited() bool { return e.StatusCode == http.StatusTooManyRequests }

// getJSON performs a GET request and decodes the JSON response into data.
func getJSON(ctx context.Context, client *http.Client, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return &StatusError{URL: req.URL.Host + req.URL.Path, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	if err := json.NewDecoder(resp.Body).Decode(data); err != nil {
		return fmt.Errorf("cannot decode %s%s: %w", req.URL.Host, req.URL.Path, err)
	}
	return nil
}
