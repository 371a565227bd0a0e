// Package provider holds the settlement and account-issuing provider clients
// and the registry that selects them by name.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"wallet-ledger/config"
	"wallet-ledger/internal/core/domain"
	"wallet-ledger/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

const maxResponseBytes = 1 << 20

// statusError is a non-2xx provider response.
type statusError struct {
	Method string
	URL    string
	Status int
	Body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s %s: http %d: %s", e.Method, e.URL, e.Status, e.Body)
}

// apiClient is the JSON-over-HTTP transport shared by every provider. Each
// provider gets its own breaker so one outage does not trip the others.
type apiClient struct {
	name    domain.ProviderName
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	auth    func(*http.Request)
	log     zerolog.Logger
}

func newAPIClient(name domain.ProviderName, cfg config.ProviderConfig, auth func(*http.Request), log zerolog.Logger) *apiClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	l := log.With().Str("provider", string(name)).Logger()

	return &apiClient{
		name:    name,
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: timeout},
		auth:    auth,
		log:     l,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "provider-" + string(name),
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			// A 4xx is the provider answering, not the provider being down.
			IsSuccessful: func(err error) bool {
				var se *statusError
				if errors.As(err, &se) {
					return se.Status < http.StatusInternalServerError
				}
				return err == nil
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				l.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("provider circuit breaker state changed")
			},
		}),
	}
}

// do sends a JSON request and decodes a JSON response into out. Every
// failure is logged with its diagnostics and returned as the generic
// PRV_001 error.
func (c *apiClient) do(ctx context.Context, method, path string, in, out any) error {
	url := c.baseURL + path

	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.roundTrip(ctx, method, url, in, out)
	})
	if err == nil {
		return nil
	}

	evt := c.log.Error().Err(err).Str("method", method).Str("url", url)
	var se *statusError
	if errors.As(err, &se) {
		evt = evt.Int("http_status", se.Status).Str("body", se.Body)
	}
	evt.Msg("provider request failed")

	return apperror.ErrServiceUnavailable(err)
}

// notFound reports whether err is the provider answering 404.
func notFound(err error) bool {
	var se *statusError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}

func (c *apiClient) roundTrip(ctx context.Context, method, url string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.auth(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &statusError{Method: method, URL: url, Status: resp.StatusCode, Body: string(raw)}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
