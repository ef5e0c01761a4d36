package datasource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultHTTPClient is used by HTTPClient when no client is configured.
var DefaultHTTPClient = &http.Client{
	Timeout: 10 * time.Second,
	Transport: &http.Transport{
		MaxIdleConnsPerHost: 256,
	},
}

// StatusError is returned for responses with an unexpected status code.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// HTTPClient performs JSON requests against one backend. Transport failures and 5xx responses
// are retried with exponential backoff unless the request goes through DoOnce. 404 responses
// yield ErrNotFound.
type HTTPClient struct {
	Client  *http.Client
	BaseURL string
	Retries uint64
	// Header is added to every request.
	Header http.Header
}

// Do sends body (if non-nil) as JSON and decodes the response into out (if non-nil).
func (c *HTTPClient) Do(ctx context.Context, method, path string, body, out interface{}) error {
	return c.do(ctx, method, path, body, out, c.Retries)
}

// DoOnce is Do without retries, for requests that must not be repeated.
func (c *HTTPClient) DoOnce(ctx context.Context, method, path string, body, out interface{}) error {
	return c.do(ctx, method, path, body, out, 0)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out interface{}, retries uint64) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}
	client := c.Client
	if client == nil {
		client = DefaultHTTPClient
	}

	var data []byte
	operation := func() error {
		request, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		for key, values := range c.Header {
			for _, value := range values {
				request.Header.Add(key, value)
			}
		}
		request.Header.Set("Accept", "application/json")
		if body != nil {
			request.Header.Set("Content-Type", "application/json")
		}

		response, err := client.Do(request)
		if err != nil {
			return err
		}
		defer response.Body.Close()
		data, err = io.ReadAll(response.Body)
		if err != nil {
			return err
		}
		switch {
		case response.StatusCode == http.StatusNotFound:
			return backoff.Permanent(ErrNotFound)
		case response.StatusCode >= 500:
			return &StatusError{StatusCode: response.StatusCode, Body: string(data)}
		case response.StatusCode >= 300:
			return backoff.Permanent(&StatusError{StatusCode: response.StatusCode, Body: string(data)})
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), retries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}
