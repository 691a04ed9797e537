// Package gateway provides the HTTP client for the remote points-management
// API. All failures cross its boundary as classified normalize.Failure
// values; raw transport errors never escape.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/elahi-market/points-console/internal/normalize"
	"github.com/elahi-market/points-console/pkg/logger"
)

// connectivityFallback is shown when the server cannot be reached at all.
const connectivityFallback = "Network or connectivity error. Check the points API server."

const maxBodySize = 8 << 20

// Client calls the points API.
type Client struct {
	baseURL    string
	delay      time.Duration
	httpClient *http.Client
	log        *logger.Logger
}

// Config holds client configuration.
type Config struct {
	// BaseURL is the API root, e.g. http://localhost:8080/api.
	BaseURL string
	// Delay is an artificial pause before every call, modeling network
	// latency for interactive testing. Zero disables it.
	Delay      time.Duration
	HTTPClient *http.Client
	Log        *logger.Logger
}

// New creates a points API client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("BaseURL is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	log := cfg.Log
	if log == nil {
		log = logger.NewDefault("gateway")
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		delay:      cfg.Delay,
		httpClient: httpClient,
		log:        log,
	}, nil
}

// Result is a successful, JSON-validated response.
type Result struct {
	StatusCode int
	Body       []byte
}

var allowedMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
}

// Do executes an API call. body, when non-nil, is serialized as JSON. A 204
// on DELETE is unconditional success regardless of body. Every failure is
// returned as a *normalize.Failure.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*Result, error) {
	if !allowedMethods[method] {
		return nil, fmt.Errorf("unsupported method %q", method)
	}

	if err := c.pause(ctx); err != nil {
		return nil, err
	}

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	requestID := uuid.NewString()
	c.log.WithField("request_id", requestID).
		WithField("method", method).
		WithField("path", path).
		Debug("points api request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithField("request_id", requestID).WithError(err).Warn("points api unreachable")
		return nil, normalize.Connectivity(connectivityFallback)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, normalize.Connectivity(connectivityFallback)
	}

	// 204 carries no body; DELETE success is the usual case.
	if resp.StatusCode == http.StatusNoContent {
		return &Result{StatusCode: resp.StatusCode, Body: nil}, nil
	}

	if !gjson.ValidBytes(respBody) {
		c.log.WithField("request_id", requestID).
			WithField("status", resp.StatusCode).
			Warn("points api returned non-JSON body")
		return nil, normalize.Connectivity(
			fmt.Sprintf("Server returned non-JSON response (status %d).", resp.StatusCode))
	}

	if resp.StatusCode >= 400 {
		msg := normalize.ErrorMessage(resp.StatusCode, respBody)
		c.log.WithField("request_id", requestID).
			WithField("status", resp.StatusCode).
			WithField("message", msg).
			Debug("points api error response")
		return nil, normalize.Structured(msg)
	}

	return &Result{StatusCode: resp.StatusCode, Body: respBody}, nil
}

// pause applies the configured artificial delay, honoring cancellation.
func (c *Client) pause(ctx context.Context) error {
	if c.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(c.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return normalize.Connectivity(connectivityFallback)
	}
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string) (*Result, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (*Result, error) {
	return c.Do(ctx, http.MethodPost, path, body)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any) (*Result, error) {
	return c.Do(ctx, http.MethodPut, path, body)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Result, error) {
	return c.Do(ctx, http.MethodDelete, path, nil)
}
