// Package bridge provides the HTTP client for the UI Bridge control API.
// It wraps element actions, discovery, components, workflows, and the UI
// state machine in typed request/response models, and owns the single
// envelope-decoding boundary every other package goes through.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/uibridge/uibridge-go/core"
)

// Client is the UI Bridge HTTP client. It is safe for concurrent use; the
// underlying http.Client owns the connection pool.
type Client struct {
	baseURL   string
	apiPath   string
	client    *http.Client
	logger    core.Logger
	telemetry core.Telemetry
	memory    core.Memory
	config    *core.Config
}

// New creates a UI Bridge client from functional options.
//
// Example:
//
//	client, err := bridge.New(
//	    core.WithBaseURL("http://localhost:9876"),
//	    core.WithTimeout(10*time.Second),
//	)
func New(opts ...core.Option) (*Client, error) {
	cfg, err := core.NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a UI Bridge client from an already-resolved Config
func NewWithConfig(cfg *core.Config) (*Client, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = &core.NoOpLogger{}
	}

	telemetry := cfg.Tracer
	if telemetry == nil {
		telemetry = &core.NoOpTelemetry{}
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		transport := http.DefaultTransport
		if cfg.Telemetry.Enabled {
			transport = otelhttp.NewTransport(transport)
		}
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		}
	}

	memory := cfg.Memory
	if memory == nil {
		switch cfg.MemoryProvider {
		case "redis":
			store, err := core.NewRedisStore(core.RedisStoreOptions{
				RedisURL: cfg.RedisURL,
				Logger:   logger,
			})
			if err != nil {
				return nil, err
			}
			memory = store
		default:
			store := core.NewMemoryStore()
			store.SetLogger(logger)
			memory = store
		}
	}

	logger.Info("UI Bridge client created", map[string]interface{}{
		"operation": "client_creation",
		"base_url":  cfg.BaseURL,
		"api_path":  cfg.APIPath,
		"timeout":   cfg.Timeout.String(),
	})

	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		apiPath:   strings.TrimRight(cfg.APIPath, "/"),
		client:    httpClient,
		logger:    logger,
		telemetry: telemetry,
		memory:    memory,
		config:    cfg,
	}, nil
}

// Config returns the resolved configuration the client was built with
func (c *Client) Config() *core.Config {
	return c.config
}

// Logger returns the client's logger for sub-clients to share
func (c *Client) Logger() core.Logger {
	return c.logger
}

// Telemetry returns the client's telemetry sink for sub-clients to share
func (c *Client) Telemetry() core.Telemetry {
	return c.telemetry
}

// Memory returns the client-side state store
func (c *Client) Memory() core.Memory {
	return c.memory
}

// Close releases resources held by the client-side store. HTTP connections
// are returned to the pool automatically.
func (c *Client) Close() error {
	if closer, ok := c.memory.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

// envelope is the wire wrapper every control and AI endpoint uses
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

// Call performs one HTTP request against the UI Bridge API, unwraps the
// response envelope, and decodes the data payload into out (if non-nil).
//
// Error classification:
//   - network failure          -> wraps core.ErrConnectionFailed
//   - context deadline         -> wraps core.ErrTimeout
//   - non-2xx status           -> wraps core.ErrRequestFailed
//   - undecodable body/payload -> wraps core.ErrInvalidResponse
//   - envelope success=false   -> core.APIError (NOT_FOUND code maps to
//     core.ErrNotFound, anything else to core.ErrRequestFailed)
func (c *Client) Call(ctx context.Context, method, path string, body interface{}, query url.Values, out interface{}) error {
	op := "bridge." + method + " " + path

	ctx, span := c.telemetry.StartSpan(ctx, "bridge.request")
	defer span.End()
	span.SetAttribute("http.method", method)
	span.SetAttribute("http.path", path)

	endpoint := c.baseURL + c.apiPath + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			span.RecordError(err)
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("Request failed - send error", map[string]interface{}{
			"operation": "bridge_request",
			"method":    method,
			"path":      path,
			"error":     err.Error(),
			"phase":     "request_execution",
		})
		span.RecordError(err)
		sentinel := core.ErrConnectionFailed
		if errors.Is(err, context.DeadlineExceeded) {
			sentinel = core.ErrTimeout
		}
		return &core.BridgeError{
			Op:   op,
			Kind: "transport",
			Err:  fmt.Errorf("%v: %w", err, sentinel),
		}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		return &core.BridgeError{
			Op:   op,
			Kind: "transport",
			Err:  fmt.Errorf("failed to read response: %v: %w", err, core.ErrConnectionFailed),
		}
	}

	c.telemetry.RecordMetric("bridge.request.duration_ms",
		float64(time.Since(start).Milliseconds()),
		map[string]string{"method": method, "path": path})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("Request failed - HTTP error", map[string]interface{}{
			"operation":   "bridge_request",
			"method":      method,
			"path":        path,
			"status_code": resp.StatusCode,
			"phase":       "http_response",
		})
		span.SetAttribute("http.status_code", resp.StatusCode)
		httpErr := &core.BridgeError{
			Op:   op,
			Kind: "http",
			Err:  fmt.Errorf("unexpected status %d: %w", resp.StatusCode, core.ErrRequestFailed),
		}
		span.RecordError(httpErr)
		return httpErr
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		span.RecordError(err)
		return &core.BridgeError{
			Op:   op,
			Kind: "protocol",
			Err:  fmt.Errorf("malformed response envelope: %w", core.ErrInvalidResponse),
		}
	}

	if !env.Success {
		message := env.Error
		if message == "" {
			message = "unknown error"
		}
		c.logger.Warn("Request failed - API error", map[string]interface{}{
			"operation": "bridge_request",
			"method":    method,
			"path":      path,
			"error":     message,
			"code":      env.Code,
			"phase":     "api_response",
		})
		apiErr := core.APIError(op, message, env.Code)
		span.RecordError(apiErr)
		return apiErr
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			span.RecordError(err)
			return &core.BridgeError{
				Op:   op,
				Kind: "protocol",
				Err:  fmt.Errorf("failed to decode payload: %v: %w", err, core.ErrInvalidResponse),
			}
		}
	}

	return nil
}

// Health checks server health. The health endpoint lives outside the API
// prefix and does not use the response envelope.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &core.BridgeError{
			Op:   "bridge.Health",
			Kind: "transport",
			Err:  fmt.Errorf("%v: %w", err, core.ErrConnectionFailed),
		}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, &core.BridgeError{
			Op:   "bridge.Health",
			Kind: "http",
			Err:  fmt.Errorf("unexpected status %d: %w", resp.StatusCode, core.ErrRequestFailed),
		}
	}

	var status HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, &core.BridgeError{
			Op:   "bridge.Health",
			Kind: "protocol",
			Err:  fmt.Errorf("malformed health payload: %w", core.ErrInvalidResponse),
		}
	}
	return &status, nil
}

// IsConnected reports whether the server answers health checks
func (c *Client) IsConnected(ctx context.Context) bool {
	_, err := c.Health(ctx)
	return err == nil
}
