// Package api provides typed clients for the MedLeaf platform REST API.
// Every endpoint the storefront and dashboards call has a service here; the
// services share one Client that owns the base URL, auth token source, and
// the instrumented HTTP transport.
//
// Error contract (matching the backend's envelope): a transport failure is
// surfaced as a network error, a non-2xx response is decoded for its
// "message" field with a generic fallback, and nothing is retried
// automatically.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/medleaf/pharmakit"
	"github.com/medleaf/pharmakit/config"
)

// TokenSource supplies the bearer token attached to authenticated requests.
// session.Keyring implements this; a fixed token can use StaticToken.
// Returning an empty token with a nil error means "unauthenticated" and the
// request is sent without an Authorization header.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

func (s StaticToken) Token(ctx context.Context) (string, error) {
	return string(s), nil
}

// Client is the MedLeaf API client. Construct it with NewClient and reach
// individual endpoint groups through the service fields.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	productTimeout time.Duration
	tokens         TokenSource
	logger         pharmakit.Logger

	Products      *ProductService
	Cart          *CartService
	Orders        *OrderService
	Availability  *AvailabilityService
	Consultations *ConsultationService
	Appointments  *AppointmentService
	Staff         *StaffService
	Inventory     *InventoryService
	Prescriptions *PrescriptionService
	Reminders     *ReminderService
	Payments      *PaymentService
	Contact       *ContactService
	Chatbot       *ChatbotService
}

// Option configures the Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokenSource sets the bearer token source
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithLogger sets the logger
func WithLogger(l pharmakit.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates an API client from configuration.
func NewClient(cfg *config.Config, opts ...Option) *Client {
	c := &Client{
		baseURL:        cfg.BaseURL,
		productTimeout: cfg.ProductTimeout,
		logger:         &pharmakit.NoOpLogger{},
		httpClient: &http.Client{
			Timeout:   cfg.HTTPTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Products = &ProductService{client: c}
	c.Cart = &CartService{client: c}
	c.Orders = &OrderService{client: c}
	c.Availability = &AvailabilityService{client: c}
	c.Consultations = &ConsultationService{client: c}
	c.Appointments = &AppointmentService{client: c}
	c.Staff = &StaffService{client: c}
	c.Inventory = &InventoryService{client: c}
	c.Prescriptions = &PrescriptionService{client: c}
	c.Reminders = &ReminderService{client: c}
	c.Payments = &PaymentService{client: c}
	c.Contact = &ContactService{client: c}
	c.Chatbot = &ChatbotService{client: c}
	return c
}

// APIError is a non-2xx response from the backend. Message carries the
// response body's "message" field when present, otherwise a generic
// fallback. Unwrap maps the status code onto the package sentinels so
// callers can use errors.Is.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %s (HTTP %d)", e.Message, e.StatusCode)
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return pharmakit.ErrUnauthorized
	case http.StatusNotFound:
		return pharmakit.ErrNotFound
	case http.StatusConflict:
		return pharmakit.ErrConflict
	default:
		return pharmakit.ErrRequestFailed
	}
}

// errorEnvelope is the backend's error body shape.
type errorEnvelope struct {
	Message string `json:"message"`
}

type requestOption func(*http.Request)

func withHeader(key, value string) requestOption {
	return func(r *http.Request) { r.Header.Set(key, value) }
}

// do executes one API request. body and out may be nil.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, opts ...requestOption) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", pharmakit.UserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil && !errors.Is(err, pharmakit.ErrNoToken) {
			return fmt.Errorf("failed to read token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	for _, opt := range opts {
		opt(req)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("API request failed", map[string]interface{}{
			"operation": "api_request",
			"method":    method,
			"path":      path,
			"error":     err.Error(),
		})
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%s %s: %w", method, path, pharmakit.ErrTimeout)
		}
		return fmt.Errorf("%s %s: network error: %w", method, path, pharmakit.ErrConnectionFailed)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: failed to read response: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: "request failed"}
		var envelope errorEnvelope
		if json.Unmarshal(data, &envelope) == nil && envelope.Message != "" {
			apiErr.Message = envelope.Message
		}
		c.logger.Error("API request rejected", map[string]interface{}{
			"operation":   "api_request",
			"method":      method,
			"path":        path,
			"status_code": resp.StatusCode,
			"message":     apiErr.Message,
		})
		return apiErr
	}

	c.logger.Debug("API request completed", map[string]interface{}{
		"operation":   "api_request",
		"method":      method,
		"path":        path,
		"status_code": resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%s %s: failed to parse response: %w", method, path, err)
		}
	}
	return nil
}

// doWithTimeout runs do under a tighter deadline than the client default.
func (c *Client) doWithTimeout(ctx context.Context, timeout time.Duration, method, path string, body, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.do(ctx, method, path, body, out)
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}, opts ...requestOption) error {
	return c.do(ctx, http.MethodPost, path, body, out, opts...)
}

func (c *Client) put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) patch(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
