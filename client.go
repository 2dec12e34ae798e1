package evah

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"evah-sdk/models"
	"evah-sdk/services"
)

// ClientOption is a function that configures a Client
type ClientOption func(*Client)

// Client is the main client for interacting with the EVA_H model service
// After creation, the client is immutable and safe for concurrent use
type Client struct {
	baseURL    string
	httpClient *http.Client
	variant    models.Variant

	// Custom headers to include in all requests
	headers map[string]string

	timeout time.Duration

	// Service groups
	Model *services.ModelService
}

// DefaultBaseURL is where the Flask model service listens during development
const DefaultBaseURL = "http://localhost:5000"

// DefaultTimeout bounds a single model run; runs take tens of seconds
const DefaultTimeout = 5 * time.Minute

// NewClient creates a new Client with the given options
func NewClient(opts ...ClientOption) *Client {
	client := &Client{
		baseURL: DefaultBaseURL,
		headers: make(map[string]string),
		timeout: DefaultTimeout,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}

	// Apply options
	for _, opt := range opts {
		opt(client)
	}

	// Initialize services
	client.Model = services.NewModelService(client, client.variant)

	return client
}

// WithBaseURL sets a custom base URL for the client
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHeader adds a custom header that will be included in all requests
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithHeaders adds multiple custom headers that will be included in all requests
func WithHeaders(headers map[string]string) ClientOption {
	return func(c *Client) {
		for k, v := range headers {
			c.headers[k] = v
		}
	}
}

// WithVariant selects the request/response shape of the model service
func WithVariant(v models.Variant) ClientOption {
	return func(c *Client) {
		c.variant = v
	}
}

// GetBaseURL returns the configured base URL
func (c *Client) GetBaseURL() string {
	return c.baseURL
}

// GetTimeout returns the configured request timeout
func (c *Client) GetTimeout() time.Duration {
	return c.timeout
}

// Variant returns the configured variant
func (c *Client) Variant() models.Variant {
	return c.variant
}

// NewRequest creates a new HTTP request with default and custom headers
func (c *Client) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	url := fmt.Sprintf("%s%s", c.baseURL, path)

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set default headers
	req.Header.Set("Accept", "application/json")

	// Set custom headers
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	return req, nil
}

// Do executes an HTTP request exactly once. A run is never retried
// automatically; the user re-triggers it.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	return resp, nil
}
