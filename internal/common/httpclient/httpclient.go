// Package httpclient provides a configurable HTTP client for making requests
// to REST APIs. It supports bearer-token authentication, applies an explicit
// per-request timeout, and converts server error bodies into typed errors.
// The package requires a Configurator implementation for server configuration
// and authentication details.
package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/tidwall/gjson"
)

// DefaultRequestTimeout bounds every request made through this client.
// Relying on ambient transport defaults is explicitly avoided.
const DefaultRequestTimeout = 15 * time.Second

// Configurator defines the interface for providing server configuration and
// authentication details.
type Configurator interface {
	GetServerURL() string
	GetUserID() string
	GetToken() string
	GetTokenExpiry() time.Time
}

// HTTPError represents an error response from the server with HTTP status
// code and message.
type HTTPError struct {
	StatusCode int    // HTTP status code of the error
	Message    string // Error message or response body
}

// Error implements the error interface for HTTPError.
func (e *HTTPError) Error() string {
	return e.Message
}

// HTTPClient represents a client for making HTTP requests to a REST API
// server. It handles authentication, request building, and response
// processing.
type HTTPClient struct {
	config     Configurator
	httpClient *http.Client
}

// ClientOptions contains options for configuring the HTTP client.
type ClientOptions struct {
	RequestTimeout time.Duration // per-request timeout; DefaultRequestTimeout when zero
}

// NewClient creates a new HTTP client using the provided configuration.
func NewClient(config Configurator, opts ...ClientOptions) *HTTPClient {
	clientOpts := ClientOptions{}
	if len(opts) > 0 {
		clientOpts = opts[0]
	}
	if clientOpts.RequestTimeout <= 0 {
		clientOpts.RequestTimeout = DefaultRequestTimeout
	}
	return &HTTPClient{
		config: config,
		httpClient: &http.Client{
			Timeout: clientOpts.RequestTimeout,
		},
	}
}

// RequestOptions contains options for making HTTP requests.
// All fields are required except QueryParams and Body.
type RequestOptions struct {
	Method      string            // HTTP method (GET, POST, PUT, DELETE)
	Path        string            // API endpoint path
	QueryParams map[string]string // Optional query parameters
	Body        []byte            // Optional request body
}

// DoRequest makes an HTTP request with the given options.
// Returns the response body, Location header (if present), and any error
// that occurred. No retries are performed; a failed call surfaces its error
// to the caller.
func (c *HTTPClient) DoRequest(ctx context.Context, opts RequestOptions) ([]byte, string, error) {
	u, err := url.Parse(c.config.GetServerURL())
	if err != nil {
		return nil, "", fmt.Errorf("invalid server URL: %v", err)
	}
	u.Path = path.Join(u.Path, opts.Path)

	q := u.Query()
	for k, v := range opts.QueryParams {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	bodyReader := bytes.NewBuffer(opts.Body)
	req, err := http.NewRequestWithContext(ctx, opts.Method, u.String(), bodyReader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if userID := c.config.GetUserID(); userID != "" {
		req.Header.Set("X-MentorHub-User", userID)
	}

	// Use token if still valid
	if c.config.GetToken() != "" {
		expiry := c.config.GetTokenExpiry()
		if expiry.IsZero() || time.Now().Before(expiry) {
			req.Header.Set("Authorization", "Bearer "+c.config.GetToken())
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response body: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", &HTTPError{
			StatusCode: resp.StatusCode,
			Message:    serverErrorMessage(body, resp.Status),
		}
	}

	return body, resp.Header.Get("Location"), nil
}

// serverErrorMessage extracts the error message from a server error body,
// falling back to the HTTP status text when the body is not the expected
// JSON error envelope.
func serverErrorMessage(body []byte, statusText string) string {
	if msg := gjson.GetBytes(body, "error"); msg.Exists() && msg.String() != "" {
		return msg.String()
	}
	if len(body) > 0 {
		return string(body)
	}
	return statusText
}
