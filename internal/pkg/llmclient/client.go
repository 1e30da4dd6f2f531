// Package llmclient provides the base HTTP client for the upstream
// chat-completion API with:
// - Request marshaling and response buffering
// - Standardized upstream error parsing
// - Observability hooks for metrics collection
//
// Exactly one outbound call is made per invocation. There is no retry loop
// and no circuit breaking; a failed call surfaces immediately as a relay
// error and retrying is the calling client's responsibility.
package llmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"chatrelay/internal/core"
	"chatrelay/internal/pkg/httpclient"
)

// Config holds configuration for the upstream client
type Config struct {
	// BaseURL is the API base URL
	BaseURL string
}

// Hooks receive notifications about outbound calls. Either field may be nil.
type Hooks struct {
	// OnRequest fires before the outbound call is issued.
	OnRequest func(endpoint string)

	// OnResult fires after the call completes or fails. statusCode is zero
	// when the request never produced a response.
	OnResult func(endpoint string, statusCode int, duration time.Duration, err error)
}

// HeaderSetter is a function that sets headers on an HTTP request
type HeaderSetter func(req *http.Request)

// Client is the base HTTP client for the upstream API
type Client struct {
	httpClient   *http.Client
	config       Config
	headerSetter HeaderSetter
	hooks        Hooks
}

// New creates a new upstream client with the given configuration
func New(config Config, headerSetter HeaderSetter, hooks Hooks) *Client {
	return &Client{
		httpClient:   httpclient.NewDefaultHTTPClient(),
		config:       config,
		headerSetter: headerSetter,
		hooks:        hooks,
	}
}

// NewWithHTTPClient creates a new upstream client with a custom HTTP client
func NewWithHTTPClient(httpClient *http.Client, config Config, headerSetter HeaderSetter, hooks Hooks) *Client {
	if httpClient == nil {
		httpClient = httpclient.NewDefaultHTTPClient()
	}
	return &Client{
		httpClient:   httpClient,
		config:       config,
		headerSetter: headerSetter,
		hooks:        hooks,
	}
}

// SetBaseURL updates the base URL
func (c *Client) SetBaseURL(url string) {
	c.config.BaseURL = url
}

// BaseURL returns the current base URL
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// Request represents an HTTP request to be made
type Request struct {
	Method   string
	Endpoint string
	Body     interface{} // Will be JSON marshaled if not nil
	Headers  map[string]string
}

// Response represents a fully buffered HTTP response
type Response struct {
	StatusCode int
	Body       []byte
}

// Do executes a request and unmarshals the 200 response body into result.
func (c *Client) Do(ctx context.Context, req Request, result interface{}) error {
	resp, err := c.DoRaw(ctx, req)
	if err != nil {
		return err
	}

	if result != nil {
		if err := json.Unmarshal(resp.Body, result); err != nil {
			return core.NewUpstreamParseError("failed to unmarshal response: "+err.Error(), err)
		}
	}

	return nil
}

// DoRaw executes a single request, buffering the full response body.
// Network-level failures, including the overall timeout firing, become
// upstream transport errors; non-200 statuses become upstream API errors.
func (c *Client) DoRaw(ctx context.Context, req Request) (*Response, error) {
	if c.hooks.OnRequest != nil {
		c.hooks.OnRequest(req.Endpoint)
	}

	start := time.Now()
	resp, err := c.doRequest(ctx, req)
	duration := time.Since(start)

	if err != nil {
		if c.hooks.OnResult != nil {
			c.hooks.OnResult(req.Endpoint, 0, duration, err)
		}
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		parsed := core.ParseUpstreamError(resp.StatusCode, resp.Body, nil)
		if c.hooks.OnResult != nil {
			c.hooks.OnResult(req.Endpoint, resp.StatusCode, duration, parsed)
		}
		return nil, parsed
	}

	if c.hooks.OnResult != nil {
		c.hooks.OnResult(req.Endpoint, resp.StatusCode, duration, nil)
	}
	return resp, nil
}

// doRequest executes a single HTTP request
func (c *Client) doRequest(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, transportError(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}

// buildRequest creates an HTTP request from a Request
func (c *Client) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	url := c.config.BaseURL + req.Endpoint

	var bodyReader io.Reader
	if req.Body != nil {
		bodyBytes, err := json.Marshal(req.Body)
		if err != nil {
			return nil, core.NewInvalidRequestError("failed to marshal request: "+err.Error(), err)
		}
		// bytes.Reader lets net/http compute Content-Length from the
		// serialized payload.
		bodyReader = bytes.NewReader(bodyBytes)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, bodyReader)
	if err != nil {
		return nil, core.NewInvalidRequestError("failed to create request: "+err.Error(), err)
	}

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	// Apply provider-specific headers (authorization, request ID)
	if c.headerSetter != nil {
		c.headerSetter(httpReq)
	}

	// Apply request-specific headers
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	return httpReq, nil
}

// transportError maps a network-level failure to a relay error with a
// client-safe detail string.
func transportError(err error) *core.RelayError {
	detail := "failed to reach AI service"
	if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
		detail = "upstream request timed out"
	}
	return core.NewUpstreamTransportError(detail, err)
}

// isTimeout reports whether err carries a net-level timeout.
func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
