// Package upstream provides the OpenAI-compatible chat-completion client for the relay.
package upstream

import (
	"context"
	"net/http"

	"chatrelay/internal/core"
	"chatrelay/internal/pkg/llmclient"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Client issues chat-completion requests to the upstream API.
type Client struct {
	client *llmclient.Client
	creds  core.CredentialSource
}

// New creates a new upstream client. The credential is read from creds on
// every outbound call, so a source backed by process configuration always
// reflects the current value.
func New(creds core.CredentialSource, hooks llmclient.Hooks) *Client {
	c := &Client{creds: creds}
	c.client = llmclient.New(llmclient.Config{BaseURL: defaultBaseURL}, c.setHeaders, hooks)
	return c
}

// NewWithHTTPClient creates a new upstream client with a custom HTTP client.
// If httpClient is nil, the default client is used.
func NewWithHTTPClient(creds core.CredentialSource, httpClient *http.Client, hooks llmclient.Hooks) *Client {
	c := &Client{creds: creds}
	c.client = llmclient.NewWithHTTPClient(httpClient, llmclient.Config{BaseURL: defaultBaseURL}, c.setHeaders, hooks)
	return c
}

// SetBaseURL allows configuring a custom base URL for the upstream API
func (c *Client) SetBaseURL(url string) {
	c.client.SetBaseURL(url)
}

// setHeaders sets the required headers for upstream API requests. The
// credential goes into the Authorization header only; it is never logged or
// echoed back to the caller.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.creds.APIKey())

	// Forward request ID if present in context using the X-Client-Request-Id
	// header. The upstream requires ASCII-only characters and max 512 bytes,
	// otherwise returns 400.
	if requestID := core.GetRequestID(req.Context()); requestID != "" && isValidClientRequestID(requestID) {
		req.Header.Set("X-Client-Request-Id", requestID)
	}
}

// isValidClientRequestID checks if the request ID is valid for the upstream's
// X-Client-Request-Id header: ASCII characters only, max 512 characters.
func isValidClientRequestID(id string) bool {
	if len(id) > 512 {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] > 127 {
			return false
		}
	}
	return true
}

// ChatCompletion sends one chat completion request upstream and returns the
// raw response body for defensive extraction by the caller.
func (c *Client) ChatCompletion(ctx context.Context, req *core.ChatRequest) ([]byte, error) {
	resp, err := c.client.DoRaw(ctx, llmclient.Request{
		Method:   http.MethodPost,
		Endpoint: "/chat/completions",
		Body:     req,
	})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}
