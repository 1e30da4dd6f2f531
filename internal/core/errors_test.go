package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestRelayError_HTTPStatusCode(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want int
	}{
		{ErrorKindUnsupportedMethod, http.StatusMethodNotAllowed},
		{ErrorKindInvalidRequest, http.StatusBadRequest},
		{ErrorKindMissingCredential, http.StatusInternalServerError},
		{ErrorKindUpstreamTransport, http.StatusBadGateway},
		{ErrorKindUpstreamParse, http.StatusBadGateway},
		{ErrorKindUpstreamAPI, http.StatusBadGateway},
		{ErrorKind("something-else"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			e := &RelayError{Kind: tt.kind}
			if got := e.HTTPStatusCode(); got != tt.want {
				t.Errorf("HTTPStatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRelayError_ToJSON(t *testing.T) {
	e := NewInvalidRequestError("messages must be a non-empty array", nil)

	raw, err := json.Marshal(e.ToJSON())
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if envelope.Error != "request format error: messages must be a non-empty array" {
		t.Errorf("error = %q, want request-format message", envelope.Error)
	}
}

func TestRelayError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	e := NewUpstreamTransportError("failed to reach AI service", cause)

	if !errors.Is(e, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}

func TestNewUpstreamErrors_MessagePrefix(t *testing.T) {
	tests := []struct {
		name string
		err  *RelayError
	}{
		{"transport", NewUpstreamTransportError("upstream request timed out", nil)},
		{"parse", NewUpstreamParseError("upstream returned invalid JSON", nil)},
		{"api", NewUpstreamAPIError("rate limited", nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.HasPrefix(tt.err.Message, "AI service temporarily unavailable: ") {
				t.Errorf("message %q missing unavailable prefix", tt.err.Message)
			}
		})
	}
}

func TestNewMissingCredentialError_Generic(t *testing.T) {
	e := NewMissingCredentialError()

	if strings.Contains(strings.ToLower(e.Message), "key") {
		t.Errorf("client-visible message should not hint at the credential, got %q", e.Message)
	}
	if e.HTTPStatusCode() != http.StatusInternalServerError {
		t.Errorf("HTTPStatusCode() = %d, want 500", e.HTTPStatusCode())
	}
}

func TestParseUpstreamError(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantDetail string
	}{
		{
			name:       "structured error message",
			statusCode: 429,
			body:       `{"error": {"message": "rate limited"}}`,
			wantDetail: "rate limited",
		},
		{
			name:       "non-JSON body falls back to raw text",
			statusCode: 503,
			body:       "Service Unavailable",
			wantDetail: "Service Unavailable",
		},
		{
			name:       "empty body falls back to status",
			statusCode: 502,
			body:       "",
			wantDetail: "upstream returned status 502",
		},
		{
			name:       "JSON without error message falls back to raw body",
			statusCode: 500,
			body:       `{"detail": "boom"}`,
			wantDetail: `{"detail": "boom"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := ParseUpstreamError(tt.statusCode, []byte(tt.body), nil)

			if e.Kind != ErrorKindUpstreamAPI {
				t.Errorf("Kind = %q, want %q", e.Kind, ErrorKindUpstreamAPI)
			}
			want := "AI service temporarily unavailable: " + tt.wantDetail
			if e.Message != want {
				t.Errorf("Message = %q, want %q", e.Message, want)
			}
			if e.HTTPStatusCode() != http.StatusBadGateway {
				t.Errorf("HTTPStatusCode() = %d, want 502", e.HTTPStatusCode())
			}
		})
	}
}

func TestParseUpstreamError_TruncatesLongBodies(t *testing.T) {
	body := strings.Repeat("x", 1024)
	e := ParseUpstreamError(500, []byte(body), nil)

	if len(e.Message) > len("AI service temporarily unavailable: ")+256 {
		t.Errorf("message not truncated, len = %d", len(e.Message))
	}
}
