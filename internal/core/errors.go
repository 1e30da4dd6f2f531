// Package core provides the wire types, error taxonomy and interfaces for the
// chat relay.
package core

import (
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// ErrorKind represents the category of a relay failure
type ErrorKind string

const (
	// ErrorKindUnsupportedMethod indicates a non-POST request (405)
	ErrorKindUnsupportedMethod ErrorKind = "unsupported_method"
	// ErrorKindInvalidRequest indicates a malformed client request (400)
	ErrorKindInvalidRequest ErrorKind = "invalid_request"
	// ErrorKindMissingCredential indicates the upstream credential is not configured (500)
	ErrorKindMissingCredential ErrorKind = "missing_credential"
	// ErrorKindUpstreamTransport indicates a network failure or timeout reaching upstream (502)
	ErrorKindUpstreamTransport ErrorKind = "upstream_transport"
	// ErrorKindUpstreamParse indicates upstream returned a non-JSON body (502)
	ErrorKindUpstreamParse ErrorKind = "upstream_parse"
	// ErrorKindUpstreamAPI indicates upstream returned a structured error object (502)
	ErrorKindUpstreamAPI ErrorKind = "upstream_api"
)

// upstreamUnavailablePrefix leads every client-visible 502 message.
const upstreamUnavailablePrefix = "AI service temporarily unavailable: "

// RelayError is the base error type for all relay failures. Message is the
// client-visible text; Err carries the underlying cause for server-side logs
// and is never serialized.
type RelayError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Error implements the error interface
func (e *RelayError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap implements the error unwrapping interface
func (e *RelayError) Unwrap() error {
	return e.Err
}

// HTTPStatusCode returns the HTTP status code for this error kind
func (e *RelayError) HTTPStatusCode() int {
	switch e.Kind {
	case ErrorKindUnsupportedMethod:
		return http.StatusMethodNotAllowed
	case ErrorKindInvalidRequest:
		return http.StatusBadRequest
	case ErrorKindMissingCredential:
		return http.StatusInternalServerError
	case ErrorKindUpstreamTransport, ErrorKindUpstreamParse, ErrorKindUpstreamAPI:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ToJSON converts the error to the flat response envelope
func (e *RelayError) ToJSON() map[string]any {
	return map[string]any{"error": e.Message}
}

// NewUnsupportedMethodError creates a 405 error for a non-POST request
func NewUnsupportedMethodError(method string) *RelayError {
	return &RelayError{
		Kind:    ErrorKindUnsupportedMethod,
		Message: fmt.Sprintf("method %s not allowed, use POST", method),
	}
}

// NewInvalidRequestError creates a 400 error for a malformed request
func NewInvalidRequestError(detail string, err error) *RelayError {
	return &RelayError{
		Kind:    ErrorKindInvalidRequest,
		Message: "request format error: " + detail,
		Err:     err,
	}
}

// NewMissingCredentialError creates a 500 error for an unset credential.
// The client-visible message stays generic; the operator-facing detail
// belongs in the server log.
func NewMissingCredentialError() *RelayError {
	return &RelayError{
		Kind:    ErrorKindMissingCredential,
		Message: "service configuration error, contact the operator",
	}
}

// NewUpstreamTransportError creates a 502 error for a network-level failure
func NewUpstreamTransportError(detail string, err error) *RelayError {
	return &RelayError{
		Kind:    ErrorKindUpstreamTransport,
		Message: upstreamUnavailablePrefix + detail,
		Err:     err,
	}
}

// NewUpstreamParseError creates a 502 error for a non-JSON upstream body
func NewUpstreamParseError(detail string, err error) *RelayError {
	return &RelayError{
		Kind:    ErrorKindUpstreamParse,
		Message: upstreamUnavailablePrefix + detail,
		Err:     err,
	}
}

// NewUpstreamAPIError creates a 502 error carrying an upstream-provided message
func NewUpstreamAPIError(detail string, err error) *RelayError {
	return &RelayError{
		Kind:    ErrorKindUpstreamAPI,
		Message: upstreamUnavailablePrefix + detail,
		Err:     err,
	}
}

// ParseUpstreamError builds a RelayError from a non-200 upstream response.
// It prefers the structured error.message field, falling back to the raw body
// and finally to the status code alone.
func ParseUpstreamError(statusCode int, body []byte, err error) *RelayError {
	detail := ""
	if gjson.ValidBytes(body) {
		detail = gjson.GetBytes(body, "error.message").String()
	}
	if detail == "" {
		detail = strTruncate(string(body), 256)
	}
	if detail == "" {
		detail = fmt.Sprintf("upstream returned status %d", statusCode)
	}
	return NewUpstreamAPIError(detail, err)
}

// strTruncate caps s at n bytes for log and error hygiene.
func strTruncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
