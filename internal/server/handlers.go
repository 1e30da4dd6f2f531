// Package server provides HTTP handlers and server setup for the chat relay.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"chatrelay/internal/core"
	"chatrelay/internal/observability"
)

// Handler holds the HTTP handlers
type Handler struct {
	completer core.Completer
	creds     core.CredentialSource
	model     string
	metrics   *observability.Metrics
}

// NewHandler creates a new handler. metrics may be nil when metrics are disabled.
func NewHandler(completer core.Completer, creds core.CredentialSource, model string, metrics *observability.Metrics) *Handler {
	return &Handler{
		completer: completer,
		creds:     creds,
		model:     model,
		metrics:   metrics,
	}
}

// Chat handles /api/chat. The route accepts any method so non-POST requests
// still receive the relay's JSON error envelope rather than the router default.
func (h *Handler) Chat(c echo.Context) error {
	if c.Request().Method != http.MethodPost {
		return h.respondError(c, core.NewUnsupportedMethodError(c.Request().Method))
	}

	// Decode directly instead of echo's Bind so a missing Content-Type header
	// still gets the request-format treatment.
	var req core.RelayRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return h.respondError(c, core.NewInvalidRequestError("body must be valid JSON with a messages array: "+err.Error(), err))
	}

	payload, err := core.Prepare(&req, h.model)
	if err != nil {
		return h.respondError(c, err)
	}

	// Credential check happens after validation and before any outbound call.
	if h.creds.APIKey() == "" {
		slog.Error("upstream credential is not configured",
			"request_id", core.GetRequestID(c.Request().Context()),
			"hint", "set OPENAI_API_KEY in the environment")
		return h.respondError(c, core.NewMissingCredentialError())
	}

	body, err := h.completer.ChatCompletion(c.Request().Context(), payload)
	if err != nil {
		slog.Error("upstream call failed",
			"request_id", core.GetRequestID(c.Request().Context()),
			"error", err)
		return h.respondError(c, err)
	}

	reply, err := core.ExtractReply(body)
	if err != nil {
		slog.Error("upstream response rejected",
			"request_id", core.GetRequestID(c.Request().Context()),
			"error", err)
		return h.respondError(c, err)
	}

	c.Response().Header().Set(echo.HeaderAccessControlAllowOrigin, "*")
	h.metrics.ObserveRequest(http.StatusOK)
	return c.JSON(http.StatusOK, core.RelayResponse{Reply: reply})
}

// Health handles GET /health
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// respondError converts relay errors to the flat {"error": ...} envelope
func (h *Handler) respondError(c echo.Context, err error) error {
	var relayErr *core.RelayError
	if errors.As(err, &relayErr) {
		h.metrics.ObserveRequest(relayErr.HTTPStatusCode())
		return c.JSON(relayErr.HTTPStatusCode(), relayErr.ToJSON())
	}

	// Fallback for unexpected errors
	h.metrics.ObserveRequest(http.StatusInternalServerError)
	return c.JSON(http.StatusInternalServerError, map[string]any{
		"error": "an unexpected error occurred",
	})
}
