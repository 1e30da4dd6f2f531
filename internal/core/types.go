package core

import "strings"

// Message roles accepted from the client and sent upstream.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Fixed upstream completion parameters. The relay exposes no way for the
// client to tune these.
const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1024
)

// ChatMessage represents a single message in the conversation
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// RelayRequest is the inbound request body accepted from the browser client.
// System is an optional role-setting instruction; when present and non-empty
// after trimming, it is injected as a leading system message.
type RelayRequest struct {
	Messages []ChatMessage `json:"messages"`
	System   string        `json:"system,omitempty"`
}

// ChatRequest is the payload sent to the upstream chat-completion API.
// Temperature, MaxTokens and Stream serialize unconditionally so the upstream
// always sees the relay's fixed parameters.
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream"`
}

// RelayResponse is the success body returned to the client.
type RelayResponse struct {
	Reply string `json:"reply"`
}

// Prepare validates an inbound request and builds the upstream payload.
// The message sequence passes through in original order; a trimmed non-empty
// System value is prepended as a synthetic system message. An absent, empty
// or whitespace-only System injects nothing.
func Prepare(req *RelayRequest, model string) (*ChatRequest, error) {
	if len(req.Messages) == 0 {
		return nil, NewInvalidRequestError("messages must be a non-empty array", nil)
	}

	messages := req.Messages
	if system := strings.TrimSpace(req.System); system != "" {
		messages = append([]ChatMessage{{Role: RoleSystem, Content: system}}, messages...)
	}

	return &ChatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		Stream:      false,
	}, nil
}
