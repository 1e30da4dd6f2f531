package core

import "context"

// CredentialSource supplies the upstream API credential. The production
// implementation reads process-wide configuration; tests substitute fixed
// values or simulate an unset credential.
type CredentialSource interface {
	// APIKey returns the upstream bearer token, or empty when unconfigured.
	APIKey() string
}

// Completer executes one chat-completion round trip against the upstream API
// and returns the raw response body. Implementations issue exactly one
// outbound call per invocation; the relay performs no retries.
type Completer interface {
	ChatCompletion(ctx context.Context, req *ChatRequest) ([]byte, error)
}
