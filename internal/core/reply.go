package core

import "github.com/tidwall/gjson"

// PlaceholderReply is returned when an otherwise well-formed completion
// carries no extractable reply text. The call is treated as successful.
const PlaceholderReply = "(unable to parse AI reply)"

// ExtractReply pulls the reply text out of a raw upstream completion body.
//
// The body is inspected in order: invalid JSON fails with an upstream parse
// error; a structured error object fails with its message (or a generic one
// when absent); otherwise choices.0.message.content is navigated defensively
// and a missing or non-string value degrades to PlaceholderReply.
func ExtractReply(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", NewUpstreamParseError("upstream returned invalid JSON", nil)
	}

	if errObj := gjson.GetBytes(body, "error"); errObj.Exists() {
		msg := errObj.Get("message").String()
		if msg == "" {
			msg = "upstream reported an unspecified error"
		}
		return "", NewUpstreamAPIError(msg, nil)
	}

	content := gjson.GetBytes(body, "choices.0.message.content")
	if content.Type != gjson.String {
		return PlaceholderReply, nil
	}
	return content.String(), nil
}
