package types

// SuccessEnvelope wraps every successful payload. Messages carries operator
// notices produced by the request (bulk actions, list edits).
type SuccessEnvelope struct {
	Data     any       `json:"data"`
	Messages []Message `json:"messages,omitempty"`
}

// Message is a one-shot notice shown to the operator after an admin request.
type Message struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
