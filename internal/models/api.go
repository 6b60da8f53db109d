package models

// ErrorResponse is the envelope returned by the /api/v1 endpoints. The relay
// endpoint uses the flatter RelayError shape instead, matching its own
// contract.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}
