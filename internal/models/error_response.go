package models

// ErrorResponse is the body of every API error
type ErrorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	Violations any    `json:"violations,omitempty"`
}
