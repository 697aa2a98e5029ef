// Package apierror defines the error envelopes the API returns to the front
// desk and back-office clients. Every 4xx/5xx body goes through here so that
// internals (SQL errors, stack traces) never reach the caller.
package apierror

// APIError is the canonical error envelope. Detail carries the operator-facing
// message in Spanish, matching the service-layer sentinel errors.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps per-field validation failures keyed by field name.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validación", Fields: fields}
}
