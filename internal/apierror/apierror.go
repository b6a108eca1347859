// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// WithCode returns an envelope carrying a machine-readable reason code.
func WithCode(code, msg string) *APIError {
	return &APIError{Detail: msg, Code: code}
}

// ValidationError wraps multiple field errors. Input echoes the submitted
// payload back so clients can re-populate their forms.
type ValidationError struct {
	Detail string            `json:"detail"`
	Code   string            `json:"code,omitempty"`
	Fields map[string]string `json:"fields"`
	Input  interface{}       `json:"input,omitempty"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "validation failed", Fields: fields}
}

// NewDomainValidation builds a validation envelope for a rejected business rule.
func NewDomainValidation(code, msg string, fields map[string]string, input interface{}) *ValidationError {
	if fields == nil {
		fields = map[string]string{}
	}
	return &ValidationError{Detail: msg, Code: code, Fields: fields, Input: input}
}
