// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "validation error", Fields: fields}
}

// ShortageError is the envelope for a rejected production decrement. It
// carries every short component, not just the first, so clients can resolve
// all of them in one pass.
type ShortageError struct {
	Detail    string         `json:"detail"`
	Shortages []ShortageItem `json:"shortages"`
}

type ShortageItem struct {
	ComponentID   string `json:"component_id"`
	ComponentCode string `json:"component_code"`
	Required      int    `json:"required"`
	Available     int    `json:"available"`
	Shortage      int    `json:"shortage"`
}

func NewShortage(msg string, items []ShortageItem) *ShortageError {
	return &ShortageError{Detail: msg, Shortages: items}
}
