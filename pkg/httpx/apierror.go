package httpx

import (
	"fmt"
	"net/http"
	"strings"
)

// API error codes surfaced to clients. Internal failures are always
// normalized to CodeInternal with a generic message so nothing leaks.
const (
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeConflict     = "CONFLICT"
	CodeBadRequest   = "BAD_REQUEST"
	CodeInternal     = "INTERNAL"
)

// APIError is the typed wire error envelope. It implements error and can be
// written directly to an HTTP response.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"error"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Write emits the error as a JSON response with its HTTP status.
func (e *APIError) Write(w http.ResponseWriter) {
	WriteJSON(w, e.Status, e)
}

func NotFound(message string) *APIError {
	return &APIError{Status: http.StatusNotFound, Code: CodeNotFound, Message: message}
}

func Unauthorized(message string) *APIError {
	return &APIError{Status: http.StatusUnauthorized, Code: CodeUnauthorized, Message: message}
}

func Forbidden(message string) *APIError {
	return &APIError{Status: http.StatusForbidden, Code: CodeForbidden, Message: message}
}

func Conflict(message string) *APIError {
	return &APIError{Status: http.StatusConflict, Code: CodeConflict, Message: message}
}

func BadRequest(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: CodeBadRequest, Message: message}
}

// Internal returns the generic server error. The incident detail belongs in
// the log, never in the response.
func Internal() *APIError {
	return &APIError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternal,
		Message: "something went wrong",
	}
}

// Violations accumulates request validation failures so a single BadRequest
// can report every bad field at once.
type Violations []string

// Add records a violation for a named field.
func (v *Violations) Add(field, problem string) {
	*v = append(*v, field+" "+problem)
}

// Err returns a BadRequest aggregating all recorded violations, comma-joined,
// or nil if there were none.
func (v Violations) Err() *APIError {
	if len(v) == 0 {
		return nil
	}
	return BadRequest(strings.Join(v, ", "))
}
