package invertarsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error codes mirrored from the server's wire envelope.
const (
	ErrorCodeNotFound     = "NOT_FOUND"
	ErrorCodeUnauthorized = "UNAUTHORIZED"
	ErrorCodeForbidden    = "FORBIDDEN"
	ErrorCodeConflict     = "CONFLICT"
	ErrorCodeBadRequest   = "BAD_REQUEST"
	ErrorCodeInternal     = "INTERNAL"
)

// APIError is the client-side view of the server's error envelope.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"error"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsUnauthorized reports whether err is an APIError with the UNAUTHORIZED
// code. The session bootstrap uses this to distinguish "logged out" from
// transport failures.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == ErrorCodeUnauthorized
}

// decodeError reads an error envelope from a non-2xx response. A body that
// is not a valid envelope still yields a usable APIError.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = ErrorCodeInternal
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
