package api

import (
	"net/http"

	"github.com/flightops/skymarshal/pkg/config"
)

// apiError carries an ErrorResponse body and implements echo's
// HTTPStatusCoder interface so the server's error handler can render a
// stable {error, error_code} shape regardless of status.
type apiError struct {
	status int
	body   *ErrorResponse
}

func (e *apiError) Error() string {
	return e.body.Error
}

func (e *apiError) StatusCode() int {
	return e.status
}

// httpError builds an apiError carrying an ErrorResponse body so
// clients get a stable {error, error_code} shape regardless of status.
func httpError(status int, code config.ErrorCode, message string) *apiError {
	return &apiError{status: status, body: &ErrorResponse{Error: message, ErrorCode: code}}
}

func badRequest(message string) *apiError {
	return httpError(http.StatusBadRequest, config.ErrorCodeInvalidRequest, message)
}

func notFoundError(message string) *apiError {
	return httpError(http.StatusNotFound, "", message)
}

func internalError(message string) *apiError {
	return httpError(http.StatusInternalServerError, config.ErrorCodeInternalError, message)
}
