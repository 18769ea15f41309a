package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/solitaire-server/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidGameRecord  = "INVALID_GAME_RECORD"
	CodeUnknownUser        = "UNKNOWN_USER"
	CodeNoBoundAccount     = "NO_BOUND_ACCOUNT"
	CodeNoGameRecords      = "NO_GAME_RECORDS"
	CodeUsernameExists     = "USERNAME_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeAddressMismatch    = "ADDRESS_MISMATCH"
	CodeNotFound           = "NOT_FOUND"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	var ve *model.ValidationError
	if errors.As(err, &ve) {
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, ve.Error()}}
	}

	switch {
	case errors.Is(err, model.ErrInvalidGameRecord):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidGameRecord, "Game record must be a JSON object or array"}}
	case errors.Is(err, model.ErrUnknownUser):
		return &httpError{http.StatusNotFound, APIError{CodeUnknownUser, "Unknown user"}}
	case errors.Is(err, model.ErrNoBoundAccount):
		return &httpError{http.StatusNotFound, APIError{CodeNoBoundAccount, "No account is bound to this address"}}
	case errors.Is(err, model.ErrNoGameRecords):
		return &httpError{http.StatusNotFound, APIError{CodeNoGameRecords, "No game records available"}}
	case errors.Is(err, model.ErrDuplicateUsername):
		return &httpError{http.StatusConflict, APIError{CodeUsernameExists, "Username already exists"}}
	case errors.Is(err, model.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, model.ErrAddressMismatch):
		return &httpError{http.StatusForbidden, APIError{CodeAddressMismatch, "Account is not bound to this address"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewNotFoundError creates a route not found error
func NewNotFoundError() error {
	return &httpError{http.StatusNotFound, APIError{CodeNotFound, "Not found"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
