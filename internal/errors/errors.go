package errors

import (
	"errors"
	"net/http"
	"time"
)

var (
	// ErrGadgetNotFound is returned when a gadget id matches no record.
	ErrGadgetNotFound = errors.New("gadget not found")
	// ErrInvalidStatus is returned when a status value is outside the enum.
	ErrInvalidStatus = errors.New("invalid gadget status")
	// ErrInvalidConfirmationCode is returned when a self-destruct code does not
	// match the issued challenge or the challenge has expired.
	ErrInvalidConfirmationCode = errors.New("invalid confirmation code")
	// ErrUserAlreadyExists is returned when an email is already registered.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrInvalidCredentials is returned when login fails for any reason.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotAuthorized is returned when a token is missing, malformed, expired
	// or references a user that no longer exists.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrCodenameSpaceExhausted is returned when no unique codename could be
	// generated within the attempt bound.
	ErrCodenameSpaceExhausted = errors.New("codename namespace exhausted")
)

// ErrorResponse is the boundary error body shape.
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Stack     string `json:"stack,omitempty"`
	Timestamp string `json:"timestamp"`
}

// NewErrorResponse builds the standard error body for a message. Stack is
// attached by the HTTP error handler outside production only.
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{
		Success:   false,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// HTTPStatus maps domain errors to HTTP status codes.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrGadgetNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidConfirmationCode):
		return http.StatusBadRequest
	case errors.Is(err, ErrUserAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrNotAuthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrCodenameSpaceExhausted):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
