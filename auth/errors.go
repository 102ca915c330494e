package auth

import (
	"errors"
	"net/http"
)

// Callable error codes.
const (
	CodeUnauthenticated  = "unauthenticated"
	CodePermissionDenied = "permission-denied"
	CodeInvalidArgument  = "invalid-argument"
	CodeAlreadyExists    = "already-exists"
	CodeNotFound         = "not-found"
	CodeInternal         = "internal"
)

// CallError is returned by admin callables.
type CallError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *CallError) Error() string { return e.Code + ": " + e.Message }

func NewError(code, message string) *CallError {
	return &CallError{Code: code, Message: message}
}

// HTTPStatus maps the callable code to a response status.
func (e *CallError) HTTPStatus() int {
	switch e.Code {
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodePermissionDenied:
		return http.StatusForbidden
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeAlreadyExists:
		return http.StatusConflict
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// AsCallError unwraps err into a CallError, turning anything else into an
// internal error carrying fallback.
func AsCallError(err error, fallback string) *CallError {
	var ce *CallError
	if errors.As(err, &ce) {
		return ce
	}
	return NewError(CodeInternal, fallback)
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)
