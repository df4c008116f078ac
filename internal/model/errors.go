package model

import (
	"errors"
	"net/http"
)

// Sentinel errors raised by repositories. Services translate them into
// *Error values carrying the status code for the response envelope.
var (
	ErrNotFound           = errors.New("not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already taken")
	ErrTitleTaken         = errors.New("video title already taken")
	ErrSequenceAllocation = errors.New("sequence allocation failed")
)

// Error is a domain error that knows the HTTP status it maps to. The API
// layer is the only place that turns it into a response; services and
// repositories never see status codes except through these constructors.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NewValidationError reports malformed input, such as a bad email shape or
// an out-of-bounds password length.
func NewValidationError(message string) *Error {
	return &Error{Code: http.StatusUnprocessableEntity, Message: message}
}

// NewRequiredFieldsError reports missing mandatory input.
func NewRequiredFieldsError() *Error {
	return &Error{Code: http.StatusBadRequest, Message: "all fields are required"}
}

// NewBadRequestError reports a request the server cannot act on.
func NewBadRequestError(message string) *Error {
	return &Error{Code: http.StatusBadRequest, Message: message}
}

// NewConflictError reports a duplicate-identity collision.
func NewConflictError(message string) *Error {
	return &Error{Code: http.StatusConflict, Message: message}
}

// NewNotFoundError reports a missing resource.
func NewNotFoundError(message string) *Error {
	return &Error{Code: http.StatusNotFound, Message: message}
}

// NewAuthenticationError reports bad credentials.
func NewAuthenticationError(message string) *Error {
	return &Error{Code: http.StatusUnauthorized, Message: message}
}

// NewUnauthorizedError reports a missing, invalid or revoked token.
func NewUnauthorizedError() *Error {
	return &Error{Code: http.StatusUnauthorized, Message: "unauthorized request"}
}

// NewInternalError reports a failure the caller cannot do anything about.
func NewInternalError(message string) *Error {
	return &Error{Code: http.StatusInternalServerError, Message: message}
}
