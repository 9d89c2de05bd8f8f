package rest

import "net/http"

// Error is an application error carrying the HTTP status code a handler or
// hook wants the client to receive. A zero Status translates to 500 and an
// empty Message to the standard reason phrase for the status, so both
// &Error{} and NewError(404) are usable as-is.
type Error struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.message()
}

// StatusCode returns the effective status, defaulting to 500.
func (e *Error) StatusCode() int {
	if e.Status == 0 {
		return http.StatusInternalServerError
	}
	return e.Status
}

func (e *Error) message() string {
	if e.Message == "" {
		return http.StatusText(e.StatusCode())
	}
	return e.Message
}

// NewError creates an Error for the given status. The optional message
// overrides the status reason phrase.
func NewError(status int, message ...string) *Error {
	e := &Error{Status: status}
	if len(message) > 0 {
		e.Message = message[0]
	}
	return e
}

// BadRequest creates a 400 error.
func BadRequest(message ...string) *Error {
	return NewError(http.StatusBadRequest, message...)
}

// Unauthorized creates a 401 error.
func Unauthorized(message ...string) *Error {
	return NewError(http.StatusUnauthorized, message...)
}

// Forbidden creates a 403 error.
func Forbidden(message ...string) *Error {
	return NewError(http.StatusForbidden, message...)
}

// NotFound creates a 404 error.
func NotFound(message ...string) *Error {
	return NewError(http.StatusNotFound, message...)
}

// Conflict creates a 409 error.
func Conflict(message ...string) *Error {
	return NewError(http.StatusConflict, message...)
}

// Internal creates a 500 error.
func Internal(message ...string) *Error {
	return NewError(http.StatusInternalServerError, message...)
}
