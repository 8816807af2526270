// Package apperr carries business errors from the point of detection to the
// HTTP boundary, where they are rendered into the response envelope. The
// transport status is always 200; Code is the real outcome.
package apperr

import "errors"

// Error is a business error with an application-level status code.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// New builds an error with an explicit code and message.
func New(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Generic replaces any unexpected fault before it reaches a client. The
// original cause must be logged server-side; no internal detail leaks.
func Generic() *Error {
	return &Error{Code: 500, Message: "Generic error"}
}

// Unauthorized is raised when a route requires an identity and none is set.
func Unauthorized() *Error {
	return &Error{Code: 401, Message: "Unauthorized"}
}

// Forbidden is raised when an identity is present but access is denied.
func Forbidden() *Error {
	return &Error{Code: 403, Message: "Forbidden"}
}

// As unwraps err into an *Error if it carries one.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
