package web

import "github.com/pkg/errors"

// Error is used to pass an error during the request through the application
// with web-specific context. Data carries a machine-readable payload for
// domain rejections (reason codes, distances, remaining counts).
type Error struct {
	Err    error
	Status int
	Fields map[string]string
	Data   map[string]interface{}
}

// NewRequestError wraps a provided error with an HTTP status code.
func NewRequestError(err error, status int) error {
	return &Error{Err: err, Status: status}
}

// NewRejection builds a request error carrying a reason code plus context
// data. Domain rejections are reported, never retried by the server.
func NewRejection(err error, status int, reason string, data map[string]interface{}) error {
	if data == nil {
		data = map[string]interface{}{}
	}
	data["reason"] = reason
	return &Error{Err: err, Status: status, Data: data}
}

func (e *Error) Error() string {
	return e.Err.Error()
}

// IsRequestError checks whether an error (or its cause chain) is an Error.
func IsRequestError(err error) (*Error, bool) {
	var webErr *Error
	if errors.As(err, &webErr) {
		return webErr, true
	}
	return nil, false
}
