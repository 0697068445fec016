package api

import (
	"errors"
	"fmt"
)

// Kind sorts API failures into the categories the UI reacts to.
type Kind int

const (
	// KindTransport covers failures where no HTTP response arrived:
	// connection refused, timeout, DNS.
	KindTransport Kind = iota
	// KindUnauthorized is a 401. It is the single trigger for forced logout.
	KindUnauthorized
	// KindValidation is a 4xx carrying field-keyed validation messages.
	KindValidation
	// KindNotFound is a 404 without validation payload.
	KindNotFound
	// KindServer is any other error status.
	KindServer
)

// Error is the classified form of every failure returned by Client.
type Error struct {
	Kind    Kind
	Status  int // zero for transport failures
	Message string
	Fields  map[string][]string // populated for KindValidation
	Cause   error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindTransport && e.Cause != nil:
		return fmt.Sprintf("api unreachable: %v", e.Cause)
	case e.Message != "":
		return fmt.Sprintf("api status %d: %s", e.Status, e.Message)
	default:
		return fmt.Sprintf("api status %d", e.Status)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindUnauthorized
}

// AsValidation extracts field-keyed validation messages when present.
func AsValidation(err error) (map[string][]string, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Kind == KindValidation {
		return apiErr.Fields, true
	}
	return nil, false
}

// IsTransport reports whether err never reached the server.
func IsTransport(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindTransport
}

// errorBody mirrors the server's error payload shape.
type errorBody struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

func classify(status int, body errorBody) *Error {
	e := &Error{Status: status, Message: body.Message}
	switch {
	case status == 401:
		e.Kind = KindUnauthorized
	case len(body.Errors) > 0:
		e.Kind = KindValidation
		e.Fields = body.Errors
	case status == 404:
		e.Kind = KindNotFound
	default:
		e.Kind = KindServer
	}
	return e
}
