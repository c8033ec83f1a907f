package api

import (
	"errors"
	"net/http"

	service "github.com/okian/pulso/internal/app"
	"github.com/okian/pulso/internal/domain/filter"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest       = errors.New("bad request")
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrNoSession        = errors.New("no session")
)

// Error records the handler operation that failed and the error kind used to
// pick the HTTP status.
type Error struct {
	Op   string
	Kind error
	Err  error
}

// NewKind returns an error of the given kind for op.
func NewKind(op string, kind error) *Error {
	return &Error{Op: op, Kind: kind}
}

// Wrap attaches op to err. The kind is derived from err.
func Wrap(op string, err error) *Error {
	return &Error{Op: op, Kind: kindOf(err), Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op + ": " + e.Kind.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// kindOf maps upstream errors onto API kinds.
func kindOf(err error) error {
	switch {
	case errors.Is(err, filter.ErrUnknownValue):
		return filter.ErrUnknownValue
	case errors.Is(err, service.ErrNotStarted):
		return service.ErrNotStarted
	case errors.Is(err, ErrBadRequest):
		return ErrBadRequest
	}
	return err
}

// statusOf returns the HTTP status and error code for err.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, filter.ErrUnknownValue):
		return http.StatusBadRequest, "unknown_value"
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, "method_not_allowed"
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "not_ready"
	}
	return http.StatusInternalServerError, "internal_error"
}
