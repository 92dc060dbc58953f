package api

import (
	"errors"
	"net/http"

	"github.com/samcharles93/dzx/pkg/dzx"
	"github.com/samcharles93/dzx/pkg/fsbytes"
)

var ErrInvalidRequest = errors.New("invalid_request")

type invalidRequestError struct {
	msg string
}

func (e invalidRequestError) Error() string {
	return e.msg
}

func (e invalidRequestError) Unwrap() error {
	return ErrInvalidRequest
}

func newInvalidRequest(msg string) error {
	return invalidRequestError{msg: msg}
}

// classify maps codec and request errors onto an HTTP status and error type.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, dzx.ErrInvalidLayer),
		errors.Is(err, dzx.ErrUnregisteredType):
		return http.StatusBadRequest, "invalid_request_error"
	case errors.Is(err, dzx.ErrCorruptFile):
		return http.StatusBadRequest, "invalid_container_error"
	case errors.Is(err, dzx.ErrUnsavableChunk):
		return http.StatusConflict, "unsavable_container_error"
	case errors.Is(err, dzx.ErrFieldOverflow), errors.Is(err, fsbytes.ErrStringTooLong):
		return http.StatusUnprocessableEntity, "field_overflow_error"
	}
	return http.StatusInternalServerError, "server_error"
}
