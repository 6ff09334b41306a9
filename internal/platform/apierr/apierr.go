package apierr

import (
	"errors"
	"fmt"
	"net/http"

	types "github.com/shiplabel/shiplabel-backend/internal/domain"
	pkgerrors "github.com/shiplabel/shiplabel-backend/internal/pkg/errors"
)

type Error struct {
	Status int
	Code   string
	Err    error
	// Fields carries per-field validation messages, if any.
	Fields map[string]string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// From classifies err by the sentinels it wraps. fallbackCode is used for unclassified errors,
// which map to 500.
func From(err error, fallbackCode string) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	var ve *types.ValidationError
	switch {
	case errors.As(err, &ve):
		return &Error{Status: http.StatusBadRequest, Code: "validation_failed", Err: err, Fields: ve.Fields}
	case errors.Is(err, pkgerrors.ErrNotFound):
		return New(http.StatusNotFound, "not_found", err)
	case errors.Is(err, pkgerrors.ErrConflict):
		return New(http.StatusConflict, "conflict", err)
	case errors.Is(err, pkgerrors.ErrInvalidArgument):
		return New(http.StatusBadRequest, "invalid_argument", err)
	default:
		return New(http.StatusInternalServerError, fallbackCode, err)
	}
}
