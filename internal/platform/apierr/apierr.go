package apierr

import (
	"errors"
	"fmt"
	"net/http"

	pkgerrors "github.com/yungbote/coursegen-backend/internal/pkg/errors"
)

type Error struct {
	Status int
	Code   string
	Err    error
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

// Classifier maps a domain error to an API error. It returns nil when it does not recognize err.
type Classifier func(err error) *Error

// From resolves err into an *Error, consulting extra classifiers before the generic sentinels.
// Unrecognized errors become 500 with fallbackCode.
func From(err error, fallbackCode string, extra ...Classifier) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	for _, c := range extra {
		if c == nil {
			continue
		}
		if out := c(err); out != nil {
			return out
		}
	}
	switch {
	case errors.Is(err, pkgerrors.ErrInvalidArgument):
		return New(http.StatusBadRequest, "validation_error", err)
	case errors.Is(err, pkgerrors.ErrNotFound):
		return New(http.StatusNotFound, "not_found", err)
	case errors.Is(err, pkgerrors.ErrConflict):
		return New(http.StatusConflict, "conflict", err)
	}
	return New(http.StatusInternalServerError, fallbackCode, err)
}
