package runtime

import (
	"errors"
	"fmt"
)

// ErrPermanent marks failures that must not be redelivered.
var ErrPermanent = errors.New("permanent job failure")

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() []error {
	return []error{ErrPermanent, e.err}
}

// Permanent wraps err so IsPermanent reports true while errors.Is still sees err.
func Permanent(err error) error {
	if err == nil || IsPermanent(err) {
		return err
	}
	return &permanentError{err: err}
}

func IsPermanent(err error) bool { return errors.Is(err, ErrPermanent) }

type MissingHandlerError struct{ JobType string }

func (e *MissingHandlerError) Error() string { return "no handler registered for job_type=" + e.JobType }

type PanicError struct{ Val any }

func (e *PanicError) Error() string { return fmt.Sprintf("panic: %v", e.Val) }
