package generation

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrGeneration marks a failed text generation call (transport, quota, provider fault, deadline).
	ErrGeneration = errors.New("text generation failed")
	// ErrMalformedOutput marks generator output that failed parsing or shape validation.
	ErrMalformedOutput = errors.New("malformed generator output")
)

const snippetLimit = 500

// MalformedOutputError carries a bounded prefix of the offending output for diagnostics.
type MalformedOutputError struct {
	Task    Task
	Reason  string
	Snippet string
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("%s: malformed output: %s", e.Task, e.Reason)
}

func (e *MalformedOutputError) Is(target error) bool { return target == ErrMalformedOutput }

func newMalformed(task Task, reason string, raw string) *MalformedOutputError {
	return &MalformedOutputError{Task: task, Reason: reason, Snippet: Snippet(raw)}
}

// Snippet returns at most the first 500 characters of s.
func Snippet(s string) string {
	if utf8.RuneCountInString(s) <= snippetLimit {
		return s
	}
	n := 0
	for i := range s {
		if n == snippetLimit {
			return s[:i]
		}
		n++
	}
	return s
}

func generationFailed(task Task, err error) error {
	return fmt.Errorf("%s: %w: %w", task, ErrGeneration, err)
}
