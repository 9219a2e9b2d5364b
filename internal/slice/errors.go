package slice

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure so callers can branch on it.
type Kind string

const (
	// KindValidation means a spec violates an invariant. Never retried.
	KindValidation Kind = "ValidationError"
	// KindBackendUnavailable means a transient transport or auth failure.
	KindBackendUnavailable Kind = "BackendUnavailable"
	// KindNotFound means the referenced slice, node or network does not exist.
	KindNotFound Kind = "NotFound"
	// KindTimeout means readiness was not reached before the deadline.
	KindTimeout Kind = "TimeoutExceeded"
	// KindInvalidState means the operation conflicts with the lifecycle state.
	KindInvalidState Kind = "InvalidState"
)

// Sentinels for errors.Is matching. Any *Error with the same Kind matches.
var (
	ErrValidation         = &Error{Kind: KindValidation}
	ErrBackendUnavailable = &Error{Kind: KindBackendUnavailable}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrTimeoutExceeded    = &Error{Kind: KindTimeout}
	ErrInvalidState       = &Error{Kind: KindInvalidState}
)

// Error is a classified failure.
type Error struct {
	Kind Kind
	// Op names the operation that failed, e.g. "submit" or "get state".
	Op string
	// Problems lists individual invariant violations for KindValidation.
	Problems []string
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	switch {
	case len(e.Problems) > 0:
		b.WriteString(strings.Join(e.Problems, "; "))
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	default:
		b.WriteString(string(e.Kind))
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Validation returns a KindValidation error listing the given problems.
func Validation(op string, problems ...string) error {
	return &Error{Kind: KindValidation, Op: op, Problems: problems}
}

// NotFound returns a KindNotFound error for the named resource.
func NotFound(op, resource, name string) error {
	return &Error{Kind: KindNotFound, Op: op, Err: fmt.Errorf("%s %q not found", resource, name)}
}

// Unavailable wraps a transport or auth failure as KindBackendUnavailable.
func Unavailable(op string, err error) error {
	return &Error{Kind: KindBackendUnavailable, Op: op, Err: err}
}

// Timeout returns a KindTimeout error wrapping the context error that fired.
func Timeout(op string, err error) error {
	return &Error{Kind: KindTimeout, Op: op, Err: err}
}

// InvalidState returns a KindInvalidState error for an operation attempted in state s.
func InvalidState(op string, s State) error {
	return &Error{Kind: KindInvalidState, Op: op, Err: fmt.Errorf("not allowed in state %s", s)}
}

// IsNotFound reports whether err is classified as KindNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnavailable reports whether err is classified as KindBackendUnavailable.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrBackendUnavailable)
}
