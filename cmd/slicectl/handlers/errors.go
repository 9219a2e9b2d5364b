package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/imamik/slicectl/internal/slice"
)

// Exit codes returned by slicectl.
const (
	ExitOK                 = 0
	ExitError              = 1
	ExitValidation         = 2
	ExitBackendUnavailable = 3
	ExitNotFound           = 4
	ExitTimeout            = 5
	ExitInvalidState       = 6
)

// ExitCode maps err to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch kindOf(err) {
	case slice.KindValidation:
		return ExitValidation
	case slice.KindBackendUnavailable:
		return ExitBackendUnavailable
	case slice.KindNotFound:
		return ExitNotFound
	case slice.KindTimeout:
		return ExitTimeout
	case slice.KindInvalidState:
		return ExitInvalidState
	default:
		return ExitError
	}
}

// FormatError renders err as "error [<kind>]: <message>". Errors without a
// kind are rendered as "error: <message>".
func FormatError(err error) string {
	if kind := kindOf(err); kind != "" {
		return fmt.Sprintf("error [%s]: %v", kind, err)
	}
	return fmt.Sprintf("error: %v", err)
}

// kindOf is slice.KindOf, except that a deadline that fired outside the
// orchestrator is reported as a timeout too.
func kindOf(err error) slice.Kind {
	if kind := slice.KindOf(err); kind != "" {
		return kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return slice.KindTimeout
	}
	return ""
}
