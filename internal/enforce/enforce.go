package enforce

import (
	"errors"
	"fmt"

	"github.com/ppiankov/fuzzkit/internal/model"
	"github.com/ppiankov/fuzzkit/internal/profile"
)

// Process exit codes (sysexits.h).
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitDataError = 65 // EX_DATAERR: malformed profile
	ExitNoPerm    = 77 // EX_NOPERM: guardrail rejected the session
)

// GuardrailError is returned when a guardrail refuses to let a session start.
type GuardrailError struct {
	Verdict model.Verdict
}

func (e *GuardrailError) Error() string {
	return fmt.Sprintf("guardrail rejected (%s): %s", e.Verdict.Kind, e.Verdict.Reason())
}

// Enforce turns a verdict into an error. Permitted verdicts yield nil.
func Enforce(v model.Verdict) error {
	if v.Permitted {
		return nil
	}
	return &GuardrailError{Verdict: v}
}

// Kind returns the rejection kind carried by err, if any.
func Kind(err error) (model.RejectionKind, bool) {
	var ge *GuardrailError
	if errors.As(err, &ge) {
		return ge.Verdict.Kind, true
	}
	return "", false
}

// ExitCode maps an error from a session run to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ge *GuardrailError
	if errors.As(err, &ge) {
		return ExitNoPerm
	}
	var fe *profile.FormatError
	if errors.As(err, &fe) {
		return ExitDataError
	}
	return ExitFailure
}
