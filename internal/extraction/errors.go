package extraction

import "fmt"

// Error is the failure type for the remote extraction protocol. It records
// the protocol stage so orchestrator error messages point at the step that
// failed, and it makes extraction failures distinguishable from other
// pipeline errors.
type Error struct {
	Stage string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("extraction %s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func stageErr(stage string, err error) *Error {
	return &Error{Stage: stage, Err: err}
}

func stageErrf(stage, format string, args ...any) *Error {
	return &Error{Stage: stage, Err: fmt.Errorf(format, args...)}
}
