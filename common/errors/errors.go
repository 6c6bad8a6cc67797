// Package errors attaches process exit codes to errors returned by commands.
package errors

// ExitCodeError is an error that knows which exit code the process should end
// with.
type ExitCodeError struct {
	code ExitCode
	error
}

func NewError(err error, exitCode ExitCode) *ExitCodeError {
	if err == nil {
		return nil
	}
	return &ExitCodeError{exitCode, err}
}

func (e *ExitCodeError) GetExitCode() ExitCode {
	if e == nil {
		return 0
	}
	return e.code
}

// Cause returns the wrapped error so github.com/pkg/errors can unwrap it.
func (e *ExitCodeError) Cause() error {
	return e.error
}

// ExitCodeOf returns the exit code carried by err, 0 for a nil error and
// UsageExitCode for errors without one.
func ExitCodeOf(err error) ExitCode {
	if err == nil {
		return 0
	}
	if e, ok := err.(*ExitCodeError); ok {
		return e.GetExitCode()
	}
	return UsageExitCode
}
