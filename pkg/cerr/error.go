// Package cerr is the error type shared by every layer: a Code that maps to an
// HTTP status, a message that is safe to show the caller, and the underlying
// error that only goes to the log.
package cerr

import (
	"errors"
	"fmt"
	"runtime"
)

type Error struct {
	Code  Code
	Msg   string // returned to the caller together with Code
	Err   error  // logged, never returned
	Stack string
}

// NewError captures a stack trace for server faults.
func NewError(code Code, msg string, underlying error) *Error {
	err := &Error{
		Code: code,
		Msg:  msg,
		Err:  underlying,
	}
	if code.IsServerFault() {
		stackTrace := make([]byte, 2048)
		n := runtime.Stack(stackTrace, false)
		err.Stack = string(stackTrace[:n])
	}
	return err
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("[%s] %s", e.Code, e.Msg)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Msg, e.Err.Error())
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns Unknown for errors that are not an *Error.
func CodeOf(err error) Code {
	if err == nil {
		return OK
	}
	var cErr *Error
	if errors.As(err, &cErr) {
		return cErr.Code
	}
	return Unknown
}

func IsCode(err error, code Code) bool {
	var cErr *Error
	if errors.As(err, &cErr) {
		return cErr.Code == code
	}
	return false
}

// MaskInternal replaces the caller-facing message of a server fault with msg.
// Client faults (validation, not found, ...) pass through unchanged.
func MaskInternal(err error, msg string) error {
	if err == nil {
		return nil
	}
	var cErr *Error
	if errors.As(err, &cErr) && !cErr.Code.IsServerFault() {
		return err
	}
	masked := NewError(Internal, msg, err)
	if cErr != nil && cErr.Stack != "" {
		masked.Stack = cErr.Stack
	}
	return masked
}
