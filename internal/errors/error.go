// Package errors provides coded errors for the simulator.
//
// Codes fall into three categories:
//   - Configuration errors (100-199): missing series, invalid settings, test before train
//   - Domain errors (200-299): out of range indices, zero prices, unbound strategies
//   - Data errors (300-399): rows that do not parse, sources that cannot be read
//
// Usage:
//
//	err := errors.Newf(errors.ErrCodeIndexOutOfRange, "index %d outside [0, %d)", i, n)
//	if errors.IsDomain(err) { ... }
package errors

import (
	"errors"
	"fmt"
)

type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the code of the first *Error in err's chain, or
// ErrCodeUnknown when there is none.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeUnknown
}

func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

func IsConfiguration(err error) bool {
	return inRange(err, 100, 199)
}

func IsDomain(err error) bool {
	return inRange(err, 200, 299)
}

func IsMalformed(err error) bool {
	return inRange(err, 300, 399)
}

func inRange(err error, lo, hi ErrorCode) bool {
	if err == nil {
		return false
	}
	code := GetCode(err)
	return code >= lo && code <= hi
}
