package errors

import (
	"fmt"
)

type Error interface {
	error
	New(args ...any) BaseError
}

// FieldViolation points at a single request field that failed validation.
type FieldViolation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

type BaseError struct {
	Code       int              `json:"code"`
	Name       string           `json:"name"`
	Message    string           `json:"message"`
	Violations []FieldViolation `json:"violations,omitempty"`

	messageFormat string
}

func (e BaseError) Error() string {
	return e.Message
}

func (e *BaseError) New(args ...any) BaseError {

	e.Message = fmt.Sprintf(e.messageFormat, args...)
	return *e
}

// WithViolations attaches per-field failure detail to an error value.
func (e BaseError) WithViolations(violations ...FieldViolation) BaseError {

	e.Violations = violations
	return e
}

func TryAssertError(err error) (BaseError, bool) {

	asserted, ok := err.(BaseError)
	return asserted, ok
}

func IsError(err error, expectedError BaseError) bool {

	asserted, ok := err.(BaseError)
	if !ok {
		return false
	}

	return asserted.Code == expectedError.Code
}

func new(errorCode int, name string, messageFormat string) Error {

	return &BaseError{Code: errorCode, Name: name, messageFormat: messageFormat}
}
