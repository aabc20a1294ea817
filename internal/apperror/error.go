package apperror

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeValidation Code = "validation"
	CodeNotFound   Code = "not_found"
	CodeProtected  Code = "protected"
	CodeConflict   Code = "conflict"
	CodeInternal   Code = "internal"
)

// Entity names used to build not-found discriminators.
const (
	EntityEmployee   = "employee"
	EntityDepartment = "department"
	EntityPosition   = "position"
)

type Error struct {
	Code    Code
	Message string
	// ErrorCode is the stable machine-readable discriminator sent to clients,
	// e.g. "employee_not_found". Empty means the Code is used as is.
	ErrorCode string
	// Fields holds per-field messages for validation failures.
	Fields map[string]string
}

func (e *Error) Error() string {
	return e.Message
}

func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// NotFound builds the not-found error of an entity, carrying "<entity>_not_found".
func NotFound(entity string) *Error {
	return &Error{
		Code:      CodeNotFound,
		Message:   entity + " not found",
		ErrorCode: entity + "_not_found",
	}
}

// Validation builds a field-keyed validation error.
func Validation(fields map[string]string) *Error {
	message := "validation failed"
	if len(fields) == 1 {
		for field, reason := range fields {
			message = fmt.Sprintf("%s: %s", field, reason)
		}
	}
	return &Error{
		Code:    CodeValidation,
		Message: message,
		Fields:  fields,
	}
}

// Protected reports a delete refused because dependents still reference the record.
func Protected(entity string, message string) *Error {
	return &Error{
		Code:      CodeProtected,
		Message:   message,
		ErrorCode: entity + "_protected",
	}
}

func GetCode(err error) Code {
	if err == nil {
		return ""
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}

	return CodeInternal
}

// GetErrorCode returns the client-facing discriminator of err.
func GetErrorCode(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		if appErr.ErrorCode != "" {
			return appErr.ErrorCode
		}
		return string(appErr.Code)
	}
	return string(CodeInternal)
}

// GetFields returns the field errors of a validation failure, if any.
func GetFields(err error) map[string]string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Fields
	}
	return nil
}
