// Package errs holds the error taxonomy shared by the store, the workflow
// services and the HTTP layer.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeNotFound         Code = "not_found"
	CodeInvalidEnumValue Code = "invalid_enum_value"
	CodeDuplicate        Code = "duplicate"
	CodeValidation       Code = "validation"
	CodePermissionDenied Code = "permission_denied"
	CodeUnauthorized     Code = "unauthorized"
	CodeInternal         Code = "internal"
)

// Error is a coded application error. Fields carries per-field messages for
// validation failures.
type Error struct {
	Code    Code
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

func NotFound(entity, id string) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s not found: %s", entity, id)}
}

func Duplicate(message string) *Error {
	return &Error{Code: CodeDuplicate, Message: message}
}

func InvalidEnumValue(kind, value string) *Error {
	return &Error{
		Code:    CodeInvalidEnumValue,
		Message: fmt.Sprintf("invalid %s value: %q", kind, value),
		Fields:  map[string]string{kind: "unrecognized value " + value},
	}
}

func Validation(message string, fields map[string]string) *Error {
	return &Error{Code: CodeValidation, Message: message, Fields: fields}
}

func Internal(message string, err error) *Error {
	return &Error{Code: CodeInternal, Message: message, Err: err}
}

// CodeOf returns the code of the first *Error in err's chain, or CodeInternal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}

// HTTPStatus maps a code to the response status used at the API boundary.
func HTTPStatus(code Code) int {
	switch code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidEnumValue, CodeValidation:
		return http.StatusBadRequest
	case CodeDuplicate:
		return http.StatusConflict
	case CodePermissionDenied:
		return http.StatusForbidden
	case CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
