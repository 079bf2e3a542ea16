package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new AppError with a formatted message
func Newf(code, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an error with additional context. The code of a wrapped AppError is kept.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// GetCode returns the code of the outermost AppError in the chain, otherwise "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// HasCode reports whether any AppError in the chain carries code.
func HasCode(err error, code string) bool {
	for err != nil {
		if appErr, ok := err.(*AppError); ok && appErr.Code == code {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// Predefined error codes
const (
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeNotFound         = "NOT_FOUND"
	CodeSourceNotFound   = "SOURCE_NOT_FOUND"
	CodeSourceUnreadable = "SOURCE_UNREADABLE"
	CodeMissingColumn    = "MISSING_COLUMN"
	CodeSchemaMismatch   = "SCHEMA_MISMATCH"
	CodeInternalError    = "INTERNAL_ERROR"
	CodeInvalidInput     = "INVALID_INPUT"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

// SourceNotFound reports a missing workbook, sheet or header row.
func SourceNotFound(what string) *AppError {
	return New(CodeSourceNotFound, fmt.Sprintf("%s not found", what))
}

// SourceUnreadable reports an I/O or format failure while reading a workbook.
func SourceUnreadable(source string, cause error) *AppError {
	return &AppError{
		Code:    CodeSourceUnreadable,
		Message: fmt.Sprintf("cannot read workbook %s", source),
		Cause:   cause,
	}
}

// MissingColumn reports display columns absent from a table after coercion.
func MissingColumn(names []string) *AppError {
	return New(CodeMissingColumn, fmt.Sprintf("missing column(s) %q", names))
}

// SchemaMismatch reports a declared schema whose length differs from the table's column count.
func SchemaMismatch(expected, actual int) *AppError {
	return New(CodeSchemaMismatch, fmt.Sprintf("schema declares %d columns but table has %d", expected, actual))
}

func IsNotFound(err error) bool {
	return HasCode(err, CodeSourceNotFound) || HasCode(err, CodeNotFound)
}

func IsMissingColumn(err error) bool {
	return HasCode(err, CodeMissingColumn)
}

func IsSchemaMismatch(err error) bool {
	return HasCode(err, CodeSchemaMismatch)
}
