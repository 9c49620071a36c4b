package errors

import (
	stderrors "errors"
	"fmt"

	"roster/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
	Fields  map[string]string
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

// Wrap wraps an error with additional context, keeping any existing code
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
			Fields:  appErr.Fields,
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
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
			Fields:  appErr.Fields,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// GetCode returns the error code of the outermost AppError in the chain.
// Plain domain errors are classified by FromDomain.
func GetCode(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return FromDomain(err).Code
}

// Predefined error codes
const (
	CodeConfigInvalid   = "CONFIG_INVALID"
	CodeDatabaseError   = "DATABASE_ERROR"
	CodeValidationError = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeInternalError   = "INTERNAL_ERROR"
	CodeInvalidInput    = "INVALID_INPUT"

	CodeUnreadableFile    = "UNREADABLE_FILE"
	CodeEmptyWorkbook     = "EMPTY_WORKBOOK"
	CodeSheetNotFound     = "SHEET_NOT_FOUND"
	CodeEmptyImportResult = "EMPTY_IMPORT_RESULT"
	CodePendingNotFound   = "PENDING_IMPORT_NOT_FOUND"
	CodeTooLarge          = "FILE_TOO_LARGE"
)

// FromDomain classifies a domain sentinel error. Unknown errors become
// INTERNAL_ERROR with the cause preserved.
func FromDomain(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	code := CodeInternalError
	switch {
	case stderrors.Is(err, core.ErrUnreadableFile):
		code = CodeUnreadableFile
	case stderrors.Is(err, core.ErrFileTooLarge):
		code = CodeTooLarge
	case stderrors.Is(err, core.ErrEmptyWorkbook):
		code = CodeEmptyWorkbook
	case stderrors.Is(err, core.ErrSheetNotFound):
		code = CodeSheetNotFound
	case stderrors.Is(err, core.ErrEmptyImportResult):
		code = CodeEmptyImportResult
	case stderrors.Is(err, core.ErrPendingNotFound):
		code = CodePendingNotFound
	case stderrors.Is(err, core.ErrNotFound):
		code = CodeNotFound
	case stderrors.Is(err, core.ErrInvalidCustomer):
		code = CodeValidationError
	case stderrors.Is(err, core.ErrInvalidDate):
		code = CodeInvalidInput
	}
	return &AppError{Code: code, Message: err.Error(), Cause: err}
}

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string, cause error) *AppError {
	return &AppError{Code: CodeDatabaseError, Message: message, Cause: cause}
}

func ValidationError(message string) *AppError {
	return New(CodeValidationError, message)
}

// ValidationWithDetails carries per-field messages keyed by JSON name
func ValidationWithDetails(message string, fields map[string]string) *AppError {
	return &AppError{Code: CodeValidationError, Message: message, Cause: core.ErrInvalidCustomer, Fields: fields}
}

func NotFound(resource string) *AppError {
	return &AppError{Code: CodeNotFound, Message: fmt.Sprintf("%s not found", resource), Cause: core.ErrNotFound}
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func TooLarge(limitBytes int64) *AppError {
	return New(CodeTooLarge, fmt.Sprintf("file exceeds the %d MB upload limit", limitBytes/(1024*1024)))
}
