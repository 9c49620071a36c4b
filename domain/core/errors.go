package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound         = errors.New("resource not found")
	ErrCustomerNotFound = fmt.Errorf("%w: customer", ErrNotFound)
	ErrSheetNotFound    = fmt.Errorf("%w: sheet", ErrNotFound)
	ErrPendingNotFound  = fmt.Errorf("%w: pending import", ErrNotFound)

	// Import errors
	ErrUnreadableFile    = errors.New("file cannot be read as a workbook")
	ErrFileTooLarge      = errors.New("file exceeds the upload limit")
	ErrEmptyWorkbook     = errors.New("workbook has no sheets")
	ErrEmptyImportResult = errors.New("no valid rows found in sheet")

	// Validation errors
	ErrInvalidCustomer = errors.New("invalid customer record")
	ErrInvalidDate     = errors.New("invalid date")
)

// NewNotFoundError builds a not-found error for a resource id
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

// NewSheetNotFoundError names the missing sheet
func NewSheetNotFoundError(sheet string) error {
	return fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
}

// IsNotFoundError reports whether err is any not-found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsImportError reports whether err is a terminal import failure
func IsImportError(err error) bool {
	return errors.Is(err, ErrUnreadableFile) ||
		errors.Is(err, ErrFileTooLarge) ||
		errors.Is(err, ErrEmptyWorkbook) ||
		errors.Is(err, ErrSheetNotFound) ||
		errors.Is(err, ErrEmptyImportResult)
}
