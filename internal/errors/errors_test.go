package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"roster/domain/core"

	"github.com/stretchr/testify/assert"
)

func TestFromDomain(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{core.ErrUnreadableFile, CodeUnreadableFile},
		{fmt.Errorf("wrap: %w", core.ErrFileTooLarge), CodeTooLarge},
		{core.ErrEmptyWorkbook, CodeEmptyWorkbook},
		{core.NewSheetNotFoundError("July"), CodeSheetNotFound},
		{fmt.Errorf("wrap: %w", core.ErrEmptyImportResult), CodeEmptyImportResult},
		{core.ErrPendingNotFound, CodePendingNotFound},
		{core.NewNotFoundError("customer", "abc"), CodeNotFound},
		{core.ErrInvalidDate, CodeInvalidInput},
		{stderrors.New("boom"), CodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.code, FromDomain(tt.err).Code)
			assert.Equal(t, tt.code, GetCode(tt.err))
		})
	}
}

func TestWrapKeepsCode(t *testing.T) {
	base := ValidationWithDetails("validation failed", map[string]string{"name": "is required"})

	wrapped := Wrap(base, "saving customer")

	assert.Equal(t, CodeValidationError, GetCode(wrapped))
	assert.True(t, stderrors.Is(wrapped, core.ErrInvalidCustomer))
	var appErr *AppError
	assert.True(t, stderrors.As(wrapped, &appErr))
	assert.Equal(t, "is required", appErr.Fields["name"])
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeDatabaseError, stderrors.New("conn refused"))
	assert.Equal(t, CodeDatabaseError, GetCode(err))
	assert.Nil(t, WithCode(CodeDatabaseError, nil))
	assert.Nil(t, Wrap(nil, "x"))
}
