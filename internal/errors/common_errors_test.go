package errors

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "with cause",
			err:  NewParsingError("invalid dataset row", fmt.Errorf("line 4: wrong number of fields")),
			want: "[PARSING] invalid dataset row: line 4: wrong number of fields",
		},
		{
			name: "without cause",
			err:  NewAppValidationError("level is required"),
			want: "[VALIDATION] level is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	err := NewStorageError("failed to open dataset", io.ErrUnexpectedEOF)

	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))

	wrapped := fmt.Errorf("reload: %w", err)
	var appErr *AppError
	assert.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, ErrTypeStorage, appErr.Type)
}

func TestAppError_WithContext(t *testing.T) {
	err := NewParsingError("bad header", nil).
		WithContext("path", "data/rows.csv").
		WithContext("line", 1)

	assert.Equal(t, "data/rows.csv", err.Context["path"])
	assert.Equal(t, 1, err.Context["line"])

	bare := &AppError{Type: ErrTypeExport}
	bare.WithContext("format", "xlsx")
	assert.Equal(t, "xlsx", bare.Context["format"])
}

func TestAppErrorConstructors(t *testing.T) {
	cause := errors.New("cause")
	tests := []struct {
		err      *AppError
		wantType ErrorType
	}{
		{NewParsingError("m", cause), ErrTypeParsing},
		{NewStorageError("m", cause), ErrTypeStorage},
		{NewConfigError("m", cause), ErrTypeConfig},
		{NewExportError("m", cause), ErrTypeExport},
		{NewAppValidationError("m"), ErrTypeValidation},
	}

	for _, tt := range tests {
		t.Run(string(tt.wantType), func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.NotNil(t, tt.err.Context)
		})
	}
}
