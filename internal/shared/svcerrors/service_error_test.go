package svcerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsServiceError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr *ServiceError
		wantOk  bool
	}{
		{
			name:    "nil input",
			err:     nil,
			wantErr: nil,
			wantOk:  false,
		},
		{
			name:    "regular error",
			err:     errors.New("x"),
			wantErr: nil,
			wantOk:  false,
		},
		{
			name:    "direct ServiceError",
			err:     NewInvalidArgumentError("AGG_1000", "top-n must be >= 1", nil),
			wantErr: NewInvalidArgumentError("AGG_1000", "top-n must be >= 1", nil),
			wantOk:  true,
		},
		{
			name:    "wrapped ServiceError",
			err:     fmt.Errorf("wrap: %w", NewInternalError("JOB_9001", nil)),
			wantErr: NewInternalError("JOB_9001", nil),
			wantOk:  true,
		},
		{
			name:    "wrapped unavailable ServiceError",
			err:     fmt.Errorf("wrap: %w", NewUnavailableError("JOB_9000", "blob store unreachable", nil)),
			wantErr: NewUnavailableError("JOB_9000", "blob store unreachable", nil),
			wantOk:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotErr, gotOk := AsServiceError(tt.err)

			assert.Equal(t, tt.wantOk, gotOk, "AsServiceError() ok value mismatch")

			if tt.wantErr == nil {
				assert.Nil(t, gotErr, "AsServiceError() should return nil error")
			} else {
				require.NotNil(t, gotErr, "AsServiceError() should return non-nil error")
				assert.Equal(t, tt.wantErr.Category, gotErr.Category, "Category mismatch")
				assert.Equal(t, tt.wantErr.Code, gotErr.Code, "Code mismatch")
				assert.Equal(t, tt.wantErr.Message, gotErr.Message, "Message mismatch")
			}
		})
	}
}

func TestServiceError_Categories(t *testing.T) {
	t.Parallel()

	invalid := NewInvalidArgumentError("RPT_1000", "label count mismatch", nil)
	assert.False(t, invalid.IsInternalError())
	assert.False(t, invalid.IsUnavailableError())

	internal := NewInternalErrorUndefined(errors.New("boom"))
	assert.True(t, internal.IsInternalError())
	assert.False(t, internal.IsUnavailableError())

	unavailable := NewUnavailableError("JOB_9000", "blob store unreachable", errors.New("dial tcp"))
	assert.False(t, unavailable.IsInternalError())
	assert.True(t, unavailable.IsUnavailableError())
}

func TestServiceError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("underlying")
	svcErr := NewUnavailableError("JOB_9000", "blob store unreachable", cause)

	assert.True(t, errors.Is(svcErr, cause), "errors.Is should see through ServiceError")
	assert.Equal(t, "JOB_9000: blob store unreachable", svcErr.Error())
}
