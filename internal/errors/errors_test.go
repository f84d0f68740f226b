package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeHelpers(t *testing.T) {
	base := stderrors.New("boom")

	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"validation", NewValidationError("bad", nil), IsValidationError},
		{"upstream", NewUpstreamError("listing repos", base), IsUpstream},
		{"configuration", NewConfigurationError("no org", nil), IsConfiguration},
		{"persistence", NewPersistenceError("write", base), IsPersistence},
		{"not found", NewNotFoundError("missing", nil), IsNotFound},
		{"wrapped", fmt.Errorf("outer: %w", NewUpstreamError("x", base)), IsUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(tt.err))
		})
	}

	assert.False(t, IsUpstream(base))
	assert.False(t, IsValidationError(NewUpstreamError("x", nil)))
}

func TestAppErrorUnwrap(t *testing.T) {
	sentinel := stderrors.New("sentinel")
	err := NewValidationError("invalid", sentinel)

	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, ErrInvalidInput, TypeOf(err))
	assert.Equal(t, ErrInternal, TypeOf(sentinel))
	assert.Contains(t, err.Error(), "caused by: sentinel")
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, "window too large", UserMessage(NewValidationError("window too large", nil)))
	assert.Equal(t, "Could not fetch data from GitHub: listing repos for acme",
		UserMessage(NewUpstreamError("listing repos for acme", stderrors.New("502"))))
	assert.Equal(t, "Something went wrong while handling the request.", UserMessage(stderrors.New("raw")))
}
