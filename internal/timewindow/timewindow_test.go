package timewindow

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Kamar-Folarin/commitboard/internal/errors"
)

func fixedResolver() *Resolver {
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	r := NewResolver(0)
	r.Now = func() time.Time { return now }
	return r
}

func TestParseRelative(t *testing.T) {
	r := fixedResolver()

	t.Run("days", func(t *testing.T) {
		w, err := r.ParseRelative("7d")
		require.NoError(t, err)
		assert.Equal(t, "2024-03-13T12:00:00.000Z", w.SinceISO())
		assert.Equal(t, "2024-03-20T12:00:00.000Z", w.UntilISO())
		assert.Equal(t, "7d", w.Relative)
	})

	t.Run("hours with spaces and upper case", func(t *testing.T) {
		w, err := r.ParseRelative(" 24H ")
		require.NoError(t, err)
		assert.Equal(t, 24*time.Hour, w.Until.Sub(w.Since))
		assert.Equal(t, "24h", w.Relative)
	})

	invalid := []string{"10x", "", "d", "7", "-1d", "7 d", "0d"}
	for _, spec := range invalid {
		t.Run("invalid "+spec, func(t *testing.T) {
			_, err := r.ParseRelative(spec)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidFormat)
			assert.True(t, apperrors.IsValidationError(err))
		})
	}

	t.Run("too large", func(t *testing.T) {
		_, err := r.ParseRelative("91d")
		assert.ErrorIs(t, err, ErrRangeTooLarge)

		_, err = r.ParseRelative("99999999999999999999d")
		assert.Error(t, err)

		_, err = r.ParseRelative("9999999999999h")
		assert.ErrorIs(t, err, ErrRangeTooLarge)
	})
}

func TestValidateAbsolute(t *testing.T) {
	r := fixedResolver()

	tests := []struct {
		name    string
		since   string
		until   string
		wantErr error
	}{
		{"valid", "2024-01-01T00:00:00Z", "2024-01-02T00:00:00Z", nil},
		{"valid millis", "2024-01-01T00:00:00.123Z", "2024-01-02T00:00:00.5Z", nil},
		{"since after until", "2024-01-02T00:00:00Z", "2024-01-01T00:00:00Z", ErrInvalidRange},
		{"equal bounds", "2024-01-01T00:00:00Z", "2024-01-01T00:00:00Z", nil},
		{"offset not allowed", "2024-01-01T00:00:00+01:00", "2024-01-02T00:00:00Z", ErrInvalidFormat},
		{"missing zone", "2024-01-01T00:00:00", "2024-01-02T00:00:00Z", ErrInvalidFormat},
		{"calendar overflow", "2024-02-30T00:00:00Z", "2024-03-02T00:00:00Z", ErrInvalidFormat},
		{"too many fraction digits", "2024-01-01T00:00:00.1234Z", "2024-01-02T00:00:00Z", ErrInvalidFormat},
		{"span too large", "2024-01-01T00:00:00Z", "2024-06-01T00:00:00Z", ErrRangeTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := r.ValidateAbsolute(tt.since, tt.until)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.False(t, w.Since.After(w.Until))
			assert.Empty(t, w.Relative)
		})
	}
}

func TestResolvePrecedence(t *testing.T) {
	r := fixedResolver()

	w, err := r.Resolve(Request{})
	require.NoError(t, err)
	assert.Equal(t, "1d", w.Relative)
	assert.Equal(t, 24*time.Hour, w.Until.Sub(w.Since))

	w, err = r.Resolve(Request{Rel: "24h", Since: "2024-01-01T00:00:00Z", Until: "2024-01-02T00:00:00Z"})
	require.NoError(t, err)
	assert.Empty(t, w.Relative)
	assert.Equal(t, "2024-01-01T00:00:00.000Z", FormatISO(w.Since))

	_, err = r.Resolve(Request{Since: "2024-01-01T00:00:00Z"})
	assert.ErrorIs(t, err, ErrInvalidFormat)

	w, err = r.Resolve(Request{Rel: "3d"})
	require.NoError(t, err)
	assert.Equal(t, "3d", w.Relative)
}
