package helper

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewError(t *testing.T) {
	t.Run("Error message contains context and cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := NewError("RegisterDocument", cause)

		require.Error(t, err, "Expected NewError to return an error")
		assert.Equal(t, "error in RegisterDocument: connection refused", err.Error(),
			"Expected the message to name the operation and the cause")
	})

	t.Run("Unwrap exposes the cause", func(t *testing.T) {
		cause := errors.New("boom")
		err := NewError("MatchAll", cause)

		assert.ErrorIs(t, err, cause, "Expected errors.Is to see through the wrapper")

		var wrapped *Error
		require.ErrorAs(t, err, &wrapped, "Expected errors.As to recover the wrapper")
		assert.Equal(t, "MatchAll", wrapped.Context, "Expected the context to be preserved")
	})

	t.Run("Nested wrapping", func(t *testing.T) {
		cause := errors.New("root cause")
		err := NewError("outer", NewError("inner", cause))

		assert.ErrorIs(t, err, cause, "Expected errors.Is to unwrap through both layers")
		assert.Contains(t, err.Error(), "inner", "Expected the inner context in the message")
	})
}
