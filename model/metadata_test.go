package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataValue(t *testing.T) {
	t.Run("Serializes to JSON", func(t *testing.T) {
		metadata := Metadata{"source": "intake", "year": 2024}
		value, err := metadata.Value()

		require.NoError(t, err, "Expected Value to not return an error")
		assert.JSONEq(t, `{"source":"intake","year":2024}`, string(value.([]byte)),
			"Expected the metadata as a JSON object")
	})

	t.Run("Nil metadata", func(t *testing.T) {
		var metadata Metadata
		value, err := metadata.Value()

		require.NoError(t, err, "Expected Value to not return an error")
		assert.Equal(t, "null", string(value.([]byte)), "Expected nil metadata to serialize as null")
	})
}

func TestMetadataScan(t *testing.T) {
	t.Run("Valid JSON bytes", func(t *testing.T) {
		var metadata Metadata
		err := metadata.Scan([]byte(`{"source":"intake"}`))

		require.NoError(t, err, "Expected Scan to not return an error")
		assert.Equal(t, "intake", metadata["source"], "Expected the scanned value")
	})

	t.Run("Nil value yields empty metadata", func(t *testing.T) {
		var metadata Metadata
		err := metadata.Scan(nil)

		require.NoError(t, err, "Expected Scan to not return an error")
		assert.NotNil(t, metadata, "Expected a non-nil map")
		assert.Empty(t, metadata, "Expected an empty map")
	})

	t.Run("Unsupported type", func(t *testing.T) {
		var metadata Metadata
		err := metadata.Scan(42)

		assert.Error(t, err, "Expected Scan to reject non-byte input")
	})
}
