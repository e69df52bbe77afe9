package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	t.Run("Default configuration is valid", func(t *testing.T) {
		assert.NoError(t, DefaultConfig().Validate(), "Expected the default configuration to validate")
	})

	t.Run("Overall threshold of zero", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.OverallSimilarityThreshold = 0
		assert.ErrorIs(t, cfg.Validate(), ErrThresholdOutOfRange, "Expected ErrThresholdOutOfRange for zero threshold")
	})

	t.Run("Overall threshold above one", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.OverallSimilarityThreshold = 1.2
		assert.ErrorIs(t, cfg.Validate(), ErrThresholdOutOfRange, "Expected ErrThresholdOutOfRange for threshold above one")
	})

	t.Run("Overall threshold of exactly one", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.OverallSimilarityThreshold = 1
		assert.NoError(t, cfg.Validate(), "Expected a threshold of one to be allowed")
	})

	t.Run("Question word threshold out of range", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.InitialQuestionWordThreshold = -0.5
		assert.ErrorIs(t, cfg.Validate(), ErrThresholdOutOfRange, "Expected ErrThresholdOutOfRange for negative threshold")
	})
}
