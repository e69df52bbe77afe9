package model

import "fmt"

// Config represents the tunable behaviour of the matching engine. A Config is
// validated once when the Manager is created and treated as read-only
// afterwards.
type Config struct {
	// ModelName identifies the linguistic model the registered documents
	// were produced with. Serialized documents carrying a different model
	// name are rejected on rehydration.
	ModelName string `json:"model_name,omitempty"`

	// OverallSimilarityThreshold is the minimum overall similarity of an
	// accepted match whose word matches are not all exact. Must be in (0,1].
	OverallSimilarityThreshold float64 `json:"overall_similarity_threshold"`

	// InitialQuestionWordThreshold replaces the overall threshold for
	// matches involving an initial question word. Must be in (0,1].
	InitialQuestionWordThreshold float64 `json:"initial_question_word_threshold"`

	// EmbeddingBasedMatching enables the embedding and entity-embedding
	// word comparison strategies.
	EmbeddingBasedMatching bool `json:"embedding_based_matching"`

	// EmbeddingMatchingMinWordLength suppresses embedding comparison for
	// words shorter than this many runes.
	EmbeddingMatchingMinWordLength int `json:"embedding_matching_min_word_length"`

	// AnalyzeDerivationalMorphology enables matching via shared derived
	// lemmas, e.g. a verb against its nominalization.
	AnalyzeDerivationalMorphology bool `json:"analyze_derivational_morphology"`

	// PerformCoreferenceResolution enables reference chain substitution
	// during recursion and word comparison.
	PerformCoreferenceResolution bool `json:"perform_coreference_resolution"`

	// UseReverseDependencyMatching allows a search phrase dependency to be
	// satisfied by a document dependency pointing the opposite direction
	// when the labels are declared mutually invertible.
	UseReverseDependencyMatching bool `json:"use_reverse_dependency_matching"`

	// ProcessInitialQuestionWords enables interrogative pronoun matching
	// for topic search.
	ProcessInitialQuestionWords bool `json:"process_initial_question_words"`

	// EntityVectors maps a recognized entity type to a canonical semantic
	// vector used by the entity-embedding strategy.
	EntityVectors map[string][]float32 `json:"-"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() *Config {
	return &Config{
		OverallSimilarityThreshold:     0.65,
		InitialQuestionWordThreshold:   0.75,
		EmbeddingBasedMatching:         true,
		EmbeddingMatchingMinWordLength: 3,
		AnalyzeDerivationalMorphology:  true,
		PerformCoreferenceResolution:   true,
		UseReverseDependencyMatching:   true,
		ProcessInitialQuestionWords:    false,
	}
}

// Validate checks all thresholds and returns ErrThresholdOutOfRange with the
// offending field when one is outside (0,1].
func (c *Config) Validate() error {
	if c.OverallSimilarityThreshold <= 0 || c.OverallSimilarityThreshold > 1 {
		return fmt.Errorf("overall similarity threshold %v: %w", c.OverallSimilarityThreshold, ErrThresholdOutOfRange)
	}
	if c.InitialQuestionWordThreshold <= 0 || c.InitialQuestionWordThreshold > 1 {
		return fmt.Errorf("initial question word threshold %v: %w", c.InitialQuestionWordThreshold, ErrThresholdOutOfRange)
	}
	if c.EmbeddingMatchingMinWordLength < 0 {
		return fmt.Errorf("embedding matching min word length %v: %w", c.EmbeddingMatchingMinWordLength, ErrThresholdOutOfRange)
	}
	return nil
}
