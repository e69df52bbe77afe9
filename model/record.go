package model

import (
	"time"

	"github.com/google/uuid"
)

// DocumentRecord is the persisted form of a registered document: the
// serialized token graph plus the column data used for corpus shortlisting.
type DocumentRecord struct {
	ID         int       `json:"id"`
	RID        uuid.UUID `json:"rid"`
	Label      string    `json:"label"`
	ModelName  string    `json:"model_name"`
	Payload    []byte    `json:"payload"`
	MeanVector []float32 `json:"mean_vector,omitempty"`
	TokenCount int       `json:"token_count"`
	Metadata   Metadata  `json:"metadata,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	// Similarity is only populated by similarity shortlist queries.
	Similarity *float64 `json:"similarity,omitempty"`
}

// SearchPhraseRecord is the persisted form of a compiled search phrase.
type SearchPhraseRecord struct {
	ID        int       `json:"id"`
	RID       uuid.UUID `json:"rid"`
	Label     string    `json:"label"`
	ModelName string    `json:"model_name"`
	Payload   []byte    `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}
