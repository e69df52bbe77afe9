package model

import "sort"

// MatchKind identifies the word comparison strategy that aligned a pair.
type MatchKind string

const (
	MatchKindDirect          MatchKind = "direct"
	MatchKindDerivation      MatchKind = "derivation"
	MatchKindEntity          MatchKind = "entity"
	MatchKindEmbedding       MatchKind = "embedding"
	MatchKindEntityEmbedding MatchKind = "entity_embedding"
	MatchKindQuestion        MatchKind = "question"
	MatchKindOntology        MatchKind = "ontology"
)

// WordMatch represents one aligned pair between a search phrase token and a
// document unit.
type WordMatch struct {
	// SearchPhraseIndex is the position of the matched search phrase token.
	SearchPhraseIndex int `json:"search_phrase_index"`
	// DocumentIndex is the reported matched unit. When coreference
	// substitution occurred it denotes the resolved mention rather than
	// the unit reached by structural recursion.
	DocumentIndex Index `json:"document_index"`
	// Span lists the document token positions of a multiword match.
	Span []int `json:"span,omitempty"`
	// StructuralIndex is the document token actually reached by recursion.
	StructuralIndex int `json:"structural_index"`

	SearchPhraseWord string    `json:"search_phrase_word"`
	DocumentWord     string    `json:"document_word"`
	Kind             MatchKind `json:"kind"`
	Similarity       float64   `json:"similarity"`

	Negated             bool `json:"negated,omitempty"`
	Uncertain           bool `json:"uncertain,omitempty"`
	InvolvesCoreference bool `json:"involves_coreference,omitempty"`
	Depth               int  `json:"depth"`
}

// Match represents one accepted alignment of a whole search phrase against a
// document anchor. A Match is assembled during a single matching pass and
// never mutated afterwards, so returned matches are safe to share and read
// concurrently.
type Match struct {
	SearchPhraseLabel string      `json:"search_phrase_label"`
	DocumentLabel     string      `json:"document_label"`
	WordMatches       []WordMatch `json:"word_matches"`
	// Anchor is the document token position the root was matched at.
	Anchor int `json:"anchor"`

	OverallSimilarity   float64 `json:"overall_similarity"`
	Negated             bool    `json:"negated"`
	Uncertain           bool    `json:"uncertain"`
	InvolvesCoreference bool    `json:"involves_coreference"`
}

// ExactMatch reports whether every word match was aligned with similarity 1.
func (m *Match) ExactMatch() bool {
	return m.OverallSimilarity == 1.0
}

// SortMatches orders matches by descending overall similarity, then document
// label, then ascending anchor position. The order is total for matches of
// distinct anchors, which keeps repeated runs bit-identical.
func SortMatches(matches []*Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].OverallSimilarity != matches[j].OverallSimilarity {
			return matches[i].OverallSimilarity > matches[j].OverallSimilarity
		}
		if matches[i].DocumentLabel != matches[j].DocumentLabel {
			return matches[i].DocumentLabel < matches[j].DocumentLabel
		}
		return matches[i].Anchor < matches[j].Anchor
	})
}
