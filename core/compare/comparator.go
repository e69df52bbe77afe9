package compare

import (
	"github.com/msg-systems/holmes-extractor-sub002/model"
)

// Comparison is the successful outcome of comparing one search phrase token
// against one document unit.
type Comparison struct {
	Kind             model.MatchKind
	Similarity       float64
	SearchPhraseWord string
	DocumentWord     string
	// Span lists the covered document token positions when the comparison
	// matched a multiword phrase.
	Span []int
}

// Strategy implements one word comparison capability. Strategies are pure:
// they never mutate the search phrase or the document, and return nil when
// they cannot align the pair.
type Strategy interface {
	Kind() model.MatchKind
	Compare(sp *model.SearchPhrase, phraseIndex int, doc *model.Document, unit model.Index) *Comparison
}

// Comparator tries all word comparison strategies in fixed priority order and
// returns the first successful comparison.
type Comparator struct {
	strategies []Strategy
}

// NewComparator creates a comparator for the given configuration and
// ontology. The ontology may be nil, which disables the ontology strategy.
func NewComparator(cfg *model.Config, ontology *model.Ontology) *Comparator {
	strategies := []Strategy{
		&entityStrategy{},
		&directStrategy{},
	}
	if cfg.AnalyzeDerivationalMorphology {
		strategies = append(strategies, &derivationStrategy{})
	}
	if ontology != nil {
		strategies = append(strategies, &ontologyStrategy{ontology: ontology})
	}
	if cfg.EmbeddingBasedMatching {
		strategies = append(strategies,
			&embeddingStrategy{cfg: cfg},
			&entityEmbeddingStrategy{cfg: cfg},
		)
	}
	if cfg.ProcessInitialQuestionWords {
		strategies = append(strategies, &questionStrategy{})
	}
	return &Comparator{strategies: strategies}
}

// Compare returns the highest-priority successful comparison of the search
// phrase token at phraseIndex against the document unit, or nil.
func (c *Comparator) Compare(sp *model.SearchPhrase, phraseIndex int, doc *model.Document, unit model.Index) *Comparison {
	for _, strategy := range c.strategies {
		if comparison := strategy.Compare(sp, phraseIndex, doc, unit); comparison != nil {
			return comparison
		}
	}
	return nil
}
