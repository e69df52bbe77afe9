package model

import (
	"fmt"
	"strings"
)

// SearchPhrase represents a small graph used as a matching template. It is
// built once at registration time from a parsed example sentence and is
// immutable afterwards.
type SearchPhrase struct {
	Label string    `json:"label"`
	Doc   *Document `json:"doc"`
	// RootIndex is the position of the designated root token.
	RootIndex int `json:"root_index"`
	// MatchableIndexes lists the positions of matchable tokens in document
	// order.
	MatchableIndexes []int `json:"matchable_indexes"`
	// RootExpansions holds the precomputed lowercased forms a document
	// anchor word may take to be root-compatible without embeddings:
	// the root's own representations plus its ontology expansion.
	RootExpansions []string `json:"root_expansions"`
	// ComparableCount is the number of matchable tokens that take part in
	// similarity scoring, i.e. all matchable tokens that are not entity
	// placeholders.
	ComparableCount int `json:"comparable_count"`

	SingleMatchable         bool `json:"single_matchable"`
	ReverseOnly             bool `json:"reverse_only"`
	QuestionForm            bool `json:"question_form"`
	CreatedWithoutTagFilter bool `json:"created_without_tag_filter"`
}

// SearchPhraseOption overrides a flag on a search phrase under construction.
type SearchPhraseOption func(*SearchPhrase)

// WithReverseOnly marks a phrase that may only be matched through reverse
// dependencies, e.g. phraselets generated from passive constructions.
func WithReverseOnly() SearchPhraseOption {
	return func(sp *SearchPhrase) { sp.ReverseOnly = true }
}

// WithQuestionForm marks a phrase whose initial interrogative word should be
// matched against answering phrases.
func WithQuestionForm() SearchPhraseOption {
	return func(sp *SearchPhrase) { sp.QuestionForm = true }
}

// WithoutTagFilter marks a phrase generated without part-of-speech filtering.
func WithoutTagFilter() SearchPhraseOption {
	return func(sp *SearchPhrase) { sp.CreatedWithoutTagFilter = true }
}

// NewSearchPhrase validates a parsed example sentence and compiles it into a
// search phrase. The ontology may be nil; when present the root word's
// expansion is precomputed for anchor lookup. Structurally ill-defined
// phrases are rejected with one of the registration error kinds.
func NewSearchPhrase(label string, doc *Document, ontology *Ontology, opts ...SearchPhraseOption) (*SearchPhrase, error) {
	if doc == nil || len(doc.Tokens) == 0 {
		return nil, fmt.Errorf("search phrase %q: %w", label, ErrNoMatchableWords)
	}
	if err := validateSearchPhraseDoc(label, doc); err != nil {
		return nil, err
	}

	sp := &SearchPhrase{
		Label:     label,
		Doc:       doc,
		RootIndex: -1,
	}
	for _, opt := range opts {
		opt(sp)
	}

	for _, token := range doc.Tokens {
		if len(token.Parents) == 0 && sp.RootIndex < 0 {
			sp.RootIndex = token.Index
		}
		if !token.Matchable {
			continue
		}
		sp.MatchableIndexes = append(sp.MatchableIndexes, token.Index)
		if !token.IsEntityPlaceholder() {
			sp.ComparableCount++
		}
	}
	if len(sp.MatchableIndexes) == 0 {
		return nil, fmt.Errorf("search phrase %q: %w", label, ErrNoMatchableWords)
	}
	if sp.RootIndex < 0 {
		sp.RootIndex = sp.MatchableIndexes[0]
	}
	sp.SingleMatchable = len(sp.MatchableIndexes) == 1
	sp.RootExpansions = rootExpansions(doc.Token(sp.RootIndex), ontology)

	return sp, nil
}

// Root returns the designated root token.
func (sp *SearchPhrase) Root() *Token {
	return sp.Doc.Token(sp.RootIndex)
}

// IsMatchable reports whether the token at position i takes part in matching.
func (sp *SearchPhrase) IsMatchable(i int) bool {
	token := sp.Doc.Token(i)
	return token != nil && token.Matchable
}

func validateSearchPhraseDoc(label string, doc *Document) error {
	rootCount := 0
	for _, token := range doc.Tokens {
		if token.Negated {
			return fmt.Errorf("search phrase %q: %w", label, ErrContainsNegation)
		}
		if token.Pos == "CCONJ" {
			return fmt.Errorf("search phrase %q: %w", label, ErrContainsCoordination)
		}
		for _, child := range token.Children {
			if child.Label == "conj" || child.Label == "cc" {
				return fmt.Errorf("search phrase %q: %w", label, ErrContainsCoordination)
			}
		}
		if token.Pos == "PRON" && len(token.Coreferents) > 0 {
			return fmt.Errorf("search phrase %q: %w", label, ErrCorefPronoun)
		}
		if len(token.Parents) == 0 {
			rootCount++
		}
	}
	if rootCount > 1 {
		return fmt.Errorf("search phrase %q: %w", label, ErrMultipleClauses)
	}
	return nil
}

// rootExpansions collects every lowercased form under which a document word
// counts as root-compatible without embedding comparison.
func rootExpansions(root *Token, ontology *Ontology) []string {
	if root == nil {
		return nil
	}
	seen := make(map[string]bool)
	var expansions []string
	add := func(word string) {
		word = strings.ToLower(strings.TrimSpace(word))
		if word == "" || seen[word] {
			return
		}
		seen[word] = true
		expansions = append(expansions, word)
	}
	add(root.Lemma)
	add(root.Text)
	add(strings.ReplaceAll(root.Lemma, "-", ""))
	add(root.DerivedLemma)
	if ontology != nil {
		for _, related := range ontology.RelatedWords(root.Lemma) {
			add(related)
		}
		if root.DerivedLemma != "" {
			for _, related := range ontology.RelatedWords(root.DerivedLemma) {
				add(related)
			}
		}
	}
	return expansions
}
