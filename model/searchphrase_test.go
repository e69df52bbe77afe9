package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildPhraseDoc(label string) *Document {
	b := NewDocumentBuilder(label)
	b.AddToken("A", "a", "DET")
	b.AddToken("dog", "dog", "NOUN")
	b.AddToken("chases", "chase", "VERB")
	b.AddToken("a", "a", "DET")
	b.AddToken("cat", "cat", "NOUN")
	b.Link(1, 0, "det")
	b.Link(2, 1, "nsubj")
	b.Link(2, 4, "obj")
	b.Link(4, 3, "det")
	return b.Build()
}

func TestNewSearchPhrase(t *testing.T) {
	t.Run("Valid search phrase", func(t *testing.T) {
		sp, err := NewSearchPhrase("chase", buildPhraseDoc("A dog chases a cat"), nil)
		require.NoError(t, err, "Expected NewSearchPhrase to not return an error")
		require.NotNil(t, sp, "Expected NewSearchPhrase to return a non-nil search phrase")

		assert.Equal(t, 2, sp.RootIndex, "Expected verb to be the root")
		assert.Equal(t, []int{1, 2, 4}, sp.MatchableIndexes, "Expected the open class words to be matchable")
		assert.Equal(t, 3, sp.ComparableCount, "Expected all matchable words to be comparable")
		assert.False(t, sp.SingleMatchable, "Expected multi word phrase to not be single matchable")
	})

	t.Run("Single matchable word", func(t *testing.T) {
		b := NewDocumentBuilder("dog")
		b.AddToken("dog", "dog", "NOUN")
		sp, err := NewSearchPhrase("dog", b.Build(), nil)
		require.NoError(t, err, "Expected NewSearchPhrase to not return an error")

		assert.True(t, sp.SingleMatchable, "Expected one word phrase to be single matchable")
		assert.Equal(t, 0, sp.RootIndex, "Expected the only word to be the root")
	})

	t.Run("Entity placeholder is matchable but not comparable", func(t *testing.T) {
		b := NewDocumentBuilder("ENTITYPERSON chases a cat")
		b.AddToken("ENTITYPERSON", "ENTITYPERSON", "NOUN")
		b.AddToken("chases", "chase", "VERB")
		b.AddToken("a", "a", "DET")
		b.AddToken("cat", "cat", "NOUN")
		b.Link(1, 0, "nsubj")
		b.Link(1, 3, "obj")
		b.Link(3, 2, "det")

		sp, err := NewSearchPhrase("person chases cat", b.Build(), nil)
		require.NoError(t, err, "Expected NewSearchPhrase to not return an error")

		assert.Equal(t, []int{0, 1, 3}, sp.MatchableIndexes, "Expected the placeholder to stay matchable")
		assert.Equal(t, 2, sp.ComparableCount, "Expected the placeholder to be excluded from scoring")
	})

	t.Run("Nil document", func(t *testing.T) {
		_, err := NewSearchPhrase("empty", nil, nil)
		assert.ErrorIs(t, err, ErrNoMatchableWords, "Expected ErrNoMatchableWords for nil document")
	})

	t.Run("No matchable words", func(t *testing.T) {
		b := NewDocumentBuilder("the")
		b.AddToken("the", "the", "DET")
		_, err := NewSearchPhrase("the", b.Build(), nil)
		assert.ErrorIs(t, err, ErrNoMatchableWords, "Expected ErrNoMatchableWords for closed class only phrase")
	})

	t.Run("Negated phrase", func(t *testing.T) {
		doc := buildPhraseDoc("A dog never chases a cat")
		doc.Tokens[2].Negated = true
		_, err := NewSearchPhrase("negated", doc, nil)
		assert.ErrorIs(t, err, ErrContainsNegation, "Expected ErrContainsNegation for negated phrase")
	})

	t.Run("Coordinated phrase", func(t *testing.T) {
		b := NewDocumentBuilder("dogs and cats")
		b.AddToken("dogs", "dog", "NOUN")
		b.AddToken("and", "and", "CCONJ")
		b.AddToken("cats", "cat", "NOUN")
		b.Link(0, 1, "cc")
		b.Link(0, 2, "conj")
		_, err := NewSearchPhrase("coordination", b.Build(), nil)
		assert.ErrorIs(t, err, ErrContainsCoordination, "Expected ErrContainsCoordination for coordinated phrase")
	})

	t.Run("Multiple clauses", func(t *testing.T) {
		b := NewDocumentBuilder("dogs bark. cats miaow.")
		b.AddToken("dogs", "dog", "NOUN")
		b.AddToken("bark", "bark", "VERB")
		b.AddToken("cats", "cat", "NOUN")
		b.AddToken("miaow", "miaow", "VERB")
		b.Link(1, 0, "nsubj")
		b.Link(3, 2, "nsubj")
		_, err := NewSearchPhrase("two clauses", b.Build(), nil)
		assert.ErrorIs(t, err, ErrMultipleClauses, "Expected ErrMultipleClauses for two roots")
	})

	t.Run("Pronoun with coreference", func(t *testing.T) {
		b := NewDocumentBuilder("a dog, it barks")
		b.AddToken("dog", "dog", "NOUN")
		b.AddToken("it", "it", "PRON")
		b.AddToken("barks", "bark", "VERB")
		b.Link(2, 1, "nsubj")
		b.Link(2, 0, "obl")
		doc := b.Build()
		doc.Tokens[1].Coreferents = []int{0}
		_, err := NewSearchPhrase("coref pronoun", doc, nil)
		assert.ErrorIs(t, err, ErrCorefPronoun, "Expected ErrCorefPronoun for co-referring pronoun")
	})
}

func TestRootExpansions(t *testing.T) {
	t.Run("Without ontology", func(t *testing.T) {
		sp, err := NewSearchPhrase("chase", buildPhraseDoc("A dog chases a cat"), nil)
		require.NoError(t, err, "Expected NewSearchPhrase to not return an error")

		assert.Contains(t, sp.RootExpansions, "chase", "Expected the root lemma in the expansions")
		assert.Contains(t, sp.RootExpansions, "chases", "Expected the root text in the expansions")
	})

	t.Run("With ontology", func(t *testing.T) {
		ontology := NewOntology(false)
		ontology.AddRelation("chase", "pursue", "hunt")

		sp, err := NewSearchPhrase("chase", buildPhraseDoc("A dog chases a cat"), ontology)
		require.NoError(t, err, "Expected NewSearchPhrase to not return an error")

		assert.Contains(t, sp.RootExpansions, "pursue", "Expected ontology words in the expansions")
		assert.Contains(t, sp.RootExpansions, "hunt", "Expected ontology words in the expansions")
	})
}
