package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildCoordinationDoc() *Document {
	// "The dog chased the cat and the mouse"
	b := NewDocumentBuilder("coordination")
	b.AddToken("The", "the", "DET")
	b.AddToken("dog", "dog", "NOUN")
	b.AddToken("chased", "chase", "VERB")
	b.AddToken("the", "the", "DET")
	b.AddToken("cat", "cat", "NOUN")
	b.AddToken("and", "and", "CCONJ")
	b.AddToken("the", "the", "DET")
	b.AddToken("mouse", "mouse", "NOUN")
	b.Link(1, 0, "det")
	b.Link(2, 1, "nsubj")
	b.Link(2, 4, "obj")
	b.Link(4, 3, "det")
	b.Link(4, 5, "cc")
	b.Link(4, 7, "conj")
	b.Link(7, 6, "det")
	return b.Build()
}

func TestWordIndexes(t *testing.T) {
	t.Run("Text and lemma forms", func(t *testing.T) {
		doc := buildCoordinationDoc()
		indexes := doc.WordIndexes()

		assert.Contains(t, indexes, "chased", "Expected the surface form to be indexed")
		assert.Contains(t, indexes, "chase", "Expected the lemma to be indexed")
		assert.Equal(t, []Index{WholeToken(2)}, indexes["chase"], "Expected the lemma to point at the verb")
	})

	t.Run("Subword forms", func(t *testing.T) {
		b := NewDocumentBuilder("compound")
		token := b.AddToken("Informationsextraktion", "Informationsextraktion", "NOUN")
		token.Subwords = []Subword{
			{Text: "Informations", Lemma: "information", Position: 0, ContainingIndex: 0, Dependent: NoSubword, Governor: 1},
			{Text: "extraktion", Lemma: "extraktion", Position: 1, ContainingIndex: 0, Dependent: 0, Governor: NoSubword, IsHead: true},
		}
		doc := b.Build()
		indexes := doc.WordIndexes()

		assert.Contains(t, indexes, "information", "Expected the subword lemma to be indexed")
		assert.Equal(t, []Index{{Token: 0, Subword: 0}}, indexes["information"], "Expected the subword index to carry its position")
	})

	t.Run("Index is cached", func(t *testing.T) {
		doc := buildCoordinationDoc()
		first := doc.WordIndexes()
		second := doc.WordIndexes()
		assert.Equal(t, len(first), len(second), "Expected repeated calls to agree")
	})
}

func TestConjunctGroup(t *testing.T) {
	doc := buildCoordinationDoc()

	t.Run("From the first conjunct", func(t *testing.T) {
		assert.Equal(t, []int{4, 7}, doc.ConjunctGroup(4), "Expected the conjunct chain from cat")
	})

	t.Run("From the second conjunct", func(t *testing.T) {
		assert.Equal(t, []int{4, 7}, doc.ConjunctGroup(7), "Expected the chain to be reachable backwards")
	})

	t.Run("From an unconjoined token", func(t *testing.T) {
		assert.Equal(t, []int{1}, doc.ConjunctGroup(1), "Expected a singleton group without coordination")
	})
}

func TestAreLinked(t *testing.T) {
	doc := buildCoordinationDoc()

	t.Run("Direct dependency", func(t *testing.T) {
		assert.True(t, doc.AreLinked(2, 1), "Expected verb and subject to be linked")
		assert.True(t, doc.AreLinked(1, 2), "Expected linking to be symmetric")
	})

	t.Run("Second conjunct counts as linked", func(t *testing.T) {
		assert.True(t, doc.AreLinked(2, 7), "Expected the verb to be linked to the second conjunct")
	})

	t.Run("Unrelated tokens", func(t *testing.T) {
		assert.False(t, doc.AreLinked(1, 7), "Expected subject and object conjunct to not be linked")
	})

	t.Run("Coreference equivalence", func(t *testing.T) {
		// "A dog arrived. It barked."
		b := NewDocumentBuilder("coref")
		b.AddToken("dog", "dog", "NOUN")
		b.AddToken("arrived", "arrive", "VERB")
		b.AddToken("It", "it", "PRON")
		b.AddToken("barked", "bark", "VERB")
		b.Link(1, 0, "nsubj")
		b.Link(3, 2, "nsubj")
		linked := b.Build()
		linked.Tokens[2].Coreferents = []int{0}

		assert.True(t, linked.AreLinked(3, 0), "Expected the verb to be linked to the resolved mention")
	})
}

func TestCoreferentsOf(t *testing.T) {
	t.Run("Pronoun conjuncts are excluded", func(t *testing.T) {
		// "He and the boss arrived", with "he" resolved to a mention.
		b := NewDocumentBuilder("split pronoun")
		b.AddToken("Smith", "Smith", "PROPN")
		b.AddToken("He", "he", "PRON")
		b.AddToken("and", "and", "CCONJ")
		b.AddToken("boss", "boss", "NOUN")
		b.AddToken("arrived", "arrive", "VERB")
		b.Link(4, 1, "nsubj")
		b.Link(1, 2, "cc")
		b.Link(1, 3, "conj")
		doc := b.Build()
		doc.Tokens[0].Coreferents = []int{1}
		doc.Tokens[1].Coreferents = []int{0}

		require.NotNil(t, doc.Token(0), "Expected a token at position 0")
		assert.Empty(t, doc.CoreferentsOf(0), "Expected the pronoun conjunct to be excluded")
		assert.Equal(t, []int{0}, doc.CoreferentsOf(1), "Expected the pronoun to resolve to the mention")
	})
}

func TestAverageVector(t *testing.T) {
	t.Run("Mean over tokens with vectors", func(t *testing.T) {
		b := NewDocumentBuilder("vectors")
		b.AddToken("dog", "dog", "NOUN").Vector = []float32{1, 0}
		b.AddToken("cat", "cat", "NOUN").Vector = []float32{0, 1}
		b.AddToken("the", "the", "DET")
		doc := b.Build()

		assert.Equal(t, []float32{0.5, 0.5}, doc.AverageVector(), "Expected the mean of the present vectors")
	})

	t.Run("No vectors", func(t *testing.T) {
		doc := buildCoordinationDoc()
		assert.Nil(t, doc.AverageVector(), "Expected nil without any vectors")
	})
}
