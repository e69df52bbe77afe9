package model

import (
	"sort"
	"strings"
)

// Ontology maps canonical word forms to related words (hypernyms and
// synonyms). A symmetric ontology also reports the inverse of every
// registered relation. Ontologies are populated before matching starts and
// read-only afterwards.
type Ontology struct {
	symmetric bool
	related   map[string]map[string]bool
}

// NewOntology creates an empty ontology.
func NewOntology(symmetric bool) *Ontology {
	return &Ontology{
		symmetric: symmetric,
		related:   make(map[string]map[string]bool),
	}
}

// Symmetric reports whether relations are applied in both directions.
func (o *Ontology) Symmetric() bool {
	return o.symmetric
}

// AddRelation registers that child is a hyponym or synonym of parent, so a
// search phrase containing parent matches documents containing child.
func (o *Ontology) AddRelation(parent string, children ...string) {
	parent = normalizeOntologyWord(parent)
	if o.related[parent] == nil {
		o.related[parent] = make(map[string]bool)
	}
	for _, child := range children {
		o.related[parent][normalizeOntologyWord(child)] = true
	}
}

// RelatedWords returns the sorted set of words reachable from word, including
// inverse relations when the ontology is symmetric.
func (o *Ontology) RelatedWords(word string) []string {
	word = normalizeOntologyWord(word)
	set := make(map[string]bool)
	for child := range o.related[word] {
		set[child] = true
	}
	if o.symmetric {
		for parent, children := range o.related {
			if children[word] {
				set[parent] = true
			}
		}
	}
	words := make([]string, 0, len(set))
	for w := range set {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// Matches reports whether candidate is reachable from word, or word from
// candidate when the ontology is symmetric.
func (o *Ontology) Matches(word, candidate string) bool {
	word = normalizeOntologyWord(word)
	candidate = normalizeOntologyWord(candidate)
	if o.related[word][candidate] {
		return true
	}
	return o.symmetric && o.related[candidate][word]
}

func normalizeOntologyWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}
