package model

import (
	"sort"
	"strings"
)

// Document represents one parsed text as a labelled graph of tokens. The
// token slice is an arena addressed by index; relations and coreference
// chains refer to positions within it. Documents are produced once by the
// linguistic front end and never mutated afterwards, which makes them safe to
// share between concurrent match calls.
type Document struct {
	Label    string   `json:"label"`
	Tokens   []*Token `json:"tokens"`
	Metadata Metadata `json:"metadata,omitempty"`

	wordIndexes map[string][]Index
}

// NewDocument creates a document from a finalized token arena.
func NewDocument(label string, tokens []*Token) *Document {
	return &Document{Label: label, Tokens: tokens}
}

// Token returns the token at position i, or nil when out of range.
func (d *Document) Token(i int) *Token {
	if i < 0 || i >= len(d.Tokens) {
		return nil
	}
	return d.Tokens[i]
}

// WordIndexes returns a map from every known lowercased textual
// representation (surface text, lemma, derived lemma, subword forms) to the
// units where that form occurs. The map is built on first use and cached;
// callers must not mutate it.
func (d *Document) WordIndexes() map[string][]Index {
	if d.wordIndexes != nil {
		return d.wordIndexes
	}
	indexes := make(map[string][]Index)
	add := func(word string, index Index) {
		word = strings.ToLower(strings.TrimSpace(word))
		if word == "" {
			return
		}
		for _, existing := range indexes[word] {
			if existing.Equal(index) {
				return
			}
		}
		indexes[word] = append(indexes[word], index)
	}
	for _, token := range d.Tokens {
		whole := WholeToken(token.Index)
		add(token.Text, whole)
		add(strings.ReplaceAll(token.Text, "-", ""), whole)
		add(token.Lemma, whole)
		add(token.DerivedLemma, whole)
		for _, subword := range token.Subwords {
			unit := Index{Token: token.Index, Subword: subword.Position}
			add(subword.Text, unit)
			add(subword.Lemma, unit)
			add(subword.DerivedLemma, unit)
		}
	}
	d.wordIndexes = indexes
	return indexes
}

// AverageVector returns the mean of all token vectors, or nil when no token
// carries one. It is used as a coarse whole-document embedding for similarity
// shortlisting in the corpus store.
func (d *Document) AverageVector() []float32 {
	var sum []float32
	count := 0
	for _, token := range d.Tokens {
		if !token.HasVector() {
			continue
		}
		if sum == nil {
			sum = make([]float32, len(token.Vector))
		}
		if len(token.Vector) != len(sum) {
			continue
		}
		for i, v := range token.Vector {
			sum[i] += v
		}
		count++
	}
	if count == 0 {
		return nil
	}
	for i := range sum {
		sum[i] /= float32(count)
	}
	return sum
}

// CoreferentsOf returns the reference chain members of token i that may stand
// in for it during matching. Pronoun conjuncts of a split coordination
// ("he and the boss") are excluded because they do not denote the
// disambiguated mention on their own.
func (d *Document) CoreferentsOf(i int) []int {
	token := d.Token(i)
	if token == nil {
		return nil
	}
	var result []int
	for _, corefIndex := range token.Coreferents {
		coref := d.Token(corefIndex)
		if coref == nil || corefIndex == i {
			continue
		}
		if coref.Pos == "PRON" && d.isConjunct(corefIndex) {
			continue
		}
		result = append(result, corefIndex)
	}
	return result
}

// isConjunct reports whether token i hangs off another token via a
// coordination dependency.
func (d *Document) isConjunct(i int) bool {
	for _, parent := range d.Token(i).Parents {
		if parent.Label == "conj" {
			return true
		}
	}
	return false
}

// ConjunctGroup returns token i together with every token reachable from it
// through coordination dependencies in either direction, in ascending order.
func (d *Document) ConjunctGroup(i int) []int {
	if d.Token(i) == nil {
		return nil
	}
	seen := map[int]bool{i: true}
	queue := []int{i}
	group := []int{i}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		token := d.Token(current)
		for _, child := range token.Children {
			if child.Label == "conj" && !seen[child.Index] {
				seen[child.Index] = true
				group = append(group, child.Index)
				queue = append(queue, child.Index)
			}
		}
		for _, parent := range token.Parents {
			if parent.Label == "conj" && !seen[parent.Index] {
				seen[parent.Index] = true
				group = append(group, parent.Index)
				queue = append(queue, parent.Index)
			}
		}
	}
	sort.Ints(group)
	return group
}

// AreLinked reports whether the tokens at positions a and b are connected by
// a dependency in either direction, treating members of the same reference
// chain or coordination group as equivalent endpoints.
func (d *Document) AreLinked(a, b int) bool {
	if a == b {
		return true
	}
	candidatesA := d.linkEndpoints(a)
	candidatesB := d.linkEndpoints(b)
	for _, ca := range candidatesA {
		for _, cb := range candidatesB {
			if ca == cb {
				return true
			}
			for _, child := range d.Token(ca).Children {
				if child.Index == cb {
					return true
				}
			}
			for _, child := range d.Token(cb).Children {
				if child.Index == ca {
					return true
				}
			}
		}
	}
	return false
}

// linkEndpoints collects every token that may stand in for token i as a
// dependency endpoint: the token itself, its conjuncts and its reference
// chain members along with their conjuncts.
func (d *Document) linkEndpoints(i int) []int {
	seen := make(map[int]bool)
	var endpoints []int
	add := func(index int) {
		if !seen[index] {
			seen[index] = true
			endpoints = append(endpoints, index)
		}
	}
	for _, conjunct := range d.ConjunctGroup(i) {
		add(conjunct)
	}
	for _, coref := range d.CoreferentsOf(i) {
		for _, conjunct := range d.ConjunctGroup(coref) {
			add(conjunct)
		}
	}
	return endpoints
}
