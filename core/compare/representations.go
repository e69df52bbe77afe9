package compare

import (
	"sort"
	"strings"

	"github.com/msg-systems/holmes-extractor-sub002/model"
)

// docRepresentation is one textual form a document unit is known under,
// together with the token span it covers when it denotes a multiword phrase.
type docRepresentation struct {
	Word string
	Span []int
}

// phraseTokenRepresentations returns the lowercased forms under which a
// search phrase token may be compared: its lemma, the hyphen-normalized
// lemma, and, for single non-phrasal lemmas, the surface text.
func phraseTokenRepresentations(token *model.Token) []string {
	var reps []string
	seen := make(map[string]bool)
	add := func(word string) {
		word = strings.ToLower(strings.TrimSpace(word))
		if word == "" || seen[word] {
			return
		}
		seen[word] = true
		reps = append(reps, word)
	}
	add(token.Lemma)
	add(strings.ReplaceAll(token.Lemma, "-", ""))
	if !strings.Contains(token.Lemma, " ") {
		add(token.Text)
	}
	return reps
}

// unitRepresentations returns all lowercased forms of a document unit. For a
// whole token this includes surface text, hyphen-normalized text, lemma, all
// subword forms and the forms of every multiword span the token heads or
// belongs to; for a subword only its own forms.
func unitRepresentations(doc *model.Document, unit model.Index) []docRepresentation {
	token := doc.Token(unit.Token)
	if token == nil {
		return nil
	}
	var reps []docRepresentation
	seen := make(map[string]bool)
	add := func(word string, span []int) {
		word = strings.ToLower(strings.TrimSpace(word))
		if word == "" || seen[word] {
			return
		}
		seen[word] = true
		reps = append(reps, docRepresentation{Word: word, Span: span})
	}

	if unit.IsSubword() {
		for _, subword := range token.Subwords {
			if subword.Position != unit.Subword {
				continue
			}
			add(subword.Text, nil)
			add(strings.ReplaceAll(subword.Text, "-", ""), nil)
			add(subword.Lemma, nil)
		}
		return reps
	}

	add(token.Text, nil)
	add(strings.ReplaceAll(token.Text, "-", ""), nil)
	add(token.Lemma, nil)
	for _, subword := range token.Subwords {
		add(subword.Text, nil)
		add(subword.Lemma, nil)
	}
	for _, span := range multiwordSpans(doc, unit.Token) {
		add(span.Text, span.Indexes)
		add(span.Lemma, span.Indexes)
	}
	return reps
}

// multiwordSpan is a contiguous run of tokens denoting one phrase.
type multiwordSpan struct {
	Text    string
	Lemma   string
	Indexes []int
}

// multiwordSpans returns the compound spans the token at position i takes
// part in: the run of tokens chained to it by compound-family dependencies,
// and the contiguous run sharing its entity type.
func multiwordSpans(doc *model.Document, i int) []multiwordSpan {
	var spans []multiwordSpan
	if span := compoundSpan(doc, i); len(span) > 1 {
		spans = append(spans, makeSpan(doc, span))
	}
	if span := EntitySpan(doc, i); len(span) > 1 {
		spans = append(spans, makeSpan(doc, span))
	}
	return spans
}

func makeSpan(doc *model.Document, indexes []int) multiwordSpan {
	texts := make([]string, 0, len(indexes))
	lemmas := make([]string, 0, len(indexes))
	for _, index := range indexes {
		token := doc.Token(index)
		texts = append(texts, strings.ToLower(token.Text))
		lemmas = append(lemmas, strings.ToLower(token.Lemma))
	}
	return multiwordSpan{
		Text:    strings.Join(texts, " "),
		Lemma:   strings.Join(lemmas, " "),
		Indexes: indexes,
	}
}

// compoundSpan returns the sorted contiguous run of tokens linked to token i
// by compound or flat dependencies, or nil when i stands alone.
func compoundSpan(doc *model.Document, i int) []int {
	members := map[int]bool{i: true}
	var walk func(index int)
	walk = func(index int) {
		token := doc.Token(index)
		for _, child := range token.Children {
			if (child.Label == "compound" || child.Label == "flat") && !members[child.Index] {
				members[child.Index] = true
				walk(child.Index)
			}
		}
		for _, parent := range token.Parents {
			if (parent.Label == "compound" || parent.Label == "flat") && !members[parent.Index] {
				members[parent.Index] = true
				walk(parent.Index)
			}
		}
	}
	walk(i)
	if len(members) < 2 {
		return nil
	}
	indexes := make([]int, 0, len(members))
	for index := range members {
		indexes = append(indexes, index)
	}
	sort.Ints(indexes)
	// Only contiguous runs denote a single phrase.
	for pos := 1; pos < len(indexes); pos++ {
		if indexes[pos] != indexes[pos-1]+1 {
			return nil
		}
	}
	return indexes
}

// EntitySpan returns the contiguous run of tokens around position i sharing
// its recognized entity type, or nil when the token carries no entity type.
func EntitySpan(doc *model.Document, i int) []int {
	token := doc.Token(i)
	if token == nil || token.EntityType == "" {
		return nil
	}
	start := i
	for start > 0 && doc.Token(start-1).EntityType == token.EntityType {
		start--
	}
	end := i
	for end < len(doc.Tokens)-1 && doc.Token(end+1).EntityType == token.EntityType {
		end++
	}
	indexes := make([]int, 0, end-start+1)
	for index := start; index <= end; index++ {
		indexes = append(indexes, index)
	}
	return indexes
}
