package matching

import (
	"strings"

	"github.com/msg-systems/holmes-extractor-sub002/model"
)

// compoundFamily lists the phrase dependency labels that subword sibling
// links may satisfy: relations between the components of one compound word
// carry the same semantics as relations within a noun phrase.
var compoundFamily = map[string]bool{
	"compound": true,
	"flat":     true,
	"amod":     true,
	"nmod":     true,
}

// interrogativeLemmas lists the lemmas treated as initial question words.
var interrogativeLemmas = map[string]bool{
	"who": true, "whom": true, "whose": true, "what": true,
	"which": true, "where": true, "when": true, "why": true, "how": true,
}

// docCandidate is one document unit a phrase dependency may recurse into,
// together with the flags picked up on the way there.
type docCandidate struct {
	unit           model.Index
	uncertain      bool
	viaCoreference bool
}

// matchRecursively attempts to confirm the pairing of the search phrase
// token at phraseIndex with the document unit, and to recursively confirm
// every outgoing phrase dependency against some document relation. On
// success the resulting word match is appended to the candidate table.
//
// The visited table is keyed by phrase token and guarantees termination on
// cyclic coreference and subword structures: a pairing already on the
// current exploration path is treated as provisionally satisfied.
func (m *Matcher) matchRecursively(
	sp *model.SearchPhrase,
	doc *model.Document,
	phraseIndex int,
	unit model.Index,
	visited map[int][]model.Index,
	table *candidateTable,
	depth int,
	inheritedUncertain bool,
	viaCoreference bool,
) bool {
	for _, seen := range visited[phraseIndex] {
		if seen.Equal(unit) {
			return true
		}
	}
	visited[phraseIndex] = append(visited[phraseIndex], unit)

	phraseToken := sp.Doc.Token(phraseIndex)
	comparison := m.comparator.Compare(sp, phraseIndex, doc, unit)
	reportedUnit := unit
	involvesCoreference := viaCoreference
	corefUncertain := false
	if comparison == nil && m.cfg.PerformCoreferenceResolution && !unit.IsSubword() {
		for _, corefIndex := range doc.CoreferentsOf(unit.Token) {
			corefUnit := model.WholeToken(corefIndex)
			if c := m.comparator.Compare(sp, phraseIndex, doc, corefUnit); c != nil {
				comparison = c
				reportedUnit = corefUnit
				involvesCoreference = true
				corefUncertain = doc.Token(corefIndex).Uncertain
				break
			}
		}
	}
	if comparison == nil && phraseToken.IsEntityPlaceholder() {
		// Entity placeholders do not decompose structurally.
		return false
	}

	for _, relation := range phraseToken.Children {
		target := sp.Doc.Token(relation.Index)
		if target == nil {
			continue
		}
		if !target.Matchable && !m.isQuestionTarget(sp, target) {
			continue
		}
		candidates := m.collectCandidates(sp, doc, relation, unit, reportedUnit)
		matched := false
		for _, candidate := range candidates {
			if m.matchRecursively(sp, doc, relation.Index, candidate.unit, visited, table, depth+1,
				candidate.uncertain, candidate.viaCoreference) {
				matched = true
			}
		}
		if !matched {
			// A required relation with no confirmed counterpart fails
			// the whole pairing; there is no partial credit.
			return false
		}
	}

	if comparison == nil {
		return false
	}

	docToken := doc.Token(unit.Token)
	reportedToken := doc.Token(reportedUnit.Token)
	table.add(&model.WordMatch{
		SearchPhraseIndex:   phraseIndex,
		DocumentIndex:       reportedUnit,
		Span:                comparison.Span,
		StructuralIndex:     unit.Token,
		SearchPhraseWord:    comparison.SearchPhraseWord,
		DocumentWord:        comparison.DocumentWord,
		Kind:                comparison.Kind,
		Similarity:          comparison.Similarity,
		Negated:             docToken.Negated || reportedToken.Negated,
		Uncertain:           inheritedUncertain || corefUncertain || docToken.Uncertain,
		InvolvesCoreference: involvesCoreference,
		Depth:               depth,
	})
	return true
}

// isQuestionTarget reports whether an unmatchable phrase token should still
// be recursed into because it is an interrogative placeholder of a question
// form phrase.
func (m *Matcher) isQuestionTarget(sp *model.SearchPhrase, token *model.Token) bool {
	return m.cfg.ProcessInitialQuestionWords && sp.QuestionForm &&
		interrogativeLemmas[strings.ToLower(token.Lemma)]
}

// collectCandidates gathers every document unit the phrase dependency may be
// satisfied by, expanded along three axes: directly label-equivalent
// relations, reverse relations for mutually invertible labels, and the
// relations of every reference chain member of the document unit. Document
// side coordination is expanded so each conjunct becomes its own candidate.
func (m *Matcher) collectCandidates(
	sp *model.SearchPhrase,
	doc *model.Document,
	relation model.Relation,
	unit model.Index,
	reportedUnit model.Index,
) []docCandidate {
	var candidates []docCandidate
	seen := make(map[model.Index]bool)
	add := func(candidate docCandidate) {
		if seen[candidate.unit] {
			return
		}
		seen[candidate.unit] = true
		candidates = append(candidates, candidate)
	}

	reverseEnabled := m.cfg.UseReverseDependencyMatching || sp.ReverseOnly

	addToken := func(tokenIndex int, viaCoreference, extraUncertain bool) {
		token := doc.Token(tokenIndex)
		if token == nil {
			return
		}
		for _, docRelation := range token.Children {
			if !m.deps.Matches(relation.Label, docRelation.Label) {
				continue
			}
			uncertain := (docRelation.Uncertain && !relation.Uncertain) || extraUncertain
			for _, conjunct := range conjunctIndexes(doc, docRelation.Index) {
				add(docCandidate{model.WholeToken(conjunct), uncertain, viaCoreference})
			}
		}
		if reverseEnabled {
			for _, docRelation := range token.Parents {
				if !m.deps.ReverseMatches(relation.Label, docRelation.Label) {
					continue
				}
				uncertain := (docRelation.Uncertain && !relation.Uncertain) || extraUncertain
				add(docCandidate{model.WholeToken(docRelation.Index), uncertain, viaCoreference})
			}
		}
	}

	// Subword sibling links are a same-token special case: the compound's
	// internal structure satisfies compound-family phrase dependencies.
	if unit.IsSubword() && compoundFamily[relation.Label] {
		for _, subword := range doc.Token(unit.Token).Subwords {
			if subword.Position != unit.Subword {
				continue
			}
			if subword.Dependent != model.NoSubword {
				add(docCandidate{model.Index{Token: unit.Token, Subword: subword.Dependent}, false, false})
			}
			if reverseEnabled && subword.Governor != model.NoSubword {
				add(docCandidate{model.Index{Token: unit.Token, Subword: subword.Governor}, false, false})
			}
		}
	}

	addToken(unit.Token, false, false)
	if reportedUnit.Token != unit.Token {
		addToken(reportedUnit.Token, true, doc.Token(reportedUnit.Token).Uncertain)
	}
	if m.cfg.PerformCoreferenceResolution {
		for _, corefIndex := range doc.CoreferentsOf(unit.Token) {
			if corefIndex == reportedUnit.Token {
				continue
			}
			addToken(corefIndex, true, doc.Token(corefIndex).Uncertain)
		}
	}

	return candidates
}

// conjunctIndexes returns token i together with every further conjunct
// chained to it by coordination, in document order.
func conjunctIndexes(doc *model.Document, i int) []int {
	indexes := []int{i}
	for cursor := 0; cursor < len(indexes); cursor++ {
		token := doc.Token(indexes[cursor])
		if token == nil {
			continue
		}
		for _, child := range token.Children {
			if child.Label != "conj" {
				continue
			}
			known := false
			for _, existing := range indexes {
				if existing == child.Index {
					known = true
					break
				}
			}
			if !known {
				indexes = append(indexes, child.Index)
			}
		}
	}
	return indexes
}
