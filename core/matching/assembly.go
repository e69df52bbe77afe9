package matching

import (
	"math"

	"github.com/msg-systems/holmes-extractor-sub002/model"
)

// buildMatches expands the candidate table into full matches, discards
// incoherent combinations and scores the survivors.
func (m *Matcher) buildMatches(sp *model.SearchPhrase, doc *model.Document, table *candidateTable, anchor int) []*model.Match {
	for _, phraseIndex := range sp.MatchableIndexes {
		if len(table.byIndex[phraseIndex]) == 0 {
			return nil
		}
	}

	combinations := m.expandCombinations(sp, table)

	var matches []*model.Match
	for _, combination := range combinations {
		if len(combination) > 2 && !m.isCoherent(sp, doc, combination) {
			continue
		}
		if containsContainedSubword(combination) {
			continue
		}
		match := m.scoreMatch(sp, doc, combination, anchor)
		if match != nil {
			matches = append(matches, match)
		}
	}
	return matches
}

// expandCombinations builds the cross-product of the per-token candidate
// lists iteratively, so stack depth stays bounded by phrase size rather than
// document coordination degree. Combinations that would claim one document
// unit for two different phrase tokens are skipped; this is what turns
// coordinated structures into multiple distinct matches instead of one
// contradictory one.
func (m *Matcher) expandCombinations(sp *model.SearchPhrase, table *candidateTable) [][]*model.WordMatch {
	combinations := [][]*model.WordMatch{{}}
	for _, phraseIndex := range table.order {
		if !sp.IsMatchable(phraseIndex) && !m.isQuestionTarget(sp, sp.Doc.Token(phraseIndex)) {
			continue
		}
		var expanded [][]*model.WordMatch
		for _, combination := range combinations {
			for _, wordMatch := range table.byIndex[phraseIndex] {
				if claimsUnit(combination, wordMatch.DocumentIndex) {
					continue
				}
				next := make([]*model.WordMatch, len(combination), len(combination)+1)
				copy(next, combination)
				expanded = append(expanded, append(next, wordMatch))
			}
		}
		if len(expanded) == 0 {
			return nil
		}
		combinations = expanded
	}
	return combinations
}

func claimsUnit(combination []*model.WordMatch, unit model.Index) bool {
	for _, wordMatch := range combination {
		if wordMatch.DocumentIndex.Equal(unit) {
			return true
		}
	}
	return false
}

// isCoherent verifies that every search phrase dependency between two
// matched tokens corresponds to a real document relation in at least one
// direction, up to reference chain and coordination equivalence. Without
// this check, independently matched nodes could assemble into a match whose
// document units are structurally disconnected.
func (m *Matcher) isCoherent(sp *model.SearchPhrase, doc *model.Document, combination []*model.WordMatch) bool {
	byPhraseIndex := make(map[int]*model.WordMatch, len(combination))
	for _, wordMatch := range combination {
		byPhraseIndex[wordMatch.SearchPhraseIndex] = wordMatch
	}
	for _, wordMatch := range combination {
		phraseToken := sp.Doc.Token(wordMatch.SearchPhraseIndex)
		for _, relation := range phraseToken.Children {
			child, ok := byPhraseIndex[relation.Index]
			if !ok {
				continue
			}
			if !documentUnitsLinked(doc, wordMatch, child) {
				return false
			}
		}
	}
	return true
}

func documentUnitsLinked(doc *model.Document, parent, child *model.WordMatch) bool {
	parentTokens := []int{parent.StructuralIndex, parent.DocumentIndex.Token}
	childTokens := []int{child.StructuralIndex, child.DocumentIndex.Token}
	for _, p := range parentTokens {
		for _, c := range childTokens {
			if doc.AreLinked(p, c) {
				return true
			}
		}
	}
	return false
}

// containsContainedSubword reports whether the combination double-counts one
// physical word: a subword match inside a token that another word match has
// already claimed as a whole.
func containsContainedSubword(combination []*model.WordMatch) bool {
	for _, subwordMatch := range combination {
		if !subwordMatch.DocumentIndex.IsSubword() {
			continue
		}
		for _, other := range combination {
			if other == subwordMatch {
				continue
			}
			if !other.DocumentIndex.IsSubword() && other.DocumentIndex.Token == subwordMatch.DocumentIndex.Token {
				return true
			}
		}
	}
	return false
}

// scoreMatch computes the overall similarity and applies the active
// threshold, returning nil when the combination is not accepted.
func (m *Matcher) scoreMatch(sp *model.SearchPhrase, doc *model.Document, combination []*model.WordMatch, anchor int) *model.Match {
	match := &model.Match{
		SearchPhraseLabel: sp.Label,
		DocumentLabel:     doc.Label,
		Anchor:            anchor,
	}

	product := 1.0
	allExact := true
	questionInvolved := false
	for _, wordMatch := range combination {
		match.WordMatches = append(match.WordMatches, *wordMatch)
		match.Negated = match.Negated || wordMatch.Negated
		match.Uncertain = match.Uncertain || wordMatch.Uncertain
		match.InvolvesCoreference = match.InvolvesCoreference || wordMatch.InvolvesCoreference
		product *= wordMatch.Similarity
		if wordMatch.Similarity != 1.0 {
			allExact = false
		}
		if wordMatch.Kind == model.MatchKindQuestion {
			questionInvolved = true
		}
	}

	if allExact {
		match.OverallSimilarity = 1.0
		return match
	}

	comparableCount := sp.ComparableCount
	if comparableCount < 1 {
		comparableCount = 1
	}
	similarity := math.Pow(product, 1.0/float64(comparableCount))
	match.OverallSimilarity = math.Round(similarity*1e8) / 1e8

	threshold := m.cfg.OverallSimilarityThreshold
	if questionInvolved {
		threshold = m.cfg.InitialQuestionWordThreshold
	}
	if match.OverallSimilarity < threshold {
		return nil
	}
	return match
}
