package matching

import (
	"github.com/msg-systems/holmes-extractor-sub002/core/compare"
	"github.com/msg-systems/holmes-extractor-sub002/model"
)

// Matcher aligns search phrases against document graphs. It holds only
// read-only collaborators, so one Matcher can serve concurrent match calls;
// all mutable state lives in per-call tables.
type Matcher struct {
	cfg        *model.Config
	comparator *compare.Comparator
	deps       compare.DependencyMatrix
}

// NewMatcher creates a matcher for the given configuration and ontology. The
// ontology may be nil.
func NewMatcher(cfg *model.Config, ontology *model.Ontology) *Matcher {
	return &Matcher{
		cfg:        cfg,
		comparator: compare.NewComparator(cfg, ontology),
		deps:       compare.DefaultDependencyMatrix(),
	}
}

// Compare exposes the word-level comparator for anchor prefiltering and the
// single-word fast path.
func (m *Matcher) Compare(sp *model.SearchPhrase, phraseIndex int, doc *model.Document, unit model.Index) *compare.Comparison {
	return m.comparator.Compare(sp, phraseIndex, doc, unit)
}

// MatchAnchor attempts to align the whole search phrase with its root at the
// given document unit, returning every accepted match. It never fails; an
// impossible anchor yields an empty result.
func (m *Matcher) MatchAnchor(sp *model.SearchPhrase, doc *model.Document, anchor model.Index) []*model.Match {
	visited := make(map[int][]model.Index)
	table := newCandidateTable()
	m.matchRecursively(sp, doc, sp.RootIndex, anchor, visited, table, 0, false, false)
	return m.buildMatches(sp, doc, table, anchor.Token)
}

// candidateTable collects the word match candidates per search phrase token,
// preserving the order in which phrase tokens were first confirmed.
type candidateTable struct {
	order   []int
	byIndex map[int][]*model.WordMatch
}

func newCandidateTable() *candidateTable {
	return &candidateTable{byIndex: make(map[int][]*model.WordMatch)}
}

func (t *candidateTable) add(wm *model.WordMatch) {
	if _, seen := t.byIndex[wm.SearchPhraseIndex]; !seen {
		t.order = append(t.order, wm.SearchPhraseIndex)
	}
	t.byIndex[wm.SearchPhraseIndex] = append(t.byIndex[wm.SearchPhraseIndex], wm)
}
