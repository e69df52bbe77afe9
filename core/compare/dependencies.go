package compare

// DependencyEquivalents describes which document dependency labels can stand
// in for one search phrase dependency label. Matching labels hold when the
// document edge points the same way as the phrase edge; Reverse labels hold
// for document edges pointing the opposite direction, covering passive or
// nominal constructions of a relation the phrase expresses actively.
type DependencyEquivalents struct {
	Matching []string
	Reverse  []string
}

// DependencyMatrix maps search phrase dependency labels to their document
// equivalents. A label always matches itself.
type DependencyMatrix map[string]DependencyEquivalents

// DefaultDependencyMatrix returns the equivalence table for Universal
// Dependencies labels.
func DefaultDependencyMatrix() DependencyMatrix {
	return DependencyMatrix{
		"nsubj": {
			Matching: []string{"csubj", "nsubj:xsubj"},
			Reverse:  []string{"acl", "acl:relcl", "obl:agent"},
		},
		"obj": {
			Matching: []string{"dobj", "nsubj:pass", "obl:arg"},
			Reverse:  []string{"acl", "acl:relcl"},
		},
		"dobj": {
			Matching: []string{"obj", "nsubj:pass", "obl:arg"},
			Reverse:  []string{"acl", "acl:relcl"},
		},
		"amod": {
			Matching: []string{"advmod", "compound", "nmod"},
		},
		"advmod": {
			Matching: []string{"amod"},
		},
		"nmod": {
			Matching: []string{"nmod:poss", "obl", "compound"},
		},
		"nmod:poss": {
			Matching: []string{"nmod"},
		},
		"compound": {
			Matching: []string{"nmod", "amod", "flat"},
		},
		"flat": {
			Matching: []string{"compound"},
		},
		"obl": {
			Matching: []string{"nmod", "obl:arg"},
		},
		"xcomp": {
			Matching: []string{"ccomp", "advcl"},
		},
		"ccomp": {
			Matching: []string{"xcomp"},
		},
	}
}

// Matches reports whether a document edge labelled documentLabel can satisfy
// a search phrase edge labelled phraseLabel.
func (m DependencyMatrix) Matches(phraseLabel, documentLabel string) bool {
	if phraseLabel == documentLabel {
		return true
	}
	for _, label := range m[phraseLabel].Matching {
		if label == documentLabel {
			return true
		}
	}
	return false
}

// ReverseMatches reports whether a document edge labelled documentLabel
// pointing the opposite direction can satisfy a search phrase edge labelled
// phraseLabel.
func (m DependencyMatrix) ReverseMatches(phraseLabel, documentLabel string) bool {
	for _, label := range m[phraseLabel].Reverse {
		if label == documentLabel {
			return true
		}
	}
	return false
}
