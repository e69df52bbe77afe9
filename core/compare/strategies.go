package compare

import (
	"math"
	"strings"

	"github.com/msg-systems/holmes-extractor-sub002/model"
)

// closedClassPos lists the coarse categories whose members carry too little
// lexical meaning for embedding comparison.
var closedClassPos = map[string]bool{
	"PRON":  true,
	"DET":   true,
	"ADP":   true,
	"AUX":   true,
	"CCONJ": true,
	"SCONJ": true,
	"PART":  true,
	"PUNCT": true,
}

// entityStrategy matches a search phrase entity placeholder against any
// document token recognized as the placeholder's entity type. Multiword
// entities expand to the full contiguous span sharing that type.
type entityStrategy struct{}

func (s *entityStrategy) Kind() model.MatchKind { return model.MatchKindEntity }

func (s *entityStrategy) Compare(sp *model.SearchPhrase, phraseIndex int, doc *model.Document, unit model.Index) *Comparison {
	phraseToken := sp.Doc.Token(phraseIndex)
	placeholderType := phraseToken.PlaceholderType()
	if placeholderType == "" || unit.IsSubword() {
		return nil
	}
	docToken := doc.Token(unit.Token)
	if docToken == nil || docToken.EntityType != placeholderType {
		return nil
	}
	span := EntitySpan(doc, unit.Token)
	comparison := &Comparison{
		Kind:             model.MatchKindEntity,
		Similarity:       1.0,
		SearchPhraseWord: strings.ToLower(phraseToken.Text),
		DocumentWord:     strings.ToLower(docToken.Text),
	}
	if len(span) > 1 {
		comparison.Span = span
		comparison.DocumentWord = makeSpan(doc, span).Text
	}
	return comparison
}

// directStrategy matches on case-insensitive equality between any textual
// representation of the two sides.
type directStrategy struct{}

func (s *directStrategy) Kind() model.MatchKind { return model.MatchKindDirect }

func (s *directStrategy) Compare(sp *model.SearchPhrase, phraseIndex int, doc *model.Document, unit model.Index) *Comparison {
	phraseToken := sp.Doc.Token(phraseIndex)
	if phraseToken.IsEntityPlaceholder() {
		return nil
	}
	for _, phraseRep := range phraseTokenRepresentations(phraseToken) {
		for _, docRep := range unitRepresentations(doc, unit) {
			if phraseRep == docRep.Word {
				return &Comparison{
					Kind:             model.MatchKindDirect,
					Similarity:       1.0,
					SearchPhraseWord: phraseRep,
					DocumentWord:     docRep.Word,
					Span:             docRep.Span,
				}
			}
		}
	}
	return nil
}

// derivationStrategy links morphologically related words through their shared
// derived root form, e.g. a verb and its nominalization.
type derivationStrategy struct{}

func (s *derivationStrategy) Kind() model.MatchKind { return model.MatchKindDerivation }

func (s *derivationStrategy) Compare(sp *model.SearchPhrase, phraseIndex int, doc *model.Document, unit model.Index) *Comparison {
	phraseToken := sp.Doc.Token(phraseIndex)
	if phraseToken.IsEntityPlaceholder() || phraseToken.DerivedLemma == "" {
		return nil
	}
	phraseDerived := strings.ToLower(phraseToken.DerivedLemma)
	for _, docDerived := range unitDerivedLemmas(doc, unit) {
		if phraseDerived == docDerived {
			return &Comparison{
				Kind:             model.MatchKindDerivation,
				Similarity:       1.0,
				SearchPhraseWord: phraseDerived,
				DocumentWord:     docDerived,
			}
		}
	}
	return nil
}

func unitDerivedLemmas(doc *model.Document, unit model.Index) []string {
	token := doc.Token(unit.Token)
	if token == nil {
		return nil
	}
	var lemmas []string
	if unit.IsSubword() {
		for _, subword := range token.Subwords {
			if subword.Position == unit.Subword && subword.DerivedLemma != "" {
				lemmas = append(lemmas, strings.ToLower(subword.DerivedLemma))
			}
		}
		return lemmas
	}
	if token.DerivedLemma != "" {
		lemmas = append(lemmas, strings.ToLower(token.DerivedLemma))
	}
	for _, subword := range token.Subwords {
		if subword.IsHead && subword.DerivedLemma != "" {
			lemmas = append(lemmas, strings.ToLower(subword.DerivedLemma))
		}
	}
	return lemmas
}

// ontologyStrategy matches when the ontology reports the search phrase word
// as a hypernym or synonym of the candidate word.
type ontologyStrategy struct {
	ontology *model.Ontology
}

func (s *ontologyStrategy) Kind() model.MatchKind { return model.MatchKindOntology }

func (s *ontologyStrategy) Compare(sp *model.SearchPhrase, phraseIndex int, doc *model.Document, unit model.Index) *Comparison {
	phraseToken := sp.Doc.Token(phraseIndex)
	if phraseToken.IsEntityPlaceholder() {
		return nil
	}
	for _, phraseRep := range phraseTokenRepresentations(phraseToken) {
		for _, docRep := range unitRepresentations(doc, unit) {
			if s.ontology.Matches(phraseRep, docRep.Word) {
				return &Comparison{
					Kind:             model.MatchKindOntology,
					Similarity:       1.0,
					SearchPhraseWord: phraseRep,
					DocumentWord:     docRep.Word,
					Span:             docRep.Span,
				}
			}
		}
	}
	return nil
}

// embeddingThreshold returns the per-comparison cosine threshold: the overall
// threshold raised to the power of the number of comparable matchable search
// phrase tokens, so multi-word phrases are not penalized more than single
// word ones.
func embeddingThreshold(cfg *model.Config, sp *model.SearchPhrase) float64 {
	count := sp.ComparableCount
	if count < 1 {
		count = 1
	}
	return math.Pow(cfg.OverallSimilarityThreshold, float64(count))
}

// embeddingStrategy compares semantic vectors; suppressed for closed-class
// categories and short words.
type embeddingStrategy struct {
	cfg *model.Config
}

func (s *embeddingStrategy) Kind() model.MatchKind { return model.MatchKindEmbedding }

func (s *embeddingStrategy) Compare(sp *model.SearchPhrase, phraseIndex int, doc *model.Document, unit model.Index) *Comparison {
	phraseToken := sp.Doc.Token(phraseIndex)
	if phraseToken.IsEntityPlaceholder() || unit.IsSubword() {
		return nil
	}
	docToken := doc.Token(unit.Token)
	if docToken == nil || !phraseToken.HasVector() || !docToken.HasVector() {
		return nil
	}
	if closedClassPos[phraseToken.Pos] || closedClassPos[docToken.Pos] {
		return nil
	}
	minLength := s.cfg.EmbeddingMatchingMinWordLength
	if len([]rune(phraseToken.Lemma)) < minLength || len([]rune(docToken.Lemma)) < minLength {
		return nil
	}
	similarity := CosineSimilarity(phraseToken.Vector, docToken.Vector)
	if similarity <= embeddingThreshold(s.cfg, sp) {
		return nil
	}
	return &Comparison{
		Kind:             model.MatchKindEmbedding,
		Similarity:       similarity,
		SearchPhraseWord: strings.ToLower(phraseToken.Lemma),
		DocumentWord:     strings.ToLower(docToken.Lemma),
	}
}

// entityEmbeddingStrategy compares the search phrase word's vector against
// the canonical vector of the candidate's recognized entity type.
type entityEmbeddingStrategy struct {
	cfg *model.Config
}

func (s *entityEmbeddingStrategy) Kind() model.MatchKind { return model.MatchKindEntityEmbedding }

func (s *entityEmbeddingStrategy) Compare(sp *model.SearchPhrase, phraseIndex int, doc *model.Document, unit model.Index) *Comparison {
	phraseToken := sp.Doc.Token(phraseIndex)
	if phraseToken.IsEntityPlaceholder() || unit.IsSubword() || !phraseToken.HasVector() {
		return nil
	}
	docToken := doc.Token(unit.Token)
	if docToken == nil || docToken.EntityType == "" {
		return nil
	}
	canonical, ok := s.cfg.EntityVectors[docToken.EntityType]
	if !ok {
		return nil
	}
	similarity := CosineSimilarity(phraseToken.Vector, canonical)
	if similarity <= embeddingThreshold(s.cfg, sp) {
		return nil
	}
	return &Comparison{
		Kind:             model.MatchKindEntityEmbedding,
		Similarity:       similarity,
		SearchPhraseWord: strings.ToLower(phraseToken.Lemma),
		DocumentWord:     strings.ToLower(docToken.Lemma),
	}
}

// questionCategory lists the answer categories an interrogative pronoun
// accepts.
type questionCategory struct {
	entityTypes map[string]bool
	pos         map[string]bool
}

var questionCategories = map[string]questionCategory{
	"who":   {entityTypes: map[string]bool{"PERSON": true}},
	"whom":  {entityTypes: map[string]bool{"PERSON": true}},
	"whose": {entityTypes: map[string]bool{"PERSON": true, "ORG": true}},
	"what":  {pos: map[string]bool{"NOUN": true, "PROPN": true}},
	"which": {pos: map[string]bool{"NOUN": true, "PROPN": true}},
	"where": {entityTypes: map[string]bool{"LOC": true, "GPE": true, "FAC": true}},
	"when":  {entityTypes: map[string]bool{"DATE": true, "TIME": true}},
}

// questionStrategy matches an initial interrogative pronoun of a question
// form search phrase against any answering phrase of the appropriate
// category, absorbing contiguous same-category neighbors into the answer
// span.
type questionStrategy struct{}

func (s *questionStrategy) Kind() model.MatchKind { return model.MatchKindQuestion }

func (s *questionStrategy) Compare(sp *model.SearchPhrase, phraseIndex int, doc *model.Document, unit model.Index) *Comparison {
	if !sp.QuestionForm || unit.IsSubword() {
		return nil
	}
	phraseToken := sp.Doc.Token(phraseIndex)
	category, ok := questionCategories[strings.ToLower(phraseToken.Lemma)]
	if !ok {
		return nil
	}
	docToken := doc.Token(unit.Token)
	if docToken == nil {
		return nil
	}

	var span []int
	switch {
	case docToken.EntityType != "" && category.entityTypes[docToken.EntityType]:
		span = EntitySpan(doc, unit.Token)
	case category.pos[docToken.Pos]:
		span = samePosRun(doc, unit.Token)
	default:
		return nil
	}

	comparison := &Comparison{
		Kind:             model.MatchKindQuestion,
		Similarity:       1.0,
		SearchPhraseWord: strings.ToLower(phraseToken.Lemma),
		DocumentWord:     strings.ToLower(docToken.Text),
	}
	if len(span) > 1 {
		comparison.Span = span
		comparison.DocumentWord = makeSpan(doc, span).Text
	}
	return comparison
}

// samePosRun returns the contiguous run of tokens around position i sharing
// its coarse category.
func samePosRun(doc *model.Document, i int) []int {
	pos := doc.Token(i).Pos
	start := i
	for start > 0 && doc.Token(start-1).Pos == pos {
		start--
	}
	end := i
	for end < len(doc.Tokens)-1 && doc.Token(end+1).Pos == pos {
		end++
	}
	indexes := make([]int, 0, end-start+1)
	for index := start; index <= end; index++ {
		indexes = append(indexes, index)
	}
	return indexes
}
