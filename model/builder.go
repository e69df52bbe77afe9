package model

// nonMatchablePos lists the closed word classes whose tokens do not take
// part in matching by default.
var nonMatchablePos = map[string]bool{
	"PRON":  true,
	"DET":   true,
	"ADP":   true,
	"AUX":   true,
	"CCONJ": true,
	"SCONJ": true,
	"PART":  true,
	"PUNCT": true,
}

// DocumentBuilder assembles a token graph by hand. It exists for front ends,
// examples and tests; production documents normally arrive pre-parsed.
type DocumentBuilder struct {
	label  string
	tokens []*Token
}

// NewDocumentBuilder creates a builder for a document with the given label.
func NewDocumentBuilder(label string) *DocumentBuilder {
	return &DocumentBuilder{label: label}
}

// AddToken appends a token and returns it for further adjustment. Matchability
// defaults to the word class: open class words are matchable, closed class
// words are not.
func (b *DocumentBuilder) AddToken(text, lemma, pos string) *Token {
	token := &Token{
		Index:     len(b.tokens),
		Text:      text,
		Lemma:     lemma,
		Pos:       pos,
		Matchable: !nonMatchablePos[pos],
	}
	b.tokens = append(b.tokens, token)
	return token
}

// Link records a dependency from parent to child under the given label,
// maintaining both directions of the relation.
func (b *DocumentBuilder) Link(parent, child int, label string) *DocumentBuilder {
	return b.link(parent, child, label, false)
}

// LinkUncertain records an uncertain dependency, e.g. one inside a
// conditional or speculative clause.
func (b *DocumentBuilder) LinkUncertain(parent, child int, label string) *DocumentBuilder {
	return b.link(parent, child, label, true)
}

func (b *DocumentBuilder) link(parent, child int, label string, uncertain bool) *DocumentBuilder {
	if parent < 0 || parent >= len(b.tokens) || child < 0 || child >= len(b.tokens) {
		return b
	}
	b.tokens[parent].Children = append(b.tokens[parent].Children, Relation{Label: label, Index: child, Uncertain: uncertain})
	b.tokens[child].Parents = append(b.tokens[child].Parents, Relation{Label: label, Index: parent, Uncertain: uncertain})
	return b
}

// Build finalizes the document.
func (b *DocumentBuilder) Build() *Document {
	return NewDocument(b.label, b.tokens)
}
