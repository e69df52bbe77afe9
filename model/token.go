package model

import "strings"

// NoSubword marks an Index that addresses a whole token rather than a
// morphological component of it.
const NoSubword = -1

// Relation represents one labelled grammatical dependency between two tokens
// of the same document.
type Relation struct {
	Label     string `json:"label"`
	Index     int    `json:"index"`
	Uncertain bool   `json:"uncertain,omitempty"`
}

// Subword represents a morphological unit inside a compound token, e.g. the
// components of a German compound noun. Dependent and Governor point at
// sibling subword positions within the same compound, or NoSubword.
type Subword struct {
	Text            string `json:"text"`
	Lemma           string `json:"lemma"`
	DerivedLemma    string `json:"derived_lemma,omitempty"`
	Position        int    `json:"position"`
	ContainingIndex int    `json:"containing_index"`
	Dependent       int    `json:"dependent"`
	Governor        int    `json:"governor"`
	IsHead          bool   `json:"is_head"`
}

// Token represents one word occurrence in a parsed document. Tokens are
// produced by an external linguistic front end and are immutable for the
// lifetime of their document.
type Token struct {
	Index        int        `json:"index"`
	Text         string     `json:"text"`
	Lemma        string     `json:"lemma"`
	DerivedLemma string     `json:"derived_lemma,omitempty"`
	Pos          string     `json:"pos"`
	Matchable    bool       `json:"matchable"`
	Negated      bool       `json:"negated,omitempty"`
	Uncertain    bool       `json:"uncertain,omitempty"`
	Vector       []float32  `json:"vector,omitempty"`
	EntityType   string     `json:"entity_type,omitempty"`
	Children     []Relation `json:"children,omitempty"`
	Parents      []Relation `json:"parents,omitempty"`
	Subwords     []Subword  `json:"subwords,omitempty"`
	Coreferents  []int      `json:"coreferents,omitempty"`
}

// entityPlaceholderPrefix marks search phrase tokens that stand for "any word
// recognized as entity type T", e.g. "ENTITYPERSON".
const entityPlaceholderPrefix = "ENTITY"

// IsEntityPlaceholder reports whether the token is a search phrase entity
// placeholder rather than a concrete word.
func (t *Token) IsEntityPlaceholder() bool {
	return strings.HasPrefix(t.Text, entityPlaceholderPrefix) &&
		len(t.Text) > len(entityPlaceholderPrefix) &&
		t.Text == strings.ToUpper(t.Text)
}

// PlaceholderType returns the entity type a placeholder token stands for, or
// an empty string for concrete words.
func (t *Token) PlaceholderType() string {
	if !t.IsEntityPlaceholder() {
		return ""
	}
	return t.Text[len(entityPlaceholderPrefix):]
}

// HasVector reports whether a semantic vector is available for the token.
func (t *Token) HasVector() bool {
	return len(t.Vector) > 0
}

// Index locates a matchable unit within a document: a token, or one subword
// of a compound token.
type Index struct {
	Token   int `json:"token"`
	Subword int `json:"subword"`
}

// WholeToken returns an Index addressing token i as a whole.
func WholeToken(i int) Index {
	return Index{Token: i, Subword: NoSubword}
}

// Equal reports whether both locators address the same unit.
func (i Index) Equal(other Index) bool {
	return i.Token == other.Token && i.Subword == other.Subword
}

// IsSubword reports whether the locator addresses a subword rather than a
// whole token.
func (i Index) IsSubword() bool {
	return i.Subword != NoSubword
}
