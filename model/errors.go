package model

import "errors"

// Registration-time error kinds. Matching itself never fails; every condition
// below is surfaced when a document or search phrase is registered so that
// front ends can report the cause per kind.
var (
	// ErrNoMatchableWords indicates a search phrase without a single
	// matchable word, which leaves matching underconstrained.
	ErrNoMatchableWords = errors.New("search phrase has no matchable words")

	// ErrContainsNegation indicates a negated search phrase.
	ErrContainsNegation = errors.New("search phrase contains negation")

	// ErrContainsCoordination indicates a search phrase with a
	// conjunction, which would make the intended structure ambiguous.
	ErrContainsCoordination = errors.New("search phrase contains coordination")

	// ErrMultipleClauses indicates a search phrase spanning more than one
	// independent clause.
	ErrMultipleClauses = errors.New("search phrase spans multiple clauses")

	// ErrCorefPronoun indicates a search phrase pronoun that co-refers
	// with another noun of the same phrase.
	ErrCorefPronoun = errors.New("search phrase contains a co-referring pronoun")

	// ErrDuplicateDocumentLabel indicates a document label that is already
	// registered.
	ErrDuplicateDocumentLabel = errors.New("duplicate document label")

	// ErrDuplicateSearchPhraseLabel indicates a search phrase label that
	// is already registered.
	ErrDuplicateSearchPhraseLabel = errors.New("duplicate search phrase label")

	// ErrUnknownDocumentLabel indicates a lookup for a label that was
	// never registered or has been withdrawn.
	ErrUnknownDocumentLabel = errors.New("unknown document label")

	// ErrUnknownSearchPhraseLabel indicates a lookup for a search phrase
	// label that was never registered.
	ErrUnknownSearchPhraseLabel = errors.New("unknown search phrase label")

	// ErrThresholdOutOfRange indicates a similarity threshold outside (0,1].
	ErrThresholdOutOfRange = errors.New("similarity threshold out of range")

	// ErrModelVersionMismatch indicates a serialized document or search
	// phrase produced against a different or incompatible linguistic model.
	ErrModelVersionMismatch = errors.New("serialized data does not match the active linguistic model")
)
