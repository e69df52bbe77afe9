package holmes

import (
	"log/slog"
	"os"
	"sort"
	"sync"

	"github.com/msg-systems/holmes-extractor-sub002/core/matching"
	"github.com/msg-systems/holmes-extractor-sub002/core/pipeline"
	"github.com/msg-systems/holmes-extractor-sub002/helper"
	"github.com/msg-systems/holmes-extractor-sub002/model"
	"github.com/msg-systems/holmes-extractor-sub002/storage"
)

// Manager is the central registry and matching facade. Search phrases and
// documents are registered through it and matched against each other; all
// registered state is guarded by one reader writer lock, so any number of
// match calls may run concurrently while registrations are serialized.
type Manager struct {
	cfg      *model.Config
	ontology *model.Ontology
	matcher  *matching.Matcher
	embedder pipeline.EmbedFunc

	mu            sync.RWMutex
	documents     map[string]*model.Document
	phraseOrder   []string
	searchPhrases map[string]*model.SearchPhrase
	corpusIndex   map[string][]occurrence
	cacheMu       sync.Mutex
	anchorCache   map[string]map[string][]model.Index
	// Logging
	log *slog.Logger
}

// occurrence is one corpus index entry: a word position within a registered
// document.
type occurrence struct {
	DocumentLabel string
	Unit          model.Index
}

// NewManager creates a manager for the given configuration. The ontology may
// be nil to disable ontology based matching.
func NewManager(cfg *model.Config, ontology *model.Ontology) (*Manager, error) {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	return &Manager{
		cfg:           cfg,
		ontology:      ontology,
		matcher:       matching.NewMatcher(cfg, ontology),
		documents:     map[string]*model.Document{},
		searchPhrases: map[string]*model.SearchPhrase{},
		corpusIndex:   map[string][]occurrence{},
		anchorCache:   map[string]map[string][]model.Index{},
		log:           logger,
	}, nil
}

// UseDefaultEmbedder sets up word embedding with the model named in the
// configuration. Registered documents and search phrases then receive vectors
// automatically during registration.
func (m *Manager) UseDefaultEmbedder() error {
	embedder, err := pipeline.DefaultEmbedder(m.cfg.ModelName)
	if err != nil {
		return helper.NewError("create default embedder", err)
	}
	m.SetEmbedder(embedder)
	return nil
}

// SetEmbedder sets the word embedding function used during registration.
func (m *Manager) SetEmbedder(embedder pipeline.EmbedFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embedder = embedder
}

// RegisterSearchPhrase validates and compiles a parsed example sentence into
// a search phrase. Structural problems in the phrase surface here, never
// during matching.
func (m *Manager) RegisterSearchPhrase(label string, doc *model.Document, opts ...model.SearchPhraseOption) (*model.SearchPhrase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.searchPhrases[label]; exists {
		return nil, helper.NewError("register search phrase", model.ErrDuplicateSearchPhraseLabel)
	}
	if m.embedder != nil && doc != nil {
		if err := pipeline.AttachVectors(doc, m.embedder); err != nil {
			return nil, helper.NewError("embed search phrase", err)
		}
	}
	sp, err := model.NewSearchPhrase(label, doc, m.ontology, opts...)
	if err != nil {
		return nil, err
	}

	m.searchPhrases[label] = sp
	m.phraseOrder = append(m.phraseOrder, label)
	m.log.Info("Registered search phrase", slog.String("label", label), slog.Int("matchable_words", len(sp.MatchableIndexes)))
	return sp, nil
}

// RegisterCompiledSearchPhrase registers a search phrase that was already
// compiled and validated, e.g. one deserialized from a stored corpus.
func (m *Manager) RegisterCompiledSearchPhrase(sp *model.SearchPhrase) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.searchPhrases[sp.Label]; exists {
		return helper.NewError("register search phrase", model.ErrDuplicateSearchPhraseLabel)
	}
	m.searchPhrases[sp.Label] = sp
	m.phraseOrder = append(m.phraseOrder, sp.Label)
	return nil
}

// RegisterSerializedSearchPhrase registers a previously serialized compiled
// search phrase. Payloads produced with a different embedding model are
// rejected.
func (m *Manager) RegisterSerializedSearchPhrase(data []byte) error {
	sp, err := storage.UnmarshalSearchPhrase(data, m.cfg.ModelName)
	if err != nil {
		return helper.NewError("deserialize search phrase", err)
	}
	return m.RegisterCompiledSearchPhrase(sp)
}

// RemoveAllSearchPhrases clears the search phrase registry.
func (m *Manager) RemoveAllSearchPhrases() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchPhrases = map[string]*model.SearchPhrase{}
	m.phraseOrder = nil
	m.cacheMu.Lock()
	m.anchorCache = map[string]map[string][]model.Index{}
	m.cacheMu.Unlock()
}

// SearchPhraseLabels returns the labels of all registered search phrases in
// registration order.
func (m *Manager) SearchPhraseLabels() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	labels := make([]string, len(m.phraseOrder))
	copy(labels, m.phraseOrder)
	return labels
}

// RegisterDocument adds a parsed document to the corpus. The document label
// must be unique.
func (m *Manager) RegisterDocument(doc *model.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.registerDocumentLocked(doc)
}

func (m *Manager) registerDocumentLocked(doc *model.Document) error {
	if _, exists := m.documents[doc.Label]; exists {
		return helper.NewError("register document", model.ErrDuplicateDocumentLabel)
	}
	if m.embedder != nil {
		if err := pipeline.AttachVectors(doc, m.embedder); err != nil {
			return helper.NewError("embed document", err)
		}
	}

	m.documents[doc.Label] = doc
	for word, units := range doc.WordIndexes() {
		for _, unit := range units {
			m.corpusIndex[word] = append(m.corpusIndex[word], occurrence{DocumentLabel: doc.Label, Unit: unit})
		}
	}
	m.anchorCache = map[string]map[string][]model.Index{}
	m.log.Info("Registered document", slog.String("label", doc.Label), slog.Int("tokens", len(doc.Tokens)))
	return nil
}

// RegisterSerializedDocument adds a previously serialized document to the
// corpus. Payloads produced with a different embedding model are rejected.
func (m *Manager) RegisterSerializedDocument(data []byte) error {
	doc, err := storage.UnmarshalDocument(data, m.cfg.ModelName)
	if err != nil {
		return helper.NewError("deserialize document", err)
	}
	return m.RegisterDocument(doc)
}

// SerializeDocument serializes the registered document with the given label.
func (m *Manager) SerializeDocument(label string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, exists := m.documents[label]
	if !exists {
		return nil, helper.NewError("serialize document", model.ErrUnknownDocumentLabel)
	}
	return storage.MarshalDocument(doc, m.cfg.ModelName)
}

// RemoveDocument withdraws a document from the corpus.
func (m *Manager) RemoveDocument(label string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.documents[label]; !exists {
		return helper.NewError("remove document", model.ErrUnknownDocumentLabel)
	}
	delete(m.documents, label)
	for word, occurrences := range m.corpusIndex {
		remaining := occurrences[:0]
		for _, occ := range occurrences {
			if occ.DocumentLabel != label {
				remaining = append(remaining, occ)
			}
		}
		if len(remaining) == 0 {
			delete(m.corpusIndex, word)
		} else {
			m.corpusIndex[word] = remaining
		}
	}
	m.anchorCache = map[string]map[string][]model.Index{}
	m.log.Info("Removed document", slog.String("label", label))
	return nil
}

// RemoveAllDocuments clears the corpus.
func (m *Manager) RemoveAllDocuments() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents = map[string]*model.Document{}
	m.corpusIndex = map[string][]occurrence{}
	m.anchorCache = map[string]map[string][]model.Index{}
}

// DocumentLabels returns the labels of all registered documents in ascending
// order.
func (m *Manager) DocumentLabels() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	labels := make([]string, 0, len(m.documents))
	for label := range m.documents {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Document returns the registered document with the given label, or nil.
func (m *Manager) Document(label string) *model.Document {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.documents[label]
}

// MatchAll matches every registered search phrase against every registered
// document and returns the accepted matches ordered by descending similarity.
// Matching never fails; structural problems were already rejected at
// registration time.
func (m *Manager) MatchAll() []*model.Match {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matches []*model.Match
	for _, label := range m.phraseOrder {
		matches = append(matches, m.matchPhraseLocked(m.searchPhrases[label], "")...)
	}
	model.SortMatches(matches)
	return matches
}

// MatchDocument matches every registered search phrase against one document.
func (m *Manager) MatchDocument(label string) ([]*model.Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, exists := m.documents[label]; !exists {
		return nil, helper.NewError("match document", model.ErrUnknownDocumentLabel)
	}
	var matches []*model.Match
	for _, phraseLabel := range m.phraseOrder {
		matches = append(matches, m.matchPhraseLocked(m.searchPhrases[phraseLabel], label)...)
	}
	model.SortMatches(matches)
	return matches, nil
}

// MatchSearchPhrase matches one registered search phrase against the whole
// corpus.
func (m *Manager) MatchSearchPhrase(label string) ([]*model.Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sp, exists := m.searchPhrases[label]
	if !exists {
		return nil, helper.NewError("match search phrase", model.ErrUnknownSearchPhraseLabel)
	}
	matches := m.matchPhraseLocked(sp, "")
	model.SortMatches(matches)
	return matches, nil
}

// matchPhraseLocked matches one search phrase against the corpus, or against
// a single document when documentLabel is non-empty. Callers hold at least
// the read lock.
func (m *Manager) matchPhraseLocked(sp *model.SearchPhrase, documentLabel string) []*model.Match {
	var matches []*model.Match
	if m.useCorpusIndexFastPath(sp) {
		for _, occ := range m.indexedAnchors(sp) {
			if documentLabel != "" && occ.DocumentLabel != documentLabel {
				continue
			}
			doc := m.documents[occ.DocumentLabel]
			matches = append(matches, m.matcher.MatchAnchor(sp, doc, occ.Unit)...)
		}
		return matches
	}

	for _, label := range m.sortedDocumentLabels() {
		if documentLabel != "" && label != documentLabel {
			continue
		}
		doc := m.documents[label]
		for _, anchor := range m.anchorUnits(sp, doc) {
			matches = append(matches, m.matcher.MatchAnchor(sp, doc, anchor)...)
		}
	}
	return matches
}

// useCorpusIndexFastPath reports whether the phrase can be matched purely
// through the corpus index: a single matchable word whose anchors are fully
// enumerable by surface form lookup.
func (m *Manager) useCorpusIndexFastPath(sp *model.SearchPhrase) bool {
	if !sp.SingleMatchable || sp.ReverseOnly {
		return false
	}
	root := sp.Root()
	if root.IsEntityPlaceholder() {
		return false
	}
	if m.cfg.EmbeddingBasedMatching && root.HasVector() {
		return false
	}
	return true
}

// indexedAnchors enumerates anchor positions for the phrase root through the
// corpus index, deduplicated across the root's expansion forms.
func (m *Manager) indexedAnchors(sp *model.SearchPhrase) []occurrence {
	seen := make(map[occurrence]bool)
	var anchors []occurrence
	for _, form := range sp.RootExpansions {
		for _, occ := range m.corpusIndex[form] {
			if !seen[occ] {
				seen[occ] = true
				anchors = append(anchors, occ)
			}
		}
	}
	return anchors
}

// anchorUnits determines the document positions at which the search phrase
// root may be anchored. Surface form hits come from the document word index;
// when the root carries a vector or is an entity placeholder every token has
// to be probed through the comparator instead, with the probe results cached
// per root until the corpus changes.
func (m *Manager) anchorUnits(sp *model.SearchPhrase, doc *model.Document) []model.Index {
	if sp.ReverseOnly {
		anchors := make([]model.Index, len(doc.Tokens))
		for i := range doc.Tokens {
			anchors[i] = model.WholeToken(i)
		}
		return anchors
	}

	seen := make(map[model.Index]bool)
	var anchors []model.Index
	add := func(unit model.Index) {
		if !seen[unit] {
			seen[unit] = true
			anchors = append(anchors, unit)
		}
	}

	wordIndexes := doc.WordIndexes()
	for _, form := range sp.RootExpansions {
		for _, unit := range wordIndexes[form] {
			add(unit)
		}
	}

	root := sp.Root()
	needsScan := root.IsEntityPlaceholder() || sp.QuestionForm ||
		(m.cfg.EmbeddingBasedMatching && root.HasVector())
	if needsScan {
		for _, unit := range m.scannedAnchors(sp, doc) {
			add(unit)
		}
	}
	return anchors
}

// scannedAnchors probes every token of the document against the phrase root
// and caches the hits. The cache key is the phrase label, the cache is
// dropped whenever a document is registered or removed.
func (m *Manager) scannedAnchors(sp *model.SearchPhrase, doc *model.Document) []model.Index {
	m.cacheMu.Lock()
	if byDoc, ok := m.anchorCache[sp.Label]; ok {
		if units, ok := byDoc[doc.Label]; ok {
			m.cacheMu.Unlock()
			return units
		}
	}
	m.cacheMu.Unlock()

	var units []model.Index
	for i := range doc.Tokens {
		if m.matcher.Compare(sp, sp.RootIndex, doc, model.WholeToken(i)) != nil {
			units = append(units, model.WholeToken(i))
		}
	}

	m.cacheAnchors(sp.Label, doc.Label, units)
	return units
}

func (m *Manager) cacheAnchors(phraseLabel, documentLabel string, units []model.Index) {
	m.cacheMu.Lock()
	defer m.cacheMu.Unlock()
	byDoc, ok := m.anchorCache[phraseLabel]
	if !ok {
		byDoc = map[string][]model.Index{}
		m.anchorCache[phraseLabel] = byDoc
	}
	byDoc[documentLabel] = units
}

func (m *Manager) sortedDocumentLabels() []string {
	labels := make([]string, 0, len(m.documents))
	for label := range m.documents {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Config returns the active configuration.
func (m *Manager) Config() *model.Config {
	return m.cfg
}
