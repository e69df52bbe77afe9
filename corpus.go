package holmes

import (
	"log/slog"
	"os"
	"time"

	"github.com/msg-systems/holmes-extractor-sub002/database"
	"github.com/msg-systems/holmes-extractor-sub002/helper"
	"github.com/msg-systems/holmes-extractor-sub002/model"
	"github.com/msg-systems/holmes-extractor-sub002/storage"
	loadSql "github.com/msg-systems/holmes-extractor-sub002/sql"
)

// loadPageSize is the keyset pagination page size used when reopening a
// stored corpus.
const loadPageSize = 200

// Corpus is the persistent variant of the matching facade. Registrations go
// to both the in-memory manager and the database, so a corpus survives
// restarts; reopening it loads every stored document and search phrase back
// into the manager.
type Corpus struct {
	DB            *helper.Database
	Documents     *database.DocumentsDBHandler
	SearchPhrases *database.SearchPhrasesDBHandler
	Manager       *Manager
	// Logging
	log *slog.Logger
}

// NewCorpus opens a persistent corpus, creating the schema on first use and
// loading all stored documents and search phrases into the manager. The
// embedding dimension fixes the width of the stored mean vectors.
func NewCorpus(dbConfig *helper.DatabaseConfiguration, cfg *model.Config, ontology *model.Ontology, embeddingDim int) (*Corpus, error) {
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	db := helper.NewDatabase("holmes", dbConfig, logger)
	err := loadSql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}

	documents, err := database.NewDocumentsDBHandler(db, embeddingDim, false)
	if err != nil {
		return nil, helper.NewError("create documents handler", err)
	}

	searchPhrases, err := database.NewSearchPhrasesDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create search phrases handler", err)
	}

	manager, err := NewManager(cfg, ontology)
	if err != nil {
		return nil, helper.NewError("create manager", err)
	}

	corpus := &Corpus{
		DB:            db,
		Documents:     documents,
		SearchPhrases: searchPhrases,
		Manager:       manager,
		log:           logger,
	}

	if err := corpus.load(); err != nil {
		return nil, helper.NewError("load stored corpus", err)
	}

	return corpus, nil
}

// Close closes the database connection.
func (c *Corpus) Close() error {
	if c.DB != nil && c.DB.Instance != nil {
		return c.DB.Instance.Close()
	}
	return nil
}

// load replays the stored corpus into the in-memory manager.
func (c *Corpus) load() error {
	phraseRecords, err := c.SearchPhrases.SelectAllSearchPhrases()
	if err != nil {
		return err
	}
	for _, record := range phraseRecords {
		if err := c.Manager.RegisterSerializedSearchPhrase(record.Payload); err != nil {
			return err
		}
	}

	var lastCreatedAt *time.Time
	for {
		records, err := c.Documents.SelectAllDocuments(lastCreatedAt, loadPageSize)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			break
		}
		for _, record := range records {
			if err := c.Manager.RegisterSerializedDocument(record.Payload); err != nil {
				return err
			}
		}
		createdAt := records[len(records)-1].CreatedAt
		lastCreatedAt = &createdAt
	}

	c.log.Info("Loaded stored corpus",
		slog.Int("search_phrases", len(phraseRecords)),
		slog.Int("documents", len(c.Manager.DocumentLabels())))
	return nil
}

// RegisterDocument registers a parsed document in the manager and persists
// it.
func (c *Corpus) RegisterDocument(doc *model.Document) error {
	if err := c.Manager.RegisterDocument(doc); err != nil {
		return err
	}

	payload, err := storage.MarshalDocument(doc, c.Manager.Config().ModelName)
	if err != nil {
		return helper.NewError("serialize document", err)
	}
	record := &model.DocumentRecord{
		Label:      doc.Label,
		ModelName:  c.Manager.Config().ModelName,
		Payload:    payload,
		MeanVector: doc.AverageVector(),
		TokenCount: len(doc.Tokens),
		Metadata:   doc.Metadata,
	}
	if err := c.Documents.InsertDocument(record); err != nil {
		// Keep memory and database consistent.
		_ = c.Manager.RemoveDocument(doc.Label)
		return err
	}
	return nil
}

// RegisterSearchPhrase compiles, registers and persists a search phrase.
func (c *Corpus) RegisterSearchPhrase(label string, doc *model.Document, opts ...model.SearchPhraseOption) (*model.SearchPhrase, error) {
	sp, err := c.Manager.RegisterSearchPhrase(label, doc, opts...)
	if err != nil {
		return nil, err
	}

	payload, err := storage.MarshalSearchPhrase(sp, c.Manager.Config().ModelName)
	if err != nil {
		return nil, helper.NewError("serialize search phrase", err)
	}
	record := &model.SearchPhraseRecord{
		Label:     label,
		ModelName: c.Manager.Config().ModelName,
		Payload:   payload,
	}
	if err := c.SearchPhrases.InsertSearchPhrase(record); err != nil {
		return nil, err
	}
	return sp, nil
}

// RemoveDocument withdraws a document from the manager and the database.
func (c *Corpus) RemoveDocument(label string) error {
	if err := c.Manager.RemoveDocument(label); err != nil {
		return err
	}
	return c.Documents.DeleteDocumentByLabel(label)
}

// MatchAll matches every search phrase against the whole corpus.
func (c *Corpus) MatchAll() []*model.Match {
	return c.Manager.MatchAll()
}

// MatchSimilarDocuments shortlists documents whose mean vector resembles the
// query vector and matches every search phrase against the shortlist only.
// On large corpora this trades a vector index scan for full corpus
// traversal.
func (c *Corpus) MatchSimilarDocuments(queryVector []float32, limit int, threshold float64) ([]*model.Match, error) {
	records, err := c.Documents.SelectDocumentsBySimilarity(queryVector, limit, threshold)
	if err != nil {
		return nil, err
	}

	var matches []*model.Match
	for _, record := range records {
		documentMatches, err := c.Manager.MatchDocument(record.Label)
		if err != nil {
			return nil, err
		}
		matches = append(matches, documentMatches...)
	}
	model.SortMatches(matches)
	return matches, nil
}
