package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/msg-systems/holmes-extractor-sub002/helper"
	"github.com/msg-systems/holmes-extractor-sub002/model"
	loadSql "github.com/msg-systems/holmes-extractor-sub002/sql"
)

// DocumentsDBHandlerFunctions defines the interface for document corpus
// database operations.
type DocumentsDBHandlerFunctions interface {
	InsertDocument(record *model.DocumentRecord) error
	SelectDocumentByLabel(label string) (*model.DocumentRecord, error)
	SelectAllDocuments(lastCreatedAt *time.Time, limit int) ([]*model.DocumentRecord, error)
	SelectDocumentsBySimilarity(meanVector []float32, limit int, threshold float64) ([]*model.DocumentRecord, error)
	DeleteDocumentByLabel(label string) error
}

// DocumentsDBHandler handles the persisted document corpus.
type DocumentsDBHandler struct {
	db *helper.Database
}

// NewDocumentsDBHandler creates a new documents database handler.
// It loads the document-related SQL functions and creates the table.
// If force is true, it will reload the SQL functions even if they already exist.
func NewDocumentsDBHandler(db *helper.Database, embeddingDim int, force bool) (*DocumentsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	documentsDbHandler := &DocumentsDBHandler{
		db: db,
	}

	err := loadSql.LoadDocumentsSql(documentsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load documents sql", err)
	}

	err = documentsDbHandler.CreateTable(embeddingDim)
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized DocumentsDBHandler")

	return documentsDbHandler, nil
}

// CreateTable creates the 'documents' table in the database with a mean
// vector column of the given dimension. If the table already exists, it does
// not create it again.
func (h *DocumentsDBHandler) CreateTable(embeddingDim int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_documents($1);`, embeddingDim)
	if err != nil {
		return helper.NewError("initialize documents table", err)
	}

	h.db.Logger.Info("Checked/created table documents")

	return nil
}

// InsertDocument inserts a new document record.
func (h *DocumentsDBHandler) InsertDocument(record *model.DocumentRecord) error {
	var meanVector interface{}
	if len(record.MeanVector) > 0 {
		meanVector = pgvector.NewVector(record.MeanVector)
	}

	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_document($1, $2, $3, $4, $5, $6)`,
		record.Label,
		record.ModelName,
		record.Payload,
		meanVector,
		record.TokenCount,
		record.Metadata,
	)

	err := row.Scan(
		&record.ID,
		&record.RID,
		&record.Label,
		&record.ModelName,
		&record.Payload,
		pq.Array(&record.MeanVector),
		&record.TokenCount,
		&record.Metadata,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectDocumentByLabel retrieves a document record by its corpus label.
func (h *DocumentsDBHandler) SelectDocumentByLabel(label string) (*model.DocumentRecord, error) {
	record := &model.DocumentRecord{}
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_document_by_label($1)`,
		label,
	)

	err := row.Scan(
		&record.ID,
		&record.RID,
		&record.Label,
		&record.ModelName,
		&record.Payload,
		pq.Array(&record.MeanVector),
		&record.TokenCount,
		&record.Metadata,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, helper.NewError("select document", model.ErrUnknownDocumentLabel)
	} else if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return record, nil
}

// SelectAllDocuments retrieves document records with keyset pagination.
// Pass nil as lastCreatedAt to start from the beginning.
func (h *DocumentsDBHandler) SelectAllDocuments(lastCreatedAt *time.Time, limit int) ([]*model.DocumentRecord, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_all_documents($1, $2)`,
		lastCreatedAt,
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var results []*model.DocumentRecord
	for rows.Next() {
		record := &model.DocumentRecord{}
		err := rows.Scan(
			&record.ID,
			&record.RID,
			&record.Label,
			&record.ModelName,
			&record.Payload,
			pq.Array(&record.MeanVector),
			&record.TokenCount,
			&record.Metadata,
			&record.CreatedAt,
			&record.UpdatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		results = append(results, record)
	}

	return results, nil
}

// SelectDocumentsBySimilarity shortlists documents whose mean vector is
// cosine-similar to the given vector. Documents without a mean vector are
// never returned.
func (h *DocumentsDBHandler) SelectDocumentsBySimilarity(meanVector []float32, limit int, threshold float64) ([]*model.DocumentRecord, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_documents_by_similarity($1, $2, $3)`,
		pgvector.NewVector(meanVector),
		limit,
		threshold,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var results []*model.DocumentRecord
	for rows.Next() {
		record := &model.DocumentRecord{}
		err := rows.Scan(
			&record.ID,
			&record.RID,
			&record.Label,
			&record.ModelName,
			&record.Payload,
			pq.Array(&record.MeanVector),
			&record.TokenCount,
			&record.Metadata,
			&record.CreatedAt,
			&record.UpdatedAt,
			&record.Similarity,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		results = append(results, record)
	}

	return results, nil
}

// DeleteDocumentByLabel deletes a document record by its corpus label.
func (h *DocumentsDBHandler) DeleteDocumentByLabel(label string) error {
	res, err := h.db.Instance.Exec(
		`SELECT delete_document_by_label($1)`,
		label,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	_, err = res.RowsAffected()
	if err != nil {
		return helper.NewError("rows affected", err)
	}

	return nil
}
