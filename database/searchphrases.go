package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/msg-systems/holmes-extractor-sub002/helper"
	"github.com/msg-systems/holmes-extractor-sub002/model"
	loadSql "github.com/msg-systems/holmes-extractor-sub002/sql"
)

// SearchPhrasesDBHandlerFunctions defines the interface for search phrase
// database operations.
type SearchPhrasesDBHandlerFunctions interface {
	InsertSearchPhrase(record *model.SearchPhraseRecord) error
	SelectSearchPhraseByLabel(label string) (*model.SearchPhraseRecord, error)
	SelectAllSearchPhrases() ([]*model.SearchPhraseRecord, error)
	DeleteSearchPhraseByLabel(label string) error
}

// SearchPhrasesDBHandler handles persisted compiled search phrases.
type SearchPhrasesDBHandler struct {
	db *helper.Database
}

// NewSearchPhrasesDBHandler creates a new search phrases database handler.
// If force is true, it will reload the SQL functions even if they already exist.
func NewSearchPhrasesDBHandler(db *helper.Database, force bool) (*SearchPhrasesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	searchPhrasesDbHandler := &SearchPhrasesDBHandler{
		db: db,
	}

	err := loadSql.LoadSearchPhrasesSql(searchPhrasesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load search phrases sql", err)
	}

	err = searchPhrasesDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized SearchPhrasesDBHandler")

	return searchPhrasesDbHandler, nil
}

// CreateTable creates the 'search_phrases' table in the database.
// If the table already exists, it does not create it again.
func (h *SearchPhrasesDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_search_phrases();`)
	if err != nil {
		return helper.NewError("initialize search phrases table", err)
	}

	h.db.Logger.Info("Checked/created table search_phrases")

	return nil
}

// InsertSearchPhrase inserts a new search phrase record.
func (h *SearchPhrasesDBHandler) InsertSearchPhrase(record *model.SearchPhraseRecord) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_search_phrase($1, $2, $3)`,
		record.Label,
		record.ModelName,
		record.Payload,
	)

	err := row.Scan(
		&record.ID,
		&record.RID,
		&record.Label,
		&record.ModelName,
		&record.Payload,
		&record.CreatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectSearchPhraseByLabel retrieves a search phrase record by its label.
func (h *SearchPhrasesDBHandler) SelectSearchPhraseByLabel(label string) (*model.SearchPhraseRecord, error) {
	record := &model.SearchPhraseRecord{}
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_search_phrase_by_label($1)`,
		label,
	)

	err := row.Scan(
		&record.ID,
		&record.RID,
		&record.Label,
		&record.ModelName,
		&record.Payload,
		&record.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, helper.NewError("select search phrase", model.ErrUnknownSearchPhraseLabel)
	} else if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return record, nil
}

// SelectAllSearchPhrases retrieves all search phrase records in registration
// order.
func (h *SearchPhrasesDBHandler) SelectAllSearchPhrases() ([]*model.SearchPhraseRecord, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_all_search_phrases()`,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var results []*model.SearchPhraseRecord
	for rows.Next() {
		record := &model.SearchPhraseRecord{}
		err := rows.Scan(
			&record.ID,
			&record.RID,
			&record.Label,
			&record.ModelName,
			&record.Payload,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		results = append(results, record)
	}

	return results, nil
}

// DeleteSearchPhraseByLabel deletes a search phrase record by its label.
func (h *SearchPhrasesDBHandler) DeleteSearchPhraseByLabel(label string) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_search_phrase_by_label($1)`,
		label,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}

	return nil
}
