package sql

import (
	"context"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msg-systems/holmes-extractor-sub002/helper"
)

var dbPort string

func TestMain(m *testing.M) {
	teardown, port, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("error starting postgres container: %v", err)
	}
	dbPort = port

	m.Run()

	if teardown != nil && teardown(context.Background()) != nil {
		log.Fatalf("error tearing down postgres container: %v", err)
	}
}

// initDB opens a fresh connection to the shared container and prepares the
// extensions the corpus schema depends on.
func initDB(t *testing.T) *helper.Database {
	helper.SetTestDatabaseConfigEnvs(t, dbPort)
	dbConfig, err := helper.NewDatabaseConfiguration()
	require.NoError(t, err, "failed to create database configuration")
	database := helper.NewTestDatabase(dbConfig)

	require.NoError(t, Init(database.Instance), "failed to prepare extensions")

	return database
}

func TestFunctionInventory(t *testing.T) {
	t.Run("Documents inventory covers the corpus operations", func(t *testing.T) {
		assert.Contains(t, DocumentsFunctions, "insert_document", "Expected an insert function for documents")
		assert.Contains(t, DocumentsFunctions, "select_document_by_label", "Expected a label lookup for documents")
		assert.Contains(t, DocumentsFunctions, "select_documents_by_similarity", "Expected the mean vector shortlist to be a documents function")
		assert.Contains(t, DocumentsFunctions, "delete_document_by_label", "Expected a delete function for documents")
	})

	t.Run("Search phrase inventory has no similarity shortlist", func(t *testing.T) {
		assert.Contains(t, SearchPhrasesFunctions, "insert_search_phrase", "Expected an insert function for search phrases")
		assert.Contains(t, SearchPhrasesFunctions, "select_search_phrase_by_label", "Expected a label lookup for search phrases")
		assert.NotContains(t, SearchPhrasesFunctions, "select_search_phrases_by_similarity", "Search phrases are anchored by label, not by vector")
	})

	t.Run("Shortlist function is backed by the mean vector column", func(t *testing.T) {
		assert.Contains(t, documentsSQL, "mean_vector", "Expected the documents schema to carry the mean vector column")
		assert.Contains(t, documentsSQL, "jsonb", "Expected the serialized payload to be stored as jsonb")
	})
}
