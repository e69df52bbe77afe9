package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msg-systems/holmes-extractor-sub002/model"
)

const testEmbeddingDim = 3

func newDocumentRecord(label string, meanVector []float32) *model.DocumentRecord {
	return &model.DocumentRecord{
		Label:      label,
		ModelName:  "all-MiniLM-L6-v2",
		Payload:    []byte(`{"format_version":1}`),
		MeanVector: meanVector,
		TokenCount: 5,
		Metadata:   model.Metadata{"source": "intake", "year": 2024},
	}
}

func TestDocumentsNewDocumentsDBHandler(t *testing.T) {
	database := initDB(t)

	t.Run("Valid call NewDocumentsDBHandler", func(t *testing.T) {
		documentsDbHandler, err := NewDocumentsDBHandler(database, testEmbeddingDim, true)
		assert.NoError(t, err, "Expected NewDocumentsDBHandler to not return an error")
		require.NotNil(t, documentsDbHandler, "Expected NewDocumentsDBHandler to return a non-nil instance")
		require.NotNil(t, documentsDbHandler.db, "Expected NewDocumentsDBHandler to have a non-nil database instance")
		require.NotNil(t, documentsDbHandler.db.Instance, "Expected NewDocumentsDBHandler to have a non-nil database connection instance")
	})

	t.Run("Invalid call NewDocumentsDBHandler with nil database", func(t *testing.T) {
		_, err := NewDocumentsDBHandler(nil, testEmbeddingDim, false)
		assert.Error(t, err, "Expected error when creating DocumentsDBHandler with nil database")
		assert.Contains(t, err.Error(), "database connection is nil", "Expected specific error message for nil database connection")
	})
}

func TestDocumentsInsert(t *testing.T) {
	database := initDB(t)

	documentsDbHandler, err := NewDocumentsDBHandler(database, testEmbeddingDim, true)
	require.NoError(t, err, "Expected NewDocumentsDBHandler to not return an error")

	t.Run("Insert document", func(t *testing.T) {
		record := newDocumentRecord("insert document", []float32{0.1, 0.2, 0.3})

		err := documentsDbHandler.InsertDocument(record)
		assert.NoError(t, err, "Expected Insert to not return an error")
		assert.NotEmpty(t, record.RID, "Expected inserted document to have a RID")
		assert.WithinDuration(t, record.CreatedAt, time.Now(), 2*time.Second, "Expected CreatedAt to be set")
		assert.WithinDuration(t, record.UpdatedAt, time.Now(), 2*time.Second, "Expected UpdatedAt to be set")
		assert.Equal(t, "insert document", record.Label, "Expected label to match")
		assert.Equal(t, []float32{0.1, 0.2, 0.3}, record.MeanVector, "Expected mean vector to survive")

		// Cleanup
		documentsDbHandler.DeleteDocumentByLabel(record.Label)
	})

	t.Run("Insert document without mean vector", func(t *testing.T) {
		record := newDocumentRecord("insert without vector", nil)

		err := documentsDbHandler.InsertDocument(record)
		assert.NoError(t, err, "Expected Insert to not return an error")
		assert.Empty(t, record.MeanVector, "Expected no mean vector")

		// Cleanup
		documentsDbHandler.DeleteDocumentByLabel(record.Label)
	})

	t.Run("Insert document with duplicate label", func(t *testing.T) {
		record := newDocumentRecord("duplicate label", nil)
		err := documentsDbHandler.InsertDocument(record)
		require.NoError(t, err, "Expected the first insert to not return an error")

		err = documentsDbHandler.InsertDocument(newDocumentRecord("duplicate label", nil))
		assert.Error(t, err, "Expected an error for a duplicate label")

		// Cleanup
		documentsDbHandler.DeleteDocumentByLabel(record.Label)
	})
}

func TestDocumentsSelectByLabel(t *testing.T) {
	database := initDB(t)

	documentsDbHandler, err := NewDocumentsDBHandler(database, testEmbeddingDim, true)
	require.NoError(t, err)

	record := newDocumentRecord("select by label", []float32{0.5, 0.5, 0})
	err = documentsDbHandler.InsertDocument(record)
	require.NoError(t, err)
	defer documentsDbHandler.DeleteDocumentByLabel(record.Label)

	t.Run("Select existing document", func(t *testing.T) {
		found, err := documentsDbHandler.SelectDocumentByLabel("select by label")
		assert.NoError(t, err, "Expected Select to not return an error")
		require.NotNil(t, found, "Expected a non-nil record")
		assert.Equal(t, record.RID, found.RID, "Expected the same RID")
		assert.Equal(t, record.Payload, found.Payload, "Expected the payload to survive")
		assert.Equal(t, []float32{0.5, 0.5, 0}, found.MeanVector, "Expected the mean vector to survive")
		assert.Equal(t, "intake", found.Metadata["source"], "Expected the metadata to survive")
	})

	t.Run("Select nonexistent document", func(t *testing.T) {
		_, err := documentsDbHandler.SelectDocumentByLabel("missing")
		assert.ErrorIs(t, err, model.ErrUnknownDocumentLabel, "Expected ErrUnknownDocumentLabel for a missing label")
	})
}

func TestDocumentsSelectAll(t *testing.T) {
	database := initDB(t)

	documentsDbHandler, err := NewDocumentsDBHandler(database, testEmbeddingDim, true)
	require.NoError(t, err)

	labels := []string{"page one", "page two", "page three", "page four"}
	for _, label := range labels {
		err = documentsDbHandler.InsertDocument(newDocumentRecord(label, nil))
		require.NoError(t, err)
	}
	defer func() {
		for _, label := range labels {
			documentsDbHandler.DeleteDocumentByLabel(label)
		}
	}()

	t.Run("Select all documents paginated", func(t *testing.T) {
		firstPage, err := documentsDbHandler.SelectAllDocuments(nil, 3)
		assert.NoError(t, err, "Expected Select to not return an error")
		require.Len(t, firstPage, 3, "Expected a full first page")

		lastCreatedAt := firstPage[len(firstPage)-1].CreatedAt
		secondPage, err := documentsDbHandler.SelectAllDocuments(&lastCreatedAt, 3)
		assert.NoError(t, err, "Expected Select to not return an error")
		require.Len(t, secondPage, 1, "Expected the remainder on the second page")
		assert.NotEqual(t, firstPage[0].RID, secondPage[0].RID, "Expected distinct records across pages")
	})

	t.Run("Select all with large limit", func(t *testing.T) {
		all, err := documentsDbHandler.SelectAllDocuments(nil, 100)
		assert.NoError(t, err, "Expected Select to not return an error")
		assert.Len(t, all, 4, "Expected every document")
	})
}

func TestDocumentsSelectBySimilarity(t *testing.T) {
	database := initDB(t)

	documentsDbHandler, err := NewDocumentsDBHandler(database, testEmbeddingDim, true)
	require.NoError(t, err)

	near := newDocumentRecord("near document", []float32{1, 0, 0})
	far := newDocumentRecord("far document", []float32{0, 1, 0})
	unvectored := newDocumentRecord("unvectored document", nil)
	for _, record := range []*model.DocumentRecord{near, far, unvectored} {
		err = documentsDbHandler.InsertDocument(record)
		require.NoError(t, err)
	}
	defer func() {
		for _, label := range []string{near.Label, far.Label, unvectored.Label} {
			documentsDbHandler.DeleteDocumentByLabel(label)
		}
	}()

	t.Run("Similar documents come first", func(t *testing.T) {
		results, err := documentsDbHandler.SelectDocumentsBySimilarity([]float32{1, 0.1, 0}, 10, 0)
		assert.NoError(t, err, "Expected Select to not return an error")
		require.NotEmpty(t, results, "Expected at least one shortlisted document")
		assert.Equal(t, "near document", results[0].Label, "Expected the nearest document first")
		require.NotNil(t, results[0].Similarity, "Expected a similarity value")
		assert.Greater(t, *results[0].Similarity, 0.9, "Expected a high similarity for the nearest document")
	})

	t.Run("Threshold filters dissimilar documents", func(t *testing.T) {
		results, err := documentsDbHandler.SelectDocumentsBySimilarity([]float32{1, 0, 0}, 10, 0.9)
		assert.NoError(t, err, "Expected Select to not return an error")
		require.Len(t, results, 1, "Expected only the near document above the threshold")
		assert.Equal(t, "near document", results[0].Label, "Expected the near document")
	})

	t.Run("Documents without a mean vector are excluded", func(t *testing.T) {
		results, err := documentsDbHandler.SelectDocumentsBySimilarity([]float32{1, 0, 0}, 10, 0)
		assert.NoError(t, err, "Expected Select to not return an error")
		for _, record := range results {
			assert.NotEqual(t, "unvectored document", record.Label, "Expected unvectored documents to be excluded")
		}
	})
}

func TestDocumentsDelete(t *testing.T) {
	database := initDB(t)

	documentsDbHandler, err := NewDocumentsDBHandler(database, testEmbeddingDim, true)
	require.NoError(t, err)

	t.Run("Delete existing document", func(t *testing.T) {
		record := newDocumentRecord("delete me", nil)
		err = documentsDbHandler.InsertDocument(record)
		require.NoError(t, err)

		err = documentsDbHandler.DeleteDocumentByLabel(record.Label)
		assert.NoError(t, err, "Expected Delete to not return an error")

		_, err = documentsDbHandler.SelectDocumentByLabel(record.Label)
		assert.ErrorIs(t, err, model.ErrUnknownDocumentLabel, "Expected the document to be gone")
	})

	t.Run("Delete nonexistent document", func(t *testing.T) {
		err := documentsDbHandler.DeleteDocumentByLabel("never existed")
		assert.NoError(t, err, "Expected Delete of a missing label to be a no-op")
	})
}
