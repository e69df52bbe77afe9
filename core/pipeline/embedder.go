package pipeline

import (
	"fmt"

	"github.com/knights-analytics/hugot"

	"github.com/msg-systems/holmes-extractor-sub002/helper"
	"github.com/msg-systems/holmes-extractor-sub002/model"
)

// EmbedFunc is a function that generates an embedding vector for a word.
type EmbedFunc func(word string) ([]float32, error)

// DefaultEmbedder creates an embedder backed by a real sentence transformer.
// Uses the all-MiniLM-L6-v2 model which produces 384-dimensional embeddings.
func DefaultEmbedder(modelName string) (EmbedFunc, error) {
	if modelName == "" {
		modelName = "sentence-transformers/all-MiniLM-L6-v2"
	}
	modelPath, err := helper.PrepareModel(modelName, "")
	if err != nil {
		return nil, err
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}

	config := hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "embedder-pipeline",
	}
	wordPipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("failed to create embedding pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("failed to create embedding pipeline: %w", err)
	}

	return func(word string) ([]float32, error) {
		result, err := wordPipeline.RunPipeline([]string{word})
		if err != nil {
			return nil, fmt.Errorf("failed to generate embedding: %w", err)
		}
		if len(result.Embeddings) == 0 {
			return nil, fmt.Errorf("no embedding generated")
		}
		return result.Embeddings[0], nil
	}, nil
}

// AttachVectors fills the vector of every open-class token in the document
// that does not carry one yet. Embedding failures for single words are not
// recoverable mid-document, so the first error aborts the pass.
func AttachVectors(doc *model.Document, embed EmbedFunc) error {
	if doc == nil || embed == nil {
		return nil
	}
	for _, token := range doc.Tokens {
		if !token.Matchable || token.HasVector() || token.IsEntityPlaceholder() {
			continue
		}
		word := token.Lemma
		if word == "" {
			word = token.Text
		}
		if word == "" {
			continue
		}
		vector, err := embed(word)
		if err != nil {
			return fmt.Errorf("failed to embed %q in document %v: %w", word, doc.Label, err)
		}
		token.Vector = vector
	}
	return nil
}
