package storage

import (
	"encoding/json"
	"fmt"

	"github.com/msg-systems/holmes-extractor-sub002/model"
)

// FormatVersion is the serialization format version written into every
// envelope. It is bumped whenever the token graph layout changes in a way
// older readers cannot handle.
const FormatVersion = 1

// envelope wraps a serialized graph with the information needed to decide
// whether it may be loaded again: the format version and the name of the
// embedding model whose vectors it carries. Vectors from different models
// live in incompatible spaces, so a model mismatch is a load error rather
// than a silent degradation.
type envelope struct {
	FormatVersion int             `json:"format_version"`
	ModelName     string          `json:"model_name"`
	Payload       json.RawMessage `json:"payload"`
}

// MarshalDocument serializes a document together with the embedding model
// name its vectors were produced with.
func MarshalDocument(doc *model.Document, modelName string) ([]byte, error) {
	return marshalEnvelope(doc, modelName)
}

// UnmarshalDocument deserializes a document, verifying that it was produced
// with the given embedding model.
func UnmarshalDocument(data []byte, modelName string) (*model.Document, error) {
	var doc model.Document
	if err := unmarshalEnvelope(data, modelName, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// MarshalSearchPhrase serializes a compiled search phrase together with the
// embedding model name its vectors were produced with.
func MarshalSearchPhrase(sp *model.SearchPhrase, modelName string) ([]byte, error) {
	return marshalEnvelope(sp, modelName)
}

// UnmarshalSearchPhrase deserializes a compiled search phrase, verifying
// that it was produced with the given embedding model.
func UnmarshalSearchPhrase(data []byte, modelName string) (*model.SearchPhrase, error) {
	var sp model.SearchPhrase
	if err := unmarshalEnvelope(data, modelName, &sp); err != nil {
		return nil, err
	}
	return &sp, nil
}

func marshalEnvelope(value any, modelName string) ([]byte, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize payload: %w", err)
	}
	data, err := json.Marshal(envelope{
		FormatVersion: FormatVersion,
		ModelName:     modelName,
		Payload:       payload,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize envelope: %w", err)
	}
	return data, nil
}

func unmarshalEnvelope(data []byte, modelName string, value any) error {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("failed to deserialize envelope: %w", err)
	}
	if env.FormatVersion != FormatVersion {
		return fmt.Errorf("format version %v, expected %v: %w", env.FormatVersion, FormatVersion, model.ErrModelVersionMismatch)
	}
	if env.ModelName != modelName {
		return fmt.Errorf("model %q, expected %q: %w", env.ModelName, modelName, model.ErrModelVersionMismatch)
	}
	return json.Unmarshal(env.Payload, value)
}
