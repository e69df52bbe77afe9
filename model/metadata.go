package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// Metadata represents free-form document metadata, stored as JSONB when a
// document is persisted.
type Metadata map[string]interface{}

// Value implements the driver.Valuer interface for database storage.
func (m Metadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface for database retrieval.
func (m *Metadata) Scan(value interface{}) error {
	if value == nil {
		*m = Metadata{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("metadata scan: type assertion to []byte failed")
	}
	return json.Unmarshal(b, m)
}
