package docstore

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// document is the row backing one JSON document. The (collection, doc_id)
// pair is the primary key; Data holds the serialized document.
type document struct {
	Collection string `gorm:"primaryKey;type:varchar(64)"`
	DocID      string `gorm:"primaryKey;type:varchar(128);column:doc_id"`
	Data       []byte `gorm:"type:jsonb"`
}

func (document) TableName() string {
	return "documents"
}

// GORMStore is a GORM implementation of Store. It persists documents in a
// single table so the same code runs against PostgreSQL in production and
// in-memory SQLite in tests.
type GORMStore struct {
	watchHub
	db *gorm.DB
}

// NewGORMStore creates a GORMStore and migrates its backing table.
func NewGORMStore(db *gorm.DB) (*GORMStore, error) {
	if err := db.AutoMigrate(&document{}); err != nil {
		return nil, fmt.Errorf("failed to migrate documents table: %w", err)
	}
	return &GORMStore{db: db}, nil
}

// Put creates or replaces the document at (collection, id).
func (s *GORMStore) Put(collection, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document %s/%s: %w", collection, id, err)
	}

	row := document{Collection: collection, DocID: id, Data: data}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Upsert via delete-then-create keeps the store portable across
		// the sqlite and postgres drivers.
		if err := tx.Delete(&document{}, "collection = ? AND doc_id = ?", collection, id).Error; err != nil {
			return err
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		return fmt.Errorf("failed to put document %s/%s: %w", collection, id, err)
	}

	s.notify(Event{Collection: collection, DocID: id, Kind: EventPut})
	return nil
}

// Patch merges fields into the existing document at (collection, id).
// Returns ErrNotFound if no such document exists.
func (s *GORMStore) Patch(collection, id string, fields map[string]any) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var row document
		if err := tx.First(&row, "collection = ? AND doc_id = ?", collection, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		merged := make(map[string]any)
		if err := json.Unmarshal(row.Data, &merged); err != nil {
			return fmt.Errorf("stored document is not valid JSON: %w", err)
		}
		for k, v := range fields {
			merged[k] = v
		}

		data, err := json.Marshal(merged)
		if err != nil {
			return err
		}
		return tx.Model(&document{}).
			Where("collection = ? AND doc_id = ?", collection, id).
			Update("data", data).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to patch document %s/%s: %w", collection, id, err)
	}

	s.notify(Event{Collection: collection, DocID: id, Kind: EventPatch})
	return nil
}

// Delete removes the document at (collection, id). Deleting an id that does
// not exist is a no-op success.
func (s *GORMStore) Delete(collection, id string) error {
	res := s.db.Delete(&document{}, "collection = ? AND doc_id = ?", collection, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete document %s/%s: %w", collection, id, res.Error)
	}

	s.notify(Event{Collection: collection, DocID: id, Kind: EventDelete})
	return nil
}

// Get returns the raw document at (collection, id), or ErrNotFound.
func (s *GORMStore) Get(collection, id string) (json.RawMessage, error) {
	var row document
	if err := s.db.First(&row, "collection = ? AND doc_id = ?", collection, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get document %s/%s: %w", collection, id, err)
	}
	return json.RawMessage(row.Data), nil
}

// GetAll returns every document in the collection. A read failure surfaces
// as an error, never as an empty result.
func (s *GORMStore) GetAll(collection string) ([]json.RawMessage, error) {
	var rows []document
	if err := s.db.Order("doc_id ASC").Find(&rows, "collection = ?", collection).Error; err != nil {
		return nil, fmt.Errorf("failed to read collection %s: %w", collection, err)
	}

	docs := make([]json.RawMessage, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, json.RawMessage(row.Data))
	}
	return docs, nil
}
