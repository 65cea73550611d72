package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/drallgood/bookshelf-api/internal/books"
)

// Store persists the book collection in the books table
type Store struct {
	db *Database
}

// NewStore creates a book store on top of an open database
func NewStore(db *Database) *Store {
	return &Store{db: db}
}

// Load reads every book in insertion order
func (s *Store) Load(ctx context.Context) ([]books.Book, error) {
	var records []BookRecord
	if err := s.db.GetDB().WithContext(ctx).Order("position asc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}

	all := make([]books.Book, 0, len(records))
	for _, r := range records {
		all = append(all, r.toBook())
	}
	return all, nil
}

// Save replaces the stored collection in a single transaction
func (s *Store) Save(ctx context.Context, all []books.Book) error {
	records := make([]BookRecord, 0, len(all))
	for i, b := range all {
		records = append(records, recordFromBook(b, i))
	}

	err := s.db.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&BookRecord{}).Error; err != nil {
			return fmt.Errorf("failed to clear books: %w", err)
		}
		if len(records) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(records, 100).Error; err != nil {
			return fmt.Errorf("failed to insert books: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.db.logger.Debug("Book table saved", map[string]interface{}{
		"count": len(records),
	})
	return nil
}
