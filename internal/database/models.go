package database

import (
	"time"

	"github.com/drallgood/bookshelf-api/internal/books"
)

// BookRecord is the row layout of a book. Position keeps insertion order
// because the collection is rewritten as a whole on every save.
type BookRecord struct {
	ID         string    `gorm:"primaryKey;size:64"`
	Position   int       `gorm:"not null;index"`
	Name       string    `gorm:"not null"`
	Year       int
	Author     string
	Summary    string    `gorm:"type:text"`
	Publisher  string
	PageCount  int
	ReadPage   int
	Finished   bool
	Reading    bool
	InsertedAt time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null;autoUpdateTime:false"`
}

// TableName overrides the table name used by BookRecord
func (BookRecord) TableName() string {
	return "books"
}

func recordFromBook(b books.Book, position int) BookRecord {
	return BookRecord{
		ID:         b.ID,
		Position:   position,
		Name:       b.Name,
		Year:       b.Year,
		Author:     b.Author,
		Summary:    b.Summary,
		Publisher:  b.Publisher,
		PageCount:  b.PageCount,
		ReadPage:   b.ReadPage,
		Finished:   b.Finished,
		Reading:    b.Reading,
		InsertedAt: b.InsertedAt.UTC(),
		UpdatedAt:  b.UpdatedAt.UTC(),
	}
}

func (r BookRecord) toBook() books.Book {
	return books.Book{
		ID:         r.ID,
		Name:       r.Name,
		Year:       r.Year,
		Author:     r.Author,
		Summary:    r.Summary,
		Publisher:  r.Publisher,
		PageCount:  r.PageCount,
		ReadPage:   r.ReadPage,
		Finished:   r.Finished,
		Reading:    r.Reading,
		InsertedAt: r.InsertedAt.UTC(),
		UpdatedAt:  r.UpdatedAt.UTC(),
	}
}
