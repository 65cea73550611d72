// Package books holds the book record model together with the rules that
// govern how records are validated, stored, searched and mutated.
package books

import (
	"context"
	"time"
)

// Book represents a single catalogued item in the collection.
type Book struct {
	ID         string    `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	Year       int       `json:"year" yaml:"year"`
	Author     string    `json:"author" yaml:"author"`
	Summary    string    `json:"summary" yaml:"summary"`
	Publisher  string    `json:"publisher" yaml:"publisher"`
	PageCount  int       `json:"pageCount" yaml:"pageCount"`
	ReadPage   int       `json:"readPage" yaml:"readPage"`
	Finished   bool      `json:"finished" yaml:"finished"`
	Reading    bool      `json:"reading" yaml:"reading"`
	InsertedAt time.Time `json:"insertedAt" yaml:"insertedAt"`
	UpdatedAt  time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// Payload carries the caller supplied fields of a create or update request.
// Identity, timestamps and the finished flag are never taken from a payload.
type Payload struct {
	Name      string `json:"name"`
	Year      int    `json:"year"`
	Author    string `json:"author"`
	Summary   string `json:"summary"`
	Publisher string `json:"publisher"`
	PageCount int    `json:"pageCount"`
	ReadPage  int    `json:"readPage"`
	Reading   bool   `json:"reading"`
}

// Summary is the projection of a Book returned by list queries.
type Summary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Publisher string `json:"publisher"`
}

// ComputeFinished reports whether every page has been read.
func ComputeFinished(pageCount, readPage int) bool {
	return readPage == pageCount
}

// Summarize projects b onto its list view.
func (b Book) Summarize() Summary {
	return Summary{ID: b.ID, Name: b.Name, Publisher: b.Publisher}
}

// apply copies every payload field onto b and recomputes the derived flag.
func (b *Book) apply(p Payload) {
	b.Name = p.Name
	b.Year = p.Year
	b.Author = p.Author
	b.Summary = p.Summary
	b.Publisher = p.Publisher
	b.PageCount = p.PageCount
	b.ReadPage = p.ReadPage
	b.Reading = p.Reading
	b.Finished = ComputeFinished(p.PageCount, p.ReadPage)
}

// Store persists the whole book collection.
//
// Load returns an empty collection when nothing has been persisted yet or the
// persisted data cannot be decoded. Save replaces the persisted collection.
type Store interface {
	Load(ctx context.Context) ([]Book, error)
	Save(ctx context.Context, books []Book) error
}
