package books

import (
	"context"
	"sync"
)

// MemoryStore keeps the collection in process memory. It hands out copies so
// callers never share a backing array with the store.
type MemoryStore struct {
	mu    sync.RWMutex
	books []Book
	saves int
}

// NewMemoryStore constructs a MemoryStore seeded with the provided books.
func NewMemoryStore(seed []Book) *MemoryStore {
	return &MemoryStore{books: append([]Book(nil), seed...)}
}

// Load returns a copy of the stored collection.
func (s *MemoryStore) Load(_ context.Context) ([]Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append(make([]Book, 0, len(s.books)), s.books...), nil
}

// Save replaces the stored collection with a copy of books.
func (s *MemoryStore) Save(_ context.Context, books []Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.books = append(make([]Book, 0, len(books)), books...)
	s.saves++
	return nil
}

// Saves returns how many times Save has been called.
func (s *MemoryStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.saves
}
