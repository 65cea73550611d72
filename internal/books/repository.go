package books

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/drallgood/bookshelf-api/internal/logger"
)

// Repository is the sole authority over the contents of the book collection.
// Every operation reads the latest persisted collection from its Store and
// writes the whole collection back after a mutation. Mutations are
// serialized so a load and its save never interleave with another write.
type Repository struct {
	mu     sync.RWMutex
	store  Store
	newID  func() string
	now    func() time.Time
	logger *logger.Logger
}

// Option customizes a Repository.
type Option func(*Repository)

// WithIDGenerator replaces the identifier generator.
func WithIDGenerator(gen func() string) Option {
	return func(r *Repository) {
		if gen != nil {
			r.newID = gen
		}
	}
}

// WithClock replaces the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRepository creates a repository backed by store.
func NewRepository(store Store, log *logger.Logger, opts ...Option) *Repository {
	if log == nil {
		log = logger.Get()
	}
	r := &Repository{
		store:  store,
		newID:  uuid.NewString,
		now:    time.Now,
		logger: log.WithFields(map[string]interface{}{"component": "books"}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// timestamp returns the current time in the precision books are persisted with.
func (r *Repository) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Millisecond)
}

func (r *Repository) load(ctx context.Context) ([]Book, error) {
	all, err := r.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load books: %w", err)
	}
	for i := range all {
		all[i].Finished = ComputeFinished(all[i].PageCount, all[i].ReadPage)
	}
	return all, nil
}

func (r *Repository) save(ctx context.Context, all []Book) error {
	if err := r.store.Save(ctx, all); err != nil {
		return fmt.Errorf("failed to save books: %w", err)
	}
	return nil
}

// Create validates p and appends a new book to the collection.
func (r *Repository) Create(ctx context.Context, p Payload) (Book, error) {
	p, err := ValidateCreate(p)
	if err != nil {
		return Book{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.load(ctx)
	if err != nil {
		return Book{}, err
	}

	now := r.timestamp()
	book := Book{
		ID:         r.newID(),
		InsertedAt: now,
		UpdatedAt:  now,
	}
	book.apply(p)

	if err := r.save(ctx, append(all, book)); err != nil {
		return Book{}, err
	}

	r.logger.Debug("Book created", map[string]interface{}{
		"book_id": book.ID,
		"name":    book.Name,
	})
	return book, nil
}

// List returns the projections of the books selected by f in insertion order.
func (r *Repository) List(ctx context.Context, f Filter) ([]Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	match := f.match()
	result := make([]Summary, 0, len(all))
	for _, book := range all {
		if match == nil || match(book) {
			result = append(result, book.Summarize())
		}
	}
	return result, nil
}

// Get retrieves a book by its ID.
func (r *Repository) Get(ctx context.Context, id string) (Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all, err := r.load(ctx)
	if err != nil {
		return Book{}, err
	}

	if i := indexOf(all, id); i >= 0 {
		return all[i], nil
	}
	return Book{}, ErrNotFound
}

// Update replaces every mutable field of the book with the given ID. The
// payload is validated before the book is looked up.
func (r *Repository) Update(ctx context.Context, id string, p Payload) (Book, error) {
	p, err := ValidateUpdate(p)
	if err != nil {
		return Book{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.load(ctx)
	if err != nil {
		return Book{}, err
	}

	i := indexOf(all, id)
	if i < 0 {
		return Book{}, ErrNotFound
	}

	book := all[i]
	book.apply(p)
	if now := r.timestamp(); now.After(book.UpdatedAt) {
		book.UpdatedAt = now
	}
	all[i] = book

	if err := r.save(ctx, all); err != nil {
		return Book{}, err
	}

	r.logger.Debug("Book updated", map[string]interface{}{
		"book_id": book.ID,
	})
	return book, nil
}

// Delete removes the book with the given ID.
func (r *Repository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.load(ctx)
	if err != nil {
		return err
	}

	i := indexOf(all, id)
	if i < 0 {
		return ErrNotFound
	}

	if err := r.save(ctx, append(all[:i], all[i+1:]...)); err != nil {
		return err
	}

	r.logger.Debug("Book deleted", map[string]interface{}{
		"book_id": id,
	})
	return nil
}

func indexOf(all []Book, id string) int {
	for i, book := range all {
		if book.ID == id {
			return i
		}
	}
	return -1
}
