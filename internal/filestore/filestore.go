// Package filestore persists the book collection as a single human readable
// document, either JSON or YAML.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"github.com/drallgood/bookshelf-api/internal/books"
	"github.com/drallgood/bookshelf-api/internal/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Format is the document encoding of a store file
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension, defaulting to JSON
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Store keeps the collection in one file. Writes replace the file through a
// rename so readers never observe a partially written document.
type Store struct {
	path   string
	format Format
	logger *logger.Logger
}

// New creates a store for path. An empty format is derived from the extension.
func New(path string, format Format, log *logger.Logger) *Store {
	if format == "" {
		format = FormatFromPath(path)
	}
	if log == nil {
		log = logger.Get()
	}
	return &Store{
		path:   path,
		format: format,
		logger: log.WithFields(map[string]interface{}{
			"store":  "file",
			"format": string(format),
		}),
	}
}

// Path returns the file the store reads and writes
func (s *Store) Path() string {
	return s.path
}

// Load reads the collection. A missing, unreadable or undecodable file yields
// an empty collection.
func (s *Store) Load(_ context.Context) ([]books.Book, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("Failed to read book store, starting empty", map[string]interface{}{
				"path":  s.path,
				"error": err.Error(),
			})
		}
		return []books.Book{}, nil
	}

	all, err := s.decode(data)
	if err != nil {
		s.logger.Warn("Book store is corrupt, starting empty", map[string]interface{}{
			"path":  s.path,
			"error": err.Error(),
		})
		return []books.Book{}, nil
	}
	if all == nil {
		all = []books.Book{}
	}
	return all, nil
}

// Save writes the whole collection to the store file.
func (s *Store) Save(_ context.Context, all []books.Book) error {
	if all == nil {
		all = []books.Book{}
	}

	data, err := s.encode(all)
	if err != nil {
		return fmt.Errorf("failed to encode books: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write books: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace store file: %w", err)
	}

	s.logger.Debug("Book store saved", map[string]interface{}{
		"path":  s.path,
		"count": len(all),
	})
	return nil
}

func (s *Store) decode(data []byte) ([]books.Book, error) {
	var all []books.Book
	switch s.format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &all); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, &all); err != nil {
			return nil, err
		}
	}
	return all, nil
}

func (s *Store) encode(all []books.Book) ([]byte, error) {
	switch s.format {
	case FormatYAML:
		return yaml.Marshal(all)
	default:
		data, err := json.MarshalIndent(all, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}
