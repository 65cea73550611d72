package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/drallgood/bookshelf-api/internal/books"
	"github.com/drallgood/bookshelf-api/internal/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// maxBodyBytes bounds the size of create and update bodies
const maxBodyBytes = 1 << 20

var errEmptyBody = errors.New("request body is empty")

// BookRepository is the set of book operations the handlers rely on
type BookRepository interface {
	Create(ctx context.Context, p books.Payload) (books.Book, error)
	List(ctx context.Context, f books.Filter) ([]books.Summary, error)
	Get(ctx context.Context, id string) (books.Book, error)
	Update(ctx context.Context, id string, p books.Payload) (books.Book, error)
	Delete(ctx context.Context, id string) error
}

// Handler provides the HTTP handlers for the books API
type Handler struct {
	repo   BookRepository
	logger *logger.Logger
}

// NewHandler creates a new API handler
func NewHandler(repo BookRepository, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Get()
	}
	return &Handler{
		repo:   repo,
		logger: log,
	}
}

// Register adds the book routes to mux
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /books", h.CreateBook)
	mux.HandleFunc("GET /books", h.ListBooks)
	mux.HandleFunc("GET /books/{bookId}", h.GetBook)
	mux.HandleFunc("PUT /books/{bookId}", h.UpdateBook)
	mux.HandleFunc("DELETE /books/{bookId}", h.DeleteBook)
	mux.HandleFunc("/", h.Fallback)
}

// CreateBook handles POST /books
func (h *Handler) CreateBook(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.readPayload(w, r, false)
	if !ok {
		return
	}

	book, err := h.repo.Create(r.Context(), payload)
	h.respond(w, r, "create", CreateResponse(book, err), err)
}

// ListBooks handles GET /books with the optional name, reading and finished query keys
func (h *Handler) ListBooks(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.List(r.Context(), books.FilterFromQuery(r.URL.Query()))
	h.respond(w, r, "list", ListResponse(list, err), err)
}

// GetBook handles GET /books/{bookId}
func (h *Handler) GetBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.repo.Get(r.Context(), r.PathValue("bookId"))
	h.respond(w, r, "get", GetResponse(book, err), err)
}

// UpdateBook handles PUT /books/{bookId}
func (h *Handler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.readPayload(w, r, true)
	if !ok {
		return
	}

	_, err := h.repo.Update(r.Context(), r.PathValue("bookId"), payload)
	h.respond(w, r, "update", UpdateResponse(err), err)
}

// DeleteBook handles DELETE /books/{bookId}
func (h *Handler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	err := h.repo.Delete(r.Context(), r.PathValue("bookId"))
	h.respond(w, r, "delete", DeleteResponse(err), err)
}

// Fallback answers requests no book route matched
func (h *Handler) Fallback(w http.ResponseWriter, r *http.Request) {
	id, isItem := strings.CutPrefix(r.URL.Path, "/books/")
	if r.URL.Path == "/books" || (isItem && id != "" && !strings.Contains(id, "/")) {
		WriteResponse(w, MethodNotAllowedResponse(), h.logger)
		return
	}
	WriteResponse(w, RouteNotFoundResponse(), h.logger)
}

func (h *Handler) readPayload(w http.ResponseWriter, r *http.Request, update bool) (books.Payload, bool) {
	var payload books.Payload
	if err := decodeBody(http.MaxBytesReader(w, r.Body, maxBodyBytes), &payload); err != nil {
		logger.FromContext(r.Context()).Debug("Rejected request body", map[string]interface{}{
			"error": err.Error(),
		})
		WriteResponse(w, BadBodyResponse(update), h.logger)
		return books.Payload{}, false
	}
	return payload, true
}

// decodeBody decodes exactly one JSON value from body. Empty bodies and
// bytes after the value are rejected.
func decodeBody(body io.Reader, v interface{}) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return errEmptyBody
	}
	return json.Unmarshal(data, v)
}

// respond writes res and logs unexpected failures
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, op string, res Response, err error) {
	switch {
	case res.Code >= http.StatusInternalServerError:
		logger.FromContext(r.Context()).Error("Book operation failed", map[string]interface{}{
			"operation": op,
			"error":     err.Error(),
		})
	case books.IsValidationError(err):
		logger.FromContext(r.Context()).Debug("Rejected book payload", map[string]interface{}{
			"operation": op,
			"reason":    err.Error(),
		})
	}
	WriteResponse(w, res, h.logger)
}

// WriteResponse writes res as a JSON response
func WriteResponse(w http.ResponseWriter, res Response, log *logger.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(res.Code)

	if err := json.NewEncoder(w).Encode(res.Body); err != nil {
		log.Error("Failed to encode JSON response", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
