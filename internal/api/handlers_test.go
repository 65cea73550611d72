package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drallgood/bookshelf-api/internal/books"
	"github.com/drallgood/bookshelf-api/internal/logger"
)

type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		BookID string          `json:"bookId"`
		Books  []books.Summary `json:"books"`
		Book   *books.Book     `json:"book"`
	} `json:"data"`
}

func quietLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Output: &bytes.Buffer{}})
}

func newTestServer(t *testing.T) (http.Handler, *books.MemoryStore) {
	t.Helper()
	store := books.NewMemoryStore(nil)
	mux := http.NewServeMux()
	NewHandler(books.NewRepository(store, quietLogger()), quietLogger()).Register(mux)
	return mux, store
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), "body: %s", rr.Body.String())
	return rr, env
}

func TestCreateAndGetBook(t *testing.T) {
	h, _ := newTestServer(t)

	rr, env := do(t, h, http.MethodPost, "/books", `{"name":"Harry Potter","year":1997,"author":"J. K. Rowling","summary":"Wizard","publisher":"Bloomsbury","pageCount":200,"readPage":200,"reading":false}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Equal(t, StatusSuccess, env.Status)
	assert.Equal(t, msgCreated, env.Message)
	require.NotEmpty(t, env.Data.BookID)

	rr, env = do(t, h, http.MethodGet, "/books/"+env.Data.BookID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, env.Data.Book)
	assert.True(t, env.Data.Book.Finished)
	assert.Equal(t, 200, env.Data.Book.ReadPage)
	assert.Equal(t, 200, env.Data.Book.PageCount)
	assert.Equal(t, env.Data.Book.InsertedAt, env.Data.Book.UpdatedAt)
}

func TestCreateBook_Failures(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{name: "missing name", body: `{"pageCount":100,"readPage":10}`, message: msgCreateNoName},
		{name: "null name", body: `{"name":null,"pageCount":100}`, message: msgCreateNoName},
		{name: "page overflow", body: `{"name":"X","pageCount":100,"readPage":150}`, message: msgCreateOverflow},
		{name: "malformed json", body: `{"name":`, message: msgCreateBadBody},
		{name: "wrong type", body: `{"name":"X","pageCount":"many"}`, message: msgCreateBadBody},
		{name: "empty body", body: ``, message: msgCreateBadBody},
		{name: "trailing garbage", body: `{"name":"a","pageCount":1} xyz`, message: msgCreateBadBody},
		{name: "two objects", body: `{"name":"a"}{"name":"b"}`, message: msgCreateBadBody},
		{name: "oversized body", body: `{"name":"` + strings.Repeat("a", maxBodyBytes) + `"}`, message: msgCreateBadBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, store := newTestServer(t)

			rr, env := do(t, h, http.MethodPost, "/books", tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, StatusFail, env.Status)
			assert.Equal(t, tt.message, env.Message)
			assert.Zero(t, store.Saves())
		})
	}
}

func TestListBooks(t *testing.T) {
	h, _ := newTestServer(t)
	for _, body := range []string{
		`{"name":"War and Peace","publisher":"Messenger","pageCount":10,"readPage":10,"reading":false}`,
		`{"name":"Dune","publisher":"Chilton","pageCount":10,"readPage":1,"reading":true}`,
		`{"name":"Art of War","publisher":"Unknown","pageCount":10,"readPage":2,"reading":true}`,
	} {
		rr, _ := do(t, h, http.MethodPost, "/books", body)
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	names := func(list []books.Summary) []string {
		out := make([]string, 0, len(list))
		for _, s := range list {
			out = append(out, s.Name)
		}
		return out
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"War and Peace", "Dune", "Art of War"}},
		{"?name=WAR", []string{"War and Peace", "Art of War"}},
		{"?name=war&reading=0", []string{"War and Peace", "Art of War"}},
		{"?reading=1", []string{"Dune", "Art of War"}},
		{"?reading=0&finished=0", []string{"War and Peace"}},
		{"?finished=1", []string{"War and Peace"}},
		{"?finished=0", []string{"Dune", "Art of War"}},
		{"?name=nothing", []string{}},
		{"?unknown=1", []string{"War and Peace", "Dune", "Art of War"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rr, env := do(t, h, http.MethodGet, "/books"+tt.query, "")
			require.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, StatusSuccess, env.Status)
			require.NotNil(t, env.Data.Books)
			assert.Equal(t, tt.want, names(env.Data.Books))
		})
	}

	t.Run("projection only", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/books?name=dune", nil))
		body := rr.Body.String()
		assert.Contains(t, body, `"publisher":"Chilton"`)
		assert.NotContains(t, body, "pageCount")
		assert.NotContains(t, body, "insertedAt")
	})
}

func TestListBooks_EmptyCollection(t *testing.T) {
	h, _ := newTestServer(t)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/books", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"success","data":{"books":[]}}`, rr.Body.String())
}

func TestGetBook_NotFound(t *testing.T) {
	h, _ := newTestServer(t)

	rr, env := do(t, h, http.MethodGet, "/books/missing", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, StatusFail, env.Status)
	assert.Equal(t, msgNotFound, env.Message)
}

func TestUpdateBook(t *testing.T) {
	h, _ := newTestServer(t)
	_, created := do(t, h, http.MethodPost, "/books", `{"name":"Draft","pageCount":100,"readPage":10}`)
	id := created.Data.BookID

	rr, env := do(t, h, http.MethodPut, "/books/"+id, `{"name":"Final","pageCount":100,"readPage":100,"publisher":"Press"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, StatusSuccess, env.Status)
	assert.Equal(t, msgUpdated, env.Message)

	_, env = do(t, h, http.MethodGet, "/books/"+id, "")
	require.NotNil(t, env.Data.Book)
	assert.Equal(t, id, env.Data.Book.ID)
	assert.Equal(t, "Final", env.Data.Book.Name)
	assert.Equal(t, "Press", env.Data.Book.Publisher)
	assert.True(t, env.Data.Book.Finished)
}

func TestUpdateBook_Failures(t *testing.T) {
	h, _ := newTestServer(t)
	_, created := do(t, h, http.MethodPost, "/books", `{"name":"Keep","pageCount":10}`)
	id := created.Data.BookID

	tests := []struct {
		name    string
		id      string
		body    string
		code    int
		message string
	}{
		{"missing name", id, `{"pageCount":10}`, http.StatusBadRequest, msgUpdateNoName},
		{"page overflow", id, `{"name":"X","pageCount":10,"readPage":11}`, http.StatusBadRequest, msgUpdateOverflow},
		{"validation before lookup", "missing", `{"name":"X","pageCount":1,"readPage":2}`, http.StatusBadRequest, msgUpdateOverflow},
		{"not found", "missing", `{"name":"X"}`, http.StatusNotFound, msgUpdateNotFound},
		{"malformed", id, `[`, http.StatusBadRequest, msgUpdateBadBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, env := do(t, h, http.MethodPut, "/books/"+tt.id, tt.body)
			assert.Equal(t, tt.code, rr.Code)
			assert.Equal(t, StatusFail, env.Status)
			assert.Equal(t, tt.message, env.Message)
		})
	}

	_, env := do(t, h, http.MethodGet, "/books/"+id, "")
	require.NotNil(t, env.Data.Book)
	assert.Equal(t, "Keep", env.Data.Book.Name)
}

func TestDeleteBook(t *testing.T) {
	h, _ := newTestServer(t)
	_, created := do(t, h, http.MethodPost, "/books", `{"name":"Gone","pageCount":10}`)
	id := created.Data.BookID

	rr, env := do(t, h, http.MethodDelete, "/books/"+id, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, msgDeleted, env.Message)

	rr, env = do(t, h, http.MethodDelete, "/books/"+id, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, StatusFail, env.Status)
	assert.Equal(t, msgDeleteNotFound, env.Message)
}

func TestFallback(t *testing.T) {
	h, _ := newTestServer(t)

	rr, env := do(t, h, http.MethodPatch, "/books/abc", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, msgMethodNotAllowed, env.Message)

	rr, _ = do(t, h, http.MethodDelete, "/books", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	rr, env = do(t, h, http.MethodGet, "/shelves", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, msgRouteNotFound, env.Message)

	rr, _ = do(t, h, http.MethodGet, "/books/a/b", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

type brokenRepository struct{}

var errBroken = errors.New("database is gone")

func (brokenRepository) Create(context.Context, books.Payload) (books.Book, error) {
	return books.Book{}, errBroken
}

func (brokenRepository) List(context.Context, books.Filter) ([]books.Summary, error) {
	return nil, errBroken
}

func (brokenRepository) Get(context.Context, string) (books.Book, error) {
	return books.Book{}, errBroken
}

func (brokenRepository) Update(context.Context, string, books.Payload) (books.Book, error) {
	return books.Book{}, errBroken
}

func (brokenRepository) Delete(context.Context, string) error { return errBroken }

func TestHandlers_StoreFailure(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "error", Format: logger.FormatJSON, Output: &buf})
	mux := http.NewServeMux()
	NewHandler(brokenRepository{}, log).Register(mux)

	requests := []struct {
		method, target, body string
	}{
		{http.MethodPost, "/books", `{"name":"X"}`},
		{http.MethodGet, "/books", ""},
		{http.MethodGet, "/books/x", ""},
		{http.MethodPut, "/books/x", `{"name":"X"}`},
		{http.MethodDelete, "/books/x", ""},
	}

	for _, req := range requests {
		t.Run(req.method+" "+req.target, func(t *testing.T) {
			rr, env := do(t, mux, req.method, req.target, req.body)
			assert.Equal(t, http.StatusInternalServerError, rr.Code)
			assert.Equal(t, StatusError, env.Status)
			assert.Equal(t, msgInternal, env.Message)
		})
	}
}

func TestCreateBook_TrailingWhitespace(t *testing.T) {
	h, store := newTestServer(t)

	rr, env := do(t, h, http.MethodPost, "/books", "{\"name\":\"Ayat-Ayat Cinta\",\"pageCount\":10}\n\t ")
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.NotEmpty(t, env.Data.BookID)
	assert.Equal(t, 1, store.Saves())
}

func TestUpdateBook_TrailingGarbage(t *testing.T) {
	h, _ := newTestServer(t)
	_, created := do(t, h, http.MethodPost, "/books", `{"name":"Keep","pageCount":10}`)

	rr, env := do(t, h, http.MethodPut, "/books/"+created.Data.BookID, `{"name":"Changed","pageCount":10}]`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, msgUpdateBadBody, env.Message)

	_, env = do(t, h, http.MethodGet, "/books/"+created.Data.BookID, "")
	require.NotNil(t, env.Data.Book)
	assert.Equal(t, "Keep", env.Data.Book.Name)
}
