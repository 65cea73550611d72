package api

import (
	"errors"
	"net/http"

	"github.com/drallgood/bookshelf-api/internal/books"
)

// Envelope status values
const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

// Messages returned to clients
const (
	msgCreated          = "Buku berhasil ditambahkan"
	msgCreateNoName     = "Gagal menambahkan buku. Mohon isi nama buku"
	msgCreateOverflow   = "Gagal menambahkan buku. readPage tidak boleh lebih besar dari pageCount"
	msgCreateBadBody    = "Gagal menambahkan buku. Body permintaan tidak valid"
	msgNotFound         = "Buku tidak ditemukan"
	msgUpdated          = "Buku berhasil diperbarui"
	msgUpdateNoName     = "Gagal memperbarui buku. Mohon isi nama buku"
	msgUpdateOverflow   = "Gagal memperbarui buku. readPage tidak boleh lebih besar dari pageCount"
	msgUpdateNotFound   = "Gagal memperbarui buku. Id tidak ditemukan"
	msgUpdateBadBody    = "Gagal memperbarui buku. Body permintaan tidak valid"
	msgDeleted          = "Buku berhasil dihapus"
	msgDeleteNotFound   = "Buku gagal dihapus. Id tidak ditemukan"
	msgInternal         = "Maaf, terjadi kegagalan pada server kami"
	msgTooManyRequests  = "Terlalu banyak permintaan, coba lagi nanti"
	msgRouteNotFound    = "Halaman tidak ditemukan"
	msgMethodNotAllowed = "Metode tidak diizinkan"
)

// Envelope is the uniform body of every response
type Envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Response pairs an envelope with its HTTP status code
type Response struct {
	Code int
	Body Envelope
}

// CreatedData is the data of a successful create
type CreatedData struct {
	BookID string `json:"bookId"`
}

// ListData is the data of a list query
type ListData struct {
	Books []books.Summary `json:"books"`
}

// BookData is the data of a single book lookup
type BookData struct {
	Book BookView `json:"book"`
}

// TimestampLayout always writes three fractional digits, so a zero
// millisecond component is rendered as ".000Z"
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// BookView is the wire form of a book
type BookView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Year       int    `json:"year"`
	Author     string `json:"author"`
	Summary    string `json:"summary"`
	Publisher  string `json:"publisher"`
	PageCount  int    `json:"pageCount"`
	ReadPage   int    `json:"readPage"`
	Finished   bool   `json:"finished"`
	Reading    bool   `json:"reading"`
	InsertedAt string `json:"insertedAt"`
	UpdatedAt  string `json:"updatedAt"`
}

// NewBookView renders b with UTC millisecond timestamps
func NewBookView(b books.Book) BookView {
	return BookView{
		ID:         b.ID,
		Name:       b.Name,
		Year:       b.Year,
		Author:     b.Author,
		Summary:    b.Summary,
		Publisher:  b.Publisher,
		PageCount:  b.PageCount,
		ReadPage:   b.ReadPage,
		Finished:   b.Finished,
		Reading:    b.Reading,
		InsertedAt: b.InsertedAt.UTC().Format(TimestampLayout),
		UpdatedAt:  b.UpdatedAt.UTC().Format(TimestampLayout),
	}
}

func success(code int, message string, data interface{}) Response {
	return Response{Code: code, Body: Envelope{Status: StatusSuccess, Message: message, Data: data}}
}

func fail(code int, message string) Response {
	return Response{Code: code, Body: Envelope{Status: StatusFail, Message: message}}
}

func internalError() Response {
	return Response{Code: http.StatusInternalServerError, Body: Envelope{Status: StatusError, Message: msgInternal}}
}

// CreateResponse maps the outcome of a create
func CreateResponse(book books.Book, err error) Response {
	switch {
	case err == nil:
		return success(http.StatusCreated, msgCreated, CreatedData{BookID: book.ID})
	case errors.Is(err, books.ErrMissingName):
		return fail(http.StatusBadRequest, msgCreateNoName)
	case errors.Is(err, books.ErrPageOverflow):
		return fail(http.StatusBadRequest, msgCreateOverflow)
	default:
		return internalError()
	}
}

// ListResponse maps the outcome of a list query
func ListResponse(list []books.Summary, err error) Response {
	if err != nil {
		return internalError()
	}
	if list == nil {
		list = []books.Summary{}
	}
	return success(http.StatusOK, "", ListData{Books: list})
}

// GetResponse maps the outcome of a lookup by id
func GetResponse(book books.Book, err error) Response {
	switch {
	case err == nil:
		return success(http.StatusOK, "", BookData{Book: NewBookView(book)})
	case errors.Is(err, books.ErrNotFound):
		return fail(http.StatusNotFound, msgNotFound)
	default:
		return internalError()
	}
}

// UpdateResponse maps the outcome of an update
func UpdateResponse(err error) Response {
	switch {
	case err == nil:
		return success(http.StatusOK, msgUpdated, nil)
	case errors.Is(err, books.ErrMissingName):
		return fail(http.StatusBadRequest, msgUpdateNoName)
	case errors.Is(err, books.ErrPageOverflow):
		return fail(http.StatusBadRequest, msgUpdateOverflow)
	case errors.Is(err, books.ErrNotFound):
		return fail(http.StatusNotFound, msgUpdateNotFound)
	default:
		return internalError()
	}
}

// DeleteResponse maps the outcome of a delete
func DeleteResponse(err error) Response {
	switch {
	case err == nil:
		return success(http.StatusOK, msgDeleted, nil)
	case errors.Is(err, books.ErrNotFound):
		return fail(http.StatusNotFound, msgDeleteNotFound)
	default:
		return internalError()
	}
}

// BadBodyResponse is returned when a create or update body cannot be decoded
func BadBodyResponse(update bool) Response {
	if update {
		return fail(http.StatusBadRequest, msgUpdateBadBody)
	}
	return fail(http.StatusBadRequest, msgCreateBadBody)
}

// TooManyRequestsResponse is returned by the rate limiter
func TooManyRequestsResponse() Response {
	return fail(http.StatusTooManyRequests, msgTooManyRequests)
}

// RouteNotFoundResponse is returned for unknown paths
func RouteNotFoundResponse() Response {
	return fail(http.StatusNotFound, msgRouteNotFound)
}

// MethodNotAllowedResponse is returned for known paths with an unsupported method
func MethodNotAllowedResponse() Response {
	return fail(http.StatusMethodNotAllowed, msgMethodNotAllowed)
}
