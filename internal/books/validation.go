package books

import "errors"

// Sentinel errors returned by validation and repository operations.
var (
	// ErrMissingName is returned when a payload carries no book name.
	ErrMissingName = errors.New("book name is required")

	// ErrPageOverflow is returned when readPage exceeds pageCount.
	ErrPageOverflow = errors.New("readPage must not be greater than pageCount")

	// ErrNotFound is returned when no book has the requested id.
	ErrNotFound = errors.New("book not found")
)

// ValidateCreate checks a payload before a book is created.
func ValidateCreate(p Payload) (Payload, error) {
	return validate(p)
}

// ValidateUpdate checks a payload before a book is replaced. The rules and
// error kinds are the same as for creation.
func ValidateUpdate(p Payload) (Payload, error) {
	return validate(p)
}

func validate(p Payload) (Payload, error) {
	if p.Name == "" {
		return Payload{}, ErrMissingName
	}
	if p.ReadPage > p.PageCount {
		return Payload{}, ErrPageOverflow
	}
	return p, nil
}

// IsValidationError reports whether err is one of the payload validation kinds.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingName) || errors.Is(err, ErrPageOverflow)
}
