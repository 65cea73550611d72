package books

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Filter narrows a list query. At most one criterion is applied, picked in
// the order Name, Reading, Finished; the others are ignored.
type Filter struct {
	Name     *string
	Reading  *bool
	Finished *bool
}

// FilterFromQuery reads the name, reading and finished query keys. A key
// counts as present even when its value is empty.
func FilterFromQuery(q url.Values) Filter {
	var f Filter
	if q.Has("name") {
		name := q.Get("name")
		f.Name = &name
	}
	if q.Has("reading") {
		reading := parseFlag(q.Get("reading"))
		f.Reading = &reading
	}
	if q.Has("finished") {
		finished := parseFlag(q.Get("finished"))
		f.Finished = &finished
	}
	return f
}

// parseFlag coerces a query value to a boolean: true/false style values are
// parsed as such, numbers are true when non-zero, anything else is false.
func parseFlag(v string) bool {
	v = strings.TrimSpace(v)
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	if n, err := strconv.ParseFloat(v, 64); err == nil {
		return n != 0 && !math.IsNaN(n)
	}
	return false
}

// match returns the predicate selected by the filter, or nil when the filter is empty.
func (f Filter) match() func(Book) bool {
	switch {
	case f.Name != nil:
		needle := strings.ToLower(*f.Name)
		return func(b Book) bool {
			return strings.Contains(strings.ToLower(b.Name), needle)
		}
	case f.Reading != nil:
		want := *f.Reading
		return func(b Book) bool { return b.Reading == want }
	case f.Finished != nil:
		want := *f.Finished
		return func(b Book) bool { return b.Finished == want }
	default:
		return nil
	}
}
