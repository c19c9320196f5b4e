package dal

import (
	"fmt"
	"reflect"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Cond is a single column = value predicate.
type Cond struct {
	Column string
	Value  any
}

// Eq builds an equality predicate.
func Eq(column string, value any) Cond {
	return Cond{Column: column, Value: value}
}

// Conds are ANDed together. Conditions whose value is unset (nil or a nil
// pointer) are skipped.
type Conds []Cond

func (cs Conds) active() Conds {
	out := make(Conds, 0, len(cs))
	for _, c := range cs {
		if isUnset(c.Value) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func isUnset(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// Direction is an ORDER BY direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection accepts "asc" or "desc" in any case; empty means Asc.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc":
		return Asc, nil
	case "desc":
		return Desc, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// QueryOptions controls ordering and windowing of list queries.
type QueryOptions struct {
	OrderBy        string
	OrderDirection Direction
	Limit          int
	Offset         int
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is one window of a paginated query.
type Page[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

func totalPages(total int64, pageSize int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

// columnSet is the fixed set of column names a repository accepts. It is
// built from the model's schema, never from caller input.
type columnSet map[string]struct{}

func (s columnSet) check(column string) error {
	if _, ok := s[column]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	return nil
}

// apply adds every active condition as a bound equality predicate.
func (s columnSet) apply(db *gorm.DB, conds Conds) (*gorm.DB, int, error) {
	active := conds.active()
	for _, c := range active {
		if err := s.check(c.Column); err != nil {
			return nil, 0, err
		}
		db = db.Where(clause.Eq{Column: clause.Column{Name: c.Column}, Value: c.Value})
	}
	return db, len(active), nil
}
