package character

import (
	"context"
	"strconv"
	"strings"

	"github.com/qingyun/xiuxian/server/dal"
	"github.com/qingyun/xiuxian/server/model"
)

// SearchMode selects the single predicate SearchCharacters applies.
type SearchMode string

const (
	SearchByName  SearchMode = "name"
	SearchBySect  SearchMode = "sect"
	SearchByRealm SearchMode = "realm"
)

// SearchCharacters finds characters by name substring, sect id or realm
// level, depending on mode.
func (s *Service) SearchCharacters(ctx context.Context, term string, mode SearchMode, opts dal.QueryOptions) ([]model.Character, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrInvalidSearchTerm
	}
	chars := s.reg.Characters()
	switch mode {
	case SearchByName, "":
		return chars.FindByNameContaining(ctx, term, opts)
	case SearchBySect:
		n, err := strconv.Atoi(term)
		if err != nil {
			return nil, ErrInvalidSearchTerm
		}
		return chars.FindBySect(ctx, n, opts)
	case SearchByRealm:
		n, err := strconv.Atoi(term)
		if err != nil {
			return nil, ErrInvalidSearchTerm
		}
		return chars.FindByRealmLevel(ctx, n, opts)
	}
	return nil, ErrInvalidSearchMode
}
