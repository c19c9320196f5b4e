package dal

import (
	"context"
	"strings"

	"github.com/qingyun/xiuxian/server/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CharacterRepo adds name search and the breakthrough claim to the generic
// repository for the anchor table.
type CharacterRepo struct {
	*Repository[model.Character]
}

func newCharacterRepo(db *gorm.DB) *CharacterRepo {
	return &CharacterRepo{Repository: mustRepository[model.Character](db)}
}

// WithTx returns a copy bound to tx.
func (r *CharacterRepo) WithTx(tx *gorm.DB) *CharacterRepo {
	return &CharacterRepo{Repository: r.Repository.WithTx(tx)}
}

// escapeLike escapes LIKE wildcards using '!' as the escape character, which
// every supported dialect accepts without string-literal quirks.
func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}

// FindByNameContaining returns characters whose name contains term.
func (r *CharacterRepo) FindByNameContaining(ctx context.Context, term string, opts QueryOptions) ([]model.Character, error) {
	db := r.conn(ctx).Where(clause.Expr{
		SQL:  "? LIKE ? ESCAPE '!'",
		Vars: []any{clause.Column{Name: "name"}, "%" + escapeLike(term) + "%"},
	})
	db, err := r.order(db, opts)
	if err != nil {
		return nil, err
	}
	rows := make([]model.Character, 0)
	if err := db.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindBySect returns members of a sect.
func (r *CharacterRepo) FindBySect(ctx context.Context, sectID int, opts QueryOptions) ([]model.Character, error) {
	return r.FindWhere(ctx, Conds{Eq("sect_id", sectID)}, opts)
}

// FindByRealmLevel returns characters at exactly level.
func (r *CharacterRepo) FindByRealmLevel(ctx context.Context, level int, opts QueryOptions) ([]model.Character, error) {
	return r.FindWhere(ctx, Conds{Eq("realm_level", level)}, opts)
}

// ClaimBreakthrough sets breakthrough_in_progress if it is currently clear and
// reports whether this caller won the claim. Inside a transaction the row
// stays locked until commit, so a competing claim waits and then re-checks.
func (r *CharacterRepo) ClaimBreakthrough(ctx context.Context, id string) (bool, error) {
	res := r.conn(ctx).Model(&model.Character{}).
		Where(clause.Eq{Column: clause.Column{Name: "id"}, Value: id}).
		Where(clause.Eq{Column: clause.Column{Name: "breakthrough_in_progress"}, Value: false}).
		Update("breakthrough_in_progress", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
