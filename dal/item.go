package dal

import (
	"context"

	"github.com/qingyun/xiuxian/server/model"
	"gorm.io/gorm"
)

// ItemRepo adds per-character lookups to the inventory table.
type ItemRepo struct {
	*Repository[model.CharacterItem]
}

func newItemRepo(db *gorm.DB) *ItemRepo {
	return &ItemRepo{Repository: mustRepository[model.CharacterItem](db)}
}

// WithTx returns a copy bound to tx.
func (r *ItemRepo) WithTx(tx *gorm.DB) *ItemRepo {
	return &ItemRepo{Repository: r.Repository.WithTx(tx)}
}

// FindByCharacter returns every item row owned by characterID.
func (r *ItemRepo) FindByCharacter(ctx context.Context, characterID string, opts QueryOptions) ([]model.CharacterItem, error) {
	return r.FindWhere(ctx, Conds{Eq("character_id", characterID)}, opts)
}

// FindEquipped returns the equipped item rows of characterID.
func (r *ItemRepo) FindEquipped(ctx context.Context, characterID string) ([]model.CharacterItem, error) {
	return r.FindWhere(ctx, Conds{Eq("character_id", characterID), Eq("equipped", true)},
		QueryOptions{OrderBy: "slot_position"})
}

// FindOwned returns item row id only if it belongs to characterID.
func (r *ItemRepo) FindOwned(ctx context.Context, characterID string, id int64) (*model.CharacterItem, error) {
	return r.FindOneWhere(ctx, Conds{Eq("id", id), Eq("character_id", characterID)})
}
