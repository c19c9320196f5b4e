package dal

import (
	"context"

	"github.com/qingyun/xiuxian/server/model"
	"gorm.io/gorm"
)

// RealmRepo reads the realm table.
type RealmRepo struct {
	*ReadOnly[model.Realm]
}

// FindByLevel returns the realm definition for level, or nil.
func (r *RealmRepo) FindByLevel(ctx context.Context, level int) (*model.Realm, error) {
	return r.FindByID(ctx, level)
}

// MaxLevel returns the highest seeded realm level and whether any realm exists.
func (r *RealmRepo) MaxLevel(ctx context.Context) (int, bool, error) {
	rows, err := r.FindAll(ctx, QueryOptions{OrderBy: "level", OrderDirection: Desc, Limit: 1})
	if err != nil || len(rows) == 0 {
		return 0, false, err
	}
	return rows[0].Level, true, nil
}

// SkillInfoRepo reads the skill table.
type SkillInfoRepo struct {
	*ReadOnly[model.SkillInfo]
}

// FindByType returns skills of one type.
func (r *SkillInfoRepo) FindByType(ctx context.Context, typ string, opts QueryOptions) ([]model.SkillInfo, error) {
	return r.FindWhere(ctx, Conds{Eq("type", typ)}, opts)
}

// WeaponInfoRepo reads the weapon table.
type WeaponInfoRepo struct {
	*ReadOnly[model.WeaponInfo]
}

// FindByType returns weapons of one type.
func (r *WeaponInfoRepo) FindByType(ctx context.Context, typ string, opts QueryOptions) ([]model.WeaponInfo, error) {
	return r.FindWhere(ctx, Conds{Eq("type", typ)}, opts)
}

// ItemInfoRepo reads the item template table.
type ItemInfoRepo struct {
	*ReadOnly[model.ItemInfo]
	db *gorm.DB
}

// FindByCategory returns the items linked to categoryID through the relation
// table.
func (r *ItemInfoRepo) FindByCategory(ctx context.Context, categoryID int) ([]model.ItemInfo, error) {
	rows := make([]model.ItemInfo, 0)
	err := r.db.WithContext(ctx).
		Joins("JOIN item_category_relations ON item_category_relations.item_id = items.id").
		Where("item_category_relations.category_id = ?", categoryID).
		Order("items.id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
