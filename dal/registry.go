package dal

import (
	"sync"

	"github.com/qingyun/xiuxian/server/model"
	"gorm.io/gorm"
)

// Registry lazily builds and caches one repository per entity type. Build it
// once at start-up and pass it to whatever needs data access; tests that want
// fresh state call ClearCache or build a new Registry.
type Registry struct {
	db    *gorm.DB
	mu    sync.Mutex
	repos map[string]any
}

// NewRegistry returns an empty registry over db.
func NewRegistry(db *gorm.DB) *Registry {
	return &Registry{db: db, repos: make(map[string]any)}
}

// DB returns the underlying handle.
func (r *Registry) DB() *gorm.DB { return r.db }

// NewTransaction always returns a fresh, idle transaction.
func (r *Registry) NewTransaction() *Transaction {
	return NewTransaction(r.db)
}

// ClearCache drops every cached repository. In-flight transactions are not
// affected because they hold their own handles.
func (r *Registry) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.repos = make(map[string]any)
}

// Cached returns how many repositories are currently cached.
func (r *Registry) Cached() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.repos)
}

func lazy[R any](r *Registry, key string, build func(db *gorm.DB) R) R {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.repos[key]; ok {
		return v.(R)
	}
	v := build(r.db)
	r.repos[key] = v
	return v
}

// ---- character-scoped ----

// Characters returns the anchor table repository.
func (r *Registry) Characters() *CharacterRepo {
	return lazy(r, "characters", newCharacterRepo)
}

// Affinities returns the character_affinities repository.
func (r *Registry) Affinities() *Repository[model.CharacterAffinity] {
	return lazy(r, "character_affinities", mustRepository[model.CharacterAffinity])
}

// Strengths returns the character_strengths repository.
func (r *Registry) Strengths() *Repository[model.CharacterStrength] {
	return lazy(r, "character_strengths", mustRepository[model.CharacterStrength])
}

// BodyTypes returns the character_body_types repository.
func (r *Registry) BodyTypes() *Repository[model.CharacterBodyType] {
	return lazy(r, "character_body_types", mustRepository[model.CharacterBodyType])
}

// Skills returns the character_skills repository.
func (r *Registry) Skills() *Repository[model.CharacterSkill] {
	return lazy(r, "character_skills", mustRepository[model.CharacterSkill])
}

// Weapons returns the character_weapons repository.
func (r *Registry) Weapons() *Repository[model.CharacterWeapon] {
	return lazy(r, "character_weapons", mustRepository[model.CharacterWeapon])
}

// Currencies returns the character_currencies repository.
func (r *Registry) Currencies() *Repository[model.CharacterCurrency] {
	return lazy(r, "character_currencies", mustRepository[model.CharacterCurrency])
}

// Items returns the inventory repository.
func (r *Registry) Items() *ItemRepo {
	return lazy(r, "character_items", newItemRepo)
}

// ---- reference ----

// Realms returns the realm table, keyed by level.
func (r *Registry) Realms() *RealmRepo {
	return lazy(r, "realms", func(db *gorm.DB) *RealmRepo {
		return &RealmRepo{ReadOnly: mustReadOnly[model.Realm](db)}
	})
}

// SkillInfos returns the skill reference table.
func (r *Registry) SkillInfos() *SkillInfoRepo {
	return lazy(r, "skills", func(db *gorm.DB) *SkillInfoRepo {
		return &SkillInfoRepo{ReadOnly: mustReadOnly[model.SkillInfo](db)}
	})
}

// WeaponInfos returns the weapon reference table.
func (r *Registry) WeaponInfos() *WeaponInfoRepo {
	return lazy(r, "weapons", func(db *gorm.DB) *WeaponInfoRepo {
		return &WeaponInfoRepo{ReadOnly: mustReadOnly[model.WeaponInfo](db)}
	})
}

// BodyTypeInfos returns the body type reference table.
func (r *Registry) BodyTypeInfos() *ReadOnly[model.BodyTypeInfo] {
	return lazy(r, "body_types", mustReadOnly[model.BodyTypeInfo])
}

// Sects returns the sect reference table.
func (r *Registry) Sects() *ReadOnly[model.Sect] {
	return lazy(r, "sects", mustReadOnly[model.Sect])
}

// Achievements returns the achievement reference table.
func (r *Registry) Achievements() *ReadOnly[model.Achievement] {
	return lazy(r, "achievements", mustReadOnly[model.Achievement])
}

// ItemInfos returns the item reference table.
func (r *Registry) ItemInfos() *ItemInfoRepo {
	return lazy(r, "items", func(db *gorm.DB) *ItemInfoRepo {
		return &ItemInfoRepo{ReadOnly: mustReadOnly[model.ItemInfo](db), db: db}
	})
}

// ItemCategories returns the item category reference table.
func (r *Registry) ItemCategories() *ReadOnly[model.ItemCategory] {
	return lazy(r, "item_categories", mustReadOnly[model.ItemCategory])
}

// ItemCategoryRelations returns the item to category join table.
func (r *Registry) ItemCategoryRelations() *ReadOnly[model.ItemCategoryRelation] {
	return lazy(r, "item_category_relations", mustReadOnly[model.ItemCategoryRelation])
}
