package model

import "gorm.io/gorm"

// CharacterScoped lists the eight tables keyed by a character id, in the order
// the aggregate writes them. Items come last because they are not one-to-one.
var CharacterScoped = []interface{}{
	&Character{},
	&CharacterAffinity{},
	&CharacterStrength{},
	&CharacterBodyType{},
	&CharacterSkill{},
	&CharacterWeapon{},
	&CharacterCurrency{},
	&CharacterItem{},
}

// Reference lists the nine read-mostly lookup tables.
var Reference = []interface{}{
	&Realm{},
	&SkillInfo{},
	&WeaponInfo{},
	&BodyTypeInfo{},
	&Sect{},
	&Achievement{},
	&ItemInfo{},
	&ItemCategory{},
	&ItemCategoryRelation{},
}

// AutoMigrate creates or updates all tables in the given database.
func AutoMigrate(db *gorm.DB) error {
	all := make([]interface{}, 0, len(CharacterScoped)+len(Reference)+1)
	all = append(all, CharacterScoped...)
	all = append(all, Reference...)
	all = append(all, &AuditLog{})
	return db.AutoMigrate(all...)
}
