package model

// Reference tables are seeded once and only read by request traffic.

// Realm describes one cultivation realm level.
type Realm struct {
	Level            int    `gorm:"primaryKey;autoIncrement:false" json:"level"`
	Name             string `gorm:"size:32;not null" json:"name"`
	Stage            string `gorm:"size:16" json:"stage"`
	CultivationLimit int64  `gorm:"not null;default:0" json:"cultivation_limit"`
	LifespanBonus    int    `gorm:"not null;default:0" json:"lifespan_bonus"`
	Description      string `gorm:"type:text" json:"description"`
}

func (Realm) TableName() string { return "realms" }

// SkillInfo is a learnable skill or cultivation technique.
type SkillInfo struct {
	ID            int    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name          string `gorm:"size:64;not null" json:"name"`
	Type          string `gorm:"index:idx_skill_type;size:16" json:"type"`
	Element       string `gorm:"size:16" json:"element"`
	RequiredRealm int    `gorm:"not null;default:0" json:"required_realm"`
	Power         int    `gorm:"not null;default:0" json:"power"`
	Description   string `gorm:"type:text" json:"description"`
}

func (SkillInfo) TableName() string { return "skills" }

// WeaponInfo is a weapon template.
type WeaponInfo struct {
	ID            int    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name          string `gorm:"size:64;not null" json:"name"`
	Type          string `gorm:"index:idx_weapon_type;size:16" json:"type"`
	Grade         string `gorm:"size:16" json:"grade"`
	Attack        int    `gorm:"not null;default:0" json:"attack"`
	RequiredRealm int    `gorm:"not null;default:0" json:"required_realm"`
	Description   string `gorm:"type:text" json:"description"`
}

func (WeaponInfo) TableName() string { return "weapons" }

// BodyTypeInfo is a body constitution template.
type BodyTypeInfo struct {
	ID           int    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name         string `gorm:"size:64;not null" json:"name"`
	Rarity       string `gorm:"size:16" json:"rarity"`
	HPBonus      int    `gorm:"not null;default:0" json:"hp_bonus"`
	DefenseBonus int    `gorm:"not null;default:0" json:"defense_bonus"`
	Description  string `gorm:"type:text" json:"description"`
}

func (BodyTypeInfo) TableName() string { return "body_types" }

// Sect is a joinable organisation.
type Sect struct {
	ID          int    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name        string `gorm:"size:64;not null" json:"name"`
	Alignment   string `gorm:"size:16" json:"alignment"`
	MinRealm    int    `gorm:"not null;default:0" json:"min_realm"`
	Description string `gorm:"type:text" json:"description"`
}

func (Sect) TableName() string { return "sects" }

// Achievement is an unlockable achievement definition.
type Achievement struct {
	ID               int    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name             string `gorm:"size:64;not null" json:"name"`
	Category         string `gorm:"size:32" json:"category"`
	RewardReputation int64  `gorm:"not null;default:0" json:"reward_reputation"`
	Description      string `gorm:"type:text" json:"description"`
}

func (Achievement) TableName() string { return "achievements" }

// ItemInfo is an item template referenced by CharacterItem.ItemID.
type ItemInfo struct {
	ID          int    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name        string `gorm:"size:64;not null" json:"name"`
	Grade       string `gorm:"size:16" json:"grade"`
	Stackable   bool   `gorm:"not null;default:false" json:"stackable"`
	MaxStack    int    `gorm:"not null;default:1" json:"max_stack"`
	Price       int64  `gorm:"not null;default:0" json:"price"`
	Description string `gorm:"type:text" json:"description"`
}

func (ItemInfo) TableName() string { return "items" }

// ItemCategory groups items for browsing.
type ItemCategory struct {
	ID          int    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name        string `gorm:"size:32;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

func (ItemCategory) TableName() string { return "item_categories" }

// ItemCategoryRelation links items to categories (many-to-many).
type ItemCategoryRelation struct {
	ID         int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemID     int   `gorm:"uniqueIndex:idx_item_category;not null" json:"item_id"`
	CategoryID int   `gorm:"uniqueIndex:idx_item_category;index:idx_category;not null" json:"category_id"`
}

func (ItemCategoryRelation) TableName() string { return "item_category_relations" }
