package model

import "time"

// CharacterItem is one inventory row. Equipped and SlotPosition always change
// together: an equipped item has a slot, an unequipped one has none.
type CharacterItem struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CharacterID  string    `gorm:"index:idx_char_item;size:8;not null" json:"character_id"`
	ItemID       int       `gorm:"not null" json:"item_id"`
	Quantity     int       `gorm:"not null;default:1" json:"quantity"`
	Level        int       `gorm:"not null;default:0" json:"level"`
	Equipped     bool      `gorm:"not null;default:false" json:"equipped"`
	SlotPosition *int      `json:"slot_position"`
	Durability   *int      `json:"durability"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (CharacterItem) TableName() string { return "character_items" }
