package model

import (
	"time"

	"gorm.io/datatypes"
)

// The six one-to-one dependent records. Each uses the character id as its
// primary key, so at most one row can exist per character.

// CharacterAffinity holds spiritual-root affinities per element.
type CharacterAffinity struct {
	CharacterID string    `gorm:"primaryKey;size:8" json:"character_id"`
	Metal       int       `gorm:"not null;default:0" json:"metal"`
	Wood        int       `gorm:"not null;default:0" json:"wood"`
	Water       int       `gorm:"not null;default:0" json:"water"`
	Fire        int       `gorm:"not null;default:0" json:"fire"`
	Earth       int       `gorm:"not null;default:0" json:"earth"`
	Wind        int       `gorm:"not null;default:0" json:"wind"`
	Thunder     int       `gorm:"not null;default:0" json:"thunder"`
	Ice         int       `gorm:"not null;default:0" json:"ice"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (CharacterAffinity) TableName() string { return "character_affinities" }

// CharacterStrength holds combat attributes.
type CharacterStrength struct {
	CharacterID  string    `gorm:"primaryKey;size:8" json:"character_id"`
	HP           int64     `gorm:"not null;default:0" json:"hp"`
	MaxHP        int64     `gorm:"not null;default:0" json:"max_hp"`
	Spirit       int64     `gorm:"not null;default:0" json:"spirit"`
	MaxSpirit    int64     `gorm:"not null;default:0" json:"max_spirit"`
	Attack       int64     `gorm:"not null;default:0" json:"attack"`
	Defense      int64     `gorm:"not null;default:0" json:"defense"`
	Speed        int64     `gorm:"not null;default:0" json:"speed"`
	SoulStrength int64     `gorm:"not null;default:0" json:"soul_strength"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (CharacterStrength) TableName() string { return "character_strengths" }

// CharacterBodyType records the active and owned body types.
type CharacterBodyType struct {
	CharacterID    string         `gorm:"primaryKey;size:8" json:"character_id"`
	BodyTypeID     *int           `json:"body_type_id"`
	BodyLevel      int            `gorm:"not null;default:0" json:"body_level"`
	BodyExp        int64          `gorm:"not null;default:0" json:"body_exp"`
	OwnedBodyTypes datatypes.JSON `json:"owned_body_types"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (CharacterBodyType) TableName() string { return "character_body_types" }

// CharacterSkill records the cultivation technique and equipped skill slots.
type CharacterSkill struct {
	CharacterID   string         `gorm:"primaryKey;size:8" json:"character_id"`
	TechniqueID   *int           `json:"technique_id"`
	Slot1         *int           `json:"slot1"`
	Slot2         *int           `json:"slot2"`
	Slot3         *int           `json:"slot3"`
	Slot4         *int           `json:"slot4"`
	LearnedSkills datatypes.JSON `json:"learned_skills"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (CharacterSkill) TableName() string { return "character_skills" }

// CharacterWeapon records the wielded weapon and proficiency.
type CharacterWeapon struct {
	CharacterID  string         `gorm:"primaryKey;size:8" json:"character_id"`
	WeaponID     *int           `json:"weapon_id"`
	WeaponLevel  int            `gorm:"not null;default:0" json:"weapon_level"`
	Proficiency  int64          `gorm:"not null;default:0" json:"proficiency"`
	OwnedWeapons datatypes.JSON `json:"owned_weapons"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (CharacterWeapon) TableName() string { return "character_weapons" }

// CharacterCurrency holds every currency balance.
type CharacterCurrency struct {
	CharacterID      string    `gorm:"primaryKey;size:8" json:"character_id"`
	GoldCoin         int64     `gorm:"not null;default:0" json:"gold_coin"`
	SpiritStone      int64     `gorm:"not null;default:0" json:"spirit_stone"`
	MidSpiritStone   int64     `gorm:"not null;default:0" json:"mid_spirit_stone"`
	HighSpiritStone  int64     `gorm:"not null;default:0" json:"high_spirit_stone"`
	SectContribution int64     `gorm:"not null;default:0" json:"sect_contribution"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (CharacterCurrency) TableName() string { return "character_currencies" }
