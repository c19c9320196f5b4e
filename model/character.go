package model

import "time"

// CultivationState is the label stored in characters.cultivation_state.
type CultivationState string

const (
	StateIdle               CultivationState = "idle"
	StateCultivating        CultivationState = "cultivating"
	StateSecluded           CultivationState = "secluded"
	StateInjuredCultivating CultivationState = "injured_cultivating"
	StateEnlightenment      CultivationState = "enlightenment"
)

// Valid reports whether s is one of the five known labels.
func (s CultivationState) Valid() bool {
	switch s {
	case StateIdle, StateCultivating, StateSecluded, StateInjuredCultivating, StateEnlightenment:
		return true
	}
	return false
}

// Character is the anchor row of the character aggregate. Every dependent
// table is keyed by Character.ID.
type Character struct {
	ID       string     `gorm:"primaryKey;size:8" json:"id"`
	Name     string     `gorm:"index:idx_char_name;size:64;not null" json:"name"`
	Gender   string     `gorm:"size:16;not null" json:"gender"`
	Birthday *time.Time `json:"birthday"`
	Alias    *string    `gorm:"size:64" json:"alias"`

	RealmLevel              int              `gorm:"index:idx_char_realm;not null;default:0" json:"realm_level"`
	CultivationState        CultivationState `gorm:"size:32;not null;default:idle" json:"cultivation_state"`
	CultivationValue        int64            `gorm:"not null;default:0" json:"cultivation_value"`
	CultivationLimitBase    int64            `gorm:"not null;default:0" json:"cultivation_limit_base"`
	CultivationLimitAdd     int64            `gorm:"not null;default:0" json:"cultivation_limit_add"`
	CultivationSpeedBase    int64            `gorm:"not null;default:0" json:"cultivation_speed_base"`
	CultivationSpeedAdd     int64            `gorm:"not null;default:0" json:"cultivation_speed_add"`
	CultivationOverLimit    bool             `gorm:"not null;default:false" json:"cultivation_over_limit"`
	CanBreakthrough         bool             `gorm:"not null;default:false" json:"can_breakthrough"`
	CanBreakthroughWithItem bool             `gorm:"not null;default:false" json:"can_breakthrough_with_item"`
	BreakthroughInProgress  bool             `gorm:"not null;default:false" json:"breakthrough_in_progress"`
	BreakthroughFailures    int              `gorm:"not null;default:0" json:"breakthrough_failures"`

	SectJoined bool    `gorm:"not null;default:false" json:"sect_joined"`
	SectID     *int    `gorm:"index:idx_char_sect" json:"sect_id"`
	SectTitle  *string `gorm:"size:32" json:"sect_title"`
	SectLevel  int     `gorm:"not null;default:0" json:"sect_level"`
	Reputation int64   `gorm:"not null;default:0" json:"reputation"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Character) TableName() string { return "characters" }

// CultivationLimit is the cultivation value at which a breakthrough is possible.
func (c *Character) CultivationLimit() int64 {
	return c.CultivationLimitBase + c.CultivationLimitAdd
}
