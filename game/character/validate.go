package character

import (
	"fmt"
	"maps"
	"slices"

	"github.com/qingyun/xiuxian/server/model"
)

// checkCharacter validates a full anchor row before it is stored.
func (s *Service) checkCharacter(c *model.Character) error {
	if c.RealmLevel < 0 || c.RealmLevel > s.rules.MaxRealmLevel {
		return fmt.Errorf("%w: %d", ErrInvalidRealmLevel, c.RealmLevel)
	}
	if !c.CultivationState.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStateTransition, c.CultivationState)
	}
	counters := []struct {
		column string
		value  int64
	}{
		{"cultivation_value", c.CultivationValue},
		{"cultivation_limit_base", c.CultivationLimitBase},
		{"cultivation_limit_add", c.CultivationLimitAdd},
		{"cultivation_speed_base", c.CultivationSpeedBase},
		{"cultivation_speed_add", c.CultivationSpeedAdd},
		{"sect_level", int64(c.SectLevel)},
		{"reputation", c.Reputation},
	}
	for _, f := range counters {
		if f.value < 0 {
			return fmt.Errorf("%w: %s %d", ErrNegativeValue, f.column, f.value)
		}
	}
	if err := withinCeiling("sect_level", int64(c.SectLevel), int64(s.rules.MaxSectLevel)); err != nil {
		return err
	}
	if err := withinCeiling("reputation", c.Reputation, s.rules.MaxReputation); err != nil {
		return err
	}
	if !c.CultivationOverLimit && c.CultivationValue > c.CultivationLimit() {
		return fmt.Errorf("%w: %d > %d", ErrCultivationAboveLimit, c.CultivationValue, c.CultivationLimit())
	}
	return nil
}

// checkCurrency validates every balance of cur against the currency ceiling.
func (s *Service) checkCurrency(cur *model.CharacterCurrency) error {
	for _, typ := range []ResourceType{GoldCoin, SpiritStone, MidSpiritStone, HighSpiritStone, SectContribution} {
		v := currencyValue(cur, typ)
		if v < 0 {
			return fmt.Errorf("%w: %s %d", ErrNegativeValue, typ, v)
		}
		if err := withinCeiling(string(typ), v, s.rules.MaxCurrency); err != nil {
			return err
		}
	}
	return nil
}

func withinCeiling(column string, v, ceiling int64) error {
	if v > ceiling {
		return fmt.Errorf("%w: %s %d > %d", ErrResourceCapExceeded, column, v, ceiling)
	}
	return nil
}

// nonNegative rejects any negative integer column in values, as produced by
// dal.Repository.Values.
func nonNegative(values map[string]any) error {
	for _, col := range slices.Sorted(maps.Keys(values)) {
		var n int64
		switch v := values[col].(type) {
		case int:
			n = int64(v)
		case int64:
			n = v
		case *int:
			if v == nil {
				continue
			}
			n = int64(*v)
		default:
			continue
		}
		if n < 0 {
			return fmt.Errorf("%w: %s %d", ErrNegativeValue, col, n)
		}
	}
	return nil
}
