package character

import (
	"context"
	"fmt"

	"github.com/qingyun/xiuxian/server/audit"
	"github.com/qingyun/xiuxian/server/model"
	"go.uber.org/zap"
)

// ResourceType names one currency column.
type ResourceType string

const (
	GoldCoin         ResourceType = "gold_coin"
	SpiritStone      ResourceType = "spirit_stone"
	MidSpiritStone   ResourceType = "mid_spirit_stone"
	HighSpiritStone  ResourceType = "high_spirit_stone"
	SectContribution ResourceType = "sect_contribution"
)

func (r ResourceType) valid() bool {
	switch r {
	case GoldCoin, SpiritStone, MidSpiritStone, HighSpiritStone, SectContribution:
		return true
	}
	return false
}

func currencyValue(c *model.CharacterCurrency, r ResourceType) int64 {
	switch r {
	case GoldCoin:
		return c.GoldCoin
	case SpiritStone:
		return c.SpiritStone
	case MidSpiritStone:
		return c.MidSpiritStone
	case HighSpiritStone:
		return c.HighSpiritStone
	case SectContribution:
		return c.SectContribution
	}
	return 0
}

// applyDelta floors a decrease at zero but rejects an increase that would
// pass ceiling. The ceiling is compared before adding so that no delta can
// wrap around.
func applyDelta(current, delta, ceiling int64) (int64, error) {
	if delta > 0 && (current > ceiling || delta > ceiling-current) {
		return current, fmt.Errorf("%w: %d + %d > %d", ErrResourceCapExceeded, current, delta, ceiling)
	}
	if delta < 0 && delta <= -current {
		return 0, nil
	}
	return current + delta, nil
}

// AdjustCurrency adds delta to one currency of id.
func (s *Service) AdjustCurrency(ctx context.Context, id string, typ ResourceType, delta int64) (*model.CharacterCurrency, error) {
	if !typ.valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidResourceType, typ)
	}
	cur, err := s.reg.Currencies().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cur == nil {
		return nil, ErrRecordNotFound
	}
	before := currencyValue(cur, typ)
	next, err := applyDelta(before, delta, s.rules.MaxCurrency)
	s.recordAdjust(ctx, id, string(typ), before, delta, next, err)
	if err != nil {
		return nil, err
	}
	cur, err = s.reg.Currencies().Update(ctx, id, map[string]any{string(typ): next})
	if err != nil {
		return nil, err
	}
	if cur == nil {
		return nil, ErrRecordNotFound
	}
	return cur, nil
}

// AdjustSectLevel adds delta to the sect level of id.
func (s *Service) AdjustSectLevel(ctx context.Context, id string, delta int64) (*model.Character, error) {
	return s.adjustCharacter(ctx, id, "sect_level", delta, int64(s.rules.MaxSectLevel), func(c *model.Character) int64 {
		return int64(c.SectLevel)
	})
}

// AdjustReputation adds delta to the reputation of id.
func (s *Service) AdjustReputation(ctx context.Context, id string, delta int64) (*model.Character, error) {
	return s.adjustCharacter(ctx, id, "reputation", delta, s.rules.MaxReputation, func(c *model.Character) int64 {
		return c.Reputation
	})
}

func (s *Service) adjustCharacter(ctx context.Context, id, column string, delta, ceiling int64, get func(*model.Character) int64) (*model.Character, error) {
	c, err := s.GetCharacter(ctx, id)
	if err != nil {
		return nil, err
	}
	before := get(c)
	next, err := applyDelta(before, delta, ceiling)
	s.recordAdjust(ctx, id, column, before, delta, next, err)
	if err != nil {
		return nil, err
	}
	c, err = s.reg.Characters().Update(ctx, id, map[string]any{column: next})
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCharacterNotFound
	}
	return s.refreshEligibility(ctx, s.reg.Characters(), c)
}

func (s *Service) recordAdjust(ctx context.Context, id, field string, before, delta, after int64, err error) {
	s.record(ctx, id, audit.ActionResourceAdjust, map[string]any{
		"field":  field,
		"before": before,
		"delta":  delta,
		"after":  after,
	}, err)
	if err != nil {
		s.logger.Debug("resource adjust rejected", zap.String("character_id", id), zap.String("field", field), zap.Error(err))
	}
}
