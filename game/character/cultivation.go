package character

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/qingyun/xiuxian/server/audit"
	"github.com/qingyun/xiuxian/server/dal"
	"github.com/qingyun/xiuxian/server/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BreakthroughResult describes one breakthrough attempt.
type BreakthroughResult struct {
	Success   bool             `json:"success"`
	UsedItem  bool             `json:"used_item"`
	FromLevel int              `json:"from_level"`
	ToLevel   int              `json:"to_level"`
	Character *model.Character `json:"character"`
}

// meetsThreshold reports every breakthrough condition except the
// cultivation value threshold.
func (s *Service) meetsThreshold(c *model.Character) bool {
	return !c.CultivationOverLimit &&
		c.RealmLevel < s.rules.MaxRealmLevel &&
		!c.BreakthroughInProgress
}

// eligible reports whether c may attempt a breakthrough without an item.
func (s *Service) eligible(c *model.Character) bool {
	return c.CultivationValue >= c.CultivationLimit() && s.meetsThreshold(c)
}

// Eligible reports whether c may attempt a breakthrough, with or without an
// item.
func (s *Service) Eligible(c *model.Character, useItem bool) bool {
	if s.eligible(c) {
		return true
	}
	return useItem && c.CanBreakthroughWithItem && s.meetsThreshold(c)
}

// refreshEligibility keeps the stored can_breakthrough flag in line with the
// row's current values.
func (s *Service) refreshEligibility(ctx context.Context, repo *dal.CharacterRepo, c *model.Character) (*model.Character, error) {
	want := s.eligible(c)
	if c.CanBreakthrough == want {
		return c, nil
	}
	return repo.Update(ctx, c.ID, map[string]any{"can_breakthrough": want})
}

// transition moves id from one cultivation state to another with a single
// conditional update, so a concurrent transition cannot be lost.
func (s *Service) transition(ctx context.Context, id string, from, to model.CultivationState, action string) (*model.Character, error) {
	n, err := s.reg.Characters().UpdateMany(ctx,
		dal.Conds{dal.Eq("id", id), dal.Eq("cultivation_state", string(from))},
		map[string]any{"cultivation_state": string(to)})
	if err != nil {
		return nil, err
	}
	c, err := s.GetCharacter(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == 0 && c.CultivationState != to {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, c.CultivationState, to)
	}
	s.record(ctx, id, action, map[string]string{"from": string(from), "to": string(to)}, nil)
	return c, nil
}

// StartCultivation moves an idle character into cultivation. Starting an
// already cultivating character is a no-op.
func (s *Service) StartCultivation(ctx context.Context, id string) (*model.Character, error) {
	return s.transition(ctx, id, model.StateIdle, model.StateCultivating, audit.ActionCultivationStart)
}

// StopCultivation returns a cultivating character to idle. Stopping an idle
// character is a no-op.
func (s *Service) StopCultivation(ctx context.Context, id string) (*model.Character, error) {
	return s.transition(ctx, id, model.StateCultivating, model.StateIdle, audit.ActionCultivationStop)
}

// addAttempts bounds how often AddCultivation re-reads a row that changed
// under it.
const addAttempts = 3

// AddCultivation adds amount to the cultivation value. The value stops at the
// current limit unless the over-limit flag is set.
//
// The write is conditional on the realm, the value, the limit and the
// in-progress flag still matching what was read, so a concurrent breakthrough
// is never overwritten with a stale value.
func (s *Service) AddCultivation(ctx context.Context, id string, amount int64) (*model.Character, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQuantity, amount)
	}
	chars := s.reg.Characters()
	for range addAttempts {
		c, err := s.GetCharacter(ctx, id)
		if err != nil {
			return nil, err
		}
		if c.BreakthroughInProgress {
			return nil, ErrBreakthroughInProgress
		}
		next := c.CultivationValue + min(amount, math.MaxInt64-c.CultivationValue)
		if limit := c.CultivationLimit(); !c.CultivationOverLimit && next > limit {
			next = max(limit, c.CultivationValue)
		}
		before := c.CultivationValue
		c.CultivationValue = next
		eligible := s.eligible(c)
		if next == before && eligible == c.CanBreakthrough {
			return c, nil
		}
		n, err := chars.UpdateMany(ctx, dal.Conds{
			dal.Eq("id", id),
			dal.Eq("realm_level", c.RealmLevel),
			dal.Eq("cultivation_value", before),
			dal.Eq("cultivation_limit_base", c.CultivationLimitBase),
			dal.Eq("cultivation_limit_add", c.CultivationLimitAdd),
			dal.Eq("cultivation_over_limit", c.CultivationOverLimit),
			dal.Eq("breakthrough_in_progress", false),
		}, map[string]any{
			"cultivation_value": next,
			"can_breakthrough":  eligible,
		})
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return s.GetCharacter(ctx, id)
		}
	}
	s.logger.Debug("add cultivation lost every race", zap.String("character_id", id))
	return nil, ErrConcurrentUpdate
}

// Breakthrough attempts to advance id by one realm level.
//
// Concurrent attempts for the same character are serialised twice: a
// cache-held lock turns away callers in any process sharing the cache, and
// inside the transaction the in-progress flag is claimed with a conditional
// update so that only one attempt can ever hold it. When useItem is set and
// the character holds an item eligibility, the value threshold is waived,
// the failure probability is halved, and the eligibility is consumed.
func (s *Service) Breakthrough(ctx context.Context, id string, useItem bool) (*BreakthroughResult, error) {
	release, ok, err := s.locks.TryLock(ctx, breakthroughKey(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrBreakthroughInProgress
	}
	defer release()

	res := &BreakthroughResult{}
	err = s.reg.NewTransaction().Execute(ctx, func(tx *gorm.DB) error {
		chars := s.reg.Characters().WithTx(tx)
		c, err := chars.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return ErrCharacterNotFound
		}
		if c.BreakthroughInProgress {
			return ErrBreakthroughInProgress
		}
		if !s.Eligible(c, useItem) {
			return ErrNotEligibleForBreakthrough
		}
		res.UsedItem = useItem && c.CanBreakthroughWithItem

		won, err := chars.ClaimBreakthrough(ctx, id)
		if err != nil {
			return err
		}
		if !won {
			return ErrBreakthroughInProgress
		}
		// Writes that committed before the claim are visible now; later ones
		// are held off by the in-progress flag.
		if c, err = chars.FindByID(ctx, id); err != nil {
			return err
		}
		if c == nil {
			return ErrCharacterNotFound
		}

		p := s.rules.Breakthrough.FailureProbability
		if res.UsedItem {
			p /= 2
		}
		res.FromLevel = c.RealmLevel
		res.Success = p <= 0 || s.roll() >= p

		changes := map[string]any{"breakthrough_in_progress": false}
		if res.UsedItem {
			changes["can_breakthrough_with_item"] = false
		}
		if res.Success {
			res.ToLevel = c.RealmLevel + 1
			changes["realm_level"] = res.ToLevel
			changes["cultivation_value"] = int64(0)
			changes["can_breakthrough"] = false
			if realm, err := s.reg.Realms().FindByLevel(ctx, res.ToLevel); err != nil {
				return err
			} else if realm != nil && realm.CultivationLimit > 0 {
				changes["cultivation_limit_base"] = realm.CultivationLimit
			}
		} else {
			res.ToLevel = c.RealmLevel
			changes["breakthrough_failures"] = c.BreakthroughFailures + 1
			changes["cultivation_value"] = c.CultivationValue / 2
			changes["can_breakthrough"] = false
		}
		res.Character, err = chars.Update(ctx, id, changes)
		return err
	})

	detail := map[string]any{"use_item": useItem}
	if err == nil {
		detail["success"] = res.Success
		detail["from"] = res.FromLevel
		detail["to"] = res.ToLevel
	}
	s.record(ctx, id, audit.ActionBreakthrough, detail, err)
	if err != nil {
		if !isBusinessError(err) {
			s.logger.Error("breakthrough failed", zap.String("character_id", id), zap.Error(err))
		}
		return nil, err
	}
	s.logger.Info("breakthrough attempted",
		zap.String("character_id", id),
		zap.Bool("success", res.Success),
		zap.Int("from", res.FromLevel),
		zap.Int("to", res.ToLevel))
	return res, nil
}

func isBusinessError(err error) bool {
	for _, target := range []error{
		ErrCharacterNotFound, ErrItemNotFound, ErrRecordNotFound, ErrNotEligibleForBreakthrough,
		ErrBreakthroughInProgress, ErrResourceCapExceeded, ErrInvalidResourceType,
		ErrInvalidStateTransition, ErrInvalidQuantity, ErrInvalidRealmLevel,
		ErrNegativeValue, ErrCultivationAboveLimit, ErrConcurrentUpdate,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
