package character

import (
	"context"
	"fmt"
	"maps"
	"math/rand/v2"

	"github.com/qingyun/xiuxian/server/audit"
	"github.com/qingyun/xiuxian/server/cache"
	"github.com/qingyun/xiuxian/server/config"
	"github.com/qingyun/xiuxian/server/dal"
	"github.com/qingyun/xiuxian/server/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// CreateInput is the payload for a new character. Character.ID is ignored
// and generated; the dependent records' CharacterID fields are overwritten.
type CreateInput struct {
	Character model.Character
	Affinity  model.CharacterAffinity
	Strength  model.CharacterStrength
	BodyType  model.CharacterBodyType
	Skill     model.CharacterSkill
	Weapon    model.CharacterWeapon
	Currency  model.CharacterCurrency
}

// Aggregate is a character with its dependent records and inventory. A nil
// dependent means the row does not exist.
type Aggregate struct {
	Character *model.Character         `json:"character"`
	Affinity  *model.CharacterAffinity `json:"affinity"`
	Strength  *model.CharacterStrength `json:"strength"`
	BodyType  *model.CharacterBodyType `json:"body_type"`
	Skill     *model.CharacterSkill    `json:"skill"`
	Weapon    *model.CharacterWeapon   `json:"weapon"`
	Currency  *model.CharacterCurrency `json:"currency"`
	Items     []model.CharacterItem    `json:"items"`
}

// Option configures a Service.
type Option func(*Service)

// WithIDGenerator replaces the default TimestampID generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Service) { s.newID = gen }
}

// WithRand replaces the random source used for breakthrough rolls. fn must
// return values in [0,1).
func WithRand(fn func() float64) Option {
	return func(s *Service) { s.roll = fn }
}

// WithAudit records aggregate mutations through r.
func WithAudit(r audit.Recorder) Option {
	return func(s *Service) { s.audit = r }
}

// Service assembles and mutates character aggregates.
type Service struct {
	reg    *dal.Registry
	rules  config.GameConfig
	locks  *Locker
	newID  IDGenerator
	roll   func() float64
	audit  audit.Recorder
	logger *zap.Logger
}

// NewService creates a character Service.
func NewService(reg *dal.Registry, c cache.Cache, rules config.GameConfig, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		reg:    reg,
		rules:  rules,
		locks:  NewLocker(c, rules.Breakthrough.LockTTL, logger),
		newID:  TimestampID,
		roll:   rand.Float64,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rules returns the game rules the service enforces.
func (s *Service) Rules() config.GameConfig { return s.rules }

func (s *Service) record(ctx context.Context, id, action string, detail any, err error) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, audit.Entry{CharacterID: id, Action: action, Detail: detail, Err: err})
}

// CreateCharacter inserts the anchor row and its six dependent rows in one
// transaction and returns the stored aggregate. Any failure leaves no row
// behind for the generated id.
func (s *Service) CreateCharacter(ctx context.Context, in CreateInput) (*Aggregate, error) {
	c := in.Character
	if c.CultivationState == "" {
		c.CultivationState = model.StateIdle
	}
	if c.CultivationLimitBase == 0 {
		c.CultivationLimitBase = s.rules.DefaultLimitBase
	}
	if c.CultivationSpeedBase == 0 {
		c.CultivationSpeedBase = s.rules.DefaultSpeedBase
	}
	if err := s.checkCharacter(&c); err != nil {
		return nil, err
	}
	aff, str, body, skill, weapon, cur := in.Affinity, in.Strength, in.BodyType, in.Skill, in.Weapon, in.Currency
	if err := s.checkCurrency(&cur); err != nil {
		return nil, err
	}
	for _, values := range []map[string]any{
		s.reg.Affinities().Values(ctx, &aff),
		s.reg.Strengths().Values(ctx, &str),
		s.reg.BodyTypes().Values(ctx, &body),
		s.reg.Skills().Values(ctx, &skill),
		s.reg.Weapons().Values(ctx, &weapon),
	} {
		if err := nonNegative(values); err != nil {
			return nil, err
		}
	}
	c.BreakthroughInProgress = false
	c.BreakthroughFailures = 0
	c.ID = s.newID()
	c.CanBreakthrough = s.eligible(&c)

	id := c.ID
	aff.CharacterID, str.CharacterID, body.CharacterID = id, id, id
	skill.CharacterID, weapon.CharacterID, cur.CharacterID = id, id, id

	agg := &Aggregate{Items: []model.CharacterItem{}}
	err := s.reg.NewTransaction().Execute(ctx, func(tx *gorm.DB) error {
		var err error
		if agg.Character, err = s.reg.Characters().WithTx(tx).Create(ctx, &c); err != nil {
			return err
		}
		if agg.Affinity, err = s.reg.Affinities().WithTx(tx).Create(ctx, &aff); err != nil {
			return err
		}
		if agg.Strength, err = s.reg.Strengths().WithTx(tx).Create(ctx, &str); err != nil {
			return err
		}
		if agg.BodyType, err = s.reg.BodyTypes().WithTx(tx).Create(ctx, &body); err != nil {
			return err
		}
		if agg.Skill, err = s.reg.Skills().WithTx(tx).Create(ctx, &skill); err != nil {
			return err
		}
		if agg.Weapon, err = s.reg.Weapons().WithTx(tx).Create(ctx, &weapon); err != nil {
			return err
		}
		agg.Currency, err = s.reg.Currencies().WithTx(tx).Create(ctx, &cur)
		return err
	})
	s.record(ctx, id, audit.ActionCharacterCreate, map[string]any{"name": c.Name}, err)
	if err != nil {
		s.logger.Warn("create character failed", zap.String("character_id", id), zap.Error(err))
		return nil, err
	}
	s.logger.Info("character created", zap.String("character_id", id), zap.String("name", c.Name))
	return agg, nil
}

// GetCharacter returns the anchor row only.
func (s *Service) GetCharacter(ctx context.Context, id string) (*model.Character, error) {
	c, err := s.reg.Characters().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCharacterNotFound
	}
	return c, nil
}

// GetCompleteCharacterInfo reads the anchor, its six dependents and the
// inventory concurrently. Missing dependents are left nil.
func (s *Service) GetCompleteCharacterInfo(ctx context.Context, id string) (*Aggregate, error) {
	agg := &Aggregate{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		agg.Character, err = s.reg.Characters().FindByID(gctx, id)
		return
	})
	g.Go(func() (err error) {
		agg.Affinity, err = s.reg.Affinities().FindByID(gctx, id)
		return
	})
	g.Go(func() (err error) {
		agg.Strength, err = s.reg.Strengths().FindByID(gctx, id)
		return
	})
	g.Go(func() (err error) {
		agg.BodyType, err = s.reg.BodyTypes().FindByID(gctx, id)
		return
	})
	g.Go(func() (err error) {
		agg.Skill, err = s.reg.Skills().FindByID(gctx, id)
		return
	})
	g.Go(func() (err error) {
		agg.Weapon, err = s.reg.Weapons().FindByID(gctx, id)
		return
	})
	g.Go(func() (err error) {
		agg.Currency, err = s.reg.Currencies().FindByID(gctx, id)
		return
	})
	g.Go(func() (err error) {
		agg.Items, err = s.reg.Items().FindByCharacter(gctx, id, dal.QueryOptions{})
		return
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if agg.Character == nil {
		return nil, ErrCharacterNotFound
	}
	return agg, nil
}

// ListCharacters returns one page of characters.
func (s *Service) ListCharacters(ctx context.Context, page, pageSize int, opts dal.QueryOptions) (*dal.Page[model.Character], error) {
	return s.reg.Characters().FindPaginated(ctx, page, pageSize, opts)
}

// UpdateCharacter applies a partial update to the anchor row. Breakthrough
// bookkeeping columns are owned by the service and are ignored. The updated
// row must still pass the same checks as a new character, otherwise the
// update is rolled back.
func (s *Service) UpdateCharacter(ctx context.Context, id string, changes map[string]any) (*model.Character, error) {
	set := maps.Clone(changes)
	for _, col := range []string{"breakthrough_in_progress", "can_breakthrough", "breakthrough_failures"} {
		delete(set, col)
	}
	if v, ok := set["realm_level"]; ok {
		lvl, ok := toInt64(v)
		if !ok || lvl < 0 || lvl > int64(s.rules.MaxRealmLevel) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRealmLevel, v)
		}
	}
	if v, ok := set["cultivation_state"]; ok {
		st, _ := v.(string)
		if !model.CultivationState(st).Valid() {
			return nil, fmt.Errorf("%w: %v", ErrInvalidStateTransition, v)
		}
	}

	var out *model.Character
	err := s.reg.NewTransaction().Execute(ctx, func(tx *gorm.DB) error {
		chars := s.reg.Characters().WithTx(tx)
		c, err := chars.Update(ctx, id, set)
		if err != nil {
			return err
		}
		if c == nil {
			return ErrCharacterNotFound
		}
		if err := s.checkCharacter(c); err != nil {
			return err
		}
		out, err = s.refreshEligibility(ctx, chars, c)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteCharacter removes the dependents, the inventory and then the anchor
// in one transaction. Success is decided by re-reading the anchor after
// commit, not by the driver's affected-row count.
func (s *Service) DeleteCharacter(ctx context.Context, id string) error {
	exists, err := s.reg.Characters().FindByID(ctx, id)
	if err != nil {
		return err
	}
	if exists == nil {
		return ErrCharacterNotFound
	}

	err = s.reg.NewTransaction().Execute(ctx, func(tx *gorm.DB) error {
		deletes := []func() (bool, error){
			func() (bool, error) { return s.reg.Affinities().WithTx(tx).Delete(ctx, id) },
			func() (bool, error) { return s.reg.Strengths().WithTx(tx).Delete(ctx, id) },
			func() (bool, error) { return s.reg.BodyTypes().WithTx(tx).Delete(ctx, id) },
			func() (bool, error) { return s.reg.Skills().WithTx(tx).Delete(ctx, id) },
			func() (bool, error) { return s.reg.Weapons().WithTx(tx).Delete(ctx, id) },
			func() (bool, error) { return s.reg.Currencies().WithTx(tx).Delete(ctx, id) },
		}
		for _, del := range deletes {
			if _, err := del(); err != nil {
				return err
			}
		}
		if _, err := s.reg.Items().WithTx(tx).DeleteMany(ctx, dal.Conds{dal.Eq("character_id", id)}); err != nil {
			return err
		}
		_, err := s.reg.Characters().WithTx(tx).Delete(ctx, id)
		return err
	})
	if err == nil {
		var still *model.Character
		if still, err = s.reg.Characters().FindByID(ctx, id); err == nil && still != nil {
			err = ErrDeleteNotApplied
		}
	}
	s.record(ctx, id, audit.ActionCharacterDelete, nil, err)
	if err != nil {
		s.logger.Warn("delete character failed", zap.String("character_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("character deleted", zap.String("character_id", id))
	return nil
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), n == float64(int64(n))
	}
	return 0, false
}
