package character

import (
	"context"

	"github.com/qingyun/xiuxian/server/dal"
	"github.com/qingyun/xiuxian/server/model"
)

// saveDependent creates the dependent row for id or, when one exists,
// overwrites it. The read and the write are separate statements: two
// concurrent first saves for the same id both try to insert and the second
// fails with a unique violation.
func saveDependent[T any](ctx context.Context, s *Service, repo *dal.Repository[T], id string, row *T) (*T, error) {
	values := repo.Values(ctx, row)
	if err := nonNegative(values); err != nil {
		return nil, err
	}
	existing, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		saved, err := repo.Update(ctx, id, values)
		if err == nil && saved == nil {
			err = ErrRecordNotFound
		}
		return saved, err
	}
	ok, err := s.reg.Characters().Exists(ctx, dal.Conds{dal.Eq("id", id)})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCharacterNotFound
	}
	return repo.Create(ctx, row)
}

func getDependent[T any](ctx context.Context, repo *dal.Repository[T], id string) (*T, error) {
	row, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrRecordNotFound
	}
	return row, nil
}

// SaveAffinity creates or overwrites the elemental affinities of id.
func (s *Service) SaveAffinity(ctx context.Context, id string, v model.CharacterAffinity) (*model.CharacterAffinity, error) {
	v.CharacterID = id
	return saveDependent(ctx, s, s.reg.Affinities(), id, &v)
}

// SaveStrength creates or overwrites the combat attributes of id.
func (s *Service) SaveStrength(ctx context.Context, id string, v model.CharacterStrength) (*model.CharacterStrength, error) {
	v.CharacterID = id
	return saveDependent(ctx, s, s.reg.Strengths(), id, &v)
}

// SaveBodyType creates or overwrites the body type record of id.
func (s *Service) SaveBodyType(ctx context.Context, id string, v model.CharacterBodyType) (*model.CharacterBodyType, error) {
	v.CharacterID = id
	return saveDependent(ctx, s, s.reg.BodyTypes(), id, &v)
}

// SaveSkill creates or overwrites the technique and skill slots of id.
func (s *Service) SaveSkill(ctx context.Context, id string, v model.CharacterSkill) (*model.CharacterSkill, error) {
	v.CharacterID = id
	return saveDependent(ctx, s, s.reg.Skills(), id, &v)
}

// SaveWeapon creates or overwrites the weapon record of id.
func (s *Service) SaveWeapon(ctx context.Context, id string, v model.CharacterWeapon) (*model.CharacterWeapon, error) {
	v.CharacterID = id
	return saveDependent(ctx, s, s.reg.Weapons(), id, &v)
}

// SaveCurrency overwrites every balance of id. Each balance must lie between
// zero and the currency ceiling; use AdjustCurrency for relative changes.
func (s *Service) SaveCurrency(ctx context.Context, id string, v model.CharacterCurrency) (*model.CharacterCurrency, error) {
	if err := s.checkCurrency(&v); err != nil {
		return nil, err
	}
	v.CharacterID = id
	return saveDependent(ctx, s, s.reg.Currencies(), id, &v)
}

// GetAffinity returns the affinities of id, or ErrRecordNotFound.
func (s *Service) GetAffinity(ctx context.Context, id string) (*model.CharacterAffinity, error) {
	return getDependent(ctx, s.reg.Affinities(), id)
}

// GetStrength returns the combat attributes of id, or ErrRecordNotFound.
func (s *Service) GetStrength(ctx context.Context, id string) (*model.CharacterStrength, error) {
	return getDependent(ctx, s.reg.Strengths(), id)
}

// GetBodyType returns the body type record of id, or ErrRecordNotFound.
func (s *Service) GetBodyType(ctx context.Context, id string) (*model.CharacterBodyType, error) {
	return getDependent(ctx, s.reg.BodyTypes(), id)
}

// GetSkill returns the skill record of id, or ErrRecordNotFound.
func (s *Service) GetSkill(ctx context.Context, id string) (*model.CharacterSkill, error) {
	return getDependent(ctx, s.reg.Skills(), id)
}

// GetWeapon returns the weapon record of id, or ErrRecordNotFound.
func (s *Service) GetWeapon(ctx context.Context, id string) (*model.CharacterWeapon, error) {
	return getDependent(ctx, s.reg.Weapons(), id)
}

// GetCurrency returns the balances of id, or ErrRecordNotFound.
func (s *Service) GetCurrency(ctx context.Context, id string) (*model.CharacterCurrency, error) {
	return getDependent(ctx, s.reg.Currencies(), id)
}
