package character

import (
	"context"
	"errors"

	"github.com/qingyun/xiuxian/server/dal"
	"github.com/qingyun/xiuxian/server/model"
	"go.uber.org/zap"
)

// CultivationTick credits every cultivating character with one interval of
// its cultivation speed and returns how many characters advanced. Characters
// already at their limit, mid-breakthrough or changed during the tick are
// skipped until the next one.
func (s *Service) CultivationTick(ctx context.Context) (int, error) {
	repo := s.reg.Characters()
	conds := dal.Conds{dal.Eq("cultivation_state", string(model.StateCultivating))}
	advanced := 0
	for page := 1; ; page++ {
		p, err := repo.FindPaginatedWhere(ctx, conds, page, dal.MaxPageSize, dal.QueryOptions{})
		if err != nil {
			return advanced, err
		}
		for i := range p.Data {
			c := &p.Data[i]
			speed := c.CultivationSpeedBase + c.CultivationSpeedAdd
			if speed <= 0 || (!c.CultivationOverLimit && c.CultivationValue >= c.CultivationLimit()) {
				continue
			}
			if _, err := s.AddCultivation(ctx, c.ID, speed); err != nil {
				if errors.Is(err, ErrCharacterNotFound) ||
					errors.Is(err, ErrBreakthroughInProgress) ||
					errors.Is(err, ErrConcurrentUpdate) {
					continue
				}
				return advanced, err
			}
			advanced++
		}
		if page >= p.TotalPages {
			break
		}
	}
	if advanced > 0 {
		s.logger.Debug("cultivation tick", zap.Int("advanced", advanced))
	}
	return advanced, nil
}
