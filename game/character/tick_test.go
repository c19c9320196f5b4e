package character

import (
	"context"
	"testing"

	"github.com/qingyun/xiuxian/server/config"
	"github.com/qingyun/xiuxian/server/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCultivationTick(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, config.DefaultGame())

	active := createChar(t, svc, func(c *model.Character) {
		c.CultivationLimitBase = 100
		c.CultivationSpeedBase = 7
		c.CultivationSpeedAdd = 3
	})
	capped := createChar(t, svc, func(c *model.Character) {
		c.CultivationLimitBase = 100
		c.CultivationValue = 95
		c.CultivationSpeedBase = 10
	})
	full := createChar(t, svc, func(c *model.Character) {
		c.CultivationLimitBase = 100
		c.CultivationValue = 100
		c.CultivationSpeedBase = 10
	})
	idle := createChar(t, svc, func(c *model.Character) {
		c.CultivationLimitBase = 100
		c.CultivationSpeedBase = 10
	})
	for _, id := range []string{active, capped, full} {
		_, err := svc.StartCultivation(ctx, id)
		require.NoError(t, err)
	}

	n, err := svc.CultivationTick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := svc.GetCharacter(ctx, active)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.CultivationValue)

	got, err = svc.GetCharacter(ctx, capped)
	require.NoError(t, err)
	assert.Equal(t, int64(100), got.CultivationValue)
	assert.True(t, got.CanBreakthrough)

	got, err = svc.GetCharacter(ctx, idle)
	require.NoError(t, err)
	assert.Zero(t, got.CultivationValue)
}

func TestCultivationTick_Empty(t *testing.T) {
	svc, _ := newTestService(t, config.DefaultGame())
	n, err := svc.CultivationTick(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}
