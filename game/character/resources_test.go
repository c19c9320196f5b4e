package character

import (
	"context"
	"math"
	"testing"

	"github.com/qingyun/xiuxian/server/config"
	"github.com/qingyun/xiuxian/server/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDelta(t *testing.T) {
	cases := []struct {
		name                    string
		current, delta, ceiling int64
		want                    int64
		capped                  bool
	}{
		{"decrease", 10, -5, 100, 5, false},
		{"decrease floors at zero", 10, -50, 100, 0, false},
		{"increase", 10, 90, 100, 100, false},
		{"increase past ceiling", 10, 91, 100, 10, true},
		{"decrease above ceiling", 150, -10, 100, 140, false},
		{"zero", 7, 0, 100, 7, false},
		{"increase above ceiling", 150, 1, 100, 150, true},
		{"increase that would wrap", 10, math.MaxInt64, 999999, 10, true},
		{"decrease by min int64", 10, math.MinInt64, 100, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := applyDelta(tc.current, tc.delta, tc.ceiling)
			if tc.capped {
				assert.ErrorIs(t, err, ErrResourceCapExceeded)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAdjustCurrency_ClampLowRejectHigh(t *testing.T) {
	ctx := context.Background()
	rules := config.DefaultGame()
	svc, _ := newTestService(t, rules)
	agg, err := svc.CreateCharacter(ctx, CreateInput{
		Character: model.Character{Name: "Merchant"},
		Currency:  model.CharacterCurrency{GoldCoin: 10},
	})
	require.NoError(t, err)
	id := agg.Character.ID

	cur, err := svc.AdjustCurrency(ctx, id, GoldCoin, -5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), cur.GoldCoin)

	_, err = svc.AdjustCurrency(ctx, id, GoldCoin, rules.MaxCurrency)
	assert.ErrorIs(t, err, ErrResourceCapExceeded)
	stored, err := svc.GetCurrency(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(5), stored.GoldCoin, "rejected increase leaves the value unchanged")

	cur, err = svc.AdjustCurrency(ctx, id, GoldCoin, -1000)
	require.NoError(t, err)
	assert.Equal(t, int64(0), cur.GoldCoin)

	cur, err = svc.AdjustCurrency(ctx, id, SpiritStone, rules.MaxCurrency)
	require.NoError(t, err)
	assert.Equal(t, rules.MaxCurrency, cur.SpiritStone, "reaching the ceiling exactly is allowed")

	_, err = svc.AdjustCurrency(ctx, id, SpiritStone, math.MaxInt64)
	assert.ErrorIs(t, err, ErrResourceCapExceeded)
	_, err = svc.AdjustCurrency(ctx, id, GoldCoin, 10)
	require.NoError(t, err)
	_, err = svc.AdjustCurrency(ctx, id, GoldCoin, math.MaxInt64)
	assert.ErrorIs(t, err, ErrResourceCapExceeded)
	stored, err = svc.GetCurrency(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(10), stored.GoldCoin, "a wrapping delta is rejected, not floored")
	assert.Equal(t, rules.MaxCurrency, stored.SpiritStone)

	_, err = svc.AdjustCurrency(ctx, id, "jade", 1)
	assert.ErrorIs(t, err, ErrInvalidResourceType)
	_, err = svc.AdjustCurrency(ctx, "99999999", GoldCoin, 1)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestAdjustSectLevelAndReputation(t *testing.T) {
	ctx := context.Background()
	rules := config.DefaultGame()
	svc, _ := newTestService(t, rules)
	id := createChar(t, svc, func(c *model.Character) { c.SectLevel = 99; c.Reputation = 50 })

	c, err := svc.AdjustSectLevel(ctx, id, 1)
	require.NoError(t, err)
	assert.Equal(t, 100, c.SectLevel)
	_, err = svc.AdjustSectLevel(ctx, id, 1)
	assert.ErrorIs(t, err, ErrResourceCapExceeded)
	c, err = svc.AdjustSectLevel(ctx, id, -500)
	require.NoError(t, err)
	assert.Equal(t, 0, c.SectLevel)

	c, err = svc.AdjustReputation(ctx, id, -80)
	require.NoError(t, err)
	assert.Equal(t, int64(0), c.Reputation)
	_, err = svc.AdjustReputation(ctx, id, rules.MaxReputation+1)
	assert.ErrorIs(t, err, ErrResourceCapExceeded)

	_, err = svc.AdjustSectLevel(ctx, id, math.MaxInt64)
	assert.ErrorIs(t, err, ErrResourceCapExceeded)

	_, err = svc.AdjustReputation(ctx, "99999999", 1)
	assert.ErrorIs(t, err, ErrCharacterNotFound)
}
