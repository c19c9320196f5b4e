package character

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/qingyun/xiuxian/server/config"
	"github.com/qingyun/xiuxian/server/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestItems_AddEquipUnequip(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, config.DefaultGame())
	id := createChar(t, svc, nil)

	dur := 80
	item, err := svc.AddItemToCharacter(ctx, id, AddItemInput{ItemID: 42, Durability: &dur})
	require.NoError(t, err)
	assert.Equal(t, 1, item.Quantity)
	assert.False(t, item.Equipped)
	assert.Nil(t, item.SlotPosition)

	eq, err := svc.EquipItem(ctx, id, item.ID, 2)
	require.NoError(t, err)
	assert.True(t, eq.Equipped)
	require.NotNil(t, eq.SlotPosition)
	assert.Equal(t, 2, *eq.SlotPosition)

	un, err := svc.UnequipItem(ctx, id, item.ID)
	require.NoError(t, err)
	assert.False(t, un.Equipped)
	assert.Nil(t, un.SlotPosition, "slot cleared together with the flag")
}

func TestItems_EquipDisplacesSlotHolder(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, config.DefaultGame())
	id := createChar(t, svc, nil)

	a, err := svc.AddItemToCharacter(ctx, id, AddItemInput{ItemID: 1})
	require.NoError(t, err)
	b, err := svc.AddItemToCharacter(ctx, id, AddItemInput{ItemID: 2})
	require.NoError(t, err)

	_, err = svc.EquipItem(ctx, id, a.ID, 0)
	require.NoError(t, err)
	_, err = svc.EquipItem(ctx, id, b.ID, 0)
	require.NoError(t, err)

	equipped, err := svc.ListItems(ctx, id, true)
	require.NoError(t, err)
	require.Len(t, equipped, 1)
	assert.Equal(t, b.ID, equipped[0].ID)

	all, err := svc.ListItems(ctx, id, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, it := range all {
		if it.ID == a.ID {
			assert.False(t, it.Equipped)
			assert.Nil(t, it.SlotPosition)
		}
	}
}

func TestItems_OwnershipAndQuantity(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, config.DefaultGame())
	owner := createChar(t, svc, nil)
	other := createChar(t, svc, nil)

	item, err := svc.AddItemToCharacter(ctx, owner, AddItemInput{ItemID: 9, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, item.Quantity)

	_, err = svc.EquipItem(ctx, other, item.ID, 1)
	assert.ErrorIs(t, err, ErrItemNotFound)
	_, err = svc.UnequipItem(ctx, other, item.ID)
	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.ErrorIs(t, svc.RemoveItemFromInventory(ctx, other, item.ID), ErrItemNotFound)

	updated, err := svc.UpdateItemQuantity(ctx, owner, item.ID, 12)
	require.NoError(t, err)
	assert.Equal(t, 12, updated.Quantity)
	_, err = svc.UpdateItemQuantity(ctx, owner, item.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	require.NoError(t, svc.RemoveItemFromInventory(ctx, owner, item.ID))
	assert.ErrorIs(t, svc.RemoveItemFromInventory(ctx, owner, item.ID), ErrItemNotFound)
}

func TestItems_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, config.DefaultGame())
	id := createChar(t, svc, nil)

	_, err := svc.AddItemToCharacter(ctx, "99999999", AddItemInput{ItemID: 1})
	assert.ErrorIs(t, err, ErrCharacterNotFound)
	_, err = svc.AddItemToCharacter(ctx, id, AddItemInput{ItemID: 1, Quantity: -1})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	item, err := svc.AddItemToCharacter(ctx, id, AddItemInput{ItemID: 1})
	require.NoError(t, err)
	_, err = svc.EquipItem(ctx, id, item.ID, -1)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

// deleteBeforeNextUpdate removes the rows of table matching where just before
// the next UPDATE on that table runs, as a concurrent delete would.
func deleteBeforeNextUpdate(t *testing.T, db *gorm.DB, table, where string, args ...any) {
	t.Helper()
	var done atomic.Bool
	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("test:delete_"+table, func(tx *gorm.DB) {
		if tx.Statement.Table != table || !done.CompareAndSwap(false, true) {
			return
		}
		require.NoError(t, db.Exec("DELETE FROM "+table+" WHERE "+where, args...).Error)
	}))
}

func TestItems_DeletedBeforeWrite(t *testing.T) {
	ctx := context.Background()

	t.Run("unequip", func(t *testing.T) {
		svc, db := newTestService(t, config.DefaultGame())
		id := createChar(t, svc, nil)
		item, err := svc.AddItemToCharacter(ctx, id, AddItemInput{ItemID: 1})
		require.NoError(t, err)
		deleteBeforeNextUpdate(t, db, "character_items", "id = ?", item.ID)

		got, err := svc.UnequipItem(ctx, id, item.ID)
		assert.ErrorIs(t, err, ErrItemNotFound)
		assert.Nil(t, got)
	})

	t.Run("quantity", func(t *testing.T) {
		svc, db := newTestService(t, config.DefaultGame())
		id := createChar(t, svc, nil)
		item, err := svc.AddItemToCharacter(ctx, id, AddItemInput{ItemID: 1})
		require.NoError(t, err)
		deleteBeforeNextUpdate(t, db, "character_items", "id = ?", item.ID)

		got, err := svc.UpdateItemQuantity(ctx, id, item.ID, 3)
		assert.ErrorIs(t, err, ErrItemNotFound)
		assert.Nil(t, got)
	})

	t.Run("currency", func(t *testing.T) {
		svc, db := newTestService(t, config.DefaultGame())
		id := createChar(t, svc, nil)
		deleteBeforeNextUpdate(t, db, model.CharacterCurrency{}.TableName(), "character_id = ?", id)

		got, err := svc.AdjustCurrency(ctx, id, GoldCoin, 5)
		assert.ErrorIs(t, err, ErrRecordNotFound)
		assert.Nil(t, got)
	})
}
