package model_test

import (
	"testing"

	"github.com/qingyun/xiuxian/server/model"
	"github.com/qingyun/xiuxian/server/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestAutoMigrate_InsertAndQuery(t *testing.T) {
	db := testutil.SetupTestDB(t)

	char := &model.Character{ID: "10000001", Name: "Han Li", Gender: "male", RealmLevel: 1}
	require.NoError(t, db.Create(char).Error)

	var found model.Character
	require.NoError(t, db.First(&found, "id = ?", char.ID).Error)
	assert.Equal(t, "Han Li", found.Name)
	assert.Equal(t, model.StateIdle, found.CultivationState, "column default applies")

	require.NoError(t, db.Create(&model.CharacterAffinity{CharacterID: char.ID, Fire: 7}).Error)
	require.NoError(t, db.Create(&model.CharacterStrength{CharacterID: char.ID, HP: 100, MaxHP: 100}).Error)
	require.NoError(t, db.Create(&model.CharacterBodyType{
		CharacterID:    char.ID,
		OwnedBodyTypes: datatypes.JSON(`[1,2]`),
	}).Error)
	require.NoError(t, db.Create(&model.CharacterSkill{CharacterID: char.ID}).Error)
	require.NoError(t, db.Create(&model.CharacterWeapon{CharacterID: char.ID}).Error)
	require.NoError(t, db.Create(&model.CharacterCurrency{CharacterID: char.ID, GoldCoin: 10}).Error)

	item := &model.CharacterItem{CharacterID: char.ID, ItemID: 3, Quantity: 2}
	require.NoError(t, db.Create(item).Error)
	assert.Greater(t, item.ID, int64(0))

	require.NoError(t, db.Create(&model.Realm{Level: 0, Name: "Mortal"}).Error)
	require.NoError(t, db.Create(&model.ItemCategoryRelation{ItemID: 3, CategoryID: 1}).Error)
}

func TestDependentRows_OnePerCharacter(t *testing.T) {
	db := testutil.SetupTestDB(t)

	require.NoError(t, db.Create(&model.CharacterCurrency{CharacterID: "20000002"}).Error)
	err := db.Create(&model.CharacterCurrency{CharacterID: "20000002"}).Error
	assert.Error(t, err, "primary key on character_id allows a single row")
}

func TestCultivationState_Valid(t *testing.T) {
	for _, s := range []model.CultivationState{
		model.StateIdle, model.StateCultivating, model.StateSecluded,
		model.StateInjuredCultivating, model.StateEnlightenment,
	} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, model.CultivationState("flying").Valid())
}
