package character

import (
	"context"
	"fmt"

	"github.com/qingyun/xiuxian/server/dal"
	"github.com/qingyun/xiuxian/server/model"
	"gorm.io/gorm"
)

// AddItemInput describes a new inventory row.
type AddItemInput struct {
	ItemID     int  `json:"item_id" binding:"required"`
	Quantity   int  `json:"quantity"`
	Level      int  `json:"level"`
	Durability *int `json:"durability"`
}

// AddItemToCharacter creates a new unequipped inventory row for id. Quantity
// defaults to 1.
func (s *Service) AddItemToCharacter(ctx context.Context, id string, in AddItemInput) (*model.CharacterItem, error) {
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if in.Quantity < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQuantity, in.Quantity)
	}
	ok, err := s.reg.Characters().Exists(ctx, dal.Conds{dal.Eq("id", id)})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCharacterNotFound
	}
	return s.reg.Items().Create(ctx, &model.CharacterItem{
		CharacterID: id,
		ItemID:      in.ItemID,
		Quantity:    in.Quantity,
		Level:       in.Level,
		Durability:  in.Durability,
	})
}

func (s *Service) ownedItem(ctx context.Context, repo *dal.ItemRepo, id string, itemID int64) (*model.CharacterItem, error) {
	item, err := repo.FindOwned(ctx, id, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	return item, nil
}

// RemoveItemFromInventory deletes inventory row itemID of id.
func (s *Service) RemoveItemFromInventory(ctx context.Context, id string, itemID int64) error {
	if _, err := s.ownedItem(ctx, s.reg.Items(), id, itemID); err != nil {
		return err
	}
	ok, err := s.reg.Items().Delete(ctx, itemID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrItemNotFound
	}
	return nil
}

// EquipItem marks itemID equipped in slot. Any other item of id in that slot
// is unequipped in the same transaction.
func (s *Service) EquipItem(ctx context.Context, id string, itemID int64, slot int) (*model.CharacterItem, error) {
	if slot < 0 {
		return nil, fmt.Errorf("%w: slot %d", ErrInvalidQuantity, slot)
	}
	var out *model.CharacterItem
	err := s.reg.NewTransaction().Execute(ctx, func(tx *gorm.DB) error {
		items := s.reg.Items().WithTx(tx)
		if _, err := s.ownedItem(ctx, items, id, itemID); err != nil {
			return err
		}
		_, err := items.UpdateMany(ctx,
			dal.Conds{dal.Eq("character_id", id), dal.Eq("equipped", true), dal.Eq("slot_position", slot)},
			map[string]any{"equipped": false, "slot_position": nil})
		if err != nil {
			return err
		}
		out, err = items.Update(ctx, itemID, map[string]any{"equipped": true, "slot_position": slot})
		return itemOrNotFound(out, err)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UnequipItem clears both the equipped flag and the slot of itemID.
func (s *Service) UnequipItem(ctx context.Context, id string, itemID int64) (*model.CharacterItem, error) {
	if _, err := s.ownedItem(ctx, s.reg.Items(), id, itemID); err != nil {
		return nil, err
	}
	item, err := s.reg.Items().Update(ctx, itemID, map[string]any{"equipped": false, "slot_position": nil})
	if err := itemOrNotFound(item, err); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItemQuantity sets the stack size of itemID.
func (s *Service) UpdateItemQuantity(ctx context.Context, id string, itemID int64, quantity int) (*model.CharacterItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}
	if _, err := s.ownedItem(ctx, s.reg.Items(), id, itemID); err != nil {
		return nil, err
	}
	item, err := s.reg.Items().Update(ctx, itemID, map[string]any{"quantity": quantity})
	if err := itemOrNotFound(item, err); err != nil {
		return nil, err
	}
	return item, nil
}

// itemOrNotFound turns the nil row Update returns for a vanished item into
// ErrItemNotFound.
func itemOrNotFound(item *model.CharacterItem, err error) error {
	if err == nil && item == nil {
		return ErrItemNotFound
	}
	return err
}

// ListItems returns the inventory of id, or only the equipped part.
func (s *Service) ListItems(ctx context.Context, id string, equippedOnly bool) ([]model.CharacterItem, error) {
	if equippedOnly {
		return s.reg.Items().FindEquipped(ctx, id)
	}
	return s.reg.Items().FindByCharacter(ctx, id, dal.QueryOptions{})
}
