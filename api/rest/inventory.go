package rest

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/qingyun/xiuxian/server/api/response"
	"github.com/qingyun/xiuxian/server/game/character"
	"go.uber.org/zap"
)

// InventoryHandler handles inventory REST endpoints.
type InventoryHandler struct {
	svc    *character.Service
	logger *zap.Logger
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(svc *character.Service, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{svc: svc, logger: logger}
}

// List handles GET /api/characters/:id/items. ?equipped=true narrows to
// equipped items.
func (h *InventoryHandler) List(c *gin.Context) {
	equipped, _ := strconv.ParseBool(c.Query("equipped"))
	items, err := h.svc.ListItems(c.Request.Context(), c.Param("id"), equipped)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.OK(c, items)
}

// Add handles POST /api/characters/:id/items.
func (h *InventoryHandler) Add(c *gin.Context) {
	var req character.AddItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	item, err := h.svc.AddItemToCharacter(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.Created(c, item)
}

func (h *InventoryHandler) itemID(c *gin.Context) (int64, bool) {
	id, ok := paramInt64(c, "item_id")
	if !ok {
		badRequest(c, "item_id must be an integer")
	}
	return id, ok
}

// Remove handles DELETE /api/characters/:id/items/:item_id.
func (h *InventoryHandler) Remove(c *gin.Context) {
	itemID, ok := h.itemID(c)
	if !ok {
		return
	}
	if err := h.svc.RemoveItemFromInventory(c.Request.Context(), c.Param("id"), itemID); err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.OK(c, gin.H{"id": itemID})
}

type equipRequest struct {
	Slot *int `json:"slot" binding:"required"`
}

// Equip handles POST /api/characters/:id/items/:item_id/equip.
func (h *InventoryHandler) Equip(c *gin.Context) {
	itemID, ok := h.itemID(c)
	if !ok {
		return
	}
	var req equipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	item, err := h.svc.EquipItem(c.Request.Context(), c.Param("id"), itemID, *req.Slot)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.OK(c, item)
}

// Unequip handles POST /api/characters/:id/items/:item_id/unequip.
func (h *InventoryHandler) Unequip(c *gin.Context) {
	itemID, ok := h.itemID(c)
	if !ok {
		return
	}
	item, err := h.svc.UnequipItem(c.Request.Context(), c.Param("id"), itemID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.OK(c, item)
}

type quantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// UpdateQuantity handles PATCH /api/characters/:id/items/:item_id.
func (h *InventoryHandler) UpdateQuantity(c *gin.Context) {
	itemID, ok := h.itemID(c)
	if !ok {
		return
	}
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	item, err := h.svc.UpdateItemQuantity(c.Request.Context(), c.Param("id"), itemID, req.Quantity)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.OK(c, item)
}
