package rest

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/qingyun/xiuxian/server/api/response"
	"github.com/qingyun/xiuxian/server/game/character"
	"github.com/qingyun/xiuxian/server/model"
	"go.uber.org/zap"
)

// CharacterHandler handles character REST endpoints.
type CharacterHandler struct {
	svc    *character.Service
	logger *zap.Logger
}

// NewCharacterHandler creates a new CharacterHandler.
func NewCharacterHandler(svc *character.Service, logger *zap.Logger) *CharacterHandler {
	return &CharacterHandler{svc: svc, logger: logger}
}

// List handles GET /api/characters.
func (h *CharacterHandler) List(c *gin.Context) {
	page, size, opts, err := listParams(c)
	if err != nil {
		writeOrBadRequest(c, h.logger, err)
		return
	}
	out, err := h.svc.ListCharacters(c.Request.Context(), page, size, opts)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.OK(c, out)
}

type createCharacterRequest struct {
	Name                    string                   `json:"name"                binding:"required,min=1,max=32"`
	Gender                  string                   `json:"gender"              binding:"max=16"`
	Birthday                *time.Time               `json:"birthday"`
	Alias                   *string                  `json:"alias"               binding:"omitempty,max=32"`
	RealmLevel              int                      `json:"realm_level"         binding:"min=0"`
	CultivationState        string                   `json:"cultivation_state"`
	CultivationValue        int64                    `json:"cultivation_value"   binding:"min=0"`
	CultivationLimitBase    int64                    `json:"cultivation_limit_base" binding:"min=0"`
	CultivationLimitAdd     int64                    `json:"cultivation_limit_add"  binding:"min=0"`
	CultivationSpeedBase    int64                    `json:"cultivation_speed_base" binding:"min=0"`
	CultivationSpeedAdd     int64                    `json:"cultivation_speed_add"  binding:"min=0"`
	CultivationOverLimit    bool                     `json:"cultivation_over_limit"`
	CanBreakthroughWithItem bool                     `json:"can_breakthrough_with_item"`
	SectJoined              bool                     `json:"sect_joined"`
	SectID                  *int                     `json:"sect_id"`
	SectTitle               *string                  `json:"sect_title"`
	SectLevel               int                      `json:"sect_level"          binding:"min=0"`
	Reputation              int64                    `json:"reputation"          binding:"min=0"`
	Affinity                model.CharacterAffinity  `json:"affinity"`
	Strength                model.CharacterStrength  `json:"strength"`
	BodyType                model.CharacterBodyType  `json:"body_type"`
	Skill                   model.CharacterSkill     `json:"skill"`
	Weapon                  model.CharacterWeapon    `json:"weapon"`
	Currency                model.CharacterCurrency  `json:"currency"`
}

func (r *createCharacterRequest) input() character.CreateInput {
	return character.CreateInput{
		Character: model.Character{
			Name:                    r.Name,
			Gender:                  r.Gender,
			Birthday:                r.Birthday,
			Alias:                   r.Alias,
			RealmLevel:              r.RealmLevel,
			CultivationState:        model.CultivationState(r.CultivationState),
			CultivationValue:        r.CultivationValue,
			CultivationLimitBase:    r.CultivationLimitBase,
			CultivationLimitAdd:     r.CultivationLimitAdd,
			CultivationSpeedBase:    r.CultivationSpeedBase,
			CultivationSpeedAdd:     r.CultivationSpeedAdd,
			CultivationOverLimit:    r.CultivationOverLimit,
			CanBreakthroughWithItem: r.CanBreakthroughWithItem,
			SectJoined:              r.SectJoined,
			SectID:                  r.SectID,
			SectTitle:               r.SectTitle,
			SectLevel:               r.SectLevel,
			Reputation:              r.Reputation,
		},
		Affinity: r.Affinity,
		Strength: r.Strength,
		BodyType: r.BodyType,
		Skill:    r.Skill,
		Weapon:   r.Weapon,
		Currency: r.Currency,
	}
}

// Create handles POST /api/characters.
func (h *CharacterHandler) Create(c *gin.Context) {
	var req createCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	agg, err := h.svc.CreateCharacter(c.Request.Context(), req.input())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.Created(c, agg)
}

// Get handles GET /api/characters/:id.
func (h *CharacterHandler) Get(c *gin.Context) {
	ch, err := h.svc.GetCharacter(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.OK(c, ch)
}

// Full handles GET /api/characters/:id/full.
func (h *CharacterHandler) Full(c *gin.Context) {
	agg, err := h.svc.GetCompleteCharacterInfo(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.OK(c, agg)
}

// Update handles PATCH /api/characters/:id. The body is a partial set of
// character columns.
func (h *CharacterHandler) Update(c *gin.Context) {
	var changes map[string]any
	if err := c.ShouldBindJSON(&changes); err != nil {
		badRequest(c, err.Error())
		return
	}
	ch, err := h.svc.UpdateCharacter(c.Request.Context(), c.Param("id"), changes)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.OK(c, ch)
}

// Delete handles DELETE /api/characters/:id.
func (h *CharacterHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.DeleteCharacter(c.Request.Context(), id); err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.OK(c, gin.H{"id": id})
}

// Search handles GET /api/characters/search?term=&mode=name|sect|realm.
func (h *CharacterHandler) Search(c *gin.Context) {
	_, _, opts, err := listParams(c)
	if err != nil {
		writeOrBadRequest(c, h.logger, err)
		return
	}
	rows, err := h.svc.SearchCharacters(c.Request.Context(), c.Query("term"), character.SearchMode(c.Query("mode")), opts)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.OK(c, rows)
}

// StartCultivation handles POST /api/characters/:id/cultivation/start.
func (h *CharacterHandler) StartCultivation(c *gin.Context) {
	ch, err := h.svc.StartCultivation(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.OK(c, ch)
}

// StopCultivation handles POST /api/characters/:id/cultivation/stop.
func (h *CharacterHandler) StopCultivation(c *gin.Context) {
	ch, err := h.svc.StopCultivation(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.OK(c, ch)
}

type amountRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// AddCultivation handles POST /api/characters/:id/cultivation/add.
func (h *CharacterHandler) AddCultivation(c *gin.Context) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	ch, err := h.svc.AddCultivation(c.Request.Context(), c.Param("id"), req.Amount)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.OK(c, ch)
}

type breakthroughRequest struct {
	UseItem bool `json:"use_item"`
}

// Breakthrough handles POST /api/characters/:id/breakthrough.
func (h *CharacterHandler) Breakthrough(c *gin.Context) {
	var req breakthroughRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
	}
	res, err := h.svc.Breakthrough(c.Request.Context(), c.Param("id"), req.UseItem)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.OK(c, res)
}

type currencyRequest struct {
	Type  string `json:"type"  binding:"required"`
	Delta int64  `json:"delta" binding:"required"`
}

// AdjustCurrency handles POST /api/characters/:id/currency/adjust.
func (h *CharacterHandler) AdjustCurrency(c *gin.Context) {
	var req currencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	cur, err := h.svc.AdjustCurrency(c.Request.Context(), c.Param("id"), character.ResourceType(req.Type), req.Delta)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.OK(c, cur)
}

type deltaRequest struct {
	Delta int64 `json:"delta" binding:"required"`
}

// AdjustSectLevel handles POST /api/characters/:id/sect-level/adjust.
func (h *CharacterHandler) AdjustSectLevel(c *gin.Context) {
	var req deltaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	ch, err := h.svc.AdjustSectLevel(c.Request.Context(), c.Param("id"), req.Delta)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.OK(c, ch)
}

// AdjustReputation handles POST /api/characters/:id/reputation/adjust.
func (h *CharacterHandler) AdjustReputation(c *gin.Context) {
	var req deltaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	ch, err := h.svc.AdjustReputation(c.Request.Context(), c.Param("id"), req.Delta)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.OK(c, ch)
}
