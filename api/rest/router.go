package rest

import (
	"github.com/gin-gonic/gin"
	"github.com/qingyun/xiuxian/server/dal"
	"github.com/qingyun/xiuxian/server/game/character"
	"github.com/qingyun/xiuxian/server/model"
	"go.uber.org/zap"
)

// Register mounts every character and reference endpoint on g.
func Register(g *gin.RouterGroup, svc *character.Service, reg *dal.Registry, logger *zap.Logger) {
	ch := NewCharacterHandler(svc, logger)
	inv := NewInventoryHandler(svc, logger)

	chars := g.Group("/characters")
	chars.GET("", ch.List)
	chars.POST("", ch.Create)
	chars.GET("/search", ch.Search)
	chars.GET("/:id", ch.Get)
	chars.GET("/:id/full", ch.Full)
	chars.PATCH("/:id", ch.Update)
	chars.DELETE("/:id", ch.Delete)

	chars.POST("/:id/cultivation/start", ch.StartCultivation)
	chars.POST("/:id/cultivation/stop", ch.StopCultivation)
	chars.POST("/:id/cultivation/add", ch.AddCultivation)
	chars.POST("/:id/breakthrough", ch.Breakthrough)
	chars.POST("/:id/currency/adjust", ch.AdjustCurrency)
	chars.POST("/:id/sect-level/adjust", ch.AdjustSectLevel)
	chars.POST("/:id/reputation/adjust", ch.AdjustReputation)

	chars.GET("/:id/affinities", getHandler(logger, svc.GetAffinity))
	chars.PUT("/:id/affinities", saveHandler(logger, svc.SaveAffinity))
	chars.GET("/:id/strength", getHandler(logger, svc.GetStrength))
	chars.PUT("/:id/strength", saveHandler(logger, svc.SaveStrength))
	chars.GET("/:id/body-types", getHandler(logger, svc.GetBodyType))
	chars.PUT("/:id/body-types", saveHandler(logger, svc.SaveBodyType))
	chars.GET("/:id/skills", getHandler(logger, svc.GetSkill))
	chars.PUT("/:id/skills", saveHandler(logger, svc.SaveSkill))
	chars.GET("/:id/weapons", getHandler(logger, svc.GetWeapon))
	chars.PUT("/:id/weapons", saveHandler(logger, svc.SaveWeapon))
	chars.GET("/:id/currency", getHandler(logger, svc.GetCurrency))
	chars.PUT("/:id/currency", saveHandler(logger, svc.SaveCurrency))

	chars.GET("/:id/items", inv.List)
	chars.POST("/:id/items", inv.Add)
	chars.PATCH("/:id/items/:item_id", inv.UpdateQuantity)
	chars.DELETE("/:id/items/:item_id", inv.Remove)
	chars.POST("/:id/items/:item_id/equip", inv.Equip)
	chars.POST("/:id/items/:item_id/unequip", inv.Unequip)

	NewReferenceHandler[model.Realm](reg.Realms(), logger, "stage").register(g, "/realms")
	NewReferenceHandler[model.SkillInfo](reg.SkillInfos(), logger, "type", "element").register(g, "/skills")
	NewReferenceHandler[model.WeaponInfo](reg.WeaponInfos(), logger, "type", "grade").register(g, "/weapons")
	NewReferenceHandler[model.BodyTypeInfo](reg.BodyTypeInfos(), logger, "rarity").register(g, "/body-types")
	NewReferenceHandler[model.Sect](reg.Sects(), logger, "alignment").register(g, "/sects")
	NewReferenceHandler[model.Achievement](reg.Achievements(), logger, "category").register(g, "/achievements")
	items := reg.ItemInfos()
	NewReferenceHandler[model.ItemInfo](items, logger, "grade").register(g, "/items")
	cats := NewReferenceHandler[model.ItemCategory](reg.ItemCategories(), logger).register(g, "/item-categories")
	cats.GET("/:id/items", categoryItems(items, logger))
}
