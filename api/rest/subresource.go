package rest

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/qingyun/xiuxian/server/api/response"
	"go.uber.org/zap"
)

// getHandler serves GET /api/characters/:id/<part> for one dependent record.
func getHandler[T any](logger *zap.Logger, get func(ctx context.Context, id string) (*T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		row, err := get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		response.OK(c, row)
	}
}

// saveHandler serves PUT /api/characters/:id/<part>. The body replaces the
// whole record; the character id always comes from the path.
func saveHandler[T any](logger *zap.Logger, save func(ctx context.Context, id string, v T) (*T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body T
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err.Error())
			return
		}
		row, err := save(c.Request.Context(), c.Param("id"), body)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		response.OK(c, row)
	}
}
