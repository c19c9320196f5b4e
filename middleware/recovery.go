package middleware

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/qingyun/xiuxian/server/api/response"
	"go.uber.org/zap"
)

// Recovery returns a Gin middleware that turns a panic into a logged 500
// envelope. Broken client connections are left to gin.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, rec any) {
		log.Error("panic recovered",
			zap.Any("error", rec),
			zap.String("trace_id", GetTraceID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Stack("stack"),
		)
		response.Abort(c, http.StatusInternalServerError, response.CodeInternal, "internal error")
	})
}
