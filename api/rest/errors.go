package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/qingyun/xiuxian/server/api/response"
	"github.com/qingyun/xiuxian/server/dal"
	"github.com/qingyun/xiuxian/server/game/character"
	mw "github.com/qingyun/xiuxian/server/middleware"
	"go.uber.org/zap"
)

var errMapping = []struct {
	err    error
	status int
	code   string
}{
	{character.ErrCharacterNotFound, http.StatusNotFound, response.CodeNotFound},
	{character.ErrItemNotFound, http.StatusNotFound, response.CodeNotFound},
	{character.ErrRecordNotFound, http.StatusNotFound, response.CodeNotFound},
	{character.ErrNotEligibleForBreakthrough, http.StatusUnprocessableEntity, response.CodeNotEligible},
	{character.ErrResourceCapExceeded, http.StatusUnprocessableEntity, response.CodeCapExceeded},
	{character.ErrInvalidResourceType, http.StatusUnprocessableEntity, response.CodeInvalidResourceType},
	{character.ErrInvalidStateTransition, http.StatusUnprocessableEntity, response.CodeInvalidState},
	{character.ErrBreakthroughInProgress, http.StatusConflict, response.CodeConflict},
	{character.ErrConcurrentUpdate, http.StatusConflict, response.CodeConflict},
	{character.ErrNegativeValue, http.StatusBadRequest, response.CodeValidation},
	{character.ErrCultivationAboveLimit, http.StatusBadRequest, response.CodeValidation},
	{character.ErrInvalidSearchMode, http.StatusBadRequest, response.CodeValidation},
	{character.ErrInvalidSearchTerm, http.StatusBadRequest, response.CodeValidation},
	{character.ErrInvalidQuantity, http.StatusBadRequest, response.CodeValidation},
	{character.ErrInvalidRealmLevel, http.StatusBadRequest, response.CodeValidation},
	{dal.ErrUnknownColumn, http.StatusBadRequest, response.CodeValidation},
	{dal.ErrInvalidDirection, http.StatusBadRequest, response.CodeValidation},
}

// writeError maps err onto the envelope. Anything unrecognised is a
// persistence or internal failure: it is logged and answered generically.
func writeError(c *gin.Context, log *zap.Logger, err error) {
	for _, m := range errMapping {
		if errors.Is(err, m.err) {
			response.Fail(c, m.status, m.code, err.Error())
			return
		}
	}
	if dal.IsUniqueViolation(err) {
		response.Fail(c, http.StatusConflict, response.CodeConflict, "record already exists")
		return
	}
	log.Error("request failed",
		zap.String("trace_id", mw.GetTraceID(c)),
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err))
	response.Fail(c, http.StatusInternalServerError, response.CodeInternal, "internal error")
}

func badRequest(c *gin.Context, msg string) {
	response.Fail(c, http.StatusBadRequest, response.CodeValidation, msg)
}

func notFound(c *gin.Context) {
	response.Fail(c, http.StatusNotFound, response.CodeNotFound, "not found")
}

// writeOrBadRequest answers a list-parameter error: known sentinels map as
// usual, anything else is a malformed query string.
func writeOrBadRequest(c *gin.Context, log *zap.Logger, err error) {
	for _, m := range errMapping {
		if errors.Is(err, m.err) {
			writeError(c, log, err)
			return
		}
	}
	badRequest(c, err.Error())
}
