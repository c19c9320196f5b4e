package rest

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/qingyun/xiuxian/server/api/response"
	"github.com/qingyun/xiuxian/server/dal"
	"go.uber.org/zap"
)

// ReferenceHandler serves one seeded reference table. Reference tables are
// read-only over HTTP.
type ReferenceHandler[T any] struct {
	repo    dal.Reader[T]
	filters []string
	logger  *zap.Logger
}

// NewReferenceHandler creates a handler over repo. filters names the columns
// that may be matched exactly through query parameters of the same name.
func NewReferenceHandler[T any](repo dal.Reader[T], logger *zap.Logger, filters ...string) *ReferenceHandler[T] {
	return &ReferenceHandler[T]{repo: repo, filters: filters, logger: logger}
}

// List handles GET /api/<table>.
func (h *ReferenceHandler[T]) List(c *gin.Context) {
	page, size, opts, err := listParams(c)
	if err != nil {
		writeOrBadRequest(c, h.logger, err)
		return
	}
	var conds dal.Conds
	for _, col := range h.filters {
		if v := c.Query(col); v != "" {
			conds = append(conds, dal.Eq(col, v))
		}
	}
	out, err := h.repo.FindPaginatedWhere(c.Request.Context(), conds, page, size, opts)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response.OK(c, out)
}

// Get handles GET /api/<table>/:id.
func (h *ReferenceHandler[T]) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		badRequest(c, "id must be an integer")
		return
	}
	row, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if row == nil {
		notFound(c)
		return
	}
	response.OK(c, row)
}

func (h *ReferenceHandler[T]) register(g *gin.RouterGroup, path string) *gin.RouterGroup {
	rg := g.Group(path)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	return rg
}

// categoryItems handles GET /api/item-categories/:id/items.
func categoryItems(items *dal.ItemInfoRepo, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			badRequest(c, "id must be an integer")
			return
		}
		rows, err := items.FindByCategory(c.Request.Context(), id)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		response.OK(c, rows)
	}
}
