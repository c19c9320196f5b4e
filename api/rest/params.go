package rest

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/qingyun/xiuxian/server/dal"
)

// listParams reads page, pageSize, orderBy and orderDirection.
func listParams(c *gin.Context) (page, pageSize int, opts dal.QueryOptions, err error) {
	if page, err = queryInt(c, "page", 1); err != nil {
		return
	}
	if pageSize, err = queryInt(c, "pageSize", dal.DefaultPageSize); err != nil {
		return
	}
	dir, err := dal.ParseDirection(c.Query("orderDirection"))
	if err != nil {
		return
	}
	opts = dal.QueryOptions{OrderBy: c.Query("orderBy"), OrderDirection: dir}
	return
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	s := c.Query(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return n, nil
}

func paramInt64(c *gin.Context, key string) (int64, bool) {
	n, err := strconv.ParseInt(c.Param(key), 10, 64)
	return n, err == nil
}
