package ginserver

import (
	"strconv"

	gin "github.com/gin-gonic/gin"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// pageParams reads the page/limit query pair every list endpoint accepts.
func pageParams(c *gin.Context) (page, limit, offset int) {
	page = parseIntWithDefault(c.Query("page"), 1)
	if page < 1 {
		page = 1
	}
	limit = parseIntWithDefault(c.Query("limit"), defaultPageLimit)
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit, (page - 1) * limit
}

func parseIntWithDefault(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func parseInt64(raw string) int64 {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
