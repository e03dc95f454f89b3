package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/hirelytics/internal/app/models/dto"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1 // Default page is 1-based
)

// ParsePaginationParams reads the 1-based page and size query parameters.
// Missing or out of range values fall back to the defaults.
func ParsePaginationParams(c *gin.Context) (page, size int) {
	page = queryInt(c, "page", DefaultPage, 1, 0)
	size = queryInt(c, "size", DefaultPageSize, 1, MaxPageSize)
	return page, size
}

// queryInt parses key, returning def when it is absent, malformed, below lo
// or above hi. hi of zero means unbounded.
func queryInt(c *gin.Context, key string, def, lo, hi int) int {
	raw, ok := c.GetQuery(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || (hi > 0 && n > hi) {
		return def
	}
	return n
}

// Paginate returns one page of items and its metadata. A page past the end is
// empty and reports the last page as current.
func Paginate[T any](items []T, page, size int) ([]T, dto.PaginationInfo) {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = DefaultPage
	}

	total := len(items)
	pages := max(1, (total+size-1)/size)

	start := min((page-1)*size, total)
	end := min(start+size, total)

	return items[start:end], dto.PaginationInfo{
		CurrentPage: min(page, pages),
		TotalPages:  pages,
		PageSize:    size,
		TotalItems:  int64(total),
	}
}
