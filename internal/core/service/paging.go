package service

import (
	"regexp"
	"strings"

	"github.com/parkwise/parking-system/internal/core/ports"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// normalizePaging clamps page/limit to sane bounds (limit capped at 100).
func normalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

func newPagination(total int64, page, limit int) ports.Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return ports.Pagination{Total: total, Page: page, Limit: limit, TotalPages: totalPages}
}

// searchSanitizer strips everything but alphanumerics, spaces and dashes so
// free-text search terms are safe inside a pattern match.
var searchSanitizer = regexp.MustCompile(`[^a-zA-Z0-9 -]+`)

func sanitizeSearch(s string) string {
	return strings.TrimSpace(searchSanitizer.ReplaceAllString(s, ""))
}
