package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/parkwise/parking-system/internal/core/ports"
)

// envelope is the success payload wrapper shared by all endpoints.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func respond(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, envelope{Success: true, Message: message, Data: data})
}

// paginationResponse is the paging block embedded in list payloads.
type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

func toPagination(p ports.Pagination) paginationResponse {
	return paginationResponse{
		Total:      p.Total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages,
	}
}

// queryInt parses an integer query parameter, returning 0 when absent or
// malformed; the service applies its own defaults and caps.
func queryInt(c echo.Context, name string) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return v
}
