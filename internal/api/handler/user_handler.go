package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/parkwise/parking-system/internal/core/ports"
)

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type rejectUserRequest struct {
	Reason string `json:"reason"`
}

type userListResponse struct {
	Users      any                `json:"users"`
	Pagination paginationResponse `json:"pagination"`
}

// List returns registered users for the admin panel.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by approval status"
// @Param        search  query     string  false  "Partial match on name or email"
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  envelope
// @Router       /admin/users [get]
func (h *UserHandler) List(c echo.Context) error {
	result, err := h.userService.List(c.Request().Context(), ports.ListUsersFilter{
		Status: c.QueryParam("status"),
		Search: c.QueryParam("search"),
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "users retrieved", userListResponse{
		Users:      result.Items,
		Pagination: toPagination(result.Pagination),
	})
}

// Approve approves a pending user and assigns a slot when one is free.
//
// @Summary      Approve a pending user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  envelope
// @Failure      400  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /admin/users/{id}/approve [post]
func (h *UserHandler) Approve(c echo.Context) error {
	user, err := h.userService.Approve(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "user approved", user)
}

// Reject rejects a pending user.
//
// @Summary      Reject a pending user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  envelope
// @Failure      400  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /admin/users/{id}/reject [post]
func (h *UserHandler) Reject(c echo.Context) error {
	var req rejectUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.userService.Reject(c.Request().Context(), c.Param("id"), req.Reason)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "user rejected", user)
}
