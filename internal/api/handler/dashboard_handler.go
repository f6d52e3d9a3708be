package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/parkwise/parking-system/internal/core/ports"
)

type DashboardHandler struct {
	dashboardService ports.DashboardService
}

func NewDashboardHandler(dashboardService ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Admin returns facility-wide counts for the admin landing view.
//
// @Summary      Admin dashboard
// @Tags         dashboards
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Router       /admin/dashboard [get]
func (h *DashboardHandler) Admin(c echo.Context) error {
	dash, err := h.dashboardService.Admin(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "dashboard retrieved", dash)
}

// Stats returns the cached occupancy/revenue snapshot.
//
// @Summary      Parking statistics
// @Tags         dashboards
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Router       /admin/parking-stats [get]
func (h *DashboardHandler) Stats(c echo.Context) error {
	stats, err := h.dashboardService.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "stats retrieved", stats)
}

// User returns the caller's slot, open ticket and recent activity.
//
// @Summary      User dashboard
// @Tags         dashboards
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Router       /user/dashboard [get]
func (h *DashboardHandler) User(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	dash, err := h.dashboardService.User(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "dashboard retrieved", dash)
}
