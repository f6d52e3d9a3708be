package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/parkwise/parking-system/internal/core/domain"
	"github.com/parkwise/parking-system/internal/core/ports"
)

type SlotHandler struct {
	slotService ports.SlotService
}

func NewSlotHandler(slotService ports.SlotService) *SlotHandler {
	return &SlotHandler{slotService: slotService}
}

type createSlotRequest struct {
	SlotNumber string `json:"slot_number" validate:"required"`
}

type updateSlotRequest struct {
	SlotNumber *string `json:"slot_number,omitempty"`
	Status     *string `json:"status,omitempty" validate:"omitempty,oneof=available maintenance"`
}

type assignSlotRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

type releaseSlotRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

type slotListResponse struct {
	Slots      any                `json:"slots"`
	Pagination paginationResponse `json:"pagination"`
}

// List returns the full slot inventory for the admin panel.
//
// @Summary      List parking slots
// @Tags         slots
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by slot status"
// @Param        search  query     string  false  "Partial match on slot number"
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  envelope
// @Router       /admin/parking-slots [get]
func (h *SlotHandler) List(c echo.Context) error {
	return h.list(c, c.QueryParam("status"))
}

// ListAvailable returns slots currently free.
//
// @Summary      List available slots
// @Tags         slots
// @Security     BearerAuth
// @Router       /parking-slots/available [get]
func (h *SlotHandler) ListAvailable(c echo.Context) error {
	return h.list(c, string(domain.SlotAvailable))
}

// ListOccupied returns slots currently held by a user.
//
// @Summary      List occupied slots
// @Tags         slots
// @Security     BearerAuth
// @Router       /parking-slots/occupied [get]
func (h *SlotHandler) ListOccupied(c echo.Context) error {
	return h.list(c, string(domain.SlotOccupied))
}

func (h *SlotHandler) list(c echo.Context, status string) error {
	result, err := h.slotService.List(c.Request().Context(), ports.ListSlotsFilter{
		Status: status,
		Search: c.QueryParam("search"),
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "slots retrieved", slotListResponse{
		Slots:      result.Items,
		Pagination: toPagination(result.Pagination),
	})
}

// MySlot returns the slot assigned to the caller.
//
// @Summary      Get my assigned slot
// @Tags         slots
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Failure      404  {object}  map[string]any
// @Router       /parking-slots/my-slot [get]
func (h *SlotHandler) MySlot(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	slot, err := h.slotService.MySlot(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "slot retrieved", slot)
}

// Create adds a slot to the inventory.
//
// @Summary      Create a parking slot
// @Tags         slots
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createSlotRequest  true  "Slot details"
// @Success      201   {object}  envelope
// @Failure      400   {object}  map[string]any
// @Router       /admin/parking-slots [post]
func (h *SlotHandler) Create(c echo.Context) error {
	var req createSlotRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	slot, err := h.slotService.Create(c.Request().Context(), req.SlotNumber)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "slot created", slot)
}

// Update renames a slot or moves it in or out of maintenance.
//
// @Summary      Update a parking slot
// @Tags         slots
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Slot ID"
// @Param        body  body      updateSlotRequest  true  "Fields to update"
// @Success      200   {object}  envelope
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /admin/parking-slots/{id} [put]
func (h *SlotHandler) Update(c echo.Context) error {
	var req updateSlotRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	fields := ports.UpdateSlotFields{SlotNumber: req.SlotNumber}
	if req.Status != nil {
		status := domain.SlotStatus(*req.Status)
		fields.Status = &status
	}

	slot, err := h.slotService.Update(c.Request().Context(), c.Param("id"), fields)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "slot updated", slot)
}

// Delete removes an unoccupied slot from the inventory.
//
// @Summary      Delete a parking slot
// @Tags         slots
// @Security     BearerAuth
// @Param        id   path      string  true  "Slot ID"
// @Success      200  {object}  envelope
// @Failure      400  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /admin/parking-slots/{id} [delete]
func (h *SlotHandler) Delete(c echo.Context) error {
	if err := h.slotService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "slot deleted", nil)
}

// Assign binds an available slot to a user.
//
// @Summary      Assign a slot to a user
// @Tags         slots
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Slot ID"
// @Param        body  body      assignSlotRequest  true  "Target user"
// @Success      200   {object}  envelope
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /admin/parking-slots/{id}/assign [post]
func (h *SlotHandler) Assign(c echo.Context) error {
	var req assignSlotRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.slotService.Assign(c.Request().Context(), c.Param("id"), req.UserID); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "slot assigned", nil)
}

// Release frees the slot held by a user.
//
// @Summary      Release a user's slot
// @Tags         slots
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      releaseSlotRequest  true  "Slot holder"
// @Success      200   {object}  envelope
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /admin/parking-slots/release [post]
func (h *SlotHandler) Release(c echo.Context) error {
	var req releaseSlotRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.slotService.Release(c.Request().Context(), req.UserID); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "slot released", nil)
}
