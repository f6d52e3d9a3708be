package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/parkwise/parking-system/internal/core/domain"
	"github.com/parkwise/parking-system/internal/core/ports"
)

type RequestHandler struct {
	requestService ports.RequestService
}

func NewRequestHandler(requestService ports.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

type createRequestRequest struct {
	RequestedEntryTime time.Time `json:"requested_entry_time" validate:"required"`
	RequestedExitTime  time.Time `json:"requested_exit_time" validate:"required"`
	Reason             string    `json:"reason,omitempty"`
}

type approveRequestRequest struct {
	SlotID string `json:"slot_id" validate:"required"`
}

type rejectRequestRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type requestListResponse struct {
	Requests   any                `json:"requests"`
	Pagination paginationResponse `json:"pagination"`
}

// Create files a slot request for the caller.
//
// @Summary      Request a parking slot
// @Tags         slot-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createRequestRequest  true  "Requested window"
// @Success      201   {object}  envelope
// @Failure      400   {object}  map[string]any
// @Router       /slot-requests [post]
func (h *RequestHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.requestService.Create(c.Request().Context(), ports.CreateRequestInput{
		UserID:             userID,
		RequestedEntryTime: req.RequestedEntryTime,
		RequestedExitTime:  req.RequestedExitTime,
		Reason:             req.Reason,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "slot request submitted", created)
}

// ListMine returns the caller's own slot requests.
//
// @Summary      List my slot requests
// @Tags         slot-requests
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  envelope
// @Router       /slot-requests [get]
func (h *RequestHandler) ListMine(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	result, err := h.requestService.List(c.Request().Context(), ports.ListRequestsFilter{
		UserID: userID,
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "requests retrieved", requestListResponse{
		Requests:   result.Items,
		Pagination: toPagination(result.Pagination),
	})
}

// ListPending returns pending requests for the admin queue.
//
// @Summary      List pending slot requests
// @Tags         slot-requests
// @Security     BearerAuth
// @Router       /slot-requests/admin/pending [get]
func (h *RequestHandler) ListPending(c echo.Context) error {
	return h.listAdmin(c, string(domain.RequestPending))
}

// ListAll returns all requests with optional status filtering.
//
// @Summary      List all slot requests
// @Tags         slot-requests
// @Security     BearerAuth
// @Router       /slot-requests/admin/all [get]
func (h *RequestHandler) ListAll(c echo.Context) error {
	return h.listAdmin(c, c.QueryParam("status"))
}

func (h *RequestHandler) listAdmin(c echo.Context, status string) error {
	result, err := h.requestService.List(c.Request().Context(), ports.ListRequestsFilter{
		Status: status,
		Search: c.QueryParam("search"),
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "requests retrieved", requestListResponse{
		Requests:   result.Items,
		Pagination: toPagination(result.Pagination),
	})
}

// Approve grants a pending request a specific slot.
//
// @Summary      Approve a slot request
// @Tags         slot-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Request ID"
// @Param        body  body      approveRequestRequest  true  "Slot to assign"
// @Success      200   {object}  envelope
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /slot-requests/admin/{id}/approve [post]
func (h *RequestHandler) Approve(c echo.Context) error {
	var req approveRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	approved, err := h.requestService.Approve(c.Request().Context(), c.Param("id"), req.SlotID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "request approved", approved)
}

// Reject declines a pending request with a mandatory reason.
//
// @Summary      Reject a slot request
// @Tags         slot-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Request ID"
// @Param        body  body      rejectRequestRequest  true  "Rejection reason"
// @Success      200   {object}  envelope
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /slot-requests/admin/{id}/reject [post]
func (h *RequestHandler) Reject(c echo.Context) error {
	var req rejectRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rejected, err := h.requestService.Reject(c.Request().Context(), c.Param("id"), req.Reason)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "request rejected", rejected)
}
