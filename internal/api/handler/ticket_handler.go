package handler

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/parkwise/parking-system/internal/core/domain"
	"github.com/parkwise/parking-system/internal/core/ports"
)

type TicketHandler struct {
	ticketService ports.TicketService
}

func NewTicketHandler(ticketService ports.TicketService) *TicketHandler {
	return &TicketHandler{ticketService: ticketService}
}

type createTicketRequest struct {
	RequestedEntryTime time.Time `json:"requested_entry_time" validate:"required"`
	RequestedExitTime  time.Time `json:"requested_exit_time" validate:"required"`
}

type calculateRequest struct {
	EntryTime time.Time `json:"entry_time" validate:"required"`
	ExitTime  time.Time `json:"exit_time" validate:"required"`
}

type estimateResponse struct {
	DurationMinutes int64 `json:"duration_minutes"`
	Amount          int64 `json:"amount"`
	HourlyRate      int64 `json:"hourly_rate"`
}

type ticketListResponse struct {
	Tickets    any                `json:"tickets"`
	Pagination paginationResponse `json:"pagination"`
}

// Create opens a pending ticket for the caller's planned window.
//
// @Summary      Request a parking ticket
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTicketRequest  true  "Planned window"
// @Success      201   {object}  envelope
// @Failure      400   {object}  map[string]any
// @Router       /tickets/request [post]
func (h *TicketHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createTicketRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ticket, err := h.ticketService.Create(c.Request().Context(), ports.CreateTicketInput{
		UserID:             userID,
		RequestedEntryTime: req.RequestedEntryTime,
		RequestedExitTime:  req.RequestedExitTime,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "ticket created", ticket)
}

// Calculate previews the bill for a candidate window without persisting
// anything. The formula is identical to the one used at completion.
//
// @Summary      Estimate parking cost
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      calculateRequest  true  "Candidate window"
// @Success      200   {object}  envelope
// @Failure      400   {object}  map[string]any
// @Router       /tickets/calculate [post]
func (h *TicketHandler) Calculate(c echo.Context) error {
	var req calculateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	est, err := h.ticketService.Estimate(req.EntryTime, req.ExitTime)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "estimate computed", estimateResponse{
		DurationMinutes: est.DurationMinutes,
		Amount:          est.Amount,
		HourlyRate:      est.HourlyRate,
	})
}

// MyActive returns the caller's open ticket.
//
// @Summary      Get my active ticket
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Failure      404  {object}  map[string]any
// @Router       /tickets/my/active [get]
func (h *TicketHandler) MyActive(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	ticket, err := h.ticketService.MyOpen(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "ticket retrieved", ticket)
}

// MyHistory returns the caller's past tickets.
//
// @Summary      List my ticket history
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by ticket status"
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  envelope
// @Router       /tickets/my/history [get]
func (h *TicketHandler) MyHistory(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	result, err := h.ticketService.List(c.Request().Context(), ports.ListTicketsFilter{
		UserID: userID,
		Status: c.QueryParam("status"),
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "tickets retrieved", ticketListResponse{
		Tickets:    result.Items,
		Pagination: toPagination(result.Pagination),
	})
}

// MyExport streams the caller's tickets as CSV.
//
// @Summary      Export my tickets as CSV
// @Tags         tickets
// @Produce      text/csv
// @Security     BearerAuth
// @Param        status     query  string  false  "Filter by ticket status"
// @Param        date_from  query  string  false  "Created at or after (RFC 3339)"
// @Param        date_to    query  string  false  "Created at or before (RFC 3339)"
// @Success      200
// @Router       /tickets/my/export [get]
func (h *TicketHandler) MyExport(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	return h.export(c, userID)
}

// ListActive returns all open tickets for the admin panel.
//
// @Summary      List active tickets
// @Tags         tickets
// @Security     BearerAuth
// @Router       /tickets/admin/active [get]
func (h *TicketHandler) ListActive(c echo.Context) error {
	return h.listAdmin(c, true)
}

// ListAll returns all tickets with optional filters.
//
// @Summary      List all tickets
// @Tags         tickets
// @Security     BearerAuth
// @Router       /tickets/admin/all [get]
func (h *TicketHandler) ListAll(c echo.Context) error {
	return h.listAdmin(c, false)
}

func (h *TicketHandler) listAdmin(c echo.Context, openOnly bool) error {
	filter := ports.ListTicketsFilter{
		UserID: c.QueryParam("user_id"),
		Status: c.QueryParam("status"),
		Open:   openOnly,
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
	}
	filter.DateFrom, filter.DateTo = queryDateRange(c)

	result, err := h.ticketService.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "tickets retrieved", ticketListResponse{
		Tickets:    result.Items,
		Pagination: toPagination(result.Pagination),
	})
}

// AdminExport streams all matching tickets as CSV.
//
// @Summary      Export tickets as CSV
// @Tags         tickets
// @Produce      text/csv
// @Security     BearerAuth
// @Router       /tickets/admin/export [get]
func (h *TicketHandler) AdminExport(c echo.Context) error {
	return h.export(c, c.QueryParam("user_id"))
}

// Activate starts a pending ticket's parking session.
//
// @Summary      Activate a ticket
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Ticket ID"
// @Success      200  {object}  envelope
// @Failure      400  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /tickets/admin/{id}/activate [post]
func (h *TicketHandler) Activate(c echo.Context) error {
	ticket, err := h.ticketService.Activate(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "ticket activated", ticket)
}

// Complete ends an active ticket's session and bills it.
//
// @Summary      Complete a ticket
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Ticket ID"
// @Success      200  {object}  envelope
// @Failure      400  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /tickets/admin/{id}/complete [post]
func (h *TicketHandler) Complete(c echo.Context) error {
	ticket, err := h.ticketService.Complete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "ticket completed", ticket)
}

// csvHeader is the fixed export column order.
var csvHeader = []string{
	"ticket_id", "slot_number", "plate_number", "status",
	"requested_entry_time", "requested_exit_time",
	"actual_entry_time", "actual_exit_time",
	"duration_minutes", "amount", "created_at",
}

func (h *TicketHandler) export(c echo.Context, userID string) error {
	filter := ports.ListTicketsFilter{
		UserID: userID,
		Status: c.QueryParam("status"),
	}
	filter.DateFrom, filter.DateTo = queryDateRange(c)

	tickets, err := h.ticketService.Export(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="tickets-`+time.Now().UTC().Format("2006-01-02")+`.csv"`)
	c.Response().WriteHeader(http.StatusOK)

	w := csv.NewWriter(c.Response())
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range tickets {
		if err := w.Write(csvRow(t)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func csvRow(t *domain.Ticket) []string {
	return []string{
		t.ID,
		t.SlotNumber,
		t.PlateNumber,
		string(t.Status),
		t.RequestedEntryTime.Format(time.RFC3339),
		t.RequestedExitTime.Format(time.RFC3339),
		formatTimePtr(t.ActualEntryTime),
		formatTimePtr(t.ActualExitTime),
		formatInt64Ptr(t.DurationMinutes),
		formatInt64Ptr(t.Amount),
		t.CreatedAt.Format(time.RFC3339),
	}
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func formatInt64Ptr(n *int64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatInt(*n, 10)
}

// queryDateRange parses date_from/date_to, accepting RFC 3339 or a bare date.
func queryDateRange(c echo.Context) (from, to time.Time) {
	return parseQueryTime(c.QueryParam("date_from")), parseQueryTime(c.QueryParam("date_to"))
}

func parseQueryTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	return time.Time{}
}
