package observance

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vitacoach/vitacoach/internal/platform/apperr"
	"github.com/vitacoach/vitacoach/internal/platform/auth"
)

// DefaultWindowDays is the summary lookback used when the caller does not
// pass one.
const DefaultWindowDays = 30

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole("practitioner", "consultant"))
	read.GET("/consultants/:id/observance/daily", h.DailyView)
	read.GET("/consultants/:id/observance/summary", h.Summary)
	read.GET("/consultants/:id/observance/history", h.History)
	read.GET("/consultants/:id/observance/items", h.ListItems)
	read.POST("/observance/items/:id/toggle", h.Toggle)

	write := api.Group("", auth.RequireRole("practitioner"))
	write.POST("/observance/items", h.CreateItem)
	write.POST("/observance/items/bulk", h.BulkCreateItems)
	write.PATCH("/observance/items/:id", h.UpdateItem)
	write.DELETE("/observance/items/:id", h.DeleteItem)
}

// httpError maps the engine's error taxonomy onto HTTP statuses.
func httpError(err error) error {
	switch {
	case apperr.IsValidation(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) CreateItem(c echo.Context) error {
	var it Item
	if err := c.Bind(&it); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateItem(c.Request().Context(), &it); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, it)
}

func (h *Handler) BulkCreateItems(c echo.Context) error {
	var items []*Item
	if err := c.Bind(&items); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	created, err := h.svc.BulkCreateItems(c.Request().Context(), items)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) UpdateItem(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var upd ItemUpdate
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	it, err := h.svc.UpdateItem(c.Request().Context(), id, upd)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, it)
}

func (h *Handler) DeleteItem(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteItem(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListItems(c echo.Context) error {
	consultantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid consultant id")
	}

	var planID *uuid.UUID
	if p := c.QueryParam("plan_id"); p != "" {
		pid, err := uuid.Parse(p)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid plan_id")
		}
		planID = &pid
	}

	activeOnly := c.QueryParam("include_inactive") != "true"
	items, err := h.svc.ListItems(c.Request().Context(), consultantID, planID, activeOnly)
	if err != nil {
		return httpError(err)
	}
	if items == nil {
		items = []*Item{}
	}
	return c.JSON(http.StatusOK, items)
}

type toggleRequest struct {
	ConsultantID uuid.UUID `json:"consultant_id"`
	Date         string    `json:"date"`
	Done         bool      `json:"done"`
	Notes        *string   `json:"notes,omitempty"`
}

func (h *Handler) Toggle(c echo.Context) error {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid item id")
	}
	var req toggleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	log, err := h.svc.Toggle(c.Request().Context(), itemID, req.ConsultantID, req.Date, req.Done, req.Notes)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, log)
}

func (h *Handler) DailyView(c echo.Context) error {
	consultantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid consultant id")
	}
	entries, err := h.svc.DailyView(c.Request().Context(), consultantID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *Handler) Summary(c echo.Context) error {
	consultantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid consultant id")
	}
	days := DefaultWindowDays
	if d := c.QueryParam("days"); d != "" {
		days, err = strconv.Atoi(d)
		if err != nil || days < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "days must be a positive integer")
		}
	}
	summary, err := h.svc.CalculateRates(c.Request().Context(), consultantID, days)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *Handler) History(c echo.Context) error {
	consultantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid consultant id")
	}
	logs, err := h.svc.History(c.Request().Context(), consultantID, c.QueryParam("start"), c.QueryParam("end"))
	if err != nil {
		return httpError(err)
	}
	if logs == nil {
		logs = []*LogWithItem{}
	}
	return c.JSON(http.StatusOK, logs)
}
