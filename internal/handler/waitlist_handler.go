package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sportsacademy/academy-backend/internal/dto"
	"github.com/sportsacademy/academy-backend/internal/service"
)

type WaitlistHandler struct {
	svc service.WaitlistService
}

func NewWaitlistHandler(svc service.WaitlistService) *WaitlistHandler {
	return &WaitlistHandler{svc: svc}
}

func (h *WaitlistHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/programs/:id/waitlist", h.Join)
	g.GET("/programs/:id/waitlist", h.List)
	g.POST("/programs/:id/waitlist/process", h.Process)
	g.DELETE("/waitlist/:id", h.Cancel)
	g.POST("/waitlist/:id/enroll", h.Enroll)
}

func (h *WaitlistHandler) Join(c echo.Context) error {
	programID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid program id")
	}

	var req dto.JoinWaitlistRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.PlayerID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "player_id is required")
	}

	entry, err := h.svc.Join(c.Request().Context(), programID, req.PlayerID)
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.ToWaitlistEntryResponse(entry))
}

func (h *WaitlistHandler) List(c echo.Context) error {
	programID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid program id")
	}

	entries, err := h.svc.ListByProgram(c.Request().Context(), programID)
	if err != nil {
		return toHTTPError(c, err)
	}

	resp := make([]dto.WaitlistEntryResponse, len(entries))
	for i := range entries {
		resp[i] = dto.ToWaitlistEntryResponse(&entries[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *WaitlistHandler) Process(c echo.Context) error {
	programID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid program id")
	}

	outcomes, err := h.svc.ProcessWaitlist(c.Request().Context(), programID)
	if err != nil {
		return toHTTPError(c, err)
	}

	resp := make([]dto.WaitlistEntryResponse, len(outcomes))
	for i := range outcomes {
		resp[i] = dto.ToWaitlistEntryResponse(&outcomes[i].Entry)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *WaitlistHandler) Cancel(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid waitlist entry id")
	}

	if err := h.svc.Cancel(c.Request().Context(), id); err != nil {
		return toHTTPError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *WaitlistHandler) Enroll(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid waitlist entry id")
	}

	if err := h.svc.MarkEnrolled(c.Request().Context(), id); err != nil {
		return toHTTPError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
