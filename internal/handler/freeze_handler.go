package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sportsacademy/academy-backend/internal/dto"
	"github.com/sportsacademy/academy-backend/internal/service"
)

type FreezeHandler struct {
	svc service.FreezeService
}

func NewFreezeHandler(svc service.FreezeService) *FreezeHandler {
	return &FreezeHandler{svc: svc}
}

func (h *FreezeHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/freezes", h.Create)
	g.GET("/freezes", h.List)
	g.GET("/freezes/:id", h.Get)
	g.POST("/freezes/:id/cancel", h.Cancel)
}

func (h *FreezeHandler) Create(c echo.Context) error {
	var req dto.CreateFreezeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	freeze, err := h.svc.Create(c.Request().Context(), service.FreezeInput{
		Title:     req.Title,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Scope:     req.Scope,
		BranchID:  req.BranchID,
		ProgramID: req.ProgramID,
		PlayerID:  req.PlayerID,
		CreatedBy: req.CreatedBy,
	})
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.ToFreezeResponse(freeze))
}

func (h *FreezeHandler) List(c echo.Context) error {
	freezes, err := h.svc.List(c.Request().Context())
	if err != nil {
		return toHTTPError(c, err)
	}

	resp := make([]dto.FreezeResponse, len(freezes))
	for i := range freezes {
		resp[i] = dto.ToFreezeResponse(&freezes[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *FreezeHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid freeze id")
	}

	freeze, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, dto.ToFreezeResponse(freeze))
}

func (h *FreezeHandler) Cancel(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid freeze id")
	}

	freeze, err := h.svc.Cancel(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, dto.ToFreezeResponse(freeze))
}
