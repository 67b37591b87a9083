package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sportsacademy/academy-backend/internal/dto"
	"github.com/sportsacademy/academy-backend/internal/repository"
	"github.com/sportsacademy/academy-backend/internal/service"
	"github.com/xuri/excelize/v2"
)

type ScheduleHandler struct {
	svc service.ScheduleService
}

func NewScheduleHandler(svc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{svc: svc}
}

func (h *ScheduleHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/sessions", h.CreateSession)
	g.GET("/sessions", h.ListSessions)
	g.GET("/sessions/export", h.ExportSessions)
	g.GET("/sessions/:id", h.GetSession)
	g.PUT("/sessions/:id", h.UpdateSession)
	g.DELETE("/sessions/:id", h.CancelSession)
	g.POST("/sessions/validate", h.ValidateSession)
	g.POST("/programs/:id/schedule/generate", h.GenerateSchedule)
}

func draftFromRequest(req dto.SessionRequest) service.SessionDraft {
	return service.SessionDraft{
		ProgramID:   req.ProgramID,
		CoachID:     req.CoachID,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Facility:    req.Facility,
		Capacity:    req.Capacity,
		IsRecurring: req.IsRecurring,
	}
}

func (h *ScheduleHandler) CreateSession(c echo.Context) error {
	var req dto.SessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.ProgramID == uuid.Nil || req.CoachID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "program_id and coach_id are required")
	}

	session, err := h.svc.Create(c.Request().Context(), draftFromRequest(req))
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.ToSessionResponse(session))
}

func (h *ScheduleHandler) UpdateSession(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid session id")
	}

	var req dto.SessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	session, err := h.svc.Update(c.Request().Context(), id, draftFromRequest(req))
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, dto.ToSessionResponse(session))
}

func (h *ScheduleHandler) CancelSession(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid session id")
	}

	var req dto.CancelSessionRequest
	_ = c.Bind(&req)
	permanent := c.QueryParam("permanent") == "true"

	if err := h.svc.Cancel(c.Request().Context(), id, req.Reason, req.CancelledBy, permanent); err != nil {
		return toHTTPError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ScheduleHandler) GetSession(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid session id")
	}

	session, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, dto.ToSessionResponse(session))
}

func (h *ScheduleHandler) ValidateSession(c echo.Context) error {
	var req dto.ValidateSessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := h.svc.Validate(c.Request().Context(), draftFromRequest(req.SessionRequest), req.ExcludeSessionID)
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, dto.ValidationResponse{
		IsValid:           result.Valid,
		CoachConflicts:    dto.ToSessionResponses(result.CoachConflicts),
		FacilityConflicts: dto.ToSessionResponses(result.FacilityConflicts),
	})
}

func (h *ScheduleHandler) GenerateSchedule(c echo.Context) error {
	programID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid program id")
	}

	var req dto.GenerateScheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.StartDate.IsZero() {
		req.StartDate = time.Now().UTC()
	}

	result, err := h.svc.Materialize(c.Request().Context(), programID, service.ExpandOptions{
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		WeeksAhead: req.WeeksAhead,
	})
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.GenerateScheduleResponse{
		Created:  len(result.Created),
		Failed:   len(result.Failed),
		Sessions: dto.ToSessionResponses(result.Created),
	})
}

func (h *ScheduleHandler) ListSessions(c echo.Context) error {
	filter, err := sessionFilterFromQuery(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sessions, err := h.svc.List(c.Request().Context(), filter)
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, dto.ToSessionResponses(sessions))
}

// ExportSessions renders the filtered schedule as an XLSX workbook for the
// branch admins.
func (h *ScheduleHandler) ExportSessions(c echo.Context) error {
	filter, err := sessionFilterFromQuery(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sessions, err := h.svc.List(c.Request().Context(), filter)
	if err != nil {
		return toHTTPError(c, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Schedule"
	f.SetSheetName("Sheet1", sheet)
	headers := []string{"Date", "Day", "Start", "End", "Facility", "Coach ID", "Program ID", "Capacity", "Enrolled", "Cancelled"}
	for i, hd := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, hd)
	}
	for row, s := range sessions {
		facility := ""
		if s.Facility != nil {
			facility = *s.Facility
		}
		values := []any{
			s.Date.Format("2006-01-02"), s.DayOfWeek, s.StartTime, s.EndTime,
			facility, s.CoachID.String(), s.ProgramID.String(),
			s.Capacity, s.CurrentEnrollment, s.Cancelled,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=schedule-%s.xlsx", time.Now().Format("2006-01-02")))
	c.Response().Header().Set(echo.HeaderContentType,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().WriteHeader(http.StatusOK)
	return f.Write(c.Response())
}

func sessionFilterFromQuery(c echo.Context) (repository.SessionFilter, error) {
	var filter repository.SessionFilter
	for param, target := range map[string]**uuid.UUID{
		"program_id": &filter.ProgramID,
		"branch_id":  &filter.BranchID,
		"coach_id":   &filter.CoachID,
	} {
		if v := c.QueryParam(param); v != "" {
			id, err := uuid.Parse(v)
			if err != nil {
				return filter, fmt.Errorf("invalid %s", param)
			}
			*target = &id
		}
	}
	for param, target := range map[string]**time.Time{
		"from": &filter.From,
		"to":   &filter.To,
	} {
		if v := c.QueryParam(param); v != "" {
			t, err := time.Parse("2006-01-02", v)
			if err != nil {
				return filter, fmt.Errorf("invalid %s date", param)
			}
			*target = &t
		}
	}
	filter.IncludeCancelled = c.QueryParam("include_cancelled") == "true"
	return filter, nil
}
