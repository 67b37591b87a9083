package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sportsacademy/academy-backend/internal/dto"
	"github.com/sportsacademy/academy-backend/internal/models"
	"github.com/sportsacademy/academy-backend/internal/service"
)

// JobsHandler exposes the time-driven sweeps to an external cron trigger.
// Every endpoint is idempotent or safely re-runnable, so at-least-once
// delivery from the scheduler is fine.
type JobsHandler struct {
	reminders service.ReminderService
	waitlist  service.WaitlistService
	freezes   service.FreezeService
}

func NewJobsHandler(reminders service.ReminderService, waitlist service.WaitlistService, freezes service.FreezeService) *JobsHandler {
	return &JobsHandler{reminders: reminders, waitlist: waitlist, freezes: freezes}
}

func (h *JobsHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/jobs/reminders", h.RunReminders)
	g.POST("/jobs/waitlist-expiry", h.RunWaitlistExpiry)
	g.POST("/jobs/freeze-status", h.RunFreezeStatus)
}

func (h *JobsHandler) RunReminders(c echo.Context) error {
	var req dto.RunRemindersRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	var window models.ReminderWindow
	switch req.HoursAhead {
	case 24:
		window = models.Reminder24h
	case 1:
		window = models.Reminder1h
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "hours_ahead must be 24 or 1")
	}

	outcomes, err := h.reminders.SendReminders(c.Request().Context(), window)
	if err != nil {
		return toHTTPError(c, err)
	}

	sent, failed := 0, 0
	for _, o := range outcomes {
		sent += o.Sent
		failed += o.Failed
	}
	return c.JSON(http.StatusOK, map[string]int{
		"sessions": len(outcomes),
		"sent":     sent,
		"failed":   failed,
	})
}

func (h *JobsHandler) RunWaitlistExpiry(c echo.Context) error {
	expired, err := h.waitlist.ExpireStale(c.Request().Context())
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int{"expired": expired})
}

func (h *JobsHandler) RunFreezeStatus(c echo.Context) error {
	changed, err := h.freezes.RecomputeStatuses(c.Request().Context())
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int{"changed": changed})
}
