package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sportsacademy/academy-backend/internal/dto"
	"github.com/sportsacademy/academy-backend/internal/service"
)

// toHTTPError maps the service error taxonomy onto HTTP responses. Conflict
// rejections are answered directly with both conflict lists in the body so a
// UI can render specifics.
func toHTTPError(c echo.Context, err error) error {
	var conflictErr *service.ConflictError
	if errors.As(err, &conflictErr) {
		return c.JSON(http.StatusConflict, dto.ValidationResponse{
			IsValid:           false,
			CoachConflicts:    dto.ToSessionResponses(conflictErr.CoachConflicts),
			FacilityConflicts: dto.ToSessionResponses(conflictErr.FacilityConflicts),
		})
	}

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		return echo.NewHTTPError(http.StatusBadRequest, validationErr.Msg)
	}

	switch {
	case errors.Is(err, service.ErrProgramNotFound),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrBranchNotFound),
		errors.Is(err, service.ErrCoachNotFound),
		errors.Is(err, service.ErrPlayerNotFound),
		errors.Is(err, service.ErrFreezeNotFound),
		errors.Is(err, service.ErrWaitlistNotFound),
		errors.Is(err, service.ErrEmptySchedule):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAlreadyOnWaitlist),
		errors.Is(err, service.ErrSessionCancelled):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrFreezeNotCancellable):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
