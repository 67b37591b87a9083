package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sportsacademy/academy-backend/internal/models"
	"github.com/sportsacademy/academy-backend/internal/repository"
	"github.com/sportsacademy/academy-backend/pkg/metrics"
	"gorm.io/gorm"
)

// SessionDraft is the caller's proposal for a new or edited session. Branch
// is always derived from the program, never taken from the caller.
type SessionDraft struct {
	ProgramID   uuid.UUID
	CoachID     uuid.UUID
	Date        time.Time
	StartTime   string
	EndTime     string
	Facility    *string
	Capacity    int
	IsRecurring bool
}

// ValidationResult carries both conflict dimensions so a rejection can show
// exactly which sessions collide.
type ValidationResult struct {
	Valid             bool
	CoachConflicts    []models.TrainingSession
	FacilityConflicts []models.TrainingSession
}

type ScheduleService interface {
	Validate(ctx context.Context, draft SessionDraft, excludeID *uuid.UUID) (*ValidationResult, error)
	Create(ctx context.Context, draft SessionDraft) (*models.TrainingSession, error)
	Update(ctx context.Context, id uuid.UUID, draft SessionDraft) (*models.TrainingSession, error)
	Cancel(ctx context.Context, id uuid.UUID, reason string, actor *uuid.UUID, permanent bool) error
	Get(ctx context.Context, id uuid.UUID) (*models.TrainingSession, error)
	List(ctx context.Context, filter repository.SessionFilter) ([]models.TrainingSession, error)
	Expand(ctx context.Context, programID uuid.UUID, opts ExpandOptions) ([]models.TrainingSession, error)
	Materialize(ctx context.Context, programID uuid.UUID, opts ExpandOptions) (*MaterializeResult, error)
}

type scheduleService struct {
	sessionRepo      repository.SessionRepository
	programRepo      repository.ProgramRepository
	userRepo         repository.UserRepository
	branchRepo       repository.BranchRepository
	subscriptionRepo repository.SubscriptionRepository
	notifier         Notifier
	logger           zerolog.Logger
	now              func() time.Time
}

func NewScheduleService(
	sessionRepo repository.SessionRepository,
	programRepo repository.ProgramRepository,
	userRepo repository.UserRepository,
	branchRepo repository.BranchRepository,
	subscriptionRepo repository.SubscriptionRepository,
	notifier Notifier,
	logger zerolog.Logger,
) ScheduleService {
	return &scheduleService{
		sessionRepo:      sessionRepo,
		programRepo:      programRepo,
		userRepo:         userRepo,
		branchRepo:       branchRepo,
		subscriptionRepo: subscriptionRepo,
		notifier:         notifier,
		logger:           logger,
		now:              time.Now,
	}
}

func (s *scheduleService) checkDraft(draft *SessionDraft) error {
	if !validClock(draft.StartTime) || !validClock(draft.EndTime) {
		return validationErrorf("times must be zero-padded HH:MM")
	}
	if draft.StartTime >= draft.EndTime {
		return validationErrorf("start_time %s must be before end_time %s", draft.StartTime, draft.EndTime)
	}
	if draft.Facility != nil && *draft.Facility == "" {
		draft.Facility = nil
	}
	draft.Date = utcDate(draft.Date)
	return nil
}

// conflictsIn runs both conflict dimensions against the given tx. The
// facility dimension is skipped entirely when no facility is set: unnamed
// space is not modeled as contended.
func (s *scheduleService) conflictsIn(ctx context.Context, tx *gorm.DB, branchID uuid.UUID, draft SessionDraft, excludeID *uuid.UUID) (*ValidationResult, error) {
	coachSessions, err := s.sessionRepo.FindByCoachAndDate(ctx, tx, draft.CoachID, draft.Date)
	if err != nil {
		return nil, err
	}
	result := &ValidationResult{
		CoachConflicts: filterConflicts(coachSessions, draft.StartTime, draft.EndTime, excludeID),
	}

	if draft.Facility != nil {
		facilitySessions, err := s.sessionRepo.FindByFacilityAndDate(ctx, tx, branchID, *draft.Facility, draft.Date)
		if err != nil {
			return nil, err
		}
		result.FacilityConflicts = filterConflicts(facilitySessions, draft.StartTime, draft.EndTime, excludeID)
	}

	result.Valid = len(result.CoachConflicts) == 0 && len(result.FacilityConflicts) == 0
	return result, nil
}

// Validate is advisory: it runs the same checks Create/Update run but takes
// no locks and commits nothing.
func (s *scheduleService) Validate(ctx context.Context, draft SessionDraft, excludeID *uuid.UUID) (*ValidationResult, error) {
	if err := s.checkDraft(&draft); err != nil {
		return nil, err
	}
	program, err := s.programRepo.FindByID(ctx, draft.ProgramID)
	if err != nil {
		return nil, ErrProgramNotFound
	}
	return s.conflictsIn(ctx, s.sessionRepo.GetDB(), program.BranchID, draft, excludeID)
}

func (s *scheduleService) Create(ctx context.Context, draft SessionDraft) (*models.TrainingSession, error) {
	if err := s.checkDraft(&draft); err != nil {
		return nil, err
	}

	program, err := s.programRepo.FindByID(ctx, draft.ProgramID)
	if err != nil {
		return nil, ErrProgramNotFound
	}
	if draft.Capacity <= 0 {
		draft.Capacity = program.Capacity
	}

	var session *models.TrainingSession
	err = s.sessionRepo.Transaction(ctx, func(tx *gorm.DB) error {
		// Lock the coach row (and branch row when a facility is contended)
		// so concurrent validate+insert for the same resources serialize
		// instead of racing past each other.
		if _, err := s.userRepo.FindByIDForUpdate(ctx, tx, draft.CoachID); err != nil {
			return ErrCoachNotFound
		}
		if draft.Facility != nil {
			if _, err := s.branchRepo.FindByIDForUpdate(ctx, tx, program.BranchID); err != nil {
				return ErrBranchNotFound
			}
		}

		result, err := s.conflictsIn(ctx, tx, program.BranchID, draft, nil)
		if err != nil {
			return err
		}
		if !result.Valid {
			metrics.SessionConflictsRejected.Inc()
			return &ConflictError{
				CoachConflicts:    result.CoachConflicts,
				FacilityConflicts: result.FacilityConflicts,
			}
		}

		enrolled, err := s.subscriptionRepo.CountEnrolled(ctx, tx, program.ID)
		if err != nil {
			return err
		}

		session = &models.TrainingSession{
			ProgramID:         program.ID,
			BranchID:          program.BranchID,
			CoachID:           draft.CoachID,
			Date:              draft.Date,
			DayOfWeek:         dayName(draft.Date),
			StartTime:         draft.StartTime,
			EndTime:           draft.EndTime,
			Facility:          draft.Facility,
			Capacity:          draft.Capacity,
			CurrentEnrollment: int(enrolled),
			IsRecurring:       draft.IsRecurring,
		}
		return s.sessionRepo.Create(ctx, tx, session)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.NotifySessionChange(ctx, session, ChangeCreated)
	return session, nil
}

func (s *scheduleService) Update(ctx context.Context, id uuid.UUID, draft SessionDraft) (*models.TrainingSession, error) {
	if err := s.checkDraft(&draft); err != nil {
		return nil, err
	}

	existing, err := s.sessionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	if existing.Cancelled {
		return nil, ErrSessionCancelled
	}

	program, err := s.programRepo.FindByID(ctx, draft.ProgramID)
	if err != nil {
		return nil, ErrProgramNotFound
	}
	if draft.Capacity <= 0 {
		draft.Capacity = program.Capacity
	}

	rescheduled := !existing.Date.Equal(draft.Date) ||
		existing.StartTime != draft.StartTime ||
		existing.EndTime != draft.EndTime

	err = s.sessionRepo.Transaction(ctx, func(tx *gorm.DB) error {
		if _, err := s.userRepo.FindByIDForUpdate(ctx, tx, draft.CoachID); err != nil {
			return ErrCoachNotFound
		}
		if draft.Facility != nil {
			if _, err := s.branchRepo.FindByIDForUpdate(ctx, tx, program.BranchID); err != nil {
				return ErrBranchNotFound
			}
		}

		result, err := s.conflictsIn(ctx, tx, program.BranchID, draft, &id)
		if err != nil {
			return err
		}
		if !result.Valid {
			metrics.SessionConflictsRejected.Inc()
			return &ConflictError{
				CoachConflicts:    result.CoachConflicts,
				FacilityConflicts: result.FacilityConflicts,
			}
		}

		existing.ProgramID = program.ID
		existing.BranchID = program.BranchID
		existing.CoachID = draft.CoachID
		existing.Date = draft.Date
		existing.DayOfWeek = dayName(draft.Date)
		existing.StartTime = draft.StartTime
		existing.EndTime = draft.EndTime
		existing.Facility = draft.Facility
		existing.Capacity = draft.Capacity
		existing.IsRecurring = draft.IsRecurring
		return s.sessionRepo.Update(ctx, tx, existing)
	})
	if err != nil {
		return nil, err
	}

	change := ChangeUpdated
	if rescheduled {
		change = ChangeRescheduled
	}
	s.notifier.NotifySessionChange(ctx, existing, change)
	return existing, nil
}

// Cancel soft-deletes by default, keeping the row for history; permanent
// removes it outright.
func (s *scheduleService) Cancel(ctx context.Context, id uuid.UUID, reason string, actor *uuid.UUID, permanent bool) error {
	session, err := s.sessionRepo.FindByID(ctx, id)
	if err != nil {
		return ErrSessionNotFound
	}

	db := s.sessionRepo.GetDB()
	if permanent {
		if err := s.sessionRepo.Delete(ctx, db, id); err != nil {
			return err
		}
	} else {
		if session.Cancelled {
			return ErrSessionCancelled
		}
		now := s.now()
		if err := s.sessionRepo.SetCancelled(ctx, db, id, reason, actor, now); err != nil {
			return err
		}
		session.Cancelled = true
		session.CancelReason = reason
		session.CancelledBy = actor
		session.CancelledAt = &now
	}

	s.notifier.NotifySessionChange(ctx, session, ChangeCancelled)
	return nil
}

func (s *scheduleService) Get(ctx context.Context, id uuid.UUID) (*models.TrainingSession, error) {
	session, err := s.sessionRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

func (s *scheduleService) List(ctx context.Context, filter repository.SessionFilter) ([]models.TrainingSession, error) {
	return s.sessionRepo.List(ctx, filter)
}
