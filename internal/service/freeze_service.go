package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sportsacademy/academy-backend/internal/models"
	"github.com/sportsacademy/academy-backend/internal/repository"
	"github.com/sportsacademy/academy-backend/pkg/metrics"
	"gorm.io/gorm"
)

// FreezeInput is the caller's freeze request. A player-targeted freeze comes
// in as scope=program with PlayerID set; there is no separate player scope.
type FreezeInput struct {
	Title     string
	StartDate time.Time
	EndDate   time.Time
	Scope     models.FreezeScope
	BranchID  *uuid.UUID
	ProgramID *uuid.UUID
	PlayerID  *uuid.UUID
	CreatedBy *uuid.UUID
}

type FreezeService interface {
	Create(ctx context.Context, input FreezeInput) (*models.SubscriptionFreeze, error)
	Cancel(ctx context.Context, id uuid.UUID) (*models.SubscriptionFreeze, error)
	Get(ctx context.Context, id uuid.UUID) (*models.SubscriptionFreeze, error)
	List(ctx context.Context) ([]models.SubscriptionFreeze, error)
	RecomputeStatuses(ctx context.Context) (int, error)
}

type freezeService struct {
	freezeRepo       repository.FreezeRepository
	subscriptionRepo repository.SubscriptionRepository
	programRepo      repository.ProgramRepository
	branchRepo       repository.BranchRepository
	playerRepo       repository.PlayerRepository
	notifier         Notifier
	logger           zerolog.Logger
	now              func() time.Time
}

func NewFreezeService(
	freezeRepo repository.FreezeRepository,
	subscriptionRepo repository.SubscriptionRepository,
	programRepo repository.ProgramRepository,
	branchRepo repository.BranchRepository,
	playerRepo repository.PlayerRepository,
	notifier Notifier,
	logger zerolog.Logger,
) FreezeService {
	return &freezeService{
		freezeRepo:       freezeRepo,
		subscriptionRepo: subscriptionRepo,
		programRepo:      programRepo,
		branchRepo:       branchRepo,
		playerRepo:       playerRepo,
		notifier:         notifier,
		logger:           logger,
		now:              time.Now,
	}
}

// freezeDays counts the window inclusively: [Jan 10, Jan 12] is 3 days.
func freezeDays(start, end time.Time) int {
	return int(utcDate(end).Sub(utcDate(start)).Hours()/24) + 1
}

func computeFreezeStatus(start, end, today time.Time) models.FreezeStatus {
	switch {
	case today.Before(start):
		return models.FreezeScheduled
	case today.After(end):
		return models.FreezeCompleted
	default:
		return models.FreezeActive
	}
}

func (s *freezeService) validateInput(ctx context.Context, input *FreezeInput) error {
	if input.Title == "" {
		return validationErrorf("title is required")
	}
	input.StartDate = utcDate(input.StartDate)
	input.EndDate = utcDate(input.EndDate)
	if input.EndDate.Before(input.StartDate) {
		return validationErrorf("end_date must not be before start_date")
	}

	switch input.Scope {
	case models.ScopeGlobal:
		if input.BranchID != nil || input.ProgramID != nil || input.PlayerID != nil {
			return validationErrorf("global scope takes no branch/program/player selector")
		}
	case models.ScopeBranch:
		if input.BranchID == nil {
			return validationErrorf("branch scope requires branch_id")
		}
		if input.ProgramID != nil || input.PlayerID != nil {
			return validationErrorf("branch scope takes no program/player selector")
		}
		if _, err := s.branchRepo.FindByID(ctx, *input.BranchID); err != nil {
			return ErrBranchNotFound
		}
	case models.ScopeProgram:
		if input.ProgramID == nil {
			return validationErrorf("program scope requires program_id")
		}
		program, err := s.programRepo.FindByID(ctx, *input.ProgramID)
		if err != nil {
			return ErrProgramNotFound
		}
		if input.BranchID != nil && program.BranchID != *input.BranchID {
			return validationErrorf("program does not belong to the given branch")
		}
		if input.PlayerID != nil {
			player, err := s.playerRepo.FindByID(ctx, *input.PlayerID)
			if err != nil {
				return ErrPlayerNotFound
			}
			if player.BranchID != program.BranchID {
				return validationErrorf("player does not belong to the program's branch")
			}
			// A player-targeted freeze must have something to extend;
			// rejecting here beats applying an empty freeze silently.
			subs, err := s.subscriptionRepo.FindForFreeze(ctx, s.subscriptionRepo.GetDB(), repository.FreezeSelector{
				Scope:       models.ScopeProgram,
				ProgramID:   input.ProgramID,
				PlayerID:    input.PlayerID,
				EndDateFrom: input.StartDate,
			})
			if err != nil {
				return err
			}
			if len(subs) == 0 {
				return validationErrorf("player has no subscription in the program running at the freeze start")
			}
		}
	default:
		return validationErrorf("unknown freeze scope %q", input.Scope)
	}
	return nil
}

// Create validates, guards against overlapping freezes of the identical
// scope, then applies: every matching active/pending subscription still
// running at the freeze start gets its end date pushed out by the freeze
// days, with an audit line and a snapshot row recording exactly what was
// changed. The extension runs even when the window is already past and the
// freeze lands directly in completed, keeping the applied/affected
// bookkeeping uniform.
func (s *freezeService) Create(ctx context.Context, input FreezeInput) (*models.SubscriptionFreeze, error) {
	if err := s.validateInput(ctx, &input); err != nil {
		return nil, err
	}

	freeze := &models.SubscriptionFreeze{
		Title:      input.Title,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
		FreezeDays: freezeDays(input.StartDate, input.EndDate),
		Scope:      input.Scope,
		BranchID:   input.BranchID,
		ProgramID:  input.ProgramID,
		PlayerID:   input.PlayerID,
		Status:     computeFreezeStatus(input.StartDate, input.EndDate, utcDate(s.now())),
		CreatedBy:  input.CreatedBy,
	}

	var affected []models.Subscription
	err := s.freezeRepo.Transaction(ctx, func(tx *gorm.DB) error {
		existing, err := s.freezeRepo.FindOverlapping(ctx, tx, freeze)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return validationErrorf("an overlapping %s freeze already exists (%s)",
				freeze.Scope, existing[0].Title)
		}

		if err := s.freezeRepo.Create(ctx, tx, freeze); err != nil {
			return err
		}

		subs, err := s.subscriptionRepo.FindForFreeze(ctx, tx, repository.FreezeSelector{
			Scope:       freeze.Scope,
			BranchID:    freeze.BranchID,
			ProgramID:   freeze.ProgramID,
			PlayerID:    freeze.PlayerID,
			EndDateFrom: freeze.StartDate,
		})
		if err != nil {
			return err
		}

		note := fmt.Sprintf("[freeze] %s: +%d days (%s to %s)",
			freeze.Title, freeze.FreezeDays,
			freeze.StartDate.Format("2006-01-02"), freeze.EndDate.Format("2006-01-02"))
		for _, sub := range subs {
			if err := s.subscriptionRepo.ShiftEndDate(ctx, tx, sub.ID, freeze.FreezeDays, note); err != nil {
				return err
			}
			if err := s.freezeRepo.CreateAdjustment(ctx, tx, &models.FreezeAdjustment{
				FreezeID:       freeze.ID,
				SubscriptionID: sub.ID,
				DaysApplied:    freeze.FreezeDays,
			}); err != nil {
				return err
			}
		}

		affected = subs
		freeze.Applied = true
		freeze.SubscriptionsAffected = len(subs)
		return s.freezeRepo.MarkApplied(ctx, tx, freeze.ID, len(subs))
	})
	if err != nil {
		return nil, err
	}

	metrics.FreezesApplied.Inc()
	s.notifyFreeze(ctx, freeze, affected, models.NotifyFreezeCreated)
	return freeze, nil
}

// Cancel reverts using the adjustment snapshot taken at apply time, not by
// re-running the scope predicate: subscriptions that matched then are
// reverted even if the matching set has drifted since.
func (s *freezeService) Cancel(ctx context.Context, id uuid.UUID) (*models.SubscriptionFreeze, error) {
	freeze, err := s.freezeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrFreezeNotFound
	}
	if freeze.Status == models.FreezeCompleted || freeze.Status == models.FreezeCancelled {
		return nil, ErrFreezeNotCancellable
	}

	var reverted []models.Subscription
	err = s.freezeRepo.Transaction(ctx, func(tx *gorm.DB) error {
		adjustments, err := s.freezeRepo.FindAdjustments(ctx, tx, freeze.ID)
		if err != nil {
			return err
		}

		note := fmt.Sprintf("[freeze] %s cancelled: -%d days", freeze.Title, freeze.FreezeDays)
		ids := make([]uuid.UUID, 0, len(adjustments))
		for _, adj := range adjustments {
			if err := s.subscriptionRepo.ShiftEndDate(ctx, tx, adj.SubscriptionID, -adj.DaysApplied, note); err != nil {
				return err
			}
			ids = append(ids, adj.SubscriptionID)
		}

		reverted, err = s.subscriptionRepo.FindByIDs(ctx, tx, ids)
		if err != nil {
			return err
		}
		return s.freezeRepo.UpdateStatus(ctx, tx, freeze.ID, models.FreezeCancelled)
	})
	if err != nil {
		return nil, err
	}

	freeze.Status = models.FreezeCancelled
	s.notifyFreeze(ctx, freeze, reverted, models.NotifyFreezeCancelled)
	return freeze, nil
}

// notifyFreeze resolves the unique parents behind the affected subscriptions
// and sends each one locale-appropriate variant. Best-effort.
func (s *freezeService) notifyFreeze(ctx context.Context, freeze *models.SubscriptionFreeze, subs []models.Subscription, kind models.NotificationType) {
	playerIDs := make([]uuid.UUID, 0, len(subs))
	for _, sub := range subs {
		playerIDs = append(playerIDs, sub.PlayerID)
	}
	players, err := s.playerRepo.FindByIDs(ctx, playerIDs)
	if err != nil {
		s.logger.Error().Err(err).Str("freeze_id", freeze.ID.String()).
			Msg("freeze fan-out: player lookup failed")
		return
	}

	window := fmt.Sprintf("%s - %s",
		freeze.StartDate.Format("2006-01-02"), freeze.EndDate.Format("2006-01-02"))

	seen := make(map[uuid.UUID]bool)
	for _, player := range players {
		if player.Parent == nil || seen[player.ParentID] {
			continue
		}
		seen[player.ParentID] = true

		record := &models.Notification{
			UserID: player.ParentID,
			Type:   kind,
		}
		if kind == models.NotifyFreezeCreated {
			record.Title = "Subscription freeze"
			record.TitleAr = "تجميد الاشتراك"
			record.Message = fmt.Sprintf("Subscriptions are frozen %s (%s); end dates were extended by %d days.",
				window, freeze.Title, freeze.FreezeDays)
			record.MessageAr = fmt.Sprintf("تم تجميد الاشتراكات خلال %s (%s) وتم تمديد تاريخ الانتهاء %d أيام.",
				window, freeze.Title, freeze.FreezeDays)
		} else {
			record.Title = "Subscription freeze cancelled"
			record.TitleAr = "إلغاء تجميد الاشتراك"
			record.Message = fmt.Sprintf("The freeze %s (%s) was cancelled; end dates were restored.",
				freeze.Title, window)
			record.MessageAr = fmt.Sprintf("تم إلغاء التجميد %s (%s) وإعادة تواريخ الانتهاء.",
				freeze.Title, window)
		}
		s.notifier.NotifyParent(ctx, player.Parent, record, false)
	}
}

func (s *freezeService) Get(ctx context.Context, id uuid.UUID) (*models.SubscriptionFreeze, error) {
	freeze, err := s.freezeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrFreezeNotFound
	}
	return freeze, nil
}

func (s *freezeService) List(ctx context.Context) ([]models.SubscriptionFreeze, error) {
	return s.freezeRepo.List(ctx)
}

// RecomputeStatuses walks scheduled/active freezes forward through the state
// machine as time passes. Idempotent; meant to run on the same cadence as
// the reminder sweeps.
func (s *freezeService) RecomputeStatuses(ctx context.Context) (int, error) {
	freezes, err := s.freezeRepo.FindRecomputable(ctx)
	if err != nil {
		return 0, err
	}

	today := utcDate(s.now())
	db := s.freezeRepo.GetDB()
	changed := 0
	for _, freeze := range freezes {
		next := computeFreezeStatus(freeze.StartDate, freeze.EndDate, today)
		if next == freeze.Status {
			continue
		}
		if err := s.freezeRepo.UpdateStatus(ctx, db, freeze.ID, next); err != nil {
			s.logger.Error().Err(err).Str("freeze_id", freeze.ID.String()).
				Msg("freeze status recompute failed")
			continue
		}
		changed++
	}
	return changed, nil
}
