package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sportsacademy/academy-backend/internal/models"
	"github.com/sportsacademy/academy-backend/internal/repository"
	"github.com/sportsacademy/academy-backend/pkg/metrics"
	"gorm.io/gorm"
)

// waitlistResponseWindow is how long a notified family has to claim the spot.
const waitlistResponseWindow = 48 * time.Hour

// PromotionOutcome is one waitlist entry moved to notified, with its fan-out
// result.
type PromotionOutcome struct {
	Entry    models.WaitlistEntry
	Dispatch DispatchOutcome
}

type WaitlistService interface {
	Join(ctx context.Context, programID, playerID uuid.UUID) (*models.WaitlistEntry, error)
	ProcessWaitlist(ctx context.Context, programID uuid.UUID) ([]PromotionOutcome, error)
	ExpireStale(ctx context.Context) (int, error)
	Cancel(ctx context.Context, entryID uuid.UUID) error
	MarkEnrolled(ctx context.Context, entryID uuid.UUID) error
	ListByProgram(ctx context.Context, programID uuid.UUID) ([]models.WaitlistEntry, error)
}

type waitlistService struct {
	waitlistRepo     repository.WaitlistRepository
	programRepo      repository.ProgramRepository
	playerRepo       repository.PlayerRepository
	subscriptionRepo repository.SubscriptionRepository
	notifier         Notifier
	logger           zerolog.Logger
	now              func() time.Time
}

func NewWaitlistService(
	waitlistRepo repository.WaitlistRepository,
	programRepo repository.ProgramRepository,
	playerRepo repository.PlayerRepository,
	subscriptionRepo repository.SubscriptionRepository,
	notifier Notifier,
	logger zerolog.Logger,
) WaitlistService {
	return &waitlistService{
		waitlistRepo:     waitlistRepo,
		programRepo:      programRepo,
		playerRepo:       playerRepo,
		subscriptionRepo: subscriptionRepo,
		notifier:         notifier,
		logger:           logger,
		now:              time.Now,
	}
}

// Join appends the player to the program's queue. Positions are assigned
// monotonically under a program row lock; only their relative order matters.
func (s *waitlistService) Join(ctx context.Context, programID, playerID uuid.UUID) (*models.WaitlistEntry, error) {
	player, err := s.playerRepo.FindByID(ctx, playerID)
	if err != nil {
		return nil, ErrPlayerNotFound
	}

	var entry *models.WaitlistEntry
	err = s.waitlistRepo.Transaction(ctx, func(tx *gorm.DB) error {
		program, err := s.programRepo.FindByIDForUpdate(ctx, tx, programID)
		if err != nil {
			return ErrProgramNotFound
		}

		_, err = s.waitlistRepo.FindActiveByPlayerAndProgram(ctx, tx, playerID, programID)
		if err == nil {
			return ErrAlreadyOnWaitlist
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		maxPos, err := s.waitlistRepo.MaxPosition(ctx, tx, programID)
		if err != nil {
			return err
		}

		entry = &models.WaitlistEntry{
			PlayerID:  playerID,
			ProgramID: program.ID,
			BranchID:  program.BranchID,
			ParentID:  player.ParentID,
			Position:  maxPos + 1,
			Status:    models.WaitlistWaiting,
		}
		return s.waitlistRepo.Create(ctx, tx, entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ProcessWaitlist promotes up to the program's free capacity, strictly in
// join order. Re-running with zero free spots is a no-op, so the external
// trigger can fire as often as it likes.
func (s *waitlistService) ProcessWaitlist(ctx context.Context, programID uuid.UUID) ([]PromotionOutcome, error) {
	now := s.now()
	expiresAt := now.Add(waitlistResponseWindow)

	var promoted []models.WaitlistEntry
	err := s.waitlistRepo.Transaction(ctx, func(tx *gorm.DB) error {
		program, err := s.programRepo.FindByIDForUpdate(ctx, tx, programID)
		if err != nil {
			return ErrProgramNotFound
		}

		enrolled, err := s.subscriptionRepo.CountEnrolled(ctx, tx, programID)
		if err != nil {
			return err
		}
		free := program.Capacity - int(enrolled)
		if free <= 0 {
			return nil
		}

		entries, err := s.waitlistRepo.FindWaiting(ctx, tx, programID, free)
		if err != nil {
			return err
		}
		for i := range entries {
			if err := s.waitlistRepo.MarkNotified(ctx, tx, entries[i].ID, now, expiresAt); err != nil {
				return err
			}
			entries[i].Status = models.WaitlistNotified
			entries[i].NotifiedAt = &now
			entries[i].ExpiresAt = &expiresAt
		}
		promoted = entries
		return nil
	})
	if err != nil {
		return nil, err
	}

	outcomes := make([]PromotionOutcome, 0, len(promoted))
	for _, entry := range promoted {
		metrics.WaitlistPromotions.Inc()
		outcomes = append(outcomes, PromotionOutcome{
			Entry:    entry,
			Dispatch: s.notifySpot(ctx, entry),
		})
	}
	return outcomes, nil
}

func (s *waitlistService) notifySpot(ctx context.Context, entry models.WaitlistEntry) DispatchOutcome {
	parent := entry.Parent
	if parent == nil {
		var err error
		parent, err = func() (*models.User, error) {
			player, err := s.playerRepo.FindByID(ctx, entry.PlayerID)
			if err != nil {
				return nil, err
			}
			return player.Parent, nil
		}()
		if err != nil || parent == nil {
			s.logger.Error().Err(err).Str("entry_id", entry.ID.String()).
				Msg("waitlist: parent lookup failed")
			return DispatchOutcome{ParentID: entry.ParentID, NotificationErr: err}
		}
	}

	program, err := s.programRepo.FindByID(ctx, entry.ProgramID)
	if err != nil {
		s.logger.Error().Err(err).Str("entry_id", entry.ID.String()).
			Msg("waitlist: program lookup failed")
		return DispatchOutcome{ParentID: parent.ID, NotificationErr: err}
	}

	nameAr := program.NameAr
	if nameAr == "" {
		nameAr = program.Name
	}
	record := &models.Notification{
		UserID:  parent.ID,
		Type:    models.NotifyWaitlistSpot,
		Title:   "A spot opened up",
		TitleAr: "توفر مقعد",
		Message: fmt.Sprintf("A spot opened in %s. You have 48 hours to confirm enrollment.", program.Name),
		MessageAr: fmt.Sprintf("توفر مقعد في برنامج %s. لديكم 48 ساعة لتأكيد التسجيل.",
			nameAr),
	}
	return s.notifier.NotifyParent(ctx, parent, record, parent.Phone != "")
}

// ExpireStale is the reconciliation sweep layered over promotion: notified
// entries past their deadline become expired, then each touched program is
// re-promoted so the freed refusals pass down the queue.
func (s *waitlistService) ExpireStale(ctx context.Context) (int, error) {
	stale, err := s.waitlistRepo.FindExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}

	db := s.waitlistRepo.GetDB()
	programs := make(map[uuid.UUID]bool)
	expired := 0
	for _, entry := range stale {
		if err := s.waitlistRepo.UpdateStatus(ctx, db, entry.ID, models.WaitlistExpired); err != nil {
			s.logger.Error().Err(err).Str("entry_id", entry.ID.String()).
				Msg("waitlist: expiry update failed")
			continue
		}
		expired++
		programs[entry.ProgramID] = true
	}

	for programID := range programs {
		if _, err := s.ProcessWaitlist(ctx, programID); err != nil {
			s.logger.Error().Err(err).Str("program_id", programID.String()).
				Msg("waitlist: re-promotion after expiry failed")
		}
	}
	return expired, nil
}

func (s *waitlistService) Cancel(ctx context.Context, entryID uuid.UUID) error {
	entry, err := s.waitlistRepo.FindByID(ctx, entryID)
	if err != nil {
		return ErrWaitlistNotFound
	}
	if entry.Status != models.WaitlistWaiting && entry.Status != models.WaitlistNotified {
		return validationErrorf("waitlist entry is already %s", entry.Status)
	}
	return s.waitlistRepo.UpdateStatus(ctx, s.waitlistRepo.GetDB(), entryID, models.WaitlistCancelled)
}

func (s *waitlistService) MarkEnrolled(ctx context.Context, entryID uuid.UUID) error {
	entry, err := s.waitlistRepo.FindByID(ctx, entryID)
	if err != nil {
		return ErrWaitlistNotFound
	}
	if entry.Status != models.WaitlistNotified {
		return validationErrorf("only notified entries can enroll, entry is %s", entry.Status)
	}
	return s.waitlistRepo.MarkEnrolled(ctx, s.waitlistRepo.GetDB(), entryID, s.now())
}

func (s *waitlistService) ListByProgram(ctx context.Context, programID uuid.UUID) ([]models.WaitlistEntry, error) {
	if _, err := s.programRepo.FindByID(ctx, programID); err != nil {
		return nil, ErrProgramNotFound
	}
	return s.waitlistRepo.FindByProgram(ctx, programID)
}
