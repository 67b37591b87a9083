package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sportsacademy/academy-backend/internal/models"
	"github.com/sportsacademy/academy-backend/internal/repository"
	"github.com/sportsacademy/academy-backend/pkg/metrics"
	"github.com/sportsacademy/academy-backend/pkg/sms"
)

// SessionReminderOutcome summarizes one session's sweep: how many parents
// were reached and how many dispatches failed. The session is flagged done
// either way, so a partial failure is never retried wholesale.
type SessionReminderOutcome struct {
	SessionID uuid.UUID
	Sent      int
	Failed    int
}

type ReminderService interface {
	SendReminders(ctx context.Context, window models.ReminderWindow) ([]SessionReminderOutcome, error)
}

type reminderService struct {
	sessionRepo      repository.SessionRepository
	subscriptionRepo repository.SubscriptionRepository
	programRepo      repository.ProgramRepository
	transport        sms.Transport
	logger           zerolog.Logger
	now              func() time.Time
}

func NewReminderService(
	sessionRepo repository.SessionRepository,
	subscriptionRepo repository.SubscriptionRepository,
	programRepo repository.ProgramRepository,
	transport sms.Transport,
	logger zerolog.Logger,
) ReminderService {
	return &reminderService{
		sessionRepo:      sessionRepo,
		subscriptionRepo: subscriptionRepo,
		programRepo:      programRepo,
		transport:        transport,
		logger:           logger,
		now:              time.Now,
	}
}

// SendReminders sweeps sessions landing on the date now+window hours whose
// flag for that window is still unset. Idempotence comes from the flag, not
// from time dedup: the external trigger may fire at-least-once.
func (s *reminderService) SendReminders(ctx context.Context, window models.ReminderWindow) ([]SessionReminderOutcome, error) {
	target := utcDate(s.now().UTC().Add(time.Duration(window) * time.Hour))

	sessions, err := s.sessionRepo.FindDueForReminder(ctx, target, window)
	if err != nil {
		return nil, err
	}

	var outcomes []SessionReminderOutcome
	for _, session := range sessions {
		outcome := s.remindSession(ctx, &session, window)

		// Flag is set even after per-recipient failures; failed recipients
		// are logged, not retried.
		if err := s.sessionRepo.SetReminderSent(ctx, session.ID, window); err != nil {
			s.logger.Error().Err(err).Str("session_id", session.ID.String()).
				Msg("reminder: flag update failed")
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

func (s *reminderService) remindSession(ctx context.Context, session *models.TrainingSession, window models.ReminderWindow) SessionReminderOutcome {
	outcome := SessionReminderOutcome{SessionID: session.ID}

	program, err := s.programRepo.FindByID(ctx, session.ProgramID)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", session.ID.String()).
			Msg("reminder: program lookup failed")
		return outcome
	}

	subs, err := s.subscriptionRepo.FindEnrolledByProgram(ctx, session.ProgramID)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", session.ID.String()).
			Msg("reminder: enrolled lookup failed")
		return outcome
	}

	seen := make(map[uuid.UUID]bool)
	for _, sub := range subs {
		if sub.Player == nil || sub.Player.Parent == nil || sub.Player.Parent.Phone == "" {
			continue
		}
		parent := sub.Player.Parent
		if seen[parent.ID] {
			continue
		}
		seen[parent.ID] = true

		err := s.transport.Send(ctx, sms.Message{
			RecipientType: "parent",
			Recipients:    []sms.Recipient{{Phone: parent.Phone, UserID: parent.ID}},
			Body:          reminderBody(program, session, parent.PreferredLanguage, window),
		})
		if err != nil {
			outcome.Failed++
			metrics.SMSFailed.Inc()
			s.logger.Error().Err(err).
				Str("session_id", session.ID.String()).
				Str("parent_id", parent.ID.String()).
				Msg("reminder: sms dispatch failed")
			continue
		}
		outcome.Sent++
		metrics.SMSDispatched.Inc()
		metrics.RemindersSent.WithLabelValues(strconv.Itoa(int(window)) + "h").Inc()
	}
	return outcome
}

func reminderBody(program *models.Program, session *models.TrainingSession, lang string, window models.ReminderWindow) string {
	date := session.Date.Format("2006-01-02")
	if lang != "" && lang != "ar" {
		lead := "tomorrow"
		if window == models.Reminder1h {
			lead = "in one hour"
		}
		return fmt.Sprintf("Reminder: %s training %s on %s at %s.", program.Name, lead, date, session.StartTime)
	}

	name := program.NameAr
	if name == "" {
		name = program.Name
	}
	lead := "غدًا"
	if window == models.Reminder1h {
		lead = "بعد ساعة"
	}
	return fmt.Sprintf("تذكير: تدريب %s %s بتاريخ %s الساعة %s.", name, lead, date, session.StartTime)
}
