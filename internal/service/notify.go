package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sportsacademy/academy-backend/internal/models"
	"github.com/sportsacademy/academy-backend/internal/repository"
	"github.com/sportsacademy/academy-backend/pkg/metrics"
	"github.com/sportsacademy/academy-backend/pkg/sms"
)

// SessionChange keys the message variant of a session fan-out.
type SessionChange string

const (
	ChangeCreated     SessionChange = "created"
	ChangeUpdated     SessionChange = "updated"
	ChangeRescheduled SessionChange = "rescheduled"
	ChangeCancelled   SessionChange = "cancelled"
)

// DispatchOutcome is one parent's fan-out attempt. Failures are recorded,
// never propagated: notification delivery must not roll back the state
// change that triggered it.
type DispatchOutcome struct {
	ParentID        uuid.UUID
	NotificationErr error
	SMSErr          error
}

type Notifier interface {
	NotifySessionChange(ctx context.Context, session *models.TrainingSession, change SessionChange) []DispatchOutcome
	NotifyParent(ctx context.Context, parent *models.User, n *models.Notification, withSMS bool) DispatchOutcome
}

type notifier struct {
	notificationRepo repository.NotificationRepository
	subscriptionRepo repository.SubscriptionRepository
	programRepo      repository.ProgramRepository
	transport        sms.Transport
	logger           zerolog.Logger
}

func NewNotifier(
	notificationRepo repository.NotificationRepository,
	subscriptionRepo repository.SubscriptionRepository,
	programRepo repository.ProgramRepository,
	transport sms.Transport,
	logger zerolog.Logger,
) Notifier {
	return &notifier{
		notificationRepo: notificationRepo,
		subscriptionRepo: subscriptionRepo,
		programRepo:      programRepo,
		transport:        transport,
		logger:           logger,
	}
}

// NotifySessionChange fans a session state change out to every enrolled
// player's parent. SMS is reserved for the disruptive changes (cancelled,
// rescheduled); everything else is in-app only.
func (n *notifier) NotifySessionChange(ctx context.Context, session *models.TrainingSession, change SessionChange) []DispatchOutcome {
	program, err := n.programRepo.FindByID(ctx, session.ProgramID)
	if err != nil {
		n.logger.Error().Err(err).Str("program_id", session.ProgramID.String()).
			Msg("session fan-out: program lookup failed")
		return nil
	}

	subs, err := n.subscriptionRepo.FindEnrolledByProgram(ctx, session.ProgramID)
	if err != nil {
		n.logger.Error().Err(err).Msg("session fan-out: enrolled lookup failed")
		return nil
	}

	title, titleAr, msg, msgAr := sessionMessages(program, session, change)
	withSMS := change == ChangeCancelled || change == ChangeRescheduled

	seen := make(map[uuid.UUID]bool)
	var outcomes []DispatchOutcome
	for _, sub := range subs {
		if sub.Player == nil || sub.Player.Parent == nil {
			continue
		}
		parent := sub.Player.Parent
		if seen[parent.ID] {
			continue
		}
		seen[parent.ID] = true

		record := &models.Notification{
			UserID:    parent.ID,
			Type:      sessionNotificationType(change),
			Title:     title,
			TitleAr:   titleAr,
			Message:   msg,
			MessageAr: msgAr,
		}
		outcome := n.NotifyParent(ctx, parent, record, withSMS)
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// NotifyParent persists one notification record and optionally dispatches an
// SMS in the parent's preferred locale.
func (n *notifier) NotifyParent(ctx context.Context, parent *models.User, record *models.Notification, withSMS bool) DispatchOutcome {
	outcome := DispatchOutcome{ParentID: parent.ID}

	if err := n.notificationRepo.Create(ctx, record); err != nil {
		outcome.NotificationErr = err
		n.logger.Error().Err(err).Str("parent_id", parent.ID.String()).
			Msg("notification persist failed")
	}

	if withSMS && parent.Phone != "" {
		body := record.MessageAr
		if parent.PreferredLanguage != "" && parent.PreferredLanguage != "ar" {
			body = record.Message
		}
		msg := sms.Message{
			RecipientType: "parent",
			Recipients:    []sms.Recipient{{Phone: parent.Phone, UserID: parent.ID}},
			Body:          body,
		}
		if outcome.NotificationErr == nil {
			msg.NotificationID = &record.ID
		}
		err := n.transport.Send(ctx, msg)
		if err != nil {
			outcome.SMSErr = err
			metrics.SMSFailed.Inc()
			n.logger.Error().Err(err).Str("parent_id", parent.ID.String()).
				Msg("sms dispatch failed")
		} else {
			metrics.SMSDispatched.Inc()
		}
	}

	return outcome
}

func sessionNotificationType(change SessionChange) models.NotificationType {
	switch change {
	case ChangeCreated:
		return models.NotifySessionCreated
	case ChangeRescheduled:
		return models.NotifySessionRescheduled
	case ChangeCancelled:
		return models.NotifySessionCancelled
	default:
		return models.NotifySessionUpdated
	}
}

func sessionMessages(program *models.Program, s *models.TrainingSession, change SessionChange) (title, titleAr, msg, msgAr string) {
	programName := program.Name
	programNameAr := program.NameAr
	if programNameAr == "" {
		programNameAr = programName
	}
	date := s.Date.Format("2006-01-02")

	switch change {
	case ChangeCreated:
		title = "New training session"
		titleAr = "حصة تدريبية جديدة"
		msg = fmt.Sprintf("A new %s session was scheduled on %s from %s to %s.", programName, date, s.StartTime, s.EndTime)
		msgAr = fmt.Sprintf("تمت جدولة حصة جديدة لبرنامج %s يوم %s من %s إلى %s.", programNameAr, date, s.StartTime, s.EndTime)
	case ChangeRescheduled:
		title = "Training session rescheduled"
		titleAr = "تم تغيير موعد الحصة التدريبية"
		msg = fmt.Sprintf("Your %s session was moved to %s, %s-%s.", programName, date, s.StartTime, s.EndTime)
		msgAr = fmt.Sprintf("تم نقل حصة برنامج %s إلى يوم %s من %s إلى %s.", programNameAr, date, s.StartTime, s.EndTime)
	case ChangeCancelled:
		title = "Training session cancelled"
		titleAr = "تم إلغاء الحصة التدريبية"
		msg = fmt.Sprintf("The %s session on %s (%s-%s) was cancelled.", programName, date, s.StartTime, s.EndTime)
		if s.CancelReason != "" {
			msg += " Reason: " + s.CancelReason
		}
		msgAr = fmt.Sprintf("تم إلغاء حصة برنامج %s يوم %s (%s-%s).", programNameAr, date, s.StartTime, s.EndTime)
		if s.CancelReason != "" {
			msgAr += " السبب: " + s.CancelReason
		}
	default:
		title = "Training session updated"
		titleAr = "تم تحديث الحصة التدريبية"
		msg = fmt.Sprintf("The %s session on %s was updated.", programName, date)
		msgAr = fmt.Sprintf("تم تحديث حصة برنامج %s ليوم %s.", programNameAr, date)
	}
	return title, titleAr, msg, msgAr
}
