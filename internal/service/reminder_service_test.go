package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sportsacademy/academy-backend/internal/models"
	"github.com/sportsacademy/academy-backend/pkg/sms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReminderService(
	sessions *mockSessionRepo,
	subs *mockSubscriptionRepo,
	programs *mockProgramRepo,
	transport *mockTransport,
	now time.Time,
) ReminderService {
	svc := NewReminderService(sessions, subs, programs, transport, zerolog.Nop()).(*reminderService)
	svc.now = func() time.Time { return now }
	return svc
}

func enrolledSub(programID uuid.UUID, phone, lang string) models.Subscription {
	parent := &models.User{ID: uuid.New(), Phone: phone, PreferredLanguage: lang, Role: models.RoleParent}
	player := &models.Player{ID: uuid.New(), ParentID: parent.ID, Parent: parent}
	return models.Subscription{
		ID: uuid.New(), PlayerID: player.ID, ProgramID: programID,
		Status: models.SubscriptionActive, Player: player,
	}
}

func TestSendReminders_TargetsWindowDate(t *testing.T) {
	program := sampleProgram(uuid.New())
	now := time.Date(2026, 3, 14, 16, 30, 0, 0, time.UTC)

	session := models.TrainingSession{
		ID: uuid.New(), ProgramID: program.ID,
		Date: day(2026, 3, 15), StartTime: "16:00", EndTime: "17:00",
	}
	var queriedDate time.Time
	var flagged []uuid.UUID
	sessions := &mockSessionRepo{
		findDueForReminderFn: func(ctx context.Context, date time.Time, window models.ReminderWindow) ([]models.TrainingSession, error) {
			queriedDate = date
			assert.Equal(t, models.Reminder24h, window)
			return []models.TrainingSession{session}, nil
		},
		setReminderSentFn: func(ctx context.Context, id uuid.UUID, window models.ReminderWindow) error {
			flagged = append(flagged, id)
			return nil
		},
	}
	subs := &mockSubscriptionRepo{
		findEnrolledByProgramFn: func(ctx context.Context, programID uuid.UUID) ([]models.Subscription, error) {
			return []models.Subscription{enrolledSub(program.ID, "+966500000010", "ar")}, nil
		},
	}
	transport := &mockTransport{}
	svc := newReminderService(sessions, subs, programRepoFor(program), transport, now)

	outcomes, err := svc.SendReminders(context.Background(), models.Reminder24h)

	require.NoError(t, err)
	// 16:30 on the 14th plus 24h lands on the 15th.
	assert.Equal(t, day(2026, 3, 15), queriedDate)
	require.Len(t, outcomes, 1)
	assert.Equal(t, 1, outcomes[0].Sent)
	assert.Equal(t, 0, outcomes[0].Failed)
	assert.Equal(t, []uuid.UUID{session.ID}, flagged)
	require.Len(t, transport.sent, 1)
	assert.Contains(t, transport.sent[0].Body, "تذكير")
	assert.Contains(t, transport.sent[0].Body, "16:00")
}

func TestSendReminders_DedupesParents(t *testing.T) {
	program := sampleProgram(uuid.New())
	session := models.TrainingSession{ID: uuid.New(), ProgramID: program.ID, Date: day(2026, 3, 15), StartTime: "16:00"}

	// Two siblings under one parent, plus a second family.
	shared := enrolledSub(program.ID, "+966500000011", "ar")
	sibling := shared
	sibling.ID = uuid.New()
	other := enrolledSub(program.ID, "+966500000012", "en")

	sessions := &mockSessionRepo{
		findDueForReminderFn: func(ctx context.Context, date time.Time, window models.ReminderWindow) ([]models.TrainingSession, error) {
			return []models.TrainingSession{session}, nil
		},
	}
	subs := &mockSubscriptionRepo{
		findEnrolledByProgramFn: func(ctx context.Context, programID uuid.UUID) ([]models.Subscription, error) {
			return []models.Subscription{shared, sibling, other}, nil
		},
	}
	transport := &mockTransport{}
	svc := newReminderService(sessions, subs, programRepoFor(program), transport, time.Date(2026, 3, 14, 16, 0, 0, 0, time.UTC))

	outcomes, err := svc.SendReminders(context.Background(), models.Reminder24h)

	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, 2, outcomes[0].Sent)
	require.Len(t, transport.sent, 2)
	// The English-preference parent gets the English variant.
	assert.Contains(t, transport.sent[1].Body, "Reminder")
}

func TestSendReminders_PartialFailureStillFlags(t *testing.T) {
	program := sampleProgram(uuid.New())
	session := models.TrainingSession{ID: uuid.New(), ProgramID: program.ID, Date: day(2026, 3, 15), StartTime: "16:00"}

	flagged := false
	sessions := &mockSessionRepo{
		findDueForReminderFn: func(ctx context.Context, date time.Time, window models.ReminderWindow) ([]models.TrainingSession, error) {
			return []models.TrainingSession{session}, nil
		},
		setReminderSentFn: func(ctx context.Context, id uuid.UUID, window models.ReminderWindow) error {
			flagged = true
			return nil
		},
	}
	subs := &mockSubscriptionRepo{
		findEnrolledByProgramFn: func(ctx context.Context, programID uuid.UUID) ([]models.Subscription, error) {
			return []models.Subscription{
				enrolledSub(program.ID, "+966500000013", "ar"),
				enrolledSub(program.ID, "+966500000014", "ar"),
			}, nil
		},
	}
	transport := &mockTransport{
		sendFn: func(ctx context.Context, msg sms.Message) error {
			if msg.Recipients[0].Phone == "+966500000013" {
				return errors.New("gateway timeout")
			}
			return nil
		},
	}
	svc := newReminderService(sessions, subs, programRepoFor(program), transport, time.Date(2026, 3, 14, 16, 0, 0, 0, time.UTC))

	outcomes, err := svc.SendReminders(context.Background(), models.Reminder24h)

	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, 1, outcomes[0].Sent)
	assert.Equal(t, 1, outcomes[0].Failed)
	// The session is flagged done regardless; failed recipients are not
	// retried wholesale on the next sweep.
	assert.True(t, flagged)
}

func TestSendReminders_SkipsPhonelessParents(t *testing.T) {
	program := sampleProgram(uuid.New())
	session := models.TrainingSession{ID: uuid.New(), ProgramID: program.ID, Date: day(2026, 3, 15), StartTime: "16:00"}

	sessions := &mockSessionRepo{
		findDueForReminderFn: func(ctx context.Context, date time.Time, window models.ReminderWindow) ([]models.TrainingSession, error) {
			return []models.TrainingSession{session}, nil
		},
	}
	subs := &mockSubscriptionRepo{
		findEnrolledByProgramFn: func(ctx context.Context, programID uuid.UUID) ([]models.Subscription, error) {
			return []models.Subscription{enrolledSub(program.ID, "", "ar")}, nil
		},
	}
	transport := &mockTransport{}
	svc := newReminderService(sessions, subs, programRepoFor(program), transport, time.Date(2026, 3, 14, 16, 0, 0, 0, time.UTC))

	outcomes, err := svc.SendReminders(context.Background(), models.Reminder24h)

	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, 0, outcomes[0].Sent)
	assert.Empty(t, transport.sent)
}

func TestSendReminders_OneHourWindow(t *testing.T) {
	program := sampleProgram(uuid.New())
	now := time.Date(2026, 3, 15, 15, 0, 0, 0, time.UTC)

	var queriedDate time.Time
	sessions := &mockSessionRepo{
		findDueForReminderFn: func(ctx context.Context, date time.Time, window models.ReminderWindow) ([]models.TrainingSession, error) {
			queriedDate = date
			assert.Equal(t, models.Reminder1h, window)
			return nil, nil
		},
	}
	svc := newReminderService(sessions, &mockSubscriptionRepo{}, programRepoFor(program), &mockTransport{}, now)

	outcomes, err := svc.SendReminders(context.Background(), models.Reminder1h)

	require.NoError(t, err)
	assert.Empty(t, outcomes)
	assert.Equal(t, day(2026, 3, 15), queriedDate)
}
