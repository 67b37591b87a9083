package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sportsacademy/academy-backend/internal/models"
	"github.com/sportsacademy/academy-backend/internal/repository"
	"github.com/sportsacademy/academy-backend/pkg/sms"
	"gorm.io/gorm"
)

// Function-field mocks shared by the service tests. Unset fields fall back
// to harmless defaults; mock transactions run the callback with a nil tx,
// which the mocks ignore.

// --- Mock SessionRepository ---

type mockSessionRepo struct {
	createFn                func(ctx context.Context, tx *gorm.DB, session *models.TrainingSession) error
	updateFn                func(ctx context.Context, tx *gorm.DB, session *models.TrainingSession) error
	findByIDFn              func(ctx context.Context, id uuid.UUID) (*models.TrainingSession, error)
	listFn                  func(ctx context.Context, filter repository.SessionFilter) ([]models.TrainingSession, error)
	findByCoachAndDateFn    func(ctx context.Context, tx *gorm.DB, coachID uuid.UUID, date time.Time) ([]models.TrainingSession, error)
	findByFacilityAndDateFn func(ctx context.Context, tx *gorm.DB, branchID uuid.UUID, facility string, date time.Time) ([]models.TrainingSession, error)
	setCancelledFn          func(ctx context.Context, tx *gorm.DB, id uuid.UUID, reason string, actor *uuid.UUID, at time.Time) error
	deleteFn                func(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	findDueForReminderFn    func(ctx context.Context, date time.Time, window models.ReminderWindow) ([]models.TrainingSession, error)
	setReminderSentFn       func(ctx context.Context, id uuid.UUID, window models.ReminderWindow) error
}

func (m *mockSessionRepo) Create(ctx context.Context, tx *gorm.DB, session *models.TrainingSession) error {
	if m.createFn != nil {
		return m.createFn(ctx, tx, session)
	}
	session.ID = uuid.New()
	return nil
}
func (m *mockSessionRepo) Update(ctx context.Context, tx *gorm.DB, session *models.TrainingSession) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, tx, session)
	}
	return nil
}
func (m *mockSessionRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.TrainingSession, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockSessionRepo) List(ctx context.Context, filter repository.SessionFilter) ([]models.TrainingSession, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return nil, nil
}
func (m *mockSessionRepo) FindByCoachAndDate(ctx context.Context, tx *gorm.DB, coachID uuid.UUID, date time.Time) ([]models.TrainingSession, error) {
	if m.findByCoachAndDateFn != nil {
		return m.findByCoachAndDateFn(ctx, tx, coachID, date)
	}
	return nil, nil
}
func (m *mockSessionRepo) FindByFacilityAndDate(ctx context.Context, tx *gorm.DB, branchID uuid.UUID, facility string, date time.Time) ([]models.TrainingSession, error) {
	if m.findByFacilityAndDateFn != nil {
		return m.findByFacilityAndDateFn(ctx, tx, branchID, facility, date)
	}
	return nil, nil
}
func (m *mockSessionRepo) SetCancelled(ctx context.Context, tx *gorm.DB, id uuid.UUID, reason string, actor *uuid.UUID, at time.Time) error {
	if m.setCancelledFn != nil {
		return m.setCancelledFn(ctx, tx, id, reason, actor, at)
	}
	return nil
}
func (m *mockSessionRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, tx, id)
	}
	return nil
}
func (m *mockSessionRepo) FindDueForReminder(ctx context.Context, date time.Time, window models.ReminderWindow) ([]models.TrainingSession, error) {
	if m.findDueForReminderFn != nil {
		return m.findDueForReminderFn(ctx, date, window)
	}
	return nil, nil
}
func (m *mockSessionRepo) SetReminderSent(ctx context.Context, id uuid.UUID, window models.ReminderWindow) error {
	if m.setReminderSentFn != nil {
		return m.setReminderSentFn(ctx, id, window)
	}
	return nil
}
func (m *mockSessionRepo) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}
func (m *mockSessionRepo) GetDB() *gorm.DB { return nil }

// --- Mock ProgramRepository ---

type mockProgramRepo struct {
	findByIDFn         func(ctx context.Context, id uuid.UUID) (*models.Program, error)
	findWithScheduleFn func(ctx context.Context, id uuid.UUID) (*models.Program, error)
}

func (m *mockProgramRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Program, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockProgramRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Program, error) {
	return m.FindByID(ctx, id)
}
func (m *mockProgramRepo) FindWithSchedule(ctx context.Context, id uuid.UUID) (*models.Program, error) {
	if m.findWithScheduleFn != nil {
		return m.findWithScheduleFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

// --- Mock UserRepository ---

type mockUserRepo struct {
	findByIDFn func(ctx context.Context, id uuid.UUID) (*models.User, error)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return &models.User{ID: id, Role: models.RoleCoach}, nil
}
func (m *mockUserRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.User, error) {
	return m.FindByID(ctx, id)
}
func (m *mockUserRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		u, err := m.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, nil
}

// --- Mock BranchRepository ---

type mockBranchRepo struct {
	findByIDFn func(ctx context.Context, id uuid.UUID) (*models.Branch, error)
}

func (m *mockBranchRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Branch, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return &models.Branch{ID: id}, nil
}
func (m *mockBranchRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Branch, error) {
	return m.FindByID(ctx, id)
}

// --- Mock PlayerRepository ---

type mockPlayerRepo struct {
	findByIDFn  func(ctx context.Context, id uuid.UUID) (*models.Player, error)
	findByIDsFn func(ctx context.Context, ids []uuid.UUID) ([]models.Player, error)
}

func (m *mockPlayerRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockPlayerRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Player, error) {
	if m.findByIDsFn != nil {
		return m.findByIDsFn(ctx, ids)
	}
	return nil, nil
}

// --- Mock SubscriptionRepository ---

type mockSubscriptionRepo struct {
	findByIDFn              func(ctx context.Context, id uuid.UUID) (*models.Subscription, error)
	findByIDsFn             func(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]models.Subscription, error)
	countEnrolledFn         func(ctx context.Context, tx *gorm.DB, programID uuid.UUID) (int64, error)
	findEnrolledByProgramFn func(ctx context.Context, programID uuid.UUID) ([]models.Subscription, error)
	findForFreezeFn         func(ctx context.Context, tx *gorm.DB, sel repository.FreezeSelector) ([]models.Subscription, error)
	shiftEndDateFn          func(ctx context.Context, tx *gorm.DB, id uuid.UUID, days int, auditNote string) error
}

func (m *mockSubscriptionRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockSubscriptionRepo) FindByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]models.Subscription, error) {
	if m.findByIDsFn != nil {
		return m.findByIDsFn(ctx, tx, ids)
	}
	return nil, nil
}
func (m *mockSubscriptionRepo) CountEnrolled(ctx context.Context, tx *gorm.DB, programID uuid.UUID) (int64, error) {
	if m.countEnrolledFn != nil {
		return m.countEnrolledFn(ctx, tx, programID)
	}
	return 0, nil
}
func (m *mockSubscriptionRepo) FindEnrolledByProgram(ctx context.Context, programID uuid.UUID) ([]models.Subscription, error) {
	if m.findEnrolledByProgramFn != nil {
		return m.findEnrolledByProgramFn(ctx, programID)
	}
	return nil, nil
}
func (m *mockSubscriptionRepo) FindForFreeze(ctx context.Context, tx *gorm.DB, sel repository.FreezeSelector) ([]models.Subscription, error) {
	if m.findForFreezeFn != nil {
		return m.findForFreezeFn(ctx, tx, sel)
	}
	return nil, nil
}
func (m *mockSubscriptionRepo) ShiftEndDate(ctx context.Context, tx *gorm.DB, id uuid.UUID, days int, auditNote string) error {
	if m.shiftEndDateFn != nil {
		return m.shiftEndDateFn(ctx, tx, id, days, auditNote)
	}
	return nil
}
func (m *mockSubscriptionRepo) GetDB() *gorm.DB { return nil }

// --- Mock WaitlistRepository ---

type mockWaitlistRepo struct {
	createFn                       func(ctx context.Context, tx *gorm.DB, entry *models.WaitlistEntry) error
	findByIDFn                     func(ctx context.Context, id uuid.UUID) (*models.WaitlistEntry, error)
	findByProgramFn                func(ctx context.Context, programID uuid.UUID) ([]models.WaitlistEntry, error)
	findActiveByPlayerAndProgramFn func(ctx context.Context, tx *gorm.DB, playerID, programID uuid.UUID) (*models.WaitlistEntry, error)
	maxPositionFn                  func(ctx context.Context, tx *gorm.DB, programID uuid.UUID) (int, error)
	findWaitingFn                  func(ctx context.Context, tx *gorm.DB, programID uuid.UUID, limit int) ([]models.WaitlistEntry, error)
	markNotifiedFn                 func(ctx context.Context, tx *gorm.DB, id uuid.UUID, notifiedAt, expiresAt time.Time) error
	updateStatusFn                 func(ctx context.Context, tx *gorm.DB, id uuid.UUID, status models.WaitlistStatus) error
	markEnrolledFn                 func(ctx context.Context, tx *gorm.DB, id uuid.UUID, enrolledAt time.Time) error
	findExpiredFn                  func(ctx context.Context, now time.Time) ([]models.WaitlistEntry, error)
}

func (m *mockWaitlistRepo) Create(ctx context.Context, tx *gorm.DB, entry *models.WaitlistEntry) error {
	if m.createFn != nil {
		return m.createFn(ctx, tx, entry)
	}
	entry.ID = uuid.New()
	return nil
}
func (m *mockWaitlistRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.WaitlistEntry, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockWaitlistRepo) FindByProgram(ctx context.Context, programID uuid.UUID) ([]models.WaitlistEntry, error) {
	if m.findByProgramFn != nil {
		return m.findByProgramFn(ctx, programID)
	}
	return nil, nil
}
func (m *mockWaitlistRepo) FindActiveByPlayerAndProgram(ctx context.Context, tx *gorm.DB, playerID, programID uuid.UUID) (*models.WaitlistEntry, error) {
	if m.findActiveByPlayerAndProgramFn != nil {
		return m.findActiveByPlayerAndProgramFn(ctx, tx, playerID, programID)
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockWaitlistRepo) MaxPosition(ctx context.Context, tx *gorm.DB, programID uuid.UUID) (int, error) {
	if m.maxPositionFn != nil {
		return m.maxPositionFn(ctx, tx, programID)
	}
	return 0, nil
}
func (m *mockWaitlistRepo) FindWaiting(ctx context.Context, tx *gorm.DB, programID uuid.UUID, limit int) ([]models.WaitlistEntry, error) {
	if m.findWaitingFn != nil {
		return m.findWaitingFn(ctx, tx, programID, limit)
	}
	return nil, nil
}
func (m *mockWaitlistRepo) MarkNotified(ctx context.Context, tx *gorm.DB, id uuid.UUID, notifiedAt, expiresAt time.Time) error {
	if m.markNotifiedFn != nil {
		return m.markNotifiedFn(ctx, tx, id, notifiedAt, expiresAt)
	}
	return nil
}
func (m *mockWaitlistRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status models.WaitlistStatus) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, tx, id, status)
	}
	return nil
}
func (m *mockWaitlistRepo) MarkEnrolled(ctx context.Context, tx *gorm.DB, id uuid.UUID, enrolledAt time.Time) error {
	if m.markEnrolledFn != nil {
		return m.markEnrolledFn(ctx, tx, id, enrolledAt)
	}
	return nil
}
func (m *mockWaitlistRepo) FindExpired(ctx context.Context, now time.Time) ([]models.WaitlistEntry, error) {
	if m.findExpiredFn != nil {
		return m.findExpiredFn(ctx, now)
	}
	return nil, nil
}
func (m *mockWaitlistRepo) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}
func (m *mockWaitlistRepo) GetDB() *gorm.DB { return nil }

// --- Mock FreezeRepository ---

type mockFreezeRepo struct {
	createFn           func(ctx context.Context, tx *gorm.DB, freeze *models.SubscriptionFreeze) error
	findByIDFn         func(ctx context.Context, id uuid.UUID) (*models.SubscriptionFreeze, error)
	listFn             func(ctx context.Context) ([]models.SubscriptionFreeze, error)
	findOverlappingFn  func(ctx context.Context, tx *gorm.DB, freeze *models.SubscriptionFreeze) ([]models.SubscriptionFreeze, error)
	updateStatusFn     func(ctx context.Context, tx *gorm.DB, id uuid.UUID, status models.FreezeStatus) error
	markAppliedFn      func(ctx context.Context, tx *gorm.DB, id uuid.UUID, affected int) error
	findRecomputableFn func(ctx context.Context) ([]models.SubscriptionFreeze, error)
	createAdjustmentFn func(ctx context.Context, tx *gorm.DB, adj *models.FreezeAdjustment) error
	findAdjustmentsFn  func(ctx context.Context, tx *gorm.DB, freezeID uuid.UUID) ([]models.FreezeAdjustment, error)
}

func (m *mockFreezeRepo) Create(ctx context.Context, tx *gorm.DB, freeze *models.SubscriptionFreeze) error {
	if m.createFn != nil {
		return m.createFn(ctx, tx, freeze)
	}
	freeze.ID = uuid.New()
	return nil
}
func (m *mockFreezeRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.SubscriptionFreeze, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockFreezeRepo) List(ctx context.Context) ([]models.SubscriptionFreeze, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}
func (m *mockFreezeRepo) FindOverlapping(ctx context.Context, tx *gorm.DB, freeze *models.SubscriptionFreeze) ([]models.SubscriptionFreeze, error) {
	if m.findOverlappingFn != nil {
		return m.findOverlappingFn(ctx, tx, freeze)
	}
	return nil, nil
}
func (m *mockFreezeRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status models.FreezeStatus) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, tx, id, status)
	}
	return nil
}
func (m *mockFreezeRepo) MarkApplied(ctx context.Context, tx *gorm.DB, id uuid.UUID, affected int) error {
	if m.markAppliedFn != nil {
		return m.markAppliedFn(ctx, tx, id, affected)
	}
	return nil
}
func (m *mockFreezeRepo) FindRecomputable(ctx context.Context) ([]models.SubscriptionFreeze, error) {
	if m.findRecomputableFn != nil {
		return m.findRecomputableFn(ctx)
	}
	return nil, nil
}
func (m *mockFreezeRepo) CreateAdjustment(ctx context.Context, tx *gorm.DB, adj *models.FreezeAdjustment) error {
	if m.createAdjustmentFn != nil {
		return m.createAdjustmentFn(ctx, tx, adj)
	}
	return nil
}
func (m *mockFreezeRepo) FindAdjustments(ctx context.Context, tx *gorm.DB, freezeID uuid.UUID) ([]models.FreezeAdjustment, error) {
	if m.findAdjustmentsFn != nil {
		return m.findAdjustmentsFn(ctx, tx, freezeID)
	}
	return nil, nil
}
func (m *mockFreezeRepo) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}
func (m *mockFreezeRepo) GetDB() *gorm.DB { return nil }

// --- Mock NotificationRepository ---

type mockNotificationRepo struct {
	createFn func(ctx context.Context, notification *models.Notification) error
	created  []*models.Notification
}

func (m *mockNotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	if m.createFn != nil {
		return m.createFn(ctx, notification)
	}
	notification.ID = uuid.New()
	m.created = append(m.created, notification)
	return nil
}
func (m *mockNotificationRepo) MarkDelivered(ctx context.Context, id uuid.UUID, at time.Time) error {
	return nil
}

// --- Mock SMS transport ---

type mockTransport struct {
	sendFn func(ctx context.Context, msg sms.Message) error
	sent   []sms.Message
}

func (m *mockTransport) Send(ctx context.Context, msg sms.Message) error {
	if m.sendFn != nil {
		if err := m.sendFn(ctx, msg); err != nil {
			return err
		}
	}
	m.sent = append(m.sent, msg)
	return nil
}

// --- Mock Notifier ---

type mockNotifier struct {
	sessionChanges []SessionChange
	parents        []uuid.UUID
}

func (m *mockNotifier) NotifySessionChange(ctx context.Context, session *models.TrainingSession, change SessionChange) []DispatchOutcome {
	m.sessionChanges = append(m.sessionChanges, change)
	return nil
}
func (m *mockNotifier) NotifyParent(ctx context.Context, parent *models.User, n *models.Notification, withSMS bool) DispatchOutcome {
	m.parents = append(m.parents, parent.ID)
	return DispatchOutcome{ParentID: parent.ID}
}
