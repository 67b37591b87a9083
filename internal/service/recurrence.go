package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sportsacademy/academy-backend/internal/models"
)

const defaultWeeksAhead = 12

// ExpandOptions bounds a recurrence expansion. When EndDate is nil the
// window runs WeeksAhead weeks (default 12) from StartDate.
type ExpandOptions struct {
	StartDate  time.Time
	EndDate    *time.Time
	WeeksAhead int
}

func (o ExpandOptions) window() (time.Time, time.Time) {
	start := utcDate(o.StartDate)
	if o.EndDate != nil {
		return start, utcDate(*o.EndDate)
	}
	weeks := o.WeeksAhead
	if weeks <= 0 {
		weeks = defaultWeeksAhead
	}
	return start, start.AddDate(0, 0, weeks*7)
}

// MaterializeResult reports each draft's persistence attempt. The loop is
// deliberately best-effort: a failure mid-batch leaves earlier rows
// committed.
type MaterializeResult struct {
	Created []models.TrainingSession
	Failed  []MaterializeFailure
}

type MaterializeFailure struct {
	Draft models.TrainingSession
	Err   error
}

// Expand walks every calendar date in the window inclusive and emits one
// draft per matching template entry. Drafts are not conflict-checked here;
// bulk generation trades validation for throughput and callers wanting
// validated instances run Validate per draft afterwards.
func (s *scheduleService) Expand(ctx context.Context, programID uuid.UUID, opts ExpandOptions) ([]models.TrainingSession, error) {
	program, err := s.programRepo.FindWithSchedule(ctx, programID)
	if err != nil {
		return nil, ErrProgramNotFound
	}
	if len(program.Schedule) == 0 {
		return nil, ErrEmptySchedule
	}

	// Enrollment snapshot taken once at expansion time, not per instance.
	enrolled, err := s.subscriptionRepo.CountEnrolled(ctx, s.subscriptionRepo.GetDB(), program.ID)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string][]models.ScheduleTemplateEntry)
	for _, entry := range program.Schedule {
		byDay[entry.DayOfWeek] = append(byDay[entry.DayOfWeek], entry)
	}

	start, end := opts.window()
	var drafts []models.TrainingSession
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		day := dayName(date)
		for _, entry := range byDay[day] {
			capacity := program.Capacity
			if entry.Capacity != nil {
				capacity = *entry.Capacity
			}
			drafts = append(drafts, models.TrainingSession{
				ProgramID:         program.ID,
				BranchID:          program.BranchID,
				CoachID:           entry.CoachID,
				Date:              date,
				DayOfWeek:         day,
				StartTime:         entry.StartTime,
				EndTime:           entry.EndTime,
				Facility:          entry.Facility,
				Capacity:          capacity,
				CurrentEnrollment: int(enrolled),
				IsRecurring:       true,
			})
		}
	}
	return drafts, nil
}

// Materialize persists the expansion in order, recording per-draft outcomes.
func (s *scheduleService) Materialize(ctx context.Context, programID uuid.UUID, opts ExpandOptions) (*MaterializeResult, error) {
	drafts, err := s.Expand(ctx, programID, opts)
	if err != nil {
		return nil, err
	}

	db := s.sessionRepo.GetDB()
	result := &MaterializeResult{}
	for _, draft := range drafts {
		session := draft
		if err := s.sessionRepo.Create(ctx, db, &session); err != nil {
			s.logger.Error().Err(err).
				Str("program_id", programID.String()).
				Str("date", draft.Date.Format("2006-01-02")).
				Msg("materialize: session insert failed")
			result.Failed = append(result.Failed, MaterializeFailure{Draft: draft, Err: err})
			continue
		}
		result.Created = append(result.Created, session)
	}
	return result, nil
}
