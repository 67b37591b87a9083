package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sportsacademy/academy-backend/internal/models"
)

// Interval semantics are half-open [start, end): a session ending at 10:00
// does not collide with one starting at 10:00. Times are zero-padded "HH:MM"
// strings, so plain string comparison orders them chronologically.

func overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && bStart < aEnd
}

// filterConflicts keeps the sessions whose interval overlaps [start, end),
// dropping excludeID so an in-place edit never conflicts with itself.
func filterConflicts(candidates []models.TrainingSession, start, end string, excludeID *uuid.UUID) []models.TrainingSession {
	var out []models.TrainingSession
	for _, s := range candidates {
		if excludeID != nil && s.ID == *excludeID {
			continue
		}
		if overlaps(start, end, s.StartTime, s.EndTime) {
			out = append(out, s)
		}
	}
	return out
}

// utcDate truncates to midnight UTC. Day-of-week derivation must be anchored
// to UTC or sessions near midnight shift a weekday in other timezones.
func utcDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dayName(date time.Time) string {
	return strings.ToLower(utcDate(date).Weekday().String())
}

// validClock accepts zero-padded 24h "HH:MM".
func validClock(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	hh := int(s[0]-'0')*10 + int(s[1]-'0')
	mm := int(s[3]-'0')*10 + int(s[4]-'0')
	return hh < 24 && mm < 60
}
