package rules

import (
	"strconv"
	"strings"
	"time"

	"tradematch_backend/internal/models"
)

// LateCancellationWindow is how close to the start a cancellation counts as late.
const LateCancellationWindow = 24 * time.Hour

// EffectiveStart combines the first scheduled date with the optional HH:MM
// start time, in the date's own location. A missing or malformed start time
// keeps the date's time component. ok is false without a scheduled date.
func EffectiveStart(job *models.Job) (time.Time, bool) {
	if job == nil || len(job.ScheduledDates) == 0 {
		return time.Time{}, false
	}
	date := job.ScheduledDates[0]
	if job.StartTime == nil {
		return date, true
	}
	hour, minute, ok := ParseClock(*job.StartTime)
	if !ok {
		return date, true
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location()), true
}

// ParseClock parses "HH:MM" (24h). Single-digit hours are accepted.
func ParseClock(s string) (hour, minute int, ok bool) {
	h, m, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found || len(m) != 2 || len(h) == 0 || len(h) > 2 {
		return 0, 0, false
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, false
	}
	minute, err = strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

// HoursBeforeStartAtCancellation is the signed number of hours between the
// cancellation and the effective start. Negative when the job was cancelled
// after it should have started. ok is false without a date or timestamp.
func HoursBeforeStartAtCancellation(job *models.Job) (float64, bool) {
	if job == nil || job.CancelledAt == nil {
		return 0, false
	}
	start, ok := EffectiveStart(job)
	if !ok {
		return 0, false
	}
	return start.Sub(*job.CancelledAt).Hours(), true
}

// IsLateCancellation is the retrospective check: a job that had been
// accepted or confirmed and was cancelled less than 24 hours before its
// start. It relies on the flag captured at cancellation time, not on the
// current status.
func IsLateCancellation(job *models.Job) bool {
	if job == nil || !job.WasAcceptedOrConfirmedBeforeCancellation {
		return false
	}
	hours, ok := HoursBeforeStartAtCancellation(job)
	if !ok {
		return false
	}
	return hours < LateCancellationWindow.Hours()
}

// CanLeaveReliabilityReview reports whether userID may review the other
// participant of a cancelled job.
func CanLeaveReliabilityReview(job *models.Job, userID string) bool {
	if job == nil || job.Status != models.JobStatusCancelled {
		return false
	}
	if !IsLateCancellation(job) {
		return false
	}
	return IsJobParticipant(job, userID)
}

// HoursUntilStart is the number of hours from now to the effective start,
// floored at zero. ok is false without a scheduled date.
func HoursUntilStart(job *models.Job, now time.Time) (float64, bool) {
	start, ok := EffectiveStart(job)
	if !ok {
		return 0, false
	}
	hours := start.Sub(now).Hours()
	if hours < 0 {
		hours = 0
	}
	return hours, true
}

// WillBeLateCancellation is the prospective warning shown before a
// cancellation is submitted. It gates on the current status, unlike
// IsLateCancellation.
func WillBeLateCancellation(job *models.Job, now time.Time) bool {
	if job == nil {
		return false
	}
	if job.Status != models.JobStatusAccepted && job.Status != models.JobStatusConfirmed {
		return false
	}
	hours, ok := HoursUntilStart(job, now)
	if !ok {
		return false
	}
	return hours < LateCancellationWindow.Hours()
}

// WasAcceptedOrConfirmed is the value to record on a job at the moment it is cancelled.
func WasAcceptedOrConfirmed(status models.JobStatus) bool {
	return status == models.JobStatusAccepted || status == models.JobStatusConfirmed
}
