package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"tradematch_backend/internal/models"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func at(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		panic(err)
	}
	return t
}

func cancelledJob(scheduled, cancelled string, wasConfirmed bool) *models.Job {
	job := &models.Job{
		ContractorID:             "contractor-1",
		ConfirmedSubcontractorID: strPtr("sub-1"),
		ScheduledDates:           datatypes.JSONSlice[time.Time]{at(scheduled)},
		Status:                   models.JobStatusCancelled,
	}
	job.WasAcceptedOrConfirmedBeforeCancellation = wasConfirmed
	if cancelled != "" {
		job.CancelledAt = timePtr(at(cancelled))
	}
	return job
}

func TestIsLateCancellation_TwentyTwoHoursBefore(t *testing.T) {
	job := cancelledJob("2025-01-10 08:00", "2025-01-09 10:00", true)

	hours, ok := HoursBeforeStartAtCancellation(job)
	require.True(t, ok)
	assert.InDelta(t, 22.0, hours, 0.001)
	assert.True(t, IsLateCancellation(job))
}

func TestIsLateCancellation_FortyEightHoursBefore(t *testing.T) {
	job := cancelledJob("2025-01-10 08:00", "2025-01-08 08:00", true)

	assert.False(t, IsLateCancellation(job))
}

func TestIsLateCancellation_ExactlyTwentyFourHoursIsNotLate(t *testing.T) {
	job := cancelledJob("2025-01-10 08:00", "2025-01-09 08:00", true)

	assert.False(t, IsLateCancellation(job))
}

func TestIsLateCancellation_AfterStartStillLate(t *testing.T) {
	job := cancelledJob("2025-01-10 08:00", "2025-01-10 12:00", true)

	hours, ok := HoursBeforeStartAtCancellation(job)
	require.True(t, ok)
	assert.Less(t, hours, 0.0)
	assert.True(t, IsLateCancellation(job))
}

func TestIsLateCancellation_SafeDefaults(t *testing.T) {
	tests := []struct {
		name string
		job  *models.Job
	}{
		{"nil job", nil},
		{"no cancellation timestamp", cancelledJob("2025-01-10 08:00", "", true)},
		{"never accepted or confirmed", cancelledJob("2025-01-10 08:00", "2025-01-09 10:00", false)},
		{"no scheduled dates", func() *models.Job {
			j := cancelledJob("2025-01-10 08:00", "2025-01-09 10:00", true)
			j.ScheduledDates = nil
			return j
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, IsLateCancellation(tt.job))
		})
	}
}

func TestEffectiveStart_UsesStartTime(t *testing.T) {
	job := cancelledJob("2025-01-10 00:00", "2025-01-09 10:00", true)
	job.StartTime = strPtr("08:00")

	start, ok := EffectiveStart(job)
	require.True(t, ok)
	assert.Equal(t, at("2025-01-10 08:00"), start)
	assert.True(t, IsLateCancellation(job))
}

func TestEffectiveStart_MalformedStartTimeKeepsDateTime(t *testing.T) {
	job := cancelledJob("2025-01-10 07:30", "", false)
	job.StartTime = strPtr("half past seven")

	start, ok := EffectiveStart(job)
	require.True(t, ok)
	assert.Equal(t, at("2025-01-10 07:30"), start)
}

func TestEffectiveStart_UsesFirstScheduledDate(t *testing.T) {
	job := &models.Job{ScheduledDates: datatypes.JSONSlice[time.Time]{at("2025-03-01 09:00"), at("2025-03-02 09:00")}}

	start, ok := EffectiveStart(job)
	require.True(t, ok)
	assert.Equal(t, at("2025-03-01 09:00"), start)
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in     string
		hour   int
		minute int
		ok     bool
	}{
		{"08:00", 8, 0, true},
		{"8:05", 8, 5, true},
		{"23:59", 23, 59, true},
		{"24:00", 0, 0, false},
		{"12:60", 0, 0, false},
		{"1200", 0, 0, false},
		{"", 0, 0, false},
		{"ab:cd", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			h, m, ok := ParseClock(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.hour, h)
				assert.Equal(t, tt.minute, m)
			}
		})
	}
}

func TestCanLeaveReliabilityReview(t *testing.T) {
	eligible := cancelledJob("2025-01-10 08:00", "2025-01-09 10:00", true)

	assert.True(t, CanLeaveReliabilityReview(eligible, "contractor-1"))
	assert.True(t, CanLeaveReliabilityReview(eligible, "sub-1"))
	assert.False(t, CanLeaveReliabilityReview(eligible, "stranger"))
	assert.False(t, CanLeaveReliabilityReview(eligible, ""))

	assigned := cancelledJob("2025-01-10 08:00", "2025-01-09 10:00", true)
	assigned.ConfirmedSubcontractorID = nil
	assigned.AssignedSubcontractorID = strPtr("sub-2")
	assert.True(t, CanLeaveReliabilityReview(assigned, "sub-2"))

	notCancelled := cancelledJob("2025-01-10 08:00", "2025-01-09 10:00", true)
	notCancelled.Status = models.JobStatusClosed
	assert.False(t, CanLeaveReliabilityReview(notCancelled, "contractor-1"))

	early := cancelledJob("2025-01-10 08:00", "2025-01-08 08:00", true)
	assert.False(t, CanLeaveReliabilityReview(early, "contractor-1"))
}

func TestHoursUntilStart(t *testing.T) {
	job := &models.Job{ScheduledDates: datatypes.JSONSlice[time.Time]{at("2025-01-10 08:00")}}

	hours, ok := HoursUntilStart(job, at("2025-01-09 20:00"))
	require.True(t, ok)
	assert.InDelta(t, 12.0, hours, 0.001)

	hours, ok = HoursUntilStart(job, at("2025-01-11 08:00"))
	require.True(t, ok)
	assert.Equal(t, 0.0, hours)

	_, ok = HoursUntilStart(&models.Job{}, at("2025-01-09 20:00"))
	assert.False(t, ok)
}

func TestWillBeLateCancellation(t *testing.T) {
	now := at("2025-01-09 10:00")
	job := &models.Job{ScheduledDates: datatypes.JSONSlice[time.Time]{at("2025-01-10 08:00")}}

	for _, status := range []models.JobStatus{models.JobStatusAccepted, models.JobStatusConfirmed} {
		job.Status = status
		assert.True(t, WillBeLateCancellation(job, now), status)
	}

	for _, status := range []models.JobStatus{models.JobStatusOpen, models.JobStatusPendingApproval, models.JobStatusCancelled} {
		job.Status = status
		assert.False(t, WillBeLateCancellation(job, now), status)
	}

	job.Status = models.JobStatusConfirmed
	assert.False(t, WillBeLateCancellation(job, at("2025-01-08 08:00")))

	// past start: hours floor to zero, still within the window
	assert.True(t, WillBeLateCancellation(job, at("2025-01-12 08:00")))

	assert.False(t, WillBeLateCancellation(&models.Job{Status: models.JobStatusConfirmed}, now))
}

func TestProspectiveAndRetrospectiveChecksStayIndependent(t *testing.T) {
	// Status says confirmed but the historical flag was never captured.
	job := cancelledJob("2025-01-10 08:00", "2025-01-09 10:00", false)
	job.Status = models.JobStatusConfirmed

	assert.True(t, WillBeLateCancellation(job, at("2025-01-09 10:00")))
	assert.False(t, IsLateCancellation(job))
}

func TestCancellationPredicatesAreIdempotent(t *testing.T) {
	job := cancelledJob("2025-01-10 08:00", "2025-01-09 10:00", true)
	now := at("2025-01-09 09:00")

	assert.Equal(t, IsLateCancellation(job), IsLateCancellation(job))
	assert.Equal(t, CanLeaveReliabilityReview(job, "sub-1"), CanLeaveReliabilityReview(job, "sub-1"))
	h1, _ := HoursUntilStart(job, now)
	h2, _ := HoursUntilStart(job, now)
	assert.Equal(t, h1, h2)
}

func TestWasAcceptedOrConfirmed(t *testing.T) {
	assert.True(t, WasAcceptedOrConfirmed(models.JobStatusAccepted))
	assert.True(t, WasAcceptedOrConfirmed(models.JobStatusConfirmed))
	assert.False(t, WasAcceptedOrConfirmed(models.JobStatusOpen))
	assert.False(t, WasAcceptedOrConfirmed(models.JobStatusPendingApproval))
}
