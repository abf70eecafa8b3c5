package workers

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tradematch_backend/internal/models"
	"tradematch_backend/internal/repositories"
)

type fakeJobRepo struct {
	repositories.JobRepository
	jobs     []models.Job
	closed   []string
	pages    int
	closeErr error
}

func (f *fakeJobRepo) FindOpenJobs(_ *gorm.DB, afterID string, limit int) ([]models.Job, error) {
	f.pages++
	sort.Slice(f.jobs, func(i, j int) bool { return f.jobs[i].ID < f.jobs[j].ID })
	var out []models.Job
	for _, j := range f.jobs {
		if j.Status != models.JobStatusOpen || j.ID <= afterID {
			continue
		}
		out = append(out, j)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeJobRepo) CloseJobs(_ *gorm.DB, ids []string) (int64, error) {
	if f.closeErr != nil {
		return 0, f.closeErr
	}
	f.closed = append(f.closed, ids...)
	return int64(len(ids)), nil
}

func strPtr(s string) *string { return &s }

func dates(ts ...time.Time) datatypes.JSONSlice[time.Time] {
	return datatypes.JSONSlice[time.Time](ts)
}

func newTestWorker(repo *fakeJobRepo, now time.Time) *JobWorker {
	w := NewJobWorker(&gorm.DB{}, repo, time.Minute)
	w.now = func() time.Time { return now }
	return w
}

func TestCloseStartedOpenJobs(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	repo := &fakeJobRepo{jobs: []models.Job{
		{BaseModel: models.BaseModel{ID: "a"}, Status: models.JobStatusOpen, ScheduledDates: dates(day), StartTime: strPtr("07:00")},
		{BaseModel: models.BaseModel{ID: "b"}, Status: models.JobStatusOpen, ScheduledDates: dates(day), StartTime: strPtr("15:00")},
		{BaseModel: models.BaseModel{ID: "c"}, Status: models.JobStatusOpen},
		{BaseModel: models.BaseModel{ID: "d"}, Status: models.JobStatusOpen, ScheduledDates: dates(day.AddDate(0, 0, -2))},
		{BaseModel: models.BaseModel{ID: "e"}, Status: models.JobStatusAccepted, ScheduledDates: dates(day.AddDate(0, 0, -2))},
		{BaseModel: models.BaseModel{ID: "f"}, Status: models.JobStatusOpen, ScheduledDates: dates(day), StartTime: strPtr("09:00")},
	}}

	closed, err := newTestWorker(repo, now).closeStarted(context.Background(), &gorm.DB{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, closed)
	assert.ElementsMatch(t, []string{"a", "d", "f"}, repo.closed)
}

func TestCloseStartedOpenJobs_Pages(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	past := dates(now.AddDate(0, 0, -1))

	repo := &fakeJobRepo{}
	for _, id := range []string{"j1", "j2", "j3", "j4", "j5"} {
		repo.jobs = append(repo.jobs, models.Job{BaseModel: models.BaseModel{ID: id}, Status: models.JobStatusOpen, ScheduledDates: past})
	}

	w := newTestWorker(repo, now)
	w.batchSize = 2

	closed, err := w.closeStarted(context.Background(), &gorm.DB{})
	require.NoError(t, err)
	assert.EqualValues(t, 5, closed)
	assert.Equal(t, 3, repo.pages)
}

func TestCloseStartedOpenJobs_Errors(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	repo := &fakeJobRepo{
		jobs:     []models.Job{{BaseModel: models.BaseModel{ID: "a"}, Status: models.JobStatusOpen, ScheduledDates: dates(now.Add(-time.Hour))}},
		closeErr: errors.New("db down"),
	}

	_, err := newTestWorker(repo, now).closeStarted(context.Background(), &gorm.DB{})
	assert.EqualError(t, err, "db down")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = newTestWorker(&fakeJobRepo{}, now).closeStarted(ctx, &gorm.DB{})
	assert.ErrorIs(t, err, context.Canceled)
}

// failingJobRepo сообщает о каждом проходе и всегда падает
type failingJobRepo struct {
	repositories.JobRepository
	calls chan struct{}
}

func (f *failingJobRepo) FindOpenJobs(_ *gorm.DB, _ string, _ int) ([]models.Job, error) {
	select {
	case f.calls <- struct{}{}:
	default:
	}
	return nil, errors.New("db down")
}

func TestAutoCloseLoop_RetriesAfterErrorAndStops(t *testing.T) {
	db, err := gorm.Open(postgres.Open("host=localhost user=tradematch dbname=tradematch sslmode=disable"), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	repo := &failingJobRepo{calls: make(chan struct{}, 8)}
	w := NewJobWorker(db, repo, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.autoCloseStartedJobs(ctx)
		close(done)
	}()

	// ошибка первого прохода не останавливает воркер
	for i := 0; i < 2; i++ {
		select {
		case <-repo.calls:
		case <-time.After(time.Second):
			t.Fatal("worker did not run a pass")
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}
