package workers

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tradematch_backend/internal/logger"
	"tradematch_backend/internal/repositories"
	"tradematch_backend/internal/rules"
	"tradematch_backend/internal/telemetry"
)

const (
	jobWorkerName    = "job_worker"
	defaultBatchSize = 200
)

// JobWorker закрывает открытые работы, у которых уже наступило время старта.
// Время старта собирается из даты и HH:MM, поэтому сравнение идет в Go, не в SQL.
type JobWorker struct {
	db        *gorm.DB
	jobRepo   repositories.JobRepository
	interval  time.Duration
	batchSize int
	now       func() time.Time
}

func NewJobWorker(db *gorm.DB, jobRepo repositories.JobRepository, interval time.Duration) *JobWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &JobWorker{
		db:        db,
		jobRepo:   jobRepo,
		interval:  interval,
		batchSize: defaultBatchSize,
		now:       time.Now,
	}
}

// Start запускает фоновые задачи для работ
func (w *JobWorker) Start(ctx context.Context) {
	go w.autoCloseStartedJobs(ctx)
}

func (w *JobWorker) autoCloseStartedJobs(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Job worker stopped")
			return
		case <-ticker.C:
			// ошибка уже в логе; следующий тик повторит проход
			if _, err := w.CloseStartedOpenJobs(ctx); err != nil && ctx.Err() != nil {
				logger.Info("Job worker stopped")
				return
			}
		}
	}
}

// CloseStartedOpenJobs проходит все open работы пачками и закрывает те,
// чей эффективный старт уже прошел. Работы без даты не трогаются.
func (w *JobWorker) CloseStartedOpenJobs(ctx context.Context) (int64, error) {
	return w.closeStarted(ctx, w.db.WithContext(ctx))
}

func (w *JobWorker) closeStarted(ctx context.Context, db *gorm.DB) (int64, error) {
	start := time.Now()
	closed, err := w.closeDue(ctx, db, w.now())
	if closed > 0 {
		telemetry.JobsAutoClosed.Add(float64(closed))
	}
	logger.WorkerLog(jobWorkerName, "close_started_jobs", closed, time.Since(start), err)
	return closed, err
}

func (w *JobWorker) closeDue(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	var (
		closed int64
		cursor string
	)
	for {
		if err := ctx.Err(); err != nil {
			return closed, err
		}

		batch, err := w.jobRepo.FindOpenJobs(db, cursor, w.batchSize)
		if err != nil {
			return closed, err
		}
		if len(batch) == 0 {
			return closed, nil
		}

		var due []string
		for i := range batch {
			if startsAt, ok := rules.EffectiveStart(&batch[i]); ok && !startsAt.After(now) {
				due = append(due, batch[i].ID)
			}
		}

		n, err := w.jobRepo.CloseJobs(db, due)
		if err != nil {
			return closed, err
		}
		closed += n

		if len(batch) < w.batchSize {
			return closed, nil
		}
		cursor = batch[len(batch)-1].ID
	}
}
