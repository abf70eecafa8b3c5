package repositories

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tradematch_backend/internal/models"
)

var (
	ErrJobNotFound         = errors.New("job not found")
	ErrApplicationNotFound = errors.New("application not found")
	ErrApplicationExists   = errors.New("application already exists")
)

type JobFilter struct {
	Status       models.JobStatus
	Kind         models.JobKind
	Trade        string
	ContractorID string
	Search       string
	Location     string
	Page         int
	PageSize     int
}

type JobRepository interface {
	// Job operations
	CreateJob(db *gorm.DB, job *models.Job) error
	FindJobByID(db *gorm.DB, id string) (*models.Job, error)
	FindJobBySlug(db *gorm.DB, slug string) (*models.Job, error)
	// FindJobForUpdate блокирует строку до конца транзакции
	FindJobForUpdate(db *gorm.DB, id string) (*models.Job, error)
	UpdateJob(db *gorm.DB, job *models.Job) error
	ListJobs(db *gorm.DB, filter JobFilter) ([]models.Job, int64, error)

	// Worker operations
	FindOpenJobs(db *gorm.DB, afterID string, limit int) ([]models.Job, error)
	CloseJobs(db *gorm.DB, ids []string) (int64, error)

	// Application operations
	CreateApplication(db *gorm.DB, app *models.JobApplication) error
	FindApplicationByID(db *gorm.DB, id string) (*models.JobApplication, error)
	ListApplications(db *gorm.DB, jobID string) ([]models.JobApplication, error)
	UpdateApplicationStatus(db *gorm.DB, id string, status models.ApplicationStatus) error
}

type JobRepositoryImpl struct{}

func NewJobRepository() JobRepository {
	return &JobRepositoryImpl{}
}

func (r *JobRepositoryImpl) CreateJob(db *gorm.DB, job *models.Job) error {
	return db.Create(job).Error
}

func (r *JobRepositoryImpl) FindJobByID(db *gorm.DB, id string) (*models.Job, error) {
	var job models.Job
	if err := db.Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *JobRepositoryImpl) FindJobBySlug(db *gorm.DB, slug string) (*models.Job, error) {
	var job models.Job
	if err := db.Where("slug = ?", slug).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *JobRepositoryImpl) FindJobForUpdate(db *gorm.DB, id string) (*models.Job, error) {
	var job models.Job
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *JobRepositoryImpl) UpdateJob(db *gorm.DB, job *models.Job) error {
	return db.Save(job).Error
}

func (r *JobRepositoryImpl) ListJobs(db *gorm.DB, filter JobFilter) ([]models.Job, int64, error) {
	var jobs []models.Job
	var total int64

	query := db.Model(&models.Job{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}
	if filter.Trade != "" {
		query = query.Where("trade = ?", filter.Trade)
	}
	if filter.ContractorID != "" {
		query = query.Where("contractor_id = ?", filter.ContractorID)
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("title LIKE ?", search)
	}
	if filter.Location != "" {
		query = query.Where("location LIKE ?", "%"+filter.Location+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	err := query.Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&jobs).Error

	return jobs, total, err
}

// FindOpenJobs отдает открытые работы пачками по id (keyset-пагинация)
func (r *JobRepositoryImpl) FindOpenJobs(db *gorm.DB, afterID string, limit int) ([]models.Job, error) {
	var jobs []models.Job
	query := db.Where("status = ?", models.JobStatusOpen)
	if afterID != "" {
		query = query.Where("id > ?", afterID)
	}
	err := query.Order("id ASC").Limit(limit).Find(&jobs).Error
	return jobs, err
}

// CloseJobs закрывает только те работы, которые все еще open
func (r *JobRepositoryImpl) CloseJobs(db *gorm.DB, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := db.Model(&models.Job{}).
		Where("id IN ? AND status = ?", ids, models.JobStatusOpen).
		Update("status", models.JobStatusClosed)
	return result.RowsAffected, result.Error
}

// Application operations

func (r *JobRepositoryImpl) CreateApplication(db *gorm.DB, app *models.JobApplication) error {
	var existing models.JobApplication
	err := db.Where("job_id = ? AND subcontractor_id = ?", app.JobID, app.SubcontractorID).
		First(&existing).Error
	if err == nil {
		return ErrApplicationExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return db.Create(app).Error
}

func (r *JobRepositoryImpl) FindApplicationByID(db *gorm.DB, id string) (*models.JobApplication, error) {
	var app models.JobApplication
	if err := db.Where("id = ?", id).First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *JobRepositoryImpl) ListApplications(db *gorm.DB, jobID string) ([]models.JobApplication, error) {
	var apps []models.JobApplication
	err := db.Where("job_id = ?", jobID).Order("created_at ASC").Find(&apps).Error
	return apps, err
}

func (r *JobRepositoryImpl) UpdateApplicationStatus(db *gorm.DB, id string, status models.ApplicationStatus) error {
	result := db.Model(&models.JobApplication{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}
