package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tradematch_backend/internal/email"
	"tradematch_backend/internal/logger"
	"tradematch_backend/internal/models"
	"tradematch_backend/internal/repositories"
	"tradematch_backend/internal/rules"
	"tradematch_backend/internal/services/dto"
	"tradematch_backend/internal/telemetry"
	"tradematch_backend/internal/utils"
	"tradematch_backend/pkg/apperrors"
)

type JobService interface {
	// Browse - без проверки ABN
	GetJob(ctx context.Context, db *gorm.DB, jobID string) (*dto.JobResponse, error)
	GetJobBySlug(ctx context.Context, db *gorm.DB, slug string) (*dto.JobResponse, error)
	ListJobs(ctx context.Context, db *gorm.DB, query *dto.ListJobsQuery) (*dto.JobListResponse, error)
	// ListJobsNear - поиск по месту, только с capability search_from_location
	ListJobsNear(ctx context.Context, db *gorm.DB, userID string, query *dto.NearbyJobsQuery) (*dto.JobListResponse, error)
	ListApplications(ctx context.Context, db *gorm.DB, userID, jobID string) ([]*dto.ApplicationResponse, error)

	// Commit - требуют подтвержденного ABN
	CreateJob(ctx context.Context, db *gorm.DB, userID string, req *dto.CreateJobRequest) (*dto.JobResponse, error)
	Apply(ctx context.Context, db *gorm.DB, userID, jobID string, req *dto.ApplyRequest) (*dto.ApplicationResponse, error)
	AcceptApplication(ctx context.Context, db *gorm.DB, userID, jobID, applicationID string) (*dto.JobResponse, error)
	ConfirmJob(ctx context.Context, db *gorm.DB, userID, jobID string) (*dto.JobResponse, error)

	// Cancellation
	CancellationPreview(ctx context.Context, db *gorm.DB, userID, jobID string) (*dto.CancellationPreviewResponse, error)
	CancelJob(ctx context.Context, db *gorm.DB, userID, jobID string, req *dto.CancelJobRequest) (*dto.CancelJobResponse, error)
	CompleteJob(ctx context.Context, db *gorm.DB, userID, jobID string) (*dto.JobResponse, error)
}

type jobService struct {
	jobRepo      repositories.JobRepository
	userRepo     repositories.UserRepository
	auditRepo    repositories.AuditRepository
	entitlements EntitlementService
	notifier     email.Provider
	now          Clock
}

func NewJobService(
	jobRepo repositories.JobRepository,
	userRepo repositories.UserRepository,
	auditRepo repositories.AuditRepository,
	entitlements EntitlementService,
	notifier email.Provider,
	now Clock,
) JobService {
	if now == nil {
		now = systemClock
	}
	return &jobService{
		jobRepo:      jobRepo,
		userRepo:     userRepo,
		auditRepo:    auditRepo,
		entitlements: entitlements,
		notifier:     notifier,
		now:          now,
	}
}

// ---------------- Browse ----------------

func (s *jobService) GetJob(ctx context.Context, db *gorm.DB, jobID string) (*dto.JobResponse, error) {
	job, err := s.jobRepo.FindJobByID(db, jobID)
	if err != nil {
		return nil, handleJobError(err)
	}
	return buildJobResponse(job), nil
}

// GetJobBySlug: если заголовок поменялся, старый slug все еще находит работу по id в хвосте
func (s *jobService) GetJobBySlug(ctx context.Context, db *gorm.DB, slug string) (*dto.JobResponse, error) {
	job, err := s.jobRepo.FindJobBySlug(db, strings.ToLower(slug))
	if err == nil {
		return buildJobResponse(job), nil
	}
	if !errors.Is(err, repositories.ErrJobNotFound) {
		return nil, handleJobError(err)
	}

	id, ok := utils.ParseJobSlug(slug)
	if !ok {
		return nil, handleJobError(err)
	}
	job, err = s.jobRepo.FindJobByID(db, id)
	if err != nil {
		return nil, handleJobError(err)
	}
	return buildJobResponse(job), nil
}

func (s *jobService) ListJobs(ctx context.Context, db *gorm.DB, query *dto.ListJobsQuery) (*dto.JobListResponse, error) {
	return s.listJobs(db, query, jobFilterFromQuery(query))
}

func (s *jobService) ListJobsNear(ctx context.Context, db *gorm.DB, userID string, query *dto.NearbyJobsQuery) (*dto.JobListResponse, error) {
	if err := s.entitlements.RequireCapability(ctx, db, userID, rules.CapabilitySearchFromLocation); err != nil {
		return nil, err
	}

	filter := jobFilterFromQuery(&query.ListJobsQuery)
	filter.Location = strings.TrimSpace(query.Location)
	return s.listJobs(db, &query.ListJobsQuery, filter)
}

func jobFilterFromQuery(query *dto.ListJobsQuery) repositories.JobFilter {
	filter := repositories.JobFilter{
		Kind:     models.JobKind(query.Kind),
		Search:   strings.TrimSpace(query.Search),
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if status, ok := models.ParseJobStatus(query.Status); ok {
		filter.Status = status
	}
	if trade, ok := utils.CanonicalTrade(query.Trade); ok {
		filter.Trade = trade
	}
	return filter
}

func (s *jobService) listJobs(db *gorm.DB, query *dto.ListJobsQuery, filter repositories.JobFilter) (*dto.JobListResponse, error) {
	jobs, total, err := s.jobRepo.ListJobs(db, filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.JobListResponse{
		Jobs:     make([]*dto.JobResponse, 0, len(jobs)),
		Total:    total,
		Page:     max(query.Page, 1),
		PageSize: query.PageSize,
	}
	if resp.PageSize <= 0 {
		resp.PageSize = 20
	}
	resp.TotalPages = dto.TotalPages(total, resp.PageSize)

	for i := range jobs {
		resp.Jobs = append(resp.Jobs, buildJobResponse(&jobs[i]))
	}
	return resp, nil
}

// ListApplications видит только владелец работы
func (s *jobService) ListApplications(ctx context.Context, db *gorm.DB, userID, jobID string) ([]*dto.ApplicationResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleUserError(err)
	}

	job, err := s.jobRepo.FindJobByID(db, jobID)
	if err != nil {
		return nil, handleJobError(err)
	}
	if !rules.OwnsJob(user, job) {
		return nil, deny("owns_job", userID, apperrors.ErrNotJobOwner, "job_id", jobID)
	}

	apps, err := s.jobRepo.ListApplications(db, jobID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]*dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		out = append(out, buildApplicationResponse(&apps[i]))
	}
	return out, nil
}

// ---------------- Commit ----------------

func (s *jobService) CreateJob(ctx context.Context, db *gorm.DB, userID string, req *dto.CreateJobRequest) (*dto.JobResponse, error) {
	trade, ok := utils.CanonicalTrade(req.Trade)
	if !ok {
		return nil, apperrors.ValidationError(map[string]string{"trade": "Unknown trade"})
	}

	kind := models.JobKindJob
	if req.Kind == string(models.JobKindTender) {
		kind = models.JobKindTender
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	user, err := s.userRepo.FindByID(tx, userID)
	if err != nil {
		return nil, handleUserError(err)
	}

	if err := requireVerified(user, rules.ActionCreate); err != nil {
		return nil, err
	}

	switch kind {
	case models.JobKindTender:
		if err := s.entitlements.RequireCapability(ctx, tx, userID, rules.CapabilityPostTender); err != nil {
			return nil, err
		}
	default:
		if user.Role != models.UserRoleContractor && !rules.IsAdmin(user) {
			return nil, deny("post_job", userID, apperrors.ErrWrongRoleForAction, "role", user.Role)
		}
	}

	job := &models.Job{
		ContractorID:   userID,
		Kind:           kind,
		Title:          strings.TrimSpace(req.Title),
		Description:    req.Description,
		Trade:          trade,
		Location:       strings.TrimSpace(req.Location),
		ScheduledDates: req.ScheduledDates,
		Status:         models.JobStatusOpen,
	}
	job.ID = uuid.NewString()
	job.Slug = utils.BuildJobSlug(job.Title, job.ID)
	if req.StartTime != "" {
		startTime := req.StartTime
		job.StartTime = &startTime
	}

	if err := s.jobRepo.CreateJob(tx, job); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "job created", "job_id", job.ID, "kind", kind)
	return buildJobResponse(job), nil
}

func (s *jobService) Apply(ctx context.Context, db *gorm.DB, userID, jobID string, req *dto.ApplyRequest) (*dto.ApplicationResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	user, err := s.userRepo.FindByID(tx, userID)
	if err != nil {
		return nil, handleUserError(err)
	}
	if user.Role != models.UserRoleSubcontractor {
		return nil, deny("apply_role", userID, apperrors.ErrWrongRoleForAction, "role", user.Role)
	}
	if err := requireVerified(user, rules.ActionApply); err != nil {
		return nil, err
	}

	job, err := s.jobRepo.FindJobForUpdate(tx, jobID)
	if err != nil {
		return nil, handleJobError(err)
	}
	if job.Status != models.JobStatusOpen && job.Status != models.JobStatusPendingApproval {
		return nil, apperrors.ErrInvalidJobStatus
	}
	if job.ContractorID == userID {
		return nil, apperrors.ErrWrongRoleForAction
	}

	app := &models.JobApplication{
		JobID:           jobID,
		SubcontractorID: userID,
		Status:          models.ApplicationPending,
		Message:         strings.TrimSpace(req.Message),
	}
	if err := s.jobRepo.CreateApplication(tx, app); err != nil {
		return nil, handleJobError(err)
	}

	if job.Status == models.JobStatusOpen {
		job.Status = models.JobStatusPendingApproval
		if err := s.jobRepo.UpdateJob(tx, job); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "applied to job", "job_id", jobID, "application_id", app.ID)
	return buildApplicationResponse(app), nil
}

func (s *jobService) AcceptApplication(ctx context.Context, db *gorm.DB, userID, jobID, applicationID string) (*dto.JobResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	user, err := s.userRepo.FindByID(tx, userID)
	if err != nil {
		return nil, handleUserError(err)
	}

	job, err := s.jobRepo.FindJobForUpdate(tx, jobID)
	if err != nil {
		return nil, handleJobError(err)
	}
	if !rules.OwnsJob(user, job) {
		return nil, deny("owns_job", userID, apperrors.ErrNotJobOwner, "job_id", jobID)
	}
	if err := requireVerified(user, rules.ActionAccept); err != nil {
		return nil, err
	}
	if job.Status != models.JobStatusOpen && job.Status != models.JobStatusPendingApproval {
		return nil, apperrors.ErrInvalidJobStatus
	}

	app, err := s.jobRepo.FindApplicationByID(tx, applicationID)
	if err != nil {
		return nil, handleJobError(err)
	}
	if app.JobID != jobID {
		return nil, apperrors.ErrApplicationNotFound
	}
	if app.Status != models.ApplicationPending {
		return nil, apperrors.ErrInvalidJobStatus
	}

	if err := s.jobRepo.UpdateApplicationStatus(tx, app.ID, models.ApplicationAccepted); err != nil {
		return nil, handleJobError(err)
	}

	subcontractorID := app.SubcontractorID
	job.AssignedSubcontractorID = &subcontractorID
	job.Status = models.JobStatusAccepted
	if err := s.jobRepo.UpdateJob(tx, job); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "application accepted", "job_id", jobID, "subcontractor_id", subcontractorID)
	return buildJobResponse(job), nil
}

func (s *jobService) ConfirmJob(ctx context.Context, db *gorm.DB, userID, jobID string) (*dto.JobResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	job, err := s.jobRepo.FindJobForUpdate(tx, jobID)
	if err != nil {
		return nil, handleJobError(err)
	}
	if job.AssignedSubcontractorID == nil || *job.AssignedSubcontractorID != userID {
		return nil, deny("job_participant", userID, apperrors.ErrNotJobParticipant, "job_id", jobID)
	}
	if job.Status != models.JobStatusAccepted {
		return nil, apperrors.ErrInvalidJobStatus
	}

	user, err := s.userRepo.FindByID(tx, userID)
	if err != nil {
		return nil, handleUserError(err)
	}
	if err := requireVerified(user, rules.ActionConfirm); err != nil {
		return nil, err
	}

	confirmed := userID
	job.ConfirmedSubcontractorID = &confirmed
	job.Status = models.JobStatusConfirmed
	if err := s.jobRepo.UpdateJob(tx, job); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "job confirmed", "job_id", jobID)
	return buildJobResponse(job), nil
}

// ---------------- Cancellation ----------------

func (s *jobService) CancellationPreview(ctx context.Context, db *gorm.DB, userID, jobID string) (*dto.CancellationPreviewResponse, error) {
	job, err := s.jobRepo.FindJobByID(db, jobID)
	if err != nil {
		return nil, handleJobError(err)
	}
	if !rules.IsJobParticipant(job, userID) {
		return nil, deny("job_participant", userID, apperrors.ErrNotJobParticipant, "job_id", jobID)
	}

	return buildCancellationPreview(job, s.now()), nil
}

func (s *jobService) CancelJob(ctx context.Context, db *gorm.DB, userID, jobID string, req *dto.CancelJobRequest) (*dto.CancelJobResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	job, err := s.jobRepo.FindJobForUpdate(tx, jobID)
	if err != nil {
		return nil, handleJobError(err)
	}
	if !rules.IsJobParticipant(job, userID) {
		return nil, deny("job_participant", userID, apperrors.ErrNotJobParticipant, "job_id", jobID)
	}
	if !isCancellable(job.Status) {
		return nil, apperrors.ErrInvalidJobStatus
	}

	markCancelled(job, userID, req.Reason, s.now())
	late := rules.IsLateCancellation(job)

	if err := s.jobRepo.UpdateJob(tx, job); err != nil {
		return nil, apperrors.InternalError(err)
	}

	entry := &models.AuditLog{
		ActorID: userID,
		Action:  models.AuditJobCancelled,
		Detail:  cancellationDetail(job, late),
	}
	counterpartyID, hasCounterparty := rules.Counterparty(job, userID)
	if hasCounterparty {
		entry.TargetUserID = &counterpartyID
	}
	if err := s.auditRepo.Create(tx, entry); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	telemetry.JobCancellations.WithLabelValues(telemetry.CancellationTiming(late)).Inc()
	logger.CtxInfo(ctx, "job cancelled", "job_id", jobID, "late", late)

	if hasCounterparty {
		s.notifyCancellation(ctx, db, counterpartyID, job, late)
	}

	return &dto.CancelJobResponse{
		Job:              buildJobResponse(job),
		LateCancellation: late,
	}, nil
}

func (s *jobService) CompleteJob(ctx context.Context, db *gorm.DB, userID, jobID string) (*dto.JobResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	user, err := s.userRepo.FindByID(tx, userID)
	if err != nil {
		return nil, handleUserError(err)
	}

	job, err := s.jobRepo.FindJobForUpdate(tx, jobID)
	if err != nil {
		return nil, handleJobError(err)
	}
	if !rules.OwnsJob(user, job) {
		return nil, deny("owns_job", userID, apperrors.ErrNotJobOwner, "job_id", jobID)
	}
	if job.Status != models.JobStatusConfirmed {
		return nil, apperrors.ErrInvalidJobStatus
	}

	job.Status = models.JobStatusCompleted
	if err := s.jobRepo.UpdateJob(tx, job); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "job completed", "job_id", jobID)
	return buildJobResponse(job), nil
}

func (s *jobService) notifyCancellation(ctx context.Context, db *gorm.DB, recipientID string, job *models.Job, late bool) {
	if s.notifier == nil {
		return
	}
	recipient, err := s.userRepo.FindByID(db, recipientID)
	if err != nil || recipient.Email == "" {
		return
	}
	err = s.notifier.SendTemplate(
		[]string{recipient.Email},
		"A job you were part of was cancelled",
		email.TemplateJobCancelled,
		email.TemplateData{"Name": recipient.DisplayName, "JobTitle": job.Title, "Late": late},
	)
	if err != nil {
		logger.CtxWithError(ctx, "failed to send cancellation email", err, "job_id", job.ID)
	}
}

// ---------------- Helpers ----------------

// requireVerified - ворота ABN для коммит-действий
func requireVerified(user *models.User, action rules.Action) error {
	if rules.CanPerform(user, action) {
		logger.DecisionLog("verification", user.ID, true, "action", action)
		return nil
	}
	return deny("verification", user.ID, apperrors.ErrABNNotVerified, "action", action)
}

func isCancellable(status models.JobStatus) bool {
	switch status {
	case models.JobStatusOpen, models.JobStatusPendingApproval, models.JobStatusAccepted, models.JobStatusConfirmed:
		return true
	}
	return false
}

// markCancelled фиксирует отмену. Флаг accepted/confirmed берется
// из статуса до перехода в cancelled.
func markCancelled(job *models.Job, userID, reason string, now time.Time) {
	cancelledAt := now
	cancelledBy := userID
	job.WasAcceptedOrConfirmedBeforeCancellation = rules.WasAcceptedOrConfirmed(job.Status)
	job.CancelledAt = &cancelledAt
	job.CancelledBy = &cancelledBy
	job.CancellationReason = strings.TrimSpace(reason)
	job.Status = models.JobStatusCancelled
}

func cancellationDetail(job *models.Job, late bool) string {
	hours, ok := rules.HoursBeforeStartAtCancellation(job)
	if !ok {
		return fmt.Sprintf("job %s cancelled, late=%t", job.ID, late)
	}
	return fmt.Sprintf("job %s cancelled %.1fh before start, late=%t", job.ID, hours, late)
}

func buildCancellationPreview(job *models.Job, now time.Time) *dto.CancellationPreviewResponse {
	resp := &dto.CancellationPreviewResponse{
		JobID:      job.ID,
		Status:     string(job.Status),
		WillBeLate: rules.WillBeLateCancellation(job, now),
	}
	if hours, ok := rules.HoursUntilStart(job, now); ok {
		resp.HoursUntilStart = &hours
	}
	return resp
}

func buildJobResponse(job *models.Job) *dto.JobResponse {
	resp := &dto.JobResponse{
		ID:                       job.ID,
		Slug:                     job.Slug,
		Kind:                     string(job.Kind),
		Title:                    job.Title,
		Description:              job.Description,
		Trade:                    job.Trade,
		Location:                 job.Location,
		Status:                   string(job.Status),
		ContractorID:             job.ContractorID,
		AssignedSubcontractorID:  job.AssignedSubcontractorID,
		ConfirmedSubcontractorID: job.ConfirmedSubcontractorID,
		ScheduledDates:           []time.Time(job.ScheduledDates),
		StartTime:                job.StartTime,
		CancelledAt:              job.CancelledAt,
		CancellationReason:       job.CancellationReason,
		LateCancellation:         rules.IsLateCancellation(job),
		CreatedAt:                job.CreatedAt,
	}
	if resp.ScheduledDates == nil {
		resp.ScheduledDates = []time.Time{}
	}
	if start, ok := rules.EffectiveStart(job); ok {
		resp.EffectiveStart = &start
	}
	return resp
}

func buildApplicationResponse(app *models.JobApplication) *dto.ApplicationResponse {
	return &dto.ApplicationResponse{
		ID:              app.ID,
		JobID:           app.JobID,
		SubcontractorID: app.SubcontractorID,
		Status:          string(app.Status),
		Message:         app.Message,
		CreatedAt:       app.CreatedAt,
	}
}
