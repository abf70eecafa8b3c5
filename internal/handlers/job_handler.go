package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tradematch_backend/internal/services"
	"tradematch_backend/internal/services/dto"
	"tradematch_backend/internal/utils"
)

type JobHandler struct {
	*BaseHandler
	jobService services.JobService
}

func NewJobHandler(base *BaseHandler, jobService services.JobService) *JobHandler {
	return &JobHandler{
		BaseHandler: base,
		jobService:  jobService,
	}
}

func (h *JobHandler) RegisterRoutes(r *gin.RouterGroup, guards Guards) {
	r.GET("/trades", h.ListTrades)

	// Публичные маршруты
	public := r.Group("/jobs")
	{
		public.GET("", h.ListJobs)
		public.GET("/slug/:slug", h.GetJobBySlug)
		public.GET("/:jobId", h.GetJob)
	}

	protected := r.Group("/jobs")
	protected.Use(guards.Auth)
	{
		protected.POST("", h.CreateJob)
		protected.GET("/nearby", h.ListJobsNear)
		protected.GET("/:jobId/applications", h.ListApplications)
		protected.POST("/:jobId/applications", h.Apply)
		protected.POST("/:jobId/applications/:applicationId/accept", h.AcceptApplication)
		protected.POST("/:jobId/confirm", h.ConfirmJob)
		protected.GET("/:jobId/cancellation-preview", h.CancellationPreview)
		protected.POST("/:jobId/cancel", h.CancelJob)
		protected.POST("/:jobId/complete", h.CompleteJob)
	}
}

// --- Чтение ---

func (h *JobHandler) ListTrades(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": utils.TradeTaxonomy(),
		"trades":     utils.AllTrades(),
	})
}

func (h *JobHandler) ListJobs(c *gin.Context) {
	var query dto.ListJobsQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	resp, err := h.jobService.ListJobs(c.Request.Context(), h.GetDB(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *JobHandler) ListJobsNear(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var query dto.NearbyJobsQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	resp, err := h.jobService.ListJobsNear(c.Request.Context(), h.GetDB(c), userID, &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *JobHandler) GetJob(c *gin.Context) {
	jobID, ok := RequireParam(c, "jobId")
	if !ok {
		return
	}

	resp, err := h.jobService.GetJob(c.Request.Context(), h.GetDB(c), jobID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *JobHandler) GetJobBySlug(c *gin.Context) {
	slug, ok := RequireParam(c, "slug")
	if !ok {
		return
	}

	resp, err := h.jobService.GetJobBySlug(c.Request.Context(), h.GetDB(c), slug)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *JobHandler) ListApplications(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	jobID, ok := RequireParam(c, "jobId")
	if !ok {
		return
	}

	resp, err := h.jobService.ListApplications(c.Request.Context(), h.GetDB(c), userID, jobID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// --- Коммит-действия (требуют подтвержденный ABN) ---

func (h *JobHandler) CreateJob(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateJobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.jobService.CreateJob(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *JobHandler) Apply(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	jobID, ok := RequireParam(c, "jobId")
	if !ok {
		return
	}

	var req dto.ApplyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.jobService.Apply(c.Request.Context(), h.GetDB(c), userID, jobID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *JobHandler) AcceptApplication(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	jobID, ok := RequireParam(c, "jobId")
	if !ok {
		return
	}
	applicationID, ok := RequireParam(c, "applicationId")
	if !ok {
		return
	}

	resp, err := h.jobService.AcceptApplication(c.Request.Context(), h.GetDB(c), userID, jobID, applicationID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *JobHandler) ConfirmJob(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	jobID, ok := RequireParam(c, "jobId")
	if !ok {
		return
	}

	resp, err := h.jobService.ConfirmJob(c.Request.Context(), h.GetDB(c), userID, jobID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// --- Отмена ---

// CancellationPreview показывает, будет ли отмена сейчас поздней (< 24ч до старта)
func (h *JobHandler) CancellationPreview(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	jobID, ok := RequireParam(c, "jobId")
	if !ok {
		return
	}

	resp, err := h.jobService.CancellationPreview(c.Request.Context(), h.GetDB(c), userID, jobID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *JobHandler) CancelJob(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	jobID, ok := RequireParam(c, "jobId")
	if !ok {
		return
	}

	// тело необязательно
	var req dto.CancelJobRequest
	if c.Request.ContentLength > 0 && !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.jobService.CancelJob(c.Request.Context(), h.GetDB(c), userID, jobID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *JobHandler) CompleteJob(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	jobID, ok := RequireParam(c, "jobId")
	if !ok {
		return
	}

	resp, err := h.jobService.CompleteJob(c.Request.Context(), h.GetDB(c), userID, jobID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
