package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tradematch_backend/internal/services"
	"tradematch_backend/internal/services/dto"
)

type ReviewHandler struct {
	*BaseHandler
	reviewService services.ReviewService
}

func NewReviewHandler(base *BaseHandler, reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler:   base,
		reviewService: reviewService,
	}
}

func (h *ReviewHandler) RegisterRoutes(r *gin.RouterGroup, guards Guards) {
	reviews := r.Group("/jobs/:jobId/reliability-reviews")
	reviews.Use(guards.Auth)
	{
		reviews.POST("", h.CreateReliabilityReview)
	}

	r.GET("/users/:userId/reliability", h.GetReliabilitySummary)
}

func (h *ReviewHandler) CreateReliabilityReview(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	jobID, ok := RequireParam(c, "jobId")
	if !ok {
		return
	}

	var req dto.CreateReliabilityReviewRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.reviewService.CreateReliabilityReview(c.Request.Context(), h.GetDB(c), userID, jobID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ReviewHandler) GetReliabilitySummary(c *gin.Context) {
	userID, ok := RequireParam(c, "userId")
	if !ok {
		return
	}

	resp, err := h.reviewService.GetReliabilitySummary(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
