package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tradematch_backend/internal/services"
	"tradematch_backend/internal/services/dto"
)

// VerificationHandler - решения администратора по проверке ABN
type VerificationHandler struct {
	*BaseHandler
	verificationService services.VerificationService
}

func NewVerificationHandler(base *BaseHandler, verificationService services.VerificationService) *VerificationHandler {
	return &VerificationHandler{
		BaseHandler:         base,
		verificationService: verificationService,
	}
}

func (h *VerificationHandler) RegisterRoutes(r *gin.RouterGroup, guards Guards) {
	admin := r.Group("/admin")
	admin.Use(guards.Auth, guards.Admin)
	{
		admin.PUT("/users/:userId/verification", h.DecideVerification)
	}
}

// DecideVerification: статус только из четырех допустимых, иначе 400 до любых изменений
func (h *VerificationHandler) DecideVerification(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	userID, ok := RequireParam(c, "userId")
	if !ok {
		return
	}

	var req dto.VerificationDecisionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.verificationService.DecideVerification(c.Request.Context(), h.GetDB(c), adminID, userID, req.Status); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Verification status updated"})
}
