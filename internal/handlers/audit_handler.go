package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tradematch_backend/internal/services"
	"tradematch_backend/internal/services/dto"
)

type AuditHandler struct {
	*BaseHandler
	auditService services.AuditService
}

func NewAuditHandler(base *BaseHandler, auditService services.AuditService) *AuditHandler {
	return &AuditHandler{
		BaseHandler:  base,
		auditService: auditService,
	}
}

func (h *AuditHandler) RegisterRoutes(r *gin.RouterGroup, guards Guards) {
	admin := r.Group("/admin")
	admin.Use(guards.Auth, guards.Admin)
	{
		admin.GET("/audit-logs", h.ListAuditLogs)
	}
}

func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	var query dto.AuditListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	resp, err := h.auditService.ListAuditLogs(c.Request.Context(), h.GetDB(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
