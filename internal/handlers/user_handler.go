package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tradematch_backend/internal/services"
	"tradematch_backend/internal/services/dto"
	"tradematch_backend/pkg/apperrors"
)

type UserHandler struct {
	*BaseHandler
	userService         services.UserService
	entitlementService  services.EntitlementService
	verificationService services.VerificationService
}

func NewUserHandler(
	base *BaseHandler,
	userService services.UserService,
	entitlementService services.EntitlementService,
	verificationService services.VerificationService,
) *UserHandler {
	return &UserHandler{
		BaseHandler:         base,
		userService:         userService,
		entitlementService:  entitlementService,
		verificationService: verificationService,
	}
}

func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup, guards Guards) {
	me := r.Group("/me")
	me.Use(guards.Auth)
	{
		me.GET("", h.Me)
		me.GET("/capabilities", h.GetCapabilities)
		me.GET("/verification", h.GetVerification)
		me.POST("/abn", h.SubmitABN)
	}

	internal := r.Group("/internal")
	internal.Use(guards.Internal)
	{
		internal.POST("/users/sync", h.SyncUser)
	}
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.userService.Me(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) GetCapabilities(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.entitlementService.GetCapabilities(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) GetVerification(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.verificationService.GetVerification(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) SubmitABN(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitABNRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.verificationService.SubmitABN(c.Request.Context(), h.GetDB(c), userID, req.ABN)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, resp)
}

// SyncUser принимает строку пользователя от провайдера идентификации как есть:
// ключи бывают и camelCase, и snake_case, их разбирает NormalizeUserSnapshot.
func (h *UserHandler) SyncUser(c *gin.Context) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return
	}

	resp, err := h.userService.SyncSnapshot(c.Request.Context(), h.GetDB(c), raw)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
