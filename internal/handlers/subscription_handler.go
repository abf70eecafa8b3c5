package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"tradematch_backend/internal/logger"
	"tradematch_backend/internal/services"
	"tradematch_backend/internal/services/dto"
	"tradematch_backend/pkg/apperrors"
)

const (
	SignatureHeader     = "X-Signature"
	maxWebhookBodyBytes = 64 << 10
)

type SubscriptionHandler struct {
	*BaseHandler
	subscriptionService services.SubscriptionService
}

func NewSubscriptionHandler(base *BaseHandler, subscriptionService services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		BaseHandler:         base,
		subscriptionService: subscriptionService,
	}
}

func (h *SubscriptionHandler) RegisterRoutes(r *gin.RouterGroup, _ Guards) {
	webhooks := r.Group("/webhooks")
	{
		webhooks.POST("/payments", h.PaymentWebhook)
	}
}

// PaymentWebhook: подпись проверяется по сырому телу, до разбора JSON
func (h *SubscriptionHandler) PaymentWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Failed to read request body"))
		return
	}

	if err := h.subscriptionService.VerifySignature(payload, c.GetHeader(SignatureHeader)); err != nil {
		logger.CtxWarn(ctx, "Payment webhook rejected", "reason", "bad signature", "ip", c.ClientIP())
		h.HandleServiceError(c, err)
		return
	}

	var event dto.PaymentWebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return
	}
	if !h.validate(c, &event, "body") {
		return
	}

	if err := h.subscriptionService.ApplyPaymentEvent(ctx, h.GetDB(c), &event); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Event processed"})
}
