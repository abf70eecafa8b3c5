package handlers

import (
	"tradematch_backend/internal/services"
)

// AppHandlers - все HTTP-хендлеры приложения
type AppHandlers struct {
	Health       *HealthHandler
	User         *UserHandler
	Job          *JobHandler
	Review       *ReviewHandler
	Verification *VerificationHandler
	Audit        *AuditHandler
	Subscription *SubscriptionHandler
}

func NewAppHandlers(base *BaseHandler, svc *services.ServiceContainer) *AppHandlers {
	return &AppHandlers{
		Health:       NewHealthHandler(base),
		User:         NewUserHandler(base, svc.UserService, svc.EntitlementService, svc.VerificationService),
		Job:          NewJobHandler(base, svc.JobService),
		Review:       NewReviewHandler(base, svc.ReviewService),
		Verification: NewVerificationHandler(base, svc.VerificationService),
		Audit:        NewAuditHandler(base, svc.AuditService),
		Subscription: NewSubscriptionHandler(base, svc.SubscriptionService),
	}
}
