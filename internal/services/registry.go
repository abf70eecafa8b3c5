package services

import (
	"tradematch_backend/internal/cache"
	"tradematch_backend/internal/email"
	"tradematch_backend/internal/repositories"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	VerificationService VerificationService
	EntitlementService  EntitlementService
	JobService          JobService
	ReviewService       ReviewService
	SubscriptionService SubscriptionService
	AuditService        AuditService
	UserService         UserService
}

// Repositories - набор репозиториев, общий для сервисов и middleware
type Repositories struct {
	Users   repositories.UserRepository
	Jobs    repositories.JobRepository
	Audit   repositories.AuditRepository
	Reviews repositories.ReviewRepository
}

func NewRepositories() *Repositories {
	return &Repositories{
		Users:   repositories.NewUserRepository(),
		Jobs:    repositories.NewJobRepository(),
		Audit:   repositories.NewAuditRepository(),
		Reviews: repositories.NewReviewRepository(),
	}
}

// Deps - внешние зависимости сервисов
type Deps struct {
	Repos            *Repositories
	EntitlementCache cache.EntitlementCache
	Notifier         email.Provider
	WebhookSecret    string
	Clock            Clock
}

func NewServiceContainer(deps Deps) *ServiceContainer {
	repos := deps.Repos
	entitlements := NewEntitlementService(repos.Users, deps.EntitlementCache)
	reviews := NewReviewService(repos.Reviews, repos.Jobs)

	return &ServiceContainer{
		VerificationService: NewVerificationService(repos.Users, repos.Audit, deps.Notifier, deps.Clock),
		EntitlementService:  entitlements,
		JobService:          NewJobService(repos.Jobs, repos.Users, repos.Audit, entitlements, deps.Notifier, deps.Clock),
		ReviewService:       reviews,
		SubscriptionService: NewSubscriptionService(repos.Users, repos.Audit, entitlements, deps.WebhookSecret),
		AuditService:        NewAuditService(repos.Audit),
		UserService:         NewUserService(repos.Users, repos.Audit, reviews, entitlements),
	}
}
