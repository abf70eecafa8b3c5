package services

import (
	"context"

	"gorm.io/gorm"

	"tradematch_backend/internal/cache"
	"tradematch_backend/internal/logger"
	"tradematch_backend/internal/repositories"
	"tradematch_backend/internal/rules"
	"tradematch_backend/internal/services/dto"
	"tradematch_backend/internal/telemetry"
	"tradematch_backend/pkg/apperrors"
)

type EntitlementService interface {
	GetEntitlement(ctx context.Context, db *gorm.DB, userID string) (rules.Entitlement, error)
	GetCapabilities(ctx context.Context, db *gorm.DB, userID string) (*dto.CapabilitiesResponse, error)
	RequireCapability(ctx context.Context, db *gorm.DB, userID string, capability rules.Capability) error
	Invalidate(ctx context.Context, userID string)
}

type entitlementService struct {
	userRepo repositories.UserRepository
	cache    cache.EntitlementCache
}

func NewEntitlementService(userRepo repositories.UserRepository, entitlementCache cache.EntitlementCache) EntitlementService {
	return &entitlementService{
		userRepo: userRepo,
		cache:    entitlementCache,
	}
}

// GetEntitlement читает план из redis, при промахе - из БД.
// Ошибки redis не фатальны: источник правды - БД.
func (s *entitlementService) GetEntitlement(ctx context.Context, db *gorm.DB, userID string) (rules.Entitlement, error) {
	cached, err := s.cache.Get(ctx, userID)
	if err != nil {
		telemetry.EntitlementCacheLookups.WithLabelValues("error").Inc()
		logger.CtxWithError(ctx, "entitlement cache read failed", err, "user_id", userID)
	} else if cached != nil {
		telemetry.EntitlementCacheLookups.WithLabelValues("hit").Inc()
		return *cached, nil
	} else {
		telemetry.EntitlementCacheLookups.WithLabelValues("miss").Inc()
	}

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return rules.Entitlement{}, handleUserError(err)
	}

	entitlement := rules.EntitlementOf(user)
	if err := s.cache.Set(ctx, userID, entitlement); err != nil {
		logger.CtxWithError(ctx, "entitlement cache write failed", err, "user_id", userID)
	}
	return entitlement, nil
}

func (s *entitlementService) GetCapabilities(ctx context.Context, db *gorm.DB, userID string) (*dto.CapabilitiesResponse, error) {
	entitlement, err := s.GetEntitlement(ctx, db, userID)
	if err != nil {
		return nil, err
	}

	return &dto.CapabilitiesResponse{
		UserID:             userID,
		PlanID:             string(entitlement.PlanID),
		SubscriptionStatus: string(entitlement.Status),
		Capabilities:       capabilityMap(entitlement),
	}, nil
}

func (s *entitlementService) RequireCapability(ctx context.Context, db *gorm.DB, userID string, capability rules.Capability) error {
	entitlement, err := s.GetEntitlement(ctx, db, userID)
	if err != nil {
		return err
	}

	if !rules.HasCapability(entitlement, capability) {
		return deny("capability", userID, apperrors.ErrCapabilityDenied.WithDetails(map[string]string{
			"capability": string(capability),
		}), "capability", capability, "plan_id", entitlement.PlanID)
	}
	logger.DecisionLog("capability", userID, true, "capability", capability)
	return nil
}

func (s *entitlementService) Invalidate(ctx context.Context, userID string) {
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		logger.CtxWithError(ctx, "entitlement cache invalidation failed", err, "user_id", userID)
	}
}

func capabilityMap(e rules.Entitlement) map[string]bool {
	caps := rules.Capabilities(e)
	out := make(map[string]bool, len(caps))
	for c, ok := range caps {
		out[string(c)] = ok
	}
	return out
}
