package service

import (
	"context"
	"strings"

	"carmarket_backend/internal/cache"
	"carmarket_backend/internal/dealers/repository"
	"carmarket_backend/internal/dealers/transport"
	"carmarket_backend/internal/events"
	"carmarket_backend/platform/logger"
	"carmarket_backend/platform/phone"

	"github.com/google/uuid"
)

// Service implements dealer profile management.
type Service struct {
	repo        *repository.Repository
	resultCache *cache.Cache
	bus         events.Bus
	log         *logger.Logger
}

// New creates the dealers service.
func New(repo *repository.Repository, resultCache *cache.Cache, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, resultCache: resultCache, bus: bus, log: log}
}

// Upsert creates or updates the caller's dealer profile. The profile ID is
// the authenticated user's ID.
func (s *Service) Upsert(ctx context.Context, userID uuid.UUID, req transport.UpsertDealerRequest) (transport.DealerProfile, error) {
	dealer, inserted, err := s.repo.Upsert(ctx, repository.UpsertParams{
		ID:      userID,
		Name:    strings.TrimSpace(req.Name),
		Company: strings.TrimSpace(req.Company),
		Phone:   phone.NormalizeE164(req.Phone),
		City:    strings.TrimSpace(req.City),
	})
	if err != nil {
		return transport.DealerProfile{}, err
	}

	if inserted {
		s.bus.Publish(ctx, events.DealerRegistered{
			BaseEvent: events.NewBaseEvent(),
			DealerID:  dealer.ID,
			UserID:    userID,
		})
	} else if err := s.resultCache.Invalidate(ctx, cache.CategoryDetail, cache.DealerKey(dealer.ID)); err != nil {
		s.log.Warn("dealer cache invalidation failed", "dealerId", dealer.ID, "error", err)
	}

	return transport.ToProfile(dealer), nil
}

// Profile returns the public dealer profile, served from the detail cache.
func (s *Service) Profile(ctx context.Context, dealerID uuid.UUID) (transport.DealerProfile, error) {
	return cache.GetOrCompute(ctx, s.resultCache, cache.CategoryDetail, cache.DealerKey(dealerID),
		func(ctx context.Context) (transport.DealerProfile, error) {
			dealer, err := s.repo.GetByID(ctx, dealerID)
			if err != nil {
				return transport.DealerProfile{}, err
			}
			return transport.ToProfile(dealer), nil
		})
}

// Dashboard returns the dealer's activity counters, always fresh.
func (s *Service) Dashboard(ctx context.Context, dealerID uuid.UUID) (repository.DashboardStats, error) {
	return s.repo.Dashboard(ctx, dealerID)
}
