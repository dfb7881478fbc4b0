package service

import (
	"context"
	"log"

	"skillswap/internal/cache"
	"skillswap/internal/model"
	"skillswap/internal/repository"
)

// AdminService serves the read-only administrative surface. Platform stats
// go through a short-TTL Redis cache; all other reads hit the database
// directly since the listings are admin-only and infrequent.
type AdminService struct {
	repo       repository.AdminRepository
	statsCache cache.StatsCache
}

func NewAdminService(repo repository.AdminRepository, statsCache cache.StatsCache) *AdminService {
	return &AdminService{
		repo:       repo,
		statsCache: statsCache,
	}
}

// Stats returns aggregate platform numbers, cached for up to a minute.
// Cache failures fall back to the database; a serving admin dashboard
// matters more than a warm cache.
func (s *AdminService) Stats(ctx context.Context) (*model.Stats, error) {
	if s.statsCache != nil {
		stats, found, err := s.statsCache.Get(ctx)
		if err != nil {
			log.Printf("[AdminService] Stats cache read failed: %v", err)
		} else if found {
			return stats, nil
		}
	}

	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, err
	}

	if s.statsCache != nil {
		if err := s.statsCache.Set(ctx, stats); err != nil {
			log.Printf("[AdminService] Stats cache write failed: %v", err)
		}
	}

	return stats, nil
}

// ListUsers returns every account, including private profiles.
func (s *AdminService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.ListUsers(ctx)
}

// ListSkills returns every skill across all users.
func (s *AdminService) ListSkills(ctx context.Context) ([]model.Skill, error) {
	return s.repo.ListSkills(ctx)
}

// ListSwaps returns every swap request with counterparty names.
func (s *AdminService) ListSwaps(ctx context.Context) ([]model.SwapSummary, error) {
	return s.repo.ListSwaps(ctx)
}
