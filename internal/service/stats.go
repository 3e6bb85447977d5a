package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gfgm/gfgm/backend/internal/cache"
	"github.com/gfgm/gfgm/backend/internal/types"
)

const statsCacheKey = "admin:stats"

type userCounter interface {
	CountUsers(ctx context.Context) (int64, error)
}

type recipeCounter interface {
	CountRecipes(ctx context.Context) (int64, error)
	CountAIGeneratedRecipes(ctx context.Context) (int64, error)
}

// StatsService computes admin dashboard counters, cached when a cache is configured
type StatsService struct {
	users   userCounter
	recipes recipeCounter
	cache   cache.Cache
	ttl     time.Duration
}

var _ IStatsService = (*StatsService)(nil)

// NewStatsService creates the service; c may be nil to disable caching
func NewStatsService(users userCounter, recipes recipeCounter, c cache.Cache, ttl time.Duration) *StatsService {
	return &StatsService{users: users, recipes: recipes, cache: c, ttl: ttl}
}

func (s *StatsService) GetStats(ctx context.Context) (*types.StatsResponse, error) {
	if s.cache != nil {
		var cached types.StatsResponse
		err := s.cache.GetJSON(ctx, statsCacheKey, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			logrus.WithError(err).Warn("stats cache read failed")
		}
	}

	var stats types.StatsResponse
	var err error
	if stats.TotalUsers, err = s.users.CountUsers(ctx); err != nil {
		return nil, err
	}
	if stats.TotalRecipes, err = s.recipes.CountRecipes(ctx); err != nil {
		return nil, err
	}
	if stats.AIGeneratedRecipes, err = s.recipes.CountAIGeneratedRecipes(ctx); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, statsCacheKey, stats, s.ttl); err != nil {
			logrus.WithError(err).Warn("stats cache write failed")
		}
	}
	return &stats, nil
}

// Invalidate drops the cached counters after a moderation change
func (s *StatsService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, statsCacheKey); err != nil {
		logrus.WithError(err).Warn("stats cache invalidation failed")
	}
}
