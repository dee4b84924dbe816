package stats

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Service serves the dashboard summary, cache-first with a database
// fallback on miss.
type Service struct {
	repo  *Repository
	cache *Cache
	log   *zap.Logger
}

func NewService(repo *Repository, cache *Cache, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, cache: cache, log: log}
}

func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			// Cache trouble is not worth failing the dashboard over.
			s.log.Warn("stats cache read failed", zap.Error(err))
		}
	}
	return s.Refresh(ctx)
}

// Refresh recomputes the summary and re-primes the cache.
func (s *Service) Refresh(ctx context.Context) (*Summary, error) {
	sum, err := s.repo.Collect(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, sum); err != nil {
			s.log.Warn("stats cache write failed", zap.Error(err))
		}
	}
	return sum, nil
}
