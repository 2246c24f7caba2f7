package services

import (
	"context"
	"time"

	"disasterprep/domain"
	"disasterprep/model"
	"disasterprep/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const newsRefreshTimeout = 30 * time.Second

// NewsFetcher returns raw, unfiltered headlines.
type NewsFetcher interface {
	Fetch(ctx context.Context) ([]model.ClimateNews, error)
}

type NewsFeed struct {
	Items     []model.ClimateNews `json:"items"`
	FetchedAt time.Time           `json:"fetchedAt"`
	Stale     bool                `json:"stale"`
}

// ClimateNewsService serves the cached climate feed and refreshes it
// lazily once the cache is older than ttl. Concurrent refreshes collapse
// into one upstream call.
type ClimateNewsService struct {
	repo    repository.NewsRepository
	fetcher NewsFetcher
	ttl     time.Duration
	now     func() time.Time
	logger  *zap.Logger
	group   singleflight.Group
}

// NewClimateNewsService builds the service. fetcher may be nil, in which
// case only the existing cache is served.
func NewClimateNewsService(repo repository.NewsRepository, fetcher NewsFetcher, ttl time.Duration, logger *zap.Logger) *ClimateNewsService {
	return &ClimateNewsService{repo: repo, fetcher: fetcher, ttl: ttl, now: time.Now, logger: logger}
}

func (s *ClimateNewsService) Latest(ctx context.Context, limit int) (*NewsFeed, error) {
	items, fetchedAt, err := s.repo.List(ctx, 0)
	if err != nil {
		return nil, err
	}
	// A stamped refresh is fresh for ttl even when it kept no items.
	if !domain.NewsStale(fetchedAt, s.now(), s.ttl) {
		return feed(items, fetchedAt, false, limit), nil
	}

	if s.fetcher == nil {
		if len(items) == 0 {
			return nil, domain.Unavailable("climate news is not configured")
		}
		return feed(items, fetchedAt, true, limit), nil
	}

	if _, err := s.Refresh(ctx); err != nil {
		if len(items) > 0 {
			s.logger.Warn("serving stale climate news", zap.Time("fetched_at", fetchedAt), zap.Error(err))
			return feed(items, fetchedAt, true, limit), nil
		}
		return nil, err
	}

	items, fetchedAt, err = s.repo.List(ctx, 0)
	if err != nil {
		return nil, err
	}
	return feed(items, fetchedAt, false, limit), nil
}

// Refresh fetches, filters and stores a new feed, returning the number of
// items kept.
func (s *ClimateNewsService) Refresh(ctx context.Context) (int, error) {
	if s.fetcher == nil {
		return 0, domain.Unavailable("climate news is not configured")
	}
	v, err, shared := s.group.Do("refresh", func() (any, error) {
		// The refresh outlives a cancelled first caller so joined callers still get a result.
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), newsRefreshTimeout)
		defer cancel()

		raw, err := s.fetcher.Fetch(rctx)
		if err != nil {
			return 0, err
		}
		now := s.now()
		kept := domain.FilterClimateNews(raw, now)
		if err := s.repo.Replace(rctx, kept, now); err != nil {
			return 0, err
		}
		s.logger.Info("climate news refreshed", zap.Int("fetched", len(raw)), zap.Int("kept", len(kept)))
		return len(kept), nil
	})
	if err != nil {
		return 0, err
	}
	if shared {
		s.logger.Debug("climate news refresh shared")
	}
	return v.(int), nil
}

func feed(items []model.ClimateNews, fetchedAt time.Time, stale bool, limit int) *NewsFeed {
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return &NewsFeed{Items: items, FetchedAt: fetchedAt, Stale: stale}
}
