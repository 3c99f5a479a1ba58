package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	"StockPulse/pkg/cache"
)

// WatchlistKeyPrefix namespaces every cache key the watchlist uses.
const WatchlistKeyPrefix = "watchlist:"

const (
	watchlistKey     = WatchlistKeyPrefix + "items"
	watchlistLockKey = WatchlistKeyPrefix + "lock"
	watchlistLockTTL = 5 * time.Second
)

// CacheWatchlist keeps the watchlist as one JSON value in a cache.Service,
// normally Redis. Writes take a cache lock so replicas do not interleave.
type CacheWatchlist struct {
	cache cache.Service
}

func NewCacheWatchlist(c cache.Service) domrepo.WatchlistStore {
	return &CacheWatchlist{cache: c}
}

func (s *CacheWatchlist) List(ctx context.Context) ([]models.WatchlistItem, error) {
	items, _, err := s.load(ctx)
	return items, err
}

func (s *CacheWatchlist) Add(ctx context.Context, item models.WatchlistItem) ([]models.WatchlistItem, error) {
	var out []models.WatchlistItem
	err := s.locked(ctx, func() error {
		items, _, err := s.load(ctx)
		if err != nil {
			return err
		}
		if items, err = appendUnique(items, item); err != nil {
			return err
		}
		out = items
		return s.save(ctx, items)
	})
	return out, err
}

func (s *CacheWatchlist) Remove(ctx context.Context, symbol string) ([]models.WatchlistItem, error) {
	var out []models.WatchlistItem
	err := s.locked(ctx, func() error {
		items, exists, err := s.load(ctx)
		if err != nil {
			return err
		}
		if !exists {
			return models.ErrWatchlistEmpty
		}
		out = without(items, symbol)
		return s.save(ctx, out)
	})
	return out, err
}

func (s *CacheWatchlist) locked(ctx context.Context, fn func() error) error {
	ok, err := s.cache.TryLock(ctx, watchlistLockKey, watchlistLockTTL)
	if err != nil {
		return fmt.Errorf("watchlist lock: %w", err)
	}
	if !ok {
		return models.ErrWatchlistBusy
	}
	defer s.cache.Unlock(context.WithoutCancel(ctx), watchlistLockKey)
	return fn()
}

func (s *CacheWatchlist) load(ctx context.Context) ([]models.WatchlistItem, bool, error) {
	var items []models.WatchlistItem
	err := s.cache.Get(ctx, watchlistKey, &items)
	if errors.Is(err, cache.ErrCacheMiss) {
		return []models.WatchlistItem{}, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read watchlist: %w", err)
	}
	if items == nil {
		items = []models.WatchlistItem{}
	}
	return items, true, nil
}

// save stores the list without expiry.
func (s *CacheWatchlist) save(ctx context.Context, items []models.WatchlistItem) error {
	if err := s.cache.Set(ctx, watchlistKey, items, 0); err != nil {
		return fmt.Errorf("write watchlist: %w", err)
	}
	return nil
}
