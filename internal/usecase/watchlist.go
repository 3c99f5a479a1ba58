package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
)

type WatchlistUseCase struct {
	store domrepo.WatchlistStore
	now   func() time.Time
}

func NewWatchlistUseCase(store domrepo.WatchlistStore) *WatchlistUseCase {
	return &WatchlistUseCase{store: store, now: time.Now}
}

func (uc *WatchlistUseCase) List(ctx context.Context) ([]models.WatchlistItem, error) {
	items, err := uc.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	return items, nil
}

// Add saves symbol with its display name. Both are required.
func (uc *WatchlistUseCase) Add(ctx context.Context, symbol, name string) ([]models.WatchlistItem, error) {
	symbol, name = strings.TrimSpace(symbol), strings.TrimSpace(name)
	if symbol == "" || name == "" {
		return nil, models.ErrWatchlistInvalid
	}
	items, err := uc.store.Add(ctx, models.WatchlistItem{
		Symbol:  symbol,
		Name:    name,
		AddedAt: uc.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("add %s to watchlist: %w", symbol, err)
	}
	return items, nil
}

func (uc *WatchlistUseCase) Remove(ctx context.Context, symbol string) ([]models.WatchlistItem, error) {
	items, err := uc.store.Remove(ctx, strings.TrimSpace(symbol))
	if err != nil {
		return nil, fmt.Errorf("remove %s from watchlist: %w", symbol, err)
	}
	return items, nil
}
