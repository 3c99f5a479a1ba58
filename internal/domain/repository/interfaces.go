package repository

import (
	"context"
	"time"

	"StockPulse/internal/domain/models"
)

// MarketData fetches daily OHLCV history. Implementations return
// models.ErrDataUnavailable (wrapped) for unknown symbols and unreachable
// providers, and never an empty series without an error.
type MarketData interface {
	Fetch(ctx context.Context, symbol, period string) ([]models.Candle, error)
	Name() string
}

// NewsSource returns articles mentioning query published within [from, to].
type NewsSource interface {
	Search(ctx context.Context, query string, from, to time.Time) ([]models.Article, error)
}

// WatchlistStore persists the watchlist.
type WatchlistStore interface {
	List(ctx context.Context) ([]models.WatchlistItem, error)
	// Add fails with models.ErrWatchlistDuplicate when the symbol is present.
	Add(ctx context.Context, item models.WatchlistItem) ([]models.WatchlistItem, error)
	// Remove fails with models.ErrWatchlistEmpty when nothing was ever saved.
	Remove(ctx context.Context, symbol string) ([]models.WatchlistItem, error)
}

// PredictionSink records prediction events for offline analysis.
type PredictionSink interface {
	Publish(ctx context.Context, ev models.PredictionEvent) error
	Name() string
	Close() error
}

type Metrics interface {
	RecordStage(stage string, seconds float64)
	RecordError(kind string)
	RecordPrediction(symbol, direction string, confidence float64)
	RecordSinkPublished(backend string)
}
