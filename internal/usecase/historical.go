package usecase

import (
	"context"
	"fmt"
	"strings"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
)

// HistoricalUseCase returns raw daily series.
type HistoricalUseCase struct {
	market domrepo.MarketData
}

func NewHistoricalUseCase(market domrepo.MarketData) *HistoricalUseCase {
	return &HistoricalUseCase{market: market}
}

type GetHistoricalParams struct {
	Symbol string
	Period string
}

func (uc *HistoricalUseCase) GetHistorical(ctx context.Context, p GetHistoricalParams) ([]models.Candle, error) {
	symbol := strings.TrimSpace(p.Symbol)
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol required", models.ErrDataUnavailable)
	}
	candles, err := uc.market.Fetch(ctx, symbol, p.Period)
	if err != nil {
		return nil, fmt.Errorf("historical %s: %w", symbol, err)
	}
	return candles, nil
}
