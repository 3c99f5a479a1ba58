//go:build wireinject
// +build wireinject

package di

import (
	"StockPulse/internal/usecase"
	"StockPulse/pkg/config"
	"StockPulse/pkg/server"

	"github.com/google/wire"
)

var infraSet = wire.NewSet(
	ProvideRegistry,
	ProvideMetrics,
	ProvideKafkaProducer,
	ProvideLogger,
	ProvideClickHouseClient,
	ProvidePredictionSink,
	ProvideMarketData,
)

var predictSet = wire.NewSet(
	infraSet,
	ProvideFeatureBuilder,
	ProvideTrainer,
	ProvidePredictionUseCase,
)

// InitializeApp wires up all dependencies and returns the application.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		predictSet,

		ProvideCache,
		ProvideNewsSource,
		ProvideWatchlistStore,

		ProvideSentimentUseCase,
		ProvideSymbolsUseCase,
		usecase.NewHistoricalUseCase,
		usecase.NewWatchlistUseCase,

		ProvideHandlers,
		ProvideHTTPServer,
		ProvideApp,
	)
	return nil, nil, nil
}

// InitializePredictionUseCase wires only what a one-off prediction needs.
func InitializePredictionUseCase(cfg *config.Config) (*usecase.PredictionUseCase, func(), error) {
	wire.Build(predictSet)
	return nil, nil, nil
}
