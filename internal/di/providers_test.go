package di

import (
	"path/filepath"
	"testing"

	internalrepo "StockPulse/internal/repository"
	"StockPulse/pkg/cache"
	"StockPulse/pkg/config"
	applogger "StockPulse/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	cfg.Watchlist.Path = filepath.Join(t.TempDir(), "watchlist.json")
	return cfg
}

func TestProvidePredictionSinkNone(t *testing.T) {
	cfg := testConfig(t)
	cfg.Backend.Type = "none"

	sink, cleanup, err := ProvidePredictionSink(cfg, nil, nil, ProvideMetrics(ProvideRegistry()))
	require.NoError(t, err)
	defer cleanup()
	assert.Nil(t, sink)
}

func TestProvideKafkaProducerDisabled(t *testing.T) {
	cfg := testConfig(t)

	p, cleanup, err := ProvideKafkaProducer(cfg, ProvideRegistry())
	require.NoError(t, err)
	defer cleanup()
	assert.Nil(t, p)
}

func TestProvideCacheMemory(t *testing.T) {
	cfg := testConfig(t)

	c, cleanup, err := ProvideCache(cfg)
	require.NoError(t, err)
	defer cleanup()
	assert.IsType(t, &cache.MemoryCache{}, c)
}

func TestProvideWatchlistStore(t *testing.T) {
	cfg := testConfig(t)
	mc := cache.NewMemoryCache()
	defer mc.Close()

	assert.IsType(t, &internalrepo.FileWatchlist{}, ProvideWatchlistStore(cfg, mc))

	cfg.Watchlist.Backend = "redis"
	assert.IsType(t, &internalrepo.CacheWatchlist{}, ProvideWatchlistStore(cfg, mc))
}

func TestProvideMarketData(t *testing.T) {
	cfg := testConfig(t)

	md, err := ProvideMarketData(cfg)
	require.NoError(t, err)
	assert.Equal(t, "yahoo", md.Name())

	cfg.MarketData.Provider = "bloomberg"
	_, err = ProvideMarketData(cfg)
	assert.ErrorContains(t, err, "bloomberg")
}

func TestProvideHTTPServer(t *testing.T) {
	cfg := testConfig(t)
	reg := ProvideRegistry()
	l := applogger.NewNop()

	md, err := ProvideMarketData(cfg)
	require.NoError(t, err)
	uc := ProvidePredictionUseCase(cfg, md, ProvideFeatureBuilder(cfg), ProvideTrainer(), ProvideMetrics(reg), nil, l)
	assert.NotNil(t, uc)

	srv, err := ProvideHTTPServer(cfg, ProvideHandlers(cfg, md, uc, nil, ProvideSymbolsUseCase(), nil, nil, l), reg, l)
	require.NoError(t, err)
	assert.NotNil(t, srv)
}
