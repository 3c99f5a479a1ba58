package di

import (
	"context"
	"fmt"
	"time"

	"StockPulse/internal/domain/repository"
	"StockPulse/internal/handler/api"
	mid "StockPulse/internal/middleware"
	internalrepo "StockPulse/internal/repository"
	"StockPulse/internal/service/finnhub"
	"StockPulse/internal/service/newsapi"
	"StockPulse/internal/service/ratelimit"
	"StockPulse/internal/service/yahoo"
	"StockPulse/internal/services/features"
	"StockPulse/internal/services/forest"
	"StockPulse/internal/services/prediction"
	"StockPulse/internal/services/sentiment"
	"StockPulse/internal/services/symbols"
	"StockPulse/internal/usecase"
	"StockPulse/pkg/cache"
	pkgch "StockPulse/pkg/clickhouse"
	"StockPulse/pkg/config"
	xhttp "StockPulse/pkg/http"
	"StockPulse/pkg/http/middleware"
	pkgkafka "StockPulse/pkg/kafka"
	applogger "StockPulse/pkg/logger"
	"StockPulse/pkg/metrics"
	"StockPulse/pkg/server"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const serviceName = "stockpulse"

// ProvideRegistry creates the Prometheus registry served at /metrics.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideMetrics creates the pipeline metrics recorder.
func ProvideMetrics(reg *prometheus.Registry) repository.Metrics {
	return metrics.New(reg)
}

// ProvideKafkaProducer creates a Kafka producer when prediction events or
// error logs go to Kafka. Otherwise it returns nil.
func ProvideKafkaProducer(cfg *config.Config, reg *prometheus.Registry) (*pkgkafka.Producer, func(), error) {
	if cfg.Backend.Type != "kafka" && !cfg.Logging.Collector.Enabled {
		return nil, func() {}, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithBatchTimeout(cfg.Kafka.BatchTimeout),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.WriteTimeout),
		pkgkafka.WithAsync(cfg.Kafka.Async),
		pkgkafka.WithAutoCreateTopics(cfg.Kafka.AutoCreateTopics),
		pkgkafka.WithHashByKey(true),
		pkgkafka.WithRegisterer(reg),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, func() { _ = producer.Close() }, nil
}

// ProvideLogger builds the process logger. With the collector enabled,
// error and warn entries are also aggregated onto Kafka.
func ProvideLogger(cfg *config.Config, producer *pkgkafka.Producer) (*applogger.Logger, func(), error) {
	l, err := applogger.New(&applogger.Config{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Output:  cfg.Logging.Output,
		Service: serviceName,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("logger: %w", err)
	}

	if cfg.Logging.Collector.Enabled && producer != nil {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   cfg.Logging.Collector.Interval,
			CountThreshold: cfg.Logging.Collector.Threshold,
			Topic:          cfg.Logging.Collector.Topic,
			Publisher:      producer,
		})
	}
	return l, l.RemoveCollector, nil
}

// ProvideClickHouseClient connects to ClickHouse and creates the
// predictions table when the clickhouse backend is selected.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, func(), error) {
	if cfg.Backend.Type != "clickhouse" {
		return nil, func() {}, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, 0),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.PredictionsSchema(cfg.ClickHouse.Table)); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, func() { _ = client.Close() }, nil
}

// ProvidePredictionSink picks the prediction event backend. Kafka and
// ClickHouse sinks are buffered so short outages are retried.
func ProvidePredictionSink(
	cfg *config.Config,
	producer *pkgkafka.Producer,
	ch *pkgch.Client,
	m repository.Metrics,
) (repository.PredictionSink, func(), error) {
	var next repository.PredictionSink
	switch cfg.Backend.Type {
	case "kafka":
		next = internalrepo.NewKafkaSink(producer, cfg.Kafka.Topic)
	case "clickhouse":
		next = internalrepo.NewClickHouseSink(ch, cfg.ClickHouse.Table)
	default:
		return nil, func() {}, nil
	}

	buffered := mid.NewBufferedSink(next, m)
	buffered.Start(context.Background())
	return buffered, func() { _ = buffered.Close() }, nil
}

// ProvideCache returns the layered cache when Redis is enabled and a
// memory cache otherwise.
func ProvideCache(cfg *config.Config) (cache.Service, func(), error) {
	if !cfg.Cache.Redis.Enabled {
		mc := cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize))
		return mc, func() { _ = mc.Close() }, nil
	}

	rc, err := cache.NewRedisCache(
		cache.WithRedisAddr(cfg.Cache.Redis.Addr),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
		cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("redis cache: %w", err)
	}
	lc := cache.NewLayeredCache(rc,
		cache.WithLayeredMemorySize(cfg.Cache.MemoryMaxSize),
		cache.WithLayeredMemoryTTL(cfg.Cache.MemoryTTL),
		cache.WithLayeredBypass(internalrepo.WatchlistKeyPrefix),
	)
	return lc, func() { _ = lc.Close() }, nil
}

// ProvideMarketData creates the configured market data provider.
func ProvideMarketData(cfg *config.Config) (repository.MarketData, error) {
	client := xhttp.NewClient(
		xhttp.WithTimeout(cfg.MarketData.Timeout),
		xhttp.WithHeader("User-Agent", "Mozilla/5.0 (compatible; stockpulse/1.0)"),
		xhttp.WithRetry(cfg.MarketData.MaxRetries, cfg.MarketData.RetryBackoff),
	)

	switch cfg.MarketData.Provider {
	case "yahoo":
		return yahoo.New(cfg.MarketData.Yahoo.BaseURL, client), nil
	case "finnhub":
		return finnhub.New(cfg.MarketData.Finnhub.APIKey, cfg.MarketData.Finnhub.BaseURL, client), nil
	default:
		return nil, fmt.Errorf("unknown market data provider %q", cfg.MarketData.Provider)
	}
}

// ProvideNewsSource creates the NewsAPI client.
func ProvideNewsSource(cfg *config.Config) repository.NewsSource {
	client := xhttp.NewClient(xhttp.WithTimeout(cfg.News.Timeout))
	return newsapi.New(cfg.News.APIKey, cfg.News.BaseURL, client, cfg.News.RPS, cfg.News.Burst)
}

// ProvideWatchlistStore picks the watchlist backend.
func ProvideWatchlistStore(cfg *config.Config, c cache.Service) repository.WatchlistStore {
	if cfg.Watchlist.Backend == "redis" {
		return internalrepo.NewCacheWatchlist(c)
	}
	return internalrepo.NewFileWatchlist(cfg.Watchlist.Path)
}

func ProvideFeatureBuilder(cfg *config.Config) *features.Builder {
	return features.NewBuilder(features.WithWindows(cfg.Prediction.Windows...))
}

func ProvideTrainer() *prediction.Trainer {
	return prediction.NewTrainer(forest.Factory{})
}

func ProvidePredictionUseCase(
	cfg *config.Config,
	market repository.MarketData,
	builder *features.Builder,
	trainer *prediction.Trainer,
	m repository.Metrics,
	sink repository.PredictionSink,
	l *applogger.Logger,
) *usecase.PredictionUseCase {
	opts := []usecase.PredictionOption{
		usecase.WithDefaultParams(cfg.Prediction.Params()),
		usecase.WithHeldOutDefault(cfg.Prediction.HeldOut),
	}
	if sink != nil {
		opts = append(opts, usecase.WithSink(sink))
	}
	return usecase.NewPredictionUseCase(market, builder, trainer, m, l.With(applogger.String("component", "predict")), opts...)
}

func ProvideSentimentUseCase(cfg *config.Config, news repository.NewsSource, c cache.Service, l *applogger.Logger) *usecase.SentimentUseCase {
	return usecase.NewSentimentUseCase(news, sentiment.NewAnalyzer(), c, cfg.News.CacheTTL, l)
}

func ProvideSymbolsUseCase() *usecase.SymbolsUseCase {
	return usecase.NewSymbolsUseCase(symbols.NewCatalog(symbols.DefaultSymbols))
}

// ProvideHandlers assembles every HTTP route group.
func ProvideHandlers(
	cfg *config.Config,
	market repository.MarketData,
	predict *usecase.PredictionUseCase,
	historical *usecase.HistoricalUseCase,
	syms *usecase.SymbolsUseCase,
	sent *usecase.SentimentUseCase,
	watch *usecase.WatchlistUseCase,
	l *applogger.Logger,
) xhttp.Handler {
	limiter := ratelimit.New(cfg.Server.PredictRPS, cfg.Server.PredictBurst)
	return xhttp.Handlers{
		api.NewHealthHandler(market.Name()),
		api.NewPredictHandler(predict, limiter, l),
		api.NewMarketHandler(historical, syms, l),
		api.NewSentimentHandler(sent, l),
		api.NewWatchlistHandler(watch, l),
	}
}

// ProvideHTTPServer creates the echo server with CORS, metrics and
// request logging.
func ProvideHTTPServer(cfg *config.Config, h xhttp.Handler, reg *prometheus.Registry, l *applogger.Logger) (*xhttp.Server, error) {
	opts := []xhttp.ServerOption{
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithLogger(l),
		xhttp.WithCORS(middleware.CORSConfig{
			AllowOrigins: cfg.Server.CORSOrigins,
			AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders: []string{"Content-Type", "Authorization"},
			MaxAge:       cfg.Server.CORSMaxAge,
		}),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetrics(reg, cfg.Metrics.Path, cfg.Metrics.SlowThreshold))
	}

	srv, err := xhttp.NewServer(h, opts...)
	if err != nil {
		return nil, fmt.Errorf("http server: %w", err)
	}
	return srv, nil
}

// ProvideApp creates the application runner.
func ProvideApp(cfg *config.Config, srv *xhttp.Server, l *applogger.Logger) *server.App {
	return server.New(srv, l,
		server.WithStopTimeout(cfg.Server.ShutdownTimeout+5*time.Second),
	)
}
