package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"StockPulse/internal/domain/models"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string           `yaml:"environment" default:"development"`
	Server      ServerConfig     `yaml:"server"`
	Logging     LoggingConfig    `yaml:"logging"`
	Metrics     MetricsConfig    `yaml:"metrics"`
	MarketData  MarketDataConfig `yaml:"marketdata"`
	News        NewsConfig       `yaml:"news"`
	Prediction  PredictionConfig `yaml:"prediction"`
	Watchlist   WatchlistConfig  `yaml:"watchlist"`
	Cache       CacheConfig      `yaml:"cache"`
	Backend     BackendConfig    `yaml:"backend"`
	Kafka       KafkaConfig      `yaml:"kafka"`
	ClickHouse  ClickHouseConfig `yaml:"clickhouse"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" default:"0.0.0.0"`
	Port            int           `yaml:"port" default:"5000"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"30s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"120s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	CORSOrigins     []string      `yaml:"cors_origins" default:"[\"https://stock-prediction-dashboard-zrrk.vercel.app\",\"http://localhost:5173\",\"http://localhost:3000\"]"`
	CORSMaxAge      int           `yaml:"cors_max_age" default:"3600"`
	PredictRPS      float64       `yaml:"predict_rps" default:"0.5"`
	PredictBurst    int           `yaml:"predict_burst" default:"3"`
}

type LoggingConfig struct {
	Level     string          `yaml:"level" default:"info"`
	Format    string          `yaml:"format" default:"json"`
	Output    string          `yaml:"output" default:"stdout"`
	Collector CollectorConfig `yaml:"collector"`
}

// CollectorConfig controls aggregation of error logs onto Kafka.
type CollectorConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Topic     string        `yaml:"topic" default:"stockpulse-logs"`
	Interval  time.Duration `yaml:"interval" default:"30s"`
	Threshold int           `yaml:"threshold" default:"100"`
}

type MetricsConfig struct {
	Enabled       bool          `yaml:"enabled" default:"true"`
	Path          string        `yaml:"path" default:"/metrics"`
	SlowThreshold time.Duration `yaml:"slow_threshold" default:"10s"`
}

type MarketDataConfig struct {
	Provider     string        `yaml:"provider" default:"yahoo"`
	Timeout      time.Duration `yaml:"timeout" default:"15s"`
	MaxRetries   uint64        `yaml:"max_retries" default:"3"`
	RetryBackoff time.Duration `yaml:"retry_backoff" default:"300ms"`
	Yahoo        struct {
		BaseURL string `yaml:"base_url" default:"https://query1.finance.yahoo.com"`
	} `yaml:"yahoo"`
	Finnhub struct {
		APIKey  string `yaml:"api_key"`
		BaseURL string `yaml:"base_url" default:"https://finnhub.io/api/v1"`
	} `yaml:"finnhub"`
}

type NewsConfig struct {
	APIKey   string        `yaml:"api_key"`
	BaseURL  string        `yaml:"base_url" default:"https://newsapi.org/v2"`
	Timeout  time.Duration `yaml:"timeout" default:"10s"`
	CacheTTL time.Duration `yaml:"cache_ttl" default:"15m"`
	RPS      float64       `yaml:"rps" default:"1"`
	Burst    int           `yaml:"burst" default:"5"`
}

// PredictionConfig holds the pipeline defaults a request may override.
type PredictionConfig struct {
	NEstimators     int   `yaml:"n_estimators" default:"200"`
	MinSamplesSplit int   `yaml:"min_samples_split" default:"50"`
	RandomState     int64 `yaml:"random_state" default:"1"`
	MaxDepth        int   `yaml:"max_depth"`
	HeldOut         bool  `yaml:"held_out"`
	Windows         []int `yaml:"windows" default:"[2,5,60,250,1000]"`
}

func (p PredictionConfig) Params() models.ModelParams {
	return models.ModelParams{
		NEstimators:     p.NEstimators,
		MinSamplesSplit: p.MinSamplesSplit,
		RandomState:     p.RandomState,
		MaxDepth:        p.MaxDepth,
	}
}

type WatchlistConfig struct {
	Backend string `yaml:"backend" default:"file"`
	Path    string `yaml:"path" default:"data/watchlist.json"`
}

type CacheConfig struct {
	MemoryMaxSize int           `yaml:"memory_max_size" default:"1000"`
	MemoryTTL     time.Duration `yaml:"memory_ttl" default:"1m"`
	Redis         RedisConfig   `yaml:"redis"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr" default:"localhost:6379"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix" default:"stockpulse"`
}

// BackendConfig selects where prediction events are recorded:
// none, kafka or clickhouse.
type BackendConfig struct {
	Type string `yaml:"type" default:"none"`
}

type KafkaConfig struct {
	Brokers          []string      `yaml:"brokers"`
	Topic            string        `yaml:"topic" default:"stockpulse-predictions"`
	RequiredAcks     int           `yaml:"required_acks" default:"-1"`
	Compression      string        `yaml:"compression" default:"gzip"`
	MaxAttempts      int           `yaml:"max_attempts" default:"3"`
	WriteTimeout     time.Duration `yaml:"write_timeout" default:"10s"`
	BatchTimeout     time.Duration `yaml:"batch_timeout" default:"50ms"`
	Async            bool          `yaml:"async"`
	AutoCreateTopics bool          `yaml:"auto_create_topics" default:"true"`
}

type ClickHouseConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port" default:"9000"`
	Database         string        `yaml:"database" default:"default"`
	User             string        `yaml:"user" default:"default"`
	Password         string        `yaml:"password"`
	Table            string        `yaml:"table" default:"predictions"`
	UseHTTP          bool          `yaml:"use_http"`
	AsyncInsert      bool          `yaml:"async_insert"`
	WaitForAsync     bool          `yaml:"wait_for_async_insert"`
	DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
	ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
	MaxExecutionTime time.Duration `yaml:"max_execution_time"`
}

// envOverrides are the environment variables that win over the file.
type envOverrides struct {
	Environment    string   `envconfig:"ENVIRONMENT"`
	NewsAPIKey     string   `envconfig:"NEWS_API_KEY"`
	FinnhubAPIKey  string   `envconfig:"FINNHUB_API_KEY"`
	MarketProvider string   `envconfig:"MARKET_PROVIDER"`
	KafkaBrokers   []string `envconfig:"KAFKA_BROKERS"`
	KafkaTopic     string   `envconfig:"KAFKA_TOPIC"`
	RedisAddr      string   `envconfig:"REDIS_ADDR"`
	ServerPort     int      `envconfig:"SERVER_PORT"`
	WatchlistPath  string   `envconfig:"WATCHLIST_PATH"`
	LogLevel       string   `envconfig:"LOG_LEVEL"`
	Backend        string   `envconfig:"BACKEND"`
	ClickHouseHost string   `envconfig:"CLICKHOUSE_HOST"`
}

// Load builds the configuration from defaults, the YAML file at path and
// the environment, in that order. A missing file is not an error.
func Load(path string) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadDotEnv exports variables from the given .env files. Missing files
// are skipped and variables already set are kept.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

func (c *Config) applyEnv() error {
	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return fmt.Errorf("config env: %w", err)
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.Environment, env.Environment)
	set(&c.News.APIKey, env.NewsAPIKey)
	set(&c.MarketData.Finnhub.APIKey, env.FinnhubAPIKey)
	set(&c.MarketData.Provider, env.MarketProvider)
	set(&c.Kafka.Topic, env.KafkaTopic)
	set(&c.Watchlist.Path, env.WatchlistPath)
	set(&c.Logging.Level, env.LogLevel)
	set(&c.Backend.Type, env.Backend)
	set(&c.ClickHouse.Host, env.ClickHouseHost)

	if len(env.KafkaBrokers) > 0 {
		c.Kafka.Brokers = env.KafkaBrokers
	}
	if env.RedisAddr != "" {
		c.Cache.Redis.Addr = env.RedisAddr
		c.Cache.Redis.Enabled = true
	}
	if env.ServerPort != 0 {
		c.Server.Port = env.ServerPort
	}
	return nil
}

// Validate checks if the configuration is valid. Every problem is reported.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, a ...any) {
		errs = append(errs, fmt.Errorf(format, a...))
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		fail("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Server.PredictBurst < 1 {
		fail("server.predict_burst must be at least 1")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		fail("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	if c.Logging.Collector.Enabled && len(c.Kafka.Brokers) == 0 {
		fail("logging.collector requires kafka.brokers")
	}

	switch c.MarketData.Provider {
	case "yahoo":
	case "finnhub":
		if c.MarketData.Finnhub.APIKey == "" {
			fail("marketdata.finnhub.api_key is required for the finnhub provider")
		}
	default:
		fail("marketdata.provider must be 'yahoo' or 'finnhub', got %q", c.MarketData.Provider)
	}

	if c.Prediction.NEstimators < 1 {
		fail("prediction.n_estimators must be at least 1")
	}
	if c.Prediction.MinSamplesSplit < 2 {
		fail("prediction.min_samples_split must be at least 2")
	}
	if len(c.Prediction.Windows) == 0 {
		fail("prediction.windows cannot be empty")
	}
	for _, w := range c.Prediction.Windows {
		if w < 1 {
			fail("prediction.windows must be positive, got %d", w)
		}
	}

	switch c.Watchlist.Backend {
	case "file":
		if c.Watchlist.Path == "" {
			fail("watchlist.path is required for the file backend")
		}
	case "redis":
		if !c.Cache.Redis.Enabled {
			fail("watchlist backend redis requires cache.redis.enabled")
		}
	default:
		fail("watchlist.backend must be 'file' or 'redis', got %q", c.Watchlist.Backend)
	}

	switch c.Backend.Type {
	case "none":
	case "kafka":
		if len(c.Kafka.Brokers) == 0 {
			fail("kafka.brokers is required for the kafka backend")
		}
		if c.Kafka.Topic == "" {
			fail("kafka.topic is required for the kafka backend")
		}
	case "clickhouse":
		if c.ClickHouse.Host == "" {
			fail("clickhouse.host is required for the clickhouse backend")
		}
	default:
		fail("backend.type must be 'none', 'kafka' or 'clickhouse', got %q", c.Backend.Type)
	}

	return errors.Join(errs...)
}
