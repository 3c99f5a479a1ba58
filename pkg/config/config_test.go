package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 5000, c.Server.Port)
	assert.Equal(t, 30*time.Second, c.Server.ReadTimeout)
	assert.Len(t, c.Server.CORSOrigins, 3)
	assert.Equal(t, "yahoo", c.MarketData.Provider)
	assert.Equal(t, "none", c.Backend.Type)
	assert.Equal(t, "file", c.Watchlist.Backend)
	assert.Equal(t, []int{2, 5, 60, 250, 1000}, c.Prediction.Windows)
	assert.Equal(t, 200, c.Prediction.Params().NEstimators)
	assert.Equal(t, 50, c.Prediction.Params().MinSamplesSplit)
	assert.Equal(t, int64(1), c.Prediction.Params().RandomState)
	assert.Equal(t, -1, c.Kafka.RequiredAcks)
	assert.Equal(t, 15*time.Minute, c.News.CacheTTL)
	assert.True(t, c.Metrics.Enabled)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	p := writeFile(t, "config.yaml", `
server:
  port: 8080
  cors_origins: ["*"]
metrics:
  enabled: false
prediction:
  n_estimators: 50
  held_out: true
  windows: [2, 5]
news:
  cache_ttl: 5m
`)
	c, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, []string{"*"}, c.Server.CORSOrigins)
	assert.False(t, c.Metrics.Enabled)
	assert.Equal(t, 50, c.Prediction.NEstimators)
	assert.Equal(t, 50, c.Prediction.MinSamplesSplit)
	assert.True(t, c.Prediction.HeldOut)
	assert.Equal(t, []int{2, 5}, c.Prediction.Windows)
	assert.Equal(t, 5*time.Minute, c.News.CacheTTL)
	assert.Equal(t, 120*time.Second, c.Server.WriteTimeout)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("NEWS_API_KEY", "news-key")
	t.Setenv("MARKET_PROVIDER", "finnhub")
	t.Setenv("FINNHUB_API_KEY", "fh-key")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("BACKEND", "kafka")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("SERVER_PORT", "9001")
	t.Setenv("WATCHLIST_PATH", "/tmp/w.json")
	t.Setenv("LOG_LEVEL", "debug")

	c, err := Load(writeFile(t, "config.yaml", "server:\n  port: 8080\n"))
	require.NoError(t, err)

	assert.Equal(t, "news-key", c.News.APIKey)
	assert.Equal(t, "finnhub", c.MarketData.Provider)
	assert.Equal(t, "fh-key", c.MarketData.Finnhub.APIKey)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Kafka.Brokers)
	assert.Equal(t, "kafka", c.Backend.Type)
	assert.True(t, c.Cache.Redis.Enabled)
	assert.Equal(t, "redis:6379", c.Cache.Redis.Addr)
	assert.Equal(t, 9001, c.Server.Port)
	assert.Equal(t, "/tmp/w.json", c.Watchlist.Path)
	assert.Equal(t, "debug", c.Logging.Level)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	_, err := Load(writeFile(t, "config.yaml", "server: [unclosed"))
	assert.ErrorContains(t, err, "parse config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"provider", func(c *Config) { c.MarketData.Provider = "bloomberg" }, "marketdata.provider"},
		{"finnhub key", func(c *Config) { c.MarketData.Provider = "finnhub" }, "finnhub.api_key"},
		{"trees", func(c *Config) { c.Prediction.NEstimators = 0 }, "n_estimators"},
		{"split", func(c *Config) { c.Prediction.MinSamplesSplit = 1 }, "min_samples_split"},
		{"windows", func(c *Config) { c.Prediction.Windows = nil }, "windows"},
		{"kafka brokers", func(c *Config) { c.Backend.Type = "kafka" }, "kafka.brokers"},
		{"clickhouse host", func(c *Config) { c.Backend.Type = "clickhouse" }, "clickhouse.host"},
		{"backend", func(c *Config) { c.Backend.Type = "s3" }, "backend.type"},
		{"redis watchlist", func(c *Config) { c.Watchlist.Backend = "redis" }, "cache.redis.enabled"},
		{"collector", func(c *Config) { c.Logging.Collector.Enabled = true }, "logging.collector"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Load("")
			require.NoError(t, err)
			tt.mutate(c)
			assert.ErrorContains(t, c.Validate(), tt.want)
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	c.Server.Port = -1
	c.Backend.Type = "s3"

	err = c.Validate()
	assert.ErrorContains(t, err, "server.port")
	assert.ErrorContains(t, err, "backend.type")
}

func TestLoadDotEnv(t *testing.T) {
	p := writeFile(t, ".env", "STOCKPULSE_TEST_DOTENV=from-file\n")
	t.Setenv("STOCKPULSE_TEST_DOTENV", "")
	os.Unsetenv("STOCKPULSE_TEST_DOTENV")

	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"), p))
	assert.Equal(t, "from-file", os.Getenv("STOCKPULSE_TEST_DOTENV"))
}
