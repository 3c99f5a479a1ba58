package logger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	mu      sync.Mutex
	topics  []string
	batches [][]AggregatedLogEntry
	err     error
}

func (p *capturePublisher) PublishMessage(_ context.Context, topic string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.batches = append(p.batches, payload.([]AggregatedLogEntry))
	return p.err
}

func (p *capturePublisher) all() []AggregatedLogEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []AggregatedLogEntry
	for _, b := range p.batches {
		out = append(out, b...)
	}
	return out
}

func TestCollectorAggregatesDuplicates(t *testing.T) {
	pub := &capturePublisher{}
	c := NewLogCollector(&CollectionConfig{TimeInterval: time.Hour, CountThreshold: 10, Topic: "logs", Publisher: pub})

	fields := map[string]interface{}{"symbol": "AAPL"}
	c.AddLog("error", "fetch failed", fields, "x.go:1")
	c.AddLog("error", "fetch failed", fields, "x.go:1")
	c.AddLog("warn", "slow", nil, "y.go:2")
	c.Close()

	entries := pub.all()
	require.Len(t, entries, 2)
	counts := map[string]int{}
	for _, e := range entries {
		counts[e.Message] = e.Count
	}
	assert.Equal(t, 2, counts["fetch failed"])
	assert.Equal(t, 1, counts["slow"])
	assert.Equal(t, []string{"logs"}, pub.topics)
}

func TestCollectorFlushesAtThreshold(t *testing.T) {
	pub := &capturePublisher{}
	c := NewLogCollector(&CollectionConfig{TimeInterval: time.Hour, CountThreshold: 2, Topic: "logs", Publisher: pub})
	defer c.Close()

	c.AddLog("error", "a", nil, "c:1")
	c.AddLog("error", "b", nil, "c:2")

	assert.Eventually(t, func() bool { return len(pub.all()) == 2 }, time.Second, 10*time.Millisecond)
}

func TestCollectorReportsPublishErrors(t *testing.T) {
	pub := &capturePublisher{err: errors.New("broker down")}
	var mu sync.Mutex
	var got error
	c := NewLogCollector(&CollectionConfig{
		TimeInterval:   time.Hour,
		CountThreshold: 1,
		Publisher:      pub,
		OnPublishError: func(err error) {
			mu.Lock()
			got = err
			mu.Unlock()
		},
	})

	c.AddLog("error", "boom", nil, "c:1")
	c.Close()

	mu.Lock()
	defer mu.Unlock()
	assert.EqualError(t, got, "broker down")
}

func TestLoggerForwardsErrorsToCollector(t *testing.T) {
	pub := &capturePublisher{}
	l := NewNop()
	l.AddCollector(&CollectionConfig{TimeInterval: time.Hour, CountThreshold: 100, Topic: "logs", Publisher: pub})

	child := l.With(String("component", "predict"))
	child.Error("train failed", String("symbol", "MSFT"))
	l.Info("ignored")
	l.RemoveCollector()

	entries := pub.all()
	require.Len(t, entries, 1)
	assert.Equal(t, "error", entries[0].Level)
	assert.Equal(t, "train failed", entries[0].Message)
	assert.Equal(t, "MSFT", entries[0].Fields["symbol"])
}
