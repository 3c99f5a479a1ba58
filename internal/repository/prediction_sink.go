package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	pkgch "StockPulse/pkg/clickhouse"
	pkgkafka "StockPulse/pkg/kafka"
)

// KafkaSink publishes prediction events keyed by symbol, so one symbol's
// events stay ordered within a partition.
type KafkaSink struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaSink(producer *pkgkafka.Producer, topic string) domrepo.PredictionSink {
	return &KafkaSink{producer: producer, topic: topic}
}

func (s *KafkaSink) Publish(ctx context.Context, ev models.PredictionEvent) error {
	if err := s.producer.Publish(ctx, s.topic, []byte(ev.Symbol), ev); err != nil {
		return fmt.Errorf("publish prediction %s: %w", ev.Symbol, err)
	}
	return nil
}

func (s *KafkaSink) Name() string { return "kafka" }

// Close leaves the producer open; it is shared with the log collector.
func (s *KafkaSink) Close() error { return nil }

// PredictionsSchema creates the prediction history table.
func PredictionsSchema(table string) []string {
	return []string{fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
    ts                DateTime64(3, 'UTC'),
    symbol            LowCardinality(String),
    period            LowCardinality(String),
    direction         LowCardinality(String),
    confidence        Float64,
    expected_change   Float64,
    accuracy          Float64,
    held_out          UInt8,
    rows              UInt32,
    n_estimators      UInt32,
    min_samples_split UInt32,
    max_depth         UInt32,
    random_state      Int64,
    features          String
) ENGINE = MergeTree
ORDER BY (symbol, ts)`, table)}
}

// ClickHouseSink appends prediction events to a MergeTree table.
type ClickHouseSink struct {
	db    *sql.DB
	table string
}

func NewClickHouseSink(ch *pkgch.Client, table string) domrepo.PredictionSink {
	return &ClickHouseSink{db: ch.DB(), table: table}
}

func (s *ClickHouseSink) Publish(ctx context.Context, ev models.PredictionEvent) error {
	features, err := json.Marshal(ev.TopFeatures)
	if err != nil {
		return fmt.Errorf("encode features: %w", err)
	}
	var heldOut uint8
	if ev.HeldOut {
		heldOut = 1
	}

	q := fmt.Sprintf(`INSERT INTO %s (ts, symbol, period, direction, confidence, expected_change, accuracy,
held_out, rows, n_estimators, min_samples_split, max_depth, random_state, features)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, s.table)
	_, err = s.db.ExecContext(ctx, q,
		ev.Timestamp,
		ev.Symbol,
		ev.Period,
		string(ev.Direction),
		ev.Confidence,
		ev.Expected,
		ev.Accuracy,
		heldOut,
		uint32(ev.Rows),
		uint32(ev.Params.NEstimators),
		uint32(ev.Params.MinSamplesSplit),
		uint32(ev.Params.MaxDepth),
		ev.Params.RandomState,
		string(features),
	)
	if err != nil {
		return fmt.Errorf("insert prediction %s: %w", ev.Symbol, err)
	}
	return nil
}

func (s *ClickHouseSink) Name() string { return "clickhouse" }

// Close leaves the pool to its owner.
func (s *ClickHouseSink) Close() error { return nil }
