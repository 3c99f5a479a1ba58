package middleware

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
)

// ErrBufferFull is returned when an event could neither be delivered nor
// queued for a later attempt.
var ErrBufferFull = errors.New("sink buffer full")

const (
	minBackoff = 50 * time.Millisecond
	maxBackoff = 2 * time.Second
)

// BufferedSink sits between the prediction use case and a sink. Events the
// sink rejects are queued and redelivered in the background, so a broker
// or database outage does not lose recent predictions.
type BufferedSink struct {
	next    domrepo.PredictionSink
	metrics domrepo.Metrics
	bufSize int
	bufCh   chan models.PredictionEvent
	stopCh  chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
	sleep   func(context.Context, time.Duration) bool
}

type BufferOption func(*BufferedSink)

// WithBufferSize sets how many failed events are kept for redelivery.
func WithBufferSize(n int) BufferOption {
	return func(b *BufferedSink) {
		if n > 0 {
			b.bufSize = n
		}
	}
}

func NewBufferedSink(next domrepo.PredictionSink, metrics domrepo.Metrics, opts ...BufferOption) *BufferedSink {
	b := &BufferedSink{
		next:    next,
		metrics: metrics,
		bufSize: 256,
		stopCh:  make(chan struct{}),
		sleep:   sleepCtx,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.bufCh = make(chan models.PredictionEvent, b.bufSize)
	return b
}

// Start launches redelivery of buffered events. It returns immediately.
func (b *BufferedSink) Start(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started {
		return
	}
	b.started = true

	b.wg.Add(1)
	go b.redeliver(ctx)
}

func (b *BufferedSink) redeliver(ctx context.Context) {
	defer b.wg.Done()

	backoff := minBackoff
	for {
		select {
		case <-b.stopCh:
			return
		case <-ctx.Done():
			return
		case ev := <-b.bufCh:
			if err := b.next.Publish(ctx, ev); err != nil {
				b.metrics.RecordError("sink_redeliver")
				backoff = min(backoff*2, maxBackoff)
				if !b.sleep(ctx, backoff) {
					return
				}
				select {
				case b.bufCh <- ev:
				default:
					b.metrics.RecordError("sink_buffer_drop")
				}
				continue
			}
			backoff = minBackoff
			b.metrics.RecordSinkPublished(b.next.Name())
		}
	}
}

// Publish validates ev and forwards it. A rejected event is queued and nil
// is returned unless the queue is full.
func (b *BufferedSink) Publish(ctx context.Context, ev models.PredictionEvent) error {
	if err := validateEvent(ev); err != nil {
		return err
	}

	err := b.next.Publish(ctx, ev)
	if err == nil {
		return nil
	}

	select {
	case b.bufCh <- ev:
		b.metrics.RecordError("sink_buffered")
		return nil
	default:
		return fmt.Errorf("%w: %w", ErrBufferFull, err)
	}
}

func (b *BufferedSink) Name() string { return b.next.Name() }

// Pending reports how many events wait for redelivery.
func (b *BufferedSink) Pending() int { return len(b.bufCh) }

// Close stops redelivery and closes the wrapped sink. Events still queued
// are dropped.
func (b *BufferedSink) Close() error {
	b.mu.Lock()
	if b.started {
		b.started = false
		close(b.stopCh)
	}
	b.mu.Unlock()
	b.wg.Wait()
	return b.next.Close()
}

func validateEvent(ev models.PredictionEvent) error {
	if ev.Symbol == "" {
		return fmt.Errorf("prediction event: symbol empty")
	}
	if ev.Direction != models.DirectionUp && ev.Direction != models.DirectionDown {
		return fmt.Errorf("prediction event: direction %q", ev.Direction)
	}
	if math.IsNaN(ev.Confidence) || ev.Confidence < 0 || ev.Confidence > 100 {
		return fmt.Errorf("prediction event: confidence %v out of range", ev.Confidence)
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
