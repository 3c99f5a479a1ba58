package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	"StockPulse/internal/services/features"
	"StockPulse/internal/services/prediction"
	"StockPulse/pkg/logger"
)

const sinkTimeout = 5 * time.Second

// PredictionUseCase runs fetch, features, training and scoring for one
// request. Nothing is cached between calls.
type PredictionUseCase struct {
	market   domrepo.MarketData
	builder  *features.Builder
	trainer  *prediction.Trainer
	sink     domrepo.PredictionSink
	metrics  domrepo.Metrics
	log      *logger.Logger
	defaults models.ModelParams
	heldOut  bool
	now      func() time.Time
}

type PredictionOption func(*PredictionUseCase)

// WithDefaultParams sets the hyperparameters used when a request omits them.
func WithDefaultParams(p models.ModelParams) PredictionOption {
	return func(uc *PredictionUseCase) { uc.defaults = p }
}

// WithHeldOutDefault measures accuracy on the held-out slice unless a
// request says otherwise.
func WithHeldOutDefault(v bool) PredictionOption {
	return func(uc *PredictionUseCase) { uc.heldOut = v }
}

// WithSink records every prediction to s.
func WithSink(s domrepo.PredictionSink) PredictionOption {
	return func(uc *PredictionUseCase) { uc.sink = s }
}

func NewPredictionUseCase(market domrepo.MarketData, builder *features.Builder, trainer *prediction.Trainer, metrics domrepo.Metrics, l *logger.Logger, opts ...PredictionOption) *PredictionUseCase {
	uc := &PredictionUseCase{
		market:   market,
		builder:  builder,
		trainer:  trainer,
		metrics:  metrics,
		log:      l,
		defaults: prediction.DefaultParams,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

type PredictParams struct {
	Symbol    string
	Period    string
	Overrides models.ModelParamsRequest
	HeldOut   *bool
}

func (uc *PredictionUseCase) Predict(ctx context.Context, p PredictParams) (*models.PredictionResult, error) {
	res, rows, err := uc.run(ctx, p)
	if err != nil {
		uc.metrics.RecordError(ErrorKind(err))
		uc.log.Warn("prediction failed",
			logger.String("symbol", p.Symbol),
			logger.String("period", p.Period),
			logger.Error(err),
		)
		return nil, err
	}

	uc.metrics.RecordPrediction(p.Symbol, string(res.Direction), res.Confidence)
	uc.publish(ctx, p, res, rows)
	return res, nil
}

func (uc *PredictionUseCase) run(ctx context.Context, p PredictParams) (*models.PredictionResult, int, error) {
	symbol := strings.TrimSpace(p.Symbol)
	if symbol == "" {
		return nil, 0, fmt.Errorf("%w: symbol required", models.ErrDataUnavailable)
	}

	start := time.Now()
	candles, err := uc.market.Fetch(ctx, symbol, p.Period)
	uc.stage("fetch", start)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch %s: %w", symbol, err)
	}

	start = time.Now()
	fs := uc.builder.Build(candles)
	uc.stage("features", start)
	if fs.Len() == 0 {
		return nil, 0, fmt.Errorf("%w: %d daily rows for %s %s, need at least %d",
			models.ErrInsufficientData, len(candles), symbol, p.Period, uc.builder.MaxWindow()+2)
	}

	params := p.Overrides.Apply(uc.defaults)
	start = time.Now()
	model, err := uc.trainer.Train(ctx, fs, params)
	uc.stage("train", start)
	if err != nil {
		return nil, 0, fmt.Errorf("train %s: %w", symbol, err)
	}

	heldOut := uc.heldOut
	if p.HeldOut != nil {
		heldOut = *p.HeldOut
	}

	start = time.Now()
	res, err := prediction.Predict(model, fs, prediction.Options{HeldOut: heldOut})
	uc.stage("predict", start)
	if err != nil {
		return nil, 0, fmt.Errorf("predict %s: %w", symbol, err)
	}

	uc.log.Debug("prediction done",
		logger.String("symbol", symbol),
		logger.Int("rows", fs.Len()),
		logger.Int("train_rows", len(model.Train)),
		logger.String("direction", string(res.Direction)),
		logger.Float64("confidence", res.Confidence),
	)
	return res, fs.Len(), nil
}

func (uc *PredictionUseCase) stage(name string, start time.Time) {
	uc.metrics.RecordStage(name, time.Since(start).Seconds())
}

// publish hands the event to the sink. Sink failures never fail the request.
func (uc *PredictionUseCase) publish(ctx context.Context, p PredictParams, res *models.PredictionResult, rows int) {
	if uc.sink == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sinkTimeout)
	defer cancel()

	ev := models.PredictionEvent{
		Symbol:      p.Symbol,
		Period:      p.Period,
		Timestamp:   uc.now().UTC(),
		Direction:   res.Direction,
		Confidence:  res.Confidence,
		Expected:    res.ExpectedChangePercent,
		Accuracy:    res.AccuracyPercent,
		HeldOut:     res.HeldOut,
		Rows:        rows,
		Params:      p.Overrides.Apply(uc.defaults),
		TopFeatures: res.TopFeatures,
	}
	if err := uc.sink.Publish(ctx, ev); err != nil {
		uc.metrics.RecordError("sink")
		uc.log.Error("prediction sink publish failed",
			logger.String("backend", uc.sink.Name()),
			logger.String("symbol", p.Symbol),
			logger.Error(err),
		)
		return
	}
	uc.metrics.RecordSinkPublished(uc.sink.Name())
}

// ErrorKind is a low-cardinality label for err.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, models.ErrDataUnavailable):
		return "data_unavailable"
	case errors.Is(err, models.ErrInsufficientData):
		return "insufficient_data"
	case errors.Is(err, models.ErrTraining):
		return "training"
	case errors.Is(err, models.ErrUndefinedMetric):
		return "undefined_metric"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}
