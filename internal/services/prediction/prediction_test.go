package prediction

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/domain/service"
	"StockPulse/internal/services/features"
	"StockPulse/internal/services/forest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClassifier struct {
	proba float64
	imp   []float64
}

func (s stubClassifier) PredictProba([]float64) float64 { return s.proba }

func (s stubClassifier) Predict([]float64) int {
	if s.proba > 0.5 {
		return 1
	}
	return 0
}

func (s stubClassifier) FeatureImportances() []float64 { return s.imp }

type stubFactory struct {
	clf stubClassifier
	got service.FitParams
}

func (f *stubFactory) Fit(_ context.Context, _ [][]float64, _ []int, p service.FitParams) (service.Classifier, error) {
	f.got = p
	return f.clf, nil
}

// walk builds a random walk where each day rises with probability pUp.
func walk(n int, pUp float64, seed uint64) []models.Candle {
	rng := rand.New(rand.NewPCG(seed, 11))
	start := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.Candle, n)
	price := 100.0
	for i := range out {
		if rng.Float64() < pUp {
			price *= 1 + 0.01*rng.Float64()
		} else {
			price *= 1 - 0.01*rng.Float64()
		}
		out[i] = models.Candle{
			Date:   start.AddDate(0, 0, i),
			Open:   price * 0.998,
			High:   price * 1.005,
			Low:    price * 0.995,
			Close:  price,
			Volume: 1e6 + float64(rng.IntN(1000)),
		}
	}
	return out
}

func smallSet(t *testing.T) models.FeatureSet {
	t.Helper()
	fs := features.NewBuilder(features.WithWindows(2, 5, 20)).Build(walk(400, 0.5, 1))
	require.NotEmpty(t, fs.Rows)
	return fs
}

func forestTrainer() *Trainer {
	return NewTrainer(forest.Factory{})
}

func TestSplit(t *testing.T) {
	rows := make([]models.FeatureRow, 11)
	train, held := Split(rows)
	assert.Len(t, train, 8)
	assert.Len(t, held, 3)
}

func TestTrainPassesParams(t *testing.T) {
	f := &stubFactory{clf: stubClassifier{proba: 0.7}}
	m, err := NewTrainer(f).Train(context.Background(), smallSet(t), models.ModelParams{
		NEstimators: 12, MinSamplesSplit: 7, RandomState: 99, MaxDepth: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, service.FitParams{NEstimators: 12, MinSamplesSplit: 7, MaxDepth: 4, Seed: 99}, f.got)
	assert.Equal(t, len(m.Train)+len(m.HeldOut), smallSet(t).Len())
	assert.Equal(t, smallSet(t).Columns, m.Columns)
}

func TestTrainFailures(t *testing.T) {
	tr := NewTrainer(&stubFactory{})
	ctx := context.Background()

	_, err := tr.Train(ctx, models.FeatureSet{}, DefaultParams)
	assert.ErrorIs(t, err, models.ErrTraining)

	rows := make([]models.FeatureRow, 10)
	for i := range rows {
		rows[i].Target = 1
	}
	_, err = tr.Train(ctx, models.FeatureSet{Rows: rows}, DefaultParams)
	assert.ErrorIs(t, err, models.ErrTraining)

	_, err = tr.Train(ctx, smallSet(t), models.ModelParams{NEstimators: 0, MinSamplesSplit: 2})
	assert.ErrorIs(t, err, models.ErrTraining)
}

func TestPredictDeterministic(t *testing.T) {
	fs := smallSet(t)
	p := models.ModelParams{NEstimators: 40, MinSamplesSplit: 20, RandomState: 1}

	run := func() *models.PredictionResult {
		m, err := forestTrainer().Train(context.Background(), fs, p)
		require.NoError(t, err)
		res, err := Predict(m, fs, Options{})
		require.NoError(t, err)
		return res
	}

	a, b := run(), run()
	assert.Equal(t, a, b)
}

func TestPredictBounds(t *testing.T) {
	fs := smallSet(t)
	m, err := forestTrainer().Train(context.Background(), fs, models.ModelParams{NEstimators: 30, MinSamplesSplit: 20, RandomState: 3})
	require.NoError(t, err)

	for _, heldOut := range []bool{false, true} {
		res, err := Predict(m, fs, Options{HeldOut: heldOut})
		require.NoError(t, err)

		assert.GreaterOrEqual(t, res.Confidence, 0.0)
		assert.LessOrEqual(t, res.Confidence, 100.0)
		assert.GreaterOrEqual(t, res.AccuracyPercent, 0.0)
		assert.LessOrEqual(t, res.AccuracyPercent, 100.0)
		assert.Equal(t, heldOut, res.HeldOut)

		require.Len(t, res.TopFeatures, 6)
		for i := 1; i < len(res.TopFeatures); i++ {
			assert.GreaterOrEqual(t, res.TopFeatures[i-1].Importance, res.TopFeatures[i].Importance)
		}

		if res.Direction == models.DirectionUp {
			assert.Greater(t, res.Confidence, 50.0)
		} else {
			assert.LessOrEqual(t, res.Confidence, 50.0)
		}
	}
}

func TestTrainingPrecisionRepeatable(t *testing.T) {
	fs := smallSet(t)
	p := models.ModelParams{NEstimators: 25, MinSamplesSplit: 10, RandomState: 8}

	precision := func() float64 {
		m, err := forestTrainer().Train(context.Background(), fs, p)
		require.NoError(t, err)
		X, y := Matrix(m.Train)
		pred := make([]int, len(X))
		for i, x := range X {
			pred[i] = m.Classifier.Predict(x)
		}
		return Precision(y, pred)
	}

	assert.Equal(t, precision(), precision())
}

func TestMonotonicSeries(t *testing.T) {
	candles := walk(1200, 1, 4)
	fs := features.NewBuilder().Build(candles)
	require.NotEmpty(t, fs.Rows)
	for _, r := range fs.Rows {
		assert.Equal(t, 1, r.Target)
	}

	// every label is up, so there is nothing to discriminate
	_, err := forestTrainer().Train(context.Background(), fs, DefaultParams)
	assert.ErrorIs(t, err, models.ErrTraining)
}

func TestMostlyRisingSeriesPredictsUp(t *testing.T) {
	fs := features.NewBuilder().Build(walk(1400, 0.9, 5))
	require.NotEmpty(t, fs.Rows)

	m, err := forestTrainer().Train(context.Background(), fs, models.ModelParams{NEstimators: 50, MinSamplesSplit: 50, RandomState: 1})
	require.NoError(t, err)
	res, err := Predict(m, fs, Options{})
	require.NoError(t, err)

	assert.Equal(t, models.DirectionUp, res.Direction)
	assert.GreaterOrEqual(t, res.Confidence, 50.0)
	assert.Greater(t, res.ExpectedChangePercent, 0.0)
}

func TestExpectedChange(t *testing.T) {
	rows := []models.FeatureRow{
		{Return: 0.02, Target: 1},
		{Return: -0.01, Target: 0},
		{Return: 0.04, Target: 1},
	}

	up, err := ExpectedChange(rows, 1)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, up, 1e-9)

	down, err := ExpectedChange(rows, 0)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, down, 1e-9)

	_, err = ExpectedChange(rows[1:2], 1)
	assert.ErrorIs(t, err, models.ErrUndefinedMetric)
}

func TestPredictUndefinedExpectedChange(t *testing.T) {
	rows := make([]models.FeatureRow, 10)
	for i := range rows {
		rows[i] = models.FeatureRow{Return: -0.01, Target: 0}
	}
	m := &TrainedModel{Classifier: stubClassifier{proba: 0.9, imp: []float64{1, 0, 0, 0, 0}}, Columns: features.BaseColumns}

	_, err := Predict(m, models.FeatureSet{Columns: features.BaseColumns, Rows: rows}, Options{})
	assert.ErrorIs(t, err, models.ErrUndefinedMetric)
}

func TestPredictHeldOutAccuracy(t *testing.T) {
	rows := make([]models.FeatureRow, 10)
	for i := range rows {
		rows[i] = models.FeatureRow{Return: 0.01}
		if i < 8 {
			rows[i].Target = 1
		}
	}
	fs := models.FeatureSet{Columns: features.BaseColumns, Rows: rows}
	train, held := Split(rows)
	m := &TrainedModel{
		Classifier: stubClassifier{proba: 0.8, imp: make([]float64, 5)},
		Columns:    features.BaseColumns,
		Train:      train,
		HeldOut:    held,
	}

	all, err := Predict(m, fs, Options{})
	require.NoError(t, err)
	assert.InDelta(t, 80.0, all.AccuracyPercent, 1e-9)
	assert.InDelta(t, 80.0, all.Confidence, 1e-9)
	assert.Equal(t, models.DirectionUp, all.Direction)

	ho, err := Predict(m, fs, Options{HeldOut: true})
	require.NoError(t, err)
	assert.Equal(t, 0.0, ho.AccuracyPercent)
}

func TestPredictEmpty(t *testing.T) {
	_, err := Predict(&TrainedModel{}, models.FeatureSet{}, Options{})
	assert.ErrorIs(t, err, models.ErrInsufficientData)
}

func TestPrecision(t *testing.T) {
	assert.Equal(t, 0.0, Precision([]int{1, 1}, []int{0, 0}))
	assert.Equal(t, 0.5, Precision([]int{1, 0, 1}, []int{1, 1, 0}))
	assert.Equal(t, 1.0, Precision([]int{1, 0}, []int{1, 0}))
}

func TestRankFeatures(t *testing.T) {
	cols := []string{"a", "b", "c"}
	got := RankFeatures(cols, []float64{0.2, 0.5, 0.3}, 6)
	assert.Equal(t, []models.FeatureImportance{
		{Name: "b", Importance: 0.5},
		{Name: "c", Importance: 0.3},
		{Name: "a", Importance: 0.2},
	}, got)

	ties := RankFeatures(cols, []float64{0, 0, 0}, 2)
	assert.Equal(t, []string{"a", "b"}, []string{ties[0].Name, ties[1].Name})
}
