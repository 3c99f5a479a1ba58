package prediction

import (
	"context"
	"fmt"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/domain/service"
)

// TrainFraction is the chronological share of rows used for fitting.
const TrainFraction = 0.8

// DefaultParams mirrors the service defaults.
var DefaultParams = models.ModelParams{
	NEstimators:     200,
	MinSamplesSplit: 50,
	RandomState:     1,
}

// TrainedModel is a request-scoped fitted classifier.
type TrainedModel struct {
	Classifier service.Classifier
	Columns    []string
	Params     models.ModelParams
	// Train and HeldOut partition the input rows chronologically.
	Train   []models.FeatureRow
	HeldOut []models.FeatureRow
}

type Trainer struct {
	factory service.ClassifierFactory
}

func NewTrainer(factory service.ClassifierFactory) *Trainer {
	return &Trainer{factory: factory}
}

// Split returns the first int(0.8*n) rows and the rest.
func Split(rows []models.FeatureRow) (train, heldOut []models.FeatureRow) {
	cut := int(TrainFraction * float64(len(rows)))
	return rows[:cut], rows[cut:]
}

// Train fits the classifier on the training slice. Errors wrap
// models.ErrTraining.
func (t *Trainer) Train(ctx context.Context, fs models.FeatureSet, p models.ModelParams) (*TrainedModel, error) {
	if p.NEstimators < 1 {
		return nil, fmt.Errorf("%w: n_estimators must be positive", models.ErrTraining)
	}
	if p.MinSamplesSplit < 2 {
		return nil, fmt.Errorf("%w: min_samples_split must be at least 2", models.ErrTraining)
	}

	train, heldOut := Split(fs.Rows)
	if len(train) == 0 {
		return nil, fmt.Errorf("%w: empty training slice from %d rows", models.ErrTraining, len(fs.Rows))
	}

	X, y := Matrix(train)
	if single(y) {
		return nil, fmt.Errorf("%w: training labels contain a single class", models.ErrTraining)
	}

	clf, err := t.factory.Fit(ctx, X, y, service.FitParams{
		NEstimators:     p.NEstimators,
		MinSamplesSplit: p.MinSamplesSplit,
		MaxDepth:        p.MaxDepth,
		Seed:            p.RandomState,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrTraining, err)
	}

	return &TrainedModel{
		Classifier: clf,
		Columns:    fs.Columns,
		Params:     p,
		Train:      train,
		HeldOut:    heldOut,
	}, nil
}

// Matrix extracts predictor vectors and labels.
func Matrix(rows []models.FeatureRow) ([][]float64, []int) {
	X := make([][]float64, len(rows))
	y := make([]int, len(rows))
	for i, r := range rows {
		X[i] = r.Vector()
		y[i] = r.Target
	}
	return X, y
}

func single(y []int) bool {
	for _, v := range y[1:] {
		if v != y[0] {
			return false
		}
	}
	return true
}
