package service

import "context"

// Classifier is a trained binary classifier over fixed-width feature vectors.
type Classifier interface {
	// PredictProba returns P(class == 1).
	PredictProba(x []float64) float64
	Predict(x []float64) int
	// FeatureImportances returns one non-negative weight per column summing to 1,
	// or all zeros when no split was made.
	FeatureImportances() []float64
}

// ClassifierFactory fits a classifier on X, y.
type ClassifierFactory interface {
	Fit(ctx context.Context, X [][]float64, y []int, p FitParams) (Classifier, error)
}

type FitParams struct {
	NEstimators     int
	MinSamplesSplit int
	MaxDepth        int
	Seed            int64
}
