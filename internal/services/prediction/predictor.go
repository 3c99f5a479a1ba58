package prediction

import (
	"fmt"
	"sort"

	"StockPulse/internal/domain/models"
)

// TopFeatures is how many ranked importances a result carries.
const TopFeatures = 6

type Options struct {
	// HeldOut measures accuracy on the held-out slice instead of every row.
	HeldOut bool
}

// Predict scores the most recent row of fs with m.
func Predict(m *TrainedModel, fs models.FeatureSet, opts Options) (*models.PredictionResult, error) {
	if len(fs.Rows) == 0 {
		return nil, fmt.Errorf("%w: no feature rows", models.ErrInsufficientData)
	}

	last := fs.Rows[len(fs.Rows)-1]
	x := last.Vector()
	proba := m.Classifier.PredictProba(x)
	class := m.Classifier.Predict(x)

	direction := models.DirectionDown
	if class == 1 {
		direction = models.DirectionUp
	}

	expected, err := ExpectedChange(fs.Rows, class)
	if err != nil {
		return nil, err
	}

	evalRows := fs.Rows
	if opts.HeldOut {
		evalRows = m.HeldOut
	}
	if len(evalRows) == 0 {
		return nil, fmt.Errorf("%w: no rows to measure accuracy on", models.ErrInsufficientData)
	}
	X, y := Matrix(evalRows)
	pred := make([]int, len(X))
	for i, v := range X {
		pred[i] = m.Classifier.Predict(v)
	}

	return &models.PredictionResult{
		Direction:             direction,
		Confidence:            proba * 100,
		ExpectedChangePercent: expected,
		AccuracyPercent:       Precision(y, pred) * 100,
		HeldOut:               opts.HeldOut,
		TopFeatures:           RankFeatures(m.Columns, m.Classifier.FeatureImportances(), TopFeatures),
	}, nil
}

// ExpectedChange is 100 * mean(return) over rows whose target equals class.
func ExpectedChange(rows []models.FeatureRow, class int) (float64, error) {
	sum, n := 0.0, 0
	for _, r := range rows {
		if r.Target == class {
			sum += r.Return
			n++
		}
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: no rows with target %d for expected change", models.ErrUndefinedMetric, class)
	}
	return sum / float64(n) * 100, nil
}

// Precision is TP / (TP + FP) for class 1, and 0 when nothing was predicted positive.
func Precision(yTrue, yPred []int) float64 {
	tp, fp := 0, 0
	for i, p := range yPred {
		if p != 1 {
			continue
		}
		if yTrue[i] == 1 {
			tp++
		} else {
			fp++
		}
	}
	if tp+fp == 0 {
		return 0
	}
	return float64(tp) / float64(tp+fp)
}

// RankFeatures pairs names with importances, sorts descending and keeps k.
// Equal importances keep column order.
func RankFeatures(columns []string, importances []float64, k int) []models.FeatureImportance {
	out := make([]models.FeatureImportance, 0, len(columns))
	for i, name := range columns {
		if i >= len(importances) {
			break
		}
		out = append(out, models.FeatureImportance{Name: name, Importance: importances[i]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Importance > out[j].Importance
	})
	if len(out) > k {
		out = out[:k]
	}
	return out
}
