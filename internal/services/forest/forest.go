// Package forest implements a seeded random forest of CART classifiers for
// binary labels.
package forest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"

	"StockPulse/internal/domain/service"

	"golang.org/x/sync/errgroup"
)

// Params configures Fit.
type Params struct {
	NEstimators     int
	MinSamplesSplit int
	MaxDepth        int // 0 grows until leaves are pure or too small to split
	Seed            int64
}

// Forest is a fitted ensemble. It is immutable and safe for concurrent use.
type Forest struct {
	trees       []*tree
	nFeatures   int
	importances []float64
}

// Fit grows p.NEstimators trees, each on its own bootstrap sample with its
// own PRNG stream derived from p.Seed, so the result does not depend on
// scheduling.
func Fit(ctx context.Context, X [][]float64, y []int, p Params) (*Forest, error) {
	if len(X) == 0 {
		return nil, errors.New("no samples")
	}
	if len(X) != len(y) {
		return nil, fmt.Errorf("%d samples but %d labels", len(X), len(y))
	}
	if p.NEstimators < 1 {
		return nil, fmt.Errorf("n_estimators must be positive, got %d", p.NEstimators)
	}
	if p.MinSamplesSplit < 2 {
		p.MinSamplesSplit = 2
	}

	nFeatures := len(X[0])
	if nFeatures == 0 {
		return nil, errors.New("no features")
	}
	for i, row := range X {
		if len(row) != nFeatures {
			return nil, fmt.Errorf("sample %d has %d features, want %d", i, len(row), nFeatures)
		}
	}
	for i, label := range y {
		if label != 0 && label != 1 {
			return nil, fmt.Errorf("label %d at sample %d is not binary", label, i)
		}
	}

	maxFeatures := int(math.Floor(math.Sqrt(float64(nFeatures))))
	if maxFeatures < 1 {
		maxFeatures = 1
	}

	master := rand.New(rand.NewPCG(uint64(p.Seed), 0x9e3779b97f4a7c15))
	seeds := make([]uint64, p.NEstimators)
	for i := range seeds {
		seeds[i] = master.Uint64()
	}

	trees := make([]*tree, p.NEstimators)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range trees {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewPCG(seeds[i], uint64(i)))
			trees[i] = growTree(X, y, p, maxFeatures, rng)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Forest{
		trees:       trees,
		nFeatures:   nFeatures,
		importances: meanImportances(trees, nFeatures),
	}, nil
}

// PredictProba returns the mean over trees of the class-1 share at the leaf x reaches.
func (f *Forest) PredictProba(x []float64) float64 {
	sum := 0.0
	for _, t := range f.trees {
		sum += t.proba(x)
	}
	return sum / float64(len(f.trees))
}

// Predict returns 1 when PredictProba(x) > 0.5. Ties go to class 0.
func (f *Forest) Predict(x []float64) int {
	if f.PredictProba(x) > 0.5 {
		return 1
	}
	return 0
}

// FeatureImportances returns mean impurity decrease per feature, normalized
// per tree and then across the forest. Trees without splits are skipped.
func (f *Forest) FeatureImportances() []float64 {
	return append([]float64(nil), f.importances...)
}

// NumTrees returns the ensemble size.
func (f *Forest) NumTrees() int {
	return len(f.trees)
}

func meanImportances(trees []*tree, nFeatures int) []float64 {
	out := make([]float64, nFeatures)
	counted := 0
	for _, t := range trees {
		if len(t.nodes) <= 1 {
			continue
		}
		sum := 0.0
		for _, v := range t.importances {
			sum += v
		}
		if sum <= 0 {
			continue
		}
		for i, v := range t.importances {
			out[i] += v / sum
		}
		counted++
	}
	if counted == 0 {
		return out
	}

	total := 0.0
	for i := range out {
		out[i] /= float64(counted)
		total += out[i]
	}
	if total > 0 {
		for i := range out {
			out[i] /= total
		}
	}
	return out
}

// Factory adapts Fit to service.ClassifierFactory.
type Factory struct{}

func (Factory) Fit(ctx context.Context, X [][]float64, y []int, p service.FitParams) (service.Classifier, error) {
	f, err := Fit(ctx, X, y, Params{
		NEstimators:     p.NEstimators,
		MinSamplesSplit: p.MinSamplesSplit,
		MaxDepth:        p.MaxDepth,
		Seed:            p.Seed,
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}
