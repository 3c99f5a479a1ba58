package features

import (
	"fmt"
	"math"

	"StockPulse/internal/domain/models"

	"github.com/cinar/indicator"
)

// DefaultWindows are the rolling horizons, in trading days.
var DefaultWindows = []int{2, 5, 60, 250, 1000}

// BaseColumns are the raw predictors that precede the rolling ones.
var BaseColumns = []string{"close", "volume", "open", "high", "low"}

type Option func(*Builder)

// WithWindows overrides the rolling horizons. Windows must be positive.
func WithWindows(windows ...int) Option {
	return func(b *Builder) {
		b.windows = append([]int(nil), windows...)
	}
}

// Builder derives feature rows from a daily series.
type Builder struct {
	windows []int
}

func NewBuilder(opts ...Option) *Builder {
	b := &Builder{windows: append([]int(nil), DefaultWindows...)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Windows returns the configured horizons.
func (b *Builder) Windows() []int {
	return append([]int(nil), b.windows...)
}

// MaxWindow returns the largest horizon.
func (b *Builder) MaxWindow() int {
	m := 0
	for _, w := range b.windows {
		if w > m {
			m = w
		}
	}
	return m
}

// Columns returns predictor names in vector order.
func (b *Builder) Columns() []string {
	cols := append([]string(nil), BaseColumns...)
	for _, w := range b.windows {
		cols = append(cols, fmt.Sprintf("close_ratio_%d", w), fmt.Sprintf("trend_%d", w))
	}
	return cols
}

// Build computes returns, close/SMA ratios, return sums and the next-day
// label, then keeps only rows where all of them are defined. Row i survives
// when i >= max window (return is undefined on row 0, so a w-day return sum
// first exists at i = w) and i has a successor.
func (b *Builder) Build(candles []models.Candle) models.FeatureSet {
	fs := models.FeatureSet{Windows: b.Windows(), Columns: b.Columns()}

	n := len(candles)
	maxW := b.MaxWindow()
	if n < maxW+2 {
		return fs
	}

	closes := make([]float64, n)
	for i, c := range candles {
		closes[i] = c.Close
	}

	// returns[0] is undefined; it is held at zero and excluded by the start index.
	returns := make([]float64, n)
	for i := 1; i < n; i++ {
		returns[i] = closes[i]/closes[i-1] - 1
	}

	smas := make([][]float64, len(b.windows))
	for k, w := range b.windows {
		smas[k] = indicator.Sma(w, closes)
	}

	rows := make([]models.FeatureRow, 0, n-maxW-1)
	for i := maxW; i < n-1; i++ {
		row := models.FeatureRow{
			Candle:        candles[i],
			Return:        returns[i],
			CloseRatios:   make([]float64, len(b.windows)),
			Trends:        make([]float64, len(b.windows)),
			TomorrowClose: closes[i+1],
		}
		for k, w := range b.windows {
			row.CloseRatios[k] = closes[i] / smas[k][i]
			row.Trends[k] = windowSum(returns[i-w+1 : i+1])
		}
		if row.TomorrowClose > row.Close {
			row.Target = 1
		}
		if !finiteRow(row) {
			continue
		}
		rows = append(rows, row)
	}

	fs.Rows = rows
	return fs
}

// windowSum adds the window directly rather than keeping a running total,
// so one non-finite return only poisons the windows that contain it.
func windowSum(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum
}

func finiteRow(r models.FeatureRow) bool {
	for _, v := range r.Vector() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return !math.IsNaN(r.Return) && !math.IsInf(r.Return, 0)
}
