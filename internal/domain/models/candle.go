package models

import "time"

// Candle is one daily OHLCV row. Series are chronological with one row per date.
type Candle struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// FeatureRow is a Candle enriched with rolling indicators and the next-day label.
// CloseRatios and Trends are aligned with FeatureSet.Windows.
type FeatureRow struct {
	Candle
	Return        float64
	CloseRatios   []float64
	Trends        []float64
	TomorrowClose float64
	Target        int // 1 when TomorrowClose > Close
}

// Vector returns the predictor values in column order:
// close, volume, open, high, low, then close_ratio_w, trend_w per window.
func (r FeatureRow) Vector() []float64 {
	v := make([]float64, 0, 5+2*len(r.CloseRatios))
	v = append(v, r.Close, r.Volume, r.Open, r.High, r.Low)
	for i := range r.CloseRatios {
		v = append(v, r.CloseRatios[i], r.Trends[i])
	}
	return v
}

// FeatureSet is the output of the feature builder.
type FeatureSet struct {
	Windows []int
	Columns []string
	Rows    []FeatureRow
}

// Len returns the number of usable rows.
func (fs FeatureSet) Len() int {
	return len(fs.Rows)
}
