package models

// Requests and responses for the HTTP API. Kept next to the domain types
// they translate.

type ModelParamsRequest struct {
	NEstimators     *int   `json:"n_estimators" validate:"omitempty,gte=1,lte=1000"`
	MinSamplesSplit *int   `json:"min_samples_split" validate:"omitempty,gte=2"`
	RandomState     *int64 `json:"random_state"`
	MaxDepth        *int   `json:"max_depth" validate:"omitempty,gte=1,lte=64"`
}

type PredictRequest struct {
	Symbol      string             `json:"symbol" default:"^GSPC" validate:"required,max=20"`
	Period      string             `json:"period" default:"1y" validate:"oneof=1d 5d 1mo 3mo 6mo 1y 2y 5y 10y ytd max"`
	ModelParams ModelParamsRequest `json:"modelParams"`
	HeldOut     *bool              `json:"heldOut"`
}

// Apply returns base with every provided override set.
func (r ModelParamsRequest) Apply(base ModelParams) ModelParams {
	if r.NEstimators != nil {
		base.NEstimators = *r.NEstimators
	}
	if r.MinSamplesSplit != nil {
		base.MinSamplesSplit = *r.MinSamplesSplit
	}
	if r.RandomState != nil {
		base.RandomState = *r.RandomState
	}
	if r.MaxDepth != nil {
		base.MaxDepth = *r.MaxDepth
	}
	return base
}

type PredictResponse struct {
	Prediction     Direction           `json:"prediction"`
	Confidence     float64             `json:"confidence"`
	ExpectedChange float64             `json:"expectedChange"`
	Accuracy       float64             `json:"accuracy"`
	HeldOut        bool                `json:"heldOut"`
	Features       []FeatureImportance `json:"features"`
}

// NewPredictResponse maps a result to its wire form.
func NewPredictResponse(r *PredictionResult) PredictResponse {
	features := r.TopFeatures
	if features == nil {
		features = []FeatureImportance{}
	}
	return PredictResponse{
		Prediction:     r.Direction,
		Confidence:     r.Confidence,
		ExpectedChange: r.ExpectedChangePercent,
		Accuracy:       r.AccuracyPercent,
		HeldOut:        r.HeldOut,
		Features:       features,
	}
}

type HistoricalRequest struct {
	Symbol string `query:"symbol" default:"^GSPC" validate:"required,max=20"`
	Period string `query:"period" default:"1y" validate:"oneof=1d 5d 1mo 3mo 6mo 1y 2y 5y 10y ytd max"`
}

type HistoricalRow struct {
	Date   string  `json:"Date"`
	Open   float64 `json:"Open"`
	High   float64 `json:"High"`
	Low    float64 `json:"Low"`
	Close  float64 `json:"Close"`
	Volume float64 `json:"Volume"`
}

type SymbolSearchRequest struct {
	Query string `query:"query" validate:"max=100"`
}

type SentimentRequest struct {
	Symbol string `query:"symbol" default:"AAPL" validate:"required,max=20"`
	Days   int    `query:"days" default:"7" validate:"gte=1,lte=30"`
}

type WatchlistAddRequest struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}
