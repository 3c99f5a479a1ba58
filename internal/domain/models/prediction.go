package models

import "time"

type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// ModelParams are the classifier hyperparameters. MaxDepth 0 means unlimited.
type ModelParams struct {
	NEstimators     int   `json:"n_estimators" yaml:"n_estimators"`
	MinSamplesSplit int   `json:"min_samples_split" yaml:"min_samples_split"`
	RandomState     int64 `json:"random_state" yaml:"random_state"`
	MaxDepth        int   `json:"max_depth" yaml:"max_depth"`
}

// FeatureImportance is a predictor column and its normalized importance.
type FeatureImportance struct {
	Name       string  `json:"name"`
	Importance float64 `json:"importance"`
}

// PredictionResult is the outcome of one prediction run.
type PredictionResult struct {
	Direction             Direction
	Confidence            float64 // P(up) in percent
	ExpectedChangePercent float64
	AccuracyPercent       float64
	HeldOut               bool // accuracy measured on the held-out slice
	TopFeatures           []FeatureImportance
}

// PredictionEvent is what analytics sinks receive after a prediction.
type PredictionEvent struct {
	Symbol      string              `json:"symbol"`
	Period      string              `json:"period"`
	Timestamp   time.Time           `json:"ts"`
	Direction   Direction           `json:"direction"`
	Confidence  float64             `json:"confidence"`
	Expected    float64             `json:"expected_change"`
	Accuracy    float64             `json:"accuracy"`
	HeldOut     bool                `json:"held_out"`
	Rows        int                 `json:"rows"`
	Params      ModelParams         `json:"params"`
	TopFeatures []FeatureImportance `json:"features"`
}
