package models

import "errors"

// Pipeline failures. Every layer wraps these with context; match with errors.Is.
var (
	ErrDataUnavailable  = errors.New("market data unavailable")
	ErrInsufficientData = errors.New("insufficient data")
	ErrTraining         = errors.New("training failed")
	ErrUndefinedMetric  = errors.New("metric undefined")
)

// Collaborator failures.
var (
	ErrNewsUnavailable    = errors.New("news unavailable")
	ErrWatchlistEmpty     = errors.New("watchlist is empty")
	ErrWatchlistDuplicate = errors.New("symbol already in watchlist")
	ErrWatchlistInvalid   = errors.New("symbol and name are required")
	ErrWatchlistBusy      = errors.New("watchlist is being updated, retry")
)
