package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/service/ratelimit"
	"StockPulse/internal/usecase"
	xlogger "StockPulse/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

func serve(t *testing.T, h interface{ RegisterRoutes(*echo.Echo) }, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	e := echo.New()
	h.RegisterRoutes(e)

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

type fakePredictor struct {
	got usecase.PredictParams
	res *models.PredictionResult
	err error
}

func (f *fakePredictor) Predict(_ context.Context, p usecase.PredictParams) (*models.PredictionResult, error) {
	f.got = p
	return f.res, f.err
}

func TestPredictDefaults(t *testing.T) {
	f := &fakePredictor{res: &models.PredictionResult{
		Direction:             models.DirectionUp,
		Confidence:            64.5,
		ExpectedChangePercent: 0.42,
		AccuracyPercent:       55,
		TopFeatures:           []models.FeatureImportance{{Name: "trend_5", Importance: 0.3}},
	}}
	rec, env := serve(t, NewPredictHandler(f, nil, xlogger.NewNop()), http.MethodPost, "/api/predict", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "^GSPC", f.got.Symbol)
	assert.Equal(t, "1y", f.got.Period)
	assert.Nil(t, f.got.HeldOut)
	assert.Nil(t, f.got.Overrides.NEstimators)

	var data map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "up", data["prediction"])
	assert.Equal(t, 64.5, data["confidence"])
	assert.Equal(t, 0.42, data["expectedChange"])
	assert.Equal(t, 55.0, data["accuracy"])
	assert.Len(t, data["features"], 1)
}

func TestPredictBody(t *testing.T) {
	f := &fakePredictor{res: &models.PredictionResult{Direction: models.DirectionDown}}
	body := `{"symbol":"AAPL","period":"5y","modelParams":{"n_estimators":50,"random_state":7},"heldOut":true}`
	rec, _ := serve(t, NewPredictHandler(f, nil, xlogger.NewNop()), http.MethodPost, "/api/predict", body)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "AAPL", f.got.Symbol)
	assert.Equal(t, "5y", f.got.Period)
	require.NotNil(t, f.got.Overrides.NEstimators)
	assert.Equal(t, 50, *f.got.Overrides.NEstimators)
	assert.Equal(t, int64(7), *f.got.Overrides.RandomState)
	assert.Nil(t, f.got.Overrides.MinSamplesSplit)
	require.NotNil(t, f.got.HeldOut)
	assert.True(t, *f.got.HeldOut)
}

func TestPredictValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad period", `{"period":"3y"}`},
		{"too few trees", `{"modelParams":{"n_estimators":0}}`},
		{"min split", `{"modelParams":{"min_samples_split":1}}`},
		{"malformed", `{"symbol":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakePredictor{}
			rec, env := serve(t, NewPredictHandler(f, nil, xlogger.NewNop()), http.MethodPost, "/api/predict", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Error)
		})
	}
}

func TestPredictErrorStatuses(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("fetch X: %w", models.ErrDataUnavailable), http.StatusBadGateway},
		{fmt.Errorf("wrap: %w", models.ErrInsufficientData), http.StatusUnprocessableEntity},
		{models.ErrTraining, http.StatusUnprocessableEntity},
		{models.ErrUndefinedMetric, http.StatusUnprocessableEntity},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			f := &fakePredictor{err: tt.err}
			rec, env := serve(t, NewPredictHandler(f, nil, xlogger.NewNop()), http.MethodPost, "/api/predict", "")
			assert.Equal(t, tt.status, rec.Code)
			assert.False(t, env.Success)
			assert.Equal(t, tt.err.Error(), env.Error)
		})
	}
}

func TestPredictRateLimited(t *testing.T) {
	f := &fakePredictor{res: &models.PredictionResult{Direction: models.DirectionUp}}
	h := NewPredictHandler(f, ratelimit.New(0.001, 1), xlogger.NewNop())

	rec, _ := serve(t, h, http.MethodPost, "/api/predict", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env := serve(t, h, http.MethodPost, "/api/predict", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.False(t, env.Success)
}

type fakeHistorical struct {
	got     usecase.GetHistoricalParams
	candles []models.Candle
	err     error
}

func (f *fakeHistorical) GetHistorical(_ context.Context, p usecase.GetHistoricalParams) ([]models.Candle, error) {
	f.got = p
	return f.candles, f.err
}

type fakeSymbols struct{ got string }

func (f *fakeSymbols) Search(q string) []models.SymbolInfo {
	f.got = q
	if q == "" {
		return []models.SymbolInfo{}
	}
	return []models.SymbolInfo{{Symbol: "AAPL", Name: "Apple Inc.", Type: "stock"}}
}

func TestHistorical(t *testing.T) {
	f := &fakeHistorical{candles: []models.Candle{
		{Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 100},
	}}
	rec, env := serve(t, NewMarketHandler(f, &fakeSymbols{}, xlogger.NewNop()), http.MethodGet, "/api/historical?symbol=AAPL&period=1mo", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, usecase.GetHistoricalParams{Symbol: "AAPL", Period: "1mo"}, f.got)
	assert.JSONEq(t, `[{"Date":"2024-03-01","Open":1,"High":2,"Low":0.5,"Close":1.5,"Volume":100}]`, string(env.Data))
}

func TestHistoricalDefaultsAndErrors(t *testing.T) {
	f := &fakeHistorical{err: models.ErrDataUnavailable}
	h := NewMarketHandler(f, &fakeSymbols{}, xlogger.NewNop())

	rec, env := serve(t, h, http.MethodGet, "/api/historical", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, usecase.GetHistoricalParams{Symbol: "^GSPC", Period: "1y"}, f.got)

	rec, _ = serve(t, h, http.MethodGet, "/api/historical?period=week", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSymbols(t *testing.T) {
	s := &fakeSymbols{}
	h := NewMarketHandler(&fakeHistorical{}, s, xlogger.NewNop())

	rec, env := serve(t, h, http.MethodGet, "/api/symbols?query=apple", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "apple", s.got)
	assert.JSONEq(t, `[{"symbol":"AAPL","name":"Apple Inc.","type":"stock"}]`, string(env.Data))

	_, env = serve(t, h, http.MethodGet, "/api/symbols", "")
	assert.JSONEq(t, `[]`, string(env.Data))
}

type fakeSentiment struct {
	symbol string
	days   int
	err    error
}

func (f *fakeSentiment) GetSentiment(_ context.Context, symbol string, days int) (*models.SentimentReport, error) {
	f.symbol, f.days = symbol, days
	if f.err != nil {
		return nil, f.err
	}
	return &models.SentimentReport{OverallSentiment: 0.2, Articles: []models.ScoredArticle{}}, nil
}

func TestSentiment(t *testing.T) {
	f := &fakeSentiment{}
	h := NewSentimentHandler(f, xlogger.NewNop())

	rec, env := serve(t, h, http.MethodGet, "/api/sentiment", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "AAPL", f.symbol)
	assert.Equal(t, 7, f.days)
	assert.JSONEq(t, `{"overall_sentiment":0.2,"sentiment_distribution":{"positive":0,"neutral":0,"negative":0},"articles":[]}`, string(env.Data))

	rec, _ = serve(t, h, http.MethodGet, "/api/sentiment?days=90", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	f.err = models.ErrNewsUnavailable
	rec, env = serve(t, h, http.MethodGet, "/api/sentiment?symbol=TSLA&days=3", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "TSLA", f.symbol)
}

type fakeWatchlist struct {
	items   []models.WatchlistItem
	removed string
	err     error
}

func (f *fakeWatchlist) List(context.Context) ([]models.WatchlistItem, error) {
	return f.items, f.err
}

func (f *fakeWatchlist) Add(_ context.Context, symbol, name string) ([]models.WatchlistItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.items = append(f.items, models.WatchlistItem{Symbol: symbol, Name: name})
	return f.items, nil
}

func (f *fakeWatchlist) Remove(_ context.Context, symbol string) ([]models.WatchlistItem, error) {
	f.removed = symbol
	return f.items, f.err
}

func TestWatchlistRoutes(t *testing.T) {
	f := &fakeWatchlist{items: []models.WatchlistItem{}}
	h := NewWatchlistHandler(f, xlogger.NewNop())

	rec, env := serve(t, h, http.MethodGet, "/api/watchlist", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, string(env.Data))

	rec, env = serve(t, h, http.MethodPost, "/api/watchlist", `{"symbol":"AAPL","name":"Apple Inc."}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	require.Len(t, f.items, 1)

	rec, _ = serve(t, h, http.MethodDelete, "/api/watchlist/%5EGSPC", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "^GSPC", f.removed)
}

func TestWatchlistErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		method string
		target string
		body   string
		status int
		msg    string
	}{
		{"invalid", models.ErrWatchlistInvalid, http.MethodPost, "/api/watchlist", `{"symbol":"AAPL"}`, http.StatusBadRequest, "Symbol and name are required"},
		{"duplicate", fmt.Errorf("add: %w", models.ErrWatchlistDuplicate), http.MethodPost, "/api/watchlist", `{"symbol":"AAPL","name":"Apple"}`, http.StatusBadRequest, "Symbol already in watchlist"},
		{"empty", models.ErrWatchlistEmpty, http.MethodDelete, "/api/watchlist/AAPL", "", http.StatusNotFound, "Watchlist is empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewWatchlistHandler(&fakeWatchlist{err: tt.err}, xlogger.NewNop())
			rec, env := serve(t, h, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.False(t, env.Success)
			assert.Equal(t, tt.msg, env.Error)
		})
	}
}

func TestHealth(t *testing.T) {
	rec, env := serve(t, NewHealthHandler("yahoo"), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","provider":"yahoo"}`, string(env.Data))
}
