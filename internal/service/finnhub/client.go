package finnhub

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"StockPulse/internal/domain/models"
	drepo "StockPulse/internal/domain/repository"
	xhttp "StockPulse/pkg/http"
	"StockPulse/pkg/util"
)

const DefaultBaseURL = "https://finnhub.io/api/v1"

// Client fetches daily candles from the Finnhub REST API.
type Client struct {
	apiKey  string
	baseURL string
	http    *xhttp.Client
	now     func() time.Time
}

// New creates a Finnhub-backed MarketData.
func New(apiKey, baseURL string, httpClient *xhttp.Client) drepo.MarketData {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		now:     time.Now,
	}
}

func (c *Client) Name() string { return "finnhub" }

// candleResponse holds parallel arrays; S is "ok" or "no_data".
type candleResponse struct {
	C []float64 `json:"c"`
	H []float64 `json:"h"`
	L []float64 `json:"l"`
	O []float64 `json:"o"`
	V []float64 `json:"v"`
	T []int64   `json:"t"`
	S string    `json:"s"`
}

func (c *Client) Fetch(ctx context.Context, symbol, period string) ([]models.Candle, error) {
	now := c.now()
	from, err := util.PeriodStart(period, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDataUnavailable, err)
	}

	var resp candleResponse
	err = c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/stock/candle",
		Headers: map[string]string{
			"X-Finnhub-Token": c.apiKey,
		},
		QueryParams: map[string][]string{
			"symbol":     {symbol},
			"resolution": {"D"},
			"from":       {strconv.FormatInt(from.Unix(), 10)},
			"to":         {strconv.FormatInt(now.Unix(), 10)},
		},
	}, &resp)
	if err != nil {
		var se *xhttp.StatusError
		if errors.As(err, &se) && (se.Code == http.StatusUnauthorized || se.Code == http.StatusForbidden) {
			return nil, fmt.Errorf("%w: finnhub rejected credentials (%d)", models.ErrDataUnavailable, se.Code)
		}
		return nil, fmt.Errorf("%w: finnhub %s: %v", models.ErrDataUnavailable, symbol, err)
	}

	if resp.S != "ok" {
		return nil, fmt.Errorf("%w: finnhub status %q for %s", models.ErrDataUnavailable, resp.S, symbol)
	}

	n := len(resp.T)
	if len(resp.C) != n || len(resp.O) != n || len(resp.H) != n || len(resp.L) != n || len(resp.V) != n {
		return nil, fmt.Errorf("%w: finnhub returned ragged arrays for %s", models.ErrDataUnavailable, symbol)
	}

	byDate := make(map[time.Time]models.Candle, n)
	for i, ts := range resp.T {
		date := util.TruncateDay(time.Unix(ts, 0).UTC())
		byDate[date] = models.Candle{
			Date:   date,
			Open:   resp.O[i],
			High:   resp.H[i],
			Low:    resp.L[i],
			Close:  resp.C[i],
			Volume: resp.V[i],
		}
	}
	if len(byDate) == 0 {
		return nil, fmt.Errorf("%w: finnhub returned no rows for %s", models.ErrDataUnavailable, symbol)
	}

	candles := make([]models.Candle, 0, len(byDate))
	for _, cd := range byDate {
		candles = append(candles, cd)
	}
	sort.Slice(candles, func(i, j int) bool { return candles[i].Date.Before(candles[j].Date) })
	return candles, nil
}
