package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"StockPulse/internal/domain/models"
	drepo "StockPulse/internal/domain/repository"
	xhttp "StockPulse/pkg/http"
	"StockPulse/pkg/util"
)

const DefaultBaseURL = "https://query1.finance.yahoo.com"

// Client fetches daily candles from the Yahoo Finance chart API.
type Client struct {
	baseURL string
	http    *xhttp.Client
}

// New returns a MarketData backed by Yahoo Finance.
func New(baseURL string, httpClient *xhttp.Client) drepo.MarketData {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *Client) Name() string { return "yahoo" }

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Meta struct {
		Symbol    string `json:"symbol"`
		GmtOffset int64  `json:"gmtoffset"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*float64 `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

// Fetch returns the daily series for symbol over period, oldest first.
func (c *Client) Fetch(ctx context.Context, symbol, period string) ([]models.Candle, error) {
	if !util.ValidPeriod(period) {
		return nil, fmt.Errorf("%w: unknown period %q", models.ErrDataUnavailable, period)
	}

	var resp chartResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, url.PathEscape(symbol)),
		QueryParams: map[string][]string{
			"range":    {period},
			"interval": {"1d"},
			"events":   {"history"},
		},
	}, &resp)
	if err != nil {
		var se *xhttp.StatusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound {
			return nil, fmt.Errorf("%w: yahoo has no data for %s", models.ErrDataUnavailable, symbol)
		}
		return nil, fmt.Errorf("%w: yahoo %s: %v", models.ErrDataUnavailable, symbol, err)
	}

	if e := resp.Chart.Error; e != nil {
		return nil, fmt.Errorf("%w: yahoo %s: %s: %s", models.ErrDataUnavailable, symbol, e.Code, e.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: yahoo returned no result for %s", models.ErrDataUnavailable, symbol)
	}

	candles := toCandles(resp.Chart.Result[0])
	if len(candles) == 0 {
		return nil, fmt.Errorf("%w: yahoo returned no rows for %s", models.ErrDataUnavailable, symbol)
	}
	return candles, nil
}

// toCandles zips the column arrays, skipping rows with a missing field and
// keeping the last row seen for each exchange-local date.
func toCandles(r chartResult) []models.Candle {
	if len(r.Indicators.Quote) == 0 {
		return nil
	}
	q := r.Indicators.Quote[0]

	byDate := make(map[time.Time]models.Candle, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		open, ok1 := at(q.Open, i)
		high, ok2 := at(q.High, i)
		low, ok3 := at(q.Low, i)
		closePx, ok4 := at(q.Close, i)
		volume, ok5 := at(q.Volume, i)
		if !(ok1 && ok2 && ok3 && ok4 && ok5) {
			continue
		}
		date := util.TruncateDay(time.Unix(ts+r.Meta.GmtOffset, 0).UTC())
		byDate[date] = models.Candle{Date: date, Open: open, High: high, Low: low, Close: closePx, Volume: volume}
	}

	out := make([]models.Candle, 0, len(byDate))
	for _, c := range byDate {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func at(values []*float64, i int) (float64, bool) {
	if i >= len(values) || values[i] == nil {
		return 0, false
	}
	return *values[i], true
}
