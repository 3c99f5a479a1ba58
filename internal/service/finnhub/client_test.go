package finnhub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"StockPulse/internal/domain/models"
	xhttp "StockPulse/pkg/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	c := New("secret", url, xhttp.NewClient()).(*Client)
	c.now = func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }
	return c
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/stock/candle", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-Finnhub-Token"))
		assert.Equal(t, "AAPL", q.Get("symbol"))
		assert.Equal(t, "D", q.Get("resolution"))
		assert.Equal(t, "1706745600", q.Get("from")) // 2024-02-01
		assert.Equal(t, "1709251200", q.Get("to"))
		// deliberately out of order
		_, _ = w.Write([]byte(`{"s":"ok","t":[1706918400,1706832000],"o":[2,1],"h":[2.5,1.5],"l":[1.5,0.5],"c":[2.2,1.2],"v":[200,100]}`))
	}))
	defer srv.Close()

	candles, err := newTestClient(srv.URL).Fetch(context.Background(), "AAPL", "1mo")
	require.NoError(t, err)
	require.Len(t, candles, 2)
	assert.Equal(t, time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC), candles[0].Date)
	assert.Equal(t, 1.2, candles[0].Close)
	assert.Equal(t, 2.2, candles[1].Close)
	assert.Equal(t, 200.0, candles[1].Volume)
}

func TestFetchNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"s":"no_data"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Fetch(context.Background(), "ZZZZ", "1y")
	assert.ErrorIs(t, err, models.ErrDataUnavailable)
}

func TestFetchUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Fetch(context.Background(), "AAPL", "1y")
	assert.ErrorIs(t, err, models.ErrDataUnavailable)
	assert.Contains(t, err.Error(), "credentials")
}

func TestFetchRagged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"s":"ok","t":[1706918400],"o":[],"h":[1],"l":[1],"c":[1],"v":[1]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Fetch(context.Background(), "AAPL", "1y")
	assert.ErrorIs(t, err, models.ErrDataUnavailable)
}
