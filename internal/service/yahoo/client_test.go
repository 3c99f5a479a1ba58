package yahoo

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

const chartJSON = `{"chart":{"result":[{
  "meta":{"symbol":"^GSPC","gmtoffset":-14400},
  "timestamp":[1704205800,1704292200,1704378600,1704378700],
  "indicators":{"quote":[{
    "open":[4745.2,4725.07,null,4703.7],
    "high":[4754.33,4729.29,4726.78,4721.49],
    "low":[4722.67,4699.71,4708.35,4697.0],
    "close":[4742.83,4704.81,4688.68,4697.24],
    "volume":[3743050000,3950760000,3715480000,3844370000]
  }]}
}],"error":null}}`

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/^GSPC", r.URL.Path)
		assert.Equal(t, "1y", r.URL.Query().Get("range"))
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		_, _ = w.Write([]byte(chartJSON))
	}))
	defer srv.Close()

	c := New(srv.URL, xhttp.NewClient())
	candles, err := c.Fetch(context.Background(), "^GSPC", "1y")
	require.NoError(t, err)

	// the null open drops one row; the last two timestamps share a date
	require.Len(t, candles, 3)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), candles[0].Date)
	assert.Equal(t, 4742.83, candles[0].Close)
	assert.Equal(t, time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), candles[2].Date)
	assert.Equal(t, 4697.24, candles[2].Close)
	assert.True(t, candles[0].Date.Before(candles[1].Date))
}

func TestFetchUnknownSymbol(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, xhttp.NewClient()).Fetch(context.Background(), "NOPE", "1y")
	assert.ErrorIs(t, err, models.ErrDataUnavailable)
}

func TestFetchChartError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Bad Request","description":"Invalid input"}}}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, xhttp.NewClient()).Fetch(context.Background(), "X", "1y")
	assert.ErrorIs(t, err, models.ErrDataUnavailable)
	assert.Contains(t, err.Error(), "Invalid input")
}

func TestFetchUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url, xhttp.NewClient(xhttp.WithTimeout(time.Second))).Fetch(context.Background(), "AAPL", "1y")
	assert.ErrorIs(t, err, models.ErrDataUnavailable)
}

func TestFetchBadPeriod(t *testing.T) {
	_, err := New("http://127.0.0.1:1", xhttp.NewClient()).Fetch(context.Background(), "AAPL", "7y")
	assert.ErrorIs(t, err, models.ErrDataUnavailable)
}
