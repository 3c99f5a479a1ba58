package newsapi

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

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/everything", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "GSPC", q.Get("q"))
		assert.Equal(t, "2024-05-01", q.Get("from"))
		assert.Equal(t, "2024-05-08", q.Get("to"))
		assert.Equal(t, "en", q.Get("language"))
		assert.Equal(t, "relevancy", q.Get("sortBy"))
		_, _ = w.Write([]byte(`{"status":"ok","totalResults":1,"articles":[
			{"title":"Stocks rally","description":"Strong gains","url":"https://x/1","publishedAt":"2024-05-07T10:00:00Z"}]}`))
	}))
	defer srv.Close()

	c := New("key", srv.URL, xhttp.NewClient(), 0, 1)
	got, err := c.Search(context.Background(), "GSPC",
		time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), time.Date(2024, 5, 8, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.Article{
		Title: "Stocks rally", Description: "Strong gains", URL: "https://x/1", PublishedAt: "2024-05-07T10:00:00Z",
	}, got[0])
}

func TestSearchAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid"}`))
	}))
	defer srv.Close()

	_, err := New("bad", srv.URL, xhttp.NewClient(), 0, 1).Search(context.Background(), "AAPL", time.Now(), time.Now())
	assert.ErrorIs(t, err, models.ErrNewsUnavailable)
	assert.Contains(t, err.Error(), "apiKeyInvalid")
}

func TestSearchWithoutKey(t *testing.T) {
	_, err := New("", "", xhttp.NewClient(), 0, 1).Search(context.Background(), "AAPL", time.Now(), time.Now())
	assert.ErrorIs(t, err, models.ErrNewsUnavailable)
}
