package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"StockPulse/internal/domain/models"
	drepo "StockPulse/internal/domain/repository"
	xhttp "StockPulse/pkg/http"
	"StockPulse/pkg/util"

	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://newsapi.org/v2"

// Client queries the NewsAPI "everything" endpoint.
type Client struct {
	apiKey  string
	baseURL string
	http    *xhttp.Client
	limiter *rate.Limiter
}

// New creates a NewsSource. Outbound calls are paced at rps with the given
// burst; rps <= 0 disables pacing.
func New(apiKey, baseURL string, httpClient *xhttp.Client, rps float64, burst int) drepo.NewsSource {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	if burst < 1 {
		burst = 1
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		limiter: rate.NewLimiter(limit, burst),
	}
}

type everythingResponse struct {
	Status       string `json:"status"`
	Code         string `json:"code"`
	Message      string `json:"message"`
	TotalResults int    `json:"totalResults"`
	Articles     []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// Search returns English articles about query, most relevant first.
func (c *Client) Search(ctx context.Context, query string, from, to time.Time) ([]models.Article, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: NEWS_API_KEY is not set", models.ErrNewsUnavailable)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrNewsUnavailable, err)
	}

	var resp everythingResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodGet,
		URL:     c.baseURL + "/everything",
		Headers: map[string]string{"X-Api-Key": c.apiKey},
		QueryParams: map[string][]string{
			"q":        {query},
			"from":     {util.FormatDate(from)},
			"to":       {util.FormatDate(to)},
			"language": {"en"},
			"sortBy":   {"relevancy"},
		},
	}, &resp)
	if err != nil {
		var se *xhttp.StatusError
		if errors.As(err, &se) {
			var body everythingResponse
			if json.Unmarshal(se.Body, &body) == nil && body.Message != "" {
				return nil, fmt.Errorf("%w: %s: %s", models.ErrNewsUnavailable, body.Code, body.Message)
			}
		}
		return nil, fmt.Errorf("%w: %v", models.ErrNewsUnavailable, err)
	}
	if resp.Status != "ok" {
		return nil, fmt.Errorf("%w: %s: %s", models.ErrNewsUnavailable, resp.Code, resp.Message)
	}

	out := make([]models.Article, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		out = append(out, models.Article{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
		})
	}
	return out, nil
}
