package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	"StockPulse/internal/services/sentiment"
	"StockPulse/pkg/cache"
	"StockPulse/pkg/logger"
	"StockPulse/pkg/util"
)

// Polarity bucket bounds for the distribution.
const (
	positiveAbove = 0.1
	negativeBelow = -0.1
)

// SentimentUseCase scores recent news for a symbol.
type SentimentUseCase struct {
	news     domrepo.NewsSource
	analyzer *sentiment.Analyzer
	cache    cache.Service
	ttl      time.Duration
	log      *logger.Logger
	now      func() time.Time
}

// NewSentimentUseCase wires the collaborators. A nil cache disables caching.
func NewSentimentUseCase(news domrepo.NewsSource, analyzer *sentiment.Analyzer, c cache.Service, ttl time.Duration, l *logger.Logger) *SentimentUseCase {
	return &SentimentUseCase{
		news:     news,
		analyzer: analyzer,
		cache:    c,
		ttl:      ttl,
		log:      l,
		now:      time.Now,
	}
}

func (uc *SentimentUseCase) GetSentiment(ctx context.Context, symbol string, days int) (*models.SentimentReport, error) {
	query := strings.ReplaceAll(strings.TrimSpace(symbol), "^", "")
	if query == "" {
		return nil, fmt.Errorf("%w: symbol required", models.ErrNewsUnavailable)
	}
	if days < 1 {
		days = 1
	}

	to := uc.now().UTC()
	from := to.AddDate(0, 0, -days)
	key := cache.GenerateKeyWithParams("sentiment", strings.ToUpper(query), days, util.FormatDate(to))

	if uc.cache != nil {
		var cached models.SentimentReport
		err := uc.cache.Get(ctx, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			uc.log.Warn("sentiment cache read failed", logger.String("key", key), logger.Error(err))
		}
	}

	articles, err := uc.news.Search(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("sentiment %s: %w", query, err)
	}

	report := uc.score(articles)

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, key, report, uc.ttl); err != nil {
			uc.log.Warn("sentiment cache write failed", logger.String("key", key), logger.Error(err))
		}
	}
	return report, nil
}

// score keeps articles with both title and description, drops repeats of
// the same headline, and aggregates polarity.
func (uc *SentimentUseCase) score(articles []models.Article) *models.SentimentReport {
	report := &models.SentimentReport{Articles: []models.ScoredArticle{}}
	seen := make(map[string]struct{}, len(articles))
	total := 0.0

	for _, a := range articles {
		if strings.TrimSpace(a.Title) == "" || strings.TrimSpace(a.Description) == "" {
			continue
		}
		headline := uc.analyzer.Clean(a.Title)
		if headline != "" {
			if _, dup := seen[headline]; dup {
				continue
			}
			seen[headline] = struct{}{}
		}

		s := uc.analyzer.Analyze(a.Title + " " + a.Description)
		report.Articles = append(report.Articles, models.ScoredArticle{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
			Sentiment:   s,
		})
		total += s.Polarity

		switch {
		case s.Polarity > positiveAbove:
			report.SentimentDistribution.Positive++
		case s.Polarity < negativeBelow:
			report.SentimentDistribution.Negative++
		default:
			report.SentimentDistribution.Neutral++
		}
	}

	if n := len(report.Articles); n > 0 {
		report.OverallSentiment = total / float64(n)
	}
	return report
}
