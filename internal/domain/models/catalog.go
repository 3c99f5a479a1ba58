package models

import "time"

// SymbolInfo is a searchable ticker.
type SymbolInfo struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Type   string `json:"type"`
}

// WatchlistItem is one saved ticker.
type WatchlistItem struct {
	Symbol  string    `json:"symbol"`
	Name    string    `json:"name"`
	AddedAt time.Time `json:"added_at"`
}

// Article is a news item fetched for sentiment scoring.
type Article struct {
	Title       string
	Description string
	URL         string
	PublishedAt string
}

// Sentiment is a polarity in [-1,1] and subjectivity in [0,1].
type Sentiment struct {
	Polarity     float64 `json:"polarity"`
	Subjectivity float64 `json:"subjectivity"`
}

// ScoredArticle is an Article with its sentiment.
type ScoredArticle struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	PublishedAt string    `json:"publishedAt"`
	Sentiment   Sentiment `json:"sentiment"`
}

// SentimentDistribution counts articles per polarity bucket.
type SentimentDistribution struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// SentimentReport summarizes news sentiment for a symbol.
type SentimentReport struct {
	OverallSentiment      float64               `json:"overall_sentiment"`
	SentimentDistribution SentimentDistribution `json:"sentiment_distribution"`
	Articles              []ScoredArticle       `json:"articles"`
}
