package api

import (
	"context"
	"time"

	"github.com/lysyi3m/news-comb/app/articles"
	"github.com/lysyi3m/news-comb/app/database"
)

type ArticlesService interface {
	FetchArticles(ctx context.Context, categories []string, hoursBack, limit, offset int) ([]database.Entry, articles.Meta, error)
	LatestByCategory(ctx context.Context, category string, limit int) ([]database.Entry, error)
}

type DigestComposer interface {
	Run(ctx context.Context, category string) (string, error)
}

type Handler struct {
	service  ArticlesService
	composer DigestComposer
}

type Article struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Link       string     `json:"link"`
	Published  *time.Time `json:"published"`
	Source     string     `json:"source"`
	Category   string     `json:"category"`
	Content    string     `json:"content"`
	UploadedAt time.Time  `json:"uploaded_at"`
}

type ArticlesResponse struct {
	Articles []Article     `json:"articles"`
	Meta     articles.Meta `json:"meta"`
}

// LatestArticle is the reduced listing shape: no content payload.
type LatestArticle struct {
	Title     string     `json:"title"`
	Link      string     `json:"link"`
	Published *time.Time `json:"published"`
	Source    string     `json:"source"`
}

type LatestResponse struct {
	Category string          `json:"category"`
	Articles []LatestArticle `json:"articles"`
	Total    int             `json:"total"`
}

type DigestResponse struct {
	Category string `json:"category,omitempty"`
	Digest   string `json:"digest"`
}
