package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/news-comb/app/database"
)

func NewHandler(service ArticlesService, composer DigestComposer) *Handler {
	return &Handler{
		service:  service,
		composer: composer,
	}
}

// GetArticles handles GET /articles. Categories come from repeated or
// comma-separated "category" params; hours, limit and offset are optional.
func (h *Handler) GetArticles(c *gin.Context) {
	categories := parseCategories(c.QueryArray("category"))

	hours, ok := intQuery(c, "hours", 24)
	if !ok {
		return
	}
	limit, ok := intQuery(c, "limit", 0)
	if !ok {
		return
	}
	offset, ok := intQuery(c, "offset", 0)
	if !ok {
		return
	}

	entries, meta, err := h.service.FetchArticles(c.Request.Context(), categories, hours, limit, offset)
	if err != nil {
		slog.Error("Database error", "operation", "fetch_articles", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	resp := ArticlesResponse{
		Articles: make([]Article, 0, len(entries)),
		Meta:     meta,
	}
	for _, entry := range entries {
		resp.Articles = append(resp.Articles, Article{
			ID:         entry.ID,
			Title:      entry.Title,
			Link:       entry.Link,
			Published:  entry.Published,
			Source:     entry.Source,
			Category:   entry.Category,
			Content:    entry.Content,
			UploadedAt: entry.UploadedAt,
		})
	}

	c.JSON(http.StatusOK, resp)
}

// GetLatestByCategory handles GET /categories/:category/latest.
func (h *Handler) GetLatestByCategory(c *gin.Context) {
	category := c.Param("category")
	if category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing category parameter"})
		return
	}

	limit, ok := intQuery(c, "limit", 100)
	if !ok {
		return
	}

	entries, err := h.service.LatestByCategory(c.Request.Context(), category, limit)
	if err != nil {
		slog.Error("Database error", "operation", "latest_by_category", "category", category, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	resp := LatestResponse{
		Category: category,
		Articles: make([]LatestArticle, 0, len(entries)),
		Total:    len(entries),
	}
	for _, entry := range entries {
		resp.Articles = append(resp.Articles, latestArticle(entry))
	}

	c.JSON(http.StatusOK, resp)
}

// ComposeDigest handles POST /api/digest.
func (h *Handler) ComposeDigest(c *gin.Context) {
	category := c.Query("category")

	result, err := h.composer.Run(c.Request.Context(), category)
	if err != nil {
		slog.Error("Digest composition failed", "category", category, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Digest composition failed"})
		return
	}

	c.JSON(http.StatusOK, DigestResponse{
		Category: category,
		Digest:   result,
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func latestArticle(entry database.Entry) LatestArticle {
	return LatestArticle{
		Title:     entry.Title,
		Link:      entry.Link,
		Published: entry.Published,
		Source:    entry.Source,
	}
}

func parseCategories(raw []string) []string {
	var categories []string
	for _, value := range raw {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				categories = append(categories, part)
			}
		}
	}
	return categories
}

// intQuery parses an optional integer query parameter, writing a 400 response
// and returning false on malformed input.
func intQuery(c *gin.Context, name string, defaultValue int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue, true
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " parameter"})
		return 0, false
	}

	return value, true
}
