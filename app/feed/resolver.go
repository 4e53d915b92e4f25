package feed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
	"github.com/microcosm-cc/bluemonday"
)

var stripPolicy = bluemonday.StrictPolicy()

// Resolver turns a candidate item into its article body text. It tries, in
// order: fetching the article page and extracting the main text, then the
// feed-supplied summary, then the feed-supplied description. An empty result
// means every fallback was exhausted and the caller should drop the item.
type Resolver struct {
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
}

func NewResolver(httpClient *http.Client, userAgent string, timeout time.Duration) *Resolver {
	return &Resolver{
		httpClient: httpClient,
		userAgent:  userAgent,
		timeout:    timeout,
	}
}

func (r *Resolver) Run(ctx context.Context, item Item) string {
	if content := r.extractFromArticle(ctx, item.Link); content != "" {
		return content
	}

	if summary := stripTags(item.Summary); summary != "" {
		return summary
	}

	return stripTags(item.Description)
}

func (r *Resolver) extractFromArticle(ctx context.Context, link string) string {
	if link == "" {
		return ""
	}

	data, err := r.fetchArticle(ctx, link)
	if err != nil {
		slog.Debug("Article fetch failed", "url", link, "error", err)
		return ""
	}

	pageURL, err := url.Parse(link)
	if err != nil {
		return ""
	}

	article, err := readability.FromReader(bytes.NewReader(data), pageURL)
	if err != nil {
		slog.Debug("Content extraction failed", "url", link, "error", err)
		return ""
	}

	return strings.TrimSpace(article.TextContent)
}

func (r *Resolver) fetchArticle(ctx context.Context, link string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", link, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(strings.ToLower(contentType), "html") {
		return nil, fmt.Errorf("content type is not HTML: %s", contentType)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

// stripTags removes all HTML markup from feed-supplied text.
func stripTags(s string) string {
	return strings.TrimSpace(stripPolicy.Sanitize(s))
}
