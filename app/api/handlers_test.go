package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/news-comb/app/articles"
	"github.com/lysyi3m/news-comb/app/database"
)

type fakeArticlesService struct {
	entries []database.Entry
	meta    articles.Meta
	err     error

	lastCategories []string
	lastHours      int
	lastLimit      int
	lastOffset     int

	latestEntries []database.Entry
	latestErr     error
	lastCategory  string
}

func (f *fakeArticlesService) FetchArticles(ctx context.Context, categories []string, hoursBack, limit, offset int) ([]database.Entry, articles.Meta, error) {
	f.lastCategories = categories
	f.lastHours = hoursBack
	f.lastLimit = limit
	f.lastOffset = offset
	return f.entries, f.meta, f.err
}

func (f *fakeArticlesService) LatestByCategory(ctx context.Context, category string, limit int) ([]database.Entry, error) {
	f.lastCategory = category
	f.lastLimit = limit
	return f.latestEntries, f.latestErr
}

type fakeDigestComposer struct {
	result string
	err    error
}

func (f *fakeDigestComposer) Run(ctx context.Context, category string) (string, error) {
	return f.result, f.err
}

func newTestServer(service *fakeArticlesService, composer *fakeDigestComposer, apiAccessKey string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewServer(NewHandler(service, composer), apiAccessKey)
}

func doRequest(engine *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestGetArticles(t *testing.T) {
	published := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	service := &fakeArticlesService{
		entries: []database.Entry{
			{
				ID:         "e1",
				Title:      "Battery Storage Approved",
				Link:       "https://example.com/1",
				Published:  &published,
				Source:     "Feed A",
				Category:   "tech",
				Content:    "Regulators approved the installation.",
				UploadedAt: published.Add(time.Hour),
			},
		},
		meta: articles.Meta{TotalCount: 1, Limit: 100, Offset: 0},
	}
	engine := newTestServer(service, &fakeDigestComposer{}, "")

	w := doRequest(engine, "GET", "/articles?category=tech&hours=48&limit=100&offset=0", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp ArticlesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if len(resp.Articles) != 1 {
		t.Fatalf("Expected 1 article, got %d", len(resp.Articles))
	}
	if resp.Articles[0].ID != "e1" || resp.Articles[0].Content == "" {
		t.Errorf("Unexpected article payload: %+v", resp.Articles[0])
	}
	if resp.Meta.TotalCount != 1 {
		t.Errorf("Expected total_count 1, got %d", resp.Meta.TotalCount)
	}

	if service.lastHours != 48 {
		t.Errorf("Expected hours=48 to reach the service, got %d", service.lastHours)
	}
}

func TestGetArticles_CategoryParsing(t *testing.T) {
	service := &fakeArticlesService{}
	engine := newTestServer(service, &fakeDigestComposer{}, "")

	w := doRequest(engine, "GET", "/articles?category=tech,science&category=policy", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	want := []string{"tech", "science", "policy"}
	if len(service.lastCategories) != len(want) {
		t.Fatalf("Expected %d categories, got %v", len(want), service.lastCategories)
	}
	for i, category := range want {
		if service.lastCategories[i] != category {
			t.Errorf("Expected category %q at position %d, got %q", category, i, service.lastCategories[i])
		}
	}
}

func TestGetArticles_InvalidParams(t *testing.T) {
	engine := newTestServer(&fakeArticlesService{}, &fakeDigestComposer{}, "")

	for _, path := range []string{
		"/articles?hours=abc",
		"/articles?limit=ten",
		"/articles?offset=1.5",
	} {
		w := doRequest(engine, "GET", path, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400 for %s, got %d", path, w.Code)
		}
	}
}

func TestGetArticles_EmptyResult(t *testing.T) {
	service := &fakeArticlesService{meta: articles.Meta{Limit: 100}}
	engine := newTestServer(service, &fakeDigestComposer{}, "")

	w := doRequest(engine, "GET", "/articles", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200 for empty result, got %d", w.Code)
	}

	var resp ArticlesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Articles) != 0 || resp.Meta.TotalCount != 0 {
		t.Errorf("Expected empty envelope, got %+v", resp)
	}
}

func TestGetArticles_ServiceError(t *testing.T) {
	service := &fakeArticlesService{err: fmt.Errorf("connection lost")}
	engine := newTestServer(service, &fakeDigestComposer{}, "")

	w := doRequest(engine, "GET", "/articles", nil)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
}

func TestGetLatestByCategory(t *testing.T) {
	published := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	service := &fakeArticlesService{
		latestEntries: []database.Entry{
			{Title: "Latest Story", Link: "https://example.com/1", Published: &published, Source: "Feed A"},
		},
	}
	engine := newTestServer(service, &fakeDigestComposer{}, "")

	w := doRequest(engine, "GET", "/categories/tech/latest?limit=5", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp LatestResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.Category != "tech" || resp.Total != 1 {
		t.Errorf("Unexpected envelope: %+v", resp)
	}
	if len(resp.Articles) != 1 || resp.Articles[0].Title != "Latest Story" {
		t.Errorf("Unexpected articles: %+v", resp.Articles)
	}

	if service.lastCategory != "tech" || service.lastLimit != 5 {
		t.Errorf("Expected category=tech limit=5 to reach the service, got %q/%d",
			service.lastCategory, service.lastLimit)
	}
}

func TestComposeDigest_RequiresAuth(t *testing.T) {
	engine := newTestServer(&fakeArticlesService{}, &fakeDigestComposer{result: "digest"}, "secret-key")

	w := doRequest(engine, "POST", "/api/digest", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 without key, got %d", w.Code)
	}

	w = doRequest(engine, "POST", "/api/digest", map[string]string{"X-API-Key": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 for wrong key, got %d", w.Code)
	}
}

func TestComposeDigest(t *testing.T) {
	composer := &fakeDigestComposer{result: "Two stories dominated the cycle."}
	engine := newTestServer(&fakeArticlesService{}, composer, "secret-key")

	w := doRequest(engine, "POST", "/api/digest?category=tech", map[string]string{"X-API-Key": "secret-key"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp DigestResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Digest != "Two stories dominated the cycle." || resp.Category != "tech" {
		t.Errorf("Unexpected digest response: %+v", resp)
	}
}

func TestComposeDigest_BearerToken(t *testing.T) {
	engine := newTestServer(&fakeArticlesService{}, &fakeDigestComposer{result: "digest"}, "secret-key")

	w := doRequest(engine, "POST", "/api/digest", map[string]string{"Authorization": "Bearer secret-key"})
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 with bearer token, got %d", w.Code)
	}
}

func TestComposeDigest_ComposerError(t *testing.T) {
	engine := newTestServer(&fakeArticlesService{}, &fakeDigestComposer{err: fmt.Errorf("model overloaded")}, "secret-key")

	w := doRequest(engine, "POST", "/api/digest", map[string]string{"X-API-Key": "secret-key"})
	if w.Code != http.StatusBadGateway {
		t.Errorf("Expected status 502, got %d", w.Code)
	}
}

func TestComposeDigest_DisabledWithoutKey(t *testing.T) {
	engine := newTestServer(&fakeArticlesService{}, &fakeDigestComposer{result: "digest"}, "")

	w := doRequest(engine, "POST", "/api/digest", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 when digest endpoint is disabled, got %d", w.Code)
	}
}

func TestGetHealth(t *testing.T) {
	engine := newTestServer(&fakeArticlesService{}, &fakeDigestComposer{}, "")

	w := doRequest(engine, "GET", "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %q", body["status"])
	}
}
