package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"biaslens/analysis"
	"biaslens/nlp"
	"biaslens/ragindex"
	"biaslens/temporal"
	"biaslens/types"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeFetcher struct {
	articles []types.Article
}

func (f *fakeFetcher) Fetch(ctx context.Context, topic string, count int) ([]types.Article, error) {
	return f.articles, nil
}

func testRouter(t *testing.T, articles []types.Article) (*gin.Engine, string) {
	t.Helper()
	visualsDir := filepath.Join(t.TempDir(), "visuals")
	analyzer, err := temporal.NewAnalyzer(t.TempDir())
	if err != nil {
		t.Fatalf("NewAnalyzer() error = %v", err)
	}
	runner := &analysis.Runner{
		Fetcher:     &fakeFetcher{articles: articles},
		Toolkit:     &nlp.Toolkit{},
		Index:       &ragindex.Builder{},
		Temporal:    analyzer,
		VisualsPath: visualsDir,
	}
	return NewRouter(runner, visualsDir), visualsDir
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := testRouter(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status field = %q, want healthy", body["status"])
	}
}

func TestAnalyzeRejectsBadBody(t *testing.T) {
	router, _ := testRouter(t, nil)

	for _, payload := range []string{"", "{}", `{"topic": ""}`, "not json"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("payload %q: status = %d, want 400", payload, w.Code)
		}
	}
}

func TestAnalyzeNoArticlesIs404(t *testing.T) {
	router, _ := testRouter(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"topic": "obscure"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["error"] != analysis.NoArticlesMessage {
		t.Errorf("error payload = %q, want %q", body["error"], analysis.NoArticlesMessage)
	}
}

func TestAnalyzeReturnsResult(t *testing.T) {
	published := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	articles := []types.Article{
		{Title: "Headline one", Text: "First article body text for the analysis.", URL: "https://a.example/1", PublishedAt: &published},
		{Title: "Headline two", Text: "Second article body text with more detail.", URL: "https://b.example/1", PublishedAt: &published},
	}
	router, _ := testRouter(t, articles)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"topic": "trade"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	var result types.Result
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if result.DetailedBiasReport == "" {
		t.Error("detailed bias report missing from response")
	}
	if result.Visualizations.HistoricalBiasChartURL == "" || result.Visualizations.SourceBiasChartURL == "" {
		t.Error("visualization URLs missing from response")
	}
}

func TestVisualsRouteServesFilesAndRejectsTraversal(t *testing.T) {
	router, visualsDir := testRouter(t, nil)
	if err := os.MkdirAll(visualsDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(visualsDir, "chart.png"), []byte("png-bytes"), 0o644); err != nil {
		t.Fatalf("write chart: %v", err)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/visuals/chart.png", nil))
	if w.Code != http.StatusOK {
		t.Errorf("chart fetch status = %d, want 200", w.Code)
	}
	if w.Body.String() != "png-bytes" {
		t.Errorf("chart body = %q", w.Body.String())
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/visuals/..%2Fsecret", nil))
	if w.Code == http.StatusOK {
		t.Errorf("traversal request served with 200")
	}
}
