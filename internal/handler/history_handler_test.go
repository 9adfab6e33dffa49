package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ajay26apr/Pest-finder/internal/controller"
	"github.com/ajay26apr/Pest-finder/internal/types"
)

func newHistoryEngine(repo *controller.HistoryRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	NewHistoryHandler(zap.NewNop(), repo, 50).RegisterRoutes(api)
	return router
}

func getPath(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHistoryDisabled(t *testing.T) {
	router := newHistoryEngine(nil)

	for _, path := range []string{"/api/v1/history", "/api/v1/history/stats"} {
		w := getPath(router, path)
		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("%s: status = %d, want 503", path, w.Code)
		}
		if !strings.Contains(w.Body.String(), "History is disabled") {
			t.Fatalf("%s: body = %s", path, w.Body.String())
		}
	}
}

func TestHistoryListAndStats(t *testing.T) {
	repo, err := controller.NewHistoryRepository(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	defer repo.Close()

	repo.Save(context.Background(), &types.AnalysisRecord{ID: "a", ImageBytes: 100, ExtractedText: "first", CreatedAt: 1000})
	repo.Save(context.Background(), &types.AnalysisRecord{ID: "b", ImageBytes: 200, ExtractedText: "second", CreatedAt: 2000})

	router := newHistoryEngine(repo)

	w := getPath(router, "/api/v1/history?limit=1")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var list struct {
		Count   int                     `json:"count"`
		Records []*types.AnalysisRecord `json:"records"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if list.Count != 1 || len(list.Records) != 1 || list.Records[0].ID != "b" {
		t.Fatalf("list = %+v", list)
	}

	w = getPath(router, "/api/v1/history/stats")
	if w.Code != http.StatusOK {
		t.Fatalf("stats status = %d: %s", w.Code, w.Body.String())
	}
	var stats struct {
		Stats *types.HistoryStats `json:"stats"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if stats.Stats.TotalAnalyses != 2 {
		t.Fatalf("total = %d, want 2", stats.Stats.TotalAnalyses)
	}
}

func TestHistoryInvalidLimit(t *testing.T) {
	repo, err := controller.NewHistoryRepository(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	defer repo.Close()

	router := newHistoryEngine(repo)

	for _, path := range []string{"/api/v1/history?limit=abc", "/api/v1/history?limit=0", "/api/v1/history?limit=-5"} {
		w := getPath(router, path)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", path, w.Code)
		}
	}
}
