package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ajay26apr/Pest-finder/internal/controller"
	"github.com/ajay26apr/Pest-finder/internal/types"
)

type stubAnalyzer struct {
	resp *types.AnalyzeResponse
	err  error
	got  string
}

func (s *stubAnalyzer) Analyze(ctx context.Context, dataURL string) (*types.AnalyzeResponse, error) {
	s.got = dataURL
	return s.resp, s.err
}

func newTestEngine(analyzer *stubAnalyzer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewAnalyzeHandler(zap.NewNop(), analyzer).RegisterRoutes(router)
	return router
}

func postJSON(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAnalyzeMissingImage(t *testing.T) {
	router := newTestEngine(&stubAnalyzer{})

	cases := []string{``, `{}`, `{"image": ""}`, `not json`}
	for _, body := range cases {
		w := postJSON(router, body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status = %d, want 400", body, w.Code)
		}
		var resp map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("body %q: invalid JSON response: %v", body, err)
		}
		if resp["error"] != "No image data provided" {
			t.Fatalf("body %q: error = %q", body, resp["error"])
		}
	}
}

func TestAnalyzeNoTextExtracted(t *testing.T) {
	router := newTestEngine(&stubAnalyzer{err: controller.ErrNoText})

	w := postJSON(router, `{"image": "data:image/jpeg;base64,Zm9v"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "No text extracted from the image") {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestAnalyzeInvalidImage(t *testing.T) {
	router := newTestEngine(&stubAnalyzer{err: controller.ErrInvalidImage})

	w := postJSON(router, `{"image": "data:image/jpeg;base64,@@"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid image data") {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestAnalyzePipelineFailure(t *testing.T) {
	router := newTestEngine(&stubAnalyzer{err: errors.New("rekognition unavailable")})

	w := postJSON(router, `{"image": "data:image/jpeg;base64,Zm9v"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Failed to process image") {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestAnalyzeSuccess(t *testing.T) {
	answer := `{"listings": [{"Product Name": "Neem Oil"}]}`
	stub := &stubAnalyzer{resp: &types.AnalyzeResponse{
		ExtractedText:  "Neem Oil 500ml",
		GeminiResponse: &answer,
	}}
	router := newTestEngine(stub)

	w := postJSON(router, `{"image": "data:image/jpeg;base64,Zm9v"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if stub.got != "data:image/jpeg;base64,Zm9v" {
		t.Fatalf("service received %q", stub.got)
	}

	var resp types.AnalyzeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if resp.ExtractedText != "Neem Oil 500ml" {
		t.Fatalf("extracted_text = %q", resp.ExtractedText)
	}
	if resp.GeminiResponse == nil || *resp.GeminiResponse != answer {
		t.Fatalf("gemini_response = %v", resp.GeminiResponse)
	}
}

func TestAnalyzeGeminiIsNullWhenUnavailable(t *testing.T) {
	stub := &stubAnalyzer{resp: &types.AnalyzeResponse{ExtractedText: "some text"}}
	router := newTestEngine(stub)

	w := postJSON(router, `{"image": "data:image/jpeg;base64,Zm9v"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if string(raw["gemini_response"]) != "null" {
		t.Fatalf("gemini_response = %s, want null", raw["gemini_response"])
	}
}
