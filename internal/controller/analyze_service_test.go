package controller

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"testing"

	"go.uber.org/zap"
)

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) ExtractText(ctx context.Context, imageBytes []byte) (string, error) {
	return f.text, f.err
}

type fakeGenerator struct {
	answer string
	err    error
	prompt string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.answer, f.err
}

func validDataURL() string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("fake jpeg bytes"))
}

func newTestService(t *testing.T, ocr TextExtractor, gemini Generator) *AnalyzeService {
	t.Helper()
	return NewAnalyzeService(ocr, gemini, nil, nil, t.TempDir(), "Expert prompt: ", 1<<20, zap.NewNop())
}

func TestAnalyzeEmptyImage(t *testing.T) {
	svc := newTestService(t, &fakeExtractor{}, nil)
	if _, err := svc.Analyze(context.Background(), ""); !errors.Is(err, ErrNoImage) {
		t.Fatalf("err = %v, want ErrNoImage", err)
	}
}

func TestAnalyzeMalformedDataURL(t *testing.T) {
	svc := newTestService(t, &fakeExtractor{}, nil)

	cases := []string{
		"no comma at all",
		"data:image/jpeg;base64,@@not-base64@@",
		"data:image/jpeg;base64,",
	}
	for _, in := range cases {
		if _, err := svc.Analyze(context.Background(), in); !errors.Is(err, ErrInvalidImage) {
			t.Fatalf("input %q: err = %v, want ErrInvalidImage", in, err)
		}
	}
}

func TestAnalyzeRejectsOversizedImage(t *testing.T) {
	svc := NewAnalyzeService(&fakeExtractor{text: "x"}, nil, nil, nil, t.TempDir(), "", 4, zap.NewNop())
	if _, err := svc.Analyze(context.Background(), validDataURL()); !errors.Is(err, ErrInvalidImage) {
		t.Fatalf("err = %v, want ErrInvalidImage", err)
	}
}

func TestAnalyzeNoTextExtracted(t *testing.T) {
	svc := newTestService(t, &fakeExtractor{text: ""}, nil)
	if _, err := svc.Analyze(context.Background(), validDataURL()); !errors.Is(err, ErrNoText) {
		t.Fatalf("err = %v, want ErrNoText", err)
	}
}

func TestAnalyzeExtractorFailure(t *testing.T) {
	svc := newTestService(t, &fakeExtractor{err: errors.New("aws down")}, nil)

	_, err := svc.Analyze(context.Background(), validDataURL())
	if err == nil {
		t.Fatal("expected an error")
	}
	if errors.Is(err, ErrNoText) {
		t.Fatalf("extractor failure must not look like an empty result: %v", err)
	}
}

func TestAnalyzeSuccessWithGemini(t *testing.T) {
	gen := &fakeGenerator{answer: `{"listings": [{"Product Name": "Neem Oil"}]}`}
	svc := newTestService(t, &fakeExtractor{text: "Neem Oil 500ml"}, gen)

	resp, err := svc.Analyze(context.Background(), validDataURL())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if resp.ExtractedText != "Neem Oil 500ml" {
		t.Fatalf("extracted_text = %q", resp.ExtractedText)
	}
	if resp.GeminiResponse == nil || *resp.GeminiResponse != gen.answer {
		t.Fatalf("gemini_response = %v, want %q", resp.GeminiResponse, gen.answer)
	}
	if gen.prompt != "Expert prompt: Neem Oil 500ml" {
		t.Fatalf("prompt = %q", gen.prompt)
	}
}

func TestAnalyzeGeminiFailureIsNotFatal(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	svc := newTestService(t, &fakeExtractor{text: "some text"}, gen)

	resp, err := svc.Analyze(context.Background(), validDataURL())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if resp.GeminiResponse != nil {
		t.Fatalf("gemini_response = %q, want nil", *resp.GeminiResponse)
	}
}

func TestAnalyzeWithoutGenerator(t *testing.T) {
	svc := newTestService(t, &fakeExtractor{text: "some text"}, nil)

	resp, err := svc.Analyze(context.Background(), validDataURL())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if resp.GeminiResponse != nil {
		t.Fatal("gemini_response must stay null without a generator")
	}
}

func TestAnalyzeRemovesTempImage(t *testing.T) {
	dir := t.TempDir()
	svc := NewAnalyzeService(&fakeExtractor{text: "some text"}, nil, nil, nil, dir, "", 1<<20, zap.NewNop())

	if _, err := svc.Analyze(context.Background(), validDataURL()); err != nil {
		t.Fatalf("analyze: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read upload dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("upload dir has %d leftover files", len(entries))
	}
}
