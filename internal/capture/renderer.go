package capture

import (
	"html/template"
	"strings"
	"sync"

	"github.com/ajay26apr/Pest-finder/internal/types"
)

// Renderer собирает HTML фрагмент области результатов.
// Семантика replace-then-append: первое поле заменяет содержимое,
// второе дописывается; пустой ответ область не трогает
type Renderer struct {
	mu   sync.Mutex
	html string
}

// NewRenderer создает пустую область результатов
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render применяет ответ сервера к области результатов.
// Поле error не отображается
func (r *Renderer) Render(resp *types.AnalyzeResponse) {
	if resp == nil {
		return
	}

	hasText := resp.ExtractedText != ""
	hasGemini := resp.GeminiResponse != nil && *resp.GeminiResponse != ""
	if !hasText && !hasGemini {
		return
	}

	var b strings.Builder
	if hasText {
		b.WriteString("<h2>Extracted Text:</h2><p>")
		b.WriteString(template.HTMLEscapeString(resp.ExtractedText))
		b.WriteString("</p>")
	}
	if hasGemini {
		b.WriteString("<h2>Gemini Response:</h2><p>")
		b.WriteString(template.HTMLEscapeString(*resp.GeminiResponse))
		b.WriteString("</p>")
	}

	r.mu.Lock()
	r.html = b.String()
	r.mu.Unlock()
}

// HTML возвращает текущее содержимое области результатов
func (r *Renderer) HTML() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.html
}
