package types

// AnalyzeRequest структура запроса на анализ изображения.
// Image содержит data URL: "data:image/jpeg;base64,<...>"
type AnalyzeRequest struct {
	Image string `json:"image"`
}

// AnalyzeResponse структура ответа сервера.
// GeminiResponse — указатель: сервер возвращает null, если Gemini недоступен
type AnalyzeResponse struct {
	ExtractedText  string  `json:"extracted_text"`
	GeminiResponse *string `json:"gemini_response"`
	Error          string  `json:"error,omitempty"`
}

// AnalysisRecord запись истории анализа
type AnalysisRecord struct {
	ID             string `json:"id"`
	ImageBytes     int64  `json:"image_bytes"`
	ExtractedText  string `json:"extracted_text"`
	GeminiResponse string `json:"gemini_response,omitempty"`
	CreatedAt      int64  `json:"created_at"`
}

// HistoryStats агрегированная статистика по истории
type HistoryStats struct {
	TotalAnalyses  int64 `json:"total_analyses"`
	TotalBytes     int64 `json:"total_bytes"`
	WithGemini     int64 `json:"with_gemini"`
	LastAnalysisAt int64 `json:"last_analysis_at,omitempty"`
}

// StatusEvent событие пайплайна для websocket клиентов
type StatusEvent struct {
	Stage     string `json:"stage"` // received | ocr_done | gemini_done | failed
	Message   string `json:"message,omitempty"`
	Timestamp int64  `json:"timestamp"`
}
