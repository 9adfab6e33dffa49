package controller

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ajay26apr/Pest-finder/internal/types"
)

// Ошибки уровня запроса, которые хендлер превращает в 400
var (
	ErrNoImage      = errors.New("no image data provided")
	ErrInvalidImage = errors.New("invalid image data")
	ErrNoText       = errors.New("no text extracted from the image")
)

// TextExtractor извлекает текст из байтов изображения
type TextExtractor interface {
	ExtractText(ctx context.Context, imageBytes []byte) (string, error)
}

// Generator генерирует ответ модели по промпту
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// StatusBroadcaster рассылает события пайплайна подключенным клиентам
type StatusBroadcaster interface {
	Broadcast(stage, message string)
}

// AnalyzeService оркестрирует пайплайн: декодирование data URL,
// временный файл, OCR, промпт, Gemini, запись истории.
// gemini, history и status могут быть nil: анализ продолжает работать,
// просто без соответствующего шага
type AnalyzeService struct {
	ocr           TextExtractor
	gemini        Generator
	history       *HistoryRepository
	status        StatusBroadcaster
	uploadDir     string
	systemMessage string
	maxImageSize  int64
	logger        *zap.Logger
}

// NewAnalyzeService создает сервис анализа
func NewAnalyzeService(
	ocr TextExtractor,
	gemini Generator,
	history *HistoryRepository,
	status StatusBroadcaster,
	uploadDir string,
	systemMessage string,
	maxImageSize int64,
	logger *zap.Logger,
) *AnalyzeService {
	return &AnalyzeService{
		ocr:           ocr,
		gemini:        gemini,
		history:       history,
		status:        status,
		uploadDir:     uploadDir,
		systemMessage: systemMessage,
		maxImageSize:  maxImageSize,
		logger:        logger,
	}
}

// Analyze обрабатывает один data URL и возвращает извлеченный текст
// плюс ответ Gemini. Ошибка Gemini не фатальна: поле остается null
func (s *AnalyzeService) Analyze(ctx context.Context, dataURL string) (*types.AnalyzeResponse, error) {
	if dataURL == "" {
		return nil, ErrNoImage
	}

	imageBytes, err := decodeDataURL(dataURL)
	if err != nil {
		return nil, err
	}
	if s.maxImageSize > 0 && int64(len(imageBytes)) > s.maxImageSize {
		return nil, fmt.Errorf("%w: image exceeds %d bytes", ErrInvalidImage, s.maxImageSize)
	}

	s.broadcast("received", fmt.Sprintf("image received (%d bytes)", len(imageBytes)))

	// временный файл, как в исходном пайплайне; имя уникальное,
	// чтобы параллельные запросы не затирали друг друга
	imagePath, err := s.writeTempImage(imageBytes)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := os.Remove(imagePath); err != nil {
			s.logger.Warn("failed to remove temp image", zap.String("path", imagePath), zap.Error(err))
		}
	}()

	text, err := s.ocr.ExtractText(ctx, imageBytes)
	if err != nil {
		s.broadcast("failed", "ocr error")
		return nil, fmt.Errorf("extract text: %w", err)
	}
	if text == "" {
		s.broadcast("failed", "no text extracted")
		return nil, ErrNoText
	}
	s.broadcast("ocr_done", text)

	resp := &types.AnalyzeResponse{ExtractedText: text}

	if s.gemini != nil {
		answer, err := s.gemini.Generate(ctx, BuildPrompt(s.systemMessage, text))
		if err != nil {
			// ответ модели опционален: клиент получает null
			s.logger.Warn("gemini generation failed", zap.Error(err))
		} else {
			resp.GeminiResponse = &answer
			s.broadcast("gemini_done", "")
		}
	}

	s.record(ctx, int64(len(imageBytes)), resp)

	return resp, nil
}

// decodeDataURL достает байты из "data:image/jpeg;base64,<...>"
func decodeDataURL(dataURL string) ([]byte, error) {
	idx := strings.Index(dataURL, ",")
	if idx < 0 {
		return nil, fmt.Errorf("%w: missing base64 payload", ErrInvalidImage)
	}

	imageBytes, err := base64.StdEncoding.DecodeString(dataURL[idx+1:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if len(imageBytes) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}
	return imageBytes, nil
}

// writeTempImage сохраняет изображение в каталог загрузок
func (s *AnalyzeService) writeTempImage(imageBytes []byte) (string, error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	imagePath := filepath.Join(s.uploadDir, uuid.NewString()+".jpg")
	if err := os.WriteFile(imagePath, imageBytes, 0o644); err != nil {
		return "", fmt.Errorf("write temp image: %w", err)
	}
	return imagePath, nil
}

// record пишет запись истории; сбой записи не ломает запрос
func (s *AnalyzeService) record(ctx context.Context, imageBytes int64, resp *types.AnalyzeResponse) {
	if s.history == nil {
		return
	}

	rec := &types.AnalysisRecord{
		ID:            uuid.NewString(),
		ImageBytes:    imageBytes,
		ExtractedText: resp.ExtractedText,
	}
	if resp.GeminiResponse != nil {
		rec.GeminiResponse = *resp.GeminiResponse
	}

	if err := s.history.Save(ctx, rec); err != nil {
		s.logger.Warn("failed to record analysis", zap.Error(err))
	}
}

// broadcast шлет событие, если хаб подключен
func (s *AnalyzeService) broadcast(stage, message string) {
	if s.status == nil {
		return
	}
	s.status.Broadcast(stage, message)
}
