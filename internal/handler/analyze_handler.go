package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ajay26apr/Pest-finder/internal/controller"
	"github.com/ajay26apr/Pest-finder/internal/types"
)

// Analyzer пайплайн анализа одного изображения
type Analyzer interface {
	Analyze(ctx context.Context, dataURL string) (*types.AnalyzeResponse, error)
}

// AnalyzeHandler обрабатывает POST / с изображением
type AnalyzeHandler struct {
	logger  *zap.Logger
	service Analyzer
}

// NewAnalyzeHandler создает новый хендлер
func NewAnalyzeHandler(logger *zap.Logger, service Analyzer) *AnalyzeHandler {
	return &AnalyzeHandler{
		logger:  logger,
		service: service,
	}
}

// RegisterRoutes регистрирует маршруты
func (h *AnalyzeHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/", h.Analyze)
}

// Analyze принимает {"image": <data URL>} и возвращает
// {"extracted_text": ..., "gemini_response": ...}
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var req types.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid analyze request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image data provided"})
		return
	}
	if req.Image == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image data provided"})
		return
	}

	resp, err := h.service.Analyze(c.Request.Context(), req.Image)
	switch {
	case errors.Is(err, controller.ErrNoImage):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image data provided"})
		return
	case errors.Is(err, controller.ErrInvalidImage):
		h.logger.Warn("invalid image payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image data"})
		return
	case errors.Is(err, controller.ErrNoText):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No text extracted from the image"})
		return
	case err != nil:
		h.logger.Error("analyze pipeline failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to process image",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}
