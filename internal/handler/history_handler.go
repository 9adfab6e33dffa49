package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ajay26apr/Pest-finder/internal/controller"
)

// HistoryHandler отдает историю анализов
type HistoryHandler struct {
	logger       *zap.Logger
	repo         *controller.HistoryRepository
	defaultLimit int
}

// NewHistoryHandler создает новый хендлер.
// repo может быть nil, если история отключена
func NewHistoryHandler(logger *zap.Logger, repo *controller.HistoryRepository, defaultLimit int) *HistoryHandler {
	return &HistoryHandler{
		logger:       logger,
		repo:         repo,
		defaultLimit: defaultLimit,
	}
}

// RegisterRoutes регистрирует маршруты
func (h *HistoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/history", h.List)
	router.GET("/history/stats", h.Stats)
}

// List возвращает последние записи, ?limit=N ограничивает выборку
func (h *HistoryHandler) List(c *gin.Context) {
	if h.repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "History is disabled"})
		return
	}

	limit := h.defaultLimit
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid limit",
				"message": "limit must be a positive integer",
			})
			return
		}
		limit = v
	}

	records, err := h.repo.Recent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("failed to load history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"count":     len(records),
		"records":   records,
		"timestamp": time.Now().Unix(),
	})
}

// Stats возвращает агрегаты по истории
func (h *HistoryHandler) Stats(c *gin.Context) {
	if h.repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "History is disabled"})
		return
	}

	stats, err := h.repo.Stats(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to load history stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"stats":     stats,
		"timestamp": time.Now().Unix(),
	})
}
