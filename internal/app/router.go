package app

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ajay26apr/Pest-finder/internal/gateway"
	"github.com/ajay26apr/Pest-finder/internal/handler"
)

// NewRouter создает новый роутер с настройкой маршрутов
func NewRouter(
	analyzeHandler *handler.AnalyzeHandler,
	historyHandler *handler.HistoryHandler,
	statusHub *gateway.StatusHub,
	staticDir string,
	logger *zap.Logger,
) http.Handler {

	// Режим Gin
	if gin.Mode() == gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			logger.Info("HTTP Request",
				zap.String("method", param.Method),
				zap.String("path", param.Path),
				zap.Int("status", param.StatusCode),
				zap.Duration("latency", param.Latency),
				zap.String("client_ip", param.ClientIP),
			)
			return ""
		},
	}))

	router.Use(gin.Recovery())

	// Страница захвата и статические файлы
	router.Static("/static", staticDir)
	router.GET("/", func(c *gin.Context) {
		c.File(filepath.Join(staticDir, "index.html"))
	})

	// Основной эндпоинт анализа: POST /
	analyzeHandler.RegisterRoutes(router)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "pest-finder",
			"version": "1.0.0",
			"time":    time.Now().Unix(),
		})
	})

	// Websocket статуса пайплайна
	router.GET("/ws/status", gin.WrapH(statusHub))

	// API v1
	apiV1 := router.Group("/api/v1")
	{
		historyHandler.RegisterRoutes(apiV1)

		apiV1.GET("/status", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":    "running",
				"timestamp": time.Now().Unix(),
				"endpoints": []string{
					"/ - POST - Analyze captured image",
					"/api/v1/history - GET - Recent analyses",
					"/api/v1/history/stats - GET - History stats",
					"/ws/status - GET - Pipeline status stream",
				},
			})
		})
	}

	// 404 handler
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "The requested resource was not found",
			"path":    c.Request.URL.Path,
			"suggestions": []string{
				"Check /health for service status",
				"Check /api/v1/status for API status",
			},
		})
	})

	return router
}

// NewTestRouter создает роутер для тестов
func NewTestRouter(
	analyzeHandler *handler.AnalyzeHandler,
	historyHandler *handler.HistoryHandler,
) *gin.Engine {

	gin.SetMode(gin.TestMode)
	router := gin.New()

	analyzeHandler.RegisterRoutes(router)

	apiV1 := router.Group("/api/v1")
	{
		historyHandler.RegisterRoutes(apiV1)
	}

	return router
}
