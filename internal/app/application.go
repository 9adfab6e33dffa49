package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/ajay26apr/Pest-finder/internal/config"
	"github.com/ajay26apr/Pest-finder/internal/controller"
	"github.com/ajay26apr/Pest-finder/internal/gateway"
	"github.com/ajay26apr/Pest-finder/internal/handler"
)

// Application - основное приложение
type Application struct {
	config         *config.Config
	logger         *zap.Logger
	router         http.Handler
	server         *http.Server
	analyzeService *controller.AnalyzeService
	gemini         *controller.GeminiService
	history        *controller.HistoryRepository
	statusHub      *gateway.StatusHub
}

// NewApplication создает приложение со всеми сервисами.
// Gemini и история опциональны: без ключа или базы сервер продолжает
// работать, соответствующие части ответа просто пустые
func NewApplication(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Application, error) {
	statusHub := gateway.NewStatusHub(logger)

	// OCR: Amazon Rekognition
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.OCR.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	ocrService := controller.NewOCRService(
		rekognition.NewFromConfig(awsCfg),
		cfg.OCR.MinConfidence,
		logger,
	)

	// Gemini
	var geminiService *controller.GeminiService
	var generator controller.Generator
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		g, err := controller.NewGeminiService(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.ListingFields, logger)
		if err != nil {
			logger.Warn("gemini client unavailable, responses will have gemini_response=null", zap.Error(err))
		} else {
			geminiService = g
			generator = g
		}
	} else {
		logger.Warn("GEMINI_API_KEY is not set, responses will have gemini_response=null")
	}

	// История анализов
	history, err := controller.NewHistoryRepository(cfg.History.Path)
	if err != nil {
		logger.Warn("history disabled", zap.Error(err))
		history = nil
	}

	// Сервис анализа
	analyzeService := controller.NewAnalyzeService(
		ocrService,
		generator,
		history,
		statusHub,
		cfg.Upload.Dir,
		cfg.Gemini.SystemMessage,
		cfg.Upload.MaxImageSize,
		logger,
	)

	// Хендлеры
	analyzeHandler := handler.NewAnalyzeHandler(logger, analyzeService)
	historyHandler := handler.NewHistoryHandler(logger, history, cfg.History.Limit)

	// Роутер
	router := NewRouter(analyzeHandler, historyHandler, statusHub, "./static", logger)

	// Настраиваем HTTP сервер; CORS поверх роутера
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: cors.AllowAll().Handler(router),
	}

	return &Application{
		config:         cfg,
		logger:         logger,
		router:         router,
		server:         server,
		analyzeService: analyzeService,
		gemini:         geminiService,
		history:        history,
		statusHub:      statusHub,
	}, nil
}

// Run запускает сервер и блокируется до сигнала завершения
func (app *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		app.logger.Info("🚀 Запуск HTTP сервера",
			zap.String("address", fmt.Sprintf("http://%s", app.server.Addr)))

		if err := app.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	app.logger.Info("✅ Сервис запущен")
	app.logger.Info(fmt.Sprintf("   Страница захвата:  http://%s/", app.server.Addr))
	app.logger.Info(fmt.Sprintf("   Анализ:            POST http://%s/", app.server.Addr))
	app.logger.Info(fmt.Sprintf("   Health check:      http://%s/health", app.server.Addr))

	select {
	case <-ctx.Done():
		app.logger.Info("📴 Получен сигнал завершения...")
	case err := <-errChan:
		app.logger.Error("HTTP сервер завершился с ошибкой", zap.Error(err))
		app.Close()
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("Ошибка при остановке HTTP сервера", zap.Error(err))
	}

	app.Close()
	app.logger.Info("✅ Сервис остановлен корректно")
	return nil
}

// Stop останавливает сервер без ожидания активных запросов
func (app *Application) Stop() error {
	app.logger.Info("Stopping application")
	return app.server.Close()
}

// Close освобождает внешние клиенты
func (app *Application) Close() {
	if app.gemini != nil {
		if err := app.gemini.Close(); err != nil {
			app.logger.Warn("failed to close gemini client", zap.Error(err))
		}
	}
	if app.history != nil {
		if err := app.history.Close(); err != nil {
			app.logger.Warn("failed to close history db", zap.Error(err))
		}
	}
}

// GetRouter возвращает роутер
func (app *Application) GetRouter() http.Handler {
	return app.router
}
