package commands

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ajay26apr/Pest-finder/internal/config"
)

// CommandContext содержит общий контекст для всех команд
type CommandContext struct {
	Logger *zap.Logger
	Config *config.Config
}

// NewCommandContext создает новый контекст команды
func NewCommandContext(c *cli.Context) (*CommandContext, error) {
	// Настраиваем логгер
	logger := createLogger(c.String("log-level"))

	// Загружаем конфигурацию
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		logger.Warn("Failed to load config, using defaults",
			zap.String("path", c.String("config")),
			zap.Error(err))
		cfg = config.GetDefaultConfig()
	}

	// Переопределения из флагов
	if c.IsSet("port") {
		cfg.Port = c.Int("port")
	}
	if c.IsSet("host") {
		cfg.Host = c.String("host")
	}

	return &CommandContext{
		Logger: logger,
		Config: cfg,
	}, nil
}

// createLogger создает логгер
func createLogger(level string) *zap.Logger {
	var logLevel zapcore.Level
	switch level {
	case "debug":
		logLevel = zap.DebugLevel
	case "warn":
		logLevel = zap.WarnLevel
	case "error":
		logLevel = zap.ErrorLevel
	default:
		logLevel = zap.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(logLevel)

	logger, _ := config.Build()
	return logger
}
