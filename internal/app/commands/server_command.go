package commands

import (
	"context"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/ajay26apr/Pest-finder/internal/app"
)

// GetServerCommand возвращает команду для запуска сервера
func GetServerCommand() *cli.Command {
	return &cli.Command{
		Name:  "server",
		Usage: "Start Pest-finder server",
		Description: `Start the HTTP server: capture page, POST / analysis endpoint,
history API and the pipeline status websocket.

Examples:
  pest-finder server --port 8080
  pest-finder server --host 127.0.0.1 --port 8980`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Value:   8080,
				Usage:   "Server port",
			},
			&cli.StringFlag{
				Name:  "host",
				Value: "0.0.0.0",
				Usage: "Server host",
			},
		},
		Action: func(c *cli.Context) error {
			ctx, err := NewCommandContext(c)
			if err != nil {
				return err
			}
			defer ctx.Logger.Sync()

			ctx.Logger.Info("Starting Pest-finder server",
				zap.String("host", ctx.Config.Host),
				zap.Int("port", ctx.Config.Port))

			// Создаем приложение
			application, err := app.NewApplication(context.Background(), ctx.Config, ctx.Logger)
			if err != nil {
				return err
			}

			// Запускаем сервер
			return application.Run()
		},
	}
}
