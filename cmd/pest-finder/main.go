package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/ajay26apr/Pest-finder/internal/app/commands"
)

func main() {
	// .env с GEMINI_API_KEY и AWS ключами; отсутствие файла не ошибка
	_ = godotenv.Load()

	cliApp := &cli.App{
		Name:  "pest-finder",
		Usage: "Camera capture to OCR + Gemini product analysis",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "./configs/config.yaml",
				Usage:   "Path to config file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
				Usage: "Log level: debug, info, warn, error",
			},
		},
		Commands:       commands.GetCommands(),
		DefaultCommand: "server",
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
