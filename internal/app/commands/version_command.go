package commands

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// Информация о сборке, переопределяется через -ldflags
var (
	Version   = "1.0.0"
	Commit    = "none"
	BuildDate = "unknown"
)

// GetVersionCommand возвращает команду версии
func GetVersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information",
		Action: func(c *cli.Context) error {
			fmt.Println("Pest-finder")
			fmt.Printf("Version:    %s\n", Version)
			fmt.Printf("Commit:     %s\n", Commit)
			fmt.Printf("Build Date: %s\n", BuildDate)
			return nil
		},
	}
}
