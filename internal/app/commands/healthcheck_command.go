package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
)

// GetHealthCheckCommand возвращает команду проверки здоровья сервиса
func GetHealthCheckCommand() *cli.Command {
	return &cli.Command{
		Name:  "health-check",
		Usage: "Check that a running server responds on /health",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Value:   "http://localhost:8080",
				Usage:   "Pest-finder server URL",
			},
		},
		Action: func(c *cli.Context) error {
			url := strings.TrimRight(c.String("server"), "/") + "/health"

			client := &http.Client{Timeout: 5 * time.Second}
			resp, err := client.Get(url)
			if err != nil {
				return fmt.Errorf("health check failed: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("health check failed: status %d", resp.StatusCode)
			}

			var body map[string]interface{}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				return fmt.Errorf("health check failed: invalid response: %w", err)
			}

			fmt.Printf("Service is healthy: %v\n", body["status"])
			return nil
		},
	}
}
