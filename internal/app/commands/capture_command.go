package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/ajay26apr/Pest-finder/internal/capture"
)

// GetCaptureCommand возвращает команду захвата и отправки кадра
func GetCaptureCommand() *cli.Command {
	return &cli.Command{
		Name:  "capture",
		Usage: "Capture a camera frame and submit it for analysis",
		Description: `Acquire a camera, capture one frame onto the bitmap surface,
encode it as a JPEG data URL and submit it to the server root endpoint.

Examples:
  pest-finder capture --server http://localhost:8080
  pest-finder capture --device 1
  pest-finder capture --snapshot-url http://camera.local/snapshot.jpg`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Value:   "http://localhost:8080",
				Usage:   "Pest-finder server URL",
			},
			&cli.IntFlag{
				Name:    "device",
				Aliases: []string{"d"},
				Value:   0,
				Usage:   "Local camera device index",
			},
			&cli.StringFlag{
				Name:  "snapshot-url",
				Usage: "HTTP snapshot camera URL (overrides --device)",
			},
			&cli.BoolFlag{
				Name:  "html",
				Usage: "Print the rendered results fragment instead of plain text",
			},
		},
		Action: func(c *cli.Context) error {
			ctx, err := NewCommandContext(c)
			if err != nil {
				return err
			}
			defer ctx.Logger.Sync()

			var camera capture.Camera
			if snapshotURL := c.String("snapshot-url"); snapshotURL != "" {
				camera = capture.NewSnapshotCamera(snapshotURL, nil)
			} else {
				camera = capture.NewDeviceCamera(c.Int("device"))
			}

			endpoint := strings.TrimRight(c.String("server"), "/") + "/"
			controller := capture.NewController(camera, endpoint, nil, ctx.Logger, nil)
			defer controller.Close()

			runCtx := context.Background()

			// В странице отказ камеры молча глушится; в CLI без кадра
			// продолжать нечем, поэтому ошибка уходит наверх
			if err := controller.AcquireCamera(runCtx); err != nil {
				return err
			}

			controller.CaptureFrame()
			width, height := controller.SurfaceSize()
			ctx.Logger.Info("frame captured",
				zap.Int("width", width),
				zap.Int("height", height))

			resp, err := controller.Submit(runCtx)
			if err != nil {
				return err
			}

			if c.Bool("html") {
				fmt.Println(controller.Renderer().HTML())
				return nil
			}

			if resp.Error != "" {
				fmt.Printf("Server error: %s\n", resp.Error)
				return nil
			}
			if resp.ExtractedText != "" {
				fmt.Printf("Extracted Text:\n%s\n", resp.ExtractedText)
			}
			if resp.GeminiResponse != nil && *resp.GeminiResponse != "" {
				fmt.Printf("\nGemini Response:\n%s\n", *resp.GeminiResponse)
			}
			return nil
		},
	}
}
