package capture

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"sync"
)

// SnapshotCamera сетевая камера, отдающая кадр по HTTP GET
// (IP-камеры, /snapshot эндпоинты)
type SnapshotCamera struct {
	url    string
	client *http.Client

	mu       sync.Mutex
	acquired bool
}

// NewSnapshotCamera создает камеру для указанного snapshot URL
func NewSnapshotCamera(url string, client *http.Client) *SnapshotCamera {
	if client == nil {
		client = http.DefaultClient
	}
	return &SnapshotCamera{url: url, client: client}
}

// Acquire проверяет доступность камеры одним пробным запросом
func (c *SnapshotCamera) Acquire(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCameraUnavailable, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCameraUnavailable, err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: snapshot returned %d", ErrCameraUnavailable, resp.StatusCode)
	}

	c.mu.Lock()
	c.acquired = true
	c.mu.Unlock()
	return nil
}

// Frame запрашивает и декодирует текущий кадр
func (c *SnapshotCamera) Frame() (image.Image, error) {
	c.mu.Lock()
	acquired := c.acquired
	c.mu.Unlock()
	if !acquired {
		return nil, ErrCameraUnavailable
	}

	resp, err := c.client.Get(c.url)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: snapshot returned %d", ErrNoFrame, resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return img, nil
}

// Close для HTTP камеры ничего не держит
func (c *SnapshotCamera) Close() error {
	c.mu.Lock()
	c.acquired = false
	c.mu.Unlock()
	return nil
}
