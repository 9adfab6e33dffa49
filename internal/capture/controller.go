package capture

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/draw"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/ajay26apr/Pest-finder/internal/types"
)

// Controller связывает камеру, битмап-поверхность и отправку на сервер.
//
// Состояние намеренно маленькое: hasCapturedFrame (переключается один раз,
// capture -> submit становится доступен) и одна ячейка активного запроса.
// Новый Submit отменяет предыдущий, поэтому рендерится не более одного
// «актуального» ответа. Снимок во время активного запроса его не отменяет
type Controller struct {
	camera     Camera
	endpoint   string
	httpClient *http.Client
	renderer   *Renderer
	logger     *zap.Logger

	mu               sync.Mutex
	surface          *image.RGBA
	hasCapturedFrame bool
	cancelInflight   context.CancelFunc
	submitSeq        uint64
}

// NewController создает контроллер.
// endpoint — корень сервера, принимающий POST {"image": <data URL>}.
// httpClient может быть nil: тогда используется клиент без таймаута,
// как у fetch() в исходном потоке
func NewController(camera Camera, endpoint string, renderer *Renderer, logger *zap.Logger, httpClient *http.Client) *Controller {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if renderer == nil {
		renderer = NewRenderer()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		camera:     camera,
		endpoint:   endpoint,
		httpClient: httpClient,
		renderer:   renderer,
		logger:     logger,
	}
}

// Renderer возвращает область результатов контроллера
func (c *Controller) Renderer() *Renderer {
	return c.renderer
}

// AcquireCamera запрашивает доступ к камере.
// Отказ не фатален: ошибка уходит в лог, поток остается без кадров
func (c *Controller) AcquireCamera(ctx context.Context) error {
	if c.camera == nil {
		c.logger.Warn("camera acquisition failed", zap.Error(ErrCameraUnavailable))
		return ErrCameraUnavailable
	}
	if err := c.camera.Acquire(ctx); err != nil {
		c.logger.Warn("camera acquisition failed", zap.Error(err))
		return err
	}
	c.logger.Info("camera acquired")
	return nil
}

// CaptureFrame копирует текущий кадр на битмап-поверхность.
// Поверхность пересоздается под нативный размер кадра; повторный снимок
// просто перезаписывает ее. Если кадра еще нет, поверхность становится
// пустой нулевого размера — это не ошибка
func (c *Controller) CaptureFrame() {
	var frame image.Image
	if c.camera != nil {
		f, err := c.camera.Frame()
		if err != nil {
			c.logger.Debug("no frame to capture", zap.Error(err))
		} else {
			frame = f
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if frame == nil {
		c.surface = image.NewRGBA(image.Rect(0, 0, 0, 0))
	} else {
		b := frame.Bounds()
		c.surface = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(c.surface, c.surface.Bounds(), frame, b.Min, draw.Src)
	}
	c.hasCapturedFrame = true
}

// SubmitVisible сообщает, доступна ли отправка.
// false до первого снимка, после — всегда true
func (c *Controller) SubmitVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasCapturedFrame
}

// SurfaceSize возвращает текущие размеры битмап-поверхности
func (c *Controller) SurfaceSize() (width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.surface == nil {
		return 0, 0
	}
	b := c.surface.Bounds()
	return b.Dx(), b.Dy()
}

// Submit кодирует поверхность и отправляет ее одним POST запросом.
// Кодирование синхронное: содержимое поверхности не может измениться
// между чтением и сериализацией. Предыдущий активный запрос отменяется
// до отправки нового. Ошибки сети и разбора не повторяются: они
// возвращаются вызывающему, область результатов не меняется
func (c *Controller) Submit(ctx context.Context) (*types.AnalyzeResponse, error) {
	c.mu.Lock()
	if !c.hasCapturedFrame {
		c.mu.Unlock()
		return nil, ErrNothingCaptured
	}

	payload, err := EncodeDataURL(c.surface)
	if err != nil {
		c.mu.Unlock()
		c.logger.Warn("encode failed", zap.Error(err))
		return nil, err
	}

	// single-slot: новый запрос вытесняет предыдущий
	if c.cancelInflight != nil {
		c.cancelInflight()
	}
	reqCtx, cancel := context.WithCancel(ctx)
	c.cancelInflight = cancel
	c.submitSeq++
	seq := c.submitSeq
	c.mu.Unlock()

	defer cancel()
	defer c.release(seq)

	body, err := json.Marshal(types.AnalyzeRequest{Image: payload})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("submit failed", zap.Error(err))
		return nil, fmt.Errorf("submit: %w", err)
	}
	defer resp.Body.Close()

	var result types.AnalyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.logger.Warn("malformed response", zap.Error(err))
		return nil, fmt.Errorf("decode response: %w", err)
	}

	// рендерим, только если запрос не был вытеснен более новым
	c.mu.Lock()
	current := seq == c.submitSeq
	c.mu.Unlock()
	if current {
		c.renderer.Render(&result)
	}

	return &result, nil
}

// release освобождает ячейку активного запроса, если она все еще наша
func (c *Controller) release(seq uint64) {
	c.mu.Lock()
	if seq == c.submitSeq {
		c.cancelInflight = nil
	}
	c.mu.Unlock()
}

// Close освобождает камеру
func (c *Controller) Close() error {
	if c.camera == nil {
		return nil
	}
	return c.camera.Close()
}
