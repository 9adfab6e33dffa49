package capture

import (
	"context"
	"errors"
	"image"
)

// Ошибки камеры и контроллера
var (
	// ErrCameraUnavailable камера не открылась (нет устройства, нет прав)
	ErrCameraUnavailable = errors.New("camera unavailable")
	// ErrNoFrame камера открыта, но текущего кадра нет
	ErrNoFrame = errors.New("no frame available")
	// ErrNothingCaptured отправка до первого снимка
	ErrNothingCaptured = errors.New("nothing captured yet")
)

// Camera абстракция источника видеокадров.
// Реализации: DeviceCamera (gocv), SnapshotCamera (HTTP)
type Camera interface {
	// Acquire открывает поток камеры. Блокирует не дольше ctx
	Acquire(ctx context.Context) error
	// Frame возвращает текущий кадр потока
	Frame() (image.Image, error)
	// Close освобождает устройство
	Close() error
}
