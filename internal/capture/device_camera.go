package capture

import (
	"context"
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// DeviceCamera локальная камера через OpenCV (V4L2 / AVFoundation)
type DeviceCamera struct {
	deviceID int

	mu     sync.Mutex
	webcam *gocv.VideoCapture
}

// NewDeviceCamera создает камеру для устройства с указанным индексом
func NewDeviceCamera(deviceID int) *DeviceCamera {
	return &DeviceCamera{deviceID: deviceID}
}

// Acquire открывает устройство
func (c *DeviceCamera) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.webcam != nil {
		return nil
	}

	webcam, err := gocv.OpenVideoCapture(c.deviceID)
	if err != nil {
		return fmt.Errorf("%w: device %d: %v", ErrCameraUnavailable, c.deviceID, err)
	}

	c.webcam = webcam
	return nil
}

// Frame читает один кадр с устройства
func (c *DeviceCamera) Frame() (image.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.webcam == nil {
		return nil, ErrCameraUnavailable
	}

	mat := gocv.NewMat()
	defer mat.Close()

	if ok := c.webcam.Read(&mat); !ok || mat.Empty() {
		return nil, ErrNoFrame
	}

	img, err := mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("convert frame: %w", err)
	}
	return img, nil
}

// Close освобождает устройство
func (c *DeviceCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.webcam == nil {
		return nil
	}
	err := c.webcam.Close()
	c.webcam = nil
	return err
}
