package capture

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
)

// DataURLPrefix префикс полезной нагрузки, ожидаемый сервером
const DataURLPrefix = "data:image/jpeg;base64,"

// jpegQuality качество сжатия, как у canvas.toDataURL('image/jpeg')
const jpegQuality = 92

// EncodeDataURL кодирует битмап в JPEG data URL.
// Размеры изображения сохраняются как есть
func EncodeDataURL(img image.Image) (string, error) {
	if img == nil {
		return "", fmt.Errorf("encode: nil image")
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}

	return DataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
