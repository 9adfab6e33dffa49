package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	rektypes "github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"go.uber.org/zap"
)

// TextDetectionAPI часть клиента Rekognition, которую использует OCR
type TextDetectionAPI interface {
	DetectText(ctx context.Context, params *rekognition.DetectTextInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectTextOutput, error)
}

// OCRService извлекает текст из изображения через Rekognition DetectText.
// Строки с уверенностью ниже порога отбрасываются
type OCRService struct {
	client        TextDetectionAPI
	minConfidence float32 // в процентах, 0-100
	logger        *zap.Logger
}

// NewOCRService создает OCR сервис
func NewOCRService(client TextDetectionAPI, minConfidence float32, logger *zap.Logger) *OCRService {
	return &OCRService{
		client:        client,
		minConfidence: minConfidence,
		logger:        logger,
	}
}

// ExtractText возвращает строки с достаточной уверенностью, склеенные пробелами.
// Пустая строка — валидный результат: текста на снимке не нашлось
func (s *OCRService) ExtractText(ctx context.Context, imageBytes []byte) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("rekognition client is not configured")
	}

	out, err := s.client.DetectText(ctx, &rekognition.DetectTextInput{
		Image: &rektypes.Image{Bytes: imageBytes},
	})
	if err != nil {
		return "", fmt.Errorf("rekognition detect text: %w", err)
	}

	s.logger.Debug("rekognition returned detections",
		zap.Int("count", len(out.TextDetections)))

	// только целые строки: слова дублируют содержимое строк
	var lines []string
	for _, td := range out.TextDetections {
		if td.Type != rektypes.TextTypesLine {
			continue
		}
		if td.DetectedText == nil || td.Confidence == nil {
			continue
		}
		if *td.Confidence < s.minConfidence {
			continue
		}
		lines = append(lines, *td.DetectedText)
	}

	return strings.Join(lines, " "), nil
}
