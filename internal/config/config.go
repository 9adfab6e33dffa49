package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config представляет конфигурацию приложения
type Config struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// Upload
	Upload struct {
		Dir          string `yaml:"dir"`
		MaxImageSize int64  `yaml:"max_image_size"`
	} `yaml:"upload"`

	// OCR (Amazon Rekognition)
	OCR struct {
		Region        string   `yaml:"region"`
		MinConfidence float32  `yaml:"min_confidence"` // порог в процентах, 0-100
		Languages     []string `yaml:"languages"`      // только для промпта, Rekognition определяет язык сам
	} `yaml:"ocr"`

	// Gemini
	Gemini struct {
		Model         string   `yaml:"model"`
		ListingFields []string `yaml:"listing_fields"`
		SystemMessage string   `yaml:"system_message"`
	} `yaml:"gemini"`

	// History (sqlite)
	History struct {
		Path  string `yaml:"path"`
		Limit int    `yaml:"limit"`
	} `yaml:"history"`

	// Logging
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
}

// LoadConfig загружает конфигурацию из файла
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := GetDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет границы значений
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be 1-65535, got %d", c.Port)
	}
	if c.OCR.MinConfidence < 0 || c.OCR.MinConfidence > 100 {
		return fmt.Errorf("ocr.min_confidence must be 0-100, got %.1f", c.OCR.MinConfidence)
	}
	if c.Upload.MaxImageSize <= 0 {
		return fmt.Errorf("upload.max_image_size must be positive")
	}
	return nil
}

// GetDefaultConfig возвращает конфигурацию по умолчанию
func GetDefaultConfig() *Config {
	cfg := &Config{
		Host: "0.0.0.0",
		Port: 8080,
	}

	cfg.Upload.Dir = "uploaded_images"
	cfg.Upload.MaxImageSize = 10 * 1024 * 1024 // 10MB

	cfg.OCR.Region = "us-east-1"
	cfg.OCR.MinConfidence = 70.0
	cfg.OCR.Languages = []string{"en", "te"}

	cfg.Gemini.Model = "gemini-1.5-flash"
	cfg.Gemini.ListingFields = []string{"Product Name", "Description", "Usage Instructions"}
	cfg.Gemini.SystemMessage = "Act as an agriculture expert. Provide all details about the product " +
		"including its uses, chemical composition, and benefits. " +
		"Here is the product information: "

	cfg.History.Path = "pest_finder.db"
	cfg.History.Limit = 50

	cfg.Logging.Level = "info"
	cfg.Logging.Format = "json"

	return cfg
}
