package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"s3client/auth"
	"s3client/logger"
	"s3client/monitoring"
	"s3client/s3"
	"s3client/transport"
)

// AppConfig содержит полную конфигурацию приложения
type AppConfig struct {
	// Конфигурация логирования
	Logging LoggingConfig `yaml:"logging"`

	// Источник учетных данных
	Auth auth.Config `yaml:"auth"`

	// Адрес и регион S3
	S3 s3.Config `yaml:"s3"`

	// Таймауты HTTP транспорта
	Transport transport.Config `yaml:"transport"`

	// Конфигурация мониторинга
	Monitoring monitoring.Config `yaml:"monitoring"`
}

// LoggingConfig содержит конфигурацию логирования
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultAppConfig возвращает конфигурацию по умолчанию
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Logging: LoggingConfig{
			Level: "warn",
		},
		Auth:       *auth.DefaultConfig(),
		S3:         *s3.DefaultConfig(),
		Transport:  *transport.DefaultConfig(),
		Monitoring: *monitoring.DefaultConfig(),
	}
}

// LoadConfig загружает конфигурацию из файла
func LoadConfig(filename string) (*AppConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	// Начинаем с конфигурации по умолчанию
	config := DefaultAppConfig()

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate проверяет корректность конфигурации
func (c *AppConfig) Validate() error {
	if !logger.IsValidLevel(c.Logging.Level) {
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}

	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("auth config: %w", err)
	}

	if err := c.S3.Validate(); err != nil {
		return fmt.Errorf("s3 config: %w", err)
	}

	if err := c.Transport.Validate(); err != nil {
		return fmt.Errorf("transport config: %w", err)
	}

	if err := c.Monitoring.Validate(); err != nil {
		return fmt.Errorf("monitoring config: %w", err)
	}

	return nil
}

// SaveConfig сохраняет конфигурацию в файл (для генерации примера)
func (c *AppConfig) SaveConfig(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", filename, err)
	}

	return nil
}
