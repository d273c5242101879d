package monitoring

import (
	"fmt"
	"time"
)

// Config содержит конфигурацию для модуля мониторинга.
// Клиент живет недолго, поэтому метрики можно не только отдавать по HTTP,
// но и записать в textfile для node_exporter при завершении.
type Config struct {
	// Enabled определяет, включен ли мониторинг
	Enabled bool `yaml:"enabled"`

	// ListenAddress - адрес для HTTP сервера метрик (например, ":9091").
	// Пустая строка отключает HTTP сервер.
	ListenAddress string `yaml:"listen_address"`

	// MetricsPath - путь для эндпоинта метрик (по умолчанию "/metrics")
	MetricsPath string `yaml:"metrics_path"`

	// ReadTimeout - таймаут чтения для HTTP сервера метрик
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout - таймаут записи для HTTP сервера метрик
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// TextfilePath - файл, в который метрики записываются при остановке
	TextfilePath string `yaml:"textfile_path"`
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{
		Enabled:       false,
		ListenAddress: "",
		MetricsPath:   "/metrics",
		ReadTimeout:   30 * time.Second,
		WriteTimeout:  30 * time.Second,
		TextfilePath:  "",
	}
}

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil // Если мониторинг отключен, валидация не нужна
	}

	if c.ListenAddress == "" && c.TextfilePath == "" {
		return fmt.Errorf("listen_address or textfile_path must be set when monitoring is enabled")
	}

	if c.ListenAddress == "" {
		return nil
	}

	if c.MetricsPath == "" {
		return fmt.Errorf("metrics_path cannot be empty")
	}

	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read_timeout must be positive")
	}

	if c.WriteTimeout <= 0 {
		return fmt.Errorf("write_timeout must be positive")
	}

	return nil
}
