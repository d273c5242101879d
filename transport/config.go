package transport

import (
	"fmt"
	"time"
)

// Config содержит таймауты HTTP транспорта.
// Клиент сам таймаутов не вводит, все ограничения живут здесь.
type Config struct {
	// Timeout - общий таймаут запроса, включая чтение тела (0 - без ограничения)
	Timeout time.Duration `yaml:"timeout"`

	// TLSHandshakeTimeout - таймаут TLS рукопожатия
	TLSHandshakeTimeout time.Duration `yaml:"tls_handshake_timeout"`

	// ResponseHeaderTimeout - сколько ждать заголовков ответа
	ResponseHeaderTimeout time.Duration `yaml:"response_header_timeout"`
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{
		Timeout:               5 * time.Minute,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
	}
}

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if c.TLSHandshakeTimeout < 0 {
		return fmt.Errorf("tls_handshake_timeout must not be negative")
	}
	if c.ResponseHeaderTimeout < 0 {
		return fmt.Errorf("response_header_timeout must not be negative")
	}
	return nil
}
