package s3

import (
	"fmt"
	"strings"
)

// Параметры подключения по умолчанию
const (
	DefaultHost   = "s3.amazonaws.com"
	DefaultScheme = "https"
	DefaultRegion = "us-east-1"
)

// Config задает, куда отправляются запросы и в каком регионе они подписываются
type Config struct {
	Host   string `yaml:"host"`
	Scheme string `yaml:"scheme"`
	Region string `yaml:"region"`
}

// DefaultConfig возвращает конфигурацию для AWS S3 в us-east-1
func DefaultConfig() *Config {
	return &Config{
		Host:   DefaultHost,
		Scheme: DefaultScheme,
		Region: DefaultRegion,
	}
}

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host is required")
	}
	if strings.Contains(c.Host, "/") {
		return fmt.Errorf("host must not contain a path: %s", c.Host)
	}
	if c.Scheme != "http" && c.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", c.Scheme)
	}
	if c.Region == "" {
		return fmt.Errorf("region is required")
	}
	return nil
}
