package auth

import (
	"context"
	"fmt"
	"time"
)

// Типы провайдеров учетных данных
const (
	ProviderEnv     = "env"
	ProviderStatic  = "static"
	ProviderProfile = "profile"
)

// Config содержит конфигурацию для модуля аутентификации
type Config struct {
	// Provider определяет источник ключей ("env", "static", "profile")
	Provider string `yaml:"provider" json:"provider"`

	// Static содержит ключи для провайдера "static"
	Static *StaticConfig `yaml:"static,omitempty" json:"static,omitempty"`

	// Profile - имя профиля из ~/.aws/config для провайдера "profile"
	Profile string `yaml:"profile,omitempty" json:"profile,omitempty"`

	// CacheTTL - время жизни кэша учетных данных (0 - без кэша)
	CacheTTL time.Duration `yaml:"cache_ttl" json:"cache_ttl"`
}

// StaticConfig содержит фиксированную пару ключей
type StaticConfig struct {
	// AccessKey - публичный ключ доступа
	AccessKey string `yaml:"access_key" json:"access_key"`

	// SecretKey - секретный ключ
	SecretKey string `yaml:"secret_key" json:"secret_key"`
}

// DefaultConfig возвращает конфигурацию по умолчанию: ключи из окружения, без кэша
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderEnv,
	}
}

// Validate проверяет корректность конфигурации аутентификации
func (c *Config) Validate() error {
	if c.CacheTTL < 0 {
		return fmt.Errorf("%w: cache_ttl must not be negative", ErrInvalidConfig)
	}

	switch c.Provider {
	case ProviderEnv, ProviderProfile:
		return nil
	case ProviderStatic:
		if c.Static == nil {
			return fmt.Errorf("%w: static provider requires a static section", ErrInvalidConfig)
		}
		if c.Static.AccessKey == "" {
			return fmt.Errorf("%w: static.access_key cannot be empty", ErrInvalidConfig)
		}
		if c.Static.SecretKey == "" {
			return fmt.Errorf("%w: static.secret_key cannot be empty", ErrInvalidConfig)
		}
		return nil
	case "":
		return fmt.Errorf("%w: provider cannot be empty", ErrInvalidConfig)
	default:
		return fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, c.Provider)
	}
}

// NewProviderFromConfig создает провайдер на основе конфигурации
func NewProviderFromConfig(ctx context.Context, config *Config) (Provider, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var provider Provider
	switch config.Provider {
	case ProviderEnv:
		provider = NewEnvProvider()
	case ProviderStatic:
		provider = NewStaticProvider(config.Static.AccessKey, config.Static.SecretKey)
	case ProviderProfile:
		p, err := NewProfileProvider(ctx, config.Profile)
		if err != nil {
			return nil, err
		}
		provider = p
	}

	if config.CacheTTL > 0 {
		provider = NewCachingProvider(provider, config.CacheTTL)
	}
	return provider, nil
}
