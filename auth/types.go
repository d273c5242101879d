package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Имена переменных окружения, из которых EnvProvider берет ключи.
const (
	EnvAccessKeyID     = "AWS_ACCESS_KEY_ID"
	EnvSecretAccessKey = "AWS_SECRET_ACCESS_KEY"
)

// Credentials - пара ключей, которой подписывается запрос.
// Значение неизменяемо и принадлежит вызову, который его запросил.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
}

// String не раскрывает секретный ключ в логах
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{AccessKeyID: %s, SecretAccessKey: <redacted>}", c.AccessKeyID)
}

// Provider - универсальный интерфейс источника учетных данных.
// Вызывается на каждую операцию клиента; реализация может кэшировать
// результат, но обязана сама синхронизировать свое состояние.
type Provider interface {
	GetCredentials(ctx context.Context) (Credentials, error)
}

// ProviderFunc позволяет использовать функцию как Provider
type ProviderFunc func(ctx context.Context) (Credentials, error)

// GetCredentials реализует Provider
func (f ProviderFunc) GetCredentials(ctx context.Context) (Credentials, error) {
	return f(ctx)
}

// Пользовательские ошибки для точной диагностики
var (
	// ErrMissingCredentials - источник не содержит учетных данных.
	ErrMissingCredentials = errors.New("could not find AWS credentials")
	// ErrInvalidConfig - некорректная конфигурация провайдера.
	ErrInvalidConfig = errors.New("invalid credentials provider config")
)

// MissingCredentialsError перечисляет отсутствующие переменные окружения.
type MissingCredentialsError struct {
	Variables []string
}

func (e *MissingCredentialsError) Error() string {
	return fmt.Sprintf("%s: missing %s", ErrMissingCredentials, strings.Join(e.Variables, ", "))
}

// Is позволяет проверять ошибку через errors.Is(err, ErrMissingCredentials)
func (e *MissingCredentialsError) Is(target error) bool {
	return target == ErrMissingCredentials
}

// CredentialsError - провайдер не смог выдать учетные данные.
type CredentialsError struct {
	Provider string
	Err      error
}

func (e *CredentialsError) Error() string {
	return fmt.Sprintf("credentials provider %s: %v", e.Provider, e.Err)
}

func (e *CredentialsError) Unwrap() error {
	return e.Err
}
