package auth

import (
	"context"
	"os"

	"s3client/logger"
)

// LookupFunc - источник именованных значений (по умолчанию os.LookupEnv)
type LookupFunc func(name string) (string, bool)

// EnvProvider читает ключи из переменных окружения
// AWS_ACCESS_KEY_ID и AWS_SECRET_ACCESS_KEY.
type EnvProvider struct {
	lookup LookupFunc
}

// NewEnvProvider создает провайдер поверх окружения процесса
func NewEnvProvider() *EnvProvider {
	return &EnvProvider{lookup: os.LookupEnv}
}

// NewEnvProviderWithLookup создает провайдер с подменяемым источником значений.
// Нужен тестам, чтобы не трогать окружение процесса.
func NewEnvProviderWithLookup(lookup LookupFunc) *EnvProvider {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &EnvProvider{lookup: lookup}
}

// GetCredentials реализует Provider. Пустое значение считается отсутствующим.
func (p *EnvProvider) GetCredentials(ctx context.Context) (Credentials, error) {
	var missing []string

	key, ok := p.lookup(EnvAccessKeyID)
	if !ok || key == "" {
		missing = append(missing, EnvAccessKeyID)
	}
	secret, ok := p.lookup(EnvSecretAccessKey)
	if !ok || secret == "" {
		missing = append(missing, EnvSecretAccessKey)
	}

	if len(missing) > 0 {
		logger.Debug("Environment credentials not found: %v", missing)
		metrics.CredentialsRequestsTotal.WithLabelValues(ProviderEnv, "error").Inc()
		return Credentials{}, &MissingCredentialsError{Variables: missing}
	}

	metrics.CredentialsRequestsTotal.WithLabelValues(ProviderEnv, "success").Inc()
	return Credentials{AccessKeyID: key, SecretAccessKey: secret}, nil
}
