package auth

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"

	"s3client/logger"
)

// SDKProvider адаптирует aws.CredentialsProvider из AWS SDK к интерфейсу Provider.
// Через него подключаются статические ключи и профили из shared config.
type SDKProvider struct {
	name  string
	inner aws.CredentialsProvider
}

// NewSDKProvider оборачивает провайдер SDK. name попадает в ошибки и метрики.
func NewSDKProvider(name string, inner aws.CredentialsProvider) *SDKProvider {
	return &SDKProvider{name: name, inner: inner}
}

// NewStaticProvider создает провайдер с фиксированной парой ключей
func NewStaticProvider(accessKeyID, secretAccessKey string) *SDKProvider {
	return NewSDKProvider(ProviderStatic,
		credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""))
}

// NewProfileProvider загружает цепочку учетных данных SDK для указанного профиля.
// Пустой profile означает профиль по умолчанию.
func NewProfileProvider(ctx context.Context, profile string) (*SDKProvider, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithLogger(logger.NewSmithyLogger(nil)),
	}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, &CredentialsError{Provider: ProviderProfile, Err: err}
	}

	logger.Debug("Loaded shared config for profile %q", profile)
	return NewSDKProvider(ProviderProfile, awsConfig.Credentials), nil
}

// GetCredentials реализует Provider
func (p *SDKProvider) GetCredentials(ctx context.Context) (Credentials, error) {
	creds, err := p.inner.Retrieve(ctx)
	if err != nil {
		logger.Debug("Provider %s failed to retrieve credentials: %v", p.name, err)
		metrics.CredentialsRequestsTotal.WithLabelValues(p.name, "error").Inc()
		return Credentials{}, &CredentialsError{Provider: p.name, Err: err}
	}
	if !creds.HasKeys() {
		metrics.CredentialsRequestsTotal.WithLabelValues(p.name, "error").Inc()
		return Credentials{}, &CredentialsError{Provider: p.name, Err: ErrMissingCredentials}
	}

	metrics.CredentialsRequestsTotal.WithLabelValues(p.name, "success").Inc()
	return Credentials{
		AccessKeyID:     creds.AccessKeyID,
		SecretAccessKey: creds.SecretAccessKey,
	}, nil
}

// CachingProvider кэширует результат другого провайдера на время TTL.
// Поверх aws.CredentialsCache, который сам сериализует параллельные обращения.
type CachingProvider struct {
	cache *aws.CredentialsCache
}

// NewCachingProvider оборачивает inner кэшем. Смена секрета в источнике
// становится видна не позже чем через ttl.
func NewCachingProvider(inner Provider, ttl time.Duration) *CachingProvider {
	return &CachingProvider{
		cache: aws.NewCredentialsCache(&expiringProvider{inner: inner, ttl: ttl}),
	}
}

// GetCredentials реализует Provider. Ошибка inner возвращается без изменений.
func (p *CachingProvider) GetCredentials(ctx context.Context) (Credentials, error) {
	creds, err := p.cache.Retrieve(ctx)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{
		AccessKeyID:     creds.AccessKeyID,
		SecretAccessKey: creds.SecretAccessKey,
	}, nil
}

// Invalidate сбрасывает кэш; следующий вызов обратится к inner
func (p *CachingProvider) Invalidate() {
	p.cache.Invalidate()
}

// expiringProvider выдает учетные данные inner в форме SDK со сроком годности ttl
type expiringProvider struct {
	inner Provider
	ttl   time.Duration
}

func (e *expiringProvider) Retrieve(ctx context.Context) (aws.Credentials, error) {
	creds, err := e.inner.GetCredentials(ctx)
	if err != nil {
		return aws.Credentials{}, err
	}
	return aws.Credentials{
		AccessKeyID:     creds.AccessKeyID,
		SecretAccessKey: creds.SecretAccessKey,
		Source:          "s3client",
		CanExpire:       true,
		Expires:         time.Now().Add(e.ttl),
	}, nil
}
