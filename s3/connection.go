package s3

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/minio/minio-go/v7/pkg/s3utils"

	"s3client/auth"
)

// Connection - клиент S3. На каждый вызов заново запрашивает учетные
// данные, строит дескриптор, выполняет его и разбирает ответ.
// Первая ошибка любого шага возвращается без изменений.
type Connection struct {
	cfg        *Config
	provider   auth.Provider
	dispatcher *Dispatcher
}

// NewConnection создает клиент. nil cfg означает DefaultConfig.
func NewConnection(cfg *Config, provider auth.Provider, d *Dispatcher) (*Connection, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid s3 config: %w", err)
	}
	if provider == nil {
		return nil, fmt.Errorf("credentials provider is required")
	}
	if d == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}
	return &Connection{cfg: cfg, provider: provider, dispatcher: d}, nil
}

// ListBuckets возвращает все бакеты
func (c *Connection) ListBuckets(ctx context.Context) (*ListBucketsResult, error) {
	return execute[*ListBucketsResult](ctx, c, ListBucketsRequest{})
}

// ListObjects возвращает одну страницу списка объектов бакета
func (c *Connection) ListObjects(ctx context.Context, req ListObjectsRequest) (*ListObjectsResult, error) {
	if err := checkBucketName(req.Bucket); err != nil {
		return nil, err
	}
	return execute[*ListObjectsResult](ctx, c, req)
}

// GetObject возвращает содержимое объекта. Ключ должен быть корректным UTF-8.
func (c *Connection) GetObject(ctx context.Context, bucket, key string) (*GetObjectResult, error) {
	if err := checkBucketName(bucket); err != nil {
		return nil, err
	}
	if !utf8.ValidString(key) {
		return nil, &InvalidArgumentError{Argument: "key", Value: key, Err: ErrInvalidKeyEncoding}
	}
	return execute[*GetObjectResult](ctx, c, GetObjectRequest{Bucket: bucket, Key: key})
}

func execute[T any](ctx context.Context, c *Connection, op Operation[T]) (T, error) {
	var zero T

	creds, err := c.provider.GetCredentials(ctx)
	if err != nil {
		return zero, err
	}

	resp, err := c.dispatcher.Execute(ctx, op.Request(c.cfg), creds)
	if err != nil {
		return zero, err
	}

	return op.Unmarshal(resp)
}

// checkBucketName отсекает имена, которые попали бы в путь запроса
// не в том виде, в каком были подписаны
func checkBucketName(bucket string) error {
	if err := s3utils.CheckValidBucketName(bucket); err != nil {
		return &InvalidArgumentError{Argument: "bucket name", Value: bucket, Err: err}
	}
	return nil
}
