package s3

// Operation - дескриптор операции S3 с типом результата T.
// Request строит описание запроса, Unmarshal разбирает успешный ответ.
type Operation[T any] interface {
	Request(cfg *Config) *RequestDescriptor
	Unmarshal(resp *RawResponse) (T, error)
}

// Имена операций в логах и метриках
const (
	OperationListBuckets = "ListBuckets"
	OperationListObjects = "ListObjects"
	OperationGetObject   = "GetObject"
)

func newDescriptor(cfg *Config, operation, path string) *RequestDescriptor {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &RequestDescriptor{
		Operation: operation,
		Method:    MethodGet,
		Scheme:    cfg.Scheme,
		Host:      cfg.Host,
		Path:      path,
		Region:    cfg.Region,
	}
}
