package s3

import (
	"github.com/minio/minio-go/v7/pkg/s3utils"
)

// GetObjectRequest - чтение содержимого объекта
type GetObjectRequest struct {
	Bucket string
	Key    string
}

// Request реализует Operation. Ключ кодируется по сегментам, слэши сохраняются.
func (r GetObjectRequest) Request(cfg *Config) *RequestDescriptor {
	return newDescriptor(cfg, OperationGetObject, "/"+r.Bucket+"/"+s3utils.EncodePath(r.Key))
}

// Unmarshal возвращает тело ответа без преобразований
func (GetObjectRequest) Unmarshal(resp *RawResponse) (*GetObjectResult, error) {
	return &GetObjectResult{Content: resp.Body}, nil
}
