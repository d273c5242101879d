// Package s3 реализует клиент S3 для трех операций: ListBuckets,
// ListObjects и GetObject.
//
// Каждая операция описывается дескриптором, который строит
// RequestDescriptor и разбирает ответ. Dispatcher подписывает и
// отправляет запрос, Connection связывает провайдер учетных данных,
// дескриптор и разбор ответа в один вызов.
package s3

import (
	"s3client/signer"
)

// Method - HTTP метод запроса
type Method int

const (
	MethodGet Method = iota
	MethodHead
	MethodPost
	MethodPut
	MethodDelete
)

// String возвращает имя метода в виде HTTP глагола
func (m Method) String() string {
	switch m {
	case MethodGet:
		return "GET"
	case MethodHead:
		return "HEAD"
	case MethodPost:
		return "POST"
	case MethodPut:
		return "PUT"
	case MethodDelete:
		return "DELETE"
	default:
		return "UNKNOWN"
	}
}

// RequestDescriptor - неизменяемое описание запроса к S3.
// Создается заново на каждый вызов операции.
type RequestDescriptor struct {
	// Operation - имя операции для логов и метрик
	Operation string
	Method    Method
	Scheme    string
	Host      string
	// Path уже закодирован и подписывается как есть
	Path   string
	Query  []signer.QueryParam
	Body   []byte
	Region string
}

// signerRequest возвращает представление дескриптора для подписчика
func (r *RequestDescriptor) signerRequest() signer.Request {
	return signer.Request{
		Method: r.Method.String(),
		Host:   r.Host,
		Path:   r.Path,
		Query:  r.Query,
		Body:   r.Body,
		Region: r.Region,
	}
}

// URL собирает адрес запроса: scheme://host/path[?query]
func (r *RequestDescriptor) URL() string {
	u := r.Scheme + "://" + r.Host + r.Path
	if q := signer.CanonicalQueryString(r.Query); q != "" {
		u += "?" + q
	}
	return u
}

// RawResponse - успешный ответ сервера до разбора
type RawResponse struct {
	StatusCode int
	Body       []byte
}

// Bucket - бакет из ответа ListBuckets
type Bucket struct {
	Name string
}

// ObjectSummary - объект из ответа ListObjects
type ObjectSummary struct {
	Key string
}

// ListBucketsResult - результат ListBuckets
type ListBucketsResult struct {
	Buckets []Bucket
}

// ListObjectsResult - результат ListObjects.
// Необязательные поля равны nil, если элемент отсутствует в ответе.
type ListObjectsResult struct {
	BucketName      string
	Prefix          *string
	Delimiter       *string
	Marker          *string
	NextMarker      *string
	CommonPrefixes  []string
	MaxKeys         uint64
	Truncated       bool
	ObjectSummaries []ObjectSummary
}

// GetObjectResult - содержимое объекта без преобразований
type GetObjectResult struct {
	Content []byte
}
