package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"

	"s3client/logger"
)

// Request - то, что клиент передает транспорту: метод, полный URL,
// заголовки и тело. Транспорт принимает любой метод.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// String печатает запрос для отладки. Тело и подпись не выводятся.
func (r *Request) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s HTTP/1.1\n", r.Method, r.URL)

	keys := make([]string, 0, len(r.Headers))
	for k := range r.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := r.Headers[k]
		if strings.EqualFold(k, "Authorization") {
			v = "REDACTED"
		}
		fmt.Fprintf(&b, "%s: %s\n", k, v)
	}
	b.WriteString("\nBODY REDACTED...")
	return b.String()
}

// Response - код ответа и тело целиком
type Response struct {
	StatusCode int
	Body       []byte
}

// Transport выполняет HTTP-запрос. Ошибка означает сбой соединения,
// а не HTTP-статус: любой полученный ответ возвращается как Response.
type Transport interface {
	Execute(ctx context.Context, req *Request) (*Response, error)
}

// HTTPClient - минимальный интерфейс HTTP клиента
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPTransport реализует Transport поверх HTTP клиента AWS SDK
type HTTPTransport struct {
	client HTTPClient
}

// NewHTTPTransport создает транспорт с таймаутами из конфигурации
func NewHTTPTransport(cfg *Config) (*HTTPTransport, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid transport config: %w", err)
	}

	client := awshttp.NewBuildableClient().
		WithTimeout(cfg.Timeout).
		WithTransportOptions(func(tr *http.Transport) {
			tr.TLSHandshakeTimeout = cfg.TLSHandshakeTimeout
			tr.ResponseHeaderTimeout = cfg.ResponseHeaderTimeout
			// Тело объекта возвращается как хранится, без распаковки gzip
			tr.DisableCompression = true
		})

	return &HTTPTransport{client: client}, nil
}

// NewHTTPTransportWithClient создает транспорт поверх готового клиента
func NewHTTPTransportWithClient(client HTTPClient) *HTTPTransport {
	return &HTTPTransport{client: client}
}

// Execute реализует Transport
func (t *HTTPTransport) Execute(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP request: %w", err)
	}
	for k, v := range req.Headers {
		// Host задается полем запроса, заголовок net/http игнорирует
		if strings.EqualFold(k, "Host") {
			httpReq.Host = v
			continue
		}
		httpReq.Header.Set(k, v)
	}

	if logger.Global().Enabled(logger.DEBUG) {
		logger.Debug("Sending request:\n%s", req.String())
	}

	start := time.Now()
	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("HTTP request error: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	logger.Debug("Received %d (%d bytes) in %v", httpResp.StatusCode, len(respBody), time.Since(start))
	return &Response{StatusCode: httpResp.StatusCode, Body: respBody}, nil
}
