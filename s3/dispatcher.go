package s3

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"s3client/auth"
	"s3client/logger"
	"s3client/signer"
	"s3client/transport"
)

// Clock возвращает момент подписи запроса
type Clock func() time.Time

// Dispatcher подписывает дескриптор и отправляет его через транспорт.
// Повторов и таймаутов на этом уровне нет.
type Dispatcher struct {
	transport transport.Transport
	clock     Clock
}

// NewDispatcher создает диспетчер. Если clock равен nil, используется time.Now.
func NewDispatcher(t transport.Transport, clock Clock) *Dispatcher {
	if clock == nil {
		clock = time.Now
	}
	return &Dispatcher{transport: t, clock: clock}
}

// Execute выполняет запрос. Успехом считается только статус 200,
// для остальных кодов тело ответа отбрасывается.
func (d *Dispatcher) Execute(ctx context.Context, desc *RequestDescriptor, creds auth.Credentials) (*RawResponse, error) {
	start := time.Now()
	defer func() {
		metrics.RequestLatency.WithLabelValues(desc.Operation).Observe(time.Since(start).Seconds())
	}()

	headers := signer.Sign(desc.signerRequest(), creds, d.clock())

	req := &transport.Request{
		Method:  desc.Method.String(),
		URL:     desc.URL(),
		Headers: headers,
		Body:    desc.Body,
	}

	logger.Debug("%s: %s %s", desc.Operation, req.Method, req.URL)

	resp, err := d.transport.Execute(ctx, req)
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(desc.Operation, "error").Inc()
		logger.Error("%s: transport failure: %v", desc.Operation, err)
		return nil, &TransportError{Detail: desc.Operation + " " + req.URL, Err: err}
	}

	metrics.RequestsTotal.WithLabelValues(desc.Operation, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		logger.Warn("%s: HTTP %d from %s", desc.Operation, resp.StatusCode, desc.Host)
		return nil, &HTTPStatusError{StatusCode: resp.StatusCode}
	}

	return &RawResponse{StatusCode: resp.StatusCode, Body: resp.Body}, nil
}
