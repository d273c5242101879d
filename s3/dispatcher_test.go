package s3

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"s3client/auth"
	"s3client/signer"
	"s3client/transport"
)

// MockTransport - мок транспорта для тестов
type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Execute(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*transport.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

var testCreds = auth.Credentials{AccessKeyID: "AKIDEXAMPLE", SecretAccessKey: "secret"}

var fixedTime = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedTime }

// counterValue читает значение счетчика из default registry
func counterValue(t *testing.T, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			matched := 0
			for _, lp := range m.GetLabel() {
				if v, ok := labels[lp.GetName()]; ok && v == lp.GetValue() {
					matched++
				}
			}
			if matched == len(labels) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestDispatcherSignsAndSends(t *testing.T) {
	desc := ListObjectsRequest{Bucket: "photos", Prefix: strPtr("a b")}.Request(DefaultConfig())
	expected := signer.Sign(desc.signerRequest(), testCreds, fixedTime)

	tr := &MockTransport{}
	tr.On("Execute", mock.Anything, mock.MatchedBy(func(req *transport.Request) bool {
		return req.Method == "GET" &&
			req.URL == "https://s3.amazonaws.com/photos?prefix=a%20b" &&
			req.Headers[signer.HeaderHost] == "s3.amazonaws.com" &&
			req.Headers[signer.HeaderDate] == "20240315T120000Z" &&
			req.Headers[signer.HeaderContentSHA256] == signer.EmptyPayloadHash &&
			req.Headers[signer.HeaderAuthorization] == expected[signer.HeaderAuthorization]
	})).Return(&transport.Response{StatusCode: http.StatusOK, Body: []byte("ok")}, nil)

	before := counterValue(t, "s3client_requests_total", map[string]string{"operation": OperationListObjects, "code": "200"})

	resp, err := NewDispatcher(tr, fixedClock).Execute(context.Background(), desc, testCreds)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []byte("ok"), resp.Body)
	tr.AssertExpectations(t)

	after := counterValue(t, "s3client_requests_total", map[string]string{"operation": OperationListObjects, "code": "200"})
	assert.Equal(t, before+1, after)
}

func TestDispatcherNonSuccessStatus(t *testing.T) {
	for _, code := range []int{http.StatusForbidden, http.StatusNotFound, http.StatusNoContent, http.StatusInternalServerError} {
		tr := &MockTransport{}
		tr.On("Execute", mock.Anything, mock.Anything).
			Return(&transport.Response{StatusCode: code, Body: []byte("<Error><Code>AccessDenied</Code></Error>")}, nil)

		resp, err := NewDispatcher(tr, fixedClock).Execute(context.Background(), ListBucketsRequest{}.Request(nil), testCreds)
		assert.Nil(t, resp)

		var statusErr *HTTPStatusError
		require.True(t, errors.As(err, &statusErr), "expected HTTPStatusError, got %v", err)
		assert.Equal(t, code, statusErr.StatusCode)
	}
}

func TestDispatcherTransportFailure(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	tr := &MockTransport{}
	tr.On("Execute", mock.Anything, mock.Anything).Return(nil, cause)

	_, err := NewDispatcher(tr, fixedClock).Execute(context.Background(), ListBucketsRequest{}.Request(nil), testCreds)

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr), "expected TransportError, got %v", err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, transportErr.Detail, OperationListBuckets)
}

func TestDispatcherUsesClockPerRequest(t *testing.T) {
	times := []time.Time{fixedTime, fixedTime.Add(time.Hour)}
	calls := 0
	clock := func() time.Time {
		ts := times[calls]
		calls++
		return ts
	}

	var dates []string
	tr := &MockTransport{}
	tr.On("Execute", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			dates = append(dates, args.Get(1).(*transport.Request).Headers[signer.HeaderDate])
		}).
		Return(&transport.Response{StatusCode: http.StatusOK}, nil)

	d := NewDispatcher(tr, clock)
	for range times {
		_, err := d.Execute(context.Background(), ListBucketsRequest{}.Request(nil), testCreds)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"20240315T120000Z", "20240315T130000Z"}, dates)
}

func TestNewDispatcherDefaultsClock(t *testing.T) {
	d := NewDispatcher(&MockTransport{}, nil)
	require.NotNil(t, d.clock)
	assert.WithinDuration(t, time.Now(), d.clock(), time.Minute)
}
