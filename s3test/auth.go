package s3test

import (
	"crypto/subtle"
	"errors"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"s3client/logger"
	"s3client/signer"
)

var (
	errMissingAuthHeader  = errors.New("missing Authorization header")
	errInvalidAuthHeader  = errors.New("malformed Authorization header")
	errInvalidAccessKeyID = errors.New("access key does not exist")
	errSignatureMismatch  = errors.New("signature does not match")
	errContentMismatch    = errors.New("x-amz-content-sha256 does not match the body")
	errWrongScope         = errors.New("credential scope does not match the server")
)

type authorizationData struct {
	AccessKey, Date, Region, Service, Signature string
	SignedHeaders                               string
}

// parseAuthorizationHeader разбирает заголовок
// "AWS4-HMAC-SHA256 Credential=.../date/region/s3/aws4_request,SignedHeaders=...,Signature=..."
func parseAuthorizationHeader(header string) (*authorizationData, error) {
	prefix := signer.Algorithm + " "
	if !strings.HasPrefix(header, prefix) {
		return nil, errInvalidAuthHeader
	}
	parts := strings.Split(strings.TrimPrefix(header, prefix), ",")
	if len(parts) != 3 {
		return nil, errInvalidAuthHeader
	}

	data := &authorizationData{}
	for _, part := range parts {
		part = strings.TrimSpace(part)
		switch {
		case strings.HasPrefix(part, "Credential="):
			cred := strings.Split(strings.TrimPrefix(part, "Credential="), "/")
			if len(cred) != 5 || cred[4] != signer.ScopeTerminator {
				return nil, errInvalidAuthHeader
			}
			data.AccessKey, data.Date, data.Region, data.Service = cred[0], cred[1], cred[2], cred[3]
		case strings.HasPrefix(part, "SignedHeaders="):
			data.SignedHeaders = strings.TrimPrefix(part, "SignedHeaders=")
		case strings.HasPrefix(part, "Signature="):
			data.Signature = strings.TrimPrefix(part, "Signature=")
		}
	}
	if data.AccessKey == "" || data.Signature == "" || data.SignedHeaders == "" {
		return nil, errInvalidAuthHeader
	}
	return data, nil
}

// verifySignature заново вычисляет подпись по тому, что сервер получил по сети
func (s *Server) verifySignature(r *http.Request, body []byte) error {
	header := r.Header.Get(signer.HeaderAuthorization)
	if header == "" {
		return errMissingAuthHeader
	}
	data, err := parseAuthorizationHeader(header)
	if err != nil {
		return err
	}
	if data.SignedHeaders != signer.SignedHeaderNames {
		return errInvalidAuthHeader
	}

	s.mu.RLock()
	secret, ok := s.credentials[data.AccessKey]
	s.mu.RUnlock()
	if !ok {
		return errInvalidAccessKeyID
	}
	if data.Region != s.region || data.Service != signer.Service {
		return errWrongScope
	}

	amzDate := r.Header.Get(signer.HeaderDate)
	if !strings.HasPrefix(amzDate, data.Date) {
		return errWrongScope
	}

	contentHash := r.Header.Get(signer.HeaderContentSHA256)
	if contentHash != signer.HexHash(body) {
		return errContentMismatch
	}

	path, rawQuery, _ := strings.Cut(r.RequestURI, "?")
	query, err := queryParams(rawQuery)
	if err != nil {
		return errInvalidAuthHeader
	}

	canonical := signer.CanonicalRequest(r.Method, path, signer.CanonicalQueryString(query), r.Host, contentHash, amzDate)
	logger.Debug("s3test: canonical request:\n%s", canonical)

	scope := signer.CredentialScope(data.Date, data.Region)
	stringToSign := signer.StringToSign(amzDate, scope, signer.HexHash([]byte(canonical)))
	key := signer.DeriveSigningKey(secret, data.Date, data.Region, signer.Service)
	expected := signer.Signature(key, stringToSign)

	if subtle.ConstantTimeCompare([]byte(data.Signature), []byte(expected)) != 1 {
		return errSignatureMismatch
	}
	return nil
}

// queryParams раскодирует строку запроса в пары, сохраняя порядок внутри ключа
func queryParams(raw string) ([]signer.QueryParam, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var params []signer.QueryParam
	for _, k := range keys {
		for _, v := range values[k] {
			params = append(params, signer.QueryParam{Key: k, Value: v})
		}
	}
	return params, nil
}

func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	return io.ReadAll(r.Body)
}
