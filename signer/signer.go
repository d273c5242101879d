// Package signer реализует подпись запросов AWS Signature Version 4
// для сервиса s3 с фиксированным набором подписываемых заголовков
// host, x-amz-content-sha256, x-amz-date.
//
// Каждый шаг цепочки (хэш, HMAC, канонизация, вывод ключа) вынесен
// в отдельную чистую функцию, чтобы его можно было проверить по
// опубликованным тестовым векторам.
package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"s3client/auth"
)

const (
	// Algorithm - идентификатор алгоритма в строке для подписи и заголовке Authorization
	Algorithm = "AWS4-HMAC-SHA256"
	// Service - имя сервиса в области действия ключа
	Service = "s3"
	// ScopeTerminator завершает область действия ключа
	ScopeTerminator = "aws4_request"

	// SignedHeaderNames - подписываемые заголовки в фиксированном порядке
	SignedHeaderNames = "host;x-amz-content-sha256;x-amz-date"

	// TimeFormat - формат полной временной метки (x-amz-date)
	TimeFormat = "20060102T150405Z"
	// DateFormat - формат даты в области действия ключа
	DateFormat = "20060102"

	// EmptyPayloadHash - SHA-256 пустого тела
	EmptyPayloadHash = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
)

// Имена заголовков, которые возвращает Sign
const (
	HeaderHost          = "Host"
	HeaderContentSHA256 = "x-amz-content-sha256"
	HeaderDate          = "x-amz-date"
	HeaderAuthorization = "Authorization"
)

// QueryParam - пара ключ/значение строки запроса
type QueryParam struct {
	Key   string
	Value string
}

// Request - неизменяемое представление запроса, которое читает подписчик.
// Path используется как есть, без повторного кодирования.
type Request struct {
	Method string
	Host   string
	Path   string
	Query  []QueryParam
	Body   []byte
	Region string
}

// SignedHeaders - заголовки, которые нужно отправить вместе с запросом
type SignedHeaders map[string]string

// HashSHA256 возвращает SHA-256 от data
func HashSHA256(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

// HexHash возвращает SHA-256 от data в нижнем регистре hex
func HexHash(data []byte) string {
	return hex.EncodeToString(HashSHA256(data))
}

// HMACSHA256 вычисляет HMAC-SHA256(key, data)
func HMACSHA256(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}

// CanonicalQueryString кодирует пары по RFC 3986 и сортирует по ключу.
// Сортировка стабильная: пары с одинаковым ключом сохраняют исходный порядок.
// Пара без значения выводится как "key=".
func CanonicalQueryString(params []QueryParam) string {
	if len(params) == 0 {
		return ""
	}

	sorted := make([]QueryParam, len(params))
	copy(sorted, params)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Key < sorted[j].Key
	})

	parts := make([]string, 0, len(sorted))
	for _, p := range sorted {
		parts = append(parts, URIEncode(p.Key)+"="+URIEncode(p.Value))
	}
	return strings.Join(parts, "&")
}

// URIEncode кодирует строку для строки запроса: незарезервированные символы
// A-Z a-z 0-9 - _ . ~ остаются как есть, остальные байты - %XX в верхнем регистре.
func URIEncode(s string) string {
	const hexUpper = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hexUpper[c>>4])
		b.WriteByte(hexUpper[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	return 'A' <= c && c <= 'Z' || 'a' <= c && c <= 'z' || '0' <= c && c <= '9' ||
		c == '-' || c == '_' || c == '.' || c == '~'
}

// CanonicalRequest собирает канонический запрос
func CanonicalRequest(method, path, canonicalQuery, host, contentHash, amzDate string) string {
	return fmt.Sprintf("%s\n%s\n%s\nhost:%s\nx-amz-content-sha256:%s\nx-amz-date:%s\n\n%s\n%s",
		method, path, canonicalQuery,
		host, contentHash, amzDate,
		SignedHeaderNames, contentHash)
}

// CredentialScope возвращает "date/region/s3/aws4_request"
func CredentialScope(date, region string) string {
	return date + "/" + region + "/" + Service + "/" + ScopeTerminator
}

// StringToSign собирает строку для подписи
func StringToSign(amzDate, scope, canonicalRequestHash string) string {
	return Algorithm + "\n" + amzDate + "\n" + scope + "\n" + canonicalRequestHash
}

// DeriveSigningKey выводит ключ подписи цепочкой HMAC:
// date -> region -> service -> "aws4_request"
func DeriveSigningKey(secret, date, region, service string) []byte {
	kDate := HMACSHA256([]byte("AWS4"+secret), []byte(date))
	kRegion := HMACSHA256(kDate, []byte(region))
	kService := HMACSHA256(kRegion, []byte(service))
	return HMACSHA256(kService, []byte(ScopeTerminator))
}

// Signature вычисляет hex(HMAC(signingKey, stringToSign))
func Signature(signingKey []byte, stringToSign string) string {
	return hex.EncodeToString(HMACSHA256(signingKey, []byte(stringToSign)))
}

// AuthorizationHeader формирует значение заголовка Authorization
func AuthorizationHeader(accessKeyID, scope, signature string) string {
	return fmt.Sprintf("%s Credential=%s/%s,SignedHeaders=%s,Signature=%s",
		Algorithm, accessKeyID, scope, SignedHeaderNames, signature)
}

// Sign подписывает запрос на момент t. Время передается снаружи,
// подписчик не обращается к системным часам. Не возвращает ошибок:
// это чистое вычисление над переданными строками.
func Sign(req Request, creds auth.Credentials, t time.Time) SignedHeaders {
	t = t.UTC()
	amzDate := t.Format(TimeFormat)
	date := t.Format(DateFormat)

	contentHash := HexHash(req.Body)
	canonicalRequest := CanonicalRequest(req.Method, req.Path, CanonicalQueryString(req.Query),
		req.Host, contentHash, amzDate)

	scope := CredentialScope(date, req.Region)
	stringToSign := StringToSign(amzDate, scope, HexHash([]byte(canonicalRequest)))

	signingKey := DeriveSigningKey(creds.SecretAccessKey, date, req.Region, Service)
	signature := Signature(signingKey, stringToSign)

	return SignedHeaders{
		HeaderHost:          req.Host,
		HeaderContentSHA256: contentHash,
		HeaderDate:          amzDate,
		HeaderAuthorization: AuthorizationHeader(creds.AccessKeyID, scope, signature),
	}
}
