// Package s3test - поддельный S3 сервер для тестов клиента.
//
// Сервер хранит бакеты и объекты в памяти, проверяет подпись SigV4
// каждого запроса и отвечает документами в формате S3 API.
// Поддерживаются только GET запросы: список бакетов, список объектов
// бакета (prefix, delimiter, marker, max-keys) и чтение объекта.
package s3test

import (
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"s3client/auth"
	"s3client/logger"
)

const defaultMaxKeys = 1000

// RecordedRequest - запрос, полученный сервером
type RecordedRequest struct {
	Method     string
	RequestURI string
	Host       string
	Header     http.Header
}

type object struct {
	content  []byte
	modified time.Time
}

// Server - S3 совместимый сервер в памяти
type Server struct {
	srv *httptest.Server

	mu          sync.RWMutex
	region      string
	credentials map[string]string
	buckets     map[string]map[string]object
	created     map[string]time.Time
	requests    []RecordedRequest
	failStatus  int
}

// NewServer запускает сервер, принимающий запросы, подписанные creds для region
func NewServer(region string, creds auth.Credentials) *Server {
	s := &Server{
		region:      region,
		credentials: map[string]string{creds.AccessKeyID: creds.SecretAccessKey},
		buckets:     make(map[string]map[string]object),
		created:     make(map[string]time.Time),
	}
	s.srv = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// Close останавливает сервер
func (s *Server) Close() {
	s.srv.Close()
}

// URL возвращает базовый адрес сервера
func (s *Server) URL() string {
	return s.srv.URL
}

// Host возвращает host:port сервера
func (s *Server) Host() string {
	return strings.TrimPrefix(s.srv.URL, "http://")
}

// AddCredentials разрешает еще одну пару ключей
func (s *Server) AddCredentials(creds auth.Credentials) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credentials[creds.AccessKeyID] = creds.SecretAccessKey
}

// CreateBucket создает пустой бакет
func (s *Server) CreateBucket(bucket string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.buckets[bucket]; !ok {
		s.buckets[bucket] = make(map[string]object)
		s.created[bucket] = time.Now().UTC()
	}
}

// PutObject сохраняет объект, создавая бакет при необходимости
func (s *Server) PutObject(bucket, key string, content []byte) {
	s.CreateBucket(bucket)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.buckets[bucket][key] = object{content: append([]byte(nil), content...), modified: time.Now().UTC()}
}

// FailWith заставляет сервер отвечать указанным кодом на все запросы.
// 0 возвращает обычное поведение.
func (s *Server) FailWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStatus = status
}

// Requests возвращает копию журнала запросов
func (s *Server) Requests() []RecordedRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]RecordedRequest(nil), s.requests...)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, RecordedRequest{
		Method:     r.Method,
		RequestURI: r.RequestURI,
		Host:       r.Host,
		Header:     r.Header.Clone(),
	})
	failStatus := s.failStatus
	s.mu.Unlock()

	logger.Debug("s3test: %s %s", r.Method, r.RequestURI)

	if failStatus != 0 {
		writeError(w, failStatus, "InjectedFailure", "failure requested by test", r.URL.Path)
		return
	}

	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "IncompleteBody", err.Error(), r.URL.Path)
		return
	}

	if err := s.verifySignature(r, body); err != nil {
		code := "SignatureDoesNotMatch"
		switch err {
		case errMissingAuthHeader, errInvalidAuthHeader:
			code = "AccessDenied"
		case errInvalidAccessKeyID:
			code = "InvalidAccessKeyId"
		case errContentMismatch:
			code = "XAmzContentSHA256Mismatch"
		case errWrongScope:
			code = "AuthorizationHeaderMalformed"
		}
		writeError(w, http.StatusForbidden, code, err.Error(), r.URL.Path)
		return
	}

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "MethodNotAllowed", "only GET is supported", r.URL.Path)
		return
	}

	rawPath, _, _ := strings.Cut(r.RequestURI, "?")
	bucket, rawKey, _ := strings.Cut(strings.TrimPrefix(rawPath, "/"), "/")
	key, err := url.PathUnescape(rawKey)
	if err != nil {
		writeError(w, http.StatusBadRequest, "InvalidURI", err.Error(), rawPath)
		return
	}

	switch {
	case bucket == "":
		s.listBuckets(w)
	case key == "":
		s.listObjects(w, r, bucket)
	default:
		s.getObject(w, bucket, key)
	}
}

func (s *Server) listBuckets(w http.ResponseWriter) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.buckets))
	for name := range s.buckets {
		names = append(names, name)
	}
	sort.Strings(names)

	result := listAllMyBucketsResult{
		Xmlns:   Namespace,
		Owner:   owner{ID: "s3test", DisplayName: "s3test"},
		Buckets: []bucketEntry{},
	}
	for _, name := range names {
		result.Buckets = append(result.Buckets, bucketEntry{
			Name:         name,
			CreationDate: s.created[name].Format(time.RFC3339),
		})
	}
	writeXML(w, http.StatusOK, result)
}

func (s *Server) listObjects(w http.ResponseWriter, r *http.Request, bucket string) {
	q := r.URL.Query()
	prefix := q.Get("prefix")
	delimiter := q.Get("delimiter")
	marker := q.Get("marker")

	maxKeys := defaultMaxKeys
	if v := q.Get("max-keys"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "InvalidArgument", "max-keys must be a non-negative integer", "/"+bucket)
			return
		}
		maxKeys = n
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	objects, ok := s.buckets[bucket]
	if !ok {
		writeError(w, http.StatusNotFound, "NoSuchBucket", "the specified bucket does not exist", "/"+bucket)
		return
	}

	keys := make([]string, 0, len(objects))
	for k := range objects {
		if strings.HasPrefix(k, prefix) && k > marker {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	result := listBucketResult{
		Xmlns:          Namespace,
		Name:           bucket,
		Prefix:         prefix,
		Marker:         marker,
		MaxKeys:        maxKeys,
		Delimiter:      delimiter,
		Contents:       []contentEntry{},
		CommonPrefixes: []commonPrefix{},
	}

	seen := make(map[string]bool)
	last := ""
	count := 0
	for _, k := range keys {
		if delimiter != "" {
			if idx := strings.Index(k[len(prefix):], delimiter); idx >= 0 {
				cp := k[:len(prefix)+idx+len(delimiter)]
				if seen[cp] || cp <= marker {
					continue
				}
				if count == maxKeys {
					result.IsTruncated = true
					break
				}
				seen[cp] = true
				result.CommonPrefixes = append(result.CommonPrefixes, commonPrefix{Prefix: cp})
				last = cp
				count++
				continue
			}
		}

		if count == maxKeys {
			result.IsTruncated = true
			break
		}
		obj := objects[k]
		sum := md5.Sum(obj.content)
		result.Contents = append(result.Contents, contentEntry{
			Key:          k,
			LastModified: obj.modified.Format(time.RFC3339),
			ETag:         `"` + hex.EncodeToString(sum[:]) + `"`,
			Size:         len(obj.content),
			StorageClass: "STANDARD",
		})
		last = k
		count++
	}

	// NextMarker возвращается только при delimiter, как в S3
	if result.IsTruncated && delimiter != "" {
		result.NextMarker = last
	}

	writeXML(w, http.StatusOK, result)
}

func (s *Server) getObject(w http.ResponseWriter, bucket, key string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	objects, ok := s.buckets[bucket]
	if !ok {
		writeError(w, http.StatusNotFound, "NoSuchBucket", "the specified bucket does not exist", "/"+bucket)
		return
	}
	obj, ok := objects[key]
	if !ok {
		writeError(w, http.StatusNotFound, "NoSuchKey", "the specified key does not exist", "/"+bucket+"/"+key)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.Itoa(len(obj.content)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(obj.content)
}
