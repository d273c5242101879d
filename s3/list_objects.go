package s3

import (
	"strconv"

	"s3client/signer"
)

// ListObjectsRequest - перечисление объектов бакета.
// Фильтры равны nil, если не заданы, и тогда не попадают в строку запроса.
type ListObjectsRequest struct {
	Bucket    string
	Prefix    *string
	Marker    *string
	Delimiter *string
	MaxKeys   *uint
}

// Request реализует Operation
func (r ListObjectsRequest) Request(cfg *Config) *RequestDescriptor {
	desc := newDescriptor(cfg, OperationListObjects, "/"+r.Bucket)

	// Порядок построения не важен для подписи, строка запроса сортируется
	var query []signer.QueryParam
	if r.Delimiter != nil {
		query = append(query, signer.QueryParam{Key: "delimiter", Value: *r.Delimiter})
	}
	if r.Marker != nil {
		query = append(query, signer.QueryParam{Key: "marker", Value: *r.Marker})
	}
	if r.MaxKeys != nil {
		query = append(query, signer.QueryParam{Key: "max-keys", Value: strconv.FormatUint(uint64(*r.MaxKeys), 10)})
	}
	if r.Prefix != nil {
		query = append(query, signer.QueryParam{Key: "prefix", Value: *r.Prefix})
	}
	desc.Query = query
	return desc
}

// Unmarshal разбирает ListBucketResult. Первая ошибка прерывает разбор.
func (ListObjectsRequest) Unmarshal(resp *RawResponse) (*ListObjectsResult, error) {
	root, err := parseBody(resp)
	if err != nil {
		return nil, err
	}

	name, err := requiredText(root, "Name")
	if err != nil {
		return nil, err
	}

	result := &ListObjectsResult{
		BucketName:      name,
		Prefix:          optionalText(root, "Prefix"),
		Delimiter:       optionalText(root, "Delimiter"),
		Marker:          optionalText(root, "Marker"),
		NextMarker:      optionalText(root, "NextMarker"),
		CommonPrefixes:  []string{},
		ObjectSummaries: []ObjectSummary{},
	}

	// Отсутствие MaxKeys считается таким же нарушением, как нечисловое значение
	maxKeys := optionalText(root, "MaxKeys")
	if maxKeys == nil {
		return nil, &FieldInvalidError{Field: "MaxKeys"}
	}
	result.MaxKeys, err = strconv.ParseUint(*maxKeys, 10, 64)
	if err != nil {
		return nil, &FieldInvalidError{Field: "MaxKeys", Value: *maxKeys}
	}

	truncated := optionalText(root, "IsTruncated")
	switch {
	case truncated == nil:
		return nil, &FieldInvalidError{Field: "IsTruncated"}
	case *truncated == "true":
		result.Truncated = true
	case *truncated == "false":
		result.Truncated = false
	default:
		return nil, &FieldInvalidError{Field: "IsTruncated", Value: *truncated}
	}

	for _, node := range root.Children("Contents", Namespace) {
		key, err := requiredText(node, "Key")
		if err != nil {
			return nil, err
		}
		result.ObjectSummaries = append(result.ObjectSummaries, ObjectSummary{Key: key})
	}

	for _, node := range root.Children("CommonPrefixes", Namespace) {
		prefix, err := requiredText(node, "Prefix")
		if err != nil {
			return nil, err
		}
		result.CommonPrefixes = append(result.CommonPrefixes, prefix)
	}

	return result, nil
}
