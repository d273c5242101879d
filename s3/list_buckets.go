package s3

// ListBucketsRequest - перечисление всех бакетов владельца учетных данных
type ListBucketsRequest struct{}

// Request реализует Operation
func (ListBucketsRequest) Request(cfg *Config) *RequestDescriptor {
	return newDescriptor(cfg, OperationListBuckets, "/")
}

// Unmarshal разбирает ListAllMyBucketsResult
func (ListBucketsRequest) Unmarshal(resp *RawResponse) (*ListBucketsResult, error) {
	root, err := parseBody(resp)
	if err != nil {
		return nil, err
	}

	list, ok := root.Child("Buckets", Namespace)
	if !ok {
		return nil, &RequiredFieldMissingError{Field: "Buckets"}
	}

	result := &ListBucketsResult{Buckets: []Bucket{}}
	for _, node := range list.Children("Bucket", Namespace) {
		name, err := requiredText(node, "Name")
		if err != nil {
			return nil, err
		}
		result.Buckets = append(result.Buckets, Bucket{Name: name})
	}
	return result, nil
}
