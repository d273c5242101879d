package s3

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"s3client/markup"
)

func body(s string) *RawResponse {
	return &RawResponse{StatusCode: 200, Body: []byte(s)}
}

const listBucketsDoc = `<?xml version="1.0" encoding="UTF-8"?>
<ListAllMyBucketsResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
  <Owner><ID>bcaf1ffd86f461ca5fb16fd081034f</ID><DisplayName>webfile</DisplayName></Owner>
  <Buckets>
    <Bucket><Name>quotes</Name><CreationDate>2006-02-03T16:45:09.000Z</CreationDate></Bucket>
    <Bucket><Name>samples</Name><CreationDate>2006-02-03T16:41:58.000Z</CreationDate></Bucket>
  </Buckets>
</ListAllMyBucketsResult>`

func TestListBucketsUnmarshal(t *testing.T) {
	result, err := ListBucketsRequest{}.Unmarshal(body(listBucketsDoc))
	require.NoError(t, err)
	assert.Equal(t, []Bucket{{Name: "quotes"}, {Name: "samples"}}, result.Buckets)
}

func TestListBucketsUnmarshalEmpty(t *testing.T) {
	result, err := ListBucketsRequest{}.Unmarshal(body(
		`<ListAllMyBucketsResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/"><Buckets/></ListAllMyBucketsResult>`))
	require.NoError(t, err)
	assert.Empty(t, result.Buckets)
}

func TestListBucketsUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{
			name:  "Buckets missing",
			doc:   `<ListAllMyBucketsResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/"><Owner/></ListAllMyBucketsResult>`,
			field: "Buckets",
		},
		{
			name:  "Buckets in another namespace",
			doc:   `<ListAllMyBucketsResult><Buckets><Bucket><Name>a</Name></Bucket></Buckets></ListAllMyBucketsResult>`,
			field: "Buckets",
		},
		{
			name: "Bucket without name",
			doc: `<ListAllMyBucketsResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
<Buckets><Bucket><Name>a</Name></Bucket><Bucket><CreationDate>x</CreationDate></Bucket></Buckets>
</ListAllMyBucketsResult>`,
			field: "Name",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ListBucketsRequest{}.Unmarshal(body(tc.doc))
			var missing *RequiredFieldMissingError
			require.True(t, errors.As(err, &missing), "expected RequiredFieldMissingError, got %v", err)
			assert.Equal(t, tc.field, missing.Field)
		})
	}
}

const listObjectsDoc = `<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
  <Name>bucket</Name>
  <Prefix>photos/</Prefix>
  <Marker></Marker>
  <MaxKeys>1000</MaxKeys>
  <Delimiter>/</Delimiter>
  <IsTruncated>false</IsTruncated>
  <Contents><Key>photos/a.jpg</Key><Size>10</Size></Contents>
  <Contents><Key>photos/b.jpg</Key><Size>20</Size></Contents>
  <CommonPrefixes><Prefix>photos/2023/</Prefix></CommonPrefixes>
  <CommonPrefixes><Prefix>photos/2024/</Prefix></CommonPrefixes>
</ListBucketResult>`

func TestListObjectsUnmarshal(t *testing.T) {
	result, err := ListObjectsRequest{}.Unmarshal(body(listObjectsDoc))
	require.NoError(t, err)

	assert.Equal(t, "bucket", result.BucketName)
	require.NotNil(t, result.Prefix)
	assert.Equal(t, "photos/", *result.Prefix)
	require.NotNil(t, result.Marker, "present but empty element is not absent")
	assert.Equal(t, "", *result.Marker)
	require.NotNil(t, result.Delimiter)
	assert.Equal(t, "/", *result.Delimiter)
	assert.Nil(t, result.NextMarker)
	assert.Equal(t, uint64(1000), result.MaxKeys)
	assert.False(t, result.Truncated)
	assert.Equal(t, []ObjectSummary{{Key: "photos/a.jpg"}, {Key: "photos/b.jpg"}}, result.ObjectSummaries)
	assert.Equal(t, []string{"photos/2023/", "photos/2024/"}, result.CommonPrefixes)
}

func TestListObjectsUnmarshalMinimal(t *testing.T) {
	result, err := ListObjectsRequest{}.Unmarshal(body(`<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
<Name>b</Name><MaxKeys>2</MaxKeys><IsTruncated>true</IsTruncated><NextMarker>k2</NextMarker>
</ListBucketResult>`))
	require.NoError(t, err)

	assert.Equal(t, "b", result.BucketName)
	assert.Nil(t, result.Prefix)
	assert.Nil(t, result.Delimiter)
	assert.Nil(t, result.Marker)
	require.NotNil(t, result.NextMarker)
	assert.Equal(t, "k2", *result.NextMarker)
	assert.Equal(t, uint64(2), result.MaxKeys)
	assert.True(t, result.Truncated)
	assert.Empty(t, result.ObjectSummaries)
	assert.Empty(t, result.CommonPrefixes)
}

func listObjectsWith(inner string) string {
	return `<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">` + inner + `</ListBucketResult>`
}

func TestListObjectsUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		missing string
		invalid string
	}{
		{
			name:    "Name missing",
			doc:     listObjectsWith(`<MaxKeys>1</MaxKeys><IsTruncated>false</IsTruncated>`),
			missing: "Name",
		},
		{
			name:    "MaxKeys not a number",
			doc:     listObjectsWith(`<Name>b</Name><MaxKeys>abc</MaxKeys><IsTruncated>false</IsTruncated>`),
			invalid: "MaxKeys",
		},
		{
			name:    "MaxKeys negative",
			doc:     listObjectsWith(`<Name>b</Name><MaxKeys>-1</MaxKeys><IsTruncated>false</IsTruncated>`),
			invalid: "MaxKeys",
		},
		{
			name:    "MaxKeys absent",
			doc:     listObjectsWith(`<Name>b</Name><IsTruncated>false</IsTruncated>`),
			invalid: "MaxKeys",
		},
		{
			name:    "IsTruncated not a boolean",
			doc:     listObjectsWith(`<Name>b</Name><MaxKeys>1</MaxKeys><IsTruncated>yes</IsTruncated>`),
			invalid: "IsTruncated",
		},
		{
			name:    "IsTruncated is case sensitive",
			doc:     listObjectsWith(`<Name>b</Name><MaxKeys>1</MaxKeys><IsTruncated>True</IsTruncated>`),
			invalid: "IsTruncated",
		},
		{
			name:    "IsTruncated absent",
			doc:     listObjectsWith(`<Name>b</Name><MaxKeys>1</MaxKeys>`),
			invalid: "IsTruncated",
		},
		{
			name: "Contents without key",
			doc: listObjectsWith(`<Name>b</Name><MaxKeys>1</MaxKeys><IsTruncated>false</IsTruncated>
<Contents><Key>ok</Key></Contents><Contents><Size>1</Size></Contents>`),
			missing: "Key",
		},
		{
			name: "CommonPrefixes without prefix",
			doc: listObjectsWith(`<Name>b</Name><MaxKeys>1</MaxKeys><IsTruncated>false</IsTruncated>
<CommonPrefixes></CommonPrefixes>`),
			missing: "Prefix",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ListObjectsRequest{}.Unmarshal(body(tc.doc))
			require.Error(t, err)
			assert.Nil(t, result)

			if tc.missing != "" {
				var missing *RequiredFieldMissingError
				require.True(t, errors.As(err, &missing), "expected RequiredFieldMissingError, got %v", err)
				assert.Equal(t, tc.missing, missing.Field)
			}
			if tc.invalid != "" {
				var invalid *FieldInvalidError
				require.True(t, errors.As(err, &invalid), "expected FieldInvalidError, got %v", err)
				assert.Equal(t, tc.invalid, invalid.Field)
			}
		})
	}
}

func TestXMLOperationsRejectBadBodies(t *testing.T) {
	invalidUTF8 := &RawResponse{StatusCode: 200, Body: []byte{'<', 'a', '>', 0xff, 0xfe, '<', '/', 'a', '>'}}

	_, err := ListBucketsRequest{}.Unmarshal(invalidUTF8)
	assert.ErrorIs(t, err, ErrInvalidEncoding)
	_, err = ListObjectsRequest{}.Unmarshal(invalidUTF8)
	assert.ErrorIs(t, err, ErrInvalidEncoding)

	_, err = ListBucketsRequest{}.Unmarshal(body("<ListAllMyBucketsResult>\n<Buckets>"))
	var parseErr *markup.ParseError
	require.True(t, errors.As(err, &parseErr), "expected markup.ParseError, got %v", err)
	assert.Equal(t, 2, parseErr.Line)

	_, err = ListObjectsRequest{}.Unmarshal(body(""))
	assert.True(t, errors.As(err, &parseErr))
}

func TestGetObjectUnmarshalIsIdentity(t *testing.T) {
	tests := [][]byte{
		nil,
		[]byte("plain text"),
		{0x00, 0xff, 0xfe, 0x80},
		[]byte("<not>xml"),
	}

	for _, content := range tests {
		result, err := GetObjectRequest{}.Unmarshal(&RawResponse{StatusCode: 200, Body: content})
		require.NoError(t, err)
		assert.Equal(t, content, result.Content)
	}
}
