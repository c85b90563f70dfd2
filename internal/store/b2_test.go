package store

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/kothar/go-backblaze"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memBucket is an in-memory b2Bucket.
type memBucket struct {
	objects map[string][]byte
}

func (b *memBucket) UploadFile(name string, _ map[string]string, file io.Reader) (*backblaze.File, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	b.objects[name] = data
	return &backblaze.File{Name: name, ContentLength: int64(len(data))}, nil
}

func (b *memBucket) DownloadFileByName(name string) (*backblaze.File, io.ReadCloser, error) {
	data, ok := b.objects[name]
	if !ok {
		return nil, nil, &backblaze.B2Error{Code: "not_found", Message: "file not present: " + name}
	}
	return &backblaze.File{Name: name}, io.NopCloser(bytes.NewReader(data)), nil
}

func TestB2Store(t *testing.T) {
	storeTestSuite(t, func(t *testing.T) TableStore {
		return &B2Store{bucket: &memBucket{objects: map[string][]byte{}}, name: "facts", prefix: "company-csv-data/"}
	})
}

func TestB2Store_ObjectKey(t *testing.T) {
	bucket := &memBucket{objects: map[string][]byte{}}
	s := &B2Store{bucket: bucket, name: "facts", prefix: "company-csv-data/"}

	require.NoError(t, s.Save(context.Background(), "aapl", sampleTable()))
	assert.Contains(t, bucket.objects, "company-csv-data/aapl.csv")
}

func TestB2Store_CorruptObject(t *testing.T) {
	bucket := &memBucket{objects: map[string][]byte{"aapl.csv": []byte("not,a,table\n")}}
	s := &B2Store{bucket: bucket, name: "facts"}

	_, err := s.Load(context.Background(), "AAPL")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
