package client

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"todo-hub-api/internal/domain"
)

// MockS3Client implements S3ClientInterface for testing without storage.
// The default behavior keeps uploaded paths in memory so list/delete work.
type MockS3Client struct {
	ImageBucket string
	PDFBucket   string

	// Objects holds bucket -> stored objects for the default behavior
	Objects map[string][]StorageObject

	// Optional function overrides for custom test behavior
	UploadObjectFunc  func(ctx context.Context, bucket, path string, body io.Reader, contentType string) error
	PresignGetURLFunc func(ctx context.Context, bucket, path string) (string, error)
	DeleteObjectFunc  func(ctx context.Context, bucket, path string) error
	ListObjectsFunc   func(ctx context.Context, bucket string) ([]StorageObject, error)
}

// NewMockS3Client creates a new mock S3 client for testing
func NewMockS3Client() *MockS3Client {
	return &MockS3Client{
		ImageBucket: "attachments-img",
		PDFBucket:   "attachments-pdf",
		Objects:     make(map[string][]StorageObject),
	}
}

// BucketFor returns the bucket name for an attachment kind
func (m *MockS3Client) BucketFor(kind domain.AttachmentKind) string {
	if kind == domain.AttachmentKindPDF {
		return m.PDFBucket
	}
	return m.ImageBucket
}

// GenerateStoragePath mirrors the real client's path format
func (m *MockS3Client) GenerateStoragePath(taskID, fileExt string) string {
	return fmt.Sprintf("tasks/%s/%d_%s%s", taskID, time.Now().Unix(), uuid.NewString(), fileExt)
}

// UploadObject records the object in memory
func (m *MockS3Client) UploadObject(ctx context.Context, bucket, path string, body io.Reader, contentType string) error {
	if m.UploadObjectFunc != nil {
		return m.UploadObjectFunc(ctx, bucket, path, body, contentType)
	}
	m.Objects[bucket] = append(m.Objects[bucket], StorageObject{Path: path, LastModified: time.Now()})
	return nil
}

// PresignGetURL returns a deterministic fake URL
func (m *MockS3Client) PresignGetURL(ctx context.Context, bucket, path string) (string, error) {
	if m.PresignGetURLFunc != nil {
		return m.PresignGetURLFunc(ctx, bucket, path)
	}
	return fmt.Sprintf("https://storage.test/%s/%s?signature=mock", bucket, path), nil
}

// DeleteObject removes the object from memory
func (m *MockS3Client) DeleteObject(ctx context.Context, bucket, path string) error {
	if m.DeleteObjectFunc != nil {
		return m.DeleteObjectFunc(ctx, bucket, path)
	}
	kept := m.Objects[bucket][:0]
	for _, obj := range m.Objects[bucket] {
		if obj.Path != path {
			kept = append(kept, obj)
		}
	}
	m.Objects[bucket] = kept
	return nil
}

// ListObjects returns the in-memory objects for a bucket
func (m *MockS3Client) ListObjects(ctx context.Context, bucket string) ([]StorageObject, error) {
	if m.ListObjectsFunc != nil {
		return m.ListObjectsFunc(ctx, bucket)
	}
	return m.Objects[bucket], nil
}

// Ensure MockS3Client implements S3ClientInterface
var _ S3ClientInterface = (*MockS3Client)(nil)
