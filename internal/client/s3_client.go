package client

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	appConfig "todo-hub-api/internal/config"
	"todo-hub-api/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// SignedURLTTL is how long presigned download links stay valid
const SignedURLTTL = 7 * 24 * time.Hour

// StorageObject describes one stored object, as listed from a bucket
type StorageObject struct {
	Path         string
	LastModified time.Time
}

// S3ClientInterface defines the interface for object storage operations.
// Images and PDFs live in separate buckets; BucketFor picks the right one.
type S3ClientInterface interface {
	BucketFor(kind domain.AttachmentKind) string
	GenerateStoragePath(taskID, fileExt string) string
	UploadObject(ctx context.Context, bucket, path string, body io.Reader, contentType string) error
	PresignGetURL(ctx context.Context, bucket, path string) (string, error)
	DeleteObject(ctx context.Context, bucket, path string) error
	ListObjects(ctx context.Context, bucket string) ([]StorageObject, error)
}

// S3Client wraps the AWS S3 client and implements S3ClientInterface
type S3Client struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	imageBucket   string
	pdfBucket     string
	region        string
	endpoint      string
}

// NewS3Client creates a new S3 client. A non-empty endpoint switches to
// MinIO-compatible path-style addressing with static credentials.
func NewS3Client(cfg *appConfig.S3Config) (*S3Client, error) {
	if cfg.ImageBucket == "" || cfg.PDFBucket == "" {
		return nil, fmt.Errorf("both image and pdf buckets are required")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("S3 region is required")
	}

	var awsCfg aws.Config
	var err error

	if cfg.Endpoint != "" {
		if cfg.AccessKey == "" || cfg.SecretKey == "" {
			return nil, fmt.Errorf("access key and secret key are required for MinIO endpoint")
		}

		awsCfg, err = config.LoadDefaultConfig(context.TODO(),
			config.WithRegion(cfg.Region),
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AccessKey,
				cfg.SecretKey,
				"",
			)),
			config.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(
				func(service, region string, options ...interface{}) (aws.Endpoint, error) {
					return aws.Endpoint{
						URL:               cfg.Endpoint,
						HostnameImmutable: true,
						SigningRegion:     cfg.Region,
					}, nil
				},
			)),
		)
	} else {
		// Default AWS credential chain (IAM role, ~/.aws/credentials)
		awsCfg, err = config.LoadDefaultConfig(context.TODO(),
			config.WithRegion(cfg.Region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.UsePathStyle = true // required for MinIO
		}
	})

	return &S3Client{
		client:        s3Client,
		presignClient: s3.NewPresignClient(s3Client),
		imageBucket:   cfg.ImageBucket,
		pdfBucket:     cfg.PDFBucket,
		region:        cfg.Region,
		endpoint:      cfg.Endpoint,
	}, nil
}

// BucketFor returns the bucket name for an attachment kind
func (c *S3Client) BucketFor(kind domain.AttachmentKind) string {
	if kind == domain.AttachmentKindPDF {
		return c.pdfBucket
	}
	return c.imageBucket
}

// GenerateStoragePath generates a unique object path for a task attachment.
// Format: tasks/{taskId}/{timestamp}_{uuid}{ext}
func (c *S3Client) GenerateStoragePath(taskID, fileExt string) string {
	return fmt.Sprintf("tasks/%s/%d_%s%s", taskID, time.Now().Unix(), uuid.NewString(), fileExt)
}

// UploadObject stores an object
func (c *S3Client) UploadObject(ctx context.Context, bucket, path string, body io.Reader, contentType string) error {
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(path),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	return nil
}

// PresignGetURL generates a presigned download URL valid for SignedURLTTL
func (c *S3Client) PresignGetURL(ctx context.Context, bucket, path string) (string, error) {
	presignedReq, err := c.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(path),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = SignedURLTTL
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	finalURL := presignedReq.URL

	// In docker-compose the SDK signs against the internal MinIO host; swap
	// it for the externally reachable one from the configured endpoint
	if c.endpoint != "" {
		const internalMinIOHost = "minio:9000"
		externalHost := strings.TrimPrefix(strings.TrimPrefix(c.endpoint, "http://"), "https://")
		finalURL = strings.Replace(finalURL, internalMinIOHost, externalHost, 1)
	}

	return finalURL, nil
}

// DeleteObject deletes an object
func (c *S3Client) DeleteObject(ctx context.Context, bucket, path string) error {
	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// ListObjects lists every object in a bucket, following pagination
func (c *S3Client) ListObjects(ctx context.Context, bucket string) ([]StorageObject, error) {
	var objects []StorageObject

	paginator := s3.NewListObjectsV2Paginator(c.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		for _, obj := range page.Contents {
			objects = append(objects, StorageObject{
				Path:         aws.ToString(obj.Key),
				LastModified: aws.ToTime(obj.LastModified),
			})
		}
	}

	return objects, nil
}
