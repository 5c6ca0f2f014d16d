package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"path/filepath"
	"strings"
	"time"

	_ "image/gif"
	_ "image/png"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"todo-hub-api/internal/client"
	"todo-hub-api/internal/domain"
	"todo-hub-api/internal/metrics"
	"todo-hub-api/internal/repository"
	"todo-hub-api/internal/response"
)

// signedURLCacheTTL keeps cache entries shorter-lived than the signature
// itself so a cached URL is never served expired
const signedURLCacheTTL = 6 * 24 * time.Hour

// jpegQuality for normalized image uploads
const jpegQuality = 80

// AttachmentService defines the interface for upload and signed-URL logic
type AttachmentService interface {
	Upload(ctx context.Context, userID, projectID uuid.UUID, cardID, sectionID, taskID, fileName, contentType string, file io.Reader) (*domain.Attachment, string, error)
	GetSignedURL(ctx context.Context, userID uuid.UUID, bucket, path string) (string, error)
}

// attachmentServiceImpl is the implementation of AttachmentService
type attachmentServiceImpl struct {
	projectRepo repository.ProjectRepository
	s3Client    client.S3ClientInterface
	redisClient *redis.Client
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewAttachmentService creates a new instance of AttachmentService.
// redisClient may be nil; signed URLs are then presigned on every request.
func NewAttachmentService(
	projectRepo repository.ProjectRepository,
	s3Client client.S3ClientInterface,
	redisClient *redis.Client,
	m *metrics.Metrics,
	logger *zap.Logger,
) AttachmentService {
	return &attachmentServiceImpl{
		projectRepo: projectRepo,
		s3Client:    s3Client,
		redisClient: redisClient,
		metrics:     m,
		logger:      logger,
	}
}

// Upload stores the file bytes, then attaches the metadata to the task
// under the project row lock. The object is written before the document
// update; if the task disappeared while the bytes were in flight, the
// update reports a conflict and the object is deleted best-effort.
func (s *attachmentServiceImpl) Upload(ctx context.Context, userID, projectID uuid.UUID, cardID, sectionID, taskID, fileName, contentType string, file io.Reader) (*domain.Attachment, string, error) {
	if cardID == "" || sectionID == "" || taskID == "" {
		return nil, "", response.NewValidationError("Card, section and task ids are required", "")
	}

	kind, ok := domain.ClassifyContentType(contentType)
	if !ok {
		return nil, "", response.NewAppError(response.ErrCodeUnsupportedType, "Only images and PDF files are supported", contentType)
	}

	data, err := io.ReadAll(io.LimitReader(file, domain.MaxAttachmentSize+1))
	if err != nil {
		return nil, "", response.NewAppError(response.ErrCodeInternal, "Failed to read upload", err.Error())
	}
	if len(data) > domain.MaxAttachmentSize {
		return nil, "", response.NewValidationError("File exceeds the 10MB limit", "")
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if kind == domain.AttachmentKindImage {
		// Normalize to compressed JPEG; formats the decoder does not know
		// are stored as-is
		if normalized, ok := normalizeImage(data); ok {
			data = normalized
			contentType = "image/jpeg"
			ext = ".jpg"
		}
	}
	if ext == "" {
		ext = defaultExtension(kind)
	}

	bucket := s.s3Client.BucketFor(kind)
	storagePath := s.s3Client.GenerateStoragePath(taskID, ext)

	if err := s.s3Client.UploadObject(ctx, bucket, storagePath, bytes.NewReader(data), contentType); err != nil {
		if s.metrics != nil {
			s.metrics.IncrementAttachmentUploadError()
		}
		return nil, "", response.NewAppError(response.ErrCodeStorage, "Failed to store file", err.Error())
	}

	attachment := domain.Attachment{
		ID:          uuid.NewString(),
		Name:        fileName,
		Kind:        kind,
		StoragePath: storagePath,
		SizeBytes:   int64(len(data)),
		UploadedBy:  userID,
		UploadedAt:  time.Now().UTC(),
	}

	_, err = s.projectRepo.MutateOwned(ctx, projectID, userID, func(p *domain.Project) error {
		task := p.FindTask(cardID, sectionID, taskID)
		if task == nil {
			return response.NewConflictError("Task no longer exists", "task removed while the upload was in flight")
		}
		task.Attachments = append(task.Attachments, attachment)
		return nil
	})
	if err != nil {
		// The bytes are already stored; clean up so they do not linger
		// until the sweep finds them
		if delErr := s.s3Client.DeleteObject(ctx, bucket, storagePath); delErr != nil {
			s.logger.Warn("Failed to delete orphaned upload",
				zap.String("bucket", bucket),
				zap.String("path", storagePath),
				zap.Error(delErr),
			)
		}
		if s.metrics != nil {
			s.metrics.IncrementAttachmentUploadError()
		}
		return nil, "", err
	}

	url, err := s.s3Client.PresignGetURL(ctx, bucket, storagePath)
	if err != nil {
		// Metadata is attached; the client can fetch a URL later
		s.logger.Warn("Failed to presign fresh upload",
			zap.String("path", storagePath),
			zap.Error(err),
		)
		url = ""
	}

	if s.metrics != nil {
		s.metrics.IncrementAttachmentUpload()
	}
	s.logger.Info("Attachment uploaded",
		zap.String("project_id", projectID.String()),
		zap.String("task_id", taskID),
		zap.String("path", storagePath),
		zap.Int64("size", attachment.SizeBytes),
	)
	return &attachment, url, nil
}

// GetSignedURL returns a download URL for a stored object. The requester
// must own a project whose document references exactly this path.
func (s *attachmentServiceImpl) GetSignedURL(ctx context.Context, userID uuid.UUID, bucket, path string) (string, error) {
	if bucket == "" || path == "" {
		return "", response.NewValidationError("Bucket and path are required", "")
	}
	if bucket != s.s3Client.BucketFor(domain.AttachmentKindImage) &&
		bucket != s.s3Client.BucketFor(domain.AttachmentKindPDF) {
		return "", response.NewValidationError("Unknown bucket", bucket)
	}

	owned, err := s.ownsPath(ctx, userID, path)
	if err != nil {
		return "", response.NewAppError(response.ErrCodeInternal, "Failed to verify ownership", err.Error())
	}
	if !owned {
		return "", response.NewForbiddenError("You do not have access to this file")
	}

	cacheKey := fmt.Sprintf("signed-url:%s:%s", bucket, path)
	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
			return cached, nil
		}
	}

	url, err := s.s3Client.PresignGetURL(ctx, bucket, path)
	if err != nil {
		return "", response.NewAppError(response.ErrCodeStorage, "Failed to sign URL", err.Error())
	}

	if s.redisClient != nil {
		if err := s.redisClient.Set(ctx, cacheKey, url, signedURLCacheTTL).Err(); err != nil {
			s.logger.Debug("Failed to cache signed URL", zap.Error(err))
		}
	}
	return url, nil
}

func (s *attachmentServiceImpl) ownsPath(ctx context.Context, userID uuid.UUID, path string) (bool, error) {
	projects, err := s.projectRepo.FindByOwner(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, project := range projects {
		if project.ReferencesStoragePath(path) {
			return true, nil
		}
	}
	return false, nil
}

// normalizeImage re-encodes a decodable image as compressed JPEG
func normalizeImage(data []byte) ([]byte, bool) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, false
	}
	return buf.Bytes(), true
}

func defaultExtension(kind domain.AttachmentKind) string {
	if kind == domain.AttachmentKindPDF {
		return ".pdf"
	}
	return ".jpg"
}
