package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"todo-hub-api/internal/client"
	"todo-hub-api/internal/domain"
)

// stubProjectRepository implements just enough of the repository for the
// sweep, which only reads the referenced-path set
type stubProjectRepository struct {
	paths    map[string]struct{}
	pathsErr error
}

func (s *stubProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	return errors.New("not implemented")
}

func (s *stubProjectRepository) FindByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Project, error) {
	return nil, errors.New("not implemented")
}

func (s *stubProjectRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Project, error) {
	return nil, errors.New("not implemented")
}

func (s *stubProjectRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	return errors.New("not implemented")
}

func (s *stubProjectRepository) MutateOwned(ctx context.Context, id, ownerID uuid.UUID, fn func(*domain.Project) error) (*domain.Project, error) {
	return nil, errors.New("not implemented")
}

func (s *stubProjectRepository) AllStoragePaths(ctx context.Context) (map[string]struct{}, error) {
	if s.pathsErr != nil {
		return nil, s.pathsErr
	}
	return s.paths, nil
}

func (s *stubProjectRepository) CountProjects(ctx context.Context) (int64, error) {
	return 0, nil
}

func bucketPaths(s3 *client.MockS3Client, bucket string) []string {
	var paths []string
	for _, obj := range s3.Objects[bucket] {
		paths = append(paths, obj.Path)
	}
	return paths
}

func TestSweepJob_DeletesOnlyOldOrphans(t *testing.T) {
	s3 := client.NewMockS3Client()
	now := time.Now()

	s3.Objects[s3.ImageBucket] = []client.StorageObject{
		{Path: "tasks/task-1/1_referenced.jpg", LastModified: now.Add(-72 * time.Hour)},
		{Path: "tasks/task-2/2_old_orphan.jpg", LastModified: now.Add(-48 * time.Hour)},
		{Path: "tasks/task-3/3_fresh_orphan.jpg", LastModified: now.Add(-time.Hour)},
	}
	s3.Objects[s3.PDFBucket] = []client.StorageObject{
		{Path: "tasks/task-4/4_old_orphan.pdf", LastModified: now.Add(-25 * time.Hour)},
	}

	repo := &stubProjectRepository{paths: map[string]struct{}{
		"tasks/task-1/1_referenced.jpg": {},
	}}

	job := NewSweepJob(repo, s3, zap.NewNop())
	job.Run()

	assert.ElementsMatch(t,
		[]string{"tasks/task-1/1_referenced.jpg", "tasks/task-3/3_fresh_orphan.jpg"},
		bucketPaths(s3, s3.ImageBucket),
	)
	assert.Empty(t, bucketPaths(s3, s3.PDFBucket))
}

func TestSweepJob_GracePeriodBoundary(t *testing.T) {
	s3 := client.NewMockS3Client()
	now := time.Now()

	s3.Objects[s3.ImageBucket] = []client.StorageObject{
		{Path: "tasks/task-1/just_inside.jpg", LastModified: now.Add(-orphanGracePeriod + time.Minute)},
		{Path: "tasks/task-1/just_outside.jpg", LastModified: now.Add(-orphanGracePeriod - time.Minute)},
	}

	repo := &stubProjectRepository{paths: map[string]struct{}{}}
	job := NewSweepJob(repo, s3, zap.NewNop())
	job.now = func() time.Time { return now }
	job.Run()

	assert.Equal(t, []string{"tasks/task-1/just_inside.jpg"}, bucketPaths(s3, s3.ImageBucket))
}

func TestSweepJob_RepositoryError_NothingDeleted(t *testing.T) {
	s3 := client.NewMockS3Client()
	s3.Objects[s3.ImageBucket] = []client.StorageObject{
		{Path: "tasks/task-1/orphan.jpg", LastModified: time.Now().Add(-48 * time.Hour)},
	}

	repo := &stubProjectRepository{pathsErr: errors.New("database down")}
	job := NewSweepJob(repo, s3, zap.NewNop())
	job.Run()

	assert.Len(t, bucketPaths(s3, s3.ImageBucket), 1)
}

func TestSweepJob_ListFailureSkipsBucket(t *testing.T) {
	s3 := client.NewMockS3Client()
	now := time.Now()

	s3.Objects[s3.ImageBucket] = []client.StorageObject{
		{Path: "tasks/task-1/img_orphan.jpg", LastModified: now.Add(-48 * time.Hour)},
	}
	s3.Objects[s3.PDFBucket] = []client.StorageObject{
		{Path: "tasks/task-2/pdf_orphan.pdf", LastModified: now.Add(-48 * time.Hour)},
	}

	s3.ListObjectsFunc = func(ctx context.Context, bucket string) ([]client.StorageObject, error) {
		if bucket == s3.ImageBucket {
			return nil, errors.New("bucket unavailable")
		}
		return s3.Objects[bucket], nil
	}

	repo := &stubProjectRepository{paths: map[string]struct{}{}}
	job := NewSweepJob(repo, s3, zap.NewNop())
	job.Run()

	// The unlistable bucket is untouched, the other is still swept
	assert.Len(t, bucketPaths(s3, s3.ImageBucket), 1)
	assert.Empty(t, bucketPaths(s3, s3.PDFBucket))
}

func TestSweepJob_DeleteFailureContinues(t *testing.T) {
	s3 := client.NewMockS3Client()
	now := time.Now()

	s3.Objects[s3.ImageBucket] = []client.StorageObject{
		{Path: "tasks/task-1/poisoned.jpg", LastModified: now.Add(-48 * time.Hour)},
		{Path: "tasks/task-2/orphan.jpg", LastModified: now.Add(-48 * time.Hour)},
	}

	var deleted []string
	s3.DeleteObjectFunc = func(ctx context.Context, bucket, path string) error {
		if path == "tasks/task-1/poisoned.jpg" {
			return errors.New("delete failed")
		}
		deleted = append(deleted, path)
		return nil
	}

	repo := &stubProjectRepository{paths: map[string]struct{}{}}
	job := NewSweepJob(repo, s3, zap.NewNop())
	job.Run()

	require.Equal(t, []string{"tasks/task-2/orphan.jpg"}, deleted)
}
