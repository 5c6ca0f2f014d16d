package job

import (
	"context"
	"time"

	"go.uber.org/zap"

	"todo-hub-api/internal/client"
	"todo-hub-api/internal/domain"
	"todo-hub-api/internal/repository"
)

// orphanGracePeriod shields objects whose upload may still be in flight.
// An object younger than this is never deleted even when no document
// references it yet.
const orphanGracePeriod = 24 * time.Hour

// SweepJob removes stored attachment objects that no project document
// references anymore. Deleting a task or any of its ancestors drops the
// attachment metadata inside the document; the bytes in storage are left
// behind and this job collects them.
type SweepJob struct {
	projectRepo repository.ProjectRepository
	s3Client    client.S3ClientInterface
	logger      *zap.Logger
	now         func() time.Time
}

// NewSweepJob creates a new SweepJob instance
func NewSweepJob(
	projectRepo repository.ProjectRepository,
	s3Client client.S3ClientInterface,
	logger *zap.Logger,
) *SweepJob {
	return &SweepJob{
		projectRepo: projectRepo,
		s3Client:    s3Client,
		logger:      logger,
		now:         time.Now,
	}
}

// Run executes one sweep over both attachment buckets.
// Satisfies cron.Job so the scheduler can invoke it directly.
func (j *SweepJob) Run() {
	ctx := context.Background()

	j.logger.Info("Starting orphaned attachment sweep")

	live, err := j.projectRepo.AllStoragePaths(ctx)
	if err != nil {
		// Without the live set every object looks orphaned, so bail out
		j.logger.Error("Failed to collect referenced storage paths", zap.Error(err))
		return
	}

	cutoff := j.now().Add(-orphanGracePeriod)
	totalScanned := 0
	totalDeleted := 0
	totalFailed := 0

	buckets := []string{
		j.s3Client.BucketFor(domain.AttachmentKindImage),
		j.s3Client.BucketFor(domain.AttachmentKindPDF),
	}
	for _, bucket := range buckets {
		scanned, deleted, failed := j.sweepBucket(ctx, bucket, live, cutoff)
		totalScanned += scanned
		totalDeleted += deleted
		totalFailed += failed
	}

	j.logger.Info("Orphaned attachment sweep completed",
		zap.Int("scanned", totalScanned),
		zap.Int("referenced", len(live)),
		zap.Int("deleted", totalDeleted),
		zap.Int("failed", totalFailed),
	)
}

func (j *SweepJob) sweepBucket(ctx context.Context, bucket string, live map[string]struct{}, cutoff time.Time) (scanned, deleted, failed int) {
	objects, err := j.s3Client.ListObjects(ctx, bucket)
	if err != nil {
		j.logger.Error("Failed to list bucket",
			zap.String("bucket", bucket),
			zap.Error(err),
		)
		return 0, 0, 0
	}

	for _, obj := range objects {
		scanned++

		if _, ok := live[obj.Path]; ok {
			continue
		}
		if obj.LastModified.After(cutoff) {
			continue
		}

		if err := j.s3Client.DeleteObject(ctx, bucket, obj.Path); err != nil {
			j.logger.Error("Failed to delete orphaned object",
				zap.String("bucket", bucket),
				zap.String("path", obj.Path),
				zap.Error(err),
			)
			failed++
			continue
		}

		deleted++
		j.logger.Debug("Deleted orphaned object",
			zap.String("bucket", bucket),
			zap.String("path", obj.Path),
		)
	}
	return scanned, deleted, failed
}
