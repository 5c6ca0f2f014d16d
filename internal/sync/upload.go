package sync

import (
	"context"
	"io"

	"go.uber.org/zap"

	"todo-hub-api/internal/client"
)

// UploadAttachment drains the pending-save set, uploads the file and
// merges the stored attachment into the addressed task. Drain failures
// are ignored and the upload proceeds; the drain only narrows the window
// in which a concurrent delete can strand the upload.
func (e *Editor) UploadAttachment(ctx context.Context, cardID, sectionID, taskID, fileName, contentType string, file io.Reader) (*client.UploadResult, error) {
	projectID, ok := e.currentProjectID()
	if !ok {
		return nil, ErrStaleTarget
	}

	if err := e.coord.Drain(ctx); err != nil {
		e.logger.Debug("Pending-save drain cut short before upload", zap.Error(err))
	}

	result, err := e.api.Upload(ctx, projectID.String(), cardID, sectionID, taskID, fileName, contentType, file)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	task := e.state.FindTask(cardID, sectionID, taskID)
	if task != nil {
		task.Attachments = append(task.Attachments, result.Attachment)
		e.mu.Unlock()
		return result, nil
	}
	e.mu.Unlock()

	// The task vanished from the replica while the bytes were in flight;
	// only the server knows the true shape now
	e.reloadCurrent(ctx)
	return result, nil
}

// AttachmentURL fetches a fresh signed download URL for an attachment
func (e *Editor) AttachmentURL(ctx context.Context, bucket, path string) (string, error) {
	return e.api.SignedURL(ctx, bucket, path)
}
