package domain

import (
	"time"

	"github.com/google/uuid"
)

// AttachmentKind classifies an uploaded file
type AttachmentKind string

const (
	AttachmentKindImage AttachmentKind = "image"
	AttachmentKindPDF   AttachmentKind = "pdf"
)

// MaxAttachmentSize is the upload size limit in bytes (10MB)
const MaxAttachmentSize = 10 << 20

// Attachment is file metadata embedded in a task. The bytes themselves live
// in object storage under StoragePath; the document only carries the pointer.
type Attachment struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Kind        AttachmentKind `json:"type"`
	StoragePath string         `json:"path"`
	SizeBytes   int64          `json:"size"`
	UploadedBy  uuid.UUID      `json:"uploadedBy"`
	UploadedAt  time.Time      `json:"uploadedAt"`
}

// ClassifyContentType maps a declared content type to an attachment kind.
// Anything that is not an image or a PDF is rejected.
func ClassifyContentType(contentType string) (AttachmentKind, bool) {
	switch {
	case contentType == "application/pdf":
		return AttachmentKindPDF, true
	case len(contentType) > 6 && contentType[:6] == "image/":
		return AttachmentKindImage, true
	default:
		return "", false
	}
}
