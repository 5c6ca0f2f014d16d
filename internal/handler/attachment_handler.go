package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"todo-hub-api/internal/domain"
	"todo-hub-api/internal/response"
	"todo-hub-api/internal/service"
)

// AttachmentHandler handles file upload and signed URL endpoints
type AttachmentHandler struct {
	attachmentService service.AttachmentService
	logger            *zap.Logger
}

// NewAttachmentHandler creates a new AttachmentHandler
func NewAttachmentHandler(attachmentService service.AttachmentService, logger *zap.Logger) *AttachmentHandler {
	return &AttachmentHandler{
		attachmentService: attachmentService,
		logger:            logger,
	}
}

// Upload godoc
// @Summary      Upload a task attachment
// @Description  Stores an image or PDF and attaches it to the task named by the form fields
// @Description  Images are normalized to compressed JPEG; files are capped at 10MB
// @Tags         attachments
// @Accept       multipart/form-data
// @Produce      json
// @Param        projectId formData string true "Project ID (UUID)"
// @Param        cardId formData string true "Card ID"
// @Param        sectionId formData string true "Section ID"
// @Param        taskId formData string true "Task ID"
// @Param        file formData file true "File to upload"
// @Success      200 {object} map[string]interface{} "Attachment metadata and download URL"
// @Failure      400 {object} map[string]string "Invalid request or unsupported type"
// @Failure      409 {object} map[string]string "Task no longer exists"
// @Router       /project/upload [post]
func (h *AttachmentHandler) Upload(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	projectID, err := uuid.Parse(c.PostForm("projectId"))
	if err != nil {
		response.SendUploadError(c, http.StatusBadRequest, "Invalid project ID")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.SendUploadError(c, http.StatusBadRequest, "File is required")
		return
	}
	if fileHeader.Size > domain.MaxAttachmentSize {
		response.SendUploadError(c, http.StatusBadRequest, "File exceeds the 10MB limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.SendUploadError(c, http.StatusBadRequest, "Failed to read file")
		return
	}
	defer file.Close()

	attachment, url, err := h.attachmentService.Upload(
		c.Request.Context(),
		userID,
		projectID,
		c.PostForm("cardId"),
		c.PostForm("sectionId"),
		c.PostForm("taskId"),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		handleUploadError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{
		"success":    true,
		"attachment": attachment,
		"url":        url,
	})
}

// GetSignedURL godoc
// @Summary      Get a download URL
// @Description  Returns a time limited download URL for an attachment the user owns
// @Tags         attachments
// @Produce      json
// @Param        bucket query string true "Storage bucket"
// @Param        path query string true "Object path"
// @Success      200 {object} map[string]string "Signed URL"
// @Failure      400 {object} map[string]string "Missing or unknown bucket/path"
// @Failure      403 {object} map[string]string "Path not owned by the user"
// @Router       /project/signed-url [get]
func (h *AttachmentHandler) GetSignedURL(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	url, err := h.attachmentService.GetSignedURL(c.Request.Context(), userID, c.Query("bucket"), c.Query("path"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"url": url})
}
