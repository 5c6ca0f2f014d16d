package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"todo-hub-api/internal/response"
)

// handleServiceError maps service layer errors to HTTP responses
func handleServiceError(c *gin.Context, logger *zap.Logger, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.SendError(c, http.StatusNotFound, response.ErrCodeNotFound, "Resource not found")
		return
	}

	var appErr *response.AppError
	if errors.As(err, &appErr) {
		logger.Debug("Service error",
			zap.String("code", appErr.Code),
			zap.String("message", appErr.Message),
			zap.String("details", appErr.Details),
		)
		response.SendError(c, mapErrorCodeToHTTPStatus(appErr.Code), appErr.Code, appErr.Message)
		return
	}

	logger.Error("Unhandled service error", zap.Error(err))
	response.SendError(c, http.StatusInternalServerError, response.ErrCodeInternal, "Internal server error")
}

// handleUploadError is handleServiceError with the upload error envelope,
// which carries success:false next to the message
func handleUploadError(c *gin.Context, logger *zap.Logger, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.SendUploadError(c, http.StatusNotFound, "Resource not found")
		return
	}

	var appErr *response.AppError
	if errors.As(err, &appErr) {
		logger.Debug("Upload error",
			zap.String("code", appErr.Code),
			zap.String("message", appErr.Message),
			zap.String("details", appErr.Details),
		)
		response.SendUploadError(c, mapErrorCodeToHTTPStatus(appErr.Code), appErr.Message)
		return
	}

	logger.Error("Unhandled upload error", zap.Error(err))
	response.SendUploadError(c, http.StatusInternalServerError, "Internal server error")
}

// mapErrorCodeToHTTPStatus maps error codes to HTTP status codes
func mapErrorCodeToHTTPStatus(code string) int {
	switch code {
	case response.ErrCodeValidation, response.ErrCodeUnsupportedType:
		return http.StatusBadRequest
	case response.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case response.ErrCodeForbidden:
		return http.StatusForbidden
	case response.ErrCodeNotFound:
		return http.StatusNotFound
	case response.ErrCodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
