package handler

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"skillswap/internal/domain/service"
	"skillswap/internal/usecase"
	"skillswap/pkg/errors"
	"skillswap/pkg/logger"
	"skillswap/pkg/response"
)

type FileHandler struct {
	fileService service.FileUploadService
	userUseCase *usecase.UserUseCase
	maxFileSize int64
}

var fileHandler *FileHandler

func NewFileHandler(fileService service.FileUploadService, userUseCase *usecase.UserUseCase, maxFileSizeMB int64) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		userUseCase: userUseCase,
		maxFileSize: maxFileSizeMB * 1024 * 1024,
	}
}

func SetupFileHandler(fileService service.FileUploadService, userUseCase *usecase.UserUseCase, maxFileSizeMB int64) {
	fileHandler = NewFileHandler(fileService, userUseCase, maxFileSizeMB)
}

func GetFileHandler() *FileHandler {
	return fileHandler
}

// UploadProfilePicture stores the uploaded image and records its public URL
// on the caller's profile.
func (h *FileHandler) UploadProfilePicture(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	file, err := c.FormFile("file")
	if err != nil {
		logger.Error("Error getting file from form: %v", err)
		return response.Error(c, errors.BadRequest("Missing or invalid file", err))
	}

	if file.Size > h.maxFileSize {
		logger.Warn("File too large: %d bytes (max: %d)", file.Size, h.maxFileSize)
		return response.Error(c, errors.BadRequest(fmt.Sprintf("File size exceeds maximum allowed (%dMB)", h.maxFileSize/(1024*1024)), nil))
	}

	fileType := file.Header.Get("Content-Type")
	if !isAllowedImageType(fileType) {
		logger.Warn("Invalid file type: %s", fileType)
		return response.Error(c, errors.BadRequest("File type not supported", nil))
	}

	src, err := file.Open()
	if err != nil {
		logger.Error("Error opening file: %v", err)
		return response.Error(c, errors.Internal("Unable to read file", err))
	}
	defer src.Close()

	url, err := h.fileService.UploadFile(c.Request().Context(), src, fileType, "profile-pictures", true)
	if err != nil {
		logger.Error("Error from storage client: %v", err)
		return response.Error(c, errors.Internal("Failed to upload file", err))
	}
	logger.Debug("Uploaded profile picture for %s: %s", userID, url)

	user, err := h.userUseCase.UpdateProfile(c.Request().Context(), userID, usecase.UpdateProfileInput{
		ProfilePicture: url,
	})
	if err != nil {
		// The object is already stored; clean it up so orphans don't pile up.
		if delErr := h.fileService.DeleteFile(c.Request().Context(), url); delErr != nil {
			logger.Error("Failed to remove orphaned upload %s: %v", url, delErr)
		}
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"url":  url,
		"user": user,
	})
}

func isAllowedImageType(fileType string) bool {
	allowedTypes := []string{
		"image/jpeg",
		"image/jpg",
		"image/png",
		"image/gif",
		"image/webp",
	}

	for _, allowedType := range allowedTypes {
		if fileType == allowedType {
			return true
		}
	}

	return false
}
