package utils

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
)

const (
	// MaxFileSize is 10MB in bytes
	MaxFileSize = 10 * 1024 * 1024
)

// allowedImageTypes maps accepted photo extensions to their content type
var allowedImageTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// ValidateImageFile validates the uploaded file format and size
func ValidateImageFile(fileHeader *multipart.FileHeader) error {
	if fileHeader.Size > MaxFileSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxFileSize/(1024*1024)),
		}
	}

	if _, ok := allowedImageTypes[strings.ToLower(filepath.Ext(fileHeader.Filename))]; !ok {
		return &FileUploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: "Only PNG and JPEG photos are allowed",
		}
	}

	return nil
}

// ImageContentType returns the content type for a validated photo filename
func ImageContentType(filename string) string {
	if contentType, ok := allowedImageTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return contentType
	}
	return "application/octet-stream"
}
