package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/freshfold/laundry-api/utils"
	"github.com/google/uuid"
)

// ImageService stores the garment photos customers attach to their orders
type ImageService interface {
	// UploadImage validates a photo and stores it under the order's prefix, returning the storage key
	UploadImage(ctx context.Context, orderID uint, fileHeader *multipart.FileHeader) (string, error)

	// GetImageURL generates a URL for accessing a stored photo
	GetImageURL(ctx context.Context, imageKey string) (string, error)

	// DeleteImage removes a photo from storage
	DeleteImage(ctx context.Context, imageKey string) error
}

// S3ImageService implements ImageService on top of an S3Interface.
// Keys are photos/orders/{order id}/{unix nano}_{token}{ext}, so two orders
// never share an object even when the same file name is uploaded at the same instant.
type S3ImageService struct {
	s3Service S3Interface
	now       func() time.Time
	newToken  func() string
}

var imageServiceInstance ImageService

func newS3ImageService(s3Service S3Interface, now func() time.Time, newToken func() string) *S3ImageService {
	if now == nil {
		now = time.Now
	}
	if newToken == nil {
		newToken = uuid.NewString
	}
	return &S3ImageService{s3Service: s3Service, now: now, newToken: newToken}
}

// InitImageService initializes the photo service with an S3 backend
func InitImageService(s3Service S3Interface) ImageService {
	imageServiceInstance = newS3ImageService(s3Service, nil, nil)
	return imageServiceInstance
}

// GetImageService returns the initialized image service instance
func GetImageService() ImageService {
	return imageServiceInstance
}

// SetImageService sets the image service instance (primarily for testing)
func SetImageService(service ImageService) {
	imageServiceInstance = service
}

// OrderPhotoPrefix is the key prefix every photo of an order lives under
func OrderPhotoPrefix(orderID uint) string {
	return fmt.Sprintf("photos/orders/%d/", orderID)
}

// IsOrderPhotoKey reports whether key belongs to the given order
func IsOrderPhotoKey(orderID uint, key string) bool {
	return strings.HasPrefix(key, OrderPhotoPrefix(orderID))
}

func (s *S3ImageService) photoKey(orderID uint, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s%d_%s%s", OrderPhotoPrefix(orderID), s.now().UnixNano(), s.newToken(), ext)
}

// UploadImage validates the photo and uploads it under the order's prefix
func (s *S3ImageService) UploadImage(ctx context.Context, orderID uint, fileHeader *multipart.FileHeader) (string, error) {
	if orderID == 0 {
		return "", fmt.Errorf("photo upload needs an order")
	}
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	key := s.photoKey(orderID, fileHeader.Filename)
	if err := s.s3Service.UploadFile(ctx, key, fileHeader); err != nil {
		return "", fmt.Errorf("failed to upload photo for order %d: %w", orderID, err)
	}

	return key, nil
}

// GetImageURL generates a presigned URL for a stored photo
func (s *S3ImageService) GetImageURL(ctx context.Context, imageKey string) (string, error) {
	if imageKey == "" {
		return "", nil
	}

	url, err := s.s3Service.GetPresignedURL(ctx, imageKey)
	if err != nil {
		return "", fmt.Errorf("failed to generate photo URL: %w", err)
	}

	return url, nil
}

// DeleteImage deletes a stored photo
func (s *S3ImageService) DeleteImage(ctx context.Context, imageKey string) error {
	if imageKey == "" {
		return nil
	}

	if err := s.s3Service.DeleteFile(ctx, imageKey); err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}

	return nil
}
