package services

import (
	"fmt"
	"mime/multipart"

	"github.com/lavexpress/lavexpress-api/utils"
)

// ImageService handles image upload, URL resolution and deletion for
// the catalog. Deletion failures on replacement are treated as
// non-fatal by callers; upload failures always abort the operation.
type ImageService interface {
	// UploadImage validates and uploads an image file, returning the
	// storage key and the public URL.
	UploadImage(fileHeader *multipart.FileHeader) (key string, url string, err error)

	// DeleteImage removes an image from storage
	DeleteImage(imageKey string) error
}

// S3ImageService implements ImageService using AWS S3 for storage
type S3ImageService struct {
	s3Service S3Interface
}

var imageServiceInstance ImageService

// InitImageService initializes the image service with S3 backend
func InitImageService(s3Service S3Interface) ImageService {
	imageServiceInstance = &S3ImageService{
		s3Service: s3Service,
	}
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

// UploadImage validates and uploads an image file to S3
func (s *S3ImageService) UploadImage(fileHeader *multipart.FileHeader) (string, string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", "", err
	}

	s3Key, err := s.s3Service.UploadFile(fileHeader)
	if err != nil {
		return "", "", fmt.Errorf("failed to upload image: %w", err)
	}

	return s3Key, s.s3Service.ObjectURL(s3Key), nil
}

// DeleteImage deletes an image from S3
func (s *S3ImageService) DeleteImage(imageKey string) error {
	if imageKey == "" {
		return nil
	}

	if err := s.s3Service.DeleteFile(imageKey); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	return nil
}
