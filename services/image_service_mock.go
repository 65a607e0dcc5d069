package services

import (
	"fmt"
	"mime/multipart"
	"sync"

	"github.com/lavexpress/lavexpress-api/utils"
)

// MockImageService is a mock implementation of ImageService for testing
type MockImageService struct {
	uploadedKeys []string
	deletedKeys  []string
	failUpload   bool
	failDelete   bool
	mu           sync.RWMutex
}

// NewMockImageService creates a new mock image service
func NewMockImageService() *MockImageService {
	return &MockImageService{}
}

// SetAsMockForTesting sets this mock as the global image service instance
func (m *MockImageService) SetAsMockForTesting() {
	SetImageService(m)
}

// FailUploads makes every subsequent upload return an error
func (m *MockImageService) FailUploads() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failUpload = true
}

// FailDeletes makes every subsequent delete return an error
func (m *MockImageService) FailDeletes() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failDelete = true
}

// UploadImage simulates a validated upload
func (m *MockImageService) UploadImage(fileHeader *multipart.FileHeader) (string, string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failUpload {
		return "", "", fmt.Errorf("mock image upload failure")
	}

	key := fmt.Sprintf("%s/mock_%s", ProductImageFolder, fileHeader.Filename)
	m.uploadedKeys = append(m.uploadedKeys, key)
	url := fmt.Sprintf("https://test-bucket.s3.eu-west-3.amazonaws.com/%s", key)
	return key, url, nil
}

// DeleteImage simulates deleting an image
func (m *MockImageService) DeleteImage(imageKey string) error {
	if imageKey == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Record the attempt even when failing so tests can assert the
	// best-effort path was exercised.
	m.deletedKeys = append(m.deletedKeys, imageKey)

	if m.failDelete {
		return fmt.Errorf("mock image delete failure")
	}
	return nil
}

// UploadedKeys returns the keys produced by UploadImage
func (m *MockImageService) UploadedKeys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, len(m.uploadedKeys))
	copy(keys, m.uploadedKeys)
	return keys
}

// DeletedKeys returns the keys passed to DeleteImage
func (m *MockImageService) DeletedKeys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, len(m.deletedKeys))
	copy(keys, m.deletedKeys)
	return keys
}
