package services

import (
	"fmt"
	"mime/multipart"
	"sync"
	"time"
)

// MockS3Service is a mock implementation of S3Interface for testing
type MockS3Service struct {
	objects     map[string]bool
	deletedKeys []string
	failUpload  bool
	failDelete  bool
	mu          sync.RWMutex
}

// NewMockS3Service creates a new mock S3 service
func NewMockS3Service() *MockS3Service {
	return &MockS3Service{
		objects: make(map[string]bool),
	}
}

// FailUploads makes every subsequent upload return an error
func (m *MockS3Service) FailUploads() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failUpload = true
}

// FailDeletes makes every subsequent delete return an error
func (m *MockS3Service) FailDeletes() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failDelete = true
}

// UploadFile simulates uploading a file to S3
func (m *MockS3Service) UploadFile(fileHeader *multipart.FileHeader) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failUpload {
		return "", fmt.Errorf("mock S3 upload failure")
	}

	s3Key := fmt.Sprintf("%s/%d_%s", ProductImageFolder, time.Now().Unix(), fileHeader.Filename)
	m.objects[s3Key] = true
	return s3Key, nil
}

// ObjectURL returns a mock public URL
func (m *MockS3Service) ObjectURL(s3Key string) string {
	if s3Key == "" {
		return ""
	}
	return fmt.Sprintf("https://test-bucket.s3.eu-west-3.amazonaws.com/%s", s3Key)
}

// DeleteFile simulates deleting a file from S3
func (m *MockS3Service) DeleteFile(s3Key string) error {
	if s3Key == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failDelete {
		return fmt.Errorf("mock S3 delete failure")
	}

	delete(m.objects, s3Key)
	m.deletedKeys = append(m.deletedKeys, s3Key)
	return nil
}

// DeletedKeys returns the keys passed to DeleteFile (for test assertions)
func (m *MockS3Service) DeletedKeys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, len(m.deletedKeys))
	copy(keys, m.deletedKeys)
	return keys
}

// ObjectExists checks whether a key exists in mock storage
func (m *MockS3Service) ObjectExists(s3Key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.objects[s3Key]
}
