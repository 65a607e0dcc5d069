package controllers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lavexpress/lavexpress-api/config"
	"github.com/lavexpress/lavexpress-api/models"
	"github.com/lavexpress/lavexpress-api/tests/testutil"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testutil.MustSetTestEnvironment(t)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.User{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	config.SetDB(db)
	return db
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func performJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Response is not valid JSON: %v (body: %s)", err, w.Body.String())
	}
	return response
}

// multipartBody builds a multipart form with the given fields and an
// optional PNG file under the "image" field.
func multipartBody(t *testing.T, fields map[string]string, imageFilename string) (*bytes.Buffer, string) {
	t.Helper()

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("Failed to write form field %s: %v", key, err)
		}
	}

	if imageFilename != "" {
		part, err := writer.CreateFormFile("image", imageFilename)
		if err != nil {
			t.Fatalf("Failed to create form file: %v", err)
		}
		if _, err := part.Write([]byte("fake image bytes")); err != nil {
			t.Fatalf("Failed to write form file: %v", err)
		}
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}
	return buf, writer.FormDataContentType()
}

func performMultipart(t *testing.T, router *gin.Engine, method, path string, fields map[string]string, imageFilename string) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := multipartBody(t, fields, imageFilename)
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func seedUser(t *testing.T, db *gorm.DB, fullName, email, role string) models.User {
	t.Helper()

	user := models.User{
		Auth0ID:  "auth0|" + email,
		FullName: fullName,
		Email:    email,
		Role:     role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	return user
}

func seedOrder(t *testing.T, db *gorm.DB, customerID *uint, status string, total float64, createdAt time.Time) models.Order {
	t.Helper()

	order := models.Order{
		TotalAmount:     total,
		Status:          status,
		PaymentStatus:   "paid",
		ShippingAddress: "12 rue des Lilas, 75011 Paris",
		CustomerID:      customerID,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("Failed to seed order: %v", err)
	}
	if !createdAt.IsZero() {
		if err := db.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("created_at", createdAt).Error; err != nil {
			t.Fatalf("Failed to backdate order: %v", err)
		}
		order.CreatedAt = createdAt
	}
	return order
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, categoryID *uint) models.Product {
	t.Helper()

	product := models.Product{
		Name:       name,
		Price:      price,
		Stock:      5,
		CategoryID: categoryID,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("Failed to seed product: %v", err)
	}
	return product
}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Fatalf("Expected status %d, got %d (body: %s)", expected, w.Code, w.Body.String())
	}
}
