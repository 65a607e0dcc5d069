package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/lavexpress/lavexpress-api/models"
)

func categoryRouter() *gin.Engine {
	router := setupTestRouter()
	router.GET("/admin/categories", ListCategories)
	router.GET("/admin/categories/:id", GetCategory)
	router.POST("/admin/categories", CreateCategory)
	router.PUT("/admin/categories/:id", UpdateCategory)
	router.DELETE("/admin/categories/:id", DeleteCategory)
	return router
}

func TestCreateCategory(t *testing.T) {
	setupTestDB(t)
	router := categoryRouter()

	w := performJSON(t, router, "POST", "/admin/categories", gin.H{"name": "Cire"})
	assertStatus(t, w, http.StatusCreated)

	response := parseResponse(t, w)
	assert.Equal(t, true, response["success"])
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "Cire", data["name"])
	assert.Equal(t, "", data["description"], "description defaults to empty string")
}

func TestCreateCategoryValidation(t *testing.T) {
	setupTestDB(t)
	router := categoryRouter()

	w := performJSON(t, router, "POST", "/admin/categories", gin.H{"description": "sans nom"})
	assertStatus(t, w, http.StatusBadRequest)

	response := parseResponse(t, w)
	assert.Equal(t, false, response["success"])
	errObj := response["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_ERROR", errObj["code"])
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	db := setupTestDB(t)
	router := categoryRouter()

	db.Create(&models.Category{Name: "Cire"})

	w := performJSON(t, router, "POST", "/admin/categories", gin.H{"name": "Cire"})
	assertStatus(t, w, http.StatusBadRequest)

	response := parseResponse(t, w)
	errObj := response["error"].(map[string]interface{})
	assert.Equal(t, "CONFLICT", errObj["code"])
}

func TestListCategoriesOrderedByName(t *testing.T) {
	db := setupTestDB(t)
	router := categoryRouter()

	db.Create(&models.Category{Name: "Shampooing"})
	db.Create(&models.Category{Name: "Accessoires"})
	db.Create(&models.Category{Name: "Cire"})

	w := performJSON(t, router, "GET", "/admin/categories", nil)
	assertStatus(t, w, http.StatusOK)

	response := parseResponse(t, w)
	data := response["data"].([]interface{})
	assert.Len(t, data, 3)
	assert.Equal(t, "Accessoires", data[0].(map[string]interface{})["name"])
	assert.Equal(t, "Cire", data[1].(map[string]interface{})["name"])
	assert.Equal(t, "Shampooing", data[2].(map[string]interface{})["name"])
}

func TestGetCategoryNotFound(t *testing.T) {
	setupTestDB(t)
	router := categoryRouter()

	w := performJSON(t, router, "GET", "/admin/categories/999", nil)
	assertStatus(t, w, http.StatusNotFound)
}

func TestUpdateCategoryPartial(t *testing.T) {
	db := setupTestDB(t)
	router := categoryRouter()

	category := models.Category{Name: "Cire", Description: "Cires et polish"}
	db.Create(&category)

	// Only name provided: description must be untouched
	w := performJSON(t, router, "PUT", "/admin/categories/1", gin.H{"name": "Cires"})
	assertStatus(t, w, http.StatusOK)

	response := parseResponse(t, w)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "Cires", data["name"])
	assert.Equal(t, "Cires et polish", data["description"], "absent field must keep its previous value")

	// Explicit empty string must be applied
	w = performJSON(t, router, "PUT", "/admin/categories/1", gin.H{"description": ""})
	assertStatus(t, w, http.StatusOK)

	response = parseResponse(t, w)
	data = response["data"].(map[string]interface{})
	assert.Equal(t, "", data["description"], "explicit empty string must be applied")
	assert.Equal(t, "Cires", data["name"])
}

func TestDeleteCategoryInUse(t *testing.T) {
	db := setupTestDB(t)
	router := categoryRouter()

	category := models.Category{Name: "Cire"}
	db.Create(&category)
	seedProduct(t, db, "Cire Premium", 29.99, &category.ID)

	// Rejection is idempotent: retrying keeps failing and the category persists
	for i := 0; i < 2; i++ {
		w := performJSON(t, router, "DELETE", "/admin/categories/1", nil)
		assertStatus(t, w, http.StatusBadRequest)

		response := parseResponse(t, w)
		errObj := response["error"].(map[string]interface{})
		assert.Equal(t, "CONFLICT", errObj["code"])
	}

	var count int64
	db.Model(&models.Category{}).Count(&count)
	assert.Equal(t, int64(1), count, "category must never be deleted while referenced")
}

func TestDeleteCategoryUnused(t *testing.T) {
	db := setupTestDB(t)
	router := categoryRouter()

	db.Create(&models.Category{Name: "Éponges"})

	w := performJSON(t, router, "DELETE", "/admin/categories/1", nil)
	assertStatus(t, w, http.StatusOK)

	w = performJSON(t, router, "GET", "/admin/categories/1", nil)
	assertStatus(t, w, http.StatusNotFound)
}
