package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lavexpress/lavexpress-api/config"
	"github.com/lavexpress/lavexpress-api/models"
)

// CreateCategoryRequest represents the request body for creating a category
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// UpdateCategoryRequest represents the request body for updating a
// category. Pointer fields distinguish "absent" (leave untouched) from
// an explicit empty string (apply).
type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// ListCategories handles GET /admin/categories
func ListCategories(c *gin.Context) {
	db := config.GetDB()

	var categories []models.Category
	if err := db.Order("name ASC").Find(&categories).Error; err != nil {
		respondDatabaseError(c)
		return
	}

	respondOK(c, categories)
}

// GetCategory handles GET /admin/categories/:id
func GetCategory(c *gin.Context) {
	db := config.GetDB()

	var category models.Category
	if err := db.First(&category, c.Param("id")).Error; err != nil {
		respondNotFound(c, "Catégorie introuvable")
		return
	}

	respondOK(c, category)
}

// CreateCategory handles POST /admin/categories
func CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "Le nom de la catégorie est requis")
		return
	}

	category := models.Category{
		Name:        req.Name,
		Description: req.Description,
	}

	db := config.GetDB()
	if err := db.Create(&category).Error; err != nil {
		if isUniqueViolation(err) {
			respondConflict(c, "Une catégorie avec ce nom existe déjà")
			return
		}
		respondDatabaseError(c)
		return
	}

	respondCreated(c, category)
}

// UpdateCategory handles PUT /admin/categories/:id
func UpdateCategory(c *gin.Context) {
	db := config.GetDB()

	var category models.Category
	if err := db.First(&category, c.Param("id")).Error; err != nil {
		respondNotFound(c, "Catégorie introuvable")
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "Données invalides")
		return
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if err := db.Model(&category).Updates(updates).Error; err != nil {
		if isUniqueViolation(err) {
			respondConflict(c, "Une catégorie avec ce nom existe déjà")
			return
		}
		respondDatabaseError(c)
		return
	}

	if err := db.First(&category, category.ID).Error; err != nil {
		respondDatabaseError(c)
		return
	}

	respondOK(c, category)
}

// DeleteCategory handles DELETE /admin/categories/:id.
// A category referenced by at least one product cannot be deleted;
// retrying without removing the products keeps failing.
func DeleteCategory(c *gin.Context) {
	db := config.GetDB()

	var category models.Category
	if err := db.First(&category, c.Param("id")).Error; err != nil {
		respondNotFound(c, "Catégorie introuvable")
		return
	}

	var inUse models.Product
	err := db.Where("category_id = ?", category.ID).Limit(1).First(&inUse).Error
	if err == nil {
		respondConflict(c, "Catégorie utilisée par des produits, suppression impossible")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondDatabaseError(c)
		return
	}

	if err := db.Delete(&category).Error; err != nil {
		respondDatabaseError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Catégorie supprimée",
	})
}
