package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lavexpress/lavexpress-api/config"
	"github.com/lavexpress/lavexpress-api/models"
	"github.com/lavexpress/lavexpress-api/services"
	"github.com/lavexpress/lavexpress-api/utils"
)

// ProductResponse is the shaped product returned by the catalog
// endpoints. Monetary fields are coerced and the category is projected
// to its name, falling back to the default label.
type ProductResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	ImageURL    string    `json:"image_url"`
	Category    string    `json:"category"`
	CategoryID  *uint     `json:"category_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func shapeProduct(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       utils.Round2(utils.ToFloat(p.Price)),
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
		Category:    p.CategoryLabel(),
		CategoryID:  p.CategoryID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ListProducts handles GET /admin/products?page&limit&search&category
func ListProducts(c *gin.Context) {
	db := config.GetDB()

	page, limit := utils.ParsePageParams(c.Query("page"), c.Query("limit"))
	search := c.Query("search")

	// The category filter must be a numeric id: a raw string bound into
	// the query would be a type error on Postgres.
	var categoryID *uint
	if category := c.Query("category"); category != "" {
		id, err := strconv.ParseUint(category, 10, 32)
		if err != nil {
			respondValidationError(c, "Identifiant de catégorie invalide")
			return
		}
		cid := uint(id)
		categoryID = &cid
	}

	// The results query and its count query must apply identical
	// filters, so they share this builder.
	filtered := func() *gorm.DB {
		q := db.Model(&models.Product{})
		if search != "" {
			pattern := "%" + strings.ToLower(search) + "%"
			q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
		}
		if categoryID != nil {
			q = q.Where("category_id = ?", *categoryID)
		}
		return q
	}

	var products []models.Product
	if err := filtered().
		Preload("Category").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&products).Error; err != nil {
		respondDatabaseError(c)
		return
	}

	// Separate round-trip, no snapshot isolation: a write landing
	// between the two queries can make total/pages inconsistent with
	// the returned page. Accepted for an admin listing.
	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		respondDatabaseError(c)
		return
	}

	shaped := make([]ProductResponse, 0, len(products))
	for i := range products {
		shaped = append(shaped, shapeProduct(&products[i]))
	}

	respondList(c, shaped, utils.NewPagination(page, limit, total))
}

// GetProduct handles GET /admin/products/:id
func GetProduct(c *gin.Context) {
	db := config.GetDB()

	var product models.Product
	if err := db.Preload("Category").First(&product, c.Param("id")).Error; err != nil {
		respondNotFound(c, "Produit introuvable")
		return
	}

	respondOK(c, shapeProduct(&product))
}

// CreateProduct handles POST /admin/products (multipart, optional image).
// The image is uploaded before the row is written; an upload failure
// aborts the whole create.
func CreateProduct(c *gin.Context) {
	name := c.PostForm("name")
	priceStr := c.PostForm("price")
	if name == "" || priceStr == "" {
		respondValidationError(c, "Le nom et le prix du produit sont requis")
		return
	}

	product := models.Product{
		Name:        name,
		Description: c.PostForm("description"),
		Price:       utils.ToFloat(priceStr),
		Stock:       utils.ToInt(c.PostForm("stock")),
	}

	if categoryID := c.PostForm("category"); categoryID != "" {
		if id, err := strconv.ParseUint(categoryID, 10, 32); err == nil {
			cid := uint(id)
			product.CategoryID = &cid
		}
	}

	if fileHeader, err := c.FormFile("image"); err == nil {
		key, url, uploadErr := services.GetImageService().UploadImage(fileHeader)
		if uploadErr != nil {
			respondUpstreamError(c, "Échec du téléversement de l'image")
			return
		}
		product.ImageKey = key
		product.ImageURL = url
	}

	db := config.GetDB()
	if err := db.Create(&product).Error; err != nil {
		respondDatabaseError(c)
		return
	}

	if err := db.Preload("Category").First(&product, product.ID).Error; err != nil {
		respondDatabaseError(c)
		return
	}

	respondCreated(c, shapeProduct(&product))
}

// UpdateProduct handles PUT /admin/products/:id (multipart, partial).
// Only form fields present in the request are applied. A replacement
// image is uploaded first; deleting the previous asset is best-effort.
func UpdateProduct(c *gin.Context) {
	db := config.GetDB()

	var product models.Product
	if err := db.First(&product, c.Param("id")).Error; err != nil {
		respondNotFound(c, "Produit introuvable")
		return
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if name, ok := c.GetPostForm("name"); ok {
		updates["name"] = name
	}
	if description, ok := c.GetPostForm("description"); ok {
		updates["description"] = description
	}
	if price, ok := c.GetPostForm("price"); ok {
		updates["price"] = utils.ToFloat(price)
	}
	if stock, ok := c.GetPostForm("stock"); ok {
		updates["stock"] = utils.ToInt(stock)
	}
	if categoryID, ok := c.GetPostForm("category"); ok {
		if categoryID == "" {
			updates["category_id"] = nil
		} else if id, err := strconv.ParseUint(categoryID, 10, 32); err == nil {
			updates["category_id"] = uint(id)
		}
	}

	if fileHeader, err := c.FormFile("image"); err == nil {
		key, url, uploadErr := services.GetImageService().UploadImage(fileHeader)
		if uploadErr != nil {
			respondUpstreamError(c, "Échec du téléversement de l'image")
			return
		}

		previousKey := product.ImageKey
		updates["image_key"] = key
		updates["image_url"] = url

		if previousKey != "" {
			utils.BestEffort(fmt.Sprintf("delete replaced image %s", previousKey), func() error {
				return services.GetImageService().DeleteImage(previousKey)
			})
		}
	}

	if err := db.Model(&product).Updates(updates).Error; err != nil {
		respondDatabaseError(c)
		return
	}

	if err := db.Preload("Category").First(&product, product.ID).Error; err != nil {
		respondDatabaseError(c)
		return
	}

	respondOK(c, shapeProduct(&product))
}

// DeleteProduct handles DELETE /admin/products/:id
func DeleteProduct(c *gin.Context) {
	db := config.GetDB()

	var product models.Product
	if err := db.First(&product, c.Param("id")).Error; err != nil {
		respondNotFound(c, "Produit introuvable")
		return
	}

	if product.ImageKey != "" {
		utils.BestEffort(fmt.Sprintf("delete image of product %d", product.ID), func() error {
			return services.GetImageService().DeleteImage(product.ImageKey)
		})
	}

	if err := db.Delete(&product).Error; err != nil {
		respondDatabaseError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Produit supprimé",
	})
}
