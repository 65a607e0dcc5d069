package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/lavexpress/lavexpress-api/services"
	"github.com/lavexpress/lavexpress-api/utils"
)

// UploadProductImage handles POST /admin/products/upload-image.
// Standalone upload used by the admin form before the product exists;
// returns the hosted URL and the storage key.
func UploadProductImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondValidationError(c, "Aucun fichier image fourni")
		return
	}

	if err := utils.ValidateImageFile(fileHeader); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	key, url, err := services.GetImageService().UploadImage(fileHeader)
	if err != nil {
		respondUpstreamError(c, "Échec du téléversement de l'image")
		return
	}

	respondOK(c, gin.H{
		"url": url,
		"key": key,
	})
}
