package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Error codes used across the admin API, mapped to HTTP statuses by
// the respond* helpers. User-facing messages are in French; technical
// detail goes to the log, never to the client.
const (
	codeValidation = "VALIDATION_ERROR"
	codeNotFound   = "NOT_FOUND"
	codeConflict   = "CONFLICT"
	codeUpstream   = "UPSTREAM_ERROR"
	codeDatabase   = "DATABASE_ERROR"
	codeConfig     = "CONFIG_ERROR"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func respondValidationError(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, codeValidation, message)
}

func respondNotFound(c *gin.Context, message string) {
	respondError(c, http.StatusNotFound, codeNotFound, message)
}

func respondConflict(c *gin.Context, message string) {
	// Conflicts surface as 400 on this API, not 409
	respondError(c, http.StatusBadRequest, codeConflict, message)
}

func respondDatabaseError(c *gin.Context) {
	respondError(c, http.StatusInternalServerError, codeDatabase, "Une erreur est survenue, veuillez réessayer")
}

func respondUpstreamError(c *gin.Context, message string) {
	respondError(c, http.StatusInternalServerError, codeUpstream, message)
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondList(c *gin.Context, data interface{}, pagination interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       data,
		"pagination": pagination,
	})
}

// isUniqueViolation detects duplicate-key errors. Both the postgres
// and sqlite drivers translate them to gorm.ErrDuplicatedKey when the
// connection is opened with TranslateError.
func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
