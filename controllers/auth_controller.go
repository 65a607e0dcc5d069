package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lavexpress/lavexpress-api/config"
	"github.com/lavexpress/lavexpress-api/middleware"
	"github.com/lavexpress/lavexpress-api/models"
	"github.com/lavexpress/lavexpress-api/services"
)

// RegisterRequest represents the request body for account creation
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /auth/register. Credentials live entirely in
// the identity provider; this side only mirrors a user row for the
// admin back office.
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "Email, mot de passe et nom complet sont requis")
		return
	}

	auth0Service := services.NewAuth0Service(config.GetConfig())
	signup, err := auth0Service.Signup(req.Email, req.Password, req.FullName)
	if err != nil {
		respondUpstreamError(c, "La création du compte a échoué")
		return
	}

	user := models.User{
		Auth0ID:  "auth0|" + signup.ID,
		FullName: req.FullName,
		Email:    req.Email,
		Role:     models.RoleUser,
	}

	db := config.GetDB()
	if err := db.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			respondConflict(c, "Un compte avec cet email existe déjà")
			return
		}
		respondDatabaseError(c)
		return
	}

	respondCreated(c, user)
}

// Login handles POST /auth/login, relaying the provider's token
// response verbatim.
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "Email et mot de passe sont requis")
		return
	}

	auth0Service := services.NewAuth0Service(config.GetConfig())
	tokens, err := auth0Service.Login(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_CREDENTIALS",
				"message": "Email ou mot de passe incorrect",
			},
		})
		return
	}

	respondOK(c, tokens)
}

// GetMe handles GET /auth/me. The local row is created or refreshed
// from the identity provider's /userinfo endpoint, so a profile change
// made there shows up here on the next call.
func GetMe(c *gin.Context) {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_USER_ID",
				"message": "Could not extract user ID from token",
			},
		})
		return
	}

	accessToken, err := middleware.GetAccessToken(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_TOKEN",
				"message": "Access token not found",
			},
		})
		return
	}

	auth0Service := services.NewAuth0Service(config.GetConfig())
	userInfo, err := auth0Service.GetUserInfo(accessToken)
	if err != nil {
		respondUpstreamError(c, "Impossible de récupérer le profil utilisateur")
		return
	}
	if userInfo.Email == "" {
		respondValidationError(c, "Email absent du profil fourni par le fournisseur d'identité")
		return
	}

	db := config.GetDB()
	var user models.User
	err = db.Where("auth0_id = ?", auth0ID).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			Auth0ID:  auth0ID,
			FullName: userInfo.Name,
			Email:    userInfo.Email,
			Role:     models.RoleUser,
		}
		if err := db.Create(&user).Error; err != nil {
			if isUniqueViolation(err) {
				respondConflict(c, "Un compte avec cet email existe déjà")
				return
			}
			respondDatabaseError(c)
			return
		}
		respondCreated(c, user)
		return
	case err != nil:
		respondDatabaseError(c)
		return
	}

	user.FullName = userInfo.Name
	user.Email = userInfo.Email
	if err := db.Save(&user).Error; err != nil {
		respondDatabaseError(c)
		return
	}

	respondOK(c, user)
}
