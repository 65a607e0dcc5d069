package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lavexpress/lavexpress-api/config"
	"github.com/lavexpress/lavexpress-api/services"
)

// CreateCheckoutSessionRequest represents the cart sent by the storefront
type CreateCheckoutSessionRequest struct {
	Items         []services.CheckoutItem `json:"items" binding:"required,min=1,dive"`
	CustomerEmail string                  `json:"customer_email" binding:"omitempty,email"`
}

// CreateCheckoutSession handles POST /checkout/session.
// A missing payment key is a configuration error surfaced explicitly,
// never a silent failure.
func CreateCheckoutSession(c *gin.Context) {
	cfg := config.GetConfig()
	if cfg == nil || !cfg.HasStripeKey() {
		respondError(c, http.StatusInternalServerError, codeConfig,
			"Le paiement n'est pas configuré (clé secrète manquante)")
		return
	}

	var req CreateCheckoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "Le panier est vide ou invalide")
		return
	}

	sess, err := services.GetCheckoutService().CreateSession(req.Items, req.CustomerEmail)
	if err != nil {
		respondUpstreamError(c, "La session de paiement n'a pas pu être créée")
		return
	}

	respondOK(c, sess)
}
