package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lavexpress/lavexpress-api/services"
)

// reservationRequiredFields are the booking fields the wizard must
// provide before the payload is forwarded.
var reservationRequiredFields = []string{
	"vehicle",
	"selectedPlan",
	"clientInfo",
	"selectedDate",
	"selectedTime",
}

// CreateReservation handles POST /reservations. The reservation is
// never persisted here: it is validated, mapped to the workflow
// engine's schema and relayed. Notification, confirmation and
// technician dispatch all happen downstream.
func CreateReservation(c *gin.Context) {
	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Corps de requête invalide",
		})
		return
	}

	for _, field := range reservationRequiredFields {
		// An explicit empty string is as missing as an absent field:
		// an empty booking time must never reach the workflow engine.
		if req[field] == nil || req[field] == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Champ requis manquant: " + field,
			})
			return
		}
	}

	clientInfo, _ := req["clientInfo"].(map[string]interface{})
	if clientInfo == nil {
		clientInfo = map[string]interface{}{}
	}

	payload := map[string]interface{}{
		"prenom":       clientInfo["prenom"],
		"nom":          clientInfo["nom"],
		"email":        clientInfo["email"],
		"telephone":    clientInfo["telephone"],
		"vehicule":     labelOf(req["vehicle"]),
		"formule":      labelOf(req["selectedPlan"]),
		"prix":         req["totalPrice"],
		"adresse":      clientInfo["adresse"],
		"codePostal":   clientInfo["codePostal"],
		"ville":        clientInfo["ville"],
		"commentaires": clientInfo["commentaires"],
		"rappel":       clientInfo["rappel"],
		"date":         req["selectedDate"],
		"heure":        req["selectedTime"],
		"submittedAt":  time.Now().UTC().Format(time.RFC3339),
	}

	result, err := services.GetWebhookService().Forward(payload)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "La réservation n'a pas pu être transmise, veuillez réessayer",
		})
		return
	}

	// Upstream id when assigned, otherwise a locally generated UUID.
	// A wall-clock fallback would collide under concurrent submissions.
	reservationID := result.ID
	if reservationID == "" {
		reservationID = uuid.NewString()
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Réservation confirmée",
		"data": gin.H{
			"reservationId": reservationID,
			"date":          req["selectedDate"],
			"heure":         req["selectedTime"],
		},
	})
}

// labelOf extracts a display name from wizard values that are either a
// plain string or an object with a "name" field.
func labelOf(v interface{}) interface{} {
	if m, ok := v.(map[string]interface{}); ok {
		if name, ok := m["name"]; ok {
			return name
		}
	}
	return v
}
