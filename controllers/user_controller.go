package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lavexpress/lavexpress-api/config"
	"github.com/lavexpress/lavexpress-api/models"
	"github.com/lavexpress/lavexpress-api/utils"
)

// UpdateUserRequest represents the request body for updating a user.
// Pointer fields give partial-update semantics: absent fields are left
// untouched, an explicit empty string is applied.
type UpdateUserRequest struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Role     *string `json:"role"`
}

// ListUsers handles GET /admin/users?page&limit&search&role
func ListUsers(c *gin.Context) {
	db := config.GetDB()

	page, limit := utils.ParsePageParams(c.Query("page"), c.Query("limit"))
	search := c.Query("search")
	role := c.Query("role")

	filtered := func() *gorm.DB {
		q := db.Model(&models.User{})
		if search != "" {
			pattern := "%" + strings.ToLower(search) + "%"
			q = q.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
		}
		if role != "" {
			q = q.Where("role = ?", role)
		}
		return q
	}

	var users []models.User
	if err := filtered().
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error; err != nil {
		respondDatabaseError(c)
		return
	}

	// Same accepted read skew as the product listing: the count is a
	// second round-trip with identical filters.
	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		respondDatabaseError(c)
		return
	}

	respondList(c, users, utils.NewPagination(page, limit, total))
}

// GetUser handles GET /admin/users/:id
func GetUser(c *gin.Context) {
	db := config.GetDB()

	var user models.User
	if err := db.First(&user, c.Param("id")).Error; err != nil {
		respondNotFound(c, "Utilisateur introuvable")
		return
	}

	respondOK(c, user)
}

// UpdateUser handles PUT /admin/users/:id
func UpdateUser(c *gin.Context) {
	db := config.GetDB()

	var user models.User
	if err := db.First(&user, c.Param("id")).Error; err != nil {
		respondNotFound(c, "Utilisateur introuvable")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "Données invalides")
		return
	}

	if req.Role != nil && *req.Role != models.RoleAdmin && *req.Role != models.RoleUser {
		respondValidationError(c, "Rôle invalide")
		return
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Role != nil {
		updates["role"] = *req.Role
	}

	if err := db.Model(&user).Updates(updates).Error; err != nil {
		if isUniqueViolation(err) {
			respondConflict(c, "Un utilisateur avec cet email existe déjà")
			return
		}
		respondDatabaseError(c)
		return
	}

	if err := db.First(&user, user.ID).Error; err != nil {
		respondDatabaseError(c)
		return
	}

	respondOK(c, user)
}

// DeleteUser handles DELETE /admin/users/:id. The role is fetched
// first: administrators can never be deleted.
func DeleteUser(c *gin.Context) {
	db := config.GetDB()

	var user models.User
	if err := db.First(&user, c.Param("id")).Error; err != nil {
		respondNotFound(c, "Utilisateur introuvable")
		return
	}

	if user.IsAdmin() {
		respondConflict(c, "Impossible de supprimer un administrateur")
		return
	}

	if err := db.Delete(&user).Error; err != nil {
		respondDatabaseError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Utilisateur supprimé",
	})
}

// MonthCount is one bucket of monthly signups
type MonthCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// GetUserStats handles GET /admin/users/stats.
// Like the order statistics, each aggregation degrades to zero-filled
// buckets on failure instead of failing the whole response.
func GetUserStats(c *gin.Context) {
	db := config.GetDB()

	roleCounts := map[string]int64{"admin": 0, "user": 0, "total": 0}
	utils.BestEffort("user role histogram", func() error {
		var rows []statusCountRow
		if err := db.Model(&models.User{}).
			Select("role as status, COUNT(*) as count").
			Group("role").
			Scan(&rows).Error; err != nil {
			return err
		}
		for _, row := range rows {
			switch row.Status {
			case models.RoleAdmin:
				roleCounts["admin"] = row.Count
			default:
				// every non-admin role counts as a regular user
				roleCounts["user"] += row.Count
			}
			roleCounts["total"] += row.Count
		}
		return nil
	})

	signups := zeroMonthlySignups(6)
	utils.BestEffort("user monthly signups", func() error {
		fetched, err := monthlySignups(db, 6)
		if err == nil {
			signups = fetched
		}
		return err
	})

	respondOK(c, gin.H{
		"roleCounts":     roleCounts,
		"monthlySignups": signups,
	})
}

// zeroMonthlySignups returns the trailing N-month buckets with zero counts
func zeroMonthlySignups(months int) []MonthCount {
	cutoff := monthCutoff(months)
	result := make([]MonthCount, 0, months)
	for i := 0; i < months; i++ {
		result = append(result, MonthCount{Month: cutoff.AddDate(0, i, 0).Format("2006-01")})
	}
	return result
}

// monthlySignups counts user registrations over the trailing N months,
// bucketed by YYYY-MM of created_at.
func monthlySignups(db *gorm.DB, months int) ([]MonthCount, error) {
	cutoff := monthCutoff(months)

	var users []models.User
	if err := db.
		Select("created_at").
		Where("created_at >= ?", cutoff).
		Find(&users).Error; err != nil {
		return nil, err
	}

	buckets := make(map[string]int64)
	for _, u := range users {
		buckets[u.CreatedAt.Format("2006-01")]++
	}

	result := make([]MonthCount, 0, months)
	for i := 0; i < months; i++ {
		month := cutoff.AddDate(0, i, 0).Format("2006-01")
		result = append(result, MonthCount{Month: month, Count: buckets[month]})
	}
	return result, nil
}
