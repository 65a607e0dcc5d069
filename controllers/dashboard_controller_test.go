package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/lavexpress/lavexpress-api/models"
)

func dashboardRouter() *gin.Engine {
	router := setupTestRouter()
	router.GET("/dashboard/stats", GetDashboardStats)
	router.GET("/dashboard/recent-orders", GetRecentOrders)
	router.GET("/dashboard/revenue-chart", GetRevenueChart)
	return router
}

func TestGetDashboardStats(t *testing.T) {
	db := setupTestDB(t)
	router := dashboardRouter()

	customer := seedUser(t, db, "Marie Dupont", "marie@example.com", models.RoleUser)
	seedUser(t, db, "Admin", "admin@lavexpress.fr", models.RoleAdmin)
	cire := seedProduct(t, db, "Cire Premium", 29.90, nil)
	shampoo := seedProduct(t, db, "Shampooing", 19.99, nil)

	completed := seedOrder(t, db, &customer.ID, models.OrderStatusCompleted, 79.79, time.Time{})
	seedOrder(t, db, &customer.ID, models.OrderStatusPending, 19.99, time.Time{})
	db.Create(&models.OrderItem{OrderID: completed.ID, ProductID: cire.ID, Quantity: 2, Price: 29.90})
	db.Create(&models.OrderItem{OrderID: completed.ID, ProductID: shampoo.ID, Quantity: 1, Price: 19.99})

	w := performJSON(t, router, "GET", "/dashboard/stats", nil)
	assertStatus(t, w, http.StatusOK)

	response := parseResponse(t, w)
	data := response["data"].(map[string]interface{})

	assert.Equal(t, float64(2), data["totalProducts"])
	assert.Equal(t, float64(2), data["totalOrders"])
	assert.Equal(t, float64(2), data["totalUsers"])
	assert.Equal(t, 79.79, data["totalRevenue"], "only completed orders count toward revenue")

	counts := data["statusCounts"].(map[string]interface{})
	assert.Equal(t, float64(1), counts["completed"])
	assert.Equal(t, float64(1), counts["pending"])

	top := data["topProducts"].([]interface{})
	assert.Len(t, top, 2)
	first := top[0].(map[string]interface{})
	assert.Equal(t, "Cire Premium", first["name"])
	assert.Equal(t, float64(2), first["total_sold"])
	assert.Equal(t, 59.8, first["revenue"])

	// no fabricated trend percentages in the payload
	assert.NotContains(t, data, "variation")
	assert.NotContains(t, data, "trend")
}

func TestGetDashboardStatsDegradesGracefully(t *testing.T) {
	db := setupTestDB(t)
	router := dashboardRouter()

	seedProduct(t, db, "Cire Premium", 29.90, nil)

	// Losing the order_items table must not fail the aggregate
	if err := db.Migrator().DropTable("order_items"); err != nil {
		t.Fatalf("Failed to drop table: %v", err)
	}

	w := performJSON(t, router, "GET", "/dashboard/stats", nil)
	assertStatus(t, w, http.StatusOK)

	response := parseResponse(t, w)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["totalProducts"])
	assert.Len(t, data["topProducts"].([]interface{}), 0, "failed best-effort lookup degrades to an empty list")
}

func TestGetRecentOrders(t *testing.T) {
	db := setupTestDB(t)
	router := dashboardRouter()

	customer := seedUser(t, db, "Marie Dupont", "marie@example.com", models.RoleUser)
	for i := 0; i < 8; i++ {
		seedOrder(t, db, &customer.ID, models.OrderStatusPending, 10, time.Now().AddDate(0, 0, -i))
	}

	w := performJSON(t, router, "GET", "/dashboard/recent-orders", nil)
	assertStatus(t, w, http.StatusOK)

	response := parseResponse(t, w)
	data := response["data"].([]interface{})
	assert.Len(t, data, 5)

	first := data[0].(map[string]interface{})
	assert.Equal(t, "Marie Dupont", first["customer"].(map[string]interface{})["name"])
}

func TestGetRevenueChartPeriods(t *testing.T) {
	db := setupTestDB(t)
	router := dashboardRouter()

	seedOrder(t, db, nil, models.OrderStatusCompleted, 45.50, time.Now())

	tests := []struct {
		period string
		points int
	}{
		{"week", 7},
		{"month", 30},
		{"year", 12},
	}

	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			w := performJSON(t, router, "GET", "/dashboard/revenue-chart?period="+tt.period, nil)
			assertStatus(t, w, http.StatusOK)

			response := parseResponse(t, w)
			data := response["data"].(map[string]interface{})
			assert.Equal(t, tt.period, data["period"])
			assert.Len(t, data["points"].([]interface{}), tt.points)
		})
	}
}

func TestGetRevenueChartInvalidPeriod(t *testing.T) {
	setupTestDB(t)
	router := dashboardRouter()

	w := performJSON(t, router, "GET", "/dashboard/revenue-chart?period=decade", nil)
	assertStatus(t, w, http.StatusBadRequest)
}
