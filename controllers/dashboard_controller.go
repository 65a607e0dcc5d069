package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lavexpress/lavexpress-api/config"
	"github.com/lavexpress/lavexpress-api/models"
	"github.com/lavexpress/lavexpress-api/utils"
)

// TopProductRow is one entry of the best-sellers aggregate
type TopProductRow struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	TotalSold int64   `json:"total_sold"`
	Revenue   float64 `json:"revenue"`
}

// GetDashboardStats handles GET /dashboard/stats.
// Each count degrades to zero on failure instead of failing the whole
// aggregate; the top-products lookup degrades to an empty list.
// Trend/variation percentages are deliberately absent: the payload
// carries no placeholder deltas.
func GetDashboardStats(c *gin.Context) {
	db := config.GetDB()

	var productCount, orderCount, userCount int64
	utils.BestEffort("dashboard product count", func() error {
		return db.Model(&models.Product{}).Count(&productCount).Error
	})
	utils.BestEffort("dashboard order count", func() error {
		return db.Model(&models.Order{}).Count(&orderCount).Error
	})
	utils.BestEffort("dashboard user count", func() error {
		return db.Model(&models.User{}).Count(&userCount).Error
	})

	var revenue float64
	utils.BestEffort("dashboard revenue sum", func() error {
		return db.Model(&models.Order{}).
			Where("status = ?", models.OrderStatusCompleted).
			Select("COALESCE(SUM(total_amount), 0)").
			Scan(&revenue).Error
	})

	statusCounts := zeroStatusCounts()
	utils.BestEffort("dashboard status histogram", func() error {
		fetched, err := orderStatusCounts(db)
		if err == nil {
			statusCounts = fetched
		}
		return err
	})

	monthly := zeroMonthlyRevenue(6)
	utils.BestEffort("dashboard monthly revenue", func() error {
		fetched, err := monthlyRevenue(db, 6)
		if err == nil {
			monthly = fetched
		}
		return err
	})

	topProducts := []TopProductRow{}
	utils.BestEffort("dashboard top products", func() error {
		return db.Table("order_items").
			Select("order_items.product_id, products.name, SUM(order_items.quantity) as total_sold, SUM(order_items.price * order_items.quantity) as revenue").
			Joins("JOIN products ON products.id = order_items.product_id").
			Group("order_items.product_id, products.name").
			Order("total_sold DESC").
			Limit(5).
			Scan(&topProducts).Error
	})
	for i := range topProducts {
		topProducts[i].Revenue = utils.Round2(topProducts[i].Revenue)
	}

	respondOK(c, gin.H{
		"totalProducts":  productCount,
		"totalOrders":    orderCount,
		"totalUsers":     userCount,
		"totalRevenue":   utils.Round2(revenue),
		"statusCounts":   statusCounts,
		"monthlyRevenue": monthly,
		"topProducts":    topProducts,
	})
}

// GetRecentOrders handles GET /dashboard/recent-orders
func GetRecentOrders(c *gin.Context) {
	db := config.GetDB()

	var orders []models.Order
	if err := db.Preload("Customer").
		Order("created_at DESC").
		Limit(5).
		Find(&orders).Error; err != nil {
		respondDatabaseError(c)
		return
	}

	shaped := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		shaped = append(shaped, shapeOrder(&orders[i], false))
	}

	respondOK(c, shaped)
}

// RevenuePoint is one point of the revenue chart
type RevenuePoint struct {
	Label   string  `json:"label"`
	Revenue float64 `json:"revenue"`
}

// GetRevenueChart handles GET /dashboard/revenue-chart?period=week|month|year
func GetRevenueChart(c *gin.Context) {
	period := c.DefaultQuery("period", "month")

	var days int
	var monthsSpan int
	switch period {
	case "week":
		days = 7
	case "month":
		days = 30
	case "year":
		monthsSpan = 12
	default:
		respondValidationError(c, "Période invalide, valeurs acceptées: week, month, year")
		return
	}

	db := config.GetDB()

	if monthsSpan > 0 {
		monthly, err := monthlyRevenue(db, monthsSpan)
		if err != nil {
			respondDatabaseError(c)
			return
		}
		points := make([]RevenuePoint, 0, len(monthly))
		for _, m := range monthly {
			points = append(points, RevenuePoint{Label: m.Month, Revenue: m.Revenue})
		}
		respondOK(c, gin.H{"period": period, "points": points})
		return
	}

	points, err := dailyRevenue(db, days)
	if err != nil {
		respondDatabaseError(c)
		return
	}
	respondOK(c, gin.H{"period": period, "points": points})
}

// dailyRevenue sums completed-order amounts per day over the trailing N days
func dailyRevenue(db *gorm.DB, days int) ([]RevenuePoint, error) {
	now := time.Now()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, -days+1)

	var orders []models.Order
	if err := db.
		Select("created_at, total_amount").
		Where("status = ? AND created_at >= ?", models.OrderStatusCompleted, cutoff).
		Find(&orders).Error; err != nil {
		return nil, err
	}

	buckets := make(map[string]float64)
	for _, o := range orders {
		buckets[o.CreatedAt.Format("2006-01-02")] += utils.ToFloat(o.TotalAmount)
	}

	points := make([]RevenuePoint, 0, days)
	for i := 0; i < days; i++ {
		day := cutoff.AddDate(0, 0, i).Format("2006-01-02")
		points = append(points, RevenuePoint{Label: day, Revenue: utils.Round2(buckets[day])})
	}
	return points, nil
}
