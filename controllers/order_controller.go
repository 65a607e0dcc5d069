package controllers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lavexpress/lavexpress-api/config"
	"github.com/lavexpress/lavexpress-api/models"
	"github.com/lavexpress/lavexpress-api/utils"
)

// UnknownCustomerLabel is shown when an order has no joined customer
const UnknownCustomerLabel = "Client inconnu"

// UpdateOrderStatusRequest represents the request body for a status change
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// OrderCustomer is the customer projection embedded in order responses
type OrderCustomer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// OrderResponse is the shaped order returned by the admin endpoints
type OrderResponse struct {
	ID              uint           `json:"id"`
	TotalAmount     float64        `json:"total_amount"`
	Status          string         `json:"status"`
	PaymentStatus   string         `json:"payment_status"`
	ShippingAddress string         `json:"shipping_address"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	Customer        OrderCustomer  `json:"customer"`
	Items           []OrderItemRow `json:"items,omitempty"`
}

// OrderItemRow is one shaped order line with its product projection
type OrderItemRow struct {
	ID        uint    `json:"id"`
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Total     float64 `json:"total"`
}

func shapeOrder(o *models.Order, withPhone bool) OrderResponse {
	customer := OrderCustomer{Name: UnknownCustomerLabel}
	if o.Customer != nil {
		if o.Customer.FullName != "" {
			customer.Name = o.Customer.FullName
		}
		customer.Email = o.Customer.Email
		if withPhone {
			customer.Phone = o.Customer.Phone
		}
	}

	return OrderResponse{
		ID:              o.ID,
		TotalAmount:     utils.Round2(utils.ToFloat(o.TotalAmount)),
		Status:          o.Status,
		PaymentStatus:   o.PaymentStatus,
		ShippingAddress: o.ShippingAddress,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Customer:        customer,
	}
}

// ListOrders handles GET /admin/orders?page&limit&status&search
func ListOrders(c *gin.Context) {
	db := config.GetDB()

	page, limit := utils.ParsePageParams(c.Query("page"), c.Query("limit"))
	status := c.Query("status")
	search := c.Query("search")

	query := db.Model(&models.Order{}).Preload("Customer")
	if status != "" {
		query = query.Where("orders.status = ?", status)
	}
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.
			Joins("LEFT JOIN users ON users.id = orders.customer_id").
			Where("LOWER(users.full_name) LIKE ? OR LOWER(users.email) LIKE ?", pattern, pattern)
	}

	var orders []models.Order
	if err := query.
		Order("orders.created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error; err != nil {
		respondDatabaseError(c)
		return
	}

	// Inherited asymmetry, kept on purpose: the count only mirrors the
	// status filter, not the customer search, so a searched listing can
	// report more pages than it has. Changing this silently would
	// change the API contract.
	countQuery := db.Model(&models.Order{})
	if status != "" {
		countQuery = countQuery.Where("status = ?", status)
	}
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		respondDatabaseError(c)
		return
	}

	shaped := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		shaped = append(shaped, shapeOrder(&orders[i], false))
	}

	respondList(c, shaped, utils.NewPagination(page, limit, total))
}

// GetOrder handles GET /admin/orders/:id. The order row and its items
// are fetched separately: a missing order is a 404, a failing item
// fetch is a 500.
func GetOrder(c *gin.Context) {
	db := config.GetDB()

	var order models.Order
	if err := db.Preload("Customer").First(&order, c.Param("id")).Error; err != nil {
		respondNotFound(c, "Commande introuvable")
		return
	}

	var items []models.OrderItem
	if err := db.Preload("Product").Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
		respondDatabaseError(c)
		return
	}

	shaped := shapeOrder(&order, true)
	shaped.Items = make([]OrderItemRow, 0, len(items))
	for _, item := range items {
		row := OrderItemRow{
			ID:        item.ID,
			ProductID: item.ProductID,
			Price:     utils.Round2(utils.ToFloat(item.Price)),
			Quantity:  item.Quantity,
			Total:     utils.Round2(utils.ToFloat(item.Price) * float64(item.Quantity)),
		}
		if item.Product != nil {
			row.Name = item.Product.Name
			row.Image = item.Product.ImageURL
		}
		shaped.Items = append(shaped.Items, row)
	}

	respondOK(c, shaped)
}

// UpdateOrderStatus handles PUT /admin/orders/:id/status. Any enum
// value is accepted from any prior state.
func UpdateOrderStatus(c *gin.Context) {
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		respondValidationError(c, "Le statut est requis")
		return
	}

	if !models.IsValidOrderStatus(req.Status) {
		respondValidationError(c, "Statut de commande invalide")
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.First(&order, c.Param("id")).Error; err != nil {
		respondNotFound(c, "Commande introuvable")
		return
	}

	updates := map[string]interface{}{
		"status":     req.Status,
		"updated_at": time.Now(),
	}
	if err := db.Model(&order).Updates(updates).Error; err != nil {
		respondDatabaseError(c)
		return
	}

	if err := db.Preload("Customer").First(&order, order.ID).Error; err != nil {
		respondDatabaseError(c)
		return
	}

	respondOK(c, shapeOrder(&order, false))
}

// statusCountRow is a scan target for grouped status counts
type statusCountRow struct {
	Status string
	Count  int64
}

// GetOrderStats handles GET /admin/orders/stats.
// Each aggregation degrades to zero-filled buckets on failure instead
// of failing the whole response.
func GetOrderStats(c *gin.Context) {
	db := config.GetDB()

	counts := zeroStatusCounts()
	utils.BestEffort("order status histogram", func() error {
		fetched, err := orderStatusCounts(db)
		if err == nil {
			counts = fetched
		}
		return err
	})

	revenue := zeroMonthlyRevenue(6)
	utils.BestEffort("order monthly revenue", func() error {
		fetched, err := monthlyRevenue(db, 6)
		if err == nil {
			revenue = fetched
		}
		return err
	})

	respondOK(c, gin.H{
		"statusCounts":   counts,
		"monthlyRevenue": revenue,
	})
}

// zeroStatusCounts returns the histogram with every named bucket at zero
func zeroStatusCounts() map[string]int64 {
	counts := map[string]int64{"total": 0}
	for _, status := range models.OrderStatuses {
		counts[status] = 0
	}
	return counts
}

// orderStatusCounts returns the status histogram. Unrecognized
// statuses count toward the total but fill no named bucket.
func orderStatusCounts(db *gorm.DB) (map[string]int64, error) {
	var rows []statusCountRow
	if err := db.Model(&models.Order{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := zeroStatusCounts()
	for _, row := range rows {
		if _, known := counts[row.Status]; known && row.Status != "total" {
			counts[row.Status] = row.Count
		}
		counts["total"] += row.Count
	}
	return counts, nil
}

// MonthRevenue is one bucket of completed-order revenue
type MonthRevenue struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

// monthCutoff returns the first day of the oldest month in a trailing
// N-month window.
func monthCutoff(months int) time.Time {
	cutoff := time.Now().AddDate(0, -months+1, 0)
	return time.Date(cutoff.Year(), cutoff.Month(), 1, 0, 0, 0, 0, cutoff.Location())
}

// zeroMonthlyRevenue returns the trailing N-month buckets with zero revenue
func zeroMonthlyRevenue(months int) []MonthRevenue {
	cutoff := monthCutoff(months)
	result := make([]MonthRevenue, 0, months)
	for i := 0; i < months; i++ {
		result = append(result, MonthRevenue{Month: cutoff.AddDate(0, i, 0).Format("2006-01")})
	}
	return result
}

// monthlyRevenue sums completed-order amounts over the trailing N
// months, bucketed by YYYY-MM of created_at.
func monthlyRevenue(db *gorm.DB, months int) ([]MonthRevenue, error) {
	cutoff := monthCutoff(months)

	var orders []models.Order
	if err := db.
		Select("created_at, total_amount").
		Where("status = ? AND created_at >= ?", models.OrderStatusCompleted, cutoff).
		Find(&orders).Error; err != nil {
		return nil, err
	}

	buckets := make(map[string]float64)
	for _, o := range orders {
		month := o.CreatedAt.Format("2006-01")
		buckets[month] += utils.ToFloat(o.TotalAmount)
	}

	// One entry per month, oldest first, zero-filled
	result := make([]MonthRevenue, 0, months)
	for i := 0; i < months; i++ {
		month := cutoff.AddDate(0, i, 0).Format("2006-01")
		result = append(result, MonthRevenue{
			Month:   month,
			Revenue: utils.Round2(buckets[month]),
		})
	}
	return result, nil
}
