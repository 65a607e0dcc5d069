package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/lavexpress/lavexpress-api/config"
	"github.com/lavexpress/lavexpress-api/controllers"
	"github.com/lavexpress/lavexpress-api/middleware"
	"github.com/lavexpress/lavexpress-api/models"
	"github.com/lavexpress/lavexpress-api/services"
)

func main() {
	log.Println("Starting LavExpress API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.User{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	s3Service, err := services.InitS3Service()
	if err != nil {
		log.Fatalf("Failed to initialize S3 service: %v", err)
	}
	services.InitImageService(s3Service)
	services.InitCheckoutService(cfg)
	if !cfg.HasStripeKey() {
		log.Println("STRIPE_SECRET_KEY not set, checkout endpoints will return a configuration error")
	}

	router := setupRouter(cfg)

	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.AppURL}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	router.GET("/health", healthCheck)
	router.GET("/database/status", databaseStatus)

	// Storefront endpoints
	router.POST("/reservations", controllers.CreateReservation)
	router.POST("/checkout/session", controllers.CreateCheckoutSession)
	router.POST("/auth/register", controllers.Register)
	router.POST("/auth/login", controllers.Login)
	router.GET("/auth/me", middleware.EnsureValidToken(cfg), controllers.GetMe)

	// Admin back office, JWT + admin role required
	admin := router.Group("/admin", middleware.EnsureValidToken(cfg), middleware.RequireAdmin())
	{
		admin.GET("/categories", controllers.ListCategories)
		admin.GET("/categories/:id", controllers.GetCategory)
		admin.POST("/categories", controllers.CreateCategory)
		admin.PUT("/categories/:id", controllers.UpdateCategory)
		admin.DELETE("/categories/:id", controllers.DeleteCategory)

		admin.GET("/products", controllers.ListProducts)
		admin.GET("/products/:id", controllers.GetProduct)
		admin.POST("/products", controllers.CreateProduct)
		admin.PUT("/products/:id", controllers.UpdateProduct)
		admin.DELETE("/products/:id", controllers.DeleteProduct)
		admin.POST("/products/upload-image", controllers.UploadProductImage)

		admin.GET("/orders", controllers.ListOrders)
		admin.GET("/orders/stats", controllers.GetOrderStats)
		admin.GET("/orders/:id", controllers.GetOrder)
		admin.PUT("/orders/:id/status", controllers.UpdateOrderStatus)

		admin.GET("/users", controllers.ListUsers)
		admin.GET("/users/stats", controllers.GetUserStats)
		admin.GET("/users/:id", controllers.GetUser)
		admin.PUT("/users/:id", controllers.UpdateUser)
		admin.DELETE("/users/:id", controllers.DeleteUser)
	}

	dashboard := router.Group("/dashboard", middleware.EnsureValidToken(cfg), middleware.RequireAdmin())
	{
		dashboard.GET("/stats", controllers.GetDashboardStats)
		dashboard.GET("/recent-orders", controllers.GetRecentOrders)
		dashboard.GET("/revenue-chart", controllers.GetRevenueChart)
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "LavExpress API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
