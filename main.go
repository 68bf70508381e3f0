package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/elsenior/tailoring-api/config"
	"github.com/elsenior/tailoring-api/controllers"
	"github.com/elsenior/tailoring-api/middleware"
	"github.com/elsenior/tailoring-api/models"
	"github.com/elsenior/tailoring-api/services"
)

func main() {
	// Basic logging
	log.Println("Starting Tailoring API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Tailor{},
		&models.TailorTariff{},
		&models.GarmentType{},
		&models.Fabric{},
		&models.Accessory{},
		&models.Order{},
		&models.Task{},
		&models.Commission{},
		&models.Claim{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Seed the garment catalogue
	if err := seedGarmentTypes(); err != nil {
		log.Fatalf("Failed to seed garment types: %v", err)
	}

	// Initialize the SMS gateway
	services.InitSMSService()

	// Initialize Gin router with all routes
	router := setupRouter(cfg)

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// seedGarmentTypes inserts any catalogue rows that do not exist yet
func seedGarmentTypes() error {
	db := config.GetDB()
	for _, garment := range models.SeedGarmentTypes() {
		var existing models.GarmentType
		if err := db.Where("code = ?", garment.Code).First(&existing).Error; err == nil {
			continue
		}
		if err := db.Create(&garment).Error; err != nil {
			return err
		}
	}
	return nil
}

// setupRouter builds the Gin engine with CORS, authentication and all
// API v1 routes
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "https://tailoring.elsenior.com"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus)
	}

	authed := v1.Group("")
	authed.Use(middleware.EnsureValidToken(cfg))
	{
		// User provisioning and profile
		authed.POST("/users", controllers.CreateUser)
		authed.GET("/users/me", controllers.GetMyProfile)
		authed.PUT("/users/me", controllers.UpdateMyProfile)

		// Customers
		authed.POST("/customers", controllers.CreateCustomer)
		authed.GET("/customers", controllers.ListCustomers)
		authed.GET("/customers/:id", controllers.GetCustomer)
		authed.PUT("/customers/:id", controllers.UpdateCustomer)
		authed.GET("/customers/:id/orders", controllers.CustomerOrders)

		// Tailors and tariffs
		authed.POST("/tailors", controllers.CreateTailor)
		authed.GET("/tailors", controllers.ListTailors)
		authed.GET("/tailors/:id", controllers.GetTailor)
		authed.PUT("/tailors/:id", controllers.UpdateTailor)
		authed.PUT("/tailors/:id/tariffs", controllers.SetTariff)
		authed.GET("/tailors/:id/tariffs", controllers.ListTariffs)
		authed.DELETE("/tailors/:id/tariffs/:garmentType", controllers.DeleteTariff)

		// Fabrics
		authed.POST("/fabrics", controllers.CreateFabric)
		authed.GET("/fabrics", controllers.ListFabrics)
		authed.GET("/fabrics/:id", controllers.GetFabric)
		authed.PUT("/fabrics/:id", controllers.UpdateFabric)
		authed.DELETE("/fabrics/:id", controllers.DeleteFabric)
		authed.POST("/fabrics/:id/restock", controllers.RestockFabric)

		// Accessories
		authed.POST("/accessories", controllers.CreateAccessory)
		authed.GET("/accessories", controllers.ListAccessories)
		authed.GET("/accessories/:id", controllers.GetAccessory)
		authed.PUT("/accessories/:id", controllers.UpdateAccessory)
		authed.DELETE("/accessories/:id", controllers.DeleteAccessory)
		authed.POST("/accessories/:id/restock", controllers.RestockAccessory)

		// Inventory
		authed.POST("/inventory/bulk-restock", controllers.BulkRestock)
		authed.GET("/inventory/low-stock", controllers.LowStock)
		authed.GET("/inventory/summary", controllers.InventorySummary)

		// Orders
		authed.POST("/orders", controllers.CreateOrder)
		authed.GET("/orders", controllers.ListOrders)
		authed.GET("/orders/:id", controllers.GetOrder)
		authed.POST("/orders/assign", controllers.AssignOrder)
		authed.POST("/orders/:id/down-payment", controllers.RecordDownPayment)
		authed.POST("/orders/:id/payment", controllers.RecordPayment)
		authed.POST("/orders/:id/cancel", controllers.CancelOrder)
		authed.POST("/orders/:id/claim", controllers.ClaimOrder)
		authed.GET("/orders/:id/claims", controllers.OrderClaims)
		authed.POST("/orders/:id/deduct-inventory", controllers.DeductInventory)
		authed.GET("/orders/:id/deduction-report", controllers.DeductionReport)

		// Customer self-service
		authed.GET("/customer/orders", controllers.MyOrders)
		authed.GET("/customer/orders/:id", controllers.MyOrder)

		// Tasks
		authed.GET("/tasks", controllers.ListTasks)
		authed.GET("/tailor/tasks", controllers.MyTasks)
		authed.POST("/tasks/:id/start", controllers.StartTask)
		authed.POST("/tasks/:id/complete", controllers.CompleteTask)
		authed.POST("/tasks/:id/approve", controllers.ApproveTask)

		// Commissions
		authed.GET("/commissions", controllers.ListCommissions)
		authed.GET("/tailor/commissions", controllers.MyCommissions)
		authed.POST("/commissions/:id/pay", controllers.PayCommission)

		// Claims audit trail
		authed.GET("/claims", controllers.ListClaims)
		authed.POST("/claims/:id/reverse", controllers.ReverseClaim)

		// Reports
		authed.GET("/reports/:type", controllers.GenerateReport)
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Tailoring API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
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

	// Ping the database to verify connection
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

	// Get list of tables
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
