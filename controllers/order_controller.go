package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/elsenior/tailoring-api/business"
	"github.com/elsenior/tailoring-api/config"
	"github.com/elsenior/tailoring-api/models"
)

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	CustomerID  uint   `json:"customer_id" binding:"required"`
	FabricID    uint   `json:"fabric_id" binding:"required"`
	Accessories []uint `json:"accessories"`
	Category    string `json:"category"`
	GarmentType string `json:"garment_type" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,gt=0"`

	Bust          *float64 `json:"bust"`
	Waist         *float64 `json:"waist"`
	Hips          *float64 `json:"hips"`
	ShoulderWidth *float64 `json:"shoulder_width"`
	SleeveLength  *float64 `json:"sleeve_length"`
	Inseam        *float64 `json:"inseam"`
	GarmentLength *float64 `json:"garment_length"`
}

// AssignOrderRequest represents the request body for assigning an order
type AssignOrderRequest struct {
	OrderID  uint `json:"order_id" binding:"required"`
	TailorID uint `json:"tailor_id" binding:"required"`
}

// ClaimOrderRequest represents the request body for recording a pickup
type ClaimOrderRequest struct {
	ClaimantName  string `json:"claimant_name" binding:"required"`
	ClaimantPhone string `json:"claimant_phone"`
	Notes         string `json:"notes"`
}

// CreateOrder handles POST /api/v1/orders - prices the order and deducts
// inventory in one transaction (admin only)
func CreateOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !requireRole(c, user, models.RoleAdmin) {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()

	var customer models.Customer
	if err := db.First(&customer, req.CustomerID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CUSTOMER_NOT_FOUND",
				"message": "Customer not found",
			},
		})
		return
	}

	var fabric models.Fabric
	if err := db.First(&fabric, req.FabricID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FABRIC_NOT_FOUND",
				"message": "Fabric not found",
			},
		})
		return
	}

	var garment models.GarmentType
	if err := db.Where("code = ?", req.GarmentType).First(&garment).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "GARMENT_TYPE_NOT_FOUND",
				"message": "Unknown garment type: " + req.GarmentType,
			},
		})
		return
	}

	var accessories []models.Accessory
	if len(req.Accessories) > 0 {
		if err := db.Preload("ApplicableGarments").
			Where("id IN ?", req.Accessories).Find(&accessories).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to look up accessories",
				},
			})
			return
		}
		if len(accessories) != len(req.Accessories) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ACCESSORY_NOT_FOUND",
					"message": "One or more accessories do not exist",
				},
			})
			return
		}
	}

	order := models.Order{
		CustomerID:    customer.ID,
		FabricID:      fabric.ID,
		Fabric:        fabric,
		Accessories:   accessories,
		Category:      req.Category,
		GarmentType:   req.GarmentType,
		Quantity:      req.Quantity,
		Bust:          req.Bust,
		Waist:         req.Waist,
		Hips:          req.Hips,
		ShoulderWidth: req.ShoulderWidth,
		SleeveLength:  req.SleeveLength,
		Inseam:        req.Inseam,
		GarmentLength: req.GarmentLength,
	}

	report, err := orderWorkflow().CreateOrder(db, &order)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	if err := db.Preload("Customer").Preload("Fabric").Preload("Accessories").
		First(&order, order.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load order details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"order":     order,
			"deduction": report,
		},
	})
}

// ListOrders handles GET /api/v1/orders - lists all orders with optional
// status filter (admin only)
func ListOrders(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !requireRole(c, user, models.RoleAdmin) {
		return
	}

	page, limit := paginationParams(c)
	db := config.GetDB()

	query := db.Model(&models.Order{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if paymentStatus := c.Query("payment_status"); paymentStatus != "" {
		query = query.Where("payment_status = ?", paymentStatus)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count orders",
			},
		})
		return
	}

	var orders []models.Order
	if err := query.Preload("Customer").Preload("Fabric").Preload("Accessories").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       orders,
		"pagination": paginationEnvelope(page, limit, total),
	})
}

// GetOrder handles GET /api/v1/orders/:id (admin only)
func GetOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !requireRole(c, user, models.RoleAdmin) {
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.Preload("Customer").Preload("Fabric").Preload("Accessories").
		First(&order, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// CustomerOrders handles GET /api/v1/customers/:id/orders (admin only)
func CustomerOrders(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !requireRole(c, user, models.RoleAdmin) {
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var customer models.Customer
	if err := db.First(&customer, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CUSTOMER_NOT_FOUND",
				"message": "Customer not found",
			},
		})
		return
	}

	page, limit := paginationParams(c)
	query := db.Model(&models.Order{}).Where("customer_id = ?", customer.ID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count orders",
			},
		})
		return
	}

	var orders []models.Order
	if err := query.Preload("Fabric").Preload("Accessories").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       orders,
		"pagination": paginationEnvelope(page, limit, total),
	})
}

// MyOrders handles GET /api/v1/customer/orders - the authenticated customer's
// own orders
func MyOrders(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var customer models.Customer
	if err := db.Where("user_id = ?", user.ID).First(&customer).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CUSTOMER_NOT_FOUND",
				"message": "No customer record is linked to this account",
			},
		})
		return
	}

	page, limit := paginationParams(c)
	query := db.Model(&models.Order{}).Where("customer_id = ?", customer.ID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count orders",
			},
		})
		return
	}

	var orders []models.Order
	if err := query.Preload("Fabric").Preload("Accessories").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       orders,
		"pagination": paginationEnvelope(page, limit, total),
	})
}

// MyOrder handles GET /api/v1/customer/orders/:id - one of the authenticated
// customer's own orders
func MyOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var customer models.Customer
	if err := db.Where("user_id = ?", user.ID).First(&customer).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CUSTOMER_NOT_FOUND",
				"message": "No customer record is linked to this account",
			},
		})
		return
	}

	var order models.Order
	if err := db.Preload("Fabric").Preload("Accessories").
		Where("id = ? AND customer_id = ?", id, customer.ID).
		First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// AssignOrder handles POST /api/v1/orders/assign - assigns a pending order to
// a tailor and opens its task (admin only)
func AssignOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !requireRole(c, user, models.RoleAdmin) {
		return
	}

	var req AssignOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()

	var order models.Order
	if err := db.First(&order, req.OrderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	var tailor models.Tailor
	if err := db.Preload("User").First(&tailor, req.TailorID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TAILOR_NOT_FOUND",
				"message": "Tailor not found",
			},
		})
		return
	}

	task, err := orderWorkflow().Assign(db, &order, &tailor)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	if err := db.Preload("Order").Preload("Tailor.User").First(task, task.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load task details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    task,
	})
}

// RecordDownPayment handles POST /api/v1/orders/:id/down-payment (admin only)
func RecordDownPayment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !requireRole(c, user, models.RoleAdmin) {
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	if err := orderWorkflow().RecordDownPayment(db, &order); err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// RecordPayment handles POST /api/v1/orders/:id/payment - marks the order
// fully paid (admin only)
func RecordPayment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !requireRole(c, user, models.RoleAdmin) {
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	if err := orderWorkflow().RecordFullPayment(db, &order); err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// CancelOrder handles POST /api/v1/orders/:id/cancel (admin only). Deducted
// stock is not restored; restocking is a separate admin action.
func CancelOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !requireRole(c, user, models.RoleAdmin) {
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	if err := orderWorkflow().CancelOrder(db, &order); err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// ClaimOrder handles POST /api/v1/orders/:id/claim - records a garment pickup
// (admin only)
func ClaimOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !requireRole(c, user, models.RoleAdmin) {
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req ClaimOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	claim, err := orderWorkflow().ClaimOrder(db, &order, business.ClaimInput{
		ClaimantName:  req.ClaimantName,
		ClaimantPhone: req.ClaimantPhone,
		Notes:         req.Notes,
	}, user)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"order": order,
			"claim": claim,
		},
	})
}

// OrderClaims handles GET /api/v1/orders/:id/claims - the full claim history
// of one order, reversed records included (admin only)
func OrderClaims(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !requireRole(c, user, models.RoleAdmin) {
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	var claims []models.Claim
	if err := db.Preload("RecordedBy").
		Where("order_id = ?", order.ID).
		Order("created_at DESC").
		Find(&claims).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch claims",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    claims,
	})
}
