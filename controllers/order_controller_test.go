package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/elsenior/tailoring-api/config"
	"github.com/elsenior/tailoring-api/models"
	"github.com/elsenior/tailoring-api/services"
)

type orderTestFixture struct {
	db        *gorm.DB
	admin     models.User
	customer  models.Customer
	tailor    models.Tailor
	fabric    models.Fabric
	accessory models.Accessory
}

func setupOrderFixture(t *testing.T) *orderTestFixture {
	db := setupTestDB(t)
	config.SetDB(db)

	mock := services.NewMockSMSService()
	mock.SetAsMockForTesting()

	f := &orderTestFixture{db: db}

	f.admin = models.User{
		Auth0ID: "auth0|admin",
		Name:    "Shop Admin",
		Email:   "admin@example.com",
		Role:    models.RoleAdmin,
	}
	db.Create(&f.admin)

	f.customer = models.Customer{Name: "Maria Santos", Phone: "09171234567"}
	db.Create(&f.customer)

	tailorUser := models.User{
		Auth0ID: "auth0|tailor",
		Name:    "Jose Reyes",
		Email:   "jose@example.com",
		Role:    models.RoleTailor,
	}
	db.Create(&tailorUser)

	f.tailor = models.Tailor{
		UserID:         tailorUser.ID,
		Phone:          "09179876543",
		CommissionRate: decimal.NewFromInt(10),
	}
	db.Create(&f.tailor)

	f.fabric = models.Fabric{
		Name:         "Cotton",
		Quantity:     decimal.NewFromInt(20),
		PricePerUnit: decimal.NewFromInt(100),
	}
	db.Create(&f.fabric)

	f.accessory = models.Accessory{
		Name:         "Buttons",
		Quantity:     10,
		PricePerUnit: decimal.NewFromInt(5),
	}
	db.Create(&f.accessory)

	return f
}

func TestCreateOrderEndpoint(t *testing.T) {
	f := setupOrderFixture(t)

	tests := []struct {
		name           string
		auth0ID        string
		role           string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
		checkResponse  func(t *testing.T, response map[string]interface{})
	}{
		{
			name:    "Successfully create order with pricing and deduction",
			auth0ID: f.admin.Auth0ID,
			role:    "admin",
			requestBody: map[string]interface{}{
				"customer_id":  f.customer.ID,
				"fabric_id":    f.fabric.ID,
				"accessories":  []uint{f.accessory.ID},
				"garment_type": "BLOUSE",
				"quantity":     1,
				"bust":         90.5,
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				assert.True(t, response["success"].(bool))
				data := response["data"].(map[string]interface{})
				order := data["order"].(map[string]interface{})
				assert.Equal(t, "550", order["total_amount"])
				assert.Equal(t, "275", order["down_payment_amount"])
				assert.Equal(t, "275", order["remaining_balance"])
				assert.Equal(t, "PENDING", order["status"])
				assert.Equal(t, true, order["inventory_deducted"])

				deduction := data["deduction"].(map[string]interface{})
				fabric := deduction["fabric"].(map[string]interface{})
				assert.Equal(t, "2", fabric["deducted_units"])
				assert.Equal(t, "18", fabric["remaining"])
			},
		},
		{
			name:    "Fail with insufficient stock",
			auth0ID: f.admin.Auth0ID,
			role:    "admin",
			requestBody: map[string]interface{}{
				"customer_id":  f.customer.ID,
				"fabric_id":    f.fabric.ID,
				"garment_type": "DRESS",
				"quantity":     10,
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:    "Fail as tailor",
			auth0ID: "auth0|tailor",
			role:    "tailor",
			requestBody: map[string]interface{}{
				"customer_id":  f.customer.ID,
				"fabric_id":    f.fabric.ID,
				"garment_type": "BLOUSE",
				"quantity":     1,
			},
			expectedStatus: http.StatusForbidden,
			expectedError:  "FORBIDDEN",
		},
		{
			name:    "Fail with unknown customer",
			auth0ID: f.admin.Auth0ID,
			role:    "admin",
			requestBody: map[string]interface{}{
				"customer_id":  9999,
				"fabric_id":    f.fabric.ID,
				"garment_type": "BLOUSE",
				"quantity":     1,
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "CUSTOMER_NOT_FOUND",
		},
		{
			name:    "Fail with garment type not in catalogue",
			auth0ID: f.admin.Auth0ID,
			role:    "admin",
			requestBody: map[string]interface{}{
				"customer_id":  f.customer.ID,
				"fabric_id":    f.fabric.ID,
				"garment_type": "TUXEDO",
				"quantity":     1,
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "GARMENT_TYPE_NOT_FOUND",
		},
		{
			name:    "Fail with zero quantity",
			auth0ID: f.admin.Auth0ID,
			role:    "admin",
			requestBody: map[string]interface{}{
				"customer_id":  f.customer.ID,
				"fabric_id":    f.fabric.ID,
				"garment_type": "BLOUSE",
				"quantity":     0,
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.POST("/orders",
				mockAuthMiddleware(tt.auth0ID, tt.role, "mock-token"),
				CreateOrder,
			)

			w, response := performRequest(t, router, http.MethodPost, "/orders", tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assertErrorCode(t, response, tt.expectedError)
			}
			if tt.checkResponse != nil {
				tt.checkResponse(t, response)
			}
		})
	}
}

func TestCreateOrderRollbackLeavesNoRow(t *testing.T) {
	f := setupOrderFixture(t)

	router := setupTestRouter()
	router.POST("/orders", mockAuthMiddleware(f.admin.Auth0ID, "admin", "mock-token"), CreateOrder)

	w, _ := performRequest(t, router, http.MethodPost, "/orders", map[string]interface{}{
		"customer_id":  f.customer.ID,
		"fabric_id":    f.fabric.ID,
		"garment_type": "DRESS",
		"quantity":     10,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	f.db.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(0), count)

	var fabric models.Fabric
	f.db.First(&fabric, f.fabric.ID)
	assert.True(t, fabric.Quantity.Equal(decimal.NewFromInt(20)))
}

func TestListOrdersPagination(t *testing.T) {
	f := setupOrderFixture(t)

	for i := 0; i < 5; i++ {
		order := models.Order{
			CustomerID:  f.customer.ID,
			FabricID:    f.fabric.ID,
			GarmentType: "BLOUSE",
			Quantity:    1,
			TotalAmount: decimal.NewFromInt(550),
			Status:      models.OrderPending,
		}
		f.db.Create(&order)
	}

	router := setupTestRouter()
	router.GET("/orders", mockAuthMiddleware(f.admin.Auth0ID, "admin", "mock-token"), ListOrders)

	tests := []struct {
		name          string
		query         string
		expectedCount int
		expectedPage  float64
		expectedPages float64
	}{
		{"Default pagination", "", 5, 1, 1},
		{"Page 1 with limit 2", "?page=1&limit=2", 2, 1, 3},
		{"Page 3 with limit 2", "?page=3&limit=2", 1, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, response := performRequest(t, router, http.MethodGet, "/orders"+tt.query, nil)

			assert.Equal(t, http.StatusOK, w.Code)
			data := response["data"].([]interface{})
			assert.Len(t, data, tt.expectedCount)

			pagination := response["pagination"].(map[string]interface{})
			assert.Equal(t, tt.expectedPage, pagination["page"])
			assert.Equal(t, float64(5), pagination["total"])
			assert.Equal(t, tt.expectedPages, pagination["totalPages"])
		})
	}
}

func TestAssignOrderEndpoint(t *testing.T) {
	f := setupOrderFixture(t)

	order := models.Order{
		CustomerID:  f.customer.ID,
		FabricID:    f.fabric.ID,
		GarmentType: "BLOUSE",
		Quantity:    1,
		TotalAmount: decimal.NewFromInt(550),
		Status:      models.OrderPending,
	}
	f.db.Create(&order)

	router := setupTestRouter()
	router.POST("/orders/assign", mockAuthMiddleware(f.admin.Auth0ID, "admin", "mock-token"), AssignOrder)

	w, response := performRequest(t, router, http.MethodPost, "/orders/assign", map[string]interface{}{
		"order_id":  order.ID,
		"tailor_id": f.tailor.ID,
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "ASSIGNED", data["status"])
	assert.Equal(t, float64(order.ID), data["order_id"])

	var storedOrder models.Order
	f.db.First(&storedOrder, order.ID)
	assert.Equal(t, models.OrderAssigned, storedOrder.Status)

	// Assigning the same order again is rejected
	w, response = performRequest(t, router, http.MethodPost, "/orders/assign", map[string]interface{}{
		"order_id":  order.ID,
		"tailor_id": f.tailor.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assertErrorCode(t, response, "VALIDATION_ERROR")
}

func TestClaimOrderEndpoint(t *testing.T) {
	f := setupOrderFixture(t)

	order := models.Order{
		CustomerID:  f.customer.ID,
		FabricID:    f.fabric.ID,
		GarmentType: "BLOUSE",
		Quantity:    1,
		TotalAmount: decimal.NewFromInt(550),
		Status:      models.OrderApproved,
	}
	f.db.Create(&order)

	router := setupTestRouter()
	path := fmt.Sprintf("/orders/%d/claim", order.ID)
	router.POST("/orders/:id/claim", mockAuthMiddleware(f.admin.Auth0ID, "admin", "mock-token"), ClaimOrder)
	router.GET("/orders/:id/claims", mockAuthMiddleware(f.admin.Auth0ID, "admin", "mock-token"), OrderClaims)

	w, response := performRequest(t, router, http.MethodPost, path, map[string]interface{}{
		"claimant_name":  "Maria Santos",
		"claimant_phone": "09171234567",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	data := response["data"].(map[string]interface{})
	claim := data["claim"].(map[string]interface{})
	assert.Equal(t, "Maria Santos", claim["claimant_name"])
	assert.Equal(t, float64(f.admin.ID), claim["recorded_by_id"])

	// Second claim is rejected
	w, response = performRequest(t, router, http.MethodPost, path, map[string]interface{}{
		"claimant_name": "Someone Else",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assertErrorCode(t, response, "VALIDATION_ERROR")

	// The claim history shows the single record
	w, response = performRequest(t, router, http.MethodGet, fmt.Sprintf("/orders/%d/claims", order.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	claims := response["data"].([]interface{})
	assert.Len(t, claims, 1)
}

func TestPaymentEndpoints(t *testing.T) {
	f := setupOrderFixture(t)

	order := models.Order{
		CustomerID:        f.customer.ID,
		FabricID:          f.fabric.ID,
		GarmentType:       "BLOUSE",
		Quantity:          1,
		TotalAmount:       decimal.NewFromInt(550),
		DownPaymentAmount: decimal.NewFromInt(275),
		RemainingBalance:  decimal.NewFromInt(275),
		Status:            models.OrderPending,
		PaymentStatus:     models.PaymentPending,
		DownPaymentStatus: models.DownPaymentPending,
	}
	f.db.Create(&order)

	router := setupTestRouter()
	router.POST("/orders/:id/down-payment", mockAuthMiddleware(f.admin.Auth0ID, "admin", "mock-token"), RecordDownPayment)
	router.POST("/orders/:id/payment", mockAuthMiddleware(f.admin.Auth0ID, "admin", "mock-token"), RecordPayment)

	downPath := fmt.Sprintf("/orders/%d/down-payment", order.ID)
	payPath := fmt.Sprintf("/orders/%d/payment", order.ID)

	w, response := performRequest(t, router, http.MethodPost, downPath, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "PAID", data["down_payment_status"])
	assert.Equal(t, "DOWN_PAYMENT_PAID", data["payment_status"])

	// Down payment cannot be recorded twice
	w, response = performRequest(t, router, http.MethodPost, downPath, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assertErrorCode(t, response, "VALIDATION_ERROR")

	w, response = performRequest(t, router, http.MethodPost, payPath, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data = response["data"].(map[string]interface{})
	assert.Equal(t, "PAID", data["payment_status"])
	assert.Equal(t, "0", data["remaining_balance"])

	// Fully paid orders accept no more payments
	w, response = performRequest(t, router, http.MethodPost, payPath, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assertErrorCode(t, response, "VALIDATION_ERROR")
}

func TestMyOrdersRequiresLinkedCustomer(t *testing.T) {
	f := setupOrderFixture(t)

	viewer := models.User{
		Auth0ID: "auth0|viewer",
		Name:    "Viewer",
		Email:   "viewer@example.com",
		Role:    models.RoleCustomer,
	}
	f.db.Create(&viewer)

	router := setupTestRouter()
	router.GET("/customer/orders", mockAuthMiddleware(viewer.Auth0ID, "customer", "mock-token"), MyOrders)

	// No customer record linked yet
	w, response := performRequest(t, router, http.MethodGet, "/customer/orders", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assertErrorCode(t, response, "CUSTOMER_NOT_FOUND")

	// Link the account and add an order
	f.db.Model(&f.customer).Update("user_id", viewer.ID)
	order := models.Order{
		CustomerID:  f.customer.ID,
		FabricID:    f.fabric.ID,
		GarmentType: "BLOUSE",
		Quantity:    1,
		TotalAmount: decimal.NewFromInt(550),
		Status:      models.OrderPending,
	}
	f.db.Create(&order)

	w, response = performRequest(t, router, http.MethodGet, "/customer/orders", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := response["data"].([]interface{})
	assert.Len(t, data, 1)
}
