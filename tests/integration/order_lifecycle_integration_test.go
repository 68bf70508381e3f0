package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/elsenior/tailoring-api/config"
	"github.com/elsenior/tailoring-api/controllers"
	"github.com/elsenior/tailoring-api/models"
	"github.com/elsenior/tailoring-api/services"
	"github.com/elsenior/tailoring-api/tests/testutil"
)

// OrderLifecycleTestSuite drives a complete order through the API, from
// creation to pickup, the way the shop staff would.
type OrderLifecycleTestSuite struct {
	suite.Suite
	router    *gin.Engine
	db        *gorm.DB
	sms       *services.MockSMSService
	admin     models.User
	customer  models.Customer
	tailor    models.Tailor
	fabric    models.Fabric
	accessory models.Accessory
}

// SetupSuite runs once before all tests
func (suite *OrderLifecycleTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	testutil.MustSetTestEnvironment(suite.T())
}

// SetupTest runs before each test
func (suite *OrderLifecycleTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.NoError(err)
	suite.db = db

	err = db.AutoMigrate(
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
	)
	suite.NoError(err)

	for _, garment := range models.SeedGarmentTypes() {
		suite.NoError(db.Create(&garment).Error)
	}

	config.SetDB(db)

	suite.sms = services.NewMockSMSService()
	suite.sms.SetAsMockForTesting()

	suite.admin = models.User{
		Auth0ID: "auth0|admin",
		Name:    "Shop Admin",
		Email:   "admin@test.com",
		Role:    models.RoleAdmin,
	}
	suite.NoError(db.Create(&suite.admin).Error)

	tailorUser := models.User{
		Auth0ID: "auth0|tailor",
		Name:    "Jose Reyes",
		Email:   "tailor@test.com",
		Role:    models.RoleTailor,
	}
	suite.NoError(db.Create(&tailorUser).Error)

	suite.tailor = models.Tailor{
		UserID:         tailorUser.ID,
		Phone:          "09179876543",
		CommissionRate: decimal.NewFromInt(10),
	}
	suite.NoError(db.Create(&suite.tailor).Error)

	suite.customer = models.Customer{Name: "Maria Santos", Phone: "09171234567"}
	suite.NoError(db.Create(&suite.customer).Error)

	suite.fabric = models.Fabric{
		Name:         "Cotton",
		Quantity:     decimal.NewFromInt(20),
		PricePerUnit: decimal.NewFromInt(100),
	}
	suite.NoError(db.Create(&suite.fabric).Error)

	suite.accessory = models.Accessory{
		Name:         "Buttons",
		Quantity:     10,
		PricePerUnit: decimal.NewFromInt(5),
	}
	suite.NoError(db.Create(&suite.accessory).Error)

	suite.router = gin.New()

	adminAuth := suite.mockAuthMiddleware("auth0|admin", "admin")
	tailorAuth := suite.mockAuthMiddleware("auth0|tailor", "tailor")

	v1 := suite.router.Group("/api/v1")
	{
		v1.POST("/orders", adminAuth, controllers.CreateOrder)
		v1.GET("/orders", adminAuth, controllers.ListOrders)
		v1.GET("/orders/:id", adminAuth, controllers.GetOrder)
		v1.POST("/orders/assign", adminAuth, controllers.AssignOrder)
		v1.POST("/orders/:id/down-payment", adminAuth, controllers.RecordDownPayment)
		v1.POST("/orders/:id/payment", adminAuth, controllers.RecordPayment)
		v1.POST("/orders/:id/claim", adminAuth, controllers.ClaimOrder)
		v1.GET("/orders/:id/claims", adminAuth, controllers.OrderClaims)

		v1.POST("/tasks/:id/start", tailorAuth, controllers.StartTask)
		v1.POST("/tasks/:id/complete", tailorAuth, controllers.CompleteTask)
		v1.POST("/tasks/:id/approve", adminAuth, controllers.ApproveTask)

		v1.GET("/commissions", adminAuth, controllers.ListCommissions)
		v1.POST("/commissions/:id/pay", adminAuth, controllers.PayCommission)
	}
}

// TearDownTest runs after each test
func (suite *OrderLifecycleTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	if err == nil {
		sqlDB.Close()
	}
}

// mockAuthMiddleware creates a middleware that simulates authentication
func (suite *OrderLifecycleTestSuite) mockAuthMiddleware(auth0ID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		testutil.SetMockAuthContext(c, auth0ID, "https://test.auth0.com/", role)
		c.Next()
	}
}

// request executes one JSON request against the suite router
func (suite *OrderLifecycleTestSuite) request(method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var buf bytes.Buffer
	if body != nil {
		suite.NoError(json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var response map[string]interface{}
	if len(w.Body.Bytes()) > 0 {
		suite.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	}
	return w, response
}

// TestFullOrderLifecycle walks one blouse order from intake to pickup
func (suite *OrderLifecycleTestSuite) TestFullOrderLifecycle() {
	t := suite.T()

	// Step 1: intake - price, down payment and stock deduction happen here
	w, response := suite.request(http.MethodPost, "/api/v1/orders", map[string]interface{}{
		"customer_id":  suite.customer.ID,
		"fabric_id":    suite.fabric.ID,
		"accessories":  []uint{suite.accessory.ID},
		"garment_type": "BLOUSE",
		"quantity":     1,
		"bust":         90.5,
		"waist":        70.0,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	orderData := response["data"].(map[string]interface{})["order"].(map[string]interface{})
	orderID := int(orderData["id"].(float64))
	assert.Equal(t, "550", orderData["total_amount"])
	assert.Equal(t, "275", orderData["down_payment_amount"])
	assert.Equal(t, "PENDING", orderData["status"])

	var fabric models.Fabric
	suite.db.First(&fabric, suite.fabric.ID)
	assert.True(t, fabric.Quantity.Equal(decimal.NewFromInt(18)))

	// Step 2: the customer pays the 50% down payment
	w, response = suite.request(http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/down-payment", orderID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "DOWN_PAYMENT_PAID", response["data"].(map[string]interface{})["payment_status"])

	// Step 3: assign the order to a tailor, which opens a task
	w, response = suite.request(http.MethodPost, "/api/v1/orders/assign", map[string]interface{}{
		"order_id":  orderID,
		"tailor_id": suite.tailor.ID,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	taskID := int(response["data"].(map[string]interface{})["id"].(float64))

	// Step 4: the tailor works the task
	w, _ = suite.request(http.MethodPost, fmt.Sprintf("/api/v1/tasks/%d/start", taskID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = suite.request(http.MethodPost, fmt.Sprintf("/api/v1/tasks/%d/complete", taskID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Step 5: the admin approves, which pays out the commission and texts
	// the customer
	w, response = suite.request(http.MethodPost, fmt.Sprintf("/api/v1/tasks/%d/approve", taskID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	commissionData := response["data"].(map[string]interface{})["commission"].(map[string]interface{})
	commissionID := int(commissionData["id"].(float64))
	assert.Equal(t, "55", commissionData["amount"])

	sent := suite.sms.SentMessages()
	assert.Len(t, sent, 1)
	assert.Equal(t, suite.customer.Phone, sent[0].Number)
	assert.Contains(t, sent[0].Message, "Maria Santos")
	assert.Contains(t, sent[0].Message, "ready for pickup")

	// Step 6: the customer settles the balance and picks up the garment
	w, response = suite.request(http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/payment", orderID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", response["data"].(map[string]interface{})["remaining_balance"])

	w, response = suite.request(http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/claim", orderID), map[string]interface{}{
		"claimant_name":  "Maria Santos",
		"claimant_phone": suite.customer.Phone,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// Step 7: the shop pays the tailor
	w, response = suite.request(http.MethodPost, fmt.Sprintf("/api/v1/commissions/%d/pay", commissionID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "PAID", response["data"].(map[string]interface{})["status"])

	// Final state checks
	var order models.Order
	suite.db.First(&order, orderID)
	assert.Equal(t, models.OrderApproved, order.Status)
	assert.Equal(t, models.PaymentPaid, order.PaymentStatus)
	assert.NotNil(t, order.ClaimedAt)

	var claimCount int64
	suite.db.Model(&models.Claim{}).Count(&claimCount)
	assert.Equal(t, int64(1), claimCount)
}

// TestLifecycleRejectsOutOfOrderSteps verifies the transition guards hold
// over HTTP
func (suite *OrderLifecycleTestSuite) TestLifecycleRejectsOutOfOrderSteps() {
	t := suite.T()

	w, response := suite.request(http.MethodPost, "/api/v1/orders", map[string]interface{}{
		"customer_id":  suite.customer.ID,
		"fabric_id":    suite.fabric.ID,
		"garment_type": "PANTS",
		"quantity":     1,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	orderID := int(response["data"].(map[string]interface{})["order"].(map[string]interface{})["id"].(float64))

	w, response = suite.request(http.MethodPost, "/api/v1/orders/assign", map[string]interface{}{
		"order_id":  orderID,
		"tailor_id": suite.tailor.ID,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	taskID := int(response["data"].(map[string]interface{})["id"].(float64))

	// Approving an unfinished task fails
	w, _ = suite.request(http.MethodPost, fmt.Sprintf("/api/v1/tasks/%d/approve", taskID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Completing before starting fails
	w, _ = suite.request(http.MethodPost, fmt.Sprintf("/api/v1/tasks/%d/complete", taskID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// No commission was created along the way
	var count int64
	suite.db.Model(&models.Commission{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

// TestOrderLifecycleTestSuite runs the suite
func TestOrderLifecycleTestSuite(t *testing.T) {
	suite.Run(t, new(OrderLifecycleTestSuite))
}
