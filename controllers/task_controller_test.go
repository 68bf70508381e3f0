package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/elsenior/tailoring-api/models"
	"github.com/elsenior/tailoring-api/services"
)

// createAssignedTask seeds an order already assigned to the fixture tailor
func createAssignedTask(f *orderTestFixture) (*models.Order, *models.Task) {
	order := &models.Order{
		CustomerID:       f.customer.ID,
		FabricID:         f.fabric.ID,
		GarmentType:      "BLOUSE",
		Quantity:         1,
		TotalAmount:      decimal.NewFromInt(550),
		RemainingBalance: decimal.NewFromInt(275),
		Status:           models.OrderAssigned,
	}
	f.db.Create(order)

	task := &models.Task{
		OrderID:  order.ID,
		TailorID: f.tailor.ID,
		Status:   models.TaskAssigned,
	}
	f.db.Create(task)

	return order, task
}

func TestTaskLifecycleEndpoints(t *testing.T) {
	f := setupOrderFixture(t)
	order, task := createAssignedTask(f)

	router := setupTestRouter()
	tailorAuth := mockAuthMiddleware("auth0|tailor", "tailor", "mock-token")
	adminAuth := mockAuthMiddleware(f.admin.Auth0ID, "admin", "mock-token")
	router.POST("/tasks/:id/start", tailorAuth, StartTask)
	router.POST("/tasks/:id/complete", tailorAuth, CompleteTask)
	router.POST("/tasks/:id/approve", adminAuth, ApproveTask)

	startPath := fmt.Sprintf("/tasks/%d/start", task.ID)
	completePath := fmt.Sprintf("/tasks/%d/complete", task.ID)
	approvePath := fmt.Sprintf("/tasks/%d/approve", task.ID)

	// Cannot complete before starting
	w, response := performRequest(t, router, http.MethodPost, completePath, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assertErrorCode(t, response, "VALIDATION_ERROR")

	w, response = performRequest(t, router, http.MethodPost, startPath, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "IN_PROGRESS", data["status"])
	assert.NotNil(t, data["started_at"])

	var storedOrder models.Order
	f.db.First(&storedOrder, order.ID)
	assert.Equal(t, models.OrderInProgress, storedOrder.Status)

	w, response = performRequest(t, router, http.MethodPost, completePath, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data = response["data"].(map[string]interface{})
	assert.Equal(t, "COMPLETED", data["status"])

	// Double complete is rejected
	w, response = performRequest(t, router, http.MethodPost, completePath, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assertErrorCode(t, response, "VALIDATION_ERROR")

	w, response = performRequest(t, router, http.MethodPost, approvePath, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data = response["data"].(map[string]interface{})
	taskData := data["task"].(map[string]interface{})
	assert.Equal(t, "APPROVED", taskData["status"])

	// 10% of 550
	commission := data["commission"].(map[string]interface{})
	assert.Equal(t, "55", commission["amount"])
	assert.Equal(t, "APPROVED", commission["status"])

	f.db.First(&storedOrder, order.ID)
	assert.Equal(t, models.OrderApproved, storedOrder.Status)

	// Approving twice creates no second commission
	w, _ = performRequest(t, router, http.MethodPost, approvePath, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var count int64
	f.db.Model(&models.Commission{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestApproveSendsPickupSMS(t *testing.T) {
	f := setupOrderFixture(t)
	_, task := createAssignedTask(f)

	mock := services.NewMockSMSService()
	mock.SetAsMockForTesting()

	f.db.Model(task).Update("status", models.TaskCompleted)

	router := setupTestRouter()
	router.POST("/tasks/:id/approve", mockAuthMiddleware(f.admin.Auth0ID, "admin", "mock-token"), ApproveTask)

	w, _ := performRequest(t, router, http.MethodPost, fmt.Sprintf("/tasks/%d/approve", task.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	sent := mock.SentMessages()
	assert.Len(t, sent, 1)
	assert.Equal(t, f.customer.Phone, sent[0].Number)
	assert.Contains(t, sent[0].Message, "Maria Santos")
	assert.Contains(t, sent[0].Message, "ready for pickup")
}

func TestTaskBelongsToAnotherTailor(t *testing.T) {
	f := setupOrderFixture(t)
	_, task := createAssignedTask(f)

	otherUser := models.User{
		Auth0ID: "auth0|other-tailor",
		Name:    "Pedro Cruz",
		Email:   "pedro@example.com",
		Role:    models.RoleTailor,
	}
	f.db.Create(&otherUser)
	otherTailor := models.Tailor{
		UserID:         otherUser.ID,
		Phone:          "09170002222",
		CommissionRate: decimal.NewFromInt(10),
	}
	f.db.Create(&otherTailor)

	router := setupTestRouter()
	router.POST("/tasks/:id/start", mockAuthMiddleware(otherUser.Auth0ID, "tailor", "mock-token"), StartTask)

	w, response := performRequest(t, router, http.MethodPost, fmt.Sprintf("/tasks/%d/start", task.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assertErrorCode(t, response, "FORBIDDEN")

	var stored models.Task
	f.db.First(&stored, task.ID)
	assert.Equal(t, models.TaskAssigned, stored.Status)
}

func TestMyTasksEndpoint(t *testing.T) {
	f := setupOrderFixture(t)
	createAssignedTask(f)

	router := setupTestRouter()
	router.GET("/tailor/tasks", mockAuthMiddleware("auth0|tailor", "tailor", "mock-token"), MyTasks)

	w, response := performRequest(t, router, http.MethodGet, "/tailor/tasks", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := response["data"].([]interface{})
	assert.Len(t, data, 1)

	taskData := data[0].(map[string]interface{})
	assert.Equal(t, "ASSIGNED", taskData["status"])
	assert.Equal(t, float64(f.tailor.ID), taskData["tailor_id"])
}

func TestListTasksRequiresAdmin(t *testing.T) {
	f := setupOrderFixture(t)
	createAssignedTask(f)

	router := setupTestRouter()
	router.GET("/tasks", mockAuthMiddleware("auth0|tailor", "tailor", "mock-token"), ListTasks)

	w, response := performRequest(t, router, http.MethodGet, "/tasks", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assertErrorCode(t, response, "FORBIDDEN")
}
