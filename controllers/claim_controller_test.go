package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/elsenior/tailoring-api/models"
)

// createClaimedOrder seeds an approved order with one recorded claim
func createClaimedOrder(f *orderTestFixture, claimantName string) (*models.Order, *models.Claim) {
	now := time.Now()
	order := &models.Order{
		CustomerID:  f.customer.ID,
		FabricID:    f.fabric.ID,
		GarmentType: "BLOUSE",
		Quantity:    1,
		TotalAmount: decimal.NewFromInt(550),
		Status:      models.OrderCompleted,
		ClaimedAt:   &now,
		ClaimedBy:   &claimantName,
	}
	f.db.Create(order)

	claim := &models.Claim{
		OrderID:       order.ID,
		ClaimantName:  claimantName,
		ClaimantPhone: "09171234567",
		RecordedByID:  f.admin.ID,
	}
	f.db.Create(claim)

	return order, claim
}

func TestListClaimsEndpoint(t *testing.T) {
	f := setupOrderFixture(t)
	createClaimedOrder(f, "Maria Santos")
	createClaimedOrder(f, "Pedro Cruz")

	router := setupTestRouter()
	router.GET("/claims", mockAuthMiddleware(f.admin.Auth0ID, "admin", "mock-token"), ListClaims)

	w, response := performRequest(t, router, http.MethodGet, "/claims", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	data := response["data"].([]interface{})
	assert.Len(t, data, 2)

	pagination := response["pagination"].(map[string]interface{})
	assert.Equal(t, float64(2), pagination["total"])
}

func TestListClaimsFilters(t *testing.T) {
	f := setupOrderFixture(t)
	_, reversed := createClaimedOrder(f, "Maria Santos")
	createClaimedOrder(f, "Pedro Cruz")

	now := time.Now()
	f.db.Model(reversed).Updates(map[string]interface{}{
		"reversed":    true,
		"reversed_at": &now,
	})

	router := setupTestRouter()
	router.GET("/claims", mockAuthMiddleware(f.admin.Auth0ID, "admin", "mock-token"), ListClaims)

	w, response := performRequest(t, router, http.MethodGet, "/claims?reversed=false", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := response["data"].([]interface{})
	assert.Len(t, data, 1)
	assert.Equal(t, "Pedro Cruz", data[0].(map[string]interface{})["claimant_name"])

	// A bad date filter is rejected
	w, response = performRequest(t, router, http.MethodGet, "/claims?date_from=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assertErrorCode(t, response, "VALIDATION_ERROR")

	// A wide date window matches everything
	from := now.AddDate(0, 0, -1).Format("2006-01-02")
	to := now.Format("2006-01-02")
	w, response = performRequest(t, router, http.MethodGet,
		fmt.Sprintf("/claims?date_from=%s&date_to=%s", from, to), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data = response["data"].([]interface{})
	assert.Len(t, data, 2)
}

func TestListClaimsCSVExport(t *testing.T) {
	f := setupOrderFixture(t)
	createClaimedOrder(f, "Maria Santos")

	router := setupTestRouter()
	router.GET("/claims", mockAuthMiddleware(f.admin.Auth0ID, "admin", "mock-token"), ListClaims)

	w, _ := performRequest(t, router, http.MethodGet, "/claims?format=csv", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=claims_")

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, "id,order_id,claimant_name,claimant_phone,recorded_by,claimed_at,reversed,reversed_at,notes", strings.TrimSpace(lines[0]))
	assert.Contains(t, lines[1], "Maria Santos")
	assert.Contains(t, lines[1], "Shop Admin")
}

func TestListClaimsRequiresAdmin(t *testing.T) {
	f := setupOrderFixture(t)
	createClaimedOrder(f, "Maria Santos")

	router := setupTestRouter()
	router.GET("/claims", mockAuthMiddleware("auth0|tailor", "tailor", "mock-token"), ListClaims)

	w, response := performRequest(t, router, http.MethodGet, "/claims", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assertErrorCode(t, response, "FORBIDDEN")
}

func TestReverseClaimEndpoint(t *testing.T) {
	f := setupOrderFixture(t)
	order, claim := createClaimedOrder(f, "Maria Santos")

	router := setupTestRouter()
	router.POST("/claims/:id/reverse", mockAuthMiddleware(f.admin.Auth0ID, "admin", "mock-token"), ReverseClaim)

	path := fmt.Sprintf("/claims/%d/reverse", claim.ID)

	// Notes are mandatory
	w, response := performRequest(t, router, http.MethodPost, path, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assertErrorCode(t, response, "VALIDATION_ERROR")

	w, response = performRequest(t, router, http.MethodPost, path, map[string]interface{}{
		"notes": "Recorded against the wrong order",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, true, data["reversed"])
	assert.NotNil(t, data["reversed_at"])

	// The order is open for pickup again
	var storedOrder models.Order
	f.db.First(&storedOrder, order.ID)
	assert.Nil(t, storedOrder.ClaimedAt)
	assert.Nil(t, storedOrder.ClaimedBy)

	// The audit row survives
	var storedClaim models.Claim
	f.db.First(&storedClaim, claim.ID)
	assert.True(t, storedClaim.Reversed)
	assert.Equal(t, "Recorded against the wrong order", storedClaim.ReversalNotes)

	// Reversing twice is rejected
	w, response = performRequest(t, router, http.MethodPost, path, map[string]interface{}{
		"notes": "Again",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assertErrorCode(t, response, "VALIDATION_ERROR")
}

func TestReverseUnknownClaim(t *testing.T) {
	f := setupOrderFixture(t)

	router := setupTestRouter()
	router.POST("/claims/:id/reverse", mockAuthMiddleware(f.admin.Auth0ID, "admin", "mock-token"), ReverseClaim)

	w, response := performRequest(t, router, http.MethodPost, "/claims/9999/reverse", map[string]interface{}{
		"notes": "Nothing here",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assertErrorCode(t, response, "CLAIM_NOT_FOUND")
}
