package business

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/elsenior/tailoring-api/models"
)

// Notifier sends an SMS to a phone number. Implementations report success
// and the provider response (or error text); failures are logged by the
// caller and never fail the triggering transition.
type Notifier interface {
	SendMessage(message, number string) (bool, string)
}

// Workflow owns the order, task and commission state transitions. The
// pricing table and inventory ledger are injected once at construction.
type Workflow struct {
	Pricing  *PricingTable
	Ledger   *InventoryLedger
	Notifier Notifier // optional, nil disables SMS
}

// NewWorkflow creates a workflow with the given collaborators
func NewWorkflow(pricing *PricingTable, ledger *InventoryLedger, notifier Notifier) *Workflow {
	return &Workflow{
		Pricing:  pricing,
		Ledger:   ledger,
		Notifier: notifier,
	}
}

// CreateOrder prices the order and persists it together with the inventory
// deduction in a single transaction. The order must have its Fabric and
// Accessories loaded. If stock is insufficient the whole transaction rolls
// back and no order row survives.
func (w *Workflow) CreateOrder(db *gorm.DB, order *models.Order) (*DeductionReport, error) {
	if order.Quantity <= 0 {
		return nil, NewValidationError("Quantity must be greater than zero")
	}

	for i := range order.Accessories {
		if !order.Accessories[i].AppliesTo(order.GarmentType) {
			return nil, NewValidationError(fmt.Sprintf(
				"Accessory %s is not applicable to garment type %s",
				order.Accessories[i].Name, order.GarmentType))
		}
	}

	order.TotalAmount = w.Pricing.Total(order.GarmentType, order.Quantity)
	order.DownPaymentAmount = w.Pricing.DownPayment(order.TotalAmount)
	order.RemainingBalance = order.TotalAmount.Sub(order.DownPaymentAmount)
	order.Status = models.OrderPending
	order.PaymentStatus = models.PaymentPending
	order.DownPaymentStatus = models.DownPaymentPending

	var report *DeductionReport
	err := db.Transaction(func(tx *gorm.DB) error {
		// Deduct runs guarded decrements inside the same transaction as the
		// insert; if stock no longer covers the order the whole transaction
		// rolls back and no order row survives.
		accessories := order.Accessories
		order.Accessories = nil
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		order.Accessories = accessories

		if len(accessories) > 0 {
			if err := tx.Model(order).Association("Accessories").Replace(accessories); err != nil {
				return fmt.Errorf("failed to associate accessories: %w", err)
			}
		}

		deduction, err := w.Ledger.Deduct(tx, order)
		if err != nil {
			return err
		}
		report = deduction
		return nil
	})
	if err != nil {
		return nil, err
	}

	return report, nil
}

// Assign moves a pending order to a tailor and creates the one task for it.
// No commission is created here; that happens only at approval.
func (w *Workflow) Assign(db *gorm.DB, order *models.Order, tailor *models.Tailor) (*models.Task, error) {
	if !order.Status.CanTransitionTo(models.OrderAssigned) {
		return nil, NewValidationError(fmt.Sprintf(
			"Order %d cannot be assigned while %s", order.ID, order.Status))
	}

	var existing int64
	if err := db.Model(&models.Task{}).Where("order_id = ?", order.ID).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing task: %w", err)
	}
	if existing > 0 {
		return nil, NewValidationError(fmt.Sprintf("Order %d already has a task", order.ID))
	}

	task := &models.Task{
		OrderID:  order.ID,
		TailorID: tailor.ID,
		Status:   models.TaskAssigned,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(order).Update("status", models.OrderAssigned).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		if err := tx.Create(task).Error; err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Status = models.OrderAssigned
	return task, nil
}

// StartTask moves an assigned task into progress
func (w *Workflow) StartTask(db *gorm.DB, task *models.Task) error {
	if !task.Status.CanTransitionTo(models.TaskInProgress) {
		return NewValidationError(fmt.Sprintf(
			"Task must be assigned before it can be started, current status is %s", task.Status))
	}

	now := time.Now()
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(task).Updates(map[string]interface{}{
			"status":     models.TaskInProgress,
			"started_at": now,
		}).Error; err != nil {
			return fmt.Errorf("failed to start task: %w", err)
		}
		if err := tx.Model(&models.Order{}).Where("id = ?", task.OrderID).
			Update("status", models.OrderInProgress).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		task.Status = models.TaskInProgress
		task.StartedAt = &now
		return nil
	})
}

// CompleteTask marks an in-progress task done. Commission is NOT created
// here; only admin approval creates it.
func (w *Workflow) CompleteTask(db *gorm.DB, task *models.Task) error {
	if !task.Status.CanTransitionTo(models.TaskCompleted) {
		return NewValidationError(fmt.Sprintf(
			"Task must be in progress before it can be completed, current status is %s", task.Status))
	}

	now := time.Now()
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(task).Updates(map[string]interface{}{
			"status":       models.TaskCompleted,
			"completed_at": now,
		}).Error; err != nil {
			return fmt.Errorf("failed to complete task: %w", err)
		}
		if err := tx.Model(&models.Order{}).Where("id = ?", task.OrderID).
			Update("status", models.OrderCompleted).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		task.Status = models.TaskCompleted
		task.CompletedAt = &now
		return nil
	})
}

// ApproveTask approves a completed task, creates the commission (exactly
// once per order) and notifies the customer by SMS. The SMS is best-effort:
// a gateway failure is logged and the approval still commits.
//
// The task must have its Order (with Customer) and Tailor loaded.
func (w *Workflow) ApproveTask(db *gorm.DB, task *models.Task) (*models.Commission, error) {
	if !task.Status.CanTransitionTo(models.TaskApproved) {
		return nil, NewValidationError(fmt.Sprintf(
			"Task must be completed before it can be approved, current status is %s", task.Status))
	}

	now := time.Now()
	var commission *models.Commission

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(task).Updates(map[string]interface{}{
			"status":      models.TaskApproved,
			"approved_at": now,
		}).Error; err != nil {
			return fmt.Errorf("failed to approve task: %w", err)
		}
		if err := tx.Model(&models.Order{}).Where("id = ?", task.OrderID).
			Update("status", models.OrderApproved).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}

		// Create the commission only if none exists yet for this order
		var existing models.Commission
		result := tx.Where("order_id = ?", task.OrderID).First(&existing)
		if result.Error == nil {
			commission = &existing
			return nil
		}
		if result.Error != gorm.ErrRecordNotFound {
			return fmt.Errorf("failed to look up commission: %w", result.Error)
		}

		commission = &models.Commission{
			TailorID: task.TailorID,
			OrderID:  task.OrderID,
			Amount:   CommissionAmount(&task.Tailor, &task.Order),
			Status:   models.CommissionApproved,
		}
		if err := tx.Create(commission).Error; err != nil {
			return fmt.Errorf("failed to create commission: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	task.Status = models.TaskApproved
	task.ApprovedAt = &now

	w.notifyOrderReady(&task.Order)
	return commission, nil
}

// notifyOrderReady sends the pickup SMS to the order's customer. Failures
// are logged and swallowed.
func (w *Workflow) notifyOrderReady(order *models.Order) {
	if w.Notifier == nil || order.Customer.Phone == "" {
		return
	}

	// Keep under the 160-character single-SMS limit
	message := fmt.Sprintf("Hi %s, your %s order #%d is ready for pickup at El Senior Tailoring. Remaining balance: %s. Thank you!",
		order.Customer.Name, strings.ToLower(order.GarmentType), order.ID, order.RemainingBalance.StringFixed(2))

	ok, response := w.Notifier.SendMessage(message, order.Customer.Phone)
	if !ok {
		log.Printf("SMS notification failed for order %d: %s", order.ID, response)
		return
	}
	log.Printf("SMS notification sent for order %d", order.ID)
}

// CancelOrder cancels a non-terminal order. Deducted inventory is not
// restored automatically; restocking is an explicit admin action.
func (w *Workflow) CancelOrder(db *gorm.DB, order *models.Order) error {
	if !order.Status.CanTransitionTo(models.OrderCancelled) {
		return NewValidationError(fmt.Sprintf(
			"Order %d cannot be cancelled while %s", order.ID, order.Status))
	}
	if err := db.Model(order).Update("status", models.OrderCancelled).Error; err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}
	order.Status = models.OrderCancelled
	return nil
}

// ClaimInput carries the pickup details recorded by the admin
type ClaimInput struct {
	ClaimantName  string
	ClaimantPhone string
	Notes         string
}

// ClaimOrder records a garment pickup: sets the order's claimed fields,
// forces a non-terminal order to COMPLETED, and appends a Claim audit row.
// A second claim on the same order is rejected.
func (w *Workflow) ClaimOrder(db *gorm.DB, order *models.Order, input ClaimInput, recordedBy *models.User) (*models.Claim, error) {
	if order.ClaimedAt != nil {
		return nil, NewValidationError(fmt.Sprintf("Order %d has already been claimed", order.ID))
	}
	if input.ClaimantName == "" {
		return nil, NewValidationError("Claimant name is required")
	}

	now := time.Now()
	claim := &models.Claim{
		OrderID:       order.ID,
		ClaimantName:  input.ClaimantName,
		ClaimantPhone: input.ClaimantPhone,
		RecordedByID:  recordedBy.ID,
		Notes:         input.Notes,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"claimed_at": now,
			"claimed_by": input.ClaimantName,
		}
		// A pickup on an order that never finished its workflow forces the
		// status to COMPLETED, bypassing the normal transition table.
		if !order.Status.IsTerminal() {
			updates["status"] = models.OrderCompleted
		}
		if err := tx.Model(order).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to mark order claimed: %w", err)
		}
		if err := tx.Create(claim).Error; err != nil {
			return fmt.Errorf("failed to create claim record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.ClaimedAt = &now
	order.ClaimedBy = &input.ClaimantName
	if !order.Status.IsTerminal() {
		order.Status = models.OrderCompleted
	}
	return claim, nil
}

// ReverseClaim flags a claim as reversed without deleting it and clears the
// order's claimed fields so the pickup can be re-recorded. A reversed claim
// cannot be made active again.
func (w *Workflow) ReverseClaim(db *gorm.DB, claim *models.Claim, reversedBy *models.User, notes string) error {
	if claim.Reversed {
		return NewValidationError(fmt.Sprintf("Claim %d is already reversed", claim.ID))
	}

	now := time.Now()
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(claim).Updates(map[string]interface{}{
			"reversed":       true,
			"reversed_by_id": reversedBy.ID,
			"reversed_at":    now,
			"reversal_notes": notes,
		}).Error; err != nil {
			return fmt.Errorf("failed to reverse claim: %w", err)
		}
		if err := tx.Model(&models.Order{}).Where("id = ?", claim.OrderID).Updates(map[string]interface{}{
			"claimed_at": nil,
			"claimed_by": nil,
		}).Error; err != nil {
			return fmt.Errorf("failed to clear order claim fields: %w", err)
		}
		claim.Reversed = true
		claim.ReversedByID = &reversedBy.ID
		claim.ReversedAt = &now
		claim.ReversalNotes = notes
		return nil
	})
}

// RecordDownPayment marks the 50% down payment received
func (w *Workflow) RecordDownPayment(db *gorm.DB, order *models.Order) error {
	if order.DownPaymentStatus == models.DownPaymentPaid {
		return NewValidationError(fmt.Sprintf("Down payment for order %d is already paid", order.ID))
	}
	if order.PaymentStatus == models.PaymentPaid {
		return NewValidationError(fmt.Sprintf("Order %d is already fully paid", order.ID))
	}

	if err := db.Model(order).Updates(map[string]interface{}{
		"down_payment_status": models.DownPaymentPaid,
		"payment_status":      models.PaymentDownPaymentPaid,
	}).Error; err != nil {
		return fmt.Errorf("failed to record down payment: %w", err)
	}
	order.DownPaymentStatus = models.DownPaymentPaid
	order.PaymentStatus = models.PaymentDownPaymentPaid
	return nil
}

// RecordFullPayment marks the order fully paid. The down payment amount is
// promoted to the full total and the remaining balance drops to zero.
func (w *Workflow) RecordFullPayment(db *gorm.DB, order *models.Order) error {
	if order.PaymentStatus == models.PaymentPaid {
		return NewValidationError(fmt.Sprintf("Order %d is already fully paid", order.ID))
	}

	now := time.Now()
	if err := db.Model(order).Updates(map[string]interface{}{
		"payment_status":      models.PaymentPaid,
		"down_payment_status": models.DownPaymentPaid,
		"down_payment_amount": order.TotalAmount,
		"remaining_balance":   decimal.Zero,
		"paid_at":             now,
	}).Error; err != nil {
		return fmt.Errorf("failed to record payment: %w", err)
	}
	order.PaymentStatus = models.PaymentPaid
	order.DownPaymentStatus = models.DownPaymentPaid
	order.DownPaymentAmount = order.TotalAmount
	order.RemainingBalance = decimal.Zero
	order.PaidAt = &now
	return nil
}

// PayCommission marks an approved commission paid out to the tailor
func (w *Workflow) PayCommission(db *gorm.DB, commission *models.Commission) error {
	if commission.Status == models.CommissionPaid {
		return NewValidationError(fmt.Sprintf("Commission %d is already paid", commission.ID))
	}

	now := time.Now()
	if err := db.Model(commission).Updates(map[string]interface{}{
		"status":  models.CommissionPaid,
		"paid_at": now,
	}).Error; err != nil {
		return fmt.Errorf("failed to pay commission: %w", err)
	}
	commission.Status = models.CommissionPaid
	commission.PaidAt = &now
	return nil
}
