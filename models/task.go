package models

import (
	"time"

	"gorm.io/gorm"
)

// TaskStatus is the lifecycle status of a tailor task
type TaskStatus string

const (
	TaskAssigned   TaskStatus = "ASSIGNED"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
	TaskApproved   TaskStatus = "APPROVED"
)

// taskTransitions is the allowed-transitions table for task statuses
var taskTransitions = map[TaskStatus][]TaskStatus{
	TaskAssigned:   {TaskInProgress},
	TaskInProgress: {TaskCompleted},
	TaskCompleted:  {TaskApproved},
	TaskApproved:   {},
}

// CanTransitionTo reports whether moving from s to next is a valid task
// status transition.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	for _, allowed := range taskTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Task is the unit of work created when an order is assigned to a tailor.
// One task per order.
type Task struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	OrderID     uint       `gorm:"uniqueIndex;not null" json:"order_id"`
	Order       Order      `gorm:"foreignKey:OrderID" json:"order"`
	TailorID    uint       `gorm:"not null;index" json:"tailor_id"`
	Tailor      Tailor     `gorm:"foreignKey:TailorID" json:"tailor"`
	Status      TaskStatus `gorm:"not null;default:'ASSIGNED'" json:"status"`
	AssignedAt  time.Time  `gorm:"autoCreateTime" json:"assigned_at"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	ApprovedAt  *time.Time `json:"approved_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Task model
func (Task) TableName() string {
	return "tasks"
}
