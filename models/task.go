package models

import (
	"time"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusOverdue    TaskStatus = "overdue"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type Task struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"not null;size:250" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	EmployeeID  uint       `gorm:"not null;index" json:"employee_id"`
	Employee    *User      `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedByID *uint      `gorm:"index" json:"created_by_id"`
	CreatedBy   *User      `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
	Deadline    *time.Time `gorm:"type:date" json:"deadline"`
	Status      TaskStatus `gorm:"not null;size:25;default:pending;index" json:"status"`
	Priority    Priority   `gorm:"not null;size:10;default:medium" json:"priority"`
}

// NextStatus derives a task's status from its completion time and
// deadline. Completion is sticky, a passed deadline makes any other task
// overdue, and a pending task otherwise moves to in_progress.
func NextStatus(current TaskStatus, completedAt, deadline *time.Time, today time.Time) TaskStatus {
	if completedAt != nil {
		return StatusCompleted
	}
	if deadline != nil && DateOf(*deadline).Before(DateOf(today)) {
		return StatusOverdue
	}
	if current == StatusPending || current == "" {
		return StatusInProgress
	}
	return current
}

// Recompute applies NextStatus to t in place.
func (t *Task) Recompute(today time.Time) {
	t.Status = NextStatus(t.Status, t.CompletedAt, t.Deadline, today)
}

// OnTime is nil unless both completion time and deadline are set.
func (t *Task) OnTime() *bool {
	if t.CompletedAt == nil || t.Deadline == nil {
		return nil
	}
	onTime := !DateOf(*t.CompletedAt).After(DateOf(*t.Deadline))
	return &onTime
}

func (t *Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}
