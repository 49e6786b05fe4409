package models

import (
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Rating is a supervisor's score for a completed task. A rater scores a
// given task at most once.
type Rating struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TaskID    uint      `gorm:"not null;uniqueIndex:idx_rating_task_rater" json:"task"`
	Task      *Task     `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"-"`
	RatedByID *uint     `gorm:"uniqueIndex:idx_rating_task_rater" json:"rated_by_id"`
	RatedBy   *User     `gorm:"foreignKey:RatedByID;constraint:OnDelete:SET NULL" json:"-"`
	Score     int       `gorm:"column:rating;not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
