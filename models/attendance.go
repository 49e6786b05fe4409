package models

import (
	"errors"
	"math"
	"time"

	"gorm.io/gorm"
)

var ErrClockOutBeforeClockIn = errors.New("the clock out time cannot be before the clock in time")

// Attendance is one employee's working day. At most one exists per
// (employee, date).
type Attendance struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	EmployeeID uint       `gorm:"not null;uniqueIndex:idx_attendance_employee_date" json:"employee_id"`
	Employee   *User      `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE" json:"-"`
	ClockIn    time.Time  `gorm:"not null" json:"clock_in"`
	ClockOut   *time.Time `json:"clock_out"`
	Date       time.Time  `gorm:"type:date;not null;uniqueIndex:idx_attendance_employee_date;index" json:"date"`
}

func (a *Attendance) Validate() error {
	if a.ClockOut != nil && a.ClockOut.Before(a.ClockIn) {
		return ErrClockOutBeforeClockIn
	}
	return nil
}

// BeforeSave keeps a violated record from ever reaching the table.
func (a *Attendance) BeforeSave(tx *gorm.DB) error {
	return a.Validate()
}

// TimeWorked is the clocked duration in hours rounded to two decimals, or
// nil while the day is still open.
func (a *Attendance) TimeWorked() *float64 {
	if a.ClockOut == nil {
		return nil
	}
	hours := math.Round(a.ClockOut.Sub(a.ClockIn).Hours()*100) / 100
	return &hours
}
