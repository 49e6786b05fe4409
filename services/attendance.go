package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"workforce/apperror"
	"workforce/authz"
	"workforce/database"
	"workforce/models"
)

// ClockIn opens today's attendance for the principal.
func (s *Service) ClockIn(ctx context.Context, p authz.Principal) (*models.Attendance, error) {
	if err := authz.Can(p, authz.ActionClock, authz.Resource{OwnerID: p.ID}); err != nil {
		return nil, err
	}

	now := s.now()
	today := models.DateOf(now)

	exists, err := s.store.AttendanceExists(ctx, p.ID, today)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Conflict("Already clocked in today.")
	}

	attendance := &models.Attendance{EmployeeID: p.ID, ClockIn: now, Date: today}
	if err := s.store.CreateAttendance(ctx, attendance); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, apperror.Conflict("Already clocked in today.")
		}
		return nil, err
	}

	s.logger.Info("clock-in recorded", "employee_id", p.ID, "attendance_id", attendance.ID)
	return s.reloadAttendance(ctx, attendance)
}

// ClockOut closes today's open attendance for the principal.
func (s *Service) ClockOut(ctx context.Context, p authz.Principal) (*models.Attendance, error) {
	if err := authz.Can(p, authz.ActionClock, authz.Resource{OwnerID: p.ID}); err != nil {
		return nil, err
	}

	now := s.now()
	attendance, err := s.store.GetOpenAttendance(ctx, p.ID, models.DateOf(now))
	if isNotFound(err) {
		return nil, apperror.NotFound("Clock-in not found.")
	}
	if err != nil {
		return nil, err
	}

	attendance.ClockOut = &now
	if err := attendance.Validate(); err != nil {
		return nil, apperror.Validation("clock_out", err.Error())
	}
	if err := s.store.SaveAttendance(ctx, attendance); err != nil {
		return nil, err
	}

	s.logger.Info("clock-out recorded", "employee_id", p.ID, "attendance_id", attendance.ID)
	return attendance, nil
}

// ListAttendance returns the attendances p may see, or only those of
// employeeID when given.
func (s *Service) ListAttendance(ctx context.Context, p authz.Principal, employeeID *uint) ([]models.Attendance, error) {
	scope := authz.VisibleScope(p, authz.EntityAttendance)

	if employeeID != nil {
		if !authz.ManagesEmployees(p) {
			return nil, apperror.Forbidden("You do not have permission to perform this action.")
		}
		target, err := s.lookupEmployee(ctx, *employeeID)
		if isNotFound(err) {
			return nil, apperror.Validation("employee", "Employee not found")
		}
		if err != nil {
			return nil, err
		}
		if err := authz.Can(p, authz.ActionViewEmployee, authz.ResourceOf(target)); err != nil {
			return nil, err
		}
		scope = authz.Self(target.ID)
	}

	return s.store.FindAttendances(ctx, database.AttendanceQuery{Scope: scope})
}

// ExportAttendance returns the visible attendances for one month, for
// supervisors and admins.
func (s *Service) ExportAttendance(ctx context.Context, p authz.Principal, month, year int) ([]models.Attendance, error) {
	if !authz.ManagesEmployees(p) {
		return nil, apperror.Forbidden("You do not have permission to perform this action.")
	}
	if month < 1 || month > 12 {
		return nil, apperror.Validation("month", "Invalid month")
	}
	if year < 2000 || year > 2100 {
		return nil, apperror.Validation("year", "Invalid year")
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return s.store.FindAttendances(ctx, database.AttendanceQuery{
		Scope: authz.VisibleScope(p, authz.EntityAttendance),
		From:  from,
		To:    from.AddDate(0, 1, 0),
	})
}

func (s *Service) reloadAttendance(ctx context.Context, attendance *models.Attendance) (*models.Attendance, error) {
	employee, err := s.store.GetUser(ctx, attendance.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("load employee %d: %w", attendance.EmployeeID, err)
	}
	attendance.Employee = employee
	return attendance, nil
}

// lookupEmployee loads a user that must have the employee role.
func (s *Service) lookupEmployee(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsEmployee() {
		return nil, database.ErrNotFound
	}
	return user, nil
}
