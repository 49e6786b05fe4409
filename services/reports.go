package services

import (
	"context"
	"math"

	"workforce/apperror"
	"workforce/authz"
	"workforce/database"
	"workforce/models"
)

// Metrics are the aggregate figures of a report. Percentages and the
// average are rounded to one decimal and are 0 when nothing is counted.
type Metrics struct {
	AttendancePercent float64 `json:"attendance_percent"`
	OnTimePercent     float64 `json:"on_time_percent"`
	AverageRating     float64 `json:"average_rating"`
	TotalTasks        int     `json:"total_tasks"`
	CompletedTasks    int     `json:"completed_tasks"`
}

type EmployeeStats struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Metrics
}

type Report struct {
	Metrics
	// Employees is only filled for team reports.
	Employees []EmployeeStats `json:"employees,omitempty"`
}

// Report aggregates the attendances, tasks and ratings p may see. With
// employeeID set, supervisors and admins get a report for that employee
// alone.
func (s *Service) Report(ctx context.Context, p authz.Principal, employeeID *uint) (*Report, error) {
	var (
		scope     authz.Scope
		employees []models.User
		team      bool
	)

	if employeeID != nil {
		if !authz.ManagesEmployees(p) {
			return nil, apperror.Forbidden("Not authorized")
		}
		target, err := s.lookupEmployee(ctx, *employeeID)
		if isNotFound(err) {
			return nil, apperror.NotFound("Employee not found")
		}
		if err != nil {
			return nil, err
		}
		if err := authz.Can(p, authz.ActionViewEmployee, authz.ResourceOf(target)); err != nil {
			return nil, err
		}
		scope = authz.Self(target.ID)
	} else {
		switch p.Role {
		case models.RoleEmployee:
			scope = authz.VisibleScope(p, authz.EntityTask)
		case models.RoleSupervisor, models.RoleAdmin:
			scope = authz.VisibleScope(p, authz.EntityTask)
			team = true
			var err error
			employees, err = s.store.FindUsers(ctx, database.UserQuery{
				Scope: authz.VisibleScope(p, authz.EntityUser),
				Role:  models.RoleEmployee,
			})
			if err != nil {
				return nil, err
			}
		default:
			return nil, apperror.Forbidden("Not authorized")
		}
	}

	attendances, err := s.store.FindAttendances(ctx, database.AttendanceQuery{Scope: scope})
	if err != nil {
		return nil, err
	}
	tasks, err := s.store.FindTasks(ctx, database.TaskQuery{Scope: scope})
	if err != nil {
		return nil, err
	}
	ratings, err := s.store.FindRatings(ctx, database.RatingQuery{Scope: scope})
	if err != nil {
		return nil, err
	}

	report := &Report{Metrics: Summarize(attendances, tasks, ratings)}
	if team {
		report.Employees = breakdown(employees, tasks, ratings)
	}
	return report, nil
}

// Summarize computes the report metrics over one set of records.
func Summarize(attendances []models.Attendance, tasks []models.Task, ratings []models.Rating) Metrics {
	present := 0
	for _, a := range attendances {
		if !a.ClockIn.IsZero() {
			present++
		}
	}

	completed, onTime := 0, 0
	for i := range tasks {
		if !tasks[i].IsCompleted() {
			continue
		}
		completed++
		if ok := tasks[i].OnTime(); ok != nil && *ok {
			onTime++
		}
	}

	return Metrics{
		AttendancePercent: percent(present, len(attendances)),
		OnTimePercent:     percent(onTime, completed),
		AverageRating:     average(ratings),
		TotalTasks:        len(tasks),
		CompletedTasks:    completed,
	}
}

// breakdown computes per-employee rows. Attendance is not broken down per
// employee and stays 0 in every row.
func breakdown(employees []models.User, tasks []models.Task, ratings []models.Rating) []EmployeeStats {
	tasksByEmployee := make(map[uint][]models.Task)
	for _, t := range tasks {
		tasksByEmployee[t.EmployeeID] = append(tasksByEmployee[t.EmployeeID], t)
	}
	ratingsByEmployee := make(map[uint][]models.Rating)
	for _, r := range ratings {
		if r.Task != nil {
			ratingsByEmployee[r.Task.EmployeeID] = append(ratingsByEmployee[r.Task.EmployeeID], r)
		}
	}

	stats := make([]EmployeeStats, 0, len(employees))
	for i := range employees {
		emp := &employees[i]
		metrics := Summarize(nil, tasksByEmployee[emp.ID], ratingsByEmployee[emp.ID])
		metrics.AttendancePercent = 0
		stats = append(stats, EmployeeStats{
			ID:       emp.ID,
			Username: emp.Username,
			FullName: emp.FullName(),
			Metrics:  metrics,
		})
	}
	return stats
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(part) / float64(total) * 100)
}

func average(ratings []models.Rating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Score
	}
	return round1(float64(sum) / float64(len(ratings)))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
