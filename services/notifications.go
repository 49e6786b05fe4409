package services

import (
	"context"
	"fmt"

	"workforce/authz"
	"workforce/database"
	"workforce/models"
)

// deadlineWindowDays is how many days ahead a deadline raises an alert.
const deadlineWindowDays = 3

// Alert is a computed notification. Alerts are not stored, so Read is
// always false.
type Alert struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	TaskID   uint   `json:"task_id"`
	DaysLeft *int   `json:"days_left,omitempty"`
	Read     bool   `json:"read"`
}

// Notifications derives p's alerts from current state. Employees are
// reminded of open tasks due within three days; supervisors of completed
// team tasks they have not rated. Admins get none.
func (s *Service) Notifications(ctx context.Context, p authz.Principal) ([]Alert, error) {
	alerts := []Alert{}

	switch p.Role {
	case models.RoleEmployee:
		tasks, err := s.store.FindTasks(ctx, database.TaskQuery{
			Scope:    authz.VisibleScope(p, authz.EntityTask),
			Statuses: []models.TaskStatus{models.StatusPending, models.StatusInProgress},
		})
		if err != nil {
			return nil, err
		}
		today := s.today()
		for _, task := range tasks {
			if task.Deadline == nil {
				continue
			}
			daysLeft := models.DaysBetween(today, *task.Deadline)
			if daysLeft < 0 || daysLeft > deadlineWindowDays {
				continue
			}
			alerts = append(alerts, Alert{
				Title:    "Task Deadline Approaching",
				Message:  fmt.Sprintf("Task '%s' is due in %d %s!", task.Title, daysLeft, plural(daysLeft, "day", "days")),
				TaskID:   task.ID,
				DaysLeft: &daysLeft,
			})
		}

	case models.RoleSupervisor:
		scope := authz.VisibleScope(p, authz.EntityTask)
		tasks, err := s.store.FindTasks(ctx, database.TaskQuery{
			Scope:    scope,
			Statuses: []models.TaskStatus{models.StatusCompleted},
		})
		if err != nil {
			return nil, err
		}
		given, err := s.store.FindRatings(ctx, database.RatingQuery{Scope: scope, RatedByID: &p.ID})
		if err != nil {
			return nil, err
		}
		rated := make(map[uint]bool, len(given))
		for _, r := range given {
			rated[r.TaskID] = true
		}
		for _, task := range tasks {
			if rated[task.ID] {
				continue
			}
			employee := ""
			if task.Employee != nil {
				employee = task.Employee.Username
			}
			alerts = append(alerts, Alert{
				Title:   "Pending Task Rating",
				Message: fmt.Sprintf("Rate task '%s' for %s", task.Title, employee),
				TaskID:  task.ID,
			})
		}
	}

	return alerts, nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
