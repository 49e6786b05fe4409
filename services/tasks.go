package services

import (
	"context"
	"time"

	"workforce/apperror"
	"workforce/authz"
	"workforce/database"
	"workforce/models"
)

type TaskInput struct {
	Title       string           `json:"title" validate:"required,max=250"`
	Description string           `json:"description"`
	Deadline    *models.DateOnly `json:"deadline"`
	Priority    models.Priority  `json:"priority" validate:"omitempty,oneof=high medium low"`
	// EmployeeID is required from supervisors and admins and ignored for
	// employees, who always create for themselves.
	EmployeeID *uint `json:"employee_id"`
}

// Present records that a JSON key was sent, whatever its value.
type Present bool

func (p *Present) UnmarshalJSON([]byte) error {
	*p = true
	return nil
}

// TaskUpdate is a partial update. Nil fields are left unchanged. A
// completed_at key, even null, marks the task completed now.
type TaskUpdate struct {
	Title       *string            `json:"title" validate:"omitempty,min=1,max=250"`
	Description *string            `json:"description"`
	Deadline    *models.DateOnly   `json:"deadline"`
	Priority    *models.Priority   `json:"priority" validate:"omitempty,oneof=high medium low"`
	EmployeeID  *uint              `json:"employee_id"`
	Status      *models.TaskStatus `json:"status"`
	CompletedAt Present            `json:"completed_at"`
}

// touchesFields reports whether the update sets anything besides
// completed_at.
func (u TaskUpdate) touchesFields() bool {
	return u.Title != nil || u.Description != nil || u.Deadline != nil ||
		u.Priority != nil || u.EmployeeID != nil || u.Status != nil
}

func (s *Service) CreateTask(ctx context.Context, p authz.Principal, in TaskInput) (*models.Task, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}

	var owner *models.User
	switch p.Role {
	case models.RoleEmployee:
		owner = &models.User{ID: p.ID, SupervisorID: p.SupervisorID}
	case models.RoleSupervisor, models.RoleAdmin:
		if in.EmployeeID == nil {
			return nil, apperror.Validation("employee", "This field is required when assigning tasks.")
		}
		employee, err := s.lookupEmployee(ctx, *in.EmployeeID)
		if isNotFound(err) {
			return nil, apperror.Validation("employee", "Invalid or non-employee ID.")
		}
		if err != nil {
			return nil, err
		}
		owner = employee
	}
	if err := authz.Can(p, authz.ActionCreateTask, authz.ResourceOf(owner)); err != nil {
		return nil, err
	}

	if err := s.checkDeadline(in.Deadline); err != nil {
		return nil, err
	}

	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	task := &models.Task{
		Title:       in.Title,
		Description: in.Description,
		EmployeeID:  owner.ID,
		CreatedByID: &p.ID,
		Deadline:    deadlineOf(in.Deadline),
		Status:      models.StatusPending,
		Priority:    priority,
	}
	task.Recompute(s.today())

	if err := s.store.CreateTask(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info("task created", "task_id", task.ID, "employee_id", task.EmployeeID, "created_by", p.ID)
	return s.store.GetTask(ctx, task.ID)
}

func (s *Service) ListTasks(ctx context.Context, p authz.Principal) ([]models.Task, error) {
	return s.store.FindTasks(ctx, database.TaskQuery{Scope: authz.VisibleScope(p, authz.EntityTask)})
}

// GetTask loads a task and checks p may access it. A task outside p's
// reach is forbidden rather than hidden.
func (s *Service) GetTask(ctx context.Context, p authz.Principal, id uint) (*models.Task, error) {
	task, err := s.store.GetTask(ctx, id)
	if isNotFound(err) {
		return nil, apperror.NotFound("Task not found.")
	}
	if err != nil {
		return nil, err
	}

	if err := authz.Can(p, authz.ActionView, authz.ResourceOf(task.Employee)); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTask applies a partial update. Employees may only complete their
// own tasks; supervisors and admins may change any field. Every field is
// validated before anything is applied and the status is recomputed.
func (s *Service) UpdateTask(ctx context.Context, p authz.Principal, id uint, upd TaskUpdate) (*models.Task, error) {
	task, err := s.GetTask(ctx, p, id)
	if err != nil {
		return nil, err
	}

	action := authz.ActionUpdate
	if !upd.touchesFields() && bool(upd.CompletedAt) {
		action = authz.ActionComplete
	}
	if err := authz.Can(p, action, authz.ResourceOf(task.Employee)); err != nil {
		return nil, err
	}

	if err := s.check(upd); err != nil {
		return nil, err
	}
	if err := s.checkDeadline(upd.Deadline); err != nil {
		return nil, err
	}
	var reassignTo *models.User
	if upd.EmployeeID != nil && *upd.EmployeeID != task.EmployeeID {
		employee, err := s.lookupEmployee(ctx, *upd.EmployeeID)
		if isNotFound(err) {
			return nil, apperror.Validation("employee", "Invalid or non-employee ID.")
		}
		if err != nil {
			return nil, err
		}
		reassignTo = employee
	}

	if upd.Title != nil {
		task.Title = *upd.Title
	}
	if upd.Description != nil {
		task.Description = *upd.Description
	}
	if upd.Deadline != nil {
		task.Deadline = deadlineOf(upd.Deadline)
	}
	if upd.Priority != nil {
		task.Priority = *upd.Priority
	}
	if reassignTo != nil {
		task.EmployeeID = reassignTo.ID
		task.Employee = reassignTo
	}
	if upd.CompletedAt && task.CompletedAt == nil {
		now := s.now()
		task.CompletedAt = &now
	}
	task.Recompute(s.today())

	if err := s.store.SaveTask(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info("task updated", "task_id", task.ID, "status", task.Status, "updated_by", p.ID)
	return s.store.GetTask(ctx, task.ID)
}

// DeleteTask removes a task after the same access check as GetTask.
func (s *Service) DeleteTask(ctx context.Context, p authz.Principal, id uint) error {
	task, err := s.GetTask(ctx, p, id)
	if err != nil {
		return err
	}
	if err := authz.Can(p, authz.ActionDelete, authz.ResourceOf(task.Employee)); err != nil {
		return err
	}

	if err := s.store.DeleteTask(ctx, task.ID); err != nil {
		if isNotFound(err) {
			return apperror.NotFound("Task not found.")
		}
		return err
	}

	s.logger.Info("task deleted", "task_id", task.ID, "deleted_by", p.ID)
	return nil
}

func (s *Service) checkDeadline(deadline *models.DateOnly) error {
	if deadline == nil || deadline.IsZero() {
		return nil
	}
	if models.DateOf(deadline.Time).Before(s.today()) {
		return apperror.Validation("deadline", "Deadline cannot be in the past.")
	}
	return nil
}

// deadlineOf converts a request date to a stored deadline. An empty date
// clears it.
func deadlineOf(d *models.DateOnly) *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	deadline := models.DateOf(d.Time)
	return &deadline
}
