package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"workforce/apperror"
	"workforce/authz"
	"workforce/database"
	"workforce/models"
)

// unusablePassword is stored for accounts created without a password.
// No bcrypt hash ever equals it, so password login is impossible.
const unusablePassword = "!"

// OptionalID is a nullable id in a partial update. Set distinguishes an
// explicit null from an absent field.
type OptionalID struct {
	Set   bool
	Value *uint
}

func (o *OptionalID) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var id uint
	if err := json.Unmarshal(b, &id); err != nil {
		return fmt.Errorf("invalid id: %w", err)
	}
	o.Value = &id
	return nil
}

type UserInput struct {
	Username     string      `json:"username" validate:"required,max=150"`
	Email        string      `json:"email" validate:"omitempty,email"`
	FirstName    string      `json:"first_name" validate:"max=150"`
	LastName     string      `json:"last_name" validate:"max=150"`
	Password     string      `json:"password"`
	Role         models.Role `json:"role" validate:"required,role"`
	SupervisorID *uint       `json:"supervisor"`
}

// UserUpdate is a partial update. Nil fields are left unchanged; a null
// supervisor clears the link.
type UserUpdate struct {
	Username   *string      `json:"username" validate:"omitempty,min=1,max=150"`
	Email      *string      `json:"email" validate:"omitempty,email"`
	FirstName  *string      `json:"first_name" validate:"omitempty,max=150"`
	LastName   *string      `json:"last_name" validate:"omitempty,max=150"`
	Password   *string      `json:"password"`
	Role       *models.Role `json:"role" validate:"omitempty,role"`
	Supervisor OptionalID   `json:"supervisor"`
}

// Me returns the principal's own account.
func (s *Service) Me(ctx context.Context, p authz.Principal) (*models.User, error) {
	user, err := s.store.GetUser(ctx, p.ID)
	if isNotFound(err) {
		return nil, apperror.Unauthorized("User not found")
	}
	return user, err
}

// ListUsers returns every user to admins, a supervisor's own employees to
// that supervisor, and the principal alone to everyone else.
func (s *Service) ListUsers(ctx context.Context, p authz.Principal) ([]models.User, error) {
	q := database.UserQuery{Scope: authz.VisibleScope(p, authz.EntityUser)}
	if p.Role == models.RoleSupervisor {
		q.Role = models.RoleEmployee
	}
	return s.store.FindUsers(ctx, q)
}

func (s *Service) GetUser(ctx context.Context, p authz.Principal, id uint) (*models.User, error) {
	if err := authz.Can(p, authz.ActionManageUsers, authz.Resource{OwnerID: id}); err != nil {
		return nil, err
	}
	user, err := s.store.GetUser(ctx, id)
	if isNotFound(err) {
		return nil, apperror.NotFound("User not found.")
	}
	return user, err
}

func (s *Service) CreateUser(ctx context.Context, p authz.Principal, in UserInput) (*models.User, error) {
	if err := authz.Can(p, authz.ActionManageUsers, authz.Resource{}); err != nil {
		return nil, err
	}
	if err := s.check(in); err != nil {
		return nil, err
	}
	if err := s.checkSupervisor(ctx, 0, in.SupervisorID); err != nil {
		return nil, err
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: hash,
		Role:         in.Role,
		SupervisorID: in.SupervisorID,
	}
	if err := s.createUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created", "user_id", user.ID, "role", user.Role, "created_by", p.ID)
	return user, nil
}

func (s *Service) UpdateUser(ctx context.Context, p authz.Principal, id uint, upd UserUpdate) (*models.User, error) {
	user, err := s.GetUser(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if err := s.check(upd); err != nil {
		return nil, err
	}
	if upd.Supervisor.Set {
		if err := s.checkSupervisor(ctx, user.ID, upd.Supervisor.Value); err != nil {
			return nil, err
		}
	}
	if upd.Role != nil && user.IsSupervisor() && *upd.Role != models.RoleSupervisor {
		team, err := s.store.FindUsers(ctx, database.UserQuery{Scope: authz.Team(user.ID)})
		if err != nil {
			return nil, err
		}
		if len(team) > 0 {
			return nil, apperror.Validation("role", "This supervisor still has assigned employees. Reassign them first.")
		}
	}
	var hash string
	if upd.Password != nil {
		if hash, err = s.hashPassword(*upd.Password); err != nil {
			return nil, err
		}
	}

	if upd.Username != nil {
		user.Username = *upd.Username
	}
	if upd.Email != nil {
		user.Email = *upd.Email
	}
	if upd.FirstName != nil {
		user.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		user.LastName = *upd.LastName
	}
	if upd.Role != nil {
		user.Role = *upd.Role
	}
	if upd.Supervisor.Set {
		user.SupervisorID = upd.Supervisor.Value
	}
	if upd.Password != nil {
		user.PasswordHash = hash
	}

	if err := s.store.SaveUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, apperror.Validation("username", "A user with that username already exists.")
		}
		return nil, err
	}

	s.logger.Info("user updated", "user_id", user.ID, "updated_by", p.ID)
	return user, nil
}

func (s *Service) DeleteUser(ctx context.Context, p authz.Principal, id uint) error {
	if err := authz.Can(p, authz.ActionManageUsers, authz.Resource{OwnerID: id}); err != nil {
		return err
	}
	if err := s.store.DeleteUser(ctx, id); err != nil {
		if isNotFound(err) {
			return apperror.NotFound("User not found.")
		}
		return err
	}

	s.logger.Info("user deleted", "user_id", id, "deleted_by", p.ID)
	return nil
}

// checkSupervisor validates a supervisor link for user id. A user cannot
// supervise itself and the target must hold the supervisor role.
func (s *Service) checkSupervisor(ctx context.Context, id uint, supervisorID *uint) error {
	if supervisorID == nil {
		return nil
	}
	if id != 0 && *supervisorID == id {
		return apperror.Validation("supervisor", "A user cannot supervise themselves.")
	}
	supervisor, err := s.store.GetUser(ctx, *supervisorID)
	if isNotFound(err) {
		return apperror.Validation("supervisor", "Supervisor not found.")
	}
	if err != nil {
		return err
	}
	if !supervisor.IsSupervisor() {
		return apperror.Validation("supervisor", "Selected user is not a supervisor.")
	}
	return nil
}

// createUser inserts user, reporting a taken username as a validation
// failure.
func (s *Service) createUser(ctx context.Context, user *models.User) error {
	if _, err := s.store.GetUserByUsername(ctx, user.Username); err == nil {
		return apperror.Validation("username", "A user with that username already exists.")
	} else if !isNotFound(err) {
		return err
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return apperror.Validation("username", "A user with that username already exists.")
		}
		return err
	}
	return nil
}

func (s *Service) hashPassword(password string) (string, error) {
	if password == "" {
		return unusablePassword, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
