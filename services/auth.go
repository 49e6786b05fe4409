package services

import (
	"context"
	"crypto/subtle"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"workforce/apperror"
	"workforce/models"
)

const minPasswordLength = 8

type RegisterInput struct {
	Username  string      `json:"username" validate:"required,max=150"`
	Email     string      `json:"email" validate:"omitempty,email"`
	Password  string      `json:"password" validate:"required"`
	Password2 string      `json:"password2" validate:"required"`
	FirstName string      `json:"first_name" validate:"max=150"`
	LastName  string      `json:"last_name" validate:"max=150"`
	Role      models.Role `json:"role" validate:"required"`
}

type BootstrapInput struct {
	Username string `json:"username" validate:"required,max=150"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required"`
}

// Register creates an employee account from a public sign-up.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	if in.Role != models.RoleEmployee {
		return nil, apperror.Validation("role", "Only 'employee' role is allowed during public registration. Contact an admin for other roles.")
	}
	if err := checkPassword(in.Password); err != nil {
		return nil, err
	}
	if in.Password != in.Password2 {
		return nil, apperror.Validation("password", "Passwords don't match.")
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
		Role:         models.RoleEmployee,
	}
	if err := s.createUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Authenticate checks a username and password pair.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if isNotFound(err) {
		return nil, apperror.Unauthorized("No active account found with the given credentials")
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperror.Unauthorized("No active account found with the given credentials")
	}
	return user, nil
}

// BootstrapAdmin creates the first admin account. token must match the
// configured bootstrap token, which must be non-empty.
func (s *Service) BootstrapAdmin(ctx context.Context, expected, token string, in BootstrapInput) (*models.User, error) {
	if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(token)) != 1 {
		return nil, apperror.Forbidden("Invalid or expired bootstrap token")
	}
	admins, err := s.store.CountUsers(ctx, models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if admins > 0 {
		return nil, apperror.Validation("", "Admin already exists")
	}
	if err := s.check(in); err != nil {
		return nil, err
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	admin := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	if err := s.createUser(ctx, admin); err != nil {
		return nil, err
	}

	s.logger.Info("admin bootstrapped", "user_id", admin.ID, "username", admin.Username)
	return admin, nil
}

func checkPassword(password string) error {
	if len(password) < minPasswordLength {
		return apperror.Validation("password", "This password is too short. It must contain at least 8 characters.")
	}
	if strings.IndexFunc(password, func(r rune) bool { return !unicode.IsDigit(r) }) < 0 {
		return apperror.Validation("password", "This password is entirely numeric.")
	}
	return nil
}
