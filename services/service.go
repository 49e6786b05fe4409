// Package services holds the attendance, task and rating lifecycles, the
// reporting aggregator and the notification generator. Every operation
// takes the requesting principal and resolves access through authz.
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"workforce/clock"
	"workforce/database"
	"workforce/models"
)

// Store is the entity store the services run against.
type Store interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUsers(ctx context.Context, q database.UserQuery) ([]models.User, error)
	CountUsers(ctx context.Context, role models.Role) (int64, error)
	CreateUser(ctx context.Context, user *models.User) error
	SaveUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id uint) error

	FindAttendances(ctx context.Context, q database.AttendanceQuery) ([]models.Attendance, error)
	AttendanceExists(ctx context.Context, employeeID uint, date time.Time) (bool, error)
	GetOpenAttendance(ctx context.Context, employeeID uint, date time.Time) (*models.Attendance, error)
	CreateAttendance(ctx context.Context, attendance *models.Attendance) error
	SaveAttendance(ctx context.Context, attendance *models.Attendance) error

	FindTasks(ctx context.Context, q database.TaskQuery) ([]models.Task, error)
	GetTask(ctx context.Context, id uint) (*models.Task, error)
	CreateTask(ctx context.Context, task *models.Task) error
	SaveTask(ctx context.Context, task *models.Task) error
	DeleteTask(ctx context.Context, id uint) error

	FindRatings(ctx context.Context, q database.RatingQuery) ([]models.Rating, error)
	RatingExists(ctx context.Context, taskID, raterID uint) (bool, error)
	CreateRating(ctx context.Context, rating *models.Rating) error
}

type Service struct {
	store    Store
	clock    clock.Clock
	validate *validator.Validate
	logger   *slog.Logger

	bcryptCost int
}

func New(store Store, clk clock.Clock, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    store,
		clock:    clk,
		validate: newValidator(),
		logger:   logger,

		bcryptCost: bcrypt.DefaultCost,
	}
}

// SetBcryptCost overrides the password hashing cost.
func (s *Service) SetBcryptCost(cost int) {
	s.bcryptCost = cost
}

func (s *Service) now() time.Time {
	return s.clock.Now()
}

func (s *Service) today() time.Time {
	return models.DateOf(s.clock.Now())
}

// Store exposes the underlying store, used by the authentication
// middleware to resolve principals.
func (s *Service) Store() Store {
	return s.store
}

func isNotFound(err error) bool {
	return errors.Is(err, database.ErrNotFound)
}
