package database

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"workforce/authz"
	"workforce/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type UserQuery struct {
	Scope authz.Scope
	// Role, when set, keeps only users with that role.
	Role models.Role
}

type AttendanceQuery struct {
	Scope authz.Scope
	// From and To bound the attendance date as [From, To). Zero values
	// leave that side open.
	From time.Time
	To   time.Time
}

type TaskQuery struct {
	Scope    authz.Scope
	Statuses []models.TaskStatus
}

type RatingQuery struct {
	Scope     authz.Scope
	RatedByID *uint
}

// Store is the GORM backed entity store. Uniqueness of (employee, date)
// attendances and (task, rater) ratings is enforced by unique indexes and
// reported as ErrDuplicate.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

// ownerScope narrows a table by the employee owning each row.
func ownerScope(column string, s authz.Scope) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch s.Kind {
		case authz.ScopeAll:
			return db
		case authz.ScopeSelf:
			return db.Where(column+" = ?", s.UserID)
		case authz.ScopeTeam:
			return db.Where(column+" IN (?)", db.Session(&gorm.Session{NewDB: true}).
				Model(&models.User{}).Select("id").Where("supervisor_id = ?", s.UserID))
		}
		return db.Where("1 = 0")
	}
}

func (s *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Store) FindUsers(ctx context.Context, q UserQuery) ([]models.User, error) {
	query := s.db.WithContext(ctx).Model(&models.User{})
	switch q.Scope.Kind {
	case authz.ScopeAll:
	case authz.ScopeSelf:
		query = query.Where("id = ?", q.Scope.UserID)
	case authz.ScopeTeam:
		query = query.Where("supervisor_id = ?", q.Scope.UserID)
	default:
		query = query.Where("1 = 0")
	}
	if q.Role != "" {
		query = query.Where("role = ?", q.Role)
	}

	var users []models.User
	if err := query.Order("id asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) CountUsers(ctx context.Context, role models.Role) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error)
}

func (s *Store) SaveUser(ctx context.Context, user *models.User) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error)
}

// DeleteUser removes the user. Attendances and assigned tasks cascade;
// created_by, rated_by and supervisor links are set to null.
func (s *Store) DeleteUser(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.User{}, id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) FindAttendances(ctx context.Context, q AttendanceQuery) ([]models.Attendance, error) {
	query := s.db.WithContext(ctx).Preload("Employee").
		Scopes(ownerScope("attendances.employee_id", q.Scope))
	if !q.From.IsZero() {
		query = query.Where("attendances.date >= ?", q.From)
	}
	if !q.To.IsZero() {
		query = query.Where("attendances.date < ?", q.To)
	}

	var attendances []models.Attendance
	if err := query.Order("attendances.date desc, attendances.clock_in desc").Find(&attendances).Error; err != nil {
		return nil, err
	}
	return attendances, nil
}

func (s *Store) AttendanceExists(ctx context.Context, employeeID uint, date time.Time) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Attendance{}).
		Where("employee_id = ? AND date = ?", employeeID, date).
		Count(&count).Error
	return count > 0, err
}

// GetOpenAttendance returns the employee's record for date that has not
// been clocked out yet.
func (s *Store) GetOpenAttendance(ctx context.Context, employeeID uint, date time.Time) (*models.Attendance, error) {
	var attendance models.Attendance
	err := s.db.WithContext(ctx).Preload("Employee").
		Where("employee_id = ? AND date = ? AND clock_out IS NULL", employeeID, date).
		First(&attendance).Error
	if err != nil {
		return nil, translate(err)
	}
	return &attendance, nil
}

func (s *Store) CreateAttendance(ctx context.Context, attendance *models.Attendance) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(attendance).Error)
}

func (s *Store) SaveAttendance(ctx context.Context, attendance *models.Attendance) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Save(attendance).Error)
}

func (s *Store) FindTasks(ctx context.Context, q TaskQuery) ([]models.Task, error) {
	query := s.db.WithContext(ctx).Preload("Employee").Preload("CreatedBy").
		Scopes(ownerScope("tasks.employee_id", q.Scope))
	if len(q.Statuses) > 0 {
		query = query.Where("tasks.status IN ?", q.Statuses)
	}

	var tasks []models.Task
	if err := query.Order("tasks.created_at desc, tasks.id desc").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Store) GetTask(ctx context.Context, id uint) (*models.Task, error) {
	var task models.Task
	if err := s.db.WithContext(ctx).Preload("Employee").Preload("CreatedBy").First(&task, id).Error; err != nil {
		return nil, translate(err)
	}
	return &task, nil
}

func (s *Store) CreateTask(ctx context.Context, task *models.Task) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error)
}

func (s *Store) SaveTask(ctx context.Context, task *models.Task) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Save(task).Error)
}

func (s *Store) DeleteTask(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Task{}, id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) FindRatings(ctx context.Context, q RatingQuery) ([]models.Rating, error) {
	tasks := ownerScope("employee_id", q.Scope)(
		s.db.Session(&gorm.Session{NewDB: true}).Model(&models.Task{}).Select("id"))
	query := s.db.WithContext(ctx).Preload("Task").Preload("Task.Employee").Preload("RatedBy").
		Where("ratings.task_id IN (?)", tasks)
	if q.RatedByID != nil {
		query = query.Where("ratings.rated_by_id = ?", *q.RatedByID)
	}

	var ratings []models.Rating
	if err := query.Order("ratings.created_at desc, ratings.id desc").Find(&ratings).Error; err != nil {
		return nil, err
	}
	return ratings, nil
}

func (s *Store) RatingExists(ctx context.Context, taskID, raterID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Rating{}).
		Where("task_id = ? AND rated_by_id = ?", taskID, raterID).
		Count(&count).Error
	return count > 0, err
}

func (s *Store) CreateRating(ctx context.Context, rating *models.Rating) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(rating).Error)
}
