package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"workforce/apperror"
	"workforce/authz"
	"workforce/clock"
	"workforce/database"
	"workforce/models"
)

var startTime = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

// fixture is a service over an in-memory database holding one admin and
// two supervisors. alice reports to sup, bob to otherSup.
type fixture struct {
	svc   *Service
	store *database.Store
	clock *clock.FakeClock

	admin    *models.User
	sup      *models.User
	otherSup *models.User
	alice    *models.User
	bob      *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Open("sqlite", ":memory:", "silent")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	f := &fixture{
		store: database.NewStore(db),
		clock: clock.Fake(startTime),
	}
	f.svc = New(f.store, f.clock, nil)
	f.svc.SetBcryptCost(bcrypt.MinCost)

	f.admin = f.user(t, "admin", models.RoleAdmin, nil)
	f.sup = f.user(t, "sup", models.RoleSupervisor, nil)
	f.otherSup = f.user(t, "othersup", models.RoleSupervisor, nil)
	f.alice = f.user(t, "alice", models.RoleEmployee, f.sup)
	f.bob = f.user(t, "bob", models.RoleEmployee, f.otherSup)
	return f
}

func (f *fixture) user(t *testing.T, username string, role models.Role, supervisor *models.User) *models.User {
	t.Helper()
	user := &models.User{Username: username, PasswordHash: "x", Role: role}
	if supervisor != nil {
		user.SupervisorID = &supervisor.ID
	}
	require.NoError(t, f.store.CreateUser(context.Background(), user))
	return user
}

// task inserts a task directly, bypassing the lifecycle rules.
func (f *fixture) task(t *testing.T, owner *models.User, title string, status models.TaskStatus, completedAt, deadline *time.Time) *models.Task {
	t.Helper()
	task := &models.Task{
		Title:       title,
		EmployeeID:  owner.ID,
		Status:      status,
		Priority:    models.PriorityMedium,
		CompletedAt: completedAt,
		Deadline:    deadline,
	}
	require.NoError(t, f.store.CreateTask(context.Background(), task))
	return task
}

func as(u *models.User) authz.Principal {
	return authz.PrincipalOf(u)
}

func day(offset int) *time.Time {
	d := models.DateOf(startTime).AddDate(0, 0, offset)
	return &d
}

func uintPtr(v uint) *uint {
	return &v
}

func assertKind(t *testing.T, err error, kind apperror.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, apperror.KindOf(err), "unexpected error: %v", err)
}

func assertDetail(t *testing.T, err error, kind apperror.Kind, message string) {
	t.Helper()
	assertKind(t, err, kind)
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, message, appErr.Message)
}

func authzUnknown(f *fixture) authz.Principal {
	return authz.Principal{ID: f.alice.ID, Role: models.Role("contractor")}
}
