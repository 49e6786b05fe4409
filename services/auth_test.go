package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workforce/apperror"
	"workforce/clock"
	"workforce/database"
	"workforce/models"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	valid := RegisterInput{Username: "dave", Email: "dave@example.com", Password: "correct-horse", Password2: "correct-horse", Role: models.RoleEmployee}

	tests := []struct {
		name    string
		mutate  func(in *RegisterInput)
		message string
	}{
		{"supervisor role", func(in *RegisterInput) { in.Role = models.RoleSupervisor },
			"Only 'employee' role is allowed during public registration. Contact an admin for other roles."},
		{"mismatched passwords", func(in *RegisterInput) { in.Password2 = "something-else" }, "Passwords don't match."},
		{"short password", func(in *RegisterInput) { in.Password, in.Password2 = "abc", "abc" },
			"This password is too short. It must contain at least 8 characters."},
		{"numeric password", func(in *RegisterInput) { in.Password, in.Password2 = "12345678", "12345678" },
			"This password is entirely numeric."},
		{"taken username", func(in *RegisterInput) { in.Username = "alice" }, "A user with that username already exists."},
		{"bad email", func(in *RegisterInput) { in.Email = "nope" }, "Field 'email' must be a valid email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := f.svc.Register(ctx, in)
			assertDetail(t, err, apperror.KindValidation, tt.message)
		})
	}

	user, err := f.svc.Register(ctx, valid)
	require.NoError(t, err)
	assert.Equal(t, models.RoleEmployee, user.Role)
	assert.Nil(t, user.SupervisorID)

	authed, err := f.svc.Authenticate(ctx, "dave", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)

	_, err = f.svc.Authenticate(ctx, "dave", "wrong")
	assertDetail(t, err, apperror.KindUnauthorized, "No active account found with the given credentials")
	_, err = f.svc.Authenticate(ctx, "nobody", "correct-horse")
	assertKind(t, err, apperror.KindUnauthorized)
}

func TestBootstrapAdmin(t *testing.T) {
	ctx := context.Background()

	db, err := database.Open("sqlite", ":memory:", "silent")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	svc := New(database.NewStore(db), clock.Fake(startTime), nil)

	in := BootstrapInput{Username: "root", Email: "root@example.com", Password: "bootstrap-pass"}

	_, err = svc.BootstrapAdmin(ctx, "secret", "guess", in)
	assertDetail(t, err, apperror.KindForbidden, "Invalid or expired bootstrap token")
	_, err = svc.BootstrapAdmin(ctx, "", "", in)
	assertKind(t, err, apperror.KindForbidden)

	admin, err := svc.BootstrapAdmin(ctx, "secret", "secret", in)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	_, err = svc.Authenticate(ctx, "root", "bootstrap-pass")
	assert.NoError(t, err)

	_, err = svc.BootstrapAdmin(ctx, "secret", "secret", BootstrapInput{Username: "root2", Password: "another-pass"})
	assertDetail(t, err, apperror.KindValidation, "Admin already exists")
}
