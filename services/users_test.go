package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workforce/apperror"
	"workforce/models"
)

func TestListUsers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tests := []struct {
		name      string
		actor     *models.User
		usernames []string
	}{
		{"admin sees everyone", f.admin, []string{"admin", "sup", "othersup", "alice", "bob"}},
		{"supervisor sees own employees", f.sup, []string{"alice"}},
		{"employee sees self", f.bob, []string{"bob"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, err := f.svc.ListUsers(ctx, as(tt.actor))
			require.NoError(t, err)
			names := make([]string, 0, len(users))
			for _, u := range users {
				names = append(names, u.Username)
			}
			assert.Equal(t, tt.usernames, names)
		})
	}

	users, err := f.svc.ListUsers(ctx, authzUnknown(f))
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.CreateUser(ctx, as(f.sup), UserInput{Username: "dave", Role: models.RoleEmployee})
	assertDetail(t, err, apperror.KindForbidden, "Only admins can manage users.")

	_, err = f.svc.CreateUser(ctx, as(f.admin), UserInput{Username: "dave", Role: models.RoleEmployee, SupervisorID: &f.alice.ID})
	assertDetail(t, err, apperror.KindValidation, "Selected user is not a supervisor.")

	_, err = f.svc.CreateUser(ctx, as(f.admin), UserInput{Username: "dave", Role: "owner"})
	assertKind(t, err, apperror.KindValidation)

	_, err = f.svc.CreateUser(ctx, as(f.admin), UserInput{Username: "alice", Role: models.RoleEmployee})
	assertDetail(t, err, apperror.KindValidation, "A user with that username already exists.")

	dave, err := f.svc.CreateUser(ctx, as(f.admin), UserInput{
		Username:     "dave",
		Password:     "s3cret-pass",
		Role:         models.RoleEmployee,
		SupervisorID: &f.sup.ID,
	})
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", dave.PasswordHash)

	_, err = f.svc.Authenticate(ctx, "dave", "s3cret-pass")
	assert.NoError(t, err)

	team, err := f.svc.ListUsers(ctx, as(f.sup))
	require.NoError(t, err)
	assert.Len(t, team, 2)

	nopass, err := f.svc.CreateUser(ctx, as(f.admin), UserInput{Username: "erin", Role: models.RoleSupervisor})
	require.NoError(t, err)
	assert.Equal(t, unusablePassword, nopass.PasswordHash)
	_, err = f.svc.Authenticate(ctx, "erin", "")
	assertKind(t, err, apperror.KindUnauthorized)
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	var upd UserUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"supervisor": null, "first_name": "Alice"}`), &upd))
	require.True(t, upd.Supervisor.Set)

	updated, err := f.svc.UpdateUser(ctx, as(f.admin), f.alice.ID, upd)
	require.NoError(t, err)
	assert.Nil(t, updated.SupervisorID)
	assert.Equal(t, "Alice", updated.FullName())

	var move UserUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"supervisor": `+jsonID(f.otherSup.ID)+`}`), &move))
	moved, err := f.svc.UpdateUser(ctx, as(f.admin), f.alice.ID, move)
	require.NoError(t, err)
	require.NotNil(t, moved.SupervisorID)
	assert.Equal(t, f.otherSup.ID, *moved.SupervisorID)

	var untouched UserUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"last_name": "Smith"}`), &untouched))
	kept, err := f.svc.UpdateUser(ctx, as(f.admin), f.alice.ID, untouched)
	require.NoError(t, err)
	require.NotNil(t, kept.SupervisorID)

	self := UserUpdate{Supervisor: OptionalID{Set: true, Value: &f.sup.ID}}
	_, err = f.svc.UpdateUser(ctx, as(f.admin), f.sup.ID, self)
	assertDetail(t, err, apperror.KindValidation, "A user cannot supervise themselves.")

	_, err = f.svc.UpdateUser(ctx, as(f.admin), f.bob.ID, UserUpdate{Username: strPtr("alice")})
	assertKind(t, err, apperror.KindValidation)

	_, err = f.svc.UpdateUser(ctx, as(f.sup), f.alice.ID, UserUpdate{FirstName: strPtr("x")})
	assertKind(t, err, apperror.KindForbidden)

	_, err = f.svc.UpdateUser(ctx, as(f.admin), 999, UserUpdate{})
	assertKind(t, err, apperror.KindNotFound)
}

func TestDeleteUserAndMe(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	me, err := f.svc.Me(ctx, as(f.bob))
	require.NoError(t, err)
	assert.Equal(t, "bob", me.Username)

	assertKind(t, f.svc.DeleteUser(ctx, as(f.sup), f.bob.ID), apperror.KindForbidden)
	require.NoError(t, f.svc.DeleteUser(ctx, as(f.admin), f.bob.ID))
	assertKind(t, f.svc.DeleteUser(ctx, as(f.admin), f.bob.ID), apperror.KindNotFound)

	_, err = f.svc.Me(ctx, as(f.bob))
	assertKind(t, err, apperror.KindUnauthorized)
}

func jsonID(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func TestSupervisorRoleChangeKeepsLinksValid(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	employee := models.RoleEmployee

	_, err := f.svc.UpdateUser(ctx, as(f.admin), f.sup.ID, UserUpdate{Role: &employee})
	assertDetail(t, err, apperror.KindValidation, "This supervisor still has assigned employees. Reassign them first.")

	sup, err := f.store.GetUser(ctx, f.sup.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleSupervisor, sup.Role)

	_, err = f.svc.UpdateUser(ctx, as(f.admin), f.alice.ID, UserUpdate{Supervisor: OptionalID{Set: true, Value: &f.otherSup.ID}})
	require.NoError(t, err)

	demoted, err := f.svc.UpdateUser(ctx, as(f.admin), f.sup.ID, UserUpdate{Role: &employee})
	require.NoError(t, err)
	assert.Equal(t, models.RoleEmployee, demoted.Role)
}

func TestUserRoleMustBeKnown(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.CreateUser(ctx, as(f.admin), UserInput{Username: "dave", Role: "owner"})
	assertDetail(t, err, apperror.KindValidation, "Field 'role' must be one of: admin supervisor employee")

	owner := models.Role("owner")
	_, err = f.svc.UpdateUser(ctx, as(f.admin), f.bob.ID, UserUpdate{Role: &owner})
	assertKind(t, err, apperror.KindValidation)
}
