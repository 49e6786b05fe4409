package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workforce/apperror"
)

func TestClockInAndOut(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	attendance, err := f.svc.ClockIn(ctx, as(f.alice))
	require.NoError(t, err)
	assert.Equal(t, startTime, attendance.ClockIn)
	assert.Nil(t, attendance.TimeWorked())
	require.NotNil(t, attendance.Employee)
	assert.Equal(t, "alice", attendance.Employee.Username)

	_, err = f.svc.ClockIn(ctx, as(f.alice))
	assertDetail(t, err, apperror.KindConflict, "Already clocked in today.")

	f.clock.Advance(8*time.Hour + 30*time.Minute)
	closed, err := f.svc.ClockOut(ctx, as(f.alice))
	require.NoError(t, err)
	require.NotNil(t, closed.TimeWorked())
	assert.Equal(t, 8.5, *closed.TimeWorked())

	_, err = f.svc.ClockOut(ctx, as(f.alice))
	assertDetail(t, err, apperror.KindNotFound, "Clock-in not found.")

	_, err = f.svc.ClockIn(ctx, as(f.alice))
	assertKind(t, err, apperror.KindConflict)

	f.clock.Advance(24 * time.Hour)
	_, err = f.svc.ClockIn(ctx, as(f.alice))
	assert.NoError(t, err)
}

func TestClockOutWithoutClockIn(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ClockOut(context.Background(), as(f.alice))
	assertKind(t, err, apperror.KindNotFound)
}

func TestClockRequiresEmployee(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.ClockIn(ctx, as(f.sup))
	assertDetail(t, err, apperror.KindForbidden, "Only employees can clock in or out.")
	_, err = f.svc.ClockOut(ctx, as(f.admin))
	assertKind(t, err, apperror.KindForbidden)
}

func TestListAttendance(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.ClockIn(ctx, as(f.alice))
	require.NoError(t, err)
	_, err = f.svc.ClockIn(ctx, as(f.bob))
	require.NoError(t, err)

	own, err := f.svc.ListAttendance(ctx, as(f.alice), nil)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, f.alice.ID, own[0].EmployeeID)

	team, err := f.svc.ListAttendance(ctx, as(f.sup), nil)
	require.NoError(t, err)
	require.Len(t, team, 1)
	assert.Equal(t, f.alice.ID, team[0].EmployeeID)

	all, err := f.svc.ListAttendance(ctx, as(f.admin), nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := f.svc.ListAttendance(ctx, as(f.admin), &f.bob.ID)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, f.bob.ID, filtered[0].EmployeeID)

	_, err = f.svc.ListAttendance(ctx, as(f.sup), &f.bob.ID)
	assertDetail(t, err, apperror.KindForbidden, "Not authorized to view this employee.")

	_, err = f.svc.ListAttendance(ctx, as(f.alice), &f.alice.ID)
	assertKind(t, err, apperror.KindForbidden)

	_, err = f.svc.ListAttendance(ctx, as(f.admin), &f.sup.ID)
	assertDetail(t, err, apperror.KindValidation, "Employee not found")

	_, err = f.svc.ListAttendance(ctx, as(f.admin), uintPtr(999))
	assertKind(t, err, apperror.KindValidation)
}

func TestExportAttendance(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.ClockIn(ctx, as(f.alice))
	require.NoError(t, err)
	_, err = f.svc.ClockIn(ctx, as(f.bob))
	require.NoError(t, err)

	rows, err := f.svc.ExportAttendance(ctx, as(f.sup), 3, 2026)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, f.alice.ID, rows[0].EmployeeID)

	rows, err = f.svc.ExportAttendance(ctx, as(f.admin), 3, 2026)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = f.svc.ExportAttendance(ctx, as(f.admin), 4, 2026)
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = f.svc.ExportAttendance(ctx, as(f.admin), 13, 2026)
	assertKind(t, err, apperror.KindValidation)
	_, err = f.svc.ExportAttendance(ctx, as(f.admin), 1, 1999)
	assertKind(t, err, apperror.KindValidation)
	_, err = f.svc.ExportAttendance(ctx, as(f.alice), 3, 2026)
	assertKind(t, err, apperror.KindForbidden)
}
