package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workforce/apperror"
	"workforce/models"
)

func TestTeamReport(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	carol := f.user(t, "carol", models.RoleEmployee, f.sup)

	onTime := f.task(t, f.alice, "early", models.StatusCompleted, day(0), day(2))
	f.task(t, f.alice, "just in time", models.StatusCompleted, day(1), day(1))
	f.task(t, f.alice, "late", models.StatusCompleted, day(3), day(1))
	f.task(t, f.bob, "other team", models.StatusCompleted, day(0), day(0))

	_, err := f.svc.RateTask(ctx, as(f.sup), RatingInput{TaskID: onTime.ID, Score: 4})
	require.NoError(t, err)
	_, err = f.svc.ClockIn(ctx, as(f.alice))
	require.NoError(t, err)

	report, err := f.svc.Report(ctx, as(f.sup), nil)
	require.NoError(t, err)

	assert.Equal(t, 100.0, report.AttendancePercent)
	assert.Equal(t, 66.7, report.OnTimePercent)
	assert.Equal(t, 4.0, report.AverageRating)
	assert.Equal(t, 3, report.TotalTasks)
	assert.Equal(t, 3, report.CompletedTasks)

	require.Len(t, report.Employees, 2)
	aliceRow, carolRow := report.Employees[0], report.Employees[1]

	assert.Equal(t, f.alice.ID, aliceRow.ID)
	assert.Equal(t, "alice", aliceRow.FullName)
	assert.Equal(t, 66.7, aliceRow.OnTimePercent)
	assert.Equal(t, 4.0, aliceRow.AverageRating)
	assert.Equal(t, 3, aliceRow.TotalTasks)
	assert.Equal(t, 0.0, aliceRow.AttendancePercent)

	assert.Equal(t, carol.ID, carolRow.ID)
	assert.Equal(t, Metrics{}, carolRow.Metrics)
}

func TestEmployeeReport(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.task(t, f.alice, "open", models.StatusInProgress, nil, nil)
	f.task(t, f.alice, "done", models.StatusCompleted, day(0), nil)

	own, err := f.svc.Report(ctx, as(f.alice), nil)
	require.NoError(t, err)
	assert.Nil(t, own.Employees)
	assert.Equal(t, 2, own.TotalTasks)
	assert.Equal(t, 1, own.CompletedTasks)
	assert.Equal(t, 0.0, own.OnTimePercent)
	assert.Equal(t, 0.0, own.AttendancePercent)

	single, err := f.svc.Report(ctx, as(f.admin), &f.alice.ID)
	require.NoError(t, err)
	assert.Nil(t, single.Employees)
	assert.Equal(t, own.Metrics, single.Metrics)

	empty, err := f.svc.Report(ctx, as(f.otherSup), &f.bob.ID)
	require.NoError(t, err)
	assert.Equal(t, Metrics{}, empty.Metrics)
}

func TestReportAccess(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Report(ctx, as(f.alice), &f.alice.ID)
	assertDetail(t, err, apperror.KindForbidden, "Not authorized")

	_, err = f.svc.Report(ctx, as(f.sup), &f.bob.ID)
	assertKind(t, err, apperror.KindForbidden)

	_, err = f.svc.Report(ctx, as(f.admin), uintPtr(999))
	assertDetail(t, err, apperror.KindNotFound, "Employee not found")

	_, err = f.svc.Report(ctx, authzUnknown(f), nil)
	assertKind(t, err, apperror.KindForbidden)
}

func TestSummarizeZeroDenominators(t *testing.T) {
	assert.Equal(t, Metrics{}, Summarize(nil, nil, nil))

	tasks := []models.Task{{Status: models.StatusCompleted}, {Status: models.StatusPending}}
	metrics := Summarize([]models.Attendance{{}}, tasks, []models.Rating{{Score: 3}, {Score: 4}})
	assert.Equal(t, 0.0, metrics.AttendancePercent)
	assert.Equal(t, 0.0, metrics.OnTimePercent)
	assert.Equal(t, 3.5, metrics.AverageRating)
	assert.Equal(t, 2, metrics.TotalTasks)
	assert.Equal(t, 1, metrics.CompletedTasks)
}
