package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/simdok/simdok-api/internal/models"
)

func TestTrailRepositoryCreateWritesSteps(t *testing.T) {
	db, mock, cleanup := newDocumentRepoMock(t)
	defer cleanup()

	repo := NewTrailRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO trails")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM trail_steps")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO trail_steps")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO trail_steps")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	trail := &models.Trail{
		Name:      "Permit Route",
		Active:    true,
		CreatedBy: "admin-1",
		Steps: []models.TrailStep{
			{Department: "Intake"},
			{Department: "Records"},
		},
	}
	err := repo.Create(context.Background(), trail)
	require.NoError(t, err)
	require.NotEmpty(t, trail.ID)
	require.Equal(t, trail.ID, trail.Steps[0].TrailID)
	require.Equal(t, 1, trail.Steps[0].StepOrder)
	require.Equal(t, 2, trail.Steps[1].StepOrder)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTrailRepositoryGetByIDLoadsOrderedSteps(t *testing.T) {
	db, mock, cleanup := newDocumentRepoMock(t)
	defer cleanup()

	repo := NewTrailRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, description, active")).
		WithArgs("trail-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "active", "created_by", "created_at", "updated_at"}).
			AddRow("trail-1", "Permit Route", nil, true, "admin-1", time.Now(), time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, trail_id, step_order, department")).
		WithArgs("trail-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "trail_id", "step_order", "department"}).
			AddRow("step-1", "trail-1", 1, "Intake").
			AddRow("step-2", "trail-1", 2, "Records"))

	trail, err := repo.GetByID(context.Background(), "trail-1")
	require.NoError(t, err)
	require.Equal(t, "Permit Route", trail.Name)
	require.Len(t, trail.Steps, 2)
	require.Equal(t, "Intake", trail.Steps[0].Department)
	require.Equal(t, 2, trail.Steps[1].StepOrder)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTrailRepositoryDeactivateMissing(t *testing.T) {
	db, mock, cleanup := newDocumentRepoMock(t)
	defer cleanup()

	repo := NewTrailRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE trails SET active = FALSE")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Deactivate(context.Background(), "missing")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
