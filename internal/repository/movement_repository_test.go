package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/simdok/simdok-api/internal/models"
)

func newLedgerRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestMovementRepositoryCreateAndList(t *testing.T) {
	db, mock, cleanup := newLedgerRepoMock(t)
	defer cleanup()

	repo := NewMovementRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO movements")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	movement := &models.Movement{
		DocumentID:     "doc-1",
		FromDepartment: "Planning",
		ToDepartment:   "Records",
		MovedBy:        "clerk-1",
	}
	err := WithinTx(context.Background(), db, func(tx *sqlx.Tx) error {
		return repo.CreateTx(context.Background(), tx, movement)
	})
	require.NoError(t, err)
	require.NotEmpty(t, movement.ID)
	require.False(t, movement.MovedAt.IsZero())

	rows := sqlmock.NewRows([]string{"id", "document_id", "from_department", "to_department", "moved_by", "note", "moved_at"}).
		AddRow(movement.ID, "doc-1", "Planning", "Records", "clerk-1", nil, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, document_id, from_department")).
		WithArgs("doc-1").
		WillReturnRows(rows)

	history, err := repo.ListByDocument(context.Background(), "doc-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, "Records", history[0].ToDepartment)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApprovalRepositoryCreateAndLatest(t *testing.T) {
	db, mock, cleanup := newLedgerRepoMock(t)
	defer cleanup()

	repo := NewApprovalRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO approvals")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	comment := "Missing signature"
	approval := &models.Approval{
		DocumentID: "doc-1",
		DecidedBy:  "supervisor-1",
		Decision:   models.DecisionReject,
		Comment:    &comment,
	}
	err := WithinTx(context.Background(), db, func(tx *sqlx.Tx) error {
		return repo.CreateTx(context.Background(), tx, approval)
	})
	require.NoError(t, err)
	require.NotEmpty(t, approval.ID)

	rows := sqlmock.NewRows([]string{"id", "document_id", "decided_by", "decision", "comment", "decided_at"}).
		AddRow(approval.ID, "doc-1", "supervisor-1", "REJECT", comment, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, document_id, decided_by")).
		WithArgs("doc-1").
		WillReturnRows(rows)

	latest, err := repo.LatestByDocument(context.Background(), "doc-1")
	require.NoError(t, err)
	require.Equal(t, models.DecisionReject, latest.Decision)
	require.NotNil(t, latest.Comment)
	require.Equal(t, comment, *latest.Comment)
	require.NoError(t, mock.ExpectationsWereMet())
}
