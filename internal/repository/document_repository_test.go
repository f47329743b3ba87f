package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/simdok/simdok-api/internal/models"
)

func newDocumentRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func documentRows(doc *models.Document) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "code", "title", "type", "origin_department", "final_destination", "current_department", "status",
		"submitter_id", "trail_id", "current_trail_step", "file_path", "file_mime", "file_size", "qr_code_path", "uploaded_by", "created_at", "updated_at",
	}).AddRow(doc.ID, doc.Code, doc.Title, doc.Type, doc.OriginDepartment, doc.FinalDestination, doc.CurrentDepartment, string(doc.Status),
		doc.SubmitterID, doc.TrailID, doc.CurrentTrailStep, doc.FilePath, doc.FileMime, doc.FileSize, doc.QRCodePath, doc.UploadedBy, time.Now(), time.Now())
}

func TestDocumentRepositoryCreateAndGetByCode(t *testing.T) {
	db, mock, cleanup := newDocumentRepoMock(t)
	defer cleanup()

	repo := NewDocumentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO documents")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	doc := &models.Document{
		Code:              "DOC-2026-12345",
		Title:             "Permit A",
		Type:              "PERMIT",
		OriginDepartment:  "Planning",
		FinalDestination:  "Records",
		CurrentDepartment: "Planning",
		FilePath:          "documents/doc_1.pdf",
		FileMime:          "application/pdf",
		FileSize:          2048,
		UploadedBy:        "clerk-1",
	}
	err := WithinTx(context.Background(), db, func(tx *sqlx.Tx) error {
		return repo.CreateTx(context.Background(), tx, doc)
	})
	require.NoError(t, err)
	require.NotEmpty(t, doc.ID)
	require.Equal(t, models.DocumentStatusPending, doc.Status)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, code, title, type")).
		WithArgs("DOC-2026-12345").
		WillReturnRows(documentRows(doc))

	found, err := repo.GetByCode(context.Background(), "DOC-2026-12345")
	require.NoError(t, err)
	require.Equal(t, doc.ID, found.ID)
	require.Equal(t, doc.Title, found.Title)
	require.Equal(t, doc.CurrentDepartment, found.CurrentDepartment)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryUpdateLocationGuard(t *testing.T) {
	db, mock, cleanup := newDocumentRepoMock(t)
	defer cleanup()

	repo := NewDocumentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE documents")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := WithinTx(context.Background(), db, func(tx *sqlx.Tx) error {
		return repo.UpdateLocationTx(context.Background(), tx, "doc-1", "Planning", "Records", nil)
	})
	require.NoError(t, err)

	// Department moved from under us; guarded update hits zero rows.
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE documents")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err = WithinTx(context.Background(), db, func(tx *sqlx.Tx) error {
		return repo.UpdateLocationTx(context.Background(), tx, "doc-1", "Planning", "Records", nil)
	})
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryUpdateStatusTerminal(t *testing.T) {
	db, mock, cleanup := newDocumentRepoMock(t)
	defer cleanup()

	repo := NewDocumentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE documents SET status")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := WithinTx(context.Background(), db, func(tx *sqlx.Tx) error {
		return repo.UpdateStatusTx(context.Background(), tx, "doc-done", models.DocumentStatusApproved)
	})
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newDocumentRepoMock(t)
	defer cleanup()

	repo := NewDocumentRepository(db)
	doc := &models.Document{
		ID:                "doc-1",
		Code:              "DOC-2026-00001",
		Title:             "Permit A",
		Type:              "PERMIT",
		OriginDepartment:  "Planning",
		FinalDestination:  "Records",
		CurrentDepartment: "Records",
		Status:            models.DocumentStatusInMovement,
		FilePath:          "documents/doc_1.pdf",
		FileMime:          "application/pdf",
		FileSize:          2048,
		UploadedBy:        "clerk-1",
	}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, code, title, type")).
		WithArgs("IN_MOVEMENT", "Records").
		WillReturnRows(documentRows(doc))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("IN_MOVEMENT", "Records").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	docs, total, err := repo.List(context.Background(), models.DocumentFilter{
		Status:     []models.DocumentStatus{models.DocumentStatusInMovement},
		Department: "Records",
	})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, 1, total)
	require.Equal(t, "doc-1", docs[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
