package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/simdok/simdok-api/internal/models"
	appErrors "github.com/simdok/simdok-api/pkg/errors"
	"github.com/simdok/simdok-api/pkg/export"
)

func newExportFixture(t *testing.T) (*ExportService, *stubDocumentStore, *stubMovementLedger) {
	t.Helper()
	docs := &stubDocumentStore{doc: pendingDocument()}
	movements := &stubMovementLedger{}
	note := "routing"
	movements.created = append(movements.created, &models.Movement{
		DocumentID:     "doc-1",
		FromDepartment: "Planning",
		ToDepartment:   "Records",
		MovedBy:        "clerk-1",
		Note:           &note,
		MovedAt:        time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
	})
	svc := NewExportService(docs, movements, &export.CSVExporter{}, export.NewPDFExporter(), zap.NewNop())
	return svc, docs, movements
}

func TestExportMovementHistoryCSV(t *testing.T) {
	svc, _, _ := newExportFixture(t)

	file, err := svc.MovementHistory(context.Background(), "doc-1", "csv", supervisorActor())
	require.NoError(t, err)

	require.Equal(t, "DOC-2026-00001_movements.csv", file.Filename)
	require.Equal(t, "text/csv", file.ContentType)

	body := string(file.Data)
	require.Contains(t, body, "From,To,Moved By,Note,Moved At")
	require.Contains(t, body, "Planning,Records,clerk-1,routing,2026-08-30T10:00:00Z")
}

func TestExportMovementHistoryPDF(t *testing.T) {
	svc, _, _ := newExportFixture(t)

	file, err := svc.MovementHistory(context.Background(), "doc-1", "pdf", supervisorActor())
	require.NoError(t, err)

	require.Equal(t, "DOC-2026-00001_movements.pdf", file.Filename)
	require.Equal(t, "application/pdf", file.ContentType)
	require.True(t, strings.HasPrefix(string(file.Data), "%PDF-"))
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	svc, _, _ := newExportFixture(t)

	_, err := svc.MovementHistory(context.Background(), "doc-1", "xlsx", supervisorActor())
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestExportEnforcesSubmitterScope(t *testing.T) {
	svc, _, _ := newExportFixture(t)

	_, err := svc.MovementHistory(context.Background(), "doc-1", "csv",
		&models.JWTClaims{UserID: "client-99", Role: models.RoleClient})
	require.ErrorIs(t, err, appErrors.ErrForbidden)

	_, err = svc.MovementHistory(context.Background(), "doc-1", "csv",
		&models.JWTClaims{UserID: "client-42", Role: models.RoleClient})
	require.NoError(t, err)
}
