package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/simdok/simdok-api/internal/models"
	appErrors "github.com/simdok/simdok-api/pkg/errors"
	"github.com/simdok/simdok-api/pkg/export"
)

type csvRenderer interface {
	Render(report export.Report) ([]byte, error)
}

type pdfRenderer interface {
	Render(report export.Report) ([]byte, error)
}

// ExportFile bundles rendered bytes with download metadata.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders a document's movement ledger for download.
type ExportService struct {
	byID      documentFinder
	movements trackMovementLister
	csv       csvRenderer
	pdf       pdfRenderer
	logger    *zap.Logger
}

type documentFinder interface {
	GetByID(ctx context.Context, id string) (*models.Document, error)
}

// NewExportService constructs the service.
func NewExportService(byID documentFinder, movements trackMovementLister, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{byID: byID, movements: movements, csv: csv, pdf: pdf, logger: logger}
}

// MovementHistory renders the movement ledger in the requested format.
// Supported formats: csv, pdf.
func (s *ExportService) MovementHistory(ctx context.Context, documentID, format string, actor *models.JWTClaims) (*ExportFile, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	doc, err := s.byID.GetByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load document")
	}
	if err := ensureDocumentScope(doc, actor); err != nil {
		return nil, err
	}
	movements, err := s.movements.ListByDocument(ctx, doc.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load movement history")
	}

	report := buildMovementReport(doc, movements)
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		data, err := s.csv.Render(report)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportFile{
			Filename:    fmt.Sprintf("%s_movements.csv", doc.Code),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	case "pdf":
		data, err := s.pdf.Render(report)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportFile{
			Filename:    fmt.Sprintf("%s_movements.pdf", doc.Code),
			ContentType: "application/pdf",
			Data:        data,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

func buildMovementReport(doc *models.Document, movements []models.Movement) export.Report {
	headers := []string{"From", "To", "Moved By", "Note", "Moved At"}
	rows := make([]map[string]string, 0, len(movements))
	for _, movement := range movements {
		note := ""
		if movement.Note != nil {
			note = *movement.Note
		}
		rows = append(rows, map[string]string{
			"From":     movement.FromDepartment,
			"To":       movement.ToDepartment,
			"Moved By": movement.MovedBy,
			"Note":     note,
			"Moved At": movement.MovedAt.UTC().Format(time.RFC3339),
		})
	}
	return export.Report{
		Title:   fmt.Sprintf("Movement History %s", doc.Code),
		Headers: headers,
		Rows:    rows,
	}
}
