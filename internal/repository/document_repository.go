package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/simdok/simdok-api/internal/models"
)

const documentColumns = `id, code, title, type, origin_department, final_destination, current_department, status,
       submitter_id, trail_id, current_trail_step, file_path, file_mime, file_size, qr_code_path, uploaded_by, created_at, updated_at`

// DocumentRepository persists tracked documents.
type DocumentRepository struct {
	db *sqlx.DB
}

// NewDocumentRepository constructs the repository.
func NewDocumentRepository(db *sqlx.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// CreateTx inserts a new document row inside the given transaction.
func (r *DocumentRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, doc *models.Document) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.Status == "" {
		doc.Status = models.DocumentStatusPending
	}
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now
	const query = `INSERT INTO documents
	(id, code, title, type, origin_department, final_destination, current_department, status, submitter_id, trail_id, current_trail_step, file_path, file_mime, file_size, qr_code_path, uploaded_by, created_at, updated_at)
	VALUES (:id, :code, :title, :type, :origin_department, :final_destination, :current_department, :status, :submitter_id, :trail_id, :current_trail_step, :file_path, :file_mime, :file_size, :qr_code_path, :uploaded_by, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, doc); err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

// GetByID fetches a document by identifier.
func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1 LIMIT 1`
	var doc models.Document
	if err := r.db.GetContext(ctx, &doc, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find document by id: %w", err)
	}
	return &doc, nil
}

// GetByCode fetches a document by its external tracking code.
func (r *DocumentRepository) GetByCode(ctx context.Context, code string) (*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE code = $1 LIMIT 1`
	var doc models.Document
	if err := r.db.GetContext(ctx, &doc, query, code); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find document by code: %w", err)
	}
	return &doc, nil
}

// List returns documents matching the filter with total count, latest first.
func (r *DocumentRepository) List(ctx context.Context, filter models.DocumentFilter) ([]models.Document, int, error) {
	baseQuery := `FROM documents WHERE 1=1`
	var conditions []string
	var args []interface{}

	if len(filter.Status) > 0 {
		placeholders := make([]string, len(filter.Status))
		for i, status := range filter.Status {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conditions = append(conditions, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("current_department = $%d", len(args)+1))
		args = append(args, filter.Department)
	}
	if filter.Type != "" {
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)+1))
		args = append(args, filter.Type)
	}
	if filter.SubmitterID != "" {
		conditions = append(conditions, fmt.Sprintf("submitter_id = $%d", len(args)+1))
		args = append(args, filter.SubmitterID)
	}
	if filter.UploadedBy != "" {
		conditions = append(conditions, fmt.Sprintf("uploaded_by = $%d", len(args)+1))
		args = append(args, filter.UploadedBy)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(title) LIKE $%d OR LOWER(code) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", documentColumns, baseQuery, pageSize, offset)

	var docs []models.Document
	if err := r.db.SelectContext(ctx, &docs, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list documents: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count documents: %w", err)
	}

	return docs, total, nil
}

// UpdateLocationTx moves a document to a new department inside the given
// transaction. The update is guarded by the expected current department so a
// concurrent move loses with sql.ErrNoRows instead of corrupting the ledger.
func (r *DocumentRepository) UpdateLocationTx(ctx context.Context, tx *sqlx.Tx, id, fromDepartment, toDepartment string, step *int) error {
	const query = `UPDATE documents
	SET current_department = $3, status = $4, current_trail_step = COALESCE($5, current_trail_step), updated_at = $6
	WHERE id = $1 AND current_department = $2 AND status <> $7`
	result, err := tx.ExecContext(ctx, query, id, fromDepartment, toDepartment, models.DocumentStatusInMovement, step, time.Now().UTC(), models.DocumentStatusDone)
	if err != nil {
		return fmt.Errorf("update document location: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check document location rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateStatusTx sets the document status inside the given transaction.
// Completed documents are never updated; callers get sql.ErrNoRows instead.
func (r *DocumentRepository) UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, id string, status models.DocumentStatus) error {
	const query = `UPDATE documents SET status = $2, updated_at = $3 WHERE id = $1 AND status <> $4`
	result, err := tx.ExecContext(ctx, query, id, status, time.Now().UTC(), models.DocumentStatusDone)
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check document status rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetQRCodePath stores the generated tracking artifact location.
func (r *DocumentRepository) SetQRCodePath(ctx context.Context, id, path string) error {
	const query = `UPDATE documents SET qr_code_path = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, path, time.Now().UTC()); err != nil {
		return fmt.Errorf("set document qr path: %w", err)
	}
	return nil
}
