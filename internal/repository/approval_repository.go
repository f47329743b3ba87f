package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/simdok/simdok-api/internal/models"
)

// ApprovalRepository persists the append-only approval ledger.
type ApprovalRepository struct {
	db *sqlx.DB
}

// NewApprovalRepository constructs the repository.
func NewApprovalRepository(db *sqlx.DB) *ApprovalRepository {
	return &ApprovalRepository{db: db}
}

// CreateTx appends an approval record inside the given transaction.
func (r *ApprovalRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, approval *models.Approval) error {
	if approval.ID == "" {
		approval.ID = uuid.NewString()
	}
	if approval.DecidedAt.IsZero() {
		approval.DecidedAt = time.Now().UTC()
	}
	const query = `INSERT INTO approvals (id, document_id, decided_by, decision, comment, decided_at)
	VALUES (:id, :document_id, :decided_by, :decision, :comment, :decided_at)`
	if _, err := tx.NamedExecContext(ctx, query, approval); err != nil {
		return fmt.Errorf("create approval: %w", err)
	}
	return nil
}

// ListByDocument returns all decisions for a document, oldest first.
func (r *ApprovalRepository) ListByDocument(ctx context.Context, documentID string) ([]models.Approval, error) {
	const query = `SELECT id, document_id, decided_by, decision, comment, decided_at
	FROM approvals WHERE document_id = $1 ORDER BY decided_at ASC`
	var approvals []models.Approval
	if err := r.db.SelectContext(ctx, &approvals, query, documentID); err != nil {
		return nil, fmt.Errorf("list approvals: %w", err)
	}
	return approvals, nil
}

// LatestByDocument returns the most recent decision for a document.
func (r *ApprovalRepository) LatestByDocument(ctx context.Context, documentID string) (*models.Approval, error) {
	const query = `SELECT id, document_id, decided_by, decision, comment, decided_at
	FROM approvals WHERE document_id = $1 ORDER BY decided_at DESC LIMIT 1`
	var approval models.Approval
	if err := r.db.GetContext(ctx, &approval, query, documentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("latest approval: %w", err)
	}
	return &approval, nil
}
