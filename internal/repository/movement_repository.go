package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/simdok/simdok-api/internal/models"
)

// MovementRepository persists the append-only movement ledger.
type MovementRepository struct {
	db *sqlx.DB
}

// NewMovementRepository constructs the repository.
func NewMovementRepository(db *sqlx.DB) *MovementRepository {
	return &MovementRepository{db: db}
}

// CreateTx appends a movement record inside the given transaction.
func (r *MovementRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, movement *models.Movement) error {
	if movement.ID == "" {
		movement.ID = uuid.NewString()
	}
	if movement.MovedAt.IsZero() {
		movement.MovedAt = time.Now().UTC()
	}
	const query = `INSERT INTO movements (id, document_id, from_department, to_department, moved_by, note, moved_at)
	VALUES (:id, :document_id, :from_department, :to_department, :moved_by, :note, :moved_at)`
	if _, err := tx.NamedExecContext(ctx, query, movement); err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// ListByDocument returns the full movement history, oldest first.
func (r *MovementRepository) ListByDocument(ctx context.Context, documentID string) ([]models.Movement, error) {
	const query = `SELECT id, document_id, from_department, to_department, moved_by, note, moved_at
	FROM movements WHERE document_id = $1 ORDER BY moved_at ASC`
	var movements []models.Movement
	if err := r.db.SelectContext(ctx, &movements, query, documentID); err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return movements, nil
}
