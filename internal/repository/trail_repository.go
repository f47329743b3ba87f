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

// TrailRepository manages trail definitions and their ordered steps.
type TrailRepository struct {
	db *sqlx.DB
}

// NewTrailRepository constructs the repository.
func NewTrailRepository(db *sqlx.DB) *TrailRepository {
	return &TrailRepository{db: db}
}

// Create inserts a trail with its steps in one transaction.
func (r *TrailRepository) Create(ctx context.Context, trail *models.Trail) error {
	return WithinTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if trail.ID == "" {
			trail.ID = uuid.NewString()
		}
		now := time.Now().UTC()
		if trail.CreatedAt.IsZero() {
			trail.CreatedAt = now
		}
		trail.UpdatedAt = now
		const insertTrail = `INSERT INTO trails (id, name, description, active, created_by, created_at, updated_at)
		VALUES (:id, :name, :description, :active, :created_by, :created_at, :updated_at)`
		if _, err := tx.NamedExecContext(ctx, insertTrail, trail); err != nil {
			return fmt.Errorf("insert trail: %w", err)
		}
		return r.replaceStepsTx(ctx, tx, trail.ID, trail.Steps)
	})
}

// Update applies changes to trail metadata and rewrites its steps.
func (r *TrailRepository) Update(ctx context.Context, trail *models.Trail) error {
	return WithinTx(ctx, r.db, func(tx *sqlx.Tx) error {
		trail.UpdatedAt = time.Now().UTC()
		const updateQuery = `UPDATE trails SET name = :name, description = :description, active = :active, updated_at = :updated_at WHERE id = :id`
		result, err := tx.NamedExecContext(ctx, updateQuery, trail)
		if err != nil {
			return fmt.Errorf("update trail: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("check trail rows: %w", err)
		}
		if rows == 0 {
			return sql.ErrNoRows
		}
		return r.replaceStepsTx(ctx, tx, trail.ID, trail.Steps)
	})
}

// GetByID returns a trail with its steps in order.
func (r *TrailRepository) GetByID(ctx context.Context, id string) (*models.Trail, error) {
	const query = `SELECT id, name, description, active, created_by, created_at, updated_at FROM trails WHERE id = $1 LIMIT 1`
	var trail models.Trail
	if err := r.db.GetContext(ctx, &trail, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find trail by id: %w", err)
	}
	steps, err := r.loadSteps(ctx, id)
	if err != nil {
		return nil, err
	}
	trail.Steps = steps
	return &trail, nil
}

// List returns trails matching the filter with total count.
func (r *TrailRepository) List(ctx context.Context, filter models.TrailFilter) ([]models.Trail, int, error) {
	baseQuery := `FROM trails WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)+1))
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

	listQuery := fmt.Sprintf("SELECT id, name, description, active, created_by, created_at, updated_at %s ORDER BY name ASC LIMIT %d OFFSET %d", baseQuery, pageSize, offset)

	var trails []models.Trail
	if err := r.db.SelectContext(ctx, &trails, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list trails: %w", err)
	}
	for i := range trails {
		steps, err := r.loadSteps(ctx, trails[i].ID)
		if err != nil {
			return nil, 0, err
		}
		trails[i].Steps = steps
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count trails: %w", err)
	}

	return trails, total, nil
}

// Deactivate performs a soft delete by marking the trail inactive.
func (r *TrailRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE trails SET active = FALSE, updated_at = $2 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("deactivate trail: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check trail rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// replaceStepsTx rewrites trail steps in a transaction.
func (r *TrailRepository) replaceStepsTx(ctx context.Context, tx *sqlx.Tx, trailID string, steps []models.TrailStep) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM trail_steps WHERE trail_id = $1", trailID); err != nil {
		return fmt.Errorf("clear trail steps: %w", err)
	}
	if len(steps) == 0 {
		return nil
	}
	const insertStep = `INSERT INTO trail_steps (id, trail_id, step_order, department)
	VALUES (:id, :trail_id, :step_order, :department)`
	for i := range steps {
		if steps[i].ID == "" {
			steps[i].ID = uuid.NewString()
		}
		steps[i].TrailID = trailID
		steps[i].StepOrder = i + 1
		if _, err := tx.NamedExecContext(ctx, insertStep, steps[i]); err != nil {
			return fmt.Errorf("insert trail step: %w", err)
		}
	}
	return nil
}

func (r *TrailRepository) loadSteps(ctx context.Context, trailID string) ([]models.TrailStep, error) {
	const query = `SELECT id, trail_id, step_order, department FROM trail_steps WHERE trail_id = $1 ORDER BY step_order ASC`
	var steps []models.TrailStep
	if err := r.db.SelectContext(ctx, &steps, query, trailID); err != nil {
		return nil, fmt.Errorf("load trail steps: %w", err)
	}
	return steps, nil
}
